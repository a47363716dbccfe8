// ABOUTME: YAML configuration for the commsdesk server
// ABOUTME: Command line flags override values read from the file

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nainya/commsdesk/pkg/query"
)

// Config is the top-level structure of commsdesk.yaml
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
	Latency LatencyConfig `yaml:"latency"`
	Seed    SeedConfig    `yaml:"seed"`
}

// ServerConfig holds listener ports
type ServerConfig struct {
	GrpcPort    int `yaml:"grpc_port"`
	HttpPort    int `yaml:"http_port"`
	MetricsPort int `yaml:"metrics_port"`
}

// LogConfig is passed through to logger.Config
type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// LatencyConfig is the simulated delay per operation class, in milliseconds
type LatencyConfig struct {
	CallsMs  int `yaml:"calls_ms"`
	FetchMs  int `yaml:"fetch_ms"`
	FindMs   int `yaml:"find_ms"`
	ActionMs int `yaml:"action_ms"`
}

// SeedConfig selects where the initial data comes from. When File is
// empty a data set is generated from Calls, Threads and RandomSeed.
type SeedConfig struct {
	File       string `yaml:"file"`
	Watch      bool   `yaml:"watch"`
	Calls      int    `yaml:"calls"`
	Threads    int    `yaml:"threads"`
	RandomSeed int64  `yaml:"random_seed"`
}

// DefaultConfig returns the stock configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			GrpcPort:    50051,
			HttpPort:    8080,
			MetricsPort: 9090,
		},
		Log: LogConfig{
			Level: "info",
		},
		Latency: LatencyConfig{
			CallsMs:  500,
			FetchMs:  400,
			FindMs:   250,
			ActionMs: 300,
		},
		Seed: SeedConfig{
			Calls:      25,
			Threads:    12,
			RandomSeed: 1,
		},
	}
}

// ReadConfig reads a YAML file on top of the defaults, so keys absent from
// the file keep their default values.
func ReadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// WriteConfig writes cfg to path, creating parent directories
func WriteConfig(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Validate checks ports, log level and latencies
func (c *Config) Validate() error {
	if err := validPort("grpc_port", c.Server.GrpcPort); err != nil {
		return err
	}
	if err := validPort("http_port", c.Server.HttpPort); err != nil {
		return err
	}
	if err := validPort("metrics_port", c.Server.MetricsPort); err != nil {
		return err
	}
	if c.Server.GrpcPort == c.Server.HttpPort ||
		c.Server.GrpcPort == c.Server.MetricsPort ||
		c.Server.HttpPort == c.Server.MetricsPort {
		return fmt.Errorf("server ports must differ, got %d, %d and %d",
			c.Server.GrpcPort, c.Server.HttpPort, c.Server.MetricsPort)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}

	for name, ms := range map[string]int{
		"calls_ms":  c.Latency.CallsMs,
		"fetch_ms":  c.Latency.FetchMs,
		"find_ms":   c.Latency.FindMs,
		"action_ms": c.Latency.ActionMs,
	} {
		if ms < 0 {
			return fmt.Errorf("latency %s must not be negative, got %d", name, ms)
		}
	}

	if c.Seed.File == "" && (c.Seed.Calls < 0 || c.Seed.Threads < 0) {
		return fmt.Errorf("seed counts must not be negative")
	}
	if c.Seed.Watch && c.Seed.File == "" {
		return fmt.Errorf("seed watch requires a seed file")
	}
	return nil
}

func validPort(name string, port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("%s out of range: %d", name, port)
	}
	return nil
}

// QueryLatency converts the millisecond settings for the query engine
func (c *Config) QueryLatency() query.Latency {
	return query.Latency{
		Calls:  time.Duration(c.Latency.CallsMs) * time.Millisecond,
		Fetch:  time.Duration(c.Latency.FetchMs) * time.Millisecond,
		Find:   time.Duration(c.Latency.FindMs) * time.Millisecond,
		Action: time.Duration(c.Latency.ActionMs) * time.Millisecond,
	}
}
