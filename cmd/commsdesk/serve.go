// serve.go implements "commsdesk serve": the gRPC, HTTP API and
// observability listeners over one query engine.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/nainya/commsdesk/internal/config"
	"github.com/nainya/commsdesk/internal/logger"
	"github.com/nainya/commsdesk/internal/metrics"
	"github.com/nainya/commsdesk/internal/server"
	"github.com/nainya/commsdesk/pkg/calllog"
	"github.com/nainya/commsdesk/pkg/contact"
	"github.com/nainya/commsdesk/pkg/query"
	"github.com/nainya/commsdesk/pkg/seed"
	"github.com/nainya/commsdesk/pkg/sms"
)

type serveOptions struct {
	configPath  string
	grpcPort    int
	httpPort    int
	metricsPort int
	seedFile    string
	watch       bool
	logLevel    string
	pretty      bool
}

func newServeCmd() *cobra.Command {
	return newServeCmdWith(&serveOptions{})
}

// newServeCmdWith binds the serve flags to opts
func newServeCmdWith(opts *serveOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the gRPC and HTTP servers",
		Long: `Start the CommsDesk gRPC service, the JSON HTTP API and the
observability endpoints (/metrics, /health, /ready, /debug/pprof).

Flags override values from --config.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, opts)
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "YAML config file")
	cmd.Flags().IntVar(&opts.grpcPort, "grpc-port", 50051, "gRPC listen port")
	cmd.Flags().IntVar(&opts.httpPort, "http-port", 8080, "HTTP API listen port")
	cmd.Flags().IntVar(&opts.metricsPort, "metrics-port", 9090, "Observability listen port")
	cmd.Flags().StringVar(&opts.seedFile, "seed-file", "", "JSON fixture to load instead of generated data")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "Reload the seed file when it changes")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.Flags().BoolVar(&opts.pretty, "pretty", false, "Human readable console logs")

	return cmd
}

// resolveConfig reads --config when given and applies explicitly set flags
func resolveConfig(cmd *cobra.Command, opts *serveOptions) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.ReadConfig(opts.configPath); err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("grpc-port") {
		cfg.Server.GrpcPort = opts.grpcPort
	}
	if flags.Changed("http-port") {
		cfg.Server.HttpPort = opts.httpPort
	}
	if flags.Changed("metrics-port") {
		cfg.Server.MetricsPort = opts.metricsPort
	}
	if flags.Changed("seed-file") {
		cfg.Seed.File = opts.seedFile
	}
	if flags.Changed("watch") {
		cfg.Seed.Watch = opts.watch
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = opts.logLevel
	}
	if flags.Changed("pretty") {
		cfg.Log.Pretty = opts.pretty
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// loadDataset returns the initial data and a description of its source
func loadDataset(cfg *config.Config) (*seed.Dataset, string, error) {
	if cfg.Seed.File != "" {
		ds, err := seed.LoadFile(cfg.Seed.File)
		if err != nil {
			return nil, "", err
		}
		return ds, cfg.Seed.File, nil
	}

	opts := seed.DefaultOptions()
	opts.Calls = cfg.Seed.Calls
	opts.Threads = cfg.Seed.Threads
	opts.Seed = cfg.Seed.RandomSeed
	return seed.Generate(opts), fmt.Sprintf("generated(seed=%d)", opts.Seed), nil
}

func newEngine(ds *seed.Dataset, opts ...query.Option) *query.Engine {
	return query.NewEngine(
		calllog.NewStore(ds.Calls),
		sms.NewStore(ds.Threads, ds.SmartReplies),
		contact.NewStore(),
		opts...,
	)
}

func runServe(ctx context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.InitGlobalLogger(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
	log := logger.GetGlobalLogger()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewMetrics(reg)
	m.StartUptime(15 * time.Second)
	defer m.Stop()

	ds, source, err := loadDataset(cfg)
	if err != nil {
		return err
	}

	engine := newEngine(ds,
		query.WithLatency(cfg.QueryLatency()),
		query.WithLogger(log),
		query.WithMetrics(m),
	)
	srv := server.NewServer(engine)

	if cfg.Seed.Watch {
		err := seed.Watch(ctx, cfg.Seed.File, func(ds *seed.Dataset, err error) {
			m.RecordSeedReload(err)
			if err != nil {
				log.Warn("Seed reload failed").Err(err).Send()
				return
			}
			engine.Reload(ds.Calls, ds.Threads, ds.SmartReplies)
			log.Info("Seed data reloaded").
				Int("calls", len(ds.Calls)).
				Int("threads", len(ds.Threads)).
				Send()
		})
		if err != nil {
			return err
		}
	}

	log.LogServerStart(cfg.Server.GrpcPort, cfg.Server.HttpPort, source)

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Server.GrpcPort))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(server.GrpcMetricsInterceptor(m, log)))
	server.RegisterCommsDeskServer(grpcServer, srv)

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus(server.ServiceName, healthpb.HealthCheckResponse_SERVING)

	// Register reflection service for grpcurl/grpcui
	reflection.Register(grpcServer)

	apiServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.HttpPort),
		Handler:           server.NewAPI(srv, m, log),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	obs := server.NewObservabilityServer(cfg.Server.MetricsPort, reg, log)

	errCh := make(chan error, 3)
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			errCh <- fmt.Errorf("grpc server failed: %w", err)
		}
	}()
	go func() {
		if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server failed: %w", err)
		}
	}()
	go func() {
		if err := obs.Start(); err != nil {
			errCh <- err
		}
	}()

	obs.SetReady(true)
	log.LogServerReady(cfg.Server.GrpcPort)

	select {
	case <-ctx.Done():
	case err = <-errCh:
		log.Error("Server failed").Err(err).Send()
	}

	log.LogServerShutdown()
	obs.SetReady(false)
	healthServer.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		log.Warn("HTTP shutdown incomplete").Err(err).Send()
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		log.Warn("Observability shutdown incomplete").Err(err).Send()
	}
	grpcServer.GracefulStop()

	return err
}
