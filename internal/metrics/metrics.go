// Package metrics provides Prometheus metrics for commsdesk
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for commsdesk.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// gRPC request metrics
	RpcRequestsTotal    *prometheus.CounterVec
	RpcRequestDuration  *prometheus.HistogramVec
	RpcRequestsInFlight prometheus.Gauge

	// HTTP API metrics
	HttpRequestsTotal   *prometheus.CounterVec
	HttpRequestDuration *prometheus.HistogramVec

	// Store metrics
	StoreOperationsTotal   *prometheus.CounterVec
	StoreOperationDuration *prometheus.HistogramVec
	CallsTotal             prometheus.Gauge
	QualifiedCallsTotal    prometheus.Gauge
	ThreadsTotal           prometheus.Gauge
	MessagesTotal          prometheus.Gauge

	// Domain operation metrics
	MessagesSentTotal         prometheus.Counter
	QualificationChangesTotal *prometheus.CounterVec
	TimelineBuildsTotal       prometheus.Counter
	TimelineItems             prometheus.Histogram
	SeedReloadsTotal          *prometheus.CounterVec

	// Server metrics
	ServerUptimeSeconds prometheus.Gauge
	ServerStartTime     time.Time

	stopOnce sync.Once
	stop     chan struct{}
}

// NewMetrics creates all metrics and registers them with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	m := &Metrics{
		ServerStartTime: time.Now(),
		stop:            make(chan struct{}),
	}

	m.RpcRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "commsdesk_grpc_requests_total",
			Help: "Total number of gRPC requests",
		},
		[]string{"method", "status"},
	)

	m.RpcRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "commsdesk_grpc_request_duration_seconds",
			Help:    "Duration of gRPC requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	m.RpcRequestsInFlight = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "commsdesk_grpc_requests_in_flight",
			Help: "Number of gRPC requests currently being processed",
		},
	)

	m.HttpRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "commsdesk_http_requests_total",
			Help: "Total number of HTTP API requests",
		},
		[]string{"route", "code"},
	)

	m.HttpRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "commsdesk_http_request_duration_seconds",
			Help:    "Duration of HTTP API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	m.StoreOperationsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "commsdesk_store_operations_total",
			Help: "Total number of data store operations",
		},
		[]string{"operation", "status"},
	)

	m.StoreOperationDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "commsdesk_store_operation_duration_seconds",
			Help:    "Duration of data store operations in seconds, simulated latency included",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"operation"},
	)

	m.CallsTotal = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "commsdesk_calls_total",
			Help: "Number of call records in the store",
		},
	)

	m.QualifiedCallsTotal = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "commsdesk_qualified_calls_total",
			Help: "Number of call records flagged as qualified",
		},
	)

	m.ThreadsTotal = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "commsdesk_threads_total",
			Help: "Number of SMS threads in the store",
		},
	)

	m.MessagesTotal = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "commsdesk_messages_total",
			Help: "Number of SMS messages across all threads",
		},
	)

	m.MessagesSentTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "commsdesk_messages_sent_total",
			Help: "Total number of outbound messages appended",
		},
	)

	m.QualificationChangesTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "commsdesk_qualification_changes_total",
			Help: "Total number of qualification flag updates",
		},
		[]string{"qualified"},
	)

	m.TimelineBuildsTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "commsdesk_timeline_builds_total",
			Help: "Total number of contact timelines merged",
		},
	)

	m.TimelineItems = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "commsdesk_timeline_items",
			Help:    "Number of interactions per merged timeline",
			Buckets: []float64{0, 5, 10, 20, 50, 100},
		},
	)

	m.SeedReloadsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "commsdesk_seed_reloads_total",
			Help: "Total number of seed fixture reloads",
		},
		[]string{"status"},
	)

	m.ServerUptimeSeconds = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "commsdesk_server_uptime_seconds",
			Help: "Server uptime in seconds",
		},
	)

	return m
}

// StartUptime periodically updates the uptime gauge until Stop is called
func (m *Metrics) StartUptime(interval time.Duration) {
	if m == nil {
		return
	}
	go m.updateUptime(interval)
}

func (m *Metrics) updateUptime(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.ServerUptimeSeconds.Set(time.Since(m.ServerStartTime).Seconds())
		}
	}
}

// Stop ends the uptime updater
func (m *Metrics) Stop() {
	if m == nil {
		return
	}
	m.stopOnce.Do(func() { close(m.stop) })
}

// RecordRpcRequest records a gRPC request with its status
func (m *Metrics) RecordRpcRequest(method string, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.RpcRequestsTotal.WithLabelValues(method, status).Inc()
	m.RpcRequestDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// RecordHttpRequest records an HTTP API request
func (m *Metrics) RecordHttpRequest(route string, code string, duration time.Duration) {
	if m == nil {
		return
	}
	m.HttpRequestsTotal.WithLabelValues(route, code).Inc()
	m.HttpRequestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordStoreOperation records a data store operation
func (m *Metrics) RecordStoreOperation(operation string, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.StoreOperationsTotal.WithLabelValues(operation, status).Inc()
	m.StoreOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordMessageSent counts an appended outbound message
func (m *Metrics) RecordMessageSent() {
	if m == nil {
		return
	}
	m.MessagesSentTotal.Inc()
}

// RecordQualificationChange counts a qualification update
func (m *Metrics) RecordQualificationChange(qualified bool) {
	if m == nil {
		return
	}
	label := "false"
	if qualified {
		label = "true"
	}
	m.QualificationChangesTotal.WithLabelValues(label).Inc()
}

// RecordTimelineBuild records the size of a merged timeline
func (m *Metrics) RecordTimelineBuild(items int) {
	if m == nil {
		return
	}
	m.TimelineBuildsTotal.Inc()
	m.TimelineItems.Observe(float64(items))
}

// RecordSeedReload records a fixture reload attempt
func (m *Metrics) RecordSeedReload(err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.SeedReloadsTotal.WithLabelValues(status).Inc()
}

// UpdateStoreStats updates data set gauges
func (m *Metrics) UpdateStoreStats(calls, qualified, threads, messages int) {
	if m == nil {
		return
	}
	m.CallsTotal.Set(float64(calls))
	m.QualifiedCallsTotal.Set(float64(qualified))
	m.ThreadsTotal.Set(float64(threads))
	m.MessagesTotal.Set(float64(messages))
}
