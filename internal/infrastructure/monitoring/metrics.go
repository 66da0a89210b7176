package monitoring

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/GriffinCanCode/ProgramFactory/internal/domain/dispatch"
	"github.com/GriffinCanCode/ProgramFactory/internal/shared/types"
)

var _ dispatch.Observer = (*Metrics)(nil)

// Metrics holds all Prometheus metrics, registered on a private registry
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Factory metrics
	CommandsTotal   *prometheus.CounterVec
	CommandDuration *prometheus.HistogramVec
	ProgramsCreated prometheus.Counter
	ProgramsLive    prometheus.Gauge
	SpawnFailures   *prometheus.CounterVec
	QueriesTotal    *prometheus.CounterVec

	// gRPC metrics
	GRPCCalls    *prometheus.CounterVec
	GRPCDuration *prometheus.HistogramVec

	// WebSocket metrics
	WSConnections prometheus.Gauge

	snapshot Snapshot
	mu       sync.RWMutex
}

// Snapshot holds current values for the health endpoint
type Snapshot struct {
	Commands        int64 `json:"commands"`
	FailedCommands  int64 `json:"failed_commands"`
	Queries         int64 `json:"queries"`
	ProgramsCreated int64 `json:"programs_created"`
	ProgramsLive    int64 `json:"programs_live"`
}

// NewMetrics creates a metrics collector with its own registry
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "factory_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "factory_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),

		CommandsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "factory_commands_total",
				Help: "Total number of handled commands by action and outcome",
			},
			[]string{"action", "outcome"},
		),
		CommandDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "factory_command_duration_seconds",
				Help:    "Command handling duration in seconds, spawn wait included",
				Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5, 30},
			},
			[]string{"action"},
		),
		ProgramsCreated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "factory_programs_created_total",
				Help: "Total number of child programs created",
			},
		),
		ProgramsLive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "factory_programs_live",
				Help: "Number of programs in the id to address index",
			},
		),
		SpawnFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "factory_spawn_failures_total",
				Help: "Total number of failed spawns by stage",
			},
			[]string{"stage"},
		),
		QueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "factory_queries_total",
				Help: "Total number of served state queries",
			},
			[]string{"query"},
		),

		GRPCCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "factory_grpc_calls_total",
				Help: "Total number of gRPC calls",
			},
			[]string{"method", "code"},
		),
		GRPCDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "factory_grpc_duration_seconds",
				Help:    "gRPC call duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"method"},
		),

		WSConnections: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "factory_ws_connections",
				Help: "Number of open event stream connections",
			},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RequestsTotal, m.RequestDuration,
		m.CommandsTotal, m.CommandDuration, m.ProgramsCreated, m.ProgramsLive,
		m.SpawnFailures, m.QueriesTotal,
		m.GRPCCalls, m.GRPCDuration,
		m.WSConnections,
	)
	return m
}

// Registry returns the registry the collectors live on
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// CommandHandled records one dispatched command
func (m *Metrics) CommandHandled(cmd dispatch.Command) {
	action := cmd.Action.ActionName()
	outcome := cmd.Result.Outcome()

	m.CommandsTotal.WithLabelValues(action, outcome).Inc()
	m.CommandDuration.WithLabelValues(action).Observe(cmd.Elapsed.Seconds())
	m.ProgramsLive.Set(float64(cmd.LiveCount))
	if cmd.FailedStage != "" {
		m.SpawnFailures.WithLabelValues(cmd.FailedStage).Inc()
	}

	_, created := cmd.Result.Event.(types.ProgramCreated)
	if created {
		m.ProgramsCreated.Inc()
	}

	m.mu.Lock()
	m.snapshot.Commands++
	if !cmd.Result.IsOk() {
		m.snapshot.FailedCommands++
	}
	if created {
		m.snapshot.ProgramsCreated++
	}
	m.snapshot.ProgramsLive = int64(cmd.LiveCount)
	m.mu.Unlock()
}

// QueryServed records one served state query
func (m *Metrics) QueryServed(q types.Query, _ time.Duration) {
	m.QueriesTotal.WithLabelValues(q.String()).Inc()

	m.mu.Lock()
	m.snapshot.Queries++
	m.mu.Unlock()
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordGRPCCall records a gRPC call
func (m *Metrics) RecordGRPCCall(method, code string, duration time.Duration) {
	m.GRPCCalls.WithLabelValues(method, code).Inc()
	m.GRPCDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// IncWSConnections increments event stream connections
func (m *Metrics) IncWSConnections() {
	m.WSConnections.Inc()
}

// DecWSConnections decrements event stream connections
func (m *Metrics) DecWSConnections() {
	m.WSConnections.Dec()
}

// Snapshot returns the current counter values
func (m *Metrics) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot
}
