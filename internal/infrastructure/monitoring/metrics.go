// Package monitoring provides Prometheus metrics and OpenTelemetry tracing
package monitoring

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/weeklydish/planner/internal/domain/mealplan"
	"github.com/weeklydish/planner/internal/domain/recipe"
	"github.com/weeklydish/planner/internal/ports/outbound"
	"go.uber.org/zap"
)

const namespace = "weeklydish"

// MetricsCollector handles Prometheus metrics collection
type MetricsCollector struct {
	logger   *zap.Logger
	registry *prometheus.Registry

	// HTTP metrics
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpInFlight        prometheus.Gauge

	// Planner metrics
	generationsTotal    prometheus.Counter
	generationDuration  prometheus.Histogram
	generationDates     prometheus.Histogram
	picksRequestedTotal prometheus.Counter
	picksDrawnTotal     prometheus.Counter
	shortfallsTotal     *prometheus.CounterVec
	savedEntriesTotal   prometheus.Counter
	shoppingListItems   prometheus.Histogram
}

// NewMetricsCollector creates a collector on its own registry, with the Go
// runtime and process collectors attached
func NewMetricsCollector(logger *zap.Logger) *MetricsCollector {
	m := &MetricsCollector{
		logger:   logger.Named("metrics"),
		registry: prometheus.NewRegistry(),

		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status_code"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		httpInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "Requests currently being served",
			},
		),

		generationsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "plan_generations_total",
				Help:      "Total number of meal plan generations",
			},
		),
		generationDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "plan_generation_duration_seconds",
				Help:      "Time spent drawing a calendar",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
		),
		generationDates: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "plan_generation_dates",
				Help:      "Number of dates covered by a generation",
				Buckets:   []float64{1, 7, 14, 31, 62},
			},
		),
		picksRequestedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "plan_picks_requested_total",
				Help:      "Recipe picks requested by slot targets",
			},
		),
		picksDrawnTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "plan_picks_drawn_total",
				Help:      "Recipe picks actually placed",
			},
		),
		shortfallsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "plan_pool_shortfalls_total",
				Help:      "Slots that received fewer picks than requested",
			},
			[]string{"slot", "course_role"},
		),
		savedEntriesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "plan_entries_saved_total",
				Help:      "Plan entries persisted",
			},
		),
		shoppingListItems: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "shopping_list_items",
				Help:      "Number of items in built shopping lists",
				Buckets:   []float64{0, 5, 10, 20, 40, 80},
			},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.httpInFlight,
		m.generationsTotal,
		m.generationDuration,
		m.generationDates,
		m.picksRequestedTotal,
		m.picksDrawnTotal,
		m.shortfallsTotal,
		m.savedEntriesTotal,
		m.shoppingListItems,
	)

	return m
}

// RegisterDBStats exports the connection pool statistics of db
func (m *MetricsCollector) RegisterDBStats(db *sql.DB, name string) {
	if err := m.registry.Register(collectors.NewDBStatsCollector(db, name)); err != nil {
		m.logger.Warn("Failed to register database stats collector", zap.Error(err))
	}
}

// ObserveHTTP records one finished request. route is the matched pattern,
// never the raw path.
func (m *MetricsCollector) ObserveHTTP(method, route string, status int, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// InFlight tracks concurrent requests; call the returned func when done
func (m *MetricsCollector) InFlight() func() {
	m.httpInFlight.Inc()
	return m.httpInFlight.Dec
}

func (m *MetricsCollector) ObserveGeneration(dates, requested, drawn int, duration time.Duration) {
	m.generationsTotal.Inc()
	m.generationDuration.Observe(duration.Seconds())
	m.generationDates.Observe(float64(dates))
	m.picksRequestedTotal.Add(float64(requested))
	m.picksDrawnTotal.Add(float64(drawn))
}

func (m *MetricsCollector) RecordShortfall(slot mealplan.Slot, role recipe.CourseRole) {
	m.shortfallsTotal.WithLabelValues(string(slot), string(role)).Inc()
}

func (m *MetricsCollector) RecordSavedEntries(n int) {
	m.savedEntriesTotal.Add(float64(n))
}

func (m *MetricsCollector) ObserveShoppingList(items int) {
	m.shoppingListItems.Observe(float64(items))
}

// Registry exposes the underlying registry
func (m *MetricsCollector) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the Prometheus metrics handler
func (m *MetricsCollector) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorLog: zap.NewStdLog(m.logger),
	})
}

var _ outbound.PlannerMetrics = (*MetricsCollector)(nil)
