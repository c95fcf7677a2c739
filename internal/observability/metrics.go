// Package observability wires Prometheus metrics and OpenTelemetry tracing
// for the defense engine and its HTTP surface.
package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// EngineCollector bundles the engine's Prometheus metrics and provides
// helpers to wire them into the HTTP server. It satisfies the engine's
// Recorder interface.
type EngineCollector struct {
	gatherer prometheus.Gatherer

	HTTPRequests  *prometheus.CounterVec
	HTTPDurations *prometheus.HistogramVec

	ActiveObjects prometheus.Gauge
	BudgetM       prometheus.Gauge
	Trust         prometheus.Gauge
	Score         prometheus.Gauge

	Outcomes *prometheus.CounterVec
	Actions  *prometheus.CounterVec
	Spawns   *prometheus.CounterVec
}

// NewEngineCollector registers the engine metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewEngineCollector(reg prometheus.Registerer) (*EngineCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	requests, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "defense_http_requests_total",
		Help: "Total handled HTTP requests, labeled by route, method, and status class.",
	}, []string{"route", "method", "status"}), "defense_http_requests_total")
	if err != nil {
		return nil, err
	}

	durations, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "defense_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}, []string{"route", "method"}), "defense_http_request_duration_seconds")
	if err != nil {
		return nil, err
	}

	active, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "defense_active_objects",
		Help: "Current number of active near-Earth objects in the simulation.",
	}), "defense_active_objects")
	if err != nil {
		return nil, err
	}
	budget, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "defense_budget_millions",
		Help: "Remaining program budget in $M.",
	}), "defense_budget_millions")
	if err != nil {
		return nil, err
	}
	trust, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "defense_public_trust",
		Help: "Public trust score, 0-100.",
	}), "defense_public_trust")
	if err != nil {
		return nil, err
	}
	score, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "defense_total_score",
		Help: "Accumulated simulation score.",
	}), "defense_total_score")
	if err != nil {
		return nil, err
	}

	outcomes, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "defense_outcomes_total",
		Help: "Resolved object outcomes, labeled hit or miss.",
	}, []string{"result"}), "defense_outcomes_total")
	if err != nil {
		return nil, err
	}
	actions, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "defense_actions_total",
		Help: "Operator actions, labeled by action and acceptance status.",
	}, []string{"action", "status"}), "defense_actions_total")
	if err != nil {
		return nil, err
	}
	spawns, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "defense_spawned_objects_total",
		Help: "Generated objects, labeled by attribute origin.",
	}, []string{"origin"}), "defense_spawned_objects_total")
	if err != nil {
		return nil, err
	}

	return &EngineCollector{
		gatherer:      gatherer,
		HTTPRequests:  requests,
		HTTPDurations: durations,
		ActiveObjects: active,
		BudgetM:       budget,
		Trust:         trust,
		Score:         score,
		Outcomes:      outcomes,
		Actions:       actions,
		Spawns:        spawns,
	}, nil
}

// SetEngineGauges implements the engine's Recorder interface.
func (c *EngineCollector) SetEngineGauges(activeObjects int, budgetM, trust, score float64) {
	if c == nil {
		return
	}
	c.ActiveObjects.Set(float64(activeObjects))
	c.BudgetM.Set(budgetM)
	c.Trust.Set(trust)
	c.Score.Set(score)
}

// ObserveOutcome implements the engine's Recorder interface.
func (c *EngineCollector) ObserveOutcome(result string) {
	if c == nil {
		return
	}
	c.Outcomes.WithLabelValues(result).Inc()
}

// ObserveAction implements the engine's Recorder interface.
func (c *EngineCollector) ObserveAction(action, status string) {
	if c == nil {
		return
	}
	c.Actions.WithLabelValues(action, status).Inc()
}

// ObserveSpawn implements the engine's Recorder interface.
func (c *EngineCollector) ObserveSpawn(origin string) {
	if c == nil {
		return
	}
	c.Spawns.WithLabelValues(origin).Inc()
}

// Middleware records request counts and durations for one named route.
func (c *EngineCollector) Middleware(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c == nil {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		c.HTTPRequests.WithLabelValues(route, r.Method, statusClass(sw.status)).Inc()
		c.HTTPDurations.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

// Handler exposes a ready-to-use /metrics handler.
func (c *EngineCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func statusClass(code int) string {
	return fmt.Sprintf("%dxx", code/100)
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
