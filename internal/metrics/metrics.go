package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service counters. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	registry *prometheus.Registry

	matchResults   *prometheus.CounterVec
	matchFallbacks *prometheus.CounterVec
	aiCalls        *prometheus.CounterVec
	transitions    *prometheus.CounterVec
	submissions    prometheus.Counter
	sideEffectErrs *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		matchResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hirelane",
			Name:      "match_results_total",
			Help:      "Match results served, by source.",
		}, []string{"source"}),
		matchFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hirelane",
			Name:      "match_fallbacks_total",
			Help:      "AI match attempts that fell back to deterministic scoring, by reason.",
		}, []string{"reason"}),
		aiCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hirelane",
			Name:      "ai_calls_total",
			Help:      "Generative provider calls, by outcome.",
		}, []string{"outcome"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hirelane",
			Name:      "application_transitions_total",
			Help:      "Successful application status transitions, by target status.",
		}, []string{"status"}),
		submissions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hirelane",
			Name:      "applications_submitted_total",
			Help:      "Applications created.",
		}),
		sideEffectErrs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hirelane",
			Name:      "counter_update_errors_total",
			Help:      "Failed best-effort counter increments, by counter.",
		}, []string{"counter"}),
	}
	reg.MustRegister(m.matchResults, m.matchFallbacks, m.aiCalls, m.transitions, m.submissions, m.sideEffectErrs)
	return m
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) MatchServed(source string) {
	if m == nil {
		return
	}
	m.matchResults.WithLabelValues(source).Inc()
}

func (m *Metrics) MatchFallback(reason string) {
	if m == nil {
		return
	}
	m.matchFallbacks.WithLabelValues(reason).Inc()
}

func (m *Metrics) AICall(outcome string) {
	if m == nil {
		return
	}
	m.aiCalls.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Transition(status string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(status).Inc()
}

func (m *Metrics) Submitted() {
	if m == nil {
		return
	}
	m.submissions.Inc()
}

func (m *Metrics) CounterUpdateFailed(counter string) {
	if m == nil {
		return
	}
	m.sideEffectErrs.WithLabelValues(counter).Inc()
}
