// Package metrics exposes Prometheus collectors for quiz activity.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "dossier"

// Metrics records reactions, override fallbacks, transitions and grades.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	reactions        *prometheus.CounterVec
	overrideFallback *prometheus.CounterVec
	transitions      *prometheus.CounterVec
	grades           *prometheus.CounterVec
}

// MustNewMetrics registers the collectors with reg (the default registerer
// when nil). Collectors already registered under the same name are reused
// so that several engines can share one registry. Any other registration
// error panics.
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		reactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "narrative",
			Name:      "reactions_total",
			Help:      "Reactions composed, by the path that produced the text.",
		}, []string{"source"}),
		overrideFallback: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "narrative",
			Name:      "override_fallbacks_total",
			Help:      "Override attempts that fell back to templates, by reason.",
		}, []string{"reason"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "narrative",
			Name:      "transitions_total",
			Help:      "Transition narratives composed, by boundary.",
		}, []string{"boundary"}),
		grades: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "profile",
			Name:      "grades_total",
			Help:      "Graded runs, by clearance tier.",
		}, []string{"tier"}),
	}

	for _, c := range []**prometheus.CounterVec{&m.reactions, &m.overrideFallback, &m.transitions, &m.grades} {
		if err := reg.Register(*c); err != nil {
			already, ok := err.(prometheus.AlreadyRegisteredError)
			if !ok {
				panic(err)
			}
			*c = already.ExistingCollector.(*prometheus.CounterVec)
		}
	}
	return m
}

// IncReaction counts a composed reaction.
func (m *Metrics) IncReaction(source string) {
	if m == nil || m.reactions == nil {
		return
	}
	m.reactions.WithLabelValues(source).Inc()
}

// IncOverrideFallback counts an override that was not used.
func (m *Metrics) IncOverrideFallback(reason string) {
	if m == nil || m.overrideFallback == nil {
		return
	}
	m.overrideFallback.WithLabelValues(reason).Inc()
}

// IncTransition counts a composed transition.
func (m *Metrics) IncTransition(boundary string) {
	if m == nil || m.transitions == nil {
		return
	}
	m.transitions.WithLabelValues(boundary).Inc()
}

// IncGrade counts a graded run.
func (m *Metrics) IncGrade(tier string) {
	if m == nil || m.grades == nil {
		return
	}
	m.grades.WithLabelValues(tier).Inc()
}
