package observability

import (
	"context"
	"strconv"

	"github.com/aretw0/advisor/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the quiz collectors.
type Metrics struct {
	PageViews       *prometheus.CounterVec
	Transitions     *prometheus.CounterVec
	Backs           *prometheus.CounterVec
	Results         *prometheus.CounterVec
	Recommendations *prometheus.CounterVec
	Resets          *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg.
// A nil reg skips registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		PageViews: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "advisor",
			Name:      "page_views_total",
			Help:      "Total number of quiz pages entered.",
		}, []string{"brand", "page"}),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "advisor",
			Name:      "transitions_total",
			Help:      "Total number of forward moves between pages.",
		}, []string{"brand"}),
		Backs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "advisor",
			Name:      "back_navigations_total",
			Help:      "Total number of back navigations.",
		}, []string{"brand"}),
		Results: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "advisor",
			Name:      "results_total",
			Help:      "Total number of result pages reached.",
		}, []string{"brand", "page"}),
		Recommendations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "advisor",
			Name:      "product_recommendations_total",
			Help:      "Product codes shown on result pages.",
		}, []string{"brand", "code"}),
		Resets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "advisor",
			Name:      "resets_total",
			Help:      "Total number of quiz resets and restarts.",
		}, []string{"brand"}),
	}
	if reg != nil {
		reg.MustRegister(m.PageViews, m.Transitions, m.Backs, m.Results, m.Recommendations, m.Resets)
	}
	return m
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnPageEnter: func(_ context.Context, e *domain.PageEvent) {
			m.PageViews.WithLabelValues(string(e.Brand), strconv.Itoa(e.Page)).Inc()
		},
		OnPageLeave: func(_ context.Context, e *domain.PageEvent) {
			m.Transitions.WithLabelValues(string(e.Brand)).Inc()
		},
		OnBack: func(_ context.Context, e *domain.PageEvent) {
			m.Backs.WithLabelValues(string(e.Brand)).Inc()
		},
		OnResult: func(_ context.Context, e *domain.ResultEvent) {
			m.Results.WithLabelValues(string(e.Brand), strconv.Itoa(e.Page)).Inc()
			for _, code := range e.Products {
				m.Recommendations.WithLabelValues(string(e.Brand), code).Inc()
			}
		},
		OnReset: func(_ context.Context, e *domain.EventBase) {
			m.Resets.WithLabelValues(string(e.Brand)).Inc()
		},
	}
}
