package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/aretw0/advisor/pkg/domain"
	"github.com/aretw0/advisor/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)
	hooks := m.Hooks()
	ctx := context.Background()
	base := domain.EventBase{SessionID: "s1", Brand: domain.BrandNutram}

	hooks.OnPageEnter(ctx, &domain.PageEvent{EventBase: base, Page: 1})
	hooks.OnPageLeave(ctx, &domain.PageEvent{EventBase: base, Page: 1, To: 3})
	hooks.OnPageEnter(ctx, &domain.PageEvent{EventBase: base, Page: 3, From: 1})
	hooks.OnResult(ctx, &domain.ResultEvent{EventBase: base, Page: 3, Products: []string{"S5", "T24"}})
	hooks.OnBack(ctx, &domain.PageEvent{EventBase: base, Page: 1, From: 3})
	hooks.OnReset(ctx, &base)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.PageViews.WithLabelValues("nutram", "3")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transitions.WithLabelValues("nutram")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Results.WithLabelValues("nutram", "3")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Recommendations.WithLabelValues("nutram", "T24")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Backs.WithLabelValues("nutram")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Resets.WithLabelValues("nutram")))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 6)
}

func TestCombine(t *testing.T) {
	var calls []string
	first := domain.LifecycleHooks{
		OnPageEnter: func(context.Context, *domain.PageEvent) { calls = append(calls, "first") },
	}
	second := domain.LifecycleHooks{
		OnPageEnter: func(context.Context, *domain.PageEvent) { calls = append(calls, "second") },
		OnReset:     func(context.Context, *domain.EventBase) { calls = append(calls, "reset") },
	}

	hooks := observability.Combine(first, domain.LifecycleHooks{}, second)
	hooks.OnPageEnter(context.Background(), &domain.PageEvent{})
	hooks.OnReset(context.Background(), &domain.EventBase{})

	assert.Equal(t, []string{"first", "second", "reset"}, calls)
	assert.Nil(t, hooks.OnBack)
}

func TestLoggingHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	hooks := observability.LoggingHooks(logger)
	hooks.OnResult(context.Background(), &domain.ResultEvent{
		EventBase: domain.EventBase{SessionID: "s1", Brand: domain.BrandCarnilove},
		Page:      6,
		Products:  []string{"CL-CAT-DUCK"},
	})

	assert.Contains(t, buf.String(), "msg=result")
	assert.Contains(t, buf.String(), "brand=carnilove")
	assert.Contains(t, buf.String(), "CL-CAT-DUCK")
}
