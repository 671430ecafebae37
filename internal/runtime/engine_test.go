package runtime_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/advisor/internal/runtime"
	"github.com/aretw0/advisor/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_NutramScenario(t *testing.T) {
	ctx := context.Background()
	engine := runtime.NewEngine(newFixtureLoader())

	state, err := engine.Start(ctx, "s1", domain.BrandNutram)
	require.NoError(t, err)
	assert.Equal(t, 1, state.CurrentPage)
	assert.Empty(t, state.History)

	view, err := engine.Render(ctx, state)
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseAtPage, view.Phase)
	assert.Equal(t, 25, view.Progress)
	assert.Equal(t, 4, view.TotalPages)
	assert.False(t, view.CanGoBack)
	require.NotNil(t, view.Page)
	assert.True(t, view.Page.QuestionRef.IsKey())

	state, err = engine.Advance(ctx, state, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, state.History)

	view, err = engine.Render(ctx, state)
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseAtResult, view.Phase)
	assert.True(t, view.IsResult)
	assert.Equal(t, 75, view.Progress)
	require.Len(t, view.Products, 1)
	assert.Equal(t, "VALID1", view.Products[0].Code)

	state, err = engine.Back(ctx, state)
	require.NoError(t, err)
	assert.Equal(t, 1, state.CurrentPage)
	assert.Empty(t, state.History)
}

func TestEngine_RenderWithoutBrand(t *testing.T) {
	engine := runtime.NewEngine(newFixtureLoader())

	view, err := engine.Render(context.Background(), domain.NewState("s1"))
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseNoBrand, view.Phase)
	assert.Nil(t, view.Page)

	view, err = engine.Render(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseNoBrand, view.Phase)
}

func TestEngine_RenderMissingPage(t *testing.T) {
	ctx := context.Background()
	engine := runtime.NewEngine(newFixtureLoader())

	state, err := engine.Start(ctx, "s1", domain.BrandNutram)
	require.NoError(t, err)
	state, err = engine.Choose(ctx, state, 0)
	require.NoError(t, err)
	state, err = engine.Choose(ctx, state, 1)
	require.NoError(t, err)
	assert.Equal(t, 99, state.CurrentPage)

	view, err := engine.Render(ctx, state)
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseNotFound, view.Phase)
	assert.Nil(t, view.Page)
	assert.True(t, view.CanGoBack)

	products, err := engine.Products(ctx, state)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestEngine_Choose(t *testing.T) {
	ctx := context.Background()
	engine := runtime.NewEngine(newFixtureLoader())
	state, err := engine.Start(ctx, "s1", domain.BrandNutram)
	require.NoError(t, err)

	_, err = engine.Choose(ctx, state, 5)
	assert.ErrorIs(t, err, runtime.ErrButtonOutOfRange)
	_, err = engine.Choose(ctx, state, -1)
	assert.ErrorIs(t, err, runtime.ErrButtonOutOfRange)

	state, err = engine.Choose(ctx, state, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, state.CurrentPage)

	// Result page buttons carry product codes, not targets.
	next, err := engine.Choose(ctx, state, 0)
	require.NoError(t, err)
	assert.Equal(t, state.CurrentPage, next.CurrentPage)
	assert.Equal(t, state.History, next.History)
}

func TestEngine_RequiresBrand(t *testing.T) {
	ctx := context.Background()
	engine := runtime.NewEngine(newFixtureLoader())
	state := domain.NewState("s1")

	_, err := engine.Advance(ctx, state, 2)
	assert.ErrorIs(t, err, domain.ErrNoBrand)
	_, err = engine.Choose(ctx, state, 0)
	assert.ErrorIs(t, err, domain.ErrNoBrand)
	_, err = engine.Restart(ctx, state)
	assert.ErrorIs(t, err, domain.ErrNoBrand)

	products, err := engine.Products(ctx, state)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestEngine_StartUnknownBrand(t *testing.T) {
	engine := runtime.NewEngine(newFixtureLoader())
	_, err := engine.Start(context.Background(), "s1", "acme")
	assert.ErrorIs(t, err, domain.ErrUnknownBrand)

	_, err = engine.SelectBrand(context.Background(), domain.NewState("s1"), "acme")
	assert.ErrorIs(t, err, domain.ErrUnknownBrand)
}

func TestEngine_SelectBrandWithoutDataset(t *testing.T) {
	ctx := context.Background()
	engine := runtime.NewEngine(newFixtureLoader())
	state, err := engine.Start(ctx, "s1", domain.BrandNutram)
	require.NoError(t, err)
	state, err = engine.Advance(ctx, state, 2)
	require.NoError(t, err)

	// Carnilove is a known brand, but the fixture has no dataset for it.
	next, err := engine.SelectBrand(ctx, state, domain.BrandCarnilove)
	assert.ErrorIs(t, err, domain.ErrUnknownBrand)
	assert.Nil(t, next)
	assert.Equal(t, domain.BrandNutram, state.Brand)
	assert.Equal(t, 2, state.CurrentPage)
}

func TestEngine_DoesNotMutateInput(t *testing.T) {
	ctx := context.Background()
	engine := runtime.NewEngine(newFixtureLoader())
	state, err := engine.Start(ctx, "s1", domain.BrandNutram)
	require.NoError(t, err)
	before := state.Snapshot()

	_, err = engine.Advance(ctx, state, 2)
	require.NoError(t, err)
	assert.Equal(t, before, state)
}

func TestEngine_RestartAndReset(t *testing.T) {
	ctx := context.Background()
	engine := runtime.NewEngine(newFixtureLoader())
	state, err := engine.Start(ctx, "s1", domain.BrandNutram)
	require.NoError(t, err)
	state, err = engine.Advance(ctx, state, 2)
	require.NoError(t, err)

	restarted, err := engine.Restart(ctx, state)
	require.NoError(t, err)
	assert.Equal(t, domain.BrandNutram, restarted.Brand)
	assert.Equal(t, 1, restarted.CurrentPage)
	assert.Empty(t, restarted.History)

	reset, err := engine.Reset(ctx, state)
	require.NoError(t, err)
	assert.False(t, reset.HasBrand())
	assert.Equal(t, 1, reset.CurrentPage)
	assert.Empty(t, reset.History)
}

func TestEngine_LifecycleHooks(t *testing.T) {
	ctx := context.Background()
	var (
		entered []int
		left    []*domain.PageEvent
		backs   int
		results []*domain.ResultEvent
		resets  []domain.Brand
	)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	engine := runtime.NewEngine(newFixtureLoader(),
		runtime.WithClock(func() time.Time { return fixed }),
		runtime.WithLifecycleHooks(domain.LifecycleHooks{
			OnPageEnter: func(_ context.Context, e *domain.PageEvent) { entered = append(entered, e.Page) },
			OnPageLeave: func(_ context.Context, e *domain.PageEvent) { left = append(left, e) },
			OnBack:      func(_ context.Context, e *domain.PageEvent) { backs++ },
			OnResult:    func(_ context.Context, e *domain.ResultEvent) { results = append(results, e) },
			OnReset:     func(_ context.Context, e *domain.EventBase) { resets = append(resets, e.Brand) },
		}),
	)

	state, err := engine.Start(ctx, "s1", domain.BrandNutram)
	require.NoError(t, err)
	assert.Equal(t, fixed, state.UpdatedAt)

	state, err = engine.Advance(ctx, state, 3)
	require.NoError(t, err)
	state, err = engine.Back(ctx, state)
	require.NoError(t, err)
	_, err = engine.Back(ctx, state)
	require.NoError(t, err)
	_, err = engine.Reset(ctx, state)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 3}, entered)
	require.Len(t, left, 1)
	assert.Equal(t, 1, left[0].Page)
	assert.Equal(t, 3, left[0].To)
	assert.Equal(t, 1, backs)
	require.Len(t, results, 1)
	assert.Equal(t, []string{"VALID1", "NOPE"}, results[0].Products)
	assert.Equal(t, "s1", results[0].SessionID)
	assert.Equal(t, []domain.Brand{domain.BrandNutram}, resets)
}

func TestEngine_FallbackBrand(t *testing.T) {
	engine := runtime.NewEngine(newFixtureLoader(), runtime.WithFallbackBrand(domain.BrandNutram))

	state, err := engine.Start(context.Background(), "s1", "acme")
	require.NoError(t, err)

	view, err := engine.Render(context.Background(), state)
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseAtPage, view.Phase)
	assert.Equal(t, 4, view.TotalPages)
}
