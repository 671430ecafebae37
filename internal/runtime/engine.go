package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/advisor/internal/logging"
	"github.com/aretw0/advisor/pkg/domain"
	"github.com/aretw0/advisor/pkg/ports"
)

// ErrButtonOutOfRange is returned by Choose for an index outside the page's buttons.
var ErrButtonOutOfRange = errors.New("button index out of range")

// Engine drives quiz sessions: it applies Store operations to copies of the
// caller's state and resolves the result through the Resolver.
type Engine struct {
	resolver *Resolver
	loader   ports.DatasetLoader
	fallback domain.Brand
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	now      func() time.Time
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithFallbackBrand makes unknown or missing brands resolve to brand's datasets.
func WithFallbackBrand(brand domain.Brand) EngineOption {
	return func(e *Engine) {
		e.fallback = brand
	}
}

// WithClock overrides the event timestamp source.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates a new engine over loader.
func NewEngine(loader ports.DatasetLoader, opts ...EngineOption) *Engine {
	e := &Engine{
		loader: loader,
		logger: logging.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.resolver = NewResolver(loader, e.fallback, e.logger)
	return e
}

// Resolver exposes the dataset resolver.
func (e *Engine) Resolver() *Resolver {
	return e.resolver
}

// Start creates a session positioned on the first page of brand.
func (e *Engine) Start(ctx context.Context, sessionID string, brand domain.Brand) (*domain.State, error) {
	if !brand.Valid() && e.fallback == "" {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownBrand, brand)
	}
	if _, err := e.resolver.LoadGraph(brand); err != nil {
		return nil, fmt.Errorf("failed to load graph for %s: %w", brand, err)
	}

	state := domain.NewState(sessionID)
	store := NewStore(state)
	store.SelectBrand(brand)
	next := e.touch(store.State())

	e.logger.Debug("session started", "session_id", sessionID, "brand", brand)
	e.emitPageEnter(ctx, next, 0)
	return next, nil
}

// SelectBrand switches an existing session to brand, clearing its progress.
func (e *Engine) SelectBrand(ctx context.Context, state *domain.State, brand domain.Brand) (*domain.State, error) {
	if !brand.Valid() && e.fallback == "" {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownBrand, brand)
	}
	if _, err := e.resolver.LoadGraph(brand); err != nil {
		return nil, fmt.Errorf("failed to load graph for %s: %w", brand, err)
	}
	store := NewStore(state.Snapshot())
	store.SelectBrand(brand)
	next := e.touch(store.State())
	e.emitPageEnter(ctx, next, 0)
	return next, nil
}

// Render resolves the current page of state into a View.
// A session without a brand renders as PhaseNoBrand; a dangling page number
// renders as PhaseNotFound with a nil Page. Neither is an error.
func (e *Engine) Render(ctx context.Context, state *domain.State) (*domain.View, error) {
	view := &domain.View{
		Phase:   domain.PhaseNoBrand,
		History: []int{},
	}
	if state == nil {
		return view, nil
	}

	view.SessionID = state.SessionID
	view.Brand = state.Brand
	view.CurrentPage = state.CurrentPage
	view.CanGoBack = state.CanGoBack()
	view.History = append(view.History, state.History...)

	if !state.HasBrand() {
		return view, nil
	}

	graph, err := e.resolver.LoadGraph(state.Brand)
	if err != nil {
		return nil, fmt.Errorf("render failed: %w", err)
	}

	view.TotalPages = graph.Len()
	view.Progress = Progress(state.CurrentPage, view.TotalPages)

	page := FindPage(graph, state.CurrentPage)
	if page == nil {
		e.logger.Warn("page not found", "brand", state.Brand, "page", state.CurrentPage)
		view.Phase = domain.PhaseNotFound
		return view, nil
	}
	view.Page = page
	view.Phase = domain.PhaseAtPage

	if IsResultPage(page) {
		view.IsResult = true
		view.Phase = domain.PhaseAtResult
		products, err := e.resolver.ResolveProducts(state.Brand, ProductCodes(page))
		if err != nil {
			return nil, fmt.Errorf("render failed: %w", err)
		}
		view.Products = products
	}

	return view, nil
}

// Advance moves state to target, recording the current page in history.
func (e *Engine) Advance(ctx context.Context, state *domain.State, target int) (*domain.State, error) {
	if !state.HasBrand() {
		return nil, domain.ErrNoBrand
	}
	store := NewStore(state.Snapshot())
	from := state.CurrentPage
	store.Advance(target)
	next := e.touch(store.State())

	e.logger.Debug("advance", "session_id", next.SessionID, "from", from, "to", target)
	e.emitPageLeave(ctx, state, target)
	e.emitPageEnter(ctx, next, from)
	e.emitResultIfTerminal(ctx, next)
	return next, nil
}

// Choose follows the button at index on the current page.
// Buttons without a target page leave the state unchanged.
func (e *Engine) Choose(ctx context.Context, state *domain.State, index int) (*domain.State, error) {
	if !state.HasBrand() {
		return nil, domain.ErrNoBrand
	}
	graph, err := e.resolver.LoadGraph(state.Brand)
	if err != nil {
		return nil, err
	}
	page := FindPage(graph, state.CurrentPage)
	if page == nil {
		return state.Snapshot(), nil
	}
	if index < 0 || index >= len(page.Buttons) {
		return nil, fmt.Errorf("%w: %d (page %d has %d buttons)", ErrButtonOutOfRange, index, page.Number, len(page.Buttons))
	}

	button := page.Buttons[index]
	if button.TargetPage == 0 {
		return state.Snapshot(), nil
	}
	return e.Advance(ctx, state, button.TargetPage)
}

// Back returns to the previously visited page. Empty history is a no-op.
func (e *Engine) Back(ctx context.Context, state *domain.State) (*domain.State, error) {
	store := NewStore(state.Snapshot())
	from := state.CurrentPage
	if !store.GoBack() {
		return store.State(), nil
	}
	next := e.touch(store.State())

	if e.hooks.OnBack != nil {
		e.hooks.OnBack(ctx, &domain.PageEvent{
			EventBase: e.base(domain.EventBack, next),
			Page:      next.CurrentPage,
			From:      from,
		})
	}
	return next, nil
}

// Restart keeps the brand and returns to the first page.
func (e *Engine) Restart(ctx context.Context, state *domain.State) (*domain.State, error) {
	if !state.HasBrand() {
		return nil, domain.ErrNoBrand
	}
	store := NewStore(state.Snapshot())
	store.ResetNavigation()
	next := e.touch(store.State())
	e.emitReset(ctx, next)
	e.emitPageEnter(ctx, next, 0)
	return next, nil
}

// Reset clears the brand and navigation.
func (e *Engine) Reset(ctx context.Context, state *domain.State) (*domain.State, error) {
	store := NewStore(state.Snapshot())
	brand := state.Brand
	store.Reset()
	next := e.touch(store.State())

	if e.hooks.OnReset != nil {
		base := e.base(domain.EventReset, next)
		base.Brand = brand
		e.hooks.OnReset(ctx, &base)
	}
	return next, nil
}

// Products resolves the product codes of the current page.
// Without a brand or page the result is empty.
func (e *Engine) Products(ctx context.Context, state *domain.State) ([]domain.Product, error) {
	if !state.HasBrand() {
		return []domain.Product{}, nil
	}
	graph, err := e.resolver.LoadGraph(state.Brand)
	if err != nil {
		return nil, err
	}
	page := FindPage(graph, state.CurrentPage)
	if page == nil {
		return []domain.Product{}, nil
	}
	return e.resolver.ResolveProducts(state.Brand, ProductCodes(page))
}

func (e *Engine) touch(s *domain.State) *domain.State {
	s.UpdatedAt = e.now()
	return s
}
