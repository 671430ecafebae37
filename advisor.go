package advisor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/advisor/internal/i18n"
	"github.com/aretw0/advisor/internal/logging"
	"github.com/aretw0/advisor/internal/presentation/graph"
	"github.com/aretw0/advisor/internal/runtime"
	"github.com/aretw0/advisor/internal/validator"
	"github.com/aretw0/advisor/pkg/adapters/embedded"
	"github.com/aretw0/advisor/pkg/adapters/file"
	"github.com/aretw0/advisor/pkg/domain"
	"github.com/aretw0/advisor/pkg/ports"
)

var (
	// ErrNotWatchable is returned by Watch when the dataset loader cannot report changes.
	ErrNotWatchable = file.ErrNotWatchable
	// ErrButtonOutOfRange is returned by Choose for an index outside the page's buttons.
	ErrButtonOutOfRange = runtime.ErrButtonOutOfRange
)

// Report is the integrity check of one brand's datasets.
type Report = validator.Report

// Violation is a button pointing at a page that does not exist.
type Violation = validator.Violation

// Engine is the high-level entry point for the quiz engine.
// It wraps the internal runtime and provides a simplified API for hosts.
type Engine struct {
	runtime    *runtime.Engine
	loader     ports.DatasetLoader
	translator domain.Translator
	hooks      domain.LifecycleHooks
	fallback   domain.Brand
	datasetDir string
	logger     *slog.Logger
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLoader injects a custom DatasetLoader instead of the embedded datasets.
func WithLoader(l ports.DatasetLoader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithDatasetDir loads datasets from a directory on disk. The resulting
// engine supports Watch.
func WithDatasetDir(dir string) Option {
	return func(e *Engine) {
		e.datasetDir = dir
	}
}

// WithTranslator sets the dictionary used by Translate and the Mermaid export.
func WithTranslator(t domain.Translator) Option {
	return func(e *Engine) {
		e.translator = t
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithFallbackBrand serves brand's datasets for unknown or missing brands
// instead of failing with domain.ErrUnknownBrand.
func WithFallbackBrand(brand domain.Brand) Option {
	return func(e *Engine) {
		e.fallback = brand
	}
}

// New initializes an Engine. Without WithLoader or WithDatasetDir it serves
// the embedded sample datasets; without WithTranslator it uses the embedded
// Hebrew dictionary.
func New(opts ...Option) (*Engine, error) {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}

	if eng.loader == nil {
		if eng.datasetDir != "" {
			eng.loader = file.NewDirLoader(eng.datasetDir, file.WithLogger(eng.logger))
		} else {
			eng.loader = embedded.NewLoader(file.WithLogger(eng.logger))
		}
	}

	if eng.translator == nil {
		dict, err := i18n.Load(embedded.FS(), embedded.TranslationsPath, i18n.DefaultLanguage)
		if err != nil {
			return nil, fmt.Errorf("failed to load translations: %w", err)
		}
		eng.translator = dict
	}

	eng.runtime = runtime.NewEngine(eng.loader,
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithLogger(eng.logger),
		runtime.WithFallbackBrand(eng.fallback),
	)
	return eng, nil
}

// Brands returns the brand selector entries.
func (e *Engine) Brands() []domain.BrandInfo {
	return domain.Brands()
}

// Start creates a session positioned on the first page of brand.
func (e *Engine) Start(ctx context.Context, sessionID string, brand domain.Brand) (*domain.State, error) {
	return e.runtime.Start(ctx, sessionID, brand)
}

// NewSession creates a session without a brand, as on the brand selector.
func (e *Engine) NewSession(sessionID string) *domain.State {
	return domain.NewState(sessionID)
}

// SelectBrand switches state to brand and restarts its questionnaire.
func (e *Engine) SelectBrand(ctx context.Context, state *domain.State, brand domain.Brand) (*domain.State, error) {
	return e.runtime.SelectBrand(ctx, state, brand)
}

// Render resolves the current page, progress and, on result pages, the products.
func (e *Engine) Render(ctx context.Context, state *domain.State) (*domain.View, error) {
	return e.runtime.Render(ctx, state)
}

// Advance moves to target, recording the current page in history.
func (e *Engine) Advance(ctx context.Context, state *domain.State, target int) (*domain.State, error) {
	return e.runtime.Advance(ctx, state, target)
}

// Choose follows the button at index (zero-based) on the current page.
func (e *Engine) Choose(ctx context.Context, state *domain.State, index int) (*domain.State, error) {
	return e.runtime.Choose(ctx, state, index)
}

// Back returns to the previous page. Empty history leaves state unchanged.
func (e *Engine) Back(ctx context.Context, state *domain.State) (*domain.State, error) {
	return e.runtime.Back(ctx, state)
}

// Restart keeps the brand and returns to the first page.
func (e *Engine) Restart(ctx context.Context, state *domain.State) (*domain.State, error) {
	return e.runtime.Restart(ctx, state)
}

// Reset returns to the brand selector.
func (e *Engine) Reset(ctx context.Context, state *domain.State) (*domain.State, error) {
	return e.runtime.Reset(ctx, state)
}

// Products resolves the product codes listed on the current page.
func (e *Engine) Products(ctx context.Context, state *domain.State) ([]domain.Product, error) {
	return e.runtime.Products(ctx, state)
}

// Graph returns the navigation graph of brand.
func (e *Engine) Graph(brand domain.Brand) (*domain.NavigationGraph, error) {
	return e.runtime.Resolver().LoadGraph(brand)
}

// Catalog returns the product catalog of brand.
func (e *Engine) Catalog(brand domain.Brand) (*domain.Catalog, error) {
	return e.runtime.Resolver().LoadCatalog(brand)
}

// Validate checks brand's graph and catalog.
func (e *Engine) Validate(brand domain.Brand) (*Report, error) {
	g, err := e.Graph(brand)
	if err != nil {
		return nil, err
	}
	c, err := e.Catalog(brand)
	if err != nil {
		return nil, err
	}
	return validator.Check(g, c), nil
}

// Mermaid exports brand's graph as a Mermaid flowchart. A non-nil state is
// drawn as an overlay of its visited and current pages.
func (e *Engine) Mermaid(brand domain.Brand, state *domain.State) (string, error) {
	g, err := e.Graph(brand)
	if err != nil {
		return "", err
	}
	opts := graph.Options{Translator: e.translator}
	if state != nil {
		opts.Overlay = &graph.GraphOverlay{
			VisitedPages: state.History,
			CurrentPage:  state.CurrentPage,
		}
	}
	return graph.GenerateMermaid(g, opts), nil
}

// Translate resolves a translation key, returning the key when unknown.
func (e *Engine) Translate(key string) string {
	return e.translator.T(key)
}

// Translator returns the engine's dictionary.
func (e *Engine) Translator() domain.Translator {
	return e.translator
}

// Watch returns a channel that receives the brand name of each changed dataset.
func (e *Engine) Watch(ctx context.Context) (<-chan string, error) {
	if w, ok := e.loader.(ports.Watchable); ok {
		return w.Watch(ctx)
	}
	return nil, ErrNotWatchable
}

// Loader returns the underlying DatasetLoader.
func (e *Engine) Loader() ports.DatasetLoader {
	return e.loader
}
