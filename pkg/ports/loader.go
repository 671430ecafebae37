package ports

import (
	"context"

	"github.com/aretw0/advisor/pkg/domain"
)

// DatasetLoader defines how the engine retrieves the static per-brand datasets.
// Implementations return domain.ErrUnknownBrand (wrapped) when no dataset exists for a brand.
type DatasetLoader interface {
	// LoadGraph returns the navigation graph of a brand.
	LoadGraph(brand domain.Brand) (*domain.NavigationGraph, error)

	// LoadCatalog returns the product catalog of a brand.
	LoadCatalog(brand domain.Brand) (*domain.Catalog, error)
}

// Watchable defines an interface for loaders that can notify about backend changes.
// This is typically used for hot-reload or dev-mode functionality.
type Watchable interface {
	// Watch returns a channel that receives the name of each changed brand dataset.
	// The channel is closed when ctx is done.
	Watch(ctx context.Context) (<-chan string, error)
}
