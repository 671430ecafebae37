package memory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/advisor/pkg/domain"
)

// Loader implements ports.DatasetLoader over datasets held in memory.
// Safe for concurrent use.
type Loader struct {
	mu       sync.RWMutex
	graphs   map[domain.Brand]*domain.NavigationGraph
	catalogs map[domain.Brand]*domain.Catalog
}

// NewLoader creates an empty loader.
func NewLoader() *Loader {
	return &Loader{
		graphs:   make(map[domain.Brand]*domain.NavigationGraph),
		catalogs: make(map[domain.Brand]*domain.Catalog),
	}
}

// AddGraph registers g under its brand, replacing any previous graph.
func (l *Loader) AddGraph(g *domain.NavigationGraph) *Loader {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.graphs[g.Brand] = g
	return l
}

// AddCatalog registers c under its brand, replacing any previous catalog.
func (l *Loader) AddCatalog(c *domain.Catalog) *Loader {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.catalogs[c.Brand] = c
	return l
}

// LoadGraph returns the graph registered for brand.
func (l *Loader) LoadGraph(brand domain.Brand) (*domain.NavigationGraph, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	g, ok := l.graphs[brand]
	if !ok {
		return nil, fmt.Errorf("%w: no navigation graph for %q", domain.ErrUnknownBrand, brand)
	}
	return g, nil
}

// LoadCatalog returns the catalog registered for brand.
// A brand with a graph but no catalog gets an empty catalog.
func (l *Loader) LoadCatalog(brand domain.Brand) (*domain.Catalog, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	c, ok := l.catalogs[brand]
	if ok {
		return c, nil
	}
	if _, hasGraph := l.graphs[brand]; hasGraph {
		return &domain.Catalog{Brand: brand, Products: map[string]domain.Product{}}, nil
	}
	return nil, fmt.Errorf("%w: no product catalog for %q", domain.ErrUnknownBrand, brand)
}

// Brands lists the brands with a registered graph, sorted.
func (l *Loader) Brands() []domain.Brand {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]domain.Brand, 0, len(l.graphs))
	for b := range l.graphs {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
