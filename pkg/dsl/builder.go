package dsl

import (
	"fmt"

	"github.com/aretw0/advisor/internal/validator"
	"github.com/aretw0/advisor/pkg/adapters/memory"
	"github.com/aretw0/advisor/pkg/domain"
)

// Builder manages the graph construction of one brand.
type Builder struct {
	brand    domain.Brand
	order    []int
	pages    map[int]*PageBuilder
	products map[string]domain.Product
}

// New creates a new graph builder for brand.
func New(brand domain.Brand) *Builder {
	return &Builder{
		brand:    brand,
		pages:    make(map[int]*PageBuilder),
		products: make(map[string]domain.Product),
	}
}

// Page returns the builder of page n, creating it on first use.
func (b *Builder) Page(n int) *PageBuilder {
	if pb, ok := b.pages[n]; ok {
		return pb
	}
	pb := &PageBuilder{page: domain.Page{Number: n}}
	b.pages[n] = pb
	b.order = append(b.order, n)
	return pb
}

// Product adds a catalog entry.
func (b *Builder) Product(p domain.Product) *Builder {
	b.products[p.Code] = p
	return b
}

// Graph returns the graph in page creation order without validating it.
func (b *Builder) Graph() *domain.NavigationGraph {
	pages := make([]domain.Page, 0, len(b.order))
	for _, n := range b.order {
		pages = append(pages, b.pages[n].Build())
	}
	return domain.NewGraph(b.brand, pages)
}

// Catalog returns the products added so far.
func (b *Builder) Catalog() *domain.Catalog {
	products := make(map[string]domain.Product, len(b.products))
	for code, p := range b.products {
		products[code] = p
	}
	return &domain.Catalog{Brand: b.brand, Products: products}
}

// Build validates the graph and compiles it into a memory loader.
func (b *Builder) Build() (*memory.Loader, error) {
	graph := b.Graph()
	if violations := validator.ValidateGraph(graph); len(violations) > 0 {
		return nil, fmt.Errorf("invalid %s graph: %s (and %d more)", b.brand, violations[0], len(violations)-1)
	}
	return memory.NewLoader().AddGraph(graph).AddCatalog(b.Catalog()), nil
}
