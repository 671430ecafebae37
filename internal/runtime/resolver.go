package runtime

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/aretw0/advisor/internal/logging"
	"github.com/aretw0/advisor/pkg/domain"
	"github.com/aretw0/advisor/pkg/ports"
)

// Result markers. The Hebrew word means "result".
const (
	resultMarkerHe  = "תוצאה"
	resultMarkerKey = "questions.result"
	resultMarkerEn  = "result"
)

// Resolver maps (brand, page) to page content and (brand, codes) to products.
// It holds no session state.
type Resolver struct {
	loader   ports.DatasetLoader
	fallback domain.Brand
	logger   *slog.Logger
}

// NewResolver creates a resolver over loader. fallback may be empty.
func NewResolver(loader ports.DatasetLoader, fallback domain.Brand, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Resolver{loader: loader, fallback: fallback, logger: logger}
}

// LoadGraph returns the navigation graph of brand.
// Without a fallback brand, unknown brands fail with domain.ErrUnknownBrand.
func (r *Resolver) LoadGraph(brand domain.Brand) (*domain.NavigationGraph, error) {
	if !brand.Valid() {
		if r.fallback == "" {
			return nil, fmt.Errorf("%w: %q", domain.ErrUnknownBrand, brand)
		}
		r.logger.Warn("unknown brand, using fallback dataset", "brand", brand, "fallback", r.fallback)
		brand = r.fallback
	}

	g, err := r.loader.LoadGraph(brand)
	if err != nil && errors.Is(err, domain.ErrUnknownBrand) && r.fallback != "" && brand != r.fallback {
		r.logger.Warn("missing brand dataset, using fallback", "brand", brand, "fallback", r.fallback)
		return r.loader.LoadGraph(r.fallback)
	}
	return g, err
}

// LoadCatalog returns the product catalog of brand, with the same fallback rules as LoadGraph.
func (r *Resolver) LoadCatalog(brand domain.Brand) (*domain.Catalog, error) {
	if !brand.Valid() {
		if r.fallback == "" {
			return nil, fmt.Errorf("%w: %q", domain.ErrUnknownBrand, brand)
		}
		r.logger.Warn("unknown brand, using fallback catalog", "brand", brand, "fallback", r.fallback)
		brand = r.fallback
	}

	c, err := r.loader.LoadCatalog(brand)
	if err != nil && errors.Is(err, domain.ErrUnknownBrand) && r.fallback != "" && brand != r.fallback {
		r.logger.Warn("missing brand catalog, using fallback", "brand", brand, "fallback", r.fallback)
		return r.loader.LoadCatalog(r.fallback)
	}
	return c, err
}

// Product looks up a single product code.
func (r *Resolver) Product(brand domain.Brand, code string) (domain.Product, bool) {
	c, err := r.LoadCatalog(brand)
	if err != nil {
		return domain.Product{}, false
	}
	return c.Lookup(code)
}

// ResolveProducts maps codes through the brand catalog, keeping their order.
// Codes missing from the catalog are dropped.
func (r *Resolver) ResolveProducts(brand domain.Brand, codes []string) ([]domain.Product, error) {
	c, err := r.LoadCatalog(brand)
	if err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(codes))
	for _, code := range codes {
		p, ok := c.Lookup(code)
		if !ok {
			r.logger.Debug("product code not in catalog", "brand", brand, "code", code)
			continue
		}
		products = append(products, p)
	}
	return products, nil
}

// FindPage returns the page numbered n, or nil.
func FindPage(graph *domain.NavigationGraph, n int) *domain.Page {
	p, ok := graph.Page(n)
	if !ok {
		return nil
	}
	return p
}

// IsResultPage classifies a page as terminal from its question text.
// The match is a lowercase equality against the Hebrew marker or the result
// translation key, or a substring match of "result" or the Hebrew marker.
// The rule is a heuristic: any question mentioning "result" is terminal.
func IsResultPage(page *domain.Page) bool {
	if page == nil {
		return false
	}
	q := strings.ToLower(page.Question)
	return q == resultMarkerHe ||
		q == resultMarkerKey ||
		strings.Contains(q, resultMarkerEn) ||
		strings.Contains(q, resultMarkerHe)
}

// ProductCodes returns the raw button texts of a result page.
func ProductCodes(page *domain.Page) []string {
	if page == nil || len(page.Buttons) == 0 {
		return []string{}
	}
	codes := make([]string, len(page.Buttons))
	for i, b := range page.Buttons {
		codes[i] = b.Text
	}
	return codes
}

// Progress returns round(current/total*100), or 0 when total is 0.
// The value is not clamped.
func Progress(current, total int) int {
	if total == 0 {
		return 0
	}
	// Halves round toward +Inf.
	return int(math.Floor(float64(current)/float64(total)*100 + 0.5))
}
