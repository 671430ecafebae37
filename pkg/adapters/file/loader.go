package file

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/aretw0/advisor/internal/logging"
	"github.com/aretw0/advisor/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Dataset file suffixes. A brand's files are named <brand><suffix><ext>.
const (
	navigationSuffix = "_navigation"
	productsSuffix   = "_products"
)

var extensions = []string{".json", ".yaml", ".yml"}

// Loader implements ports.DatasetLoader over a filesystem of brand datasets:
//
//	nutram_navigation.json   array of pages
//	nutram_products.json     {"products": {"<CODE>": {...}}}
//
// YAML files with the same layout are accepted. Parsed datasets are cached
// until Invalidate is called.
type Loader struct {
	fsys   fs.FS
	dir    string
	logger *slog.Logger

	mu       sync.RWMutex
	graphs   map[domain.Brand]*domain.NavigationGraph
	catalogs map[domain.Brand]*domain.Catalog
	// gen counts invalidations per brand. A read that overlaps an
	// Invalidate must not repopulate the cache with what it read.
	gen map[domain.Brand]uint64
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLogger sets the logger used for cache and watch diagnostics.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoader creates a loader reading datasets from the root of fsys.
func NewLoader(fsys fs.FS, opts ...LoaderOption) *Loader {
	l := &Loader{
		fsys:     fsys,
		logger:   logging.NewNop(),
		graphs:   make(map[domain.Brand]*domain.NavigationGraph),
		catalogs: make(map[domain.Brand]*domain.Catalog),
		gen:      make(map[domain.Brand]uint64),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// NewDirLoader creates a loader over a directory on disk. Unlike loaders
// built with NewLoader, it supports Watch.
func NewDirLoader(dir string, opts ...LoaderOption) *Loader {
	l := NewLoader(os.DirFS(dir), opts...)
	l.dir = dir
	return l
}

// LoadGraph implements ports.DatasetLoader.
func (l *Loader) LoadGraph(brand domain.Brand) (*domain.NavigationGraph, error) {
	l.mu.RLock()
	g, ok := l.graphs[brand]
	gen := l.gen[brand]
	l.mu.RUnlock()
	if ok {
		return g, nil
	}

	var raw any
	name, err := l.read(string(brand)+navigationSuffix, &raw)
	if err != nil {
		return nil, err
	}
	pages, err := decodePages(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", name, err)
	}

	g = domain.NewGraph(brand, pages)
	l.mu.Lock()
	if l.gen[brand] == gen {
		l.graphs[brand] = g
	}
	l.mu.Unlock()
	l.logger.Debug("navigation graph loaded", "brand", brand, "file", name, "pages", g.Len())
	return g, nil
}

// LoadCatalog implements ports.DatasetLoader.
func (l *Loader) LoadCatalog(brand domain.Brand) (*domain.Catalog, error) {
	l.mu.RLock()
	c, ok := l.catalogs[brand]
	gen := l.gen[brand]
	l.mu.RUnlock()
	if ok {
		return c, nil
	}

	var raw any
	name, err := l.read(string(brand)+productsSuffix, &raw)
	if err != nil {
		return nil, err
	}
	products, err := decodeProducts(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", name, err)
	}

	c = &domain.Catalog{Brand: brand, Products: products}
	l.mu.Lock()
	if l.gen[brand] == gen {
		l.catalogs[brand] = c
	}
	l.mu.Unlock()
	l.logger.Debug("product catalog loaded", "brand", brand, "file", name, "products", len(products))
	return c, nil
}

// Invalidate drops the cached datasets of brand.
func (l *Loader) Invalidate(brand domain.Brand) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.graphs, brand)
	delete(l.catalogs, brand)
	l.gen[brand]++
}

// Brands lists the brands that have a navigation file, sorted.
func (l *Loader) Brands() ([]domain.Brand, error) {
	entries, err := fs.ReadDir(l.fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to list datasets: %w", err)
	}
	seen := make(map[domain.Brand]bool)
	var out []domain.Brand
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		brand, kind, ok := parseDatasetName(e.Name())
		if !ok || kind != navigationSuffix || seen[brand] {
			continue
		}
		seen[brand] = true
		out = append(out, brand)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// read decodes the first existing <base><ext> file into v.
func (l *Loader) read(base string, v any) (string, error) {
	for _, ext := range extensions {
		name := base + ext
		data, err := fs.ReadFile(l.fsys, name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return name, fmt.Errorf("failed to read %s: %w", name, err)
		}
		// JSON is a subset of YAML, so one decoder serves both.
		if err := yaml.Unmarshal(data, v); err != nil {
			return name, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		return name, nil
	}
	return base, fmt.Errorf("%w: no dataset %s", domain.ErrUnknownBrand, base)
}

// decodePages accepts either a bare array of pages or {pages: [...]}.
func decodePages(raw any) ([]domain.Page, error) {
	if m, ok := raw.(map[string]any); ok {
		raw = m["pages"]
	}
	var pages []domain.Page
	if err := decode(raw, &pages); err != nil {
		return nil, err
	}
	return pages, nil
}

// decodeProducts accepts {products: {CODE: {...}}}. A bare code map is
// still read for older datasets.
func decodeProducts(raw any) (map[string]domain.Product, error) {
	var byCode map[string]any
	if err := decode(raw, &byCode); err != nil {
		return nil, err
	}
	if inner, ok := byCode["products"].(map[string]any); ok {
		byCode = inner
	}
	products := make(map[string]domain.Product, len(byCode))
	for code, v := range byCode {
		var p domain.Product
		if err := decode(v, &p); err != nil {
			return nil, fmt.Errorf("product %s: %w", code, err)
		}
		if p.Code == "" {
			p.Code = code
		}
		products[code] = p
	}
	return products, nil
}

func decode(input, output any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           output,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

// parseDatasetName splits "nutram_products.yaml" into (nutram, _products).
func parseDatasetName(name string) (domain.Brand, string, bool) {
	ext := path.Ext(name)
	if !isDatasetExt(ext) {
		return "", "", false
	}
	stem := strings.TrimSuffix(name, ext)
	for _, suffix := range []string{navigationSuffix, productsSuffix} {
		if strings.HasSuffix(stem, suffix) {
			brand := strings.TrimSuffix(stem, suffix)
			if brand == "" {
				return "", "", false
			}
			return domain.Brand(brand), suffix, true
		}
	}
	return "", "", false
}

func isDatasetExt(ext string) bool {
	for _, e := range extensions {
		if e == ext {
			return true
		}
	}
	return false
}
