package runtime_test

import (
	"bytes"
	"log/slog"
	"testing"
	"testing/fstest"

	"github.com/aretw0/advisor/internal/logging"
	"github.com/aretw0/advisor/internal/runtime"
	"github.com/aretw0/advisor/pkg/adapters/file"
	"github.com/aretw0/advisor/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindPage(t *testing.T) {
	graph, err := newFixtureLoader().LoadGraph(domain.BrandNutram)
	require.NoError(t, err)

	for _, n := range []int{1, 2, 3, 4} {
		p := runtime.FindPage(graph, n)
		require.NotNil(t, p)
		assert.Equal(t, n, p.Number)
	}
	assert.Nil(t, runtime.FindPage(graph, 99))
	assert.Nil(t, runtime.FindPage(nil, 1))
}

func TestFindPage_DuplicateReturnsFirst(t *testing.T) {
	graph := domain.NewGraph(domain.BrandNutram, []domain.Page{
		{Number: 1, Name: "first"},
		{Number: 1, Name: "second"},
	})
	assert.Equal(t, "first", runtime.FindPage(graph, 1).Name)
}

func TestIsResultPage(t *testing.T) {
	tests := []struct {
		question string
		want     bool
	}{
		{"תוצאה", true},
		{"questions.result", true},
		{"QUESTIONS.RESULT", true},
		{"Your Result", true},
		{"הנה התוצאה שלך", true},
		{"questions.species", false},
		{"How old is your dog?", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			assert.Equal(t, tt.want, runtime.IsResultPage(&domain.Page{Question: tt.question}))
		})
	}
	assert.False(t, runtime.IsResultPage(nil))
}

func TestProductCodes(t *testing.T) {
	page := &domain.Page{Buttons: []domain.Button{{Text: "A"}, {Text: "B"}}}
	assert.Equal(t, []string{"A", "B"}, runtime.ProductCodes(page))
	assert.Equal(t, []string{}, runtime.ProductCodes(&domain.Page{}))
	assert.Equal(t, []string{}, runtime.ProductCodes(nil))
}

func TestProgress(t *testing.T) {
	assert.Equal(t, 25, runtime.Progress(5, 20))
	assert.Equal(t, 0, runtime.Progress(0, 0))
	assert.Equal(t, 0, runtime.Progress(7, 0))
	assert.Equal(t, 33, runtime.Progress(1, 3))
	assert.Equal(t, 67, runtime.Progress(2, 3))
	assert.Equal(t, 50, runtime.Progress(1, 2))
	assert.Equal(t, 13, runtime.Progress(1, 8))
	assert.Equal(t, 200, runtime.Progress(8, 4))
}

func TestResolver_ResolveProducts(t *testing.T) {
	r := runtime.NewResolver(newFixtureLoader(), "", nil)

	products, err := r.ResolveProducts(domain.BrandNutram, []string{"VALID1", "NOPE"})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "VALID1", products[0].Code)

	products, err = r.ResolveProducts(domain.BrandNutram, nil)
	require.NoError(t, err)
	assert.Empty(t, products)

	p, ok := r.Product(domain.BrandNutram, "VALID1")
	assert.True(t, ok)
	assert.Equal(t, "Sound", p.Series)
	_, ok = r.Product(domain.BrandNutram, "NOPE")
	assert.False(t, ok)
}

func TestResolver_UnknownBrand(t *testing.T) {
	r := runtime.NewResolver(newFixtureLoader(), "", nil)

	_, err := r.LoadGraph("acme")
	assert.ErrorIs(t, err, domain.ErrUnknownBrand)
	_, err = r.LoadCatalog("acme")
	assert.ErrorIs(t, err, domain.ErrUnknownBrand)

	// Known brand without a dataset.
	_, err = r.LoadGraph(domain.BrandCarnilove)
	assert.ErrorIs(t, err, domain.ErrUnknownBrand)
}

func TestResolver_FallbackBrand(t *testing.T) {
	r := runtime.NewResolver(newFixtureLoader(), domain.BrandNutram, nil)

	g, err := r.LoadGraph("acme")
	require.NoError(t, err)
	assert.Equal(t, domain.BrandNutram, g.Brand)

	g, err = r.LoadGraph(domain.BrandCarnilove)
	require.NoError(t, err)
	assert.Equal(t, domain.BrandNutram, g.Brand)

	c, err := r.LoadCatalog(domain.BrandBritCare)
	require.NoError(t, err)
	assert.Equal(t, domain.BrandNutram, c.Brand)
}

func TestResolver_CatalogFallbackLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithFormat(&buf, slog.LevelWarn, logging.FormatText)
	r := runtime.NewResolver(newFixtureLoader(), domain.BrandNutram, logger)

	_, err := r.LoadCatalog(domain.BrandBritCare)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "missing brand catalog, using fallback")
	assert.Contains(t, buf.String(), "brand=britcare")

	buf.Reset()
	_, err = r.LoadCatalog("acme")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "unknown brand, using fallback catalog")
}

func TestResolver_ResolveProductsFromFileCatalog(t *testing.T) {
	fsys := fstest.MapFS{
		"nutram_products.json": {Data: []byte(`{"products": {"T29": {"series": "Total Grain-Free", "nameKey": "products.T29.name"}}}`)},
	}
	r := runtime.NewResolver(file.NewLoader(fsys), "", nil)

	products, err := r.ResolveProducts(domain.BrandNutram, []string{"T29"})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "T29", products[0].Code)
	assert.Equal(t, "Total Grain-Free", products[0].Series)
}
