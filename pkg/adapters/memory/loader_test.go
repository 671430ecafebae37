package memory_test

import (
	"testing"

	"github.com/aretw0/advisor/pkg/adapters/memory"
	"github.com/aretw0/advisor/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader(t *testing.T) {
	loader := memory.NewLoader().
		AddGraph(domain.NewGraph(domain.BrandNutram, []domain.Page{{Number: 1}})).
		AddCatalog(&domain.Catalog{Brand: domain.BrandNutram, Products: map[string]domain.Product{
			"T29": {Code: "T29"},
		}})

	g, err := loader.LoadGraph(domain.BrandNutram)
	require.NoError(t, err)
	assert.Equal(t, 1, g.Len())

	c, err := loader.LoadCatalog(domain.BrandNutram)
	require.NoError(t, err)
	_, ok := c.Lookup("T29")
	assert.True(t, ok)

	_, err = loader.LoadGraph(domain.BrandCarnilove)
	assert.ErrorIs(t, err, domain.ErrUnknownBrand)
	_, err = loader.LoadCatalog(domain.BrandCarnilove)
	assert.ErrorIs(t, err, domain.ErrUnknownBrand)

	assert.Equal(t, []domain.Brand{domain.BrandNutram}, loader.Brands())
}

func TestLoader_CatalogDefaultsToEmpty(t *testing.T) {
	loader := memory.NewLoader().AddGraph(domain.NewGraph(domain.BrandBritCare, nil))

	c, err := loader.LoadCatalog(domain.BrandBritCare)
	require.NoError(t, err)
	assert.Empty(t, c.Products)
}
