package i18n_test

import (
	"testing"
	"testing/fstest"

	"github.com/aretw0/advisor/internal/i18n"
	"github.com/aretw0/advisor/pkg/adapters/embedded"
	"github.com/aretw0/advisor/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDictionary_FlattensNestedDocuments(t *testing.T) {
	fsys := fstest.MapFS{
		"he.yaml": {Data: []byte(`
questions:
  species: "איזו חיה?"
buttons:
  dog: כלב
steps:
  - one
  - two
count: 3
`)},
	}
	d, err := i18n.Load(fsys, "he.yaml", "he")
	require.NoError(t, err)

	assert.Equal(t, "איזו חיה?", d.T("questions.species"))
	assert.Equal(t, "כלב", d.T("buttons.dog"))
	assert.Equal(t, "two", d.T("steps.1"))
	assert.Equal(t, "3", d.T("count"))
	assert.Equal(t, []string{"buttons.dog", "count", "questions.species", "steps.0", "steps.1"}, d.Keys())
}

func TestDictionary_MissingKeyReturnsKey(t *testing.T) {
	d := i18n.New("he")
	assert.Equal(t, "questions.unknown", d.T("questions.unknown"))
	assert.False(t, d.Has("questions.unknown"))

	var nilDict *i18n.Dictionary
	assert.Equal(t, "x", nilDict.T("x"))
}

func TestDictionary_ResolvesTextRefs(t *testing.T) {
	d := i18n.New("he")
	d.Set("buttons.cat", "חתול")

	assert.Equal(t, "חתול", domain.RefWithPrefix("buttons.cat", domain.ButtonKeyPrefix).Resolve(d))
	assert.Equal(t, "T29", domain.RefWithPrefix("T29", domain.ButtonKeyPrefix).Resolve(d))
}

func TestDictionary_Merge(t *testing.T) {
	d := i18n.New("he")
	require.NoError(t, d.Merge([]byte(`{"a": {"b": "1"}}`)))
	require.NoError(t, d.Merge([]byte(`{"a": {"b": "2", "c": "3"}}`)))
	assert.Equal(t, "2", d.T("a.b"))
	assert.Equal(t, "3", d.T("a.c"))

	assert.Error(t, d.Merge([]byte(`[`)))
}

func TestDictionary_EmbeddedCoversDatasets(t *testing.T) {
	d, err := i18n.Load(embedded.FS(), embedded.TranslationsPath, i18n.DefaultLanguage)
	require.NoError(t, err)

	loader := embedded.NewLoader()
	for _, info := range domain.Brands() {
		g, err := loader.LoadGraph(info.ID)
		require.NoError(t, err)
		for _, p := range g.Pages {
			if p.QuestionRef.IsKey() {
				assert.True(t, d.Has(p.QuestionRef.Value), "missing %s", p.QuestionRef.Value)
			}
			for _, b := range p.Buttons {
				if b.Label.IsKey() {
					assert.True(t, d.Has(b.Label.Value), "missing %s", b.Label.Value)
				}
			}
		}

		c, err := loader.LoadCatalog(info.ID)
		require.NoError(t, err)
		for _, p := range c.Products {
			assert.True(t, d.Has(p.NameKey), "missing %s", p.NameKey)
			for _, b := range p.Benefits {
				assert.True(t, d.Has(b), "missing %s", b)
			}
		}
	}
}
