package validator

import (
	"testing"

	"github.com/aretw0/advisor/pkg/adapters/embedded"
	"github.com/aretw0/advisor/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateGraph(t *testing.T) {
	// Scenario A: 1 -> {2, 3}, 2 -> 3, 3 is a result page.
	valid := domain.NewGraph(domain.BrandNutram, []domain.Page{
		{Number: 1, Question: "q1", Buttons: []domain.Button{{Text: "a", TargetPage: 2}, {Text: "b", TargetPage: 3}}},
		{Number: 2, Question: "q2", Buttons: []domain.Button{{Text: "c", TargetPage: 3}}},
		{Number: 3, Question: "questions.result", Buttons: []domain.Button{{Text: "T29"}}},
	})
	assert.Empty(t, ValidateGraph(valid))

	// Scenario B: one dangling target.
	broken := domain.NewGraph(domain.BrandNutram, []domain.Page{
		{Number: 1, Question: "q1", Buttons: []domain.Button{{Text: "a", TargetPage: 2}, {Text: "ghost", TargetPage: 42}}},
		{Number: 2, Question: "תוצאה", Buttons: []domain.Button{{Text: "T29"}}},
	})
	violations := ValidateGraph(broken)
	require.Len(t, violations, 1)
	assert.Equal(t, Violation{Page: 1, Button: "ghost", ButtonIndex: 1, MissingTarget: 42}, violations[0])

	assert.Empty(t, ValidateGraph(nil))
}

func TestValidateGraph_ButtonWithoutTarget(t *testing.T) {
	g := domain.NewGraph(domain.BrandBritCare, []domain.Page{
		{Number: 1, Question: "q1", Buttons: []domain.Button{{Text: "nowhere"}}},
	})
	violations := ValidateGraph(g)
	require.Len(t, violations, 1)
	assert.Equal(t, 0, violations[0].MissingTarget)
}

func TestCheck(t *testing.T) {
	g := domain.NewGraph(domain.BrandCarnilove, []domain.Page{
		{Number: 1, Question: "q1", Buttons: []domain.Button{{Text: "a", TargetPage: 3}}},
		{Number: 2, Question: "orphan", Buttons: []domain.Button{{Text: "b", TargetPage: 3}}},
		{Number: 3, Question: "Your result", Buttons: []domain.Button{{Text: "KNOWN"}, {Text: "GONE"}}},
		{Number: 3, Question: "dup"},
	})
	catalog := &domain.Catalog{Brand: domain.BrandCarnilove, Products: map[string]domain.Product{
		"KNOWN": {Code: "KNOWN"},
	}}

	r := Check(g, catalog)
	assert.Equal(t, 4, r.Pages)
	assert.Empty(t, r.Violations)
	assert.Equal(t, []int{3}, r.Duplicates)
	assert.Equal(t, []MissingProduct{{Page: 3, Code: "GONE"}}, r.MissingProducts)
	assert.Equal(t, []int{2}, r.Unreachable)
	assert.False(t, r.Valid())
	assert.ErrorContains(t, r.Err(), "page number 3 is used more than once")
	assert.Len(t, r.Warnings(), 2)
}

func TestCheck_NilCatalog(t *testing.T) {
	g := domain.NewGraph(domain.BrandNutram, []domain.Page{
		{Number: 1, Question: "questions.result", Buttons: []domain.Button{{Text: "X"}}},
	})
	r := Check(g, nil)
	assert.True(t, r.Valid())
	assert.NoError(t, r.Err())
	assert.Empty(t, r.MissingProducts)
}

func TestCheck_EmbeddedDatasets(t *testing.T) {
	loader := embedded.NewLoader()
	for _, info := range domain.Brands() {
		t.Run(string(info.ID), func(t *testing.T) {
			g, err := loader.LoadGraph(info.ID)
			require.NoError(t, err)
			c, err := loader.LoadCatalog(info.ID)
			require.NoError(t, err)

			r := Check(g, c)
			assert.NoError(t, r.Err())
			assert.Empty(t, r.Unreachable)
		})
	}
}
