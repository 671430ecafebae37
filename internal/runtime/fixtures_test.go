package runtime_test

import (
	"github.com/aretw0/advisor/pkg/adapters/memory"
	"github.com/aretw0/advisor/pkg/domain"
)

// newFixtureLoader builds a four page nutram questionnaire:
// 1 -> {2, 3}, 2 -> 3, 3 is a result page listing VALID1 and NOPE.
func newFixtureLoader() *memory.Loader {
	graph := domain.NewGraph(domain.BrandNutram, []domain.Page{
		{Number: 1, Name: "species", Question: "questions.species", Buttons: []domain.Button{
			{Text: "buttons.dog", TargetPage: 2},
			{Text: "buttons.cat", TargetPage: 3},
		}},
		{Number: 2, Name: "age", Question: "How old is your dog?", Buttons: []domain.Button{
			{Text: "Puppy", TargetPage: 3},
			{Text: "Broken", TargetPage: 99},
		}},
		{Number: 3, Name: "result", Question: "questions.result", Buttons: []domain.Button{
			{Text: "VALID1"},
			{Text: "NOPE"},
		}},
		{Number: 4, Name: "info", Question: "Anything else?", Buttons: []domain.Button{
			{Text: "No"},
		}},
	})
	catalog := &domain.Catalog{Brand: domain.BrandNutram, Products: map[string]domain.Product{
		"VALID1": {Code: "VALID1", Series: "Sound", NameKey: "products.valid1.name"},
	}}
	return memory.NewLoader().AddGraph(graph).AddCatalog(catalog)
}
