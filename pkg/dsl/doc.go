/*
Package dsl provides a fluent builder for navigation graphs and product catalogs.

It is an alternative to dataset files for tests and for hosts that assemble
a questionnaire in code.

Example usage:

	b := dsl.New(domain.BrandNutram)

	b.Page(1).
		Question("questions.species").
		Button("buttons.dog", 2).
		Button("buttons.cat", 3)

	b.Page(2).Question("questions.dogAge").Button("buttons.puppy", 3)

	b.Page(3).Result("S2", "T22")

	b.Product(domain.Product{Code: "S2", NameKey: "products.nutram.s2.name"})

	loader, err := b.Build()
	// ... pass loader to advisor.New(...)
*/
package dsl
