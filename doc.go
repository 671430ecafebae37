/*
Package advisor is a pet-food recommendation quiz engine.

A session picks a brand, walks that brand's navigation graph of question
pages by following answer buttons, and ends on a result page whose buttons
are product codes resolved against the brand's catalog. The engine keeps the
visit history for back navigation and computes progress from the page
number.

# Concept

The quiz is data: each brand ships a navigation graph (pages with buttons
pointing at target pages) and a product catalog. The Engine interprets that
data; hosts (the HTTP API, the MCP server, the terminal player) render the
View it returns and feed button choices back. State is a plain value passed
in and returned by every operation, so hosts decide where it lives.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/advisor"
		"github.com/aretw0/advisor/pkg/domain"
	)

	func main() {
		// Uses the embedded sample datasets and Hebrew dictionary.
		eng, err := advisor.New()
		if err != nil {
			log.Fatal(err)
		}

		ctx := context.Background()
		state, err := eng.Start(ctx, "session-123", domain.BrandNutram)
		if err != nil {
			log.Fatal(err)
		}

		for {
			view, err := eng.Render(ctx, state)
			if err != nil {
				log.Fatal(err)
			}
			if view.IsResult {
				for _, p := range view.Products {
					fmt.Println(p.Code, eng.Translate(p.NameKey))
				}
				return
			}
			// Always pick the first answer.
			state, err = eng.Choose(ctx, state, 0)
			if err != nil {
				log.Fatal(err)
			}
		}
	}

Datasets can also come from a directory (WithDatasetDir, hot reloaded through
Watch) or be built in code with pkg/dsl.
*/
package advisor
