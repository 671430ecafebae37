// Package validator checks navigation graphs offline, before they are served.
package validator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/advisor/internal/runtime"
	"github.com/aretw0/advisor/pkg/domain"
)

// Violation is a button whose target page does not exist.
type Violation struct {
	Page          int    `json:"page"`
	Button        string `json:"button"`
	ButtonIndex   int    `json:"button_index"`
	MissingTarget int    `json:"missing_target"`
}

func (v Violation) String() string {
	return fmt.Sprintf("page %d button %q targets missing page %d", v.Page, v.Button, v.MissingTarget)
}

// MissingProduct is a result-page code with no catalog entry.
type MissingProduct struct {
	Page int    `json:"page"`
	Code string `json:"code"`
}

// Report is the full integrity check of one brand.
type Report struct {
	Brand           domain.Brand     `json:"brand"`
	Pages           int              `json:"pages"`
	Violations      []Violation      `json:"violations"`
	Duplicates      []int            `json:"duplicates"`
	MissingProducts []MissingProduct `json:"missing_products"`
	Unreachable     []int            `json:"unreachable"`
}

// Valid reports whether the graph can be served. Missing products and
// unreachable pages are warnings.
func (r *Report) Valid() bool {
	return len(r.Violations) == 0 && len(r.Duplicates) == 0
}

// Err returns the fatal findings as one error, or nil.
func (r *Report) Err() error {
	if r.Valid() {
		return nil
	}
	var msgs []string
	for _, v := range r.Violations {
		msgs = append(msgs, v.String())
	}
	for _, n := range r.Duplicates {
		msgs = append(msgs, fmt.Sprintf("page number %d is used more than once", n))
	}
	return fmt.Errorf("%s: found %d errors:\n- %s", r.Brand, len(msgs), strings.Join(msgs, "\n- "))
}

// Warnings lists the non-fatal findings.
func (r *Report) Warnings() []string {
	var out []string
	for _, m := range r.MissingProducts {
		out = append(out, fmt.Sprintf("page %d lists product %q which is not in the catalog", m.Page, m.Code))
	}
	for _, n := range r.Unreachable {
		out = append(out, fmt.Sprintf("page %d is unreachable from page %d", n, domain.FirstPage))
	}
	return out
}

// ValidateGraph returns every button whose target_page is not a page of
// graph. Result pages are skipped since their buttons carry product codes.
func ValidateGraph(graph *domain.NavigationGraph) []Violation {
	violations := []Violation{}
	if graph == nil {
		return violations
	}
	for _, p := range graph.Pages {
		if runtime.IsResultPage(&p) {
			continue
		}
		for i, b := range p.Buttons {
			if graph.Has(b.TargetPage) {
				continue
			}
			violations = append(violations, Violation{
				Page:          p.Number,
				Button:        b.Text,
				ButtonIndex:   i,
				MissingTarget: b.TargetPage,
			})
		}
	}
	return violations
}

// Check runs ValidateGraph plus the catalog, duplicate and reachability checks.
// catalog may be nil, which skips the product check.
func Check(graph *domain.NavigationGraph, catalog *domain.Catalog) *Report {
	r := &Report{
		Brand:           graph.Brand,
		Pages:           graph.Len(),
		Violations:      ValidateGraph(graph),
		Duplicates:      duplicates(graph),
		MissingProducts: []MissingProduct{},
		Unreachable:     unreachable(graph),
	}

	if catalog != nil {
		for _, p := range graph.Pages {
			if !runtime.IsResultPage(&p) {
				continue
			}
			for _, code := range runtime.ProductCodes(&p) {
				if _, ok := catalog.Lookup(code); !ok {
					r.MissingProducts = append(r.MissingProducts, MissingProduct{Page: p.Number, Code: code})
				}
			}
		}
	}
	return r
}

func duplicates(graph *domain.NavigationGraph) []int {
	seen := make(map[int]int)
	for _, p := range graph.Pages {
		seen[p.Number]++
	}
	out := []int{}
	for n, count := range seen {
		if count > 1 {
			out = append(out, n)
		}
	}
	sort.Ints(out)
	return out
}

// unreachable crawls the graph breadth-first from the first page.
func unreachable(graph *domain.NavigationGraph) []int {
	visited := make(map[int]bool)
	queue := []int{domain.FirstPage}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if visited[n] {
			continue
		}
		page, ok := graph.Page(n)
		if !ok {
			continue
		}
		visited[n] = true
		if runtime.IsResultPage(page) {
			continue
		}
		for _, b := range page.Buttons {
			if !visited[b.TargetPage] {
				queue = append(queue, b.TargetPage)
			}
		}
	}

	out := []int{}
	for _, p := range graph.Pages {
		if !visited[p.Number] {
			out = append(out, p.Number)
			visited[p.Number] = true
		}
	}
	return out
}
