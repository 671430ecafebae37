package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/advisor/internal/runtime"
	"github.com/aretw0/advisor/pkg/domain"
)

// GraphOverlay contains session state to visualize on the graph.
type GraphOverlay struct {
	VisitedPages []int
	CurrentPage  int
}

// Options tunes the generated chart.
type Options struct {
	// Translator resolves question and button keys. Nil prints raw keys.
	Translator domain.Translator
	// Overlay highlights a session's path. Nil disables it.
	Overlay *GraphOverlay
}

// GenerateMermaid produces a Mermaid flowchart of a navigation graph.
// Shapes:
// - First page: ((Circle))
// - Result page: {{Hexagon}}, listing its product codes
// - Question page: [/Parallelogram/]
// Buttons become labelled edges. Targets that are not pages of the graph are
// drawn as dashed edges to a "missing" node.
func GenerateMermaid(g *domain.NavigationGraph, opts Options) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	missing := make(map[int]bool)
	for _, page := range g.Pages {
		id := nodeID(page.Number)
		text := page.QuestionRef.Resolve(opts.Translator)
		if text == "" {
			text = page.Name
		}
		isResult := runtime.IsResultPage(&page)

		opener, closer := "[/", "/]"
		switch {
		case page.Number == domain.FirstPage:
			opener, closer = "((", "))"
		case isResult:
			opener, closer = "{{", "}}"
		}

		label := fmt.Sprintf("%d: %s", page.Number, text)
		if isResult {
			label += " <br/> " + strings.Join(runtime.ProductCodes(&page), ", ")
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", id, opener, escape(label), closer))

		if isResult {
			continue
		}
		for _, b := range page.Buttons {
			btn := escape(b.Label.Resolve(opts.Translator))
			if g.Has(b.TargetPage) {
				sb.WriteString(fmt.Sprintf("    %s -- \"%s\" --> %s\n", id, btn, nodeID(b.TargetPage)))
				continue
			}
			missing[b.TargetPage] = true
			sb.WriteString(fmt.Sprintf("    %s -. \"%s\" .-> %s\n", id, btn, nodeID(b.TargetPage)))
		}
	}

	if len(missing) > 0 {
		sb.WriteString("\n    classDef missing fill:#ffebee,stroke:#c62828,stroke-dasharray:5 5,color:#000;\n")
		for _, page := range g.Pages {
			for _, b := range page.Buttons {
				if missing[b.TargetPage] {
					sb.WriteString(fmt.Sprintf("    %s[\"missing %d\"]\n    class %s missing;\n", nodeID(b.TargetPage), b.TargetPage, nodeID(b.TargetPage)))
					delete(missing, b.TargetPage)
				}
			}
		}
	}

	if overlay := opts.Overlay; overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Black text keeps contrast on light fills in both themes.
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[int]bool)
		for _, n := range overlay.VisitedPages {
			if seen[n] || !g.Has(n) {
				continue
			}
			seen[n] = true
			sb.WriteString(fmt.Sprintf("    class %s visited;\n", nodeID(n)))
		}
		if overlay.CurrentPage != 0 && g.Has(overlay.CurrentPage) {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", nodeID(overlay.CurrentPage)))
		}
	}

	return sb.String()
}

func nodeID(n int) string {
	if n < 0 {
		return fmt.Sprintf("pm%d", -n)
	}
	return fmt.Sprintf("p%d", n)
}

func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}
