package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/advisor/pkg/domain"
)

const progressWidth = 20

// BrandsMarkdown lists the brand selector entries, numbered from 1.
func BrandsMarkdown(brands []domain.BrandInfo) string {
	var sb strings.Builder
	sb.WriteString("# Choose a brand\n\n")
	for i, b := range brands {
		line := fmt.Sprintf("%d. **%s**", i+1, b.Name)
		if !b.Available {
			line += " _(coming soon)_"
		}
		sb.WriteString(line + "\n")
	}
	return sb.String()
}

// ViewMarkdown renders a session view: the question with numbered answers,
// or the recommended products on a result page.
func ViewMarkdown(view *domain.View, t domain.Translator) string {
	var sb strings.Builder

	switch view.Phase {
	case domain.PhaseNoBrand:
		return "_No brand selected._\n"
	case domain.PhaseNotFound:
		fmt.Fprintf(&sb, "# Page %d not found\n\nThis questionnaire has a broken link. Go back or start over.\n", view.CurrentPage)
		return sb.String()
	}

	page := view.Page
	fmt.Fprintf(&sb, "`%s` %d%%\n\n", progressBar(view.Progress), view.Progress)

	if view.Phase == domain.PhaseAtResult {
		sb.WriteString("# " + tr(t, "app.recommended") + "\n\n")
		if len(view.Products) == 0 {
			sb.WriteString("_No matching products._\n")
		}
		for _, p := range view.Products {
			fmt.Fprintf(&sb, "## %s\n\n", tr(t, p.NameKey))
			fmt.Fprintf(&sb, "`%s` %s\n\n", p.Code, p.Series)
			if p.DescriptionKey != "" {
				sb.WriteString(tr(t, p.DescriptionKey) + "\n\n")
			}
			if len(p.Benefits) > 0 {
				sb.WriteString("**" + tr(t, "app.benefits") + "**\n\n")
				for _, b := range p.Benefits {
					sb.WriteString("- " + tr(t, b) + "\n")
				}
				sb.WriteString("\n")
			}
			if p.ForWhomKey != "" {
				fmt.Fprintf(&sb, "**%s:** %s\n\n", tr(t, "app.forWhom"), tr(t, p.ForWhomKey))
			}
		}
		return sb.String()
	}

	sb.WriteString("# " + page.QuestionRef.Resolve(t) + "\n\n")
	for i, b := range page.Buttons {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, b.Label.Resolve(t))
	}
	return sb.String()
}

func progressBar(pct int) string {
	filled := pct * progressWidth / 100
	if filled < 0 {
		filled = 0
	}
	if filled > progressWidth {
		filled = progressWidth
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", progressWidth-filled)
}

func tr(t domain.Translator, key string) string {
	if t == nil {
		return key
	}
	return t.T(key)
}
