package domain

// Button is a selectable answer on a page. On result pages Text holds a
// product code and TargetPage is unused.
type Button struct {
	Text       string `json:"text" yaml:"text" mapstructure:"text"`
	TargetPage int    `json:"target_page" yaml:"target_page" mapstructure:"target_page"`

	// Label is Text classified at load time (see NewGraph).
	Label TextRef `json:"label" yaml:"-" mapstructure:"-"`
}

// Page is a single question or result screen.
type Page struct {
	Number   int      `json:"page_number" yaml:"page_number" mapstructure:"page_number"`
	Name     string   `json:"page_name" yaml:"page_name" mapstructure:"page_name"`
	Question string   `json:"question" yaml:"question" mapstructure:"question"`
	Buttons  []Button `json:"buttons" yaml:"buttons" mapstructure:"buttons"`

	// QuestionRef is Question classified at load time (see NewGraph).
	QuestionRef TextRef `json:"question_ref" yaml:"-" mapstructure:"-"`
}

// NavigationGraph is the page-indexed questionnaire of one brand.
type NavigationGraph struct {
	Brand Brand  `json:"brand"`
	Pages []Page `json:"pages"`

	index map[int]int
}

// NewGraph builds a graph, classifying every question and button label once.
// When page numbers repeat, lookups resolve to the first occurrence.
func NewGraph(brand Brand, pages []Page) *NavigationGraph {
	g := &NavigationGraph{
		Brand: brand,
		Pages: make([]Page, len(pages)),
		index: make(map[int]int, len(pages)),
	}
	for i, p := range pages {
		p.QuestionRef = RefWithPrefix(p.Question, QuestionKeyPrefix)
		buttons := make([]Button, len(p.Buttons))
		for j, b := range p.Buttons {
			b.Label = RefWithPrefix(b.Text, ButtonKeyPrefix)
			buttons[j] = b
		}
		p.Buttons = buttons
		g.Pages[i] = p
		if _, dup := g.index[p.Number]; !dup {
			g.index[p.Number] = i
		}
	}
	return g
}

// Len returns the number of pages, used as the progress denominator.
func (g *NavigationGraph) Len() int {
	if g == nil {
		return 0
	}
	return len(g.Pages)
}

// Page returns a copy of the page numbered n.
func (g *NavigationGraph) Page(n int) (*Page, bool) {
	if g == nil {
		return nil, false
	}
	if g.index != nil {
		i, ok := g.index[n]
		if !ok {
			return nil, false
		}
		p := g.Pages[i]
		return &p, true
	}
	for _, p := range g.Pages {
		if p.Number == n {
			return &p, true
		}
	}
	return nil, false
}

// Has reports whether a page numbered n exists.
func (g *NavigationGraph) Has(n int) bool {
	_, ok := g.Page(n)
	return ok
}
