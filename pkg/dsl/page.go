package dsl

import "github.com/aretw0/advisor/pkg/domain"

// resultQuestion marks pages built with Result.
const resultQuestion = "questions.result"

// PageBuilder provides a fluent API for configuring a page.
type PageBuilder struct {
	page domain.Page
}

// Name sets the page name.
func (p *PageBuilder) Name(name string) *PageBuilder {
	p.page.Name = name
	return p
}

// Question sets the question text or translation key.
func (p *PageBuilder) Question(q string) *PageBuilder {
	p.page.Question = q
	return p
}

// Button appends an answer leading to target.
func (p *PageBuilder) Button(text string, target int) *PageBuilder {
	p.page.Buttons = append(p.page.Buttons, domain.Button{Text: text, TargetPage: target})
	return p
}

// Result turns the page into a result page listing product codes.
func (p *PageBuilder) Result(codes ...string) *PageBuilder {
	p.page.Question = resultQuestion
	p.page.Buttons = p.page.Buttons[:0]
	for _, code := range codes {
		p.page.Buttons = append(p.page.Buttons, domain.Button{Text: code})
	}
	return p
}

// Build returns the underlying domain.Page.
func (p *PageBuilder) Build() domain.Page {
	page := p.page
	page.Buttons = append([]domain.Button(nil), p.page.Buttons...)
	return page
}
