package runtime

import (
	"context"

	"github.com/aretw0/advisor/pkg/domain"
)

func (e *Engine) base(t domain.EventType, s *domain.State) domain.EventBase {
	return domain.EventBase{
		Timestamp: e.now(),
		Type:      t,
		SessionID: s.SessionID,
		Brand:     s.Brand,
	}
}

func (e *Engine) emitPageEnter(ctx context.Context, s *domain.State, from int) {
	if e.hooks.OnPageEnter == nil {
		return
	}
	e.hooks.OnPageEnter(ctx, &domain.PageEvent{
		EventBase: e.base(domain.EventPageEnter, s),
		Page:      s.CurrentPage,
		From:      from,
	})
}

func (e *Engine) emitPageLeave(ctx context.Context, s *domain.State, to int) {
	if e.hooks.OnPageLeave == nil {
		return
	}
	e.hooks.OnPageLeave(ctx, &domain.PageEvent{
		EventBase: e.base(domain.EventPageLeave, s),
		Page:      s.CurrentPage,
		To:        to,
	})
}

func (e *Engine) emitReset(ctx context.Context, s *domain.State) {
	if e.hooks.OnReset == nil {
		return
	}
	base := e.base(domain.EventReset, s)
	e.hooks.OnReset(ctx, &base)
}

// emitResultIfTerminal fires OnResult when s sits on a result page.
// Dataset errors are ignored here; Render reports them.
func (e *Engine) emitResultIfTerminal(ctx context.Context, s *domain.State) {
	if e.hooks.OnResult == nil {
		return
	}
	graph, err := e.resolver.LoadGraph(s.Brand)
	if err != nil {
		return
	}
	page := FindPage(graph, s.CurrentPage)
	if !IsResultPage(page) {
		return
	}
	e.hooks.OnResult(ctx, &domain.ResultEvent{
		EventBase: e.base(domain.EventResult, s),
		Page:      page.Number,
		Products:  ProductCodes(page),
	})
}
