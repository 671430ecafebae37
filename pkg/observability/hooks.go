package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/advisor/pkg/domain"
)

// LoggingHooks logs every lifecycle event at info level.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnPageEnter: func(ctx context.Context, e *domain.PageEvent) {
			logger.InfoContext(ctx, "page_enter", "session_id", e.SessionID, "brand", e.Brand, "page", e.Page, "from", e.From)
		},
		OnPageLeave: func(ctx context.Context, e *domain.PageEvent) {
			logger.InfoContext(ctx, "page_leave", "session_id", e.SessionID, "brand", e.Brand, "page", e.Page, "to", e.To)
		},
		OnBack: func(ctx context.Context, e *domain.PageEvent) {
			logger.InfoContext(ctx, "back", "session_id", e.SessionID, "brand", e.Brand, "page", e.Page, "from", e.From)
		},
		OnResult: func(ctx context.Context, e *domain.ResultEvent) {
			logger.InfoContext(ctx, "result", "session_id", e.SessionID, "brand", e.Brand, "page", e.Page, "products", e.Products)
		},
		OnReset: func(ctx context.Context, e *domain.EventBase) {
			logger.InfoContext(ctx, "reset", "session_id", e.SessionID, "brand", e.Brand)
		},
	}
}

// Combine fans each event out to all hooks in order.
func Combine(all ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, h := range all {
		if f := h.OnPageEnter; f != nil {
			prev := out.OnPageEnter
			out.OnPageEnter = func(ctx context.Context, e *domain.PageEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				f(ctx, e)
			}
		}
		if f := h.OnPageLeave; f != nil {
			prev := out.OnPageLeave
			out.OnPageLeave = func(ctx context.Context, e *domain.PageEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				f(ctx, e)
			}
		}
		if f := h.OnBack; f != nil {
			prev := out.OnBack
			out.OnBack = func(ctx context.Context, e *domain.PageEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				f(ctx, e)
			}
		}
		if f := h.OnResult; f != nil {
			prev := out.OnResult
			out.OnResult = func(ctx context.Context, e *domain.ResultEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				f(ctx, e)
			}
		}
		if f := h.OnReset; f != nil {
			prev := out.OnReset
			out.OnReset = func(ctx context.Context, e *domain.EventBase) {
				if prev != nil {
					prev(ctx, e)
				}
				f(ctx, e)
			}
		}
	}
	return out
}
