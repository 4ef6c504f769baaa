package pipeline

import (
	"context"

	"github.com/presto8/ledger-mode/ledger"
)

// ComponentHandler expands a forwarded posting into the postings that
// contributed to it (set by an upstream accumulator with remember_components
// enabled) when Expr evaluates true on the aggregate posting, replacing it
// with its components in their original order. A posting with no recorded
// components, or for which Expr is false, passes through unchanged.
// Chaining several ComponentHandlers applies them in the order they wrap
// each other; report.BuildTransactionChain wraps them so that they run in
// the order listed in Config.DescendExpr, first to last.
type ComponentHandler struct {
	expr PredicateEvaluator
	next PostHandler
}

// NewComponentHandler returns a ComponentHandler wrapping next.
func NewComponentHandler(expr PredicateEvaluator, next PostHandler) *ComponentHandler {
	return &ComponentHandler{expr: expr, next: next}
}

func (h *ComponentHandler) Accept(ctx context.Context, p *ledger.Posting) error {
	x := postingXData(ctx, p)
	if len(x.Components) > 0 {
		ok, err := h.expr.Eval(ctx, p)
		if err != nil {
			return err
		}
		if ok {
			for _, comp := range x.Components {
				if err := h.next.Accept(ctx, comp); err != nil {
					return err
				}
			}
			return nil
		}
	}
	return h.next.Accept(ctx, p)
}

func (h *ComponentHandler) Flush(ctx context.Context) error { return h.next.Flush(ctx) }
