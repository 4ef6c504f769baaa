package pipeline

import (
	"context"

	"github.com/presto8/ledger-mode/ledger"
)

// CommAsPayeeHandler rewrites a posting's effective payee (in xdata) to the
// commodity symbol of its effective amount, then forwards it.
type CommAsPayeeHandler struct {
	next PostHandler
}

// NewCommAsPayeeHandler returns a CommAsPayeeHandler wrapping next.
func NewCommAsPayeeHandler(next PostHandler) *CommAsPayeeHandler {
	return &CommAsPayeeHandler{next: next}
}

func (h *CommAsPayeeHandler) Accept(ctx context.Context, p *ledger.Posting) error {
	commodity := amountCommodity(effectiveAmount(ctx, p))
	postingXData(ctx, p).PayeeOverride = &commodity
	return h.next.Accept(ctx, p)
}

func (h *CommAsPayeeHandler) Flush(ctx context.Context) error { return h.next.Flush(ctx) }

// CodeAsPayeeHandler rewrites a posting's effective payee (in xdata) to its
// entry's code, then forwards it.
type CodeAsPayeeHandler struct {
	next PostHandler
}

// NewCodeAsPayeeHandler returns a CodeAsPayeeHandler wrapping next.
func NewCodeAsPayeeHandler(next PostHandler) *CodeAsPayeeHandler {
	return &CodeAsPayeeHandler{next: next}
}

func (h *CodeAsPayeeHandler) Accept(ctx context.Context, p *ledger.Posting) error {
	code := p.Entry.Code
	postingXData(ctx, p).PayeeOverride = &code
	return h.next.Accept(ctx, p)
}

func (h *CodeAsPayeeHandler) Flush(ctx context.Context) error { return h.next.Flush(ctx) }

// amountCommodity returns v's commodity if it holds exactly one, else the
// first of its commodities in sorted order, or "" if v is null.
func amountCommodity(v ledger.Value) string {
	if a, ok := v.Amount(); ok {
		return a.Commodity
	}
	cs := v.Commodities()
	if len(cs) == 0 {
		return ""
	}
	return cs[0]
}
