package pipeline

import (
	"context"

	"github.com/presto8/ledger-mode/ledger"
)

// FilterHandler forwards a posting iff its predicate evaluates true for it,
// and drops it otherwise. It buffers nothing.
type FilterHandler struct {
	predicate PredicateEvaluator
	next      PostHandler
}

// NewFilterHandler returns a FilterHandler wrapping next.
func NewFilterHandler(predicate PredicateEvaluator, next PostHandler) *FilterHandler {
	return &FilterHandler{predicate: predicate, next: next}
}

func (h *FilterHandler) Accept(ctx context.Context, p *ledger.Posting) error {
	ok, err := h.predicate.Eval(ctx, p)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	return h.next.Accept(ctx, p)
}

func (h *FilterHandler) Flush(ctx context.Context) error { return h.next.Flush(ctx) }

// InvertHandler forwards every posting with its effective amount negated in
// xdata; the original posting is untouched. Downstream handlers that read
// EffectiveAmount (rather than p.Amount directly) see the inverted value.
type InvertHandler struct {
	next PostHandler
}

// NewInvertHandler returns an InvertHandler wrapping next.
func NewInvertHandler(next PostHandler) *InvertHandler {
	return &InvertHandler{next: next}
}

func (h *InvertHandler) Accept(ctx context.Context, p *ledger.Posting) error {
	x := postingXData(ctx, p)
	negated := effectiveAmount(ctx, p).Neg()
	x.AmountOverride = &negated
	return h.next.Accept(ctx, p)
}

func (h *InvertHandler) Flush(ctx context.Context) error { return h.next.Flush(ctx) }

// TruncateEntriesHandler buffers postings grouped by owning entry and, on
// flush, emits only the first headN and last tailN entries seen (by
// first-posting arrival order), union deduplicated, each with every one of
// its forwarded postings, in original relative order.
type TruncateEntriesHandler struct {
	headN, tailN int
	next         PostHandler

	order   []*ledger.Entry
	seen    map[*ledger.Entry]bool
	byEntry map[*ledger.Entry][]*ledger.Posting
	flushed bool
}

// NewTruncateEntriesHandler returns a TruncateEntriesHandler wrapping next.
func NewTruncateEntriesHandler(headN, tailN int, next PostHandler) *TruncateEntriesHandler {
	return &TruncateEntriesHandler{
		headN: headN, tailN: tailN, next: next,
		seen:    make(map[*ledger.Entry]bool),
		byEntry: make(map[*ledger.Entry][]*ledger.Posting),
	}
}

func (h *TruncateEntriesHandler) Accept(_ context.Context, p *ledger.Posting) error {
	e := p.Entry
	if !h.seen[e] {
		h.seen[e] = true
		h.order = append(h.order, e)
	}
	h.byEntry[e] = append(h.byEntry[e], p)
	return nil
}

func (h *TruncateEntriesHandler) Flush(ctx context.Context) error {
	if h.flushed {
		return nil
	}
	h.flushed = true

	admitted := make(map[*ledger.Entry]bool)
	n := len(h.order)
	for i := 0; i < h.headN && i < n; i++ {
		admitted[h.order[i]] = true
	}
	for i := n - h.tailN; i < n; i++ {
		if i >= 0 {
			admitted[h.order[i]] = true
		}
	}
	for _, e := range h.order {
		if !admitted[e] {
			continue
		}
		for _, p := range h.byEntry[e] {
			if err := h.next.Accept(ctx, p); err != nil {
				return err
			}
		}
	}
	return h.next.Flush(ctx)
}
