package pipeline

import (
	"context"

	"github.com/presto8/ledger-mode/ledger"
)

// ByPayeeHandler buckets postings by effective payee, aggregated per
// (account, commodity) like SubtotalHandler, and emits one synthetic entry
// per payee in first-seen order.
type ByPayeeHandler struct {
	root     *ledger.Account
	remember bool
	next     PostHandler

	order   []string
	seen    map[string]bool
	buckets map[string]*acctBucket
	anchors map[string]*ledger.Entry
	flushed bool
}

// NewByPayeeHandler returns a ByPayeeHandler wrapping next.
func NewByPayeeHandler(root *ledger.Account, rememberComponents bool, next PostHandler) *ByPayeeHandler {
	return &ByPayeeHandler{
		root: root, remember: rememberComponents, next: next,
		seen:    make(map[string]bool),
		buckets: make(map[string]*acctBucket),
		anchors: make(map[string]*ledger.Entry),
	}
}

func (h *ByPayeeHandler) Accept(ctx context.Context, p *ledger.Posting) error {
	payee := effectivePayee(ctx, p)
	if !h.seen[payee] {
		h.seen[payee] = true
		h.order = append(h.order, payee)
		h.buckets[payee] = newAcctBucket(h.remember)
		h.anchors[payee] = p.Entry
	}
	h.buckets[payee].add(ctx, p)
	return nil
}

func (h *ByPayeeHandler) Flush(ctx context.Context) error {
	if h.flushed {
		return nil
	}
	h.flushed = true

	for _, payee := range h.order {
		anchor := h.anchors[payee]
		entry := &ledger.Entry{Date: anchor.Date, Effective: anchor.Effective, Payee: payee, Code: anchor.Code}
		for _, sp := range h.buckets[payee].emit(ctx, h.root, entry) {
			if err := h.next.Accept(ctx, sp); err != nil {
				return err
			}
		}
	}
	return h.next.Flush(ctx)
}
