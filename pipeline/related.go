package pipeline

import (
	"context"

	"github.com/presto8/ledger-mode/ledger"
)

// RelatedHandler expands a forwarded posting into its related postings:
// every other posting of the same entry that has not already been emitted
// by this handler, or — with showAll — every posting of the entry
// including the one that triggered the expansion. A per-entry guard
// ensures one entry is expanded only once, however many of its postings
// arrive here.
type RelatedHandler struct {
	showAll bool
	next    PostHandler

	expanded map[*ledger.Entry]bool
}

// NewRelatedHandler returns a RelatedHandler wrapping next.
func NewRelatedHandler(showAll bool, next PostHandler) *RelatedHandler {
	return &RelatedHandler{showAll: showAll, next: next, expanded: make(map[*ledger.Entry]bool)}
}

func (h *RelatedHandler) Accept(ctx context.Context, p *ledger.Posting) error {
	e := p.Entry
	if h.expanded[e] {
		return nil
	}
	h.expanded[e] = true

	for _, q := range e.Postings {
		x := postingXData(ctx, q)
		if !h.showAll {
			if q == p || x.Matched {
				continue
			}
		}
		x.Matched = true
		if err := h.next.Accept(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

func (h *RelatedHandler) Flush(ctx context.Context) error { return h.next.Flush(ctx) }
