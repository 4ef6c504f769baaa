package pipeline

import (
	"context"

	"github.com/presto8/ledger-mode/ledger"
)

// SubtotalHandler buffers every posting over the whole input and, on
// flush, emits one synthetic entry with one posting per (account,
// commodity) pair that received a nonzero contribution — accounts in
// depth-first tree order, commodities in first-seen order within an
// account. With RememberComponents set, each synthetic posting's xdata
// carries the postings that contributed to it, for later expansion by a
// ComponentHandler.
type SubtotalHandler struct {
	root               *ledger.Account
	rememberComponents bool
	next               PostHandler

	bucket  *acctBucket
	anchor  *ledger.Entry
	started bool
	flushed bool
}

// NewSubtotalHandler returns a SubtotalHandler wrapping next. root is the
// account tree's master account, walked depth-first when emitting.
func NewSubtotalHandler(root *ledger.Account, rememberComponents bool, next PostHandler) *SubtotalHandler {
	return &SubtotalHandler{root: root, rememberComponents: rememberComponents, next: next, bucket: newAcctBucket(rememberComponents)}
}

func (h *SubtotalHandler) Accept(ctx context.Context, p *ledger.Posting) error {
	if !h.started {
		h.anchor = p.Entry
		h.started = true
	}
	h.bucket.add(ctx, p)
	return nil
}

func (h *SubtotalHandler) Flush(ctx context.Context) error {
	if h.flushed {
		return nil
	}
	h.flushed = true
	if h.started {
		entry := &ledger.Entry{Date: h.anchor.Date, Effective: h.anchor.Effective, Payee: h.anchor.Payee, Code: h.anchor.Code}
		for _, sp := range h.bucket.emit(ctx, h.root, entry) {
			if err := h.next.Accept(ctx, sp); err != nil {
				return err
			}
		}
	}
	return h.next.Flush(ctx)
}
