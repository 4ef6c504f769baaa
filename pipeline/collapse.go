package pipeline

import (
	"context"

	"github.com/presto8/ledger-mode/ledger"
)

// CollapseHandler buffers the postings of the entry currently in progress.
// When a posting belonging to a different entry arrives (or on flush), it
// emits one synthetic posting per commodity for the entry just finished,
// carrying that commodity's summed amount, attached to a synthetic entry
// cloning the original header. The synthetic posting's account is the
// entry's own account if every buffered posting shared one, else
// placeholder.
type CollapseHandler struct {
	placeholder *ledger.Account
	next        PostHandler

	current  *ledger.Entry
	buffered []*ledger.Posting
	flushed  bool
}

// NewCollapseHandler returns a CollapseHandler wrapping next. placeholder
// is the distinguished "<Total>" account used when an entry's buffered
// postings span more than one account.
func NewCollapseHandler(placeholder *ledger.Account, next PostHandler) *CollapseHandler {
	return &CollapseHandler{placeholder: placeholder, next: next}
}

func (h *CollapseHandler) Accept(ctx context.Context, p *ledger.Posting) error {
	if h.current != nil && p.Entry != h.current {
		if err := h.emit(ctx); err != nil {
			return err
		}
	}
	h.current = p.Entry
	h.buffered = append(h.buffered, p)
	return nil
}

func (h *CollapseHandler) Flush(ctx context.Context) error {
	if h.flushed {
		return nil
	}
	h.flushed = true

	if err := h.emit(ctx); err != nil {
		return err
	}
	return h.next.Flush(ctx)
}

func (h *CollapseHandler) emit(ctx context.Context) error {
	if len(h.buffered) == 0 {
		h.current = nil
		return nil
	}

	sums := ledger.NewBalance()
	account := h.buffered[0].Account
	sameAccount := true
	for _, p := range h.buffered {
		sums.Merge(effectiveAmount(ctx, p).Balance())
		if p.Account != account {
			sameAccount = false
		}
	}
	target := h.placeholder
	if sameAccount {
		target = account
	}

	original := h.current
	synthetic := &ledger.Entry{
		Date:      original.Date,
		Effective: original.Effective,
		Code:      original.Code,
		Payee:     original.Payee,
		State:     original.State,
	}
	for _, e := range sums.Entries() {
		sp := synthetic.AddPosting(&ledger.Posting{
			Account: target,
			Amount:  ledger.AmountValue(ledger.Amount{Quantity: e.Quantity, Commodity: e.Commodity}),
		})
		postingXData(ctx, sp).Synthetic = true
	}

	h.buffered = nil
	h.current = nil
	for _, sp := range synthetic.Postings {
		if err := h.next.Accept(ctx, sp); err != nil {
			return err
		}
	}
	return nil
}
