package pipeline

import (
	"context"

	"github.com/presto8/ledger-mode/ledger"
)

// CollectHandler is a trivial terminal PostHandler that appends every
// posting it accepts to Postings, in the order accepted. It is used
// throughout this module's own test suite in place of a real renderer.
type CollectHandler struct {
	Postings []*ledger.Posting
	Flushed  bool
}

// NewCollectHandler returns an empty CollectHandler.
func NewCollectHandler() *CollectHandler {
	return &CollectHandler{}
}

func (h *CollectHandler) Accept(_ context.Context, p *ledger.Posting) error {
	h.Postings = append(h.Postings, p)
	return nil
}

func (h *CollectHandler) Flush(_ context.Context) error {
	h.Flushed = true
	return nil
}

// SetAccountValueHandler is the sentinel terminal handler phase 1 of the
// account-aggregation pass drives the chain into: for every posting it
// accepts, it adds the effective amount to that posting's account's xdata
// total. It never forwards anything (there is nothing downstream of the
// account-aggregation pass's phase 1).
type SetAccountValueHandler struct{}

// NewSetAccountValueHandler returns a SetAccountValueHandler.
func NewSetAccountValueHandler() *SetAccountValueHandler {
	return &SetAccountValueHandler{}
}

func (h *SetAccountValueHandler) Accept(ctx context.Context, p *ledger.Posting) error {
	x := accountXData(ctx, p.Account)
	x.Total = x.Total.Add(effectiveAmount(ctx, p))
	x.Matched = true
	return nil
}

func (h *SetAccountValueHandler) Flush(_ context.Context) error { return nil }
