package ledger

import (
	"context"
	"time"
)

// PostingXData is a posting's pipeline scratchpad. It is never stored on
// the Posting itself — it lives in a side table owned by the running
// report (see report.Report), keyed by the Posting's pointer identity, and
// is discarded when the report finishes. This is what spec.md calls xdata:
// mutable pipeline state kept off the (otherwise immutable) journal
// entities.
type PostingXData struct {
	// RunningTotal is the running-total snapshot calc writes after adding
	// this posting's effective amount.
	RunningTotal Value

	// AmountOverride, when non-nil, is the effective amount a handler
	// (invert) substitutes for Posting.Amount.
	AmountOverride *Value

	// DateOverride, when non-nil, substitutes for the posting's effective
	// date wherever handlers and expressions read that date. No handler in
	// this module sets it.
	DateOverride *time.Time

	// PayeeOverride, when non-nil, substitutes for the entry's payee
	// (set_comm_as_payee, set_code_as_payee).
	PayeeOverride *string

	// SortKey is the Value a sort handler computed for this posting.
	SortKey Value

	// Synthetic marks a posting as generated by an accumulator rather than
	// present in the original journal.
	Synthetic bool

	// Components, set when remember_components is active, lists the
	// pre-aggregation postings this (synthetic) posting summarizes, as
	// pointers to those postings.
	Components []*Posting

	// Matched marks a posting as already emitted by the related-postings
	// expander, so it is not re-emitted for a later sibling.
	Matched bool
}

// EffectiveAmount returns AmountOverride if set, else the posting's own
// Amount. Handlers read this, never Posting.Amount directly, once any
// upstream handler may have overridden it.
func (x *PostingXData) EffectiveAmount(p *Posting) Value {
	if x != nil && x.AmountOverride != nil {
		return *x.AmountOverride
	}
	return p.Amount
}

// AccountXData is an account's per-report mutable aggregate, used by the
// account-aggregation pass (§4.5). Like PostingXData it lives in a side
// table, never on the Account itself.
type AccountXData struct {
	// Total is the account's own direct postings plus, after phase 2 of
	// the account-aggregation pass, the recursive total of its children.
	Total Value

	// Subtotal is the total shown for this account; report.AccountsReport
	// sets it to the account's final Total when it visits the account.
	Subtotal Value

	// Displayed marks that report.AccountsReport has visited this account
	// in phase 3 of the account-aggregation pass.
	Displayed bool

	// Matched marks an account that at least one posting landed on directly
	// in phase 1 of the account-aggregation pass (SetAccountValueHandler),
	// as distinct from accounts present only as ancestors.
	Matched bool
}

// XDataStore is the side table a running report keeps posting and account
// xdata in. report.Report implements this; handlers and expression
// evaluators read and write xdata exclusively through it, never by
// attaching fields to a Posting or Account directly.
type XDataStore interface {
	PostingXData(p *Posting) *PostingXData
	AccountXData(a *Account) *AccountXData
}

type xdataStoreKey struct{}

// ContextWithXDataStore attaches a store to ctx so that evaluators — which
// the external PredicateEvaluator/KeyEvaluator interfaces give only a
// context and a posting, not a store — can still resolve effective
// amounts, dates, and payees. The pipeline sets this once per report run.
func ContextWithXDataStore(ctx context.Context, store XDataStore) context.Context {
	return context.WithValue(ctx, xdataStoreKey{}, store)
}

// XDataStoreFromContext returns the store attached by
// ContextWithXDataStore, or nil if none was attached.
func XDataStoreFromContext(ctx context.Context) XDataStore {
	store, _ := ctx.Value(xdataStoreKey{}).(XDataStore)
	return store
}
