// Package pipeline implements the transaction pipeline: the handler chain
// that every posting flows through on its way to a terminal renderer, and
// the account-aggregation pass driven over the resulting xdata.
//
// A chain is built tail to head — each wrapper owns the handler it
// forwards to — but runs head first: the driver feeds postings to the
// head, and each handler forwards zero, one, or many postings to its own
// downstream handler before the driver calls Flush on the head once
// iteration ends.
package pipeline

import (
	"context"
	"time"

	"github.com/presto8/ledger-mode/ledger"
)

// PostHandler is one stage of the transaction pipeline. Accept consumes one
// posting and may forward zero, one, or many postings downstream; it may
// mutate the posting's xdata but never its Amount, Account, or Entry.
// Flush signals end of input: a handler must emit any buffered output and
// then call Flush on its downstream handler exactly once. A second Flush
// call is a no-op.
type PostHandler interface {
	Accept(ctx context.Context, p *ledger.Posting) error
	Flush(ctx context.Context) error
}

// AccountHandler is the account-report pass's analogue of PostHandler.
type AccountHandler interface {
	Accept(ctx context.Context, a *ledger.Account) error
	Flush(ctx context.Context) error
}

// PredicateEvaluator is the opaque boolean test the filter handlers defer
// to. ledger.PredicateExpr is the built-in implementation.
type PredicateEvaluator interface {
	Eval(ctx context.Context, p *ledger.Posting) (bool, error)
}

// KeyEvaluator produces a sort key from a posting or entry. ledger.KeyExpr
// is the built-in implementation.
type KeyEvaluator interface {
	Eval(ctx context.Context, p *ledger.Posting) (ledger.Value, error)
	EvalEntry(ctx context.Context, e *ledger.Entry) (ledger.Value, error)
}

// SessionPostings iterates every posting of every entry of every journal in
// journals, in journal-then-entry-then-posting order.
func SessionPostings(journals []*ledger.Journal) []*ledger.Posting {
	var out []*ledger.Posting
	for _, j := range journals {
		for _, e := range j.Entries {
			out = append(out, e.Postings...)
		}
	}
	return out
}

// EntryPostings iterates the postings of a single entry.
func EntryPostings(e *ledger.Entry) []*ledger.Posting {
	return e.Postings
}

// Drive feeds every posting in postings to head in order, checking
// ctx.Err() between postings (matching the granularity at which a caller
// may abort a report), then calls head.Flush once iteration ends or an
// error occurs.
func Drive(ctx context.Context, head PostHandler, postings []*ledger.Posting) error {
	for _, p := range postings {
		if err := ctx.Err(); err != nil {
			head.Flush(ctx)
			return err
		}
		if err := head.Accept(ctx, p); err != nil {
			head.Flush(ctx)
			return err
		}
	}
	return head.Flush(ctx)
}

// DriveAccounts walks root depth-first, feeding every account to head, then
// flushes head.
func DriveAccounts(ctx context.Context, head AccountHandler, root *ledger.Account) error {
	var err error
	root.Walk(func(a *ledger.Account) {
		if err != nil {
			return
		}
		err = head.Accept(ctx, a)
	})
	if err != nil {
		head.Flush(ctx)
		return err
	}
	return head.Flush(ctx)
}

// effectiveAmount returns p's amount as overridden by the running report's
// xdata, falling back to p.Amount when no store is attached to ctx or no
// override was set — the same rule ledger.PostingXData.EffectiveAmount
// encodes, available here without a direct xdata pointer.
func effectiveAmount(ctx context.Context, p *ledger.Posting) ledger.Value {
	store := ledger.XDataStoreFromContext(ctx)
	if store == nil {
		return p.Amount
	}
	return store.PostingXData(p).EffectiveAmount(p)
}

// effectivePayee returns p.Entry's PayeeOverride if the running report's
// xdata set one, else p.Entry.Payee.
func effectivePayee(ctx context.Context, p *ledger.Posting) string {
	store := ledger.XDataStoreFromContext(ctx)
	if store != nil {
		if ov := store.PostingXData(p).PayeeOverride; ov != nil {
			return *ov
		}
	}
	return p.Entry.Payee
}

// effectiveDate returns p's DateOverride if the running report's xdata set
// one, else p.EffectiveDate().
func effectiveDate(ctx context.Context, p *ledger.Posting) time.Time {
	store := ledger.XDataStoreFromContext(ctx)
	if store != nil {
		if ov := store.PostingXData(p).DateOverride; ov != nil {
			return *ov
		}
	}
	return p.EffectiveDate()
}

// postingXData returns the running report's xdata for p, or a detached
// PostingXData (not persisted anywhere) when no store is attached to ctx,
// so handlers can run standalone in tests without a report.
func postingXData(ctx context.Context, p *ledger.Posting) *ledger.PostingXData {
	store := ledger.XDataStoreFromContext(ctx)
	if store == nil {
		return &ledger.PostingXData{}
	}
	return store.PostingXData(p)
}

// accountXData returns the running report's xdata for a, or a detached
// AccountXData when no store is attached to ctx.
func accountXData(ctx context.Context, a *ledger.Account) *ledger.AccountXData {
	store := ledger.XDataStoreFromContext(ctx)
	if store == nil {
		return &ledger.AccountXData{}
	}
	return store.AccountXData(a)
}
