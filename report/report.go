package report

import (
	"context"

	"github.com/presto8/ledger-mode/ledger"
	"github.com/presto8/ledger-mode/pipeline"
)

// Report is one run of the transaction or account-aggregation pipeline. It
// owns the xdata side tables every handler and expression evaluator reads
// and writes through context.Context, per ledger.XDataStore — a fresh
// Report is cheap and meant to be discarded after one Run/RunAccounts call.
// Nothing here is safe for concurrent use; a report runs synchronously, one
// posting at a time, exactly like the chain it drives.
type Report struct {
	postings map[*ledger.Posting]*ledger.PostingXData
	accounts map[*ledger.Account]*ledger.AccountXData
}

// NewReport returns an empty Report.
func NewReport() *Report {
	return &Report{
		postings: make(map[*ledger.Posting]*ledger.PostingXData),
		accounts: make(map[*ledger.Account]*ledger.AccountXData),
	}
}

func (r *Report) PostingXData(p *ledger.Posting) *ledger.PostingXData {
	x, ok := r.postings[p]
	if !ok {
		x = &ledger.PostingXData{}
		r.postings[p] = x
	}
	return x
}

func (r *Report) AccountXData(a *ledger.Account) *ledger.AccountXData {
	x, ok := r.accounts[a]
	if !ok {
		x = &ledger.AccountXData{}
		r.accounts[a] = x
	}
	return x
}

// Run builds cfg's transaction chain around terminal and drives postings
// through it, returning any error translated to this package's structured
// kinds (see wrapRunErr). The context passed to terminal and every handler
// carries this Report as its xdata store.
func (r *Report) Run(ctx context.Context, cfg *Config, terminal pipeline.PostHandler, postings []*ledger.Posting) error {
	head, err := BuildTransactionChain(cfg, terminal)
	if err != nil {
		return err
	}
	ctx = ledger.ContextWithXDataStore(ctx, r)
	return wrapRunErr(pipeline.Drive(ctx, head, postings))
}

// RunAccounts drives the account-aggregation pass: phase 1 feeds postings
// through cfg's unconditional-only chain tail (primary filter, related
// expansion, inversion, payee override — see BuildAccountChain) into
// pipeline.SetAccountValueHandler, so each account's xdata Total accumulates
// its own direct, in-scope postings; phase 2 sums those totals up the tree
// depth-first so each account's Total also includes its descendants'; phase
// 3 drives terminal over the tree so it sees final totals top-down.
func (r *Report) RunAccounts(ctx context.Context, cfg *Config, postings []*ledger.Posting, terminal pipeline.AccountHandler) error {
	head, err := BuildAccountChain(cfg, pipeline.NewSetAccountValueHandler())
	if err != nil {
		return err
	}

	ctx = ledger.ContextWithXDataStore(ctx, r)

	if err := pipeline.Drive(ctx, head, postings); err != nil {
		return wrapRunErr(err)
	}

	r.sumAccountTotals(cfg.Root)

	return wrapRunErr(pipeline.DriveAccounts(ctx, terminal, cfg.Root))
}

// sumAccountTotals adds every child's (already recursively summed) Total
// into its parent's, post-order, so each account's final Total includes its
// whole subtree.
func (r *Report) sumAccountTotals(a *ledger.Account) ledger.Value {
	total := r.AccountXData(a).Total
	for _, child := range a.Children {
		total = total.Add(r.sumAccountTotals(child))
	}
	r.AccountXData(a).Total = total
	return total
}
