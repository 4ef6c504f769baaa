package pipeline

import (
	"context"

	"github.com/presto8/ledger-mode/ledger"
)

// acctBucket is the per-(account, commodity) aggregation shared by
// subtotal, interval, dow, and by_payee: each buckets postings by a
// different key, but within one bucket all four sum effective amounts per
// account and commodity the same way, in the same output order (accounts
// depth-first over the account tree, commodities in first-seen order
// within an account).
type acctBucket struct {
	sums        map[*ledger.Account]*ledger.Balance
	commodities map[*ledger.Account][]string
	components  map[*ledger.Account]map[string][]*ledger.Posting
	remember    bool
}

func newAcctBucket(remember bool) *acctBucket {
	return &acctBucket{
		sums:        make(map[*ledger.Account]*ledger.Balance),
		commodities: make(map[*ledger.Account][]string),
		components:  make(map[*ledger.Account]map[string][]*ledger.Posting),
		remember:    remember,
	}
}

func (b *acctBucket) add(ctx context.Context, p *ledger.Posting) {
	a := p.Account
	bal, ok := b.sums[a]
	if !ok {
		bal = ledger.NewBalance()
		b.sums[a] = bal
	}
	for _, e := range effectiveAmount(ctx, p).Balance().Entries() {
		if bal.Get(e.Commodity).IsZero() {
			alreadyListed := false
			for _, c := range b.commodities[a] {
				if c == e.Commodity {
					alreadyListed = true
					break
				}
			}
			if !alreadyListed {
				b.commodities[a] = append(b.commodities[a], e.Commodity)
			}
		}
		bal.Add(e.Commodity, e.Quantity)
		if b.remember {
			if b.components[a] == nil {
				b.components[a] = make(map[string][]*ledger.Posting)
			}
			b.components[a][e.Commodity] = append(b.components[a][e.Commodity], p)
		}
	}
}

// emit appends one synthetic posting per (account, commodity) this bucket
// saw to entry, walking root depth-first, and returns the postings in that
// order. It does not forward them; callers decide when to do that.
func (b *acctBucket) emit(ctx context.Context, root *ledger.Account, entry *ledger.Entry) []*ledger.Posting {
	var out []*ledger.Posting
	root.Walk(func(a *ledger.Account) {
		bal, ok := b.sums[a]
		if !ok {
			return
		}
		for _, commodity := range b.commodities[a] {
			sp := entry.AddPosting(&ledger.Posting{
				Account: a,
				Amount:  ledger.AmountValue(ledger.Amount{Quantity: bal.Get(commodity), Commodity: commodity}),
			})
			x := postingXData(ctx, sp)
			x.Synthetic = true
			if b.remember {
				x.Components = b.components[a][commodity]
			}
			out = append(out, sp)
		}
	})
	return out
}
