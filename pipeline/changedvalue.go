package pipeline

import (
	"context"
	"time"

	"github.com/presto8/ledger-mode/ledger"
)

// RevaluedAccountName is the distinguished account changed_value's
// revaluation postings are attributed to.
const RevaluedAccountName = "<Revalued>"

// ChangedValueHandler compares, between consecutive forwarded postings, the
// market value of commodities held so far (at the price source's quote for
// the earlier posting's date against its quote for the later posting's
// date): if that value changed, it emits a synthetic posting to
// RevaluedAccountName carrying the delta, dated at the later posting's
// date — the date at which the new price was actually queried, since
// PriceSource exposes no earlier change-point than that. With
// ShowRevaluedOnly set, original postings are dropped and only revaluation
// postings are forwarded.
type ChangedValueHandler struct {
	prices           PriceSource
	revalued         *ledger.Account
	showRevaluedOnly bool
	next             PostHandler

	holdings *ledger.Balance
	havePrev bool
	prevDate time.Time
}

// PriceSource is queried by ChangedValueHandler to value held commodities
// in a reference commodity at a point in time.
type PriceSource interface {
	Price(commodity string, at time.Time) (ledger.Value, bool)
}

// NewChangedValueHandler returns a ChangedValueHandler wrapping next.
// revalued is the account revaluation postings are attributed to.
func NewChangedValueHandler(prices PriceSource, revalued *ledger.Account, showRevaluedOnly bool, next PostHandler) *ChangedValueHandler {
	return &ChangedValueHandler{prices: prices, revalued: revalued, showRevaluedOnly: showRevaluedOnly, next: next, holdings: ledger.NewBalance()}
}

func (h *ChangedValueHandler) Accept(ctx context.Context, p *ledger.Posting) error {
	curDate := effectiveDate(ctx, p)

	if h.havePrev && curDate.After(h.prevDate) {
		oldValue := h.marketValue(h.prevDate)
		newValue := h.marketValue(curDate)
		delta := newValue.Sub(oldValue)
		if !delta.IsZero() {
			entry := &ledger.Entry{Date: curDate}
			sp := entry.AddPosting(&ledger.Posting{Account: h.revalued, Amount: delta})
			postingXData(ctx, sp).Synthetic = true
			if err := h.next.Accept(ctx, sp); err != nil {
				return err
			}
		}
	}

	if !h.showRevaluedOnly {
		if err := h.next.Accept(ctx, p); err != nil {
			return err
		}
	}

	h.holdings.Merge(effectiveAmount(ctx, p).Balance())
	h.prevDate = curDate
	h.havePrev = true
	return nil
}

func (h *ChangedValueHandler) Flush(ctx context.Context) error { return h.next.Flush(ctx) }

// marketValue restates h.holdings in the price source's reference
// commodity at the given instant, falling back to a commodity's own
// unconverted quantity when no price is known for it.
func (h *ChangedValueHandler) marketValue(at time.Time) ledger.Value {
	total := ledger.NullValue
	for _, e := range h.holdings.Entries() {
		if v, ok := h.prices.Price(e.Commodity, at); ok {
			qty, _ := v.Amount()
			total = total.Add(ledger.AmountValue(ledger.Amount{Quantity: qty.Quantity.Mul(e.Quantity), Commodity: qty.Commodity}))
			continue
		}
		total = total.Add(ledger.AmountValue(ledger.Amount{Quantity: e.Quantity, Commodity: e.Commodity}))
	}
	return total
}
