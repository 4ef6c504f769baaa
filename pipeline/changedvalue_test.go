package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/presto8/ledger-mode/ledger"
	"github.com/shopspring/decimal"
)

// fixedPriceSource quotes one commodity at one price regardless of date,
// except on a single configured "jump" date where the price doubles —
// enough to exercise ChangedValueHandler's delta detection without a real
// price graph.
type fixedPriceSource struct {
	before, after decimal.Decimal
	jumpDate      time.Time
	reference     string
}

func (s *fixedPriceSource) Price(commodity string, at time.Time) (ledger.Value, bool) {
	rate := s.before
	if !at.Before(s.jumpDate) {
		rate = s.after
	}
	return ledger.AmountValue(ledger.NewAmount(rate, s.reference)), true
}

func TestChangedValueHandlerEmitsRevaluationOnPriceMove(t *testing.T) {
	root := ledger.NewTree()
	jump := testDate.AddDate(0, 0, 5)

	p1 := newPosting(root, testDate, "Acme", "Assets/Stock", 10, "AAPL")
	p2 := newPosting(root, jump, "Acme", "Assets/Stock", 0, "AAPL")

	prices := &fixedPriceSource{before: decimal.NewFromInt(100), after: decimal.NewFromInt(110), jumpDate: jump, reference: "USD"}
	revalued := root.Find("<Revalued>")

	collect := NewCollectHandler()
	h := NewChangedValueHandler(prices, revalued, false, collect)

	ctx := context.Background()
	assert.NoError(t, h.Accept(ctx, p1))
	assert.NoError(t, h.Accept(ctx, p2))
	assert.NoError(t, h.Flush(ctx))

	assert.Equal(t, 3, len(collect.Postings))
	reval := collect.Postings[1]
	assert.Equal(t, revalued, reval.Account)
	assert.True(t, reval.Amount.Equal(amount(100, "USD"))) // 10 * (110 - 100)
	assert.Equal(t, jump, reval.Entry.Date)
}

func TestChangedValueHandlerShowRevaluedOnlyDropsOriginals(t *testing.T) {
	root := ledger.NewTree()
	jump := testDate.AddDate(0, 0, 5)

	p1 := newPosting(root, testDate, "Acme", "Assets/Stock", 10, "AAPL")
	p2 := newPosting(root, jump, "Acme", "Assets/Stock", 0, "AAPL")

	prices := &fixedPriceSource{before: decimal.NewFromInt(100), after: decimal.NewFromInt(110), jumpDate: jump, reference: "USD"}
	revalued := root.Find("<Revalued>")

	collect := NewCollectHandler()
	h := NewChangedValueHandler(prices, revalued, true, collect)

	ctx := context.Background()
	assert.NoError(t, h.Accept(ctx, p1))
	assert.NoError(t, h.Accept(ctx, p2))
	assert.NoError(t, h.Flush(ctx))

	assert.Equal(t, 1, len(collect.Postings))
	assert.Equal(t, revalued, collect.Postings[0].Account)
}
