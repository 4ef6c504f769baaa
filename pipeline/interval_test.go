package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/presto8/ledger-mode/ledger"
)

func TestIntervalHandlerCoversEveryDateSeen(t *testing.T) {
	root := ledger.NewTree()
	jan := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	p1 := newPosting(root, jan, "Acme", "Expenses/Food", 10, "USD")
	p2 := newPosting(root, mar, "Acme", "Expenses/Food", 5, "USD")

	period, err := ledger.ParsePeriod("monthly")
	assert.NoError(t, err)

	collect := NewCollectHandler()
	h := NewIntervalHandler(root, period, false, collect)

	ctx := context.Background()
	assert.NoError(t, h.Accept(ctx, p1))
	assert.NoError(t, h.Accept(ctx, p2))
	assert.NoError(t, h.Flush(ctx))

	// February saw no postings and is not synthesized.
	assert.Equal(t, 2, len(collect.Postings))
	assert.Equal(t, time.January, collect.Postings[0].Entry.Date.Month())
	assert.Equal(t, time.March, collect.Postings[1].Entry.Date.Month())
}

func TestIntervalHandlerFlushIsIdempotent(t *testing.T) {
	root := ledger.NewTree()
	jan := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	p := newPosting(root, jan, "Acme", "Expenses/Food", 10, "USD")

	period, err := ledger.ParsePeriod("monthly")
	assert.NoError(t, err)

	collect := NewCollectHandler()
	h := NewIntervalHandler(root, period, false, collect)

	ctx := context.Background()
	assert.NoError(t, h.Accept(ctx, p))
	assert.NoError(t, h.Flush(ctx))
	assert.Equal(t, 1, len(collect.Postings))

	assert.NoError(t, h.Flush(ctx))
	assert.Equal(t, 1, len(collect.Postings))
}

func TestIntervalHandlerOrdersBucketsChronologicallyRegardlessOfArrival(t *testing.T) {
	root := ledger.NewTree()
	mar := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	jan := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	p1 := newPosting(root, mar, "Acme", "Expenses/Food", 10, "USD")
	p2 := newPosting(root, jan, "Acme", "Expenses/Food", 5, "USD")

	period, err := ledger.ParsePeriod("monthly")
	assert.NoError(t, err)

	collect := NewCollectHandler()
	h := NewIntervalHandler(root, period, false, collect)

	ctx := context.Background()
	assert.NoError(t, h.Accept(ctx, p1))
	assert.NoError(t, h.Accept(ctx, p2))
	assert.NoError(t, h.Flush(ctx))

	assert.Equal(t, time.January, collect.Postings[0].Entry.Date.Month())
	assert.Equal(t, time.March, collect.Postings[1].Entry.Date.Month())
}
