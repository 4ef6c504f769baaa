package pipeline

import (
	"context"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/presto8/ledger-mode/ledger"
)

func TestByPayeeHandlerGroupsByPayeeInFirstSeenOrder(t *testing.T) {
	root := ledger.NewTree()
	p1 := newPosting(root, testDate, "Bravo", "Expenses/Food", 10, "USD")
	p2 := newPosting(root, testDate, "Alpha", "Expenses/Food", 5, "USD")
	p3 := newPosting(root, testDate, "Bravo", "Expenses/Food", 3, "USD")

	collect := NewCollectHandler()
	h := NewByPayeeHandler(root, false, collect)

	ctx := context.Background()
	for _, p := range []*ledger.Posting{p1, p2, p3} {
		assert.NoError(t, h.Accept(ctx, p))
	}
	assert.NoError(t, h.Flush(ctx))

	assert.Equal(t, 2, len(collect.Postings))
	assert.Equal(t, "Bravo", collect.Postings[0].Entry.Payee)
	assert.True(t, collect.Postings[0].Amount.Equal(amount(13, "USD")))
	assert.Equal(t, "Alpha", collect.Postings[1].Entry.Payee)
}

func TestByPayeeHandlerFlushIsIdempotent(t *testing.T) {
	root := ledger.NewTree()
	p := newPosting(root, testDate, "Bravo", "Expenses/Food", 10, "USD")

	collect := NewCollectHandler()
	h := NewByPayeeHandler(root, false, collect)

	ctx := context.Background()
	assert.NoError(t, h.Accept(ctx, p))
	assert.NoError(t, h.Flush(ctx))
	assert.Equal(t, 1, len(collect.Postings))

	assert.NoError(t, h.Flush(ctx))
	assert.Equal(t, 1, len(collect.Postings))
}
