package pipeline

import (
	"context"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/presto8/ledger-mode/ledger"
)

func TestSubtotalHandlerSumsPerAccount(t *testing.T) {
	root := ledger.NewTree()
	p1 := newPosting(root, testDate, "Acme", "Expenses/Food", 10, "USD")
	p2 := newPosting(root, testDate, "Bravo", "Expenses/Food", 5, "USD")
	p3 := newPosting(root, testDate, "Carol", "Expenses/Rent", 7, "USD")

	collect := NewCollectHandler()
	h := NewSubtotalHandler(root, false, collect)

	ctx := context.Background()
	for _, p := range []*ledger.Posting{p1, p2, p3} {
		assert.NoError(t, h.Accept(ctx, p))
	}
	assert.NoError(t, h.Flush(ctx))

	assert.Equal(t, 2, len(collect.Postings))
	byAccount := map[string]ledger.Value{}
	for _, sp := range collect.Postings {
		byAccount[sp.Account.FullName] = sp.Amount
	}
	assert.True(t, byAccount["Expenses/Food"].Equal(amount(15, "USD")))
	assert.True(t, byAccount["Expenses/Rent"].Equal(amount(7, "USD")))
}

func TestSubtotalHandlerRemembersComponents(t *testing.T) {
	root := ledger.NewTree()
	p1 := newPosting(root, testDate, "Acme", "Expenses/Food", 10, "USD")
	p2 := newPosting(root, testDate, "Bravo", "Expenses/Food", 5, "USD")

	store := newTestXDataStore()
	ctx := ledger.ContextWithXDataStore(context.Background(), store)

	collect := NewCollectHandler()
	h := NewSubtotalHandler(root, true, collect)

	assert.NoError(t, h.Accept(ctx, p1))
	assert.NoError(t, h.Accept(ctx, p2))
	assert.NoError(t, h.Flush(ctx))

	assert.Equal(t, 1, len(collect.Postings))
	comps := store.PostingXData(collect.Postings[0]).Components
	assert.Equal(t, []*ledger.Posting{p1, p2}, comps)
}

func TestSubtotalHandlerFlushIsIdempotent(t *testing.T) {
	root := ledger.NewTree()
	p := newPosting(root, testDate, "Acme", "Expenses/Food", 10, "USD")

	collect := NewCollectHandler()
	h := NewSubtotalHandler(root, false, collect)

	ctx := context.Background()
	assert.NoError(t, h.Accept(ctx, p))
	assert.NoError(t, h.Flush(ctx))
	assert.Equal(t, 1, len(collect.Postings))

	assert.NoError(t, h.Flush(ctx))
	assert.Equal(t, 1, len(collect.Postings))
}
