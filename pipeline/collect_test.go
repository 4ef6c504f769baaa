package pipeline

import (
	"context"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/presto8/ledger-mode/ledger"
)

func TestSetAccountValueHandlerAccumulatesDirectTotal(t *testing.T) {
	root := ledger.NewTree()
	p1 := newPosting(root, testDate, "Acme", "Expenses/Food", 10, "USD")
	p2 := newPosting(root, testDate, "Bravo", "Expenses/Food", 5, "USD")

	store := newTestXDataStore()
	ctx := ledger.ContextWithXDataStore(context.Background(), store)

	h := NewSetAccountValueHandler()
	assert.NoError(t, Drive(ctx, h, []*ledger.Posting{p1, p2}))

	food := root.Find("Expenses/Food")
	assert.True(t, store.AccountXData(food).Total.Equal(amount(15, "USD")))
}

func TestSetAccountValueHandlerMarksVisitedAccountsMatched(t *testing.T) {
	root := ledger.NewTree()
	p := newPosting(root, testDate, "Acme", "Expenses/Food", 10, "USD")

	store := newTestXDataStore()
	ctx := ledger.ContextWithXDataStore(context.Background(), store)

	h := NewSetAccountValueHandler()
	assert.NoError(t, Drive(ctx, h, []*ledger.Posting{p}))

	food := root.Find("Expenses/Food")
	expenses := root.Find("Expenses")
	assert.True(t, store.AccountXData(food).Matched)
	assert.False(t, store.AccountXData(expenses).Matched)
}

func TestDriveFlushesOnceAtEnd(t *testing.T) {
	root := ledger.NewTree()
	p := newPosting(root, testDate, "Acme", "Expenses/Food", 10, "USD")

	collect := NewCollectHandler()
	ctx := context.Background()
	assert.NoError(t, Drive(ctx, collect, []*ledger.Posting{p}))

	assert.True(t, collect.Flushed)
	assert.Equal(t, []*ledger.Posting{p}, collect.Postings)
}
