package pipeline

import (
	"context"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/presto8/ledger-mode/ledger"
)

func TestCommAsPayeeHandlerUsesAmountCommodity(t *testing.T) {
	root := ledger.NewTree()
	p := newPosting(root, testDate, "Acme", "Expenses/Food", 10, "USD")

	store := newTestXDataStore()
	ctx := ledger.ContextWithXDataStore(context.Background(), store)

	collect := NewCollectHandler()
	h := NewCommAsPayeeHandler(collect)

	assert.NoError(t, h.Accept(ctx, p))
	assert.NoError(t, h.Flush(ctx))

	ov := store.PostingXData(p).PayeeOverride
	assert.True(t, ov != nil)
	assert.Equal(t, "USD", *ov)
}

func TestCodeAsPayeeHandlerUsesEntryCode(t *testing.T) {
	root := ledger.NewTree()
	p := newPosting(root, testDate, "Acme", "Expenses/Food", 10, "USD")
	p.Entry.Code = "1042"

	store := newTestXDataStore()
	ctx := ledger.ContextWithXDataStore(context.Background(), store)

	collect := NewCollectHandler()
	h := NewCodeAsPayeeHandler(collect)

	assert.NoError(t, h.Accept(ctx, p))
	assert.NoError(t, h.Flush(ctx))

	ov := store.PostingXData(p).PayeeOverride
	assert.True(t, ov != nil)
	assert.Equal(t, "1042", *ov)
}
