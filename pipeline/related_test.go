package pipeline

import (
	"context"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/presto8/ledger-mode/ledger"
)

func TestRelatedHandlerExpandsOtherLegsOnce(t *testing.T) {
	root := ledger.NewTree()
	p1 := newPosting(root, testDate, "Acme", "Expenses/Food", 10, "USD")
	p2 := addPosting(p1, root, "Assets/Bank", -10, "USD")

	collect := NewCollectHandler()
	h := NewRelatedHandler(false, collect)

	ctx := context.Background()
	assert.NoError(t, h.Accept(ctx, p1))
	assert.NoError(t, h.Accept(ctx, p2))
	assert.NoError(t, h.Flush(ctx))

	assert.Equal(t, []*ledger.Posting{p2}, collect.Postings)
}

func TestRelatedHandlerShowAllIncludesTrigger(t *testing.T) {
	root := ledger.NewTree()
	p1 := newPosting(root, testDate, "Acme", "Expenses/Food", 10, "USD")
	p2 := addPosting(p1, root, "Assets/Bank", -10, "USD")

	collect := NewCollectHandler()
	h := NewRelatedHandler(true, collect)

	ctx := context.Background()
	assert.NoError(t, h.Accept(ctx, p1))
	assert.NoError(t, h.Flush(ctx))

	assert.Equal(t, []*ledger.Posting{p1, p2}, collect.Postings)
}
