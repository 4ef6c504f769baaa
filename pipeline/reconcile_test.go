package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/presto8/ledger-mode/ledger"
)

func TestReconcileHandlerFindsSmallestMatchingSubset(t *testing.T) {
	root := ledger.NewTree()
	cutoff := testDate.AddDate(0, 0, 10)

	p1 := newPosting(root, testDate, "Acme", "Assets/Bank", 10, "USD")
	p2 := newPosting(root, testDate, "Acme", "Assets/Bank", 20, "USD")
	p3 := newPosting(root, testDate, "Acme", "Assets/Bank", 30, "USD") // 10+20

	collect := NewCollectHandler()
	h := NewReconcileHandler(amount(30, "USD"), cutoff, collect)

	ctx := context.Background()
	for _, p := range []*ledger.Posting{p1, p2, p3} {
		assert.NoError(t, h.Accept(ctx, p))
	}
	assert.NoError(t, h.Flush(ctx))

	assert.Equal(t, []*ledger.Posting{p3}, collect.Postings)
}

func TestReconcileHandlerPassesThroughPostingsAfterCutoff(t *testing.T) {
	root := ledger.NewTree()
	cutoff := testDate

	before := newPosting(root, testDate, "Acme", "Assets/Bank", 10, "USD")
	after := newPosting(root, testDate.AddDate(0, 0, 5), "Acme", "Assets/Bank", 999, "USD")

	collect := NewCollectHandler()
	h := NewReconcileHandler(amount(10, "USD"), cutoff, collect)

	ctx := context.Background()
	assert.NoError(t, h.Accept(ctx, before))
	assert.NoError(t, h.Accept(ctx, after))
	assert.NoError(t, h.Flush(ctx))

	assert.Equal(t, []*ledger.Posting{after, before}, collect.Postings)
}

func TestReconcileHandlerReturnsErrorWhenNoSubsetMatches(t *testing.T) {
	root := ledger.NewTree()
	p := newPosting(root, testDate, "Acme", "Assets/Bank", 10, "USD")

	collect := NewCollectHandler()
	h := NewReconcileHandler(amount(999, "USD"), testDate.AddDate(0, 0, 1), collect)

	ctx := context.Background()
	assert.NoError(t, h.Accept(ctx, p))
	err := h.Flush(ctx)
	assert.Error(t, err)
	var recErr *ReconcileError
	assert.True(t, errors.As(err, &recErr))
}

func TestReconcileHandlerFlushIsIdempotent(t *testing.T) {
	root := ledger.NewTree()
	cutoff := testDate.AddDate(0, 0, 10)
	p := newPosting(root, testDate, "Acme", "Assets/Bank", 10, "USD")

	collect := NewCollectHandler()
	h := NewReconcileHandler(amount(10, "USD"), cutoff, collect)

	ctx := context.Background()
	assert.NoError(t, h.Accept(ctx, p))
	assert.NoError(t, h.Flush(ctx))
	assert.Equal(t, []*ledger.Posting{p}, collect.Postings)

	assert.NoError(t, h.Flush(ctx))
	assert.Equal(t, []*ledger.Posting{p}, collect.Postings)
}
