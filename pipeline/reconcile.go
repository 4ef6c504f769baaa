package pipeline

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/presto8/ledger-mode/ledger"
)

// ReconcileError reports that no subset of the postings ReconcileHandler
// buffered summed exactly to its target balance. report.ReconciliationFailure
// wraps this when the pipeline surfaces it to a caller.
type ReconcileError struct {
	Target ledger.Value
	Cutoff time.Time
}

func (e *ReconcileError) Error() string {
	return fmt.Sprintf("no subset of postings on or before %s sums to %s", e.Cutoff.Format("2006-01-02"), e.Target)
}

// ReconcileHandler buffers postings with an effective date on or before
// Cutoff, and on flush selects the smallest subset of them whose summed
// effective amount equals Target — breaking ties among same-size subsets
// by preferring the combination found scanning the buffered postings
// latest-date-first — then forwards that subset in its original order.
// Postings after Cutoff are forwarded immediately, unbuffered. The search
// is bounded backtracking over combinations, small enough for a single
// report's reconciliation window; it is not meant for large unbounded
// buffers.
type ReconcileHandler struct {
	target ledger.Value
	cutoff time.Time
	next   PostHandler

	buffered []*ledger.Posting
	flushed  bool
}

// NewReconcileHandler returns a ReconcileHandler wrapping next.
func NewReconcileHandler(target ledger.Value, cutoff time.Time, next PostHandler) *ReconcileHandler {
	return &ReconcileHandler{target: target, cutoff: cutoff, next: next}
}

func (h *ReconcileHandler) Accept(ctx context.Context, p *ledger.Posting) error {
	if !effectiveDate(ctx, p).After(h.cutoff) {
		h.buffered = append(h.buffered, p)
		return nil
	}
	return h.next.Accept(ctx, p)
}

func (h *ReconcileHandler) Flush(ctx context.Context) error {
	if h.flushed {
		return nil
	}
	h.flushed = true

	if len(h.buffered) == 0 {
		return h.next.Flush(ctx)
	}

	amounts := make([]ledger.Value, len(h.buffered))
	for i, p := range h.buffered {
		amounts[i] = effectiveAmount(ctx, p)
	}

	latestFirst := make([]int, len(h.buffered))
	for i := range latestFirst {
		latestFirst[i] = i
	}
	sort.SliceStable(latestFirst, func(i, j int) bool {
		return effectiveDate(ctx, h.buffered[latestFirst[i]]).After(effectiveDate(ctx, h.buffered[latestFirst[j]]))
	})

	subset, ok := findReconcilingSubset(latestFirst, amounts, h.target)
	if !ok {
		return &ReconcileError{Target: h.target, Cutoff: h.cutoff}
	}

	selected := make(map[int]bool, len(subset))
	for _, i := range subset {
		selected[i] = true
	}
	for i, p := range h.buffered {
		if !selected[i] {
			continue
		}
		if err := h.next.Accept(ctx, p); err != nil {
			return err
		}
	}
	return h.next.Flush(ctx)
}

// findReconcilingSubset searches, in increasing subset size, for a
// combination of candidates (indices into amounts, already ordered
// latest-date-first) summing to target, returning the first one found.
func findReconcilingSubset(candidates []int, amounts []ledger.Value, target ledger.Value) ([]int, bool) {
	for k := 1; k <= len(candidates); k++ {
		if combo, ok := searchCombination(candidates, amounts, target, k, 0, nil, ledger.NullValue); ok {
			return combo, true
		}
	}
	return nil, false
}

func searchCombination(candidates []int, amounts []ledger.Value, target ledger.Value, k, start int, chosen []int, sum ledger.Value) ([]int, bool) {
	if len(chosen) == k {
		if sum.Equal(target) {
			return append([]int{}, chosen...), true
		}
		return nil, false
	}
	for i := start; i < len(candidates); i++ {
		idx := candidates[i]
		if combo, ok := searchCombination(candidates, amounts, target, k, i+1, append(chosen, idx), sum.Add(amounts[idx])); ok {
			return combo, true
		}
	}
	return nil, false
}
