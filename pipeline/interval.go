package pipeline

import (
	"context"
	"sort"
	"time"

	"github.com/presto8/ledger-mode/ledger"
)

// IntervalHandler buckets postings by the reporting interval containing
// their effective date, aggregated per (account, commodity) like
// SubtotalHandler, and emits buckets in chronological order. Only buckets
// that received at least one posting are emitted — the coverage invariant
// only requires covering every effective date actually seen, not
// synthesizing empty buckets across the full span.
type IntervalHandler struct {
	root     *ledger.Account
	period   ledger.Period
	remember bool
	next     PostHandler

	order   []time.Time
	seen    map[time.Time]bool
	buckets map[time.Time]*acctBucket
	anchors map[time.Time]*ledger.Entry
	flushed bool
}

// NewIntervalHandler returns an IntervalHandler wrapping next.
func NewIntervalHandler(root *ledger.Account, period ledger.Period, rememberComponents bool, next PostHandler) *IntervalHandler {
	return &IntervalHandler{
		root: root, period: period, remember: rememberComponents, next: next,
		seen:    make(map[time.Time]bool),
		buckets: make(map[time.Time]*acctBucket),
		anchors: make(map[time.Time]*ledger.Entry),
	}
}

func (h *IntervalHandler) Accept(ctx context.Context, p *ledger.Posting) error {
	start, _ := h.period.BucketOf(effectiveDate(ctx, p))
	if !h.seen[start] {
		h.seen[start] = true
		h.order = append(h.order, start)
		h.buckets[start] = newAcctBucket(h.remember)
		h.anchors[start] = p.Entry
	}
	h.buckets[start].add(ctx, p)
	return nil
}

func (h *IntervalHandler) Flush(ctx context.Context) error {
	if h.flushed {
		return nil
	}
	h.flushed = true

	sort.Slice(h.order, func(i, j int) bool { return h.order[i].Before(h.order[j]) })
	for _, start := range h.order {
		anchor := h.anchors[start]
		entry := &ledger.Entry{Date: start, Payee: anchor.Payee, Code: anchor.Code}
		for _, sp := range h.buckets[start].emit(ctx, h.root, entry) {
			if err := h.next.Accept(ctx, sp); err != nil {
				return err
			}
		}
	}
	return h.next.Flush(ctx)
}
