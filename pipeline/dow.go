package pipeline

import (
	"context"
	"time"

	"github.com/presto8/ledger-mode/ledger"
)

// dowReferenceSunday is a fixed Sunday used to build the canonical date
// tagging each day-of-week bucket's synthetic entry; only its weekday
// matters, not the specific week.
var dowReferenceSunday = time.Date(2000, time.January, 2, 0, 0, 0, 0, time.UTC)

// DowHandler buckets postings by the weekday of their effective date into
// seven buckets, aggregated per (account, commodity) like SubtotalHandler,
// and emits them in weekday order starting at FirstDay (default
// time.Sunday).
type DowHandler struct {
	root     *ledger.Account
	firstDay time.Weekday
	remember bool
	next     PostHandler

	buckets [7]*acctBucket
	anchors [7]*ledger.Entry
	seen    [7]bool
	flushed bool
}

// NewDowHandler returns a DowHandler wrapping next.
func NewDowHandler(root *ledger.Account, firstDay time.Weekday, rememberComponents bool, next PostHandler) *DowHandler {
	h := &DowHandler{root: root, firstDay: firstDay, remember: rememberComponents, next: next}
	for i := range h.buckets {
		h.buckets[i] = newAcctBucket(rememberComponents)
	}
	return h
}

func (h *DowHandler) Accept(ctx context.Context, p *ledger.Posting) error {
	wd := int(effectiveDate(ctx, p).Weekday())
	if !h.seen[wd] {
		h.seen[wd] = true
		h.anchors[wd] = p.Entry
	}
	h.buckets[wd].add(ctx, p)
	return nil
}

func (h *DowHandler) Flush(ctx context.Context) error {
	if h.flushed {
		return nil
	}
	h.flushed = true

	for i := 0; i < 7; i++ {
		wd := (int(h.firstDay) + i) % 7
		if !h.seen[wd] {
			continue
		}
		entry := &ledger.Entry{
			Date:  dowReferenceSunday.AddDate(0, 0, wd),
			Payee: h.anchors[wd].Payee,
			Code:  h.anchors[wd].Code,
		}
		for _, sp := range h.buckets[wd].emit(ctx, h.root, entry) {
			if err := h.next.Accept(ctx, sp); err != nil {
				return err
			}
		}
	}
	return h.next.Flush(ctx)
}
