package pipeline

import (
	"context"
	"sort"

	"github.com/presto8/ledger-mode/ledger"
)

// SortHandler buffers every posting it accepts and, on flush, emits them
// ordered by keyExpr evaluated over each posting — stable on ties,
// ascending by ledger.Value.Compare.
type SortHandler struct {
	key  KeyEvaluator
	next PostHandler

	postings []*ledger.Posting
	flushed  bool
}

// NewSortHandler returns a SortHandler wrapping next.
func NewSortHandler(key KeyEvaluator, next PostHandler) *SortHandler {
	return &SortHandler{key: key, next: next}
}

func (h *SortHandler) Accept(_ context.Context, p *ledger.Posting) error {
	h.postings = append(h.postings, p)
	return nil
}

func (h *SortHandler) Flush(ctx context.Context) error {
	if h.flushed {
		return nil
	}
	h.flushed = true

	keys := make([]ledger.Value, len(h.postings))
	var firstErr error
	for i, p := range h.postings {
		v, err := h.key.Eval(ctx, p)
		if err != nil && firstErr == nil {
			firstErr = err
		}
		keys[i] = v
	}
	if firstErr != nil {
		return firstErr
	}
	for i, p := range h.postings {
		postingXData(ctx, p).SortKey = keys[i]
	}

	order := make([]int, len(h.postings))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return keys[order[i]].Compare(keys[order[j]]) < 0
	})

	for _, i := range order {
		if err := h.next.Accept(ctx, h.postings[i]); err != nil {
			return err
		}
	}
	return h.next.Flush(ctx)
}

// SortEntriesHandler buffers postings grouped by owning entry and, on
// flush, emits whole entries (postings of one entry stay contiguous,
// in original order) ordered by keyExpr evaluated over each entry.
type SortEntriesHandler struct {
	key  KeyEvaluator
	next PostHandler

	order   []*ledger.Entry
	seen    map[*ledger.Entry]bool
	byEntry map[*ledger.Entry][]*ledger.Posting
	flushed bool
}

// NewSortEntriesHandler returns a SortEntriesHandler wrapping next.
func NewSortEntriesHandler(key KeyEvaluator, next PostHandler) *SortEntriesHandler {
	return &SortEntriesHandler{
		key:     key,
		next:    next,
		seen:    make(map[*ledger.Entry]bool),
		byEntry: make(map[*ledger.Entry][]*ledger.Posting),
	}
}

func (h *SortEntriesHandler) Accept(_ context.Context, p *ledger.Posting) error {
	e := p.Entry
	if !h.seen[e] {
		h.seen[e] = true
		h.order = append(h.order, e)
	}
	h.byEntry[e] = append(h.byEntry[e], p)
	return nil
}

func (h *SortEntriesHandler) Flush(ctx context.Context) error {
	if h.flushed {
		return nil
	}
	h.flushed = true

	keys := make([]ledger.Value, len(h.order))
	var firstErr error
	for i, e := range h.order {
		v, err := h.key.EvalEntry(ctx, e)
		if err != nil && firstErr == nil {
			firstErr = err
		}
		keys[i] = v
	}
	if firstErr != nil {
		return firstErr
	}
	for i, e := range h.order {
		for _, p := range h.byEntry[e] {
			postingXData(ctx, p).SortKey = keys[i]
		}
	}

	order := make([]int, len(h.order))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return keys[order[i]].Compare(keys[order[j]]) < 0
	})

	for _, i := range order {
		for _, p := range h.byEntry[h.order[i]] {
			if err := h.next.Accept(ctx, p); err != nil {
				return err
			}
		}
	}
	return h.next.Flush(ctx)
}
