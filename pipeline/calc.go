package pipeline

import (
	"context"

	"github.com/presto8/ledger-mode/ledger"
)

// CalcHandler maintains a running total across every posting it accepts:
// for each posting it adds the effective amount to the total, snapshots
// the total into the posting's xdata, then forwards. Where calc sits in
// the chain determines whether postings filtered out upstream of it still
// contributed to the running total — see the chain builder's ordering
// rationale.
type CalcHandler struct {
	next    PostHandler
	running ledger.Value
}

// NewCalcHandler returns a CalcHandler wrapping next.
func NewCalcHandler(next PostHandler) *CalcHandler {
	return &CalcHandler{next: next}
}

func (h *CalcHandler) Accept(ctx context.Context, p *ledger.Posting) error {
	h.running = h.running.Add(effectiveAmount(ctx, p))
	postingXData(ctx, p).RunningTotal = h.running
	return h.next.Accept(ctx, p)
}

func (h *CalcHandler) Flush(ctx context.Context) error { return h.next.Flush(ctx) }
