package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/presto8/ledger-mode/ledger"
	"github.com/presto8/ledger-mode/output"
	"github.com/presto8/ledger-mode/pipeline"
	"github.com/presto8/ledger-mode/report"
)

// TextPostingPrinter is the demo command's terminal PostHandler: one styled
// line per posting it accepts, in the order the chain delivers them.
type TextPostingPrinter struct {
	w      io.Writer
	styles *output.Styles
}

// NewTextPostingPrinter returns a TextPostingPrinter writing to w.
func NewTextPostingPrinter(w io.Writer) *TextPostingPrinter {
	return &TextPostingPrinter{w: w, styles: output.NewStyles(w)}
}

func (p *TextPostingPrinter) Accept(ctx context.Context, posting *ledger.Posting) error {
	date := posting.EffectiveDate().Format("2006-01-02")
	payee := posting.Entry.Payee
	if store := ledger.XDataStoreFromContext(ctx); store != nil {
		if ov := store.PostingXData(posting).PayeeOverride; ov != nil {
			payee = *ov
		}
	}
	amount := posting.Amount
	if store := ledger.XDataStoreFromContext(ctx); store != nil {
		amount = store.PostingXData(posting).EffectiveAmount(posting)
	}

	amountStr := amount.String()
	if posting.Cost != nil {
		amountStr = fmt.Sprintf("%s @ %s", amountStr, posting.Cost.Cost.String())
	}

	_, err := fmt.Fprintf(p.w, "%s  %-24s  %s  %s\n",
		date,
		p.styles.Account(posting.Account.FullName),
		payee,
		p.styles.Amount(amountStr),
	)
	return err
}

func (p *TextPostingPrinter) Flush(context.Context) error { return nil }

var _ pipeline.PostHandler = (*TextPostingPrinter)(nil)

// PrintBalanceTree renders tree as indented "account total" lines.
func PrintBalanceTree(w io.Writer, tree *report.BalanceTree) {
	styles := output.NewStyles(w)
	for _, root := range tree.Roots {
		printBalanceNode(w, styles, root, 0)
	}
}

func printBalanceNode(w io.Writer, styles *output.Styles, node *report.BalanceNode, depth int) {
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}
	fmt.Fprintf(w, "%s%-*s  %s\n", indent, 32-2*depth, styles.Account(node.Account.Name), styles.Amount(node.Total.String()))
	for _, child := range node.Children {
		printBalanceNode(w, styles, child, depth+1)
	}
}
