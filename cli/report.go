package cli

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/alecthomas/kong"

	cliErrors "github.com/presto8/ledger-mode/errors"
	"github.com/presto8/ledger-mode/fixture"
	"github.com/presto8/ledger-mode/ledger"
	"github.com/presto8/ledger-mode/pipeline"
	"github.com/presto8/ledger-mode/report"
	"github.com/presto8/ledger-mode/telemetry"
)

// Globals holds flags shared by every subcommand.
type Globals struct {
	Telemetry bool `help:"Show timing telemetry for the run."`
	JSON      bool `help:"Render errors as JSON instead of text."`
}

// Commands is the top-level kong command tree.
type Commands struct {
	Globals

	Report ReportCmd `cmd:"" help:"Run the transaction or account-aggregation report over a fixture journal."`
}

// ReportCmd wires report.Config's options to command-line flags and drives
// a Report over the postings decoded from File.
type ReportCmd struct {
	File FileOrStdin `arg:"" optional:"" help:"Fixture journal file (see fixture package), or '-'/omit for stdin."`

	Accounts   bool `help:"Print the account-aggregation report instead of the transaction listing."`
	GrandTotal bool `name:"grand-total" help:"With --accounts, also print the sum of every root account's total."`

	Predicate  string `help:"Primary filter expression."`
	Display    string `help:"Post-calc display filter expression."`
	Secondary  string `help:"Secondary (post-component) filter expression."`
	Sort       string `help:"Sort key expression."`
	SortEntry  bool   `name:"sort-entries" help:"Sort by entry rather than by posting."`
	Head       int    `help:"Keep only the first N entries."`
	Tail       int    `help:"Keep only the last N entries."`
	Descend    string `help:"Semicolon-separated component-expansion expressions."`
	Reconcile  string `help:"Target balance for reconciliation, as 'QUANTITY COMMODITY'."`
	ReconcileAt string `name:"reconcile-at" help:"Reconciliation cutoff date (2006-01-02); defaults to now."`
	Collapse   bool   `help:"Collapse each entry's postings into its accounts' totals."`
	Subtotal   bool   `help:"Accumulate one subtotal posting per account instead of listing postings."`
	Dow        bool   `help:"Group postings by day of week instead of by date."`
	ByPayee    bool   `name:"by-payee" help:"Group postings by payee instead of by date."`
	Period     string `help:"Report period expression, e.g. 'monthly' or 'every 2 weeks from 2026-01-05'."`
	Invert     bool   `help:"Invert every posting's sign."`
	Related    bool   `help:"Show the other postings of each matched entry."`
	RelatedAll bool   `name:"related-all" help:"Show every posting of each matched entry, including the matched one."`
	CommAsPayee bool  `name:"comm-as-payee" help:"Substitute each posting's commodity for its entry's payee."`
	CodeAsPayee bool  `name:"code-as-payee" help:"Substitute each entry's code for its payee."`
}

func (cmd *ReportCmd) Run(kctx *kong.Context, globals *Globals) error {
	runCtx := context.Background()

	var collector telemetry.Collector
	var runTimer telemetry.Timer
	var once sync.Once
	reportTelemetry := func() {
		once.Do(func() {
			if collector != nil {
				runTimer.End()
				fmt.Fprintln(kctx.Stderr)
				collector.Report(kctx.Stderr, nil)
			}
		})
	}
	if globals.Telemetry {
		collector = telemetry.NewTimingCollector()
		runCtx = telemetry.WithCollector(runCtx, collector)
		runTimer = collector.Start("report")
		defer reportTelemetry()
	}

	src, err := cmd.File.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	root := ledger.NewTree()
	journal, err := fixture.Decode(root, src)
	if err != nil {
		return err
	}
	postings := pipeline.SessionPostings([]*ledger.Journal{journal})

	cfg, err := cmd.buildConfig(root)
	if err != nil {
		return cmd.fail(kctx, globals, err, reportTelemetry)
	}

	rpt := report.NewReport()

	if cmd.Accounts {
		tree := report.NewBalanceTree()
		accountsReport := &report.AccountsReport{Tree: tree, ShowGrandTotal: cmd.GrandTotal}
		if cmd.Sort != "" {
			key, err := ledger.NewKeyExpr(cmd.Sort)
			if err != nil {
				return cmd.fail(kctx, globals, &report.ConfigurationError{Option: "sort", Reason: err.Error()}, reportTelemetry)
			}
			accountsReport.SortKey = key
		}
		if err := rpt.RunAccounts(runCtx, cfg, postings, accountsReport); err != nil {
			return cmd.fail(kctx, globals, err, reportTelemetry)
		}
		PrintBalanceTree(kctx.Stdout, tree)
		if cmd.GrandTotal {
			fmt.Fprintf(kctx.Stdout, "--------------------\n%s\n", tree.GrandTotal.String())
		}
		reportTelemetry()
		return nil
	}

	terminal := NewTextPostingPrinter(kctx.Stdout)
	if err := rpt.Run(runCtx, cfg, terminal, postings); err != nil {
		return cmd.fail(kctx, globals, err, reportTelemetry)
	}

	reportTelemetry()
	return nil
}

func (cmd *ReportCmd) buildConfig(root *ledger.Account) (*report.Config, error) {
	cfg := &report.Config{
		Root:               root,
		Predicate:          cmd.Predicate,
		DisplayPredicate:   cmd.Display,
		SecondaryPredicate: cmd.Secondary,
		SortString:         cmd.Sort,
		EntrySort:          cmd.SortEntry,
		HeadEntries:        cmd.Head,
		TailEntries:        cmd.Tail,
		DescendExpr:        report.SplitDescendExpr(cmd.Descend),
		ShowCollapsed:      cmd.Collapse,
		ShowSubtotal:       cmd.Subtotal,
		DaysOfTheWeek:      cmd.Dow,
		ByPayee:            cmd.ByPayee,
		ReportPeriod:       cmd.Period,
		ShowInverted:       cmd.Invert,
		ShowRelated:        cmd.Related,
		ShowAllRelated:     cmd.RelatedAll,
		CommAsPayee:        cmd.CommAsPayee,
		CodeAsPayee:        cmd.CodeAsPayee,
	}

	if cmd.Reconcile != "" {
		parts := strings.Fields(cmd.Reconcile)
		if len(parts) != 2 {
			return nil, fmt.Errorf("--reconcile wants 'QUANTITY COMMODITY', got %q", cmd.Reconcile)
		}
		amt, err := ledger.ParseAmount(parts[0], parts[1])
		if err != nil {
			return nil, err
		}
		cfg.ReconcileBalance = ledger.AmountValue(amt)

		if cmd.ReconcileAt != "" {
			cutoff, err := time.Parse("2006-01-02", cmd.ReconcileAt)
			if err != nil {
				return nil, fmt.Errorf("invalid --reconcile-at date %q: %w", cmd.ReconcileAt, err)
			}
			cfg.ReconcileDate = &cutoff
		}
	}

	return cfg, nil
}

// fail renders err (text or JSON, per globals) to stderr, flushes telemetry,
// and returns err so kong.FatalIfErrorf can set the process exit code.
func (cmd *ReportCmd) fail(kctx *kong.Context, globals *Globals, err error, flushTelemetry func()) error {
	var formatter cliErrors.Formatter
	if globals.JSON {
		formatter = cliErrors.NewJSONFormatter()
	} else {
		formatter = cliErrors.NewTextFormatter()
	}
	fmt.Fprintln(kctx.Stderr, formatter.Format(err))
	printError(kctx.Stderr, "report failed")
	flushTelemetry()
	return err
}
