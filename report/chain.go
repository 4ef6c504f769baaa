package report

import (
	"strings"
	"time"

	"github.com/presto8/ledger-mode/ledger"
	"github.com/presto8/ledger-mode/pipeline"
)

const placeholderAccountName = "<Total>"

// BuildTransactionChain assembles the transaction pipeline for cfg, wrapping
// terminal, and returns the outermost handler — the chain head postings
// should be driven into.
//
// The chain is built tail to head, starting at terminal and wrapping
// outward, in the reverse of the order each stage actually sees a posting.
// Read bottom to top, the wraps below produce this head-to-tail execution
// order: payee override, primary filter, related, invert, interval (itself
// wrapped by an outer date-sort), days-of-week or by-payee, subtotal,
// collapse, changed-value, sort, secondary filter, reconcile, component
// expansion, calc, display filter, truncate-entries, terminal. Filters that
// define a report's scope run first so every accumulator downstream only
// ever sees in-scope postings; calc's running total is taken after that
// scope is fixed; the display filter runs last, right before the postings
// that survive it reach the terminal renderer.
func BuildTransactionChain(cfg *Config, terminal pipeline.PostHandler) (pipeline.PostHandler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	head := terminal

	if cfg.HeadEntries > 0 || cfg.TailEntries > 0 {
		head = pipeline.NewTruncateEntriesHandler(cfg.HeadEntries, cfg.TailEntries, head)
	}

	if cfg.DisplayPredicate != "" {
		pred, err := ledger.NewPredicateExpr(cfg.DisplayPredicate)
		if err != nil {
			return nil, &ConfigurationError{Option: "display_predicate", Reason: err.Error()}
		}
		head = pipeline.NewFilterHandler(pred, head)
	}

	head = pipeline.NewCalcHandler(head)

	for i := len(cfg.DescendExpr) - 1; i >= 0; i-- {
		pred, err := ledger.NewPredicateExpr(cfg.DescendExpr[i])
		if err != nil {
			return nil, &ConfigurationError{Option: "descend_expr", Reason: err.Error()}
		}
		head = pipeline.NewComponentHandler(pred, head)
	}

	if !cfg.ReconcileBalance.IsNull() {
		cutoff := time.Now()
		if cfg.ReconcileDate != nil {
			cutoff = *cfg.ReconcileDate
		}
		head = pipeline.NewReconcileHandler(cfg.ReconcileBalance, cutoff, head)
	}

	if cfg.SecondaryPredicate != "" {
		pred, err := ledger.NewPredicateExpr(cfg.SecondaryPredicate)
		if err != nil {
			return nil, &ConfigurationError{Option: "secondary_predicate", Reason: err.Error()}
		}
		head = pipeline.NewFilterHandler(pred, head)
	}

	if cfg.SortString != "" {
		key, err := ledger.NewKeyExpr(cfg.SortString)
		if err != nil {
			return nil, &ConfigurationError{Option: "sort_string", Reason: err.Error()}
		}
		if cfg.EntrySort {
			head = pipeline.NewSortEntriesHandler(key, head)
		} else {
			head = pipeline.NewSortHandler(key, head)
		}
	}

	if cfg.ShowRevalued {
		revalued := cfg.Root.Child(pipeline.RevaluedAccountName)
		head = pipeline.NewChangedValueHandler(cfg.PriceSource, revalued, cfg.ShowRevaluedOnly, head)
	}

	if cfg.ShowCollapsed {
		placeholder := cfg.Root.Child(placeholderAccountName)
		head = pipeline.NewCollapseHandler(placeholder, head)
	}

	if cfg.ShowSubtotal {
		head = pipeline.NewSubtotalHandler(cfg.Root, len(cfg.DescendExpr) > 0, head)
	}

	switch {
	case cfg.DaysOfTheWeek:
		head = pipeline.NewDowHandler(cfg.Root, cfg.DowFirstDay, len(cfg.DescendExpr) > 0, head)
	case cfg.ByPayee:
		head = pipeline.NewByPayeeHandler(cfg.Root, len(cfg.DescendExpr) > 0, head)
	}

	if cfg.ReportPeriod != "" {
		period, err := ledger.ParsePeriod(cfg.ReportPeriod)
		if err != nil {
			return nil, &ConfigurationError{Option: "report_period", Reason: err.Error()}
		}
		interval := pipeline.NewIntervalHandler(cfg.Root, period, len(cfg.DescendExpr) > 0, head)
		dateKey, err := ledger.NewKeyExpr("date")
		if err != nil {
			return nil, &ConfigurationError{Option: "report_period", Reason: err.Error()}
		}
		head = pipeline.NewSortHandler(dateKey, interval)
	}

	return buildUnconditionalTail(cfg, head)
}

// buildUnconditionalTail wraps terminal in the handlers spec §4.4 applies
// whether or not the individual-posting stages above ran: invert, related,
// primary filter, then payee override — the "false" branch of the original
// chain builder (original_source/report.cc's chain_xact_handlers with
// handle_individual_xacts=false), which both BuildTransactionChain and
// RunAccounts's phase 1 share.
func buildUnconditionalTail(cfg *Config, terminal pipeline.PostHandler) (pipeline.PostHandler, error) {
	head := terminal

	if cfg.ShowInverted {
		head = pipeline.NewInvertHandler(head)
	}

	if cfg.ShowRelated || cfg.ShowAllRelated {
		head = pipeline.NewRelatedHandler(cfg.ShowAllRelated, head)
	}

	if cfg.Predicate != "" {
		pred, err := ledger.NewPredicateExpr(cfg.Predicate)
		if err != nil {
			return nil, &ConfigurationError{Option: "predicate", Reason: err.Error()}
		}
		head = pipeline.NewFilterHandler(pred, head)
	}

	switch {
	case cfg.CommAsPayee:
		head = pipeline.NewCommAsPayeeHandler(head)
	case cfg.CodeAsPayee:
		head = pipeline.NewCodeAsPayeeHandler(head)
	}

	return head, nil
}

// BuildAccountChain wraps terminal (phase 1's pipeline.SetAccountValueHandler)
// in the unconditional-only tail of the chain, matching
// original_source/report.cc:236's
// chain_xact_handlers(new set_account_value, false): the account-aggregation
// pass still applies the primary filter, related expansion, inversion, and
// payee override, but none of the individual-posting stages (truncate,
// display filter, calc, sort, subtotal, and so on) that only make sense when
// postings are rendered one at a time.
func BuildAccountChain(cfg *Config, terminal pipeline.PostHandler) (pipeline.PostHandler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return buildUnconditionalTail(cfg, terminal)
}

// SplitDescendExpr splits a single ";"-separated descend_expr option value,
// as taken from a command-line flag or config file, into the individual
// component-expansion stages Config.DescendExpr expects, trimming
// whitespace around each and dropping empty stages.
func SplitDescendExpr(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
