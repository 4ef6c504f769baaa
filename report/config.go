package report

import (
	"time"

	"github.com/presto8/ledger-mode/ledger"
	"github.com/presto8/ledger-mode/pipeline"
)

// Config is the chain builder's options table — the Go shape of spec §6's
// configuration options, one field per option recognised by
// BuildTransactionChain.
type Config struct {
	// Root is the master account of the tree this report runs over. Every
	// accumulator that needs depth-first account order (subtotal, dow,
	// by_payee, interval, the account-aggregation pass) walks from here.
	Root *ledger.Account

	Predicate           string // primary filter expression
	DisplayPredicate    string // post-calc filter expression
	SecondaryPredicate  string // post-component filter
	SortString          string // sort key expression
	EntrySort           bool   // sort by entry rather than by posting
	HeadEntries         int    // truncation: keep the first N entries
	TailEntries         int    // truncation: keep the last N entries
	DescendExpr         []string // component-expansion predicates, one stage per entry
	ReconcileBalance    ledger.Value
	ReconcileDate       *time.Time
	ShowRevalued        bool
	ShowRevaluedOnly    bool
	ShowCollapsed       bool
	ShowSubtotal        bool
	DaysOfTheWeek       bool
	DowFirstDay         time.Weekday // default time.Sunday
	ByPayee             bool
	ReportPeriod        string // parsed via ledger.ParsePeriod
	ShowInverted        bool
	ShowRelated         bool
	ShowAllRelated      bool
	CommAsPayee         bool
	CodeAsPayee         bool

	// PriceSource is required when ShowRevalued is set; changed_value is
	// its only consumer.
	PriceSource pipeline.PriceSource
}

// Validate checks for conflicting or missing options that the chain
// builder cannot recover from, without parsing any expression — expression
// and period syntax errors surface from BuildTransactionChain itself, at
// the point they would be compiled.
func (c *Config) Validate() error {
	if c.Root == nil {
		return &ConfigurationError{Option: "root", Reason: "account tree root is required"}
	}
	if c.ShowRevalued && c.PriceSource == nil {
		return &ConfigurationError{Option: "show_revalued", Reason: "requires a price source"}
	}
	if (c.HeadEntries < 0) || (c.TailEntries < 0) {
		return &ConfigurationError{Option: "head_entries/tail_entries", Reason: "must be non-negative"}
	}
	return nil
}
