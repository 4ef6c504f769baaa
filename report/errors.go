package report

import (
	"errors"
	"fmt"
	"time"

	"github.com/presto8/ledger-mode/ledger"
	"github.com/presto8/ledger-mode/pipeline"
)

// ConfigurationError reports an unparseable expression or a conflicting or
// missing option, detected while building a transaction chain. Raised at
// chain construction; the chain is never returned alongside it.
type ConfigurationError struct {
	Option string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: option %q: %s", e.Option, e.Reason)
}

// ReconciliationFailure reports that no subset of the in-scope postings
// buffered before a reconcile cutoff sums to the target balance.
type ReconciliationFailure struct {
	Target ledger.Value
	Cutoff time.Time
}

func (e *ReconciliationFailure) Error() string {
	return fmt.Sprintf("reconciliation failed: no subset of postings on or before %s sums to %s",
		e.Cutoff.Format("2006-01-02"), e.Target)
}

// GetDate returns the reconciliation cutoff, for callers that format errors
// positionally.
func (e *ReconciliationFailure) GetDate() time.Time { return e.Cutoff }

// EvaluationError reports that a predicate or key expression failed at
// runtime against a specific posting, surfaced with that posting for
// diagnosis.
type EvaluationError struct {
	Expression string
	Posting    *ledger.Posting
	Err        error
}

func (e *EvaluationError) Error() string {
	if e.Posting != nil && e.Posting.Account != nil {
		return fmt.Sprintf("evaluation error: expression %q on posting to %s: %v", e.Expression, e.Posting.Account.FullName, e.Err)
	}
	return fmt.Sprintf("evaluation error: expression %q: %v", e.Expression, e.Err)
}

func (e *EvaluationError) Unwrap() error { return e.Err }

// GetPosting returns the posting being evaluated when the expression
// failed, mirroring the teacher's GetPosition accessor.
func (e *EvaluationError) GetPosting() *ledger.Posting { return e.Posting }

// InvariantViolation reports that an entry does not balance, or that
// account xdata underflowed during some clearing pass — a condition the
// pipeline's own contracts should have prevented. Treated as fatal: a bug
// in this module, not a reporting condition to recover from.
type InvariantViolation struct {
	Reason  string
	Entry   *ledger.Entry
	Account *ledger.Account
}

func (e *InvariantViolation) Error() string {
	switch {
	case e.Entry != nil:
		return fmt.Sprintf("invariant violation: %s: entry dated %s", e.Reason, e.Entry.Date.Format("2006-01-02"))
	case e.Account != nil:
		return fmt.Sprintf("invariant violation: %s: account %s", e.Reason, e.Account.FullName)
	default:
		return fmt.Sprintf("invariant violation: %s", e.Reason)
	}
}

// GetAccount returns the offending account, if any.
func (e *InvariantViolation) GetAccount() *ledger.Account { return e.Account }

// wrapRunErr translates the pipeline's own local error types, raised deep
// inside a chain with no report package in scope, into the report package's
// structured kinds before returning them from Run.
func wrapRunErr(err error) error {
	if err == nil {
		return nil
	}
	var recErr *pipeline.ReconcileError
	if errors.As(err, &recErr) {
		return &ReconciliationFailure{Target: recErr.Target, Cutoff: recErr.Cutoff}
	}
	var exprErr *ledger.ExpressionError
	if errors.As(err, &exprErr) {
		return &EvaluationError{Expression: exprErr.Expression, Posting: exprErr.Posting, Err: exprErr.Err}
	}
	return err
}
