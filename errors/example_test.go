package errors_test

import (
	"fmt"
	"time"

	"github.com/presto8/ledger-mode/errors"
	"github.com/presto8/ledger-mode/ledger"
	"github.com/presto8/ledger-mode/report"
)

// ExampleTextFormatter shows how to use TextFormatter for CLI output.
func ExampleTextFormatter() {
	root := ledger.NewTree()
	err := &report.InvariantViolation{
		Reason:  "entry does not balance",
		Account: root.Find("Assets/Checking"),
	}

	formatter := errors.NewTextFormatter()
	fmt.Println(formatter.Format(err))
}

// ExampleJSONFormatter shows how to use JSONFormatter for API/web output.
func ExampleJSONFormatter() {
	cutoff := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	errs := []error{
		&report.ReconciliationFailure{Cutoff: cutoff},
		&report.ConfigurationError{Option: "sort_string", Reason: "unparseable expression"},
	}

	formatter := errors.NewJSONFormatter()
	jsonOutput := formatter.FormatAll(errs)
	fmt.Println(jsonOutput)
	// Output will be a JSON array with structured error information
}
