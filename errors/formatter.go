// Package errors provides error formatting infrastructure for this
// module's reporting errors. It separates formatting from domain logic,
// allowing errors to be rendered in multiple formats (text, JSON) for
// different consumers (CLI, web UI, API).
//
// The package defines a Formatter interface and provides two
// implementations:
//   - TextFormatter: formats errors for command-line output
//   - JSONFormatter: formats errors as structured JSON for APIs
//
// Domain-specific error types remain in report (ConfigurationError,
// ReconciliationFailure, EvaluationError, InvariantViolation); this package
// handles only their presentation.
package errors

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/presto8/ledger-mode/ledger"
)

// Formatter formats errors for output in different formats.
type Formatter interface {
	// Format formats a single error.
	Format(err error) string

	// FormatAll formats multiple errors.
	FormatAll(errs []error) string
}

// withPosting is satisfied by report.EvaluationError.
type withPosting interface {
	GetPosting() *ledger.Posting
}

// withAccount is satisfied by report.InvariantViolation.
type withAccount interface {
	GetAccount() *ledger.Account
}

// withDate is satisfied by report.ReconciliationFailure.
type withDate interface {
	GetDate() time.Time
}

// TextFormatter formats errors for command-line output, appending whatever
// posting/account/date context the error type exposes.
type TextFormatter struct{}

// NewTextFormatter creates a new text formatter.
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{}
}

// Format formats a single error.
func (tf *TextFormatter) Format(err error) string {
	if e, ok := err.(withPosting); ok {
		if p := e.GetPosting(); p != nil {
			return tf.formatWithPosting(err.Error(), p)
		}
	}
	if e, ok := err.(withAccount); ok {
		if a := e.GetAccount(); a != nil {
			return fmt.Sprintf("%s\n\n   account %s\n", err.Error(), a.FullName)
		}
	}
	if e, ok := err.(withDate); ok {
		return fmt.Sprintf("%s\n\n   as of %s\n", err.Error(), e.GetDate().Format("2006-01-02"))
	}
	return err.Error()
}

// FormatAll formats multiple errors, separating them with blank lines.
func (tf *TextFormatter) FormatAll(errs []error) string {
	if len(errs) == 0 {
		return ""
	}
	var buf bytes.Buffer
	for i, err := range errs {
		buf.WriteString(tf.Format(err))
		if i < len(errs)-1 {
			buf.WriteString("\n\n")
		}
	}
	return buf.String()
}

// formatWithPosting renders an error's message followed by the offending
// posting's date, account, and amount, indented like the teacher's
// directive-context rendering.
func (tf *TextFormatter) formatWithPosting(message string, p *ledger.Posting) string {
	var buf bytes.Buffer
	buf.WriteString(message)
	buf.WriteString("\n\n")
	fmt.Fprintf(&buf, "   %s  %s  %s\n", p.EffectiveDate().Format("2006-01-02"), p.Account.FullName, p.Amount)
	return buf.String()
}

// JSONFormatter formats errors as JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// ErrorJSON represents an error in JSON format.
type ErrorJSON struct {
	Type    string                 `json:"type"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Format formats a single error as JSON.
func (jf *JSONFormatter) Format(err error) string {
	data, _ := json.Marshal(jf.toJSON(err))
	return string(data)
}

// FormatAll formats multiple errors as a JSON array.
func (jf *JSONFormatter) FormatAll(errs []error) string {
	data, _ := json.MarshalIndent(jf.FormatAllToSlice(errs), "", "  ")
	return string(data)
}

// FormatAllToSlice returns errors as a slice of ErrorJSON structs.
func (jf *JSONFormatter) FormatAllToSlice(errs []error) []ErrorJSON {
	result := make([]ErrorJSON, 0, len(errs))
	for _, err := range errs {
		result = append(result, jf.toJSON(err))
	}
	return result
}

// toJSON converts an error to ErrorJSON.
func (jf *JSONFormatter) toJSON(err error) ErrorJSON {
	errJSON := ErrorJSON{
		Type:    fmt.Sprintf("%T", err),
		Message: err.Error(),
		Details: make(map[string]interface{}),
	}

	if e, ok := err.(withPosting); ok {
		if p := e.GetPosting(); p != nil {
			errJSON.Details["account"] = p.Account.FullName
			errJSON.Details["date"] = p.EffectiveDate().Format("2006-01-02")
			errJSON.Details["amount"] = p.Amount.String()
		}
	}
	if e, ok := err.(withAccount); ok {
		if a := e.GetAccount(); a != nil {
			errJSON.Details["account"] = a.FullName
		}
	}
	if e, ok := err.(withDate); ok {
		errJSON.Details["date"] = e.GetDate().Format("2006-01-02")
	}

	return errJSON
}
