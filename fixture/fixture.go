// Package fixture decodes a tiny pipe-delimited journal format used by this
// module's demo command and its own tests to build a *ledger.Journal without
// a real parser — journal-file grammar is out of this module's scope (see
// SPEC_FULL.md §1); fixture is explicitly not a stand-in for it.
//
// One entry per line:
//
//	DATE|PAYEE|ACCOUNT=QUANTITY COMMODITY[;ACCOUNT=QUANTITY COMMODITY...]
//
// DATE is "2006-01-02". Blank lines and lines starting with "#" are
// skipped. A line may optionally carry a cleared/pending marker and an
// entry code between PAYEE and the posting list, each introduced by its own
// "|": "DATE|PAYEE|*|1042|POSTINGS". The marker is one of "*" (cleared) or
// "!" (pending); omit both extra fields, or just the code, to leave them at
// their zero value.
package fixture

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/presto8/ledger-mode/ledger"
)

// dateLayout is the fixture format's only supported date shape.
const dateLayout = "2006-01-02"

// Decode reads a fixture-format journal from r, attaching every posting's
// account to (and creating it under, via Account.Find) root, and returns the
// resulting journal.
func Decode(root *ledger.Account, r io.Reader) (*ledger.Journal, error) {
	journal := &ledger.Journal{}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entry, err := decodeLine(root, line)
		if err != nil {
			return nil, fmt.Errorf("fixture: line %d: %w", lineNo, err)
		}
		journal.AddEntry(entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("fixture: %w", err)
	}
	return journal, nil
}

func decodeLine(root *ledger.Account, line string) (*ledger.Entry, error) {
	fields := strings.Split(line, "|")
	if len(fields) < 3 {
		return nil, fmt.Errorf("expected DATE|PAYEE|...|POSTINGS, got %q", line)
	}

	date, err := time.Parse(dateLayout, strings.TrimSpace(fields[0]))
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", fields[0], err)
	}

	entry := &ledger.Entry{Date: date, Payee: strings.TrimSpace(fields[1])}

	postingsField := fields[len(fields)-1]
	for _, extra := range fields[2 : len(fields)-1] {
		extra = strings.TrimSpace(extra)
		switch extra {
		case "*":
			entry.State = ledger.Cleared
		case "!":
			entry.State = ledger.Pending
		case "":
			// no-op placeholder field
		default:
			entry.Code = extra
		}
	}

	for _, raw := range strings.Split(postingsField, ";") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		posting, err := decodePosting(root, raw)
		if err != nil {
			return nil, err
		}
		entry.AddPosting(posting)
	}
	if len(entry.Postings) == 0 {
		return nil, fmt.Errorf("entry has no postings: %q", line)
	}
	return entry, nil
}

func decodePosting(root *ledger.Account, raw string) (*ledger.Posting, error) {
	accountPart, amountPart, ok := strings.Cut(raw, "=")
	if !ok {
		return nil, fmt.Errorf("expected ACCOUNT=QUANTITY COMMODITY, got %q", raw)
	}
	accountPart = strings.TrimSpace(accountPart)

	parts := strings.Fields(strings.TrimSpace(amountPart))
	if len(parts) != 2 {
		return nil, fmt.Errorf("expected QUANTITY COMMODITY, got %q", amountPart)
	}

	amount, err := ledger.ParseAmount(parts[0], parts[1])
	if err != nil {
		return nil, err
	}

	return &ledger.Posting{
		Account: root.Find(accountPart),
		Amount:  ledger.AmountValue(amount),
	}, nil
}
