package fixture

import (
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/presto8/ledger-mode/ledger"
	"github.com/shopspring/decimal"
)

func TestDecodeBuildsEntryWithPostings(t *testing.T) {
	root := ledger.NewTree()
	src := `
# a comment, and a blank line above
2026-03-01|Acme Market|Expenses/Food=12.50 USD;Assets/Bank/Checking=-12.50 USD
`
	journal, err := Decode(root, strings.NewReader(src))
	assert.NoError(t, err)
	assert.Equal(t, 1, len(journal.Entries))

	entry := journal.Entries[0]
	assert.Equal(t, "Acme Market", entry.Payee)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), entry.Date)
	assert.Equal(t, 2, len(entry.Postings))

	food := entry.Postings[0]
	assert.Equal(t, "Expenses/Food", food.Account.FullName)
	amt, ok := food.Amount.Amount()
	assert.True(t, ok)
	assert.True(t, amt.Quantity.Equal(decimal.NewFromFloat(12.50)))
	assert.Equal(t, "USD", amt.Commodity)
}

func TestDecodeParsesStateAndCode(t *testing.T) {
	root := ledger.NewTree()
	src := "2026-03-02|Employer|*|1042|Assets/Bank/Checking=1000 USD;Income/Salary=-1000 USD"

	journal, err := Decode(root, strings.NewReader(src))
	assert.NoError(t, err)

	entry := journal.Entries[0]
	assert.Equal(t, ledger.Cleared, entry.State)
	assert.Equal(t, "1042", entry.Code)
}

func TestDecodeRejectsMalformedLine(t *testing.T) {
	root := ledger.NewTree()
	_, err := Decode(root, strings.NewReader("not a fixture line"))
	assert.Error(t, err)
}

func TestDecodeRejectsBadAmount(t *testing.T) {
	root := ledger.NewTree()
	_, err := Decode(root, strings.NewReader("2026-03-01|Acme|Expenses/Food=notanumber USD"))
	assert.Error(t, err)
}
