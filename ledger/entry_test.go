package ledger

import (
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"
)

func TestEntryEffectiveDateFallsBackToDate(t *testing.T) {
	e := &Entry{Date: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, e.Date, e.EffectiveDate())
}

func TestEntryEffectiveDateUsesOverride(t *testing.T) {
	override := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	e := &Entry{Date: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), Effective: &override}
	assert.Equal(t, override, e.EffectiveDate())
}

func TestEntryAddPostingSetsBackReference(t *testing.T) {
	e := &Entry{Date: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	tree := NewTree()
	p := e.AddPosting(&Posting{
		Account: tree.Find("Assets/Bank"),
		Amount:  AmountValue(NewAmount(decimal.NewFromInt(100), "USD")),
	})

	assert.True(t, p.Entry == e)
	assert.Equal(t, 1, len(e.Postings))
	assert.Equal(t, e.Date, p.EffectiveDate())
}

func TestJournalAddEntry(t *testing.T) {
	j := &Journal{}
	e := j.AddEntry(&Entry{Date: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)})

	assert.Equal(t, 1, len(j.Entries))
	assert.True(t, j.Entries[0] == e)
}
