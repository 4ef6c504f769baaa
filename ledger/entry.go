package ledger

import "time"

// PostingState is the cleared/pending/uncleared state carried by a posting
// (and, as a header default, by its entry).
type PostingState int

const (
	Uncleared PostingState = iota
	Pending
	Cleared
)

// Entry is a dated transaction: a header plus the postings it balances.
// Per the data model's invariant, the sum of Postings' amounts is the null
// Value — callers construct journals already balanced; this package never
// checks or enforces that (balance assertions belong to journal
// construction, out of this module's scope).
//
// Synthetic entries emitted by accumulating handlers (subtotal, collapse,
// interval, dow, by_payee) are built the same way but are never attached to
// a Journal.
type Entry struct {
	Date      time.Time
	Effective *time.Time // optional effective-date override
	Code      string
	Payee     string
	State     PostingState

	Postings []*Posting
}

// EffectiveDate returns Effective if set, else Date.
func (e *Entry) EffectiveDate() time.Time {
	if e.Effective != nil {
		return *e.Effective
	}
	return e.Date
}

// AddPosting appends a posting to the entry and sets its back-reference.
func (e *Entry) AddPosting(p *Posting) *Posting {
	p.Entry = e
	e.Postings = append(e.Postings, p)
	return p
}

// Posting is one side of an Entry. Account and Entry are weak, non-owning
// back-references: Entry owns its Postings, and the account tree owns its
// Accounts; a Posting merely points into both.
//
// The pipeline never mutates Amount, Account, or Entry — only a Posting's
// xdata, held in a side table owned by the running Report (see xdata.go).
type Posting struct {
	Entry   *Entry
	Account *Account
	Amount  Value
	Cost    *Lot // optional lot/cost-basis annotation
	State   PostingState
}

// EffectiveDate returns the posting's owning entry's effective date.
func (p *Posting) EffectiveDate() time.Time {
	return p.Entry.EffectiveDate()
}

// Journal is an ordered collection of entries, grouped by the source they
// were parsed from — parsing itself is out of this module's scope, so a
// Journal is simply whatever the caller (or, in tests, a hand-built
// fixture) hands the pipeline.
type Journal struct {
	Entries []*Entry
}

// AddEntry appends an entry to the journal.
func (j *Journal) AddEntry(e *Entry) *Entry {
	j.Entries = append(j.Entries, e)
	return e
}
