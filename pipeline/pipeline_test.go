package pipeline

import (
	"time"

	"github.com/presto8/ledger-mode/ledger"
	"github.com/shopspring/decimal"
)

// testXDataStore is a minimal ledger.XDataStore backed by pointer-keyed
// maps, letting tests drive a chain through context.Context the same way
// report.Report does, without depending on the report package.
type testXDataStore struct {
	postings map[*ledger.Posting]*ledger.PostingXData
	accounts map[*ledger.Account]*ledger.AccountXData
}

func newTestXDataStore() *testXDataStore {
	return &testXDataStore{
		postings: make(map[*ledger.Posting]*ledger.PostingXData),
		accounts: make(map[*ledger.Account]*ledger.AccountXData),
	}
}

func (s *testXDataStore) PostingXData(p *ledger.Posting) *ledger.PostingXData {
	if x, ok := s.postings[p]; ok {
		return x
	}
	x := &ledger.PostingXData{}
	s.postings[p] = x
	return x
}

func (s *testXDataStore) AccountXData(a *ledger.Account) *ledger.AccountXData {
	if x, ok := s.accounts[a]; ok {
		return x
	}
	x := &ledger.AccountXData{}
	s.accounts[a] = x
	return x
}

func amount(quantity int64, commodity string) ledger.Value {
	return ledger.AmountValue(ledger.NewAmount(decimal.NewFromInt(quantity), commodity))
}

// newPosting builds a posting attached to a fresh one-entry journal, so
// RelatedHandler/CollapseHandler have a real entry to walk.
func newPosting(root *ledger.Account, date time.Time, payee, account string, quantity int64, commodity string) *ledger.Posting {
	entry := &ledger.Entry{Date: date, Payee: payee}
	return entry.AddPosting(&ledger.Posting{Account: root.Find(account), Amount: amount(quantity, commodity)})
}

// addPosting adds another posting to p's own entry, for building multi-leg
// entries the related/collapse tests exercise.
func addPosting(p *ledger.Posting, root *ledger.Account, account string, quantity int64, commodity string) *ledger.Posting {
	return p.Entry.AddPosting(&ledger.Posting{Account: root.Find(account), Amount: amount(quantity, commodity)})
}

var testDate = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
