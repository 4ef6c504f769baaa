package ledger

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// PriceGraph is the built-in PriceSource: a bidirectional, date-indexed
// table of commodity exchange rates with forward-fill lookups (the most
// recent price on or before a given date). changed_value is the pipeline's
// only consumer of a PriceSource; everything else in this package is
// commodity-agnostic.
//
// It stores prices bidirectionally: adding a price from USD to EUR
// automatically creates the inverse edge from EUR to USD. Same-commodity
// conversions always return a rate of 1.
type PriceGraph struct {
	// reference is the commodity PriceSource.Price quotes against — the
	// pinned interface asks for a single commodity and returns a Value, so
	// the graph needs a fixed "to" side to report against.
	reference string
	// pricesByDate maps a date key to a 2-level nested map: from commodity
	// -> to commodity -> rate.
	pricesByDate map[string]map[string]map[string]decimal.Decimal
	// sortedDates maintains dates in chronological order for forward-fill
	// lookups.
	sortedDates []time.Time
}

// NewPriceGraph creates a new empty price graph that quotes commodities
// against reference (the reporting currency).
func NewPriceGraph(reference string) *PriceGraph {
	return &PriceGraph{
		reference:    reference,
		pricesByDate: make(map[string]map[string]map[string]decimal.Decimal),
	}
}

func priceDateKey(d time.Time) string { return d.Format("2006-01-02") }

// AddPrice adds a price conversion from one commodity to another on date,
// and its inverse. Zero rates are rejected.
func (pg *PriceGraph) AddPrice(date time.Time, from, to string, rate decimal.Decimal) error {
	if rate.IsZero() {
		return fmt.Errorf("price rate must be non-zero: %s %s %s on %s", from, to, rate, priceDateKey(date))
	}

	key := priceDateKey(date)
	if _, exists := pg.pricesByDate[key]; !exists {
		pg.pricesByDate[key] = make(map[string]map[string]decimal.Decimal)
		pg.sortedDates = append(pg.sortedDates, date)
		sort.Slice(pg.sortedDates, func(i, j int) bool {
			return pg.sortedDates[i].Before(pg.sortedDates[j])
		})
	}

	if pg.pricesByDate[key][from] == nil {
		pg.pricesByDate[key][from] = make(map[string]decimal.Decimal)
	}
	if pg.pricesByDate[key][to] == nil {
		pg.pricesByDate[key][to] = make(map[string]decimal.Decimal)
	}

	pg.pricesByDate[key][from][to] = rate
	pg.pricesByDate[key][to][from] = decimal.NewFromInt(1).Div(rate)

	return nil
}

// Rate returns the rate from one commodity to another on or before date,
// using forward-fill semantics (the most recent price on or before date),
// and false if no price is known for the pair by that date.
func (pg *PriceGraph) Rate(date time.Time, from, to string) (decimal.Decimal, bool) {
	if from == to {
		return decimal.NewFromInt(1), true
	}

	for i := len(pg.sortedDates) - 1; i >= 0; i-- {
		d := pg.sortedDates[i]
		if d.After(date) {
			continue
		}
		if rates, ok := pg.pricesByDate[priceDateKey(d)][from]; ok {
			if rate, found := rates[to]; found {
				return rate, true
			}
		}
	}

	return decimal.Zero, false
}

// Price implements PriceSource: it quotes commodity against pg.reference at
// the given instant, forward-filling from the most recent known rate.
func (pg *PriceGraph) Price(commodity string, at time.Time) (Value, bool) {
	rate, ok := pg.Rate(at, commodity, pg.reference)
	if !ok {
		return NullValue, false
	}
	return AmountValue(Amount{Quantity: rate, Commodity: pg.reference}), true
}

// HasPrice reports whether a price exists for the pair on or before date.
func (pg *PriceGraph) HasPrice(date time.Time, from, to string) bool {
	_, found := pg.Rate(date, from, to)
	return found
}

// Convert restates amt in the target commodity using the most recent price
// on or before date, returning amt unchanged and false if no price is known.
func (pg *PriceGraph) Convert(date time.Time, amt Amount, target string) (Amount, bool) {
	rate, ok := pg.Rate(date, amt.Commodity, target)
	if !ok {
		return amt, false
	}
	return Amount{Quantity: amt.Quantity.Mul(rate), Commodity: target}, true
}
