package ledger

import "time"

// Lot is an optional cost-basis annotation carried by a Posting. It is
// display-only in this module: tracking which lot a reduction draws down
// (FIFO/LIFO booking) is journal-construction machinery and out of scope —
// a Lot here just records what a posting's cost was. cli.TextPostingPrinter
// shows it; no pipeline handler reads it.
type Lot struct {
	Cost  Value
	Date  *time.Time
	Label string
}
