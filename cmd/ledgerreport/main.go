// Command ledgerreport is a small demo driver for the report package: it
// decodes a fixture-format journal (see the fixture package — not a real
// ledger-file parser) and runs either the transaction or the account-
// aggregation report over it, printing the result to stdout.
package main

import (
	"github.com/alecthomas/kong"

	"github.com/presto8/ledger-mode/cli"
)

var app struct {
	cli.Commands
}

func main() {
	kctx := kong.Parse(&app,
		kong.Name("ledgerreport"),
		kong.Description("Run the plain-text accounting report pipeline over a fixture journal."),
		kong.UsageOnError(),
		kong.Bind(&app.Globals),
	)

	err := kctx.Run()
	kctx.FatalIfErrorf(err)
}
