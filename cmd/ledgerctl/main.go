// Command ledgerctl runs ledger maintenance tasks against the ERP database:
// reconciliation checks, period summaries and CSV bulk loads.
package main

import (
	"os"
)

func main() {
	if err := newRootCommand(openApp).Execute(); err != nil {
		os.Exit(1)
	}
}
