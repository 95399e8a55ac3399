/*
Package directory produces the buyer and supplier directory summaries:
per-party outstanding balances, collection status bands, and the sales
history report behind the recent-sales screen.

PURPOSE:
  Read-side rollups over the transaction ledger. Everything here is
  recomputed from the transaction lists on each call; the package holds
  no state and tolerates lists that change between reads.

STATUS BANDS:
  Clear       outstanding is zero
  Pending     anything owed below the warning band
  Warning     outstanding >= 50,000
  High Alert  outstanding >= 100,000

SEE ALSO:
  - ledger/balance.go: the underlying outstanding fold
  - report.go: period-filtered sales history
*/
package directory

import (
	"sort"
	"strings"

	"github.com/storefront/inventory-engine/ledger"
)

// =============================================================================
// COLLECTION STATUS
// =============================================================================

type Status string

const (
	StatusClear     Status = "Clear"
	StatusPending   Status = "Pending"
	StatusWarning   Status = "Warning"
	StatusHighAlert Status = "High Alert"
)

var (
	warningThreshold   = ledger.MustMoney(50000)
	highAlertThreshold = ledger.MustMoney(100000)
)

// StatusFor bands an outstanding balance for the directory table.
func StatusFor(outstanding ledger.Money) Status {
	switch {
	case outstanding.IsZero():
		return StatusClear
	case outstanding.GreaterThan(highAlertThreshold) || outstanding.Equal(highAlertThreshold):
		return StatusHighAlert
	case outstanding.GreaterThan(warningThreshold) || outstanding.Equal(warningThreshold):
		return StatusWarning
	default:
		return StatusPending
	}
}

// =============================================================================
// DIRECTORY SUMMARIES
// =============================================================================

// Summary is one directory row: a party with its recomputed outstanding
// balance and status band.
type Summary struct {
	Party       ledger.Party
	Outstanding ledger.Money
	Status      Status
}

// Summarize rolls up each party's transactions into a directory row,
// optionally filtered by a case-insensitive name substring, sorted by
// outstanding balance descending (biggest debts first).
func Summarize(parties []ledger.Party, query string) []Summary {
	query = strings.ToLower(strings.TrimSpace(query))

	var rows []Summary
	for _, p := range parties {
		if query != "" && !strings.Contains(strings.ToLower(p.Name), query) {
			continue
		}
		outstanding := ledger.OutstandingFor(p)
		rows = append(rows, Summary{
			Party:       p,
			Outstanding: outstanding,
			Status:      StatusFor(outstanding),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[j].Outstanding.LessThan(rows[i].Outstanding)
	})
	return rows
}

// TotalOutstanding is the directory header figure over the filtered rows.
func TotalOutstanding(rows []Summary) ledger.Money {
	sum := ledger.ZeroMoney()
	for _, r := range rows {
		sum = sum.Add(r.Outstanding)
	}
	return sum
}
