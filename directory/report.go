/*
report.go - Period-filtered sales history

PURPOSE:
  The recent-sales screen: filter the sale ledger to a trailing period,
  search by product or buyer name, and total revenue / collected /
  pending over what remains. Day and week windows are fixed durations;
  month and year windows are calendar-aware.
*/
package directory

import (
	"strings"
	"time"

	"github.com/storefront/inventory-engine/ledger"
)

// =============================================================================
// PERIOD FILTERS
// =============================================================================

type Period string

const (
	PeriodDay       Period = "1d"
	PeriodWeek      Period = "1w"
	PeriodMonth     Period = "1m"
	PeriodHalfYear  Period = "6m"
	PeriodYear      Period = "1y"
	PeriodFiveYears Period = "5y"
)

// Threshold returns the cutoff instant for the period ending at now.
// Unknown periods return the zero time, admitting everything.
func (p Period) Threshold(now time.Time) time.Time {
	switch p {
	case PeriodDay:
		return now.Add(-24 * time.Hour)
	case PeriodWeek:
		return now.Add(-7 * 24 * time.Hour)
	case PeriodMonth:
		return now.AddDate(0, -1, 0)
	case PeriodHalfYear:
		return now.AddDate(0, -6, 0)
	case PeriodYear:
		return now.AddDate(-1, 0, 0)
	case PeriodFiveYears:
		return now.AddDate(-5, 0, 0)
	}
	return time.Time{}
}

// =============================================================================
// SALES REPORT
// =============================================================================

// SalesReport is the recent-sales summary over a filtered window.
type SalesReport struct {
	Sales        []ledger.Transaction
	TotalRevenue ledger.Money
	TotalPaid    ledger.Money
	TotalPending ledger.Money
	Count        int
}

// BuildSalesReport filters sales to the trailing period and an optional
// case-insensitive product-name or buyer-name query, then totals
// revenue, collected and pending amounts. The buyer name for each sale
// is resolved through the parties list; cash sales have none.
func BuildSalesReport(sales []ledger.Transaction, parties []ledger.Party,
	period Period, query string, now time.Time) SalesReport {

	threshold := period.Threshold(now)
	query = strings.ToLower(strings.TrimSpace(query))

	buyerNames := make(map[ledger.PartyID]string, len(parties))
	for _, p := range parties {
		buyerNames[p.ID] = p.Name
	}

	report := SalesReport{
		TotalRevenue: ledger.ZeroMoney(),
		TotalPaid:    ledger.ZeroMoney(),
		TotalPending: ledger.ZeroMoney(),
	}

	for _, s := range sales {
		if s.CreatedAt.Before(threshold) {
			continue
		}
		if query != "" {
			product := strings.ToLower(s.ProductName)
			buyer := strings.ToLower(buyerNames[s.PartyID])
			if !strings.Contains(product, query) && !strings.Contains(buyer, query) {
				continue
			}
		}
		report.Sales = append(report.Sales, s)
		report.TotalRevenue = report.TotalRevenue.Add(s.TotalAmount)
		report.TotalPaid = report.TotalPaid.Add(s.PaidAmount)
	}

	report.Count = len(report.Sales)
	report.TotalPending = ledger.Outstanding(report.Sales)
	return report
}

// BuyerDisplayName resolves the directory display name for a sale's
// counterparty; sales without one are cash sales.
func BuyerDisplayName(s ledger.Transaction, parties []ledger.Party) string {
	if s.PartyID == "" {
		return "Cash Sale"
	}
	for _, p := range parties {
		if p.ID == s.PartyID {
			return p.Name
		}
	}
	return "Cash Sale"
}
