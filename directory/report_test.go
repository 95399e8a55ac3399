package directory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/inventory-engine/directory"
	"github.com/storefront/inventory-engine/ledger"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

var reportNow = time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)

func saleAt(product string, buyer ledger.PartyID, total, paid float64, at time.Time) ledger.Transaction {
	return ledger.Transaction{
		ID:          ledger.TransactionID("txn-" + product + at.String()),
		ProductName: product,
		PartyID:     buyer,
		Quantity:    1,
		TotalAmount: ledger.MustMoney(total),
		PaidAmount:  ledger.MustMoney(paid),
		Class:       ledger.ClassCredit,
		Direction:   ledger.DirectionSale,
		CreatedAt:   at,
	}
}

// =============================================================================
// PERIOD THRESHOLDS
// =============================================================================

func TestPeriodThreshold_FixedWindows(t *testing.T) {
	assert.Equal(t, reportNow.Add(-24*time.Hour), directory.PeriodDay.Threshold(reportNow))
	assert.Equal(t, reportNow.Add(-7*24*time.Hour), directory.PeriodWeek.Threshold(reportNow))
}

func TestPeriodThreshold_CalendarWindows(t *testing.T) {
	// Month and year windows follow the calendar, not fixed durations.
	assert.Equal(t, reportNow.AddDate(0, -1, 0), directory.PeriodMonth.Threshold(reportNow))
	assert.Equal(t, reportNow.AddDate(0, -6, 0), directory.PeriodHalfYear.Threshold(reportNow))
	assert.Equal(t, reportNow.AddDate(-1, 0, 0), directory.PeriodYear.Threshold(reportNow))
	assert.Equal(t, reportNow.AddDate(-5, 0, 0), directory.PeriodFiveYears.Threshold(reportNow))
}

func TestPeriodThreshold_Unknown_AdmitsEverything(t *testing.T) {
	assert.True(t, directory.Period("").Threshold(reportNow).IsZero())
}

// =============================================================================
// SALES REPORT
// =============================================================================

func TestBuildSalesReport_FiltersByPeriod(t *testing.T) {
	// GIVEN: One sale yesterday, one eight days ago
	// WHEN: Filtering to the trailing week
	// THEN: Only the recent sale remains; totals cover just it

	sales := []ledger.Transaction{
		saleAt("Premium Emulsion Paint", "", 4500, 4500, reportNow.Add(-24*time.Hour)),
		saleAt("Steel Claw Hammer", "", 1850, 1850, reportNow.Add(-8*24*time.Hour)),
	}

	report := directory.BuildSalesReport(sales, nil, directory.PeriodWeek, "", reportNow)
	require.Len(t, report.Sales, 1)
	assert.Equal(t, 1, report.Count)
	assert.Equal(t, "4500.00", report.TotalRevenue.String())
}

func TestBuildSalesReport_QueryMatchesProductOrBuyer(t *testing.T) {
	buyers := []ledger.Party{
		{ID: "b1", Kind: ledger.KindBuyer, Name: "Meena Traders"},
	}
	sales := []ledger.Transaction{
		saleAt("Premium Emulsion Paint", "b1", 4500, 0, reportNow.Add(-time.Hour)),
		saleAt("Steel Claw Hammer", "", 1850, 1850, reportNow.Add(-time.Hour)),
	}

	byProduct := directory.BuildSalesReport(sales, buyers, directory.PeriodDay, "hammer", reportNow)
	require.Len(t, byProduct.Sales, 1)
	assert.Equal(t, "Steel Claw Hammer", byProduct.Sales[0].ProductName)

	byBuyer := directory.BuildSalesReport(sales, buyers, directory.PeriodDay, "meena", reportNow)
	require.Len(t, byBuyer.Sales, 1)
	assert.Equal(t, "Premium Emulsion Paint", byBuyer.Sales[0].ProductName)
}

func TestBuildSalesReport_Totals(t *testing.T) {
	sales := []ledger.Transaction{
		saleAt("Paint", "b1", 10000, 4000, reportNow.Add(-time.Hour)),
		saleAt("Hammer", "", 1850, 1850, reportNow.Add(-time.Hour)),
	}

	report := directory.BuildSalesReport(sales, nil, directory.PeriodDay, "", reportNow)
	assert.Equal(t, "11850.00", report.TotalRevenue.String())
	assert.Equal(t, "5850.00", report.TotalPaid.String())
	assert.Equal(t, "6000.00", report.TotalPending.String())
}

// =============================================================================
// BUYER DISPLAY NAMES
// =============================================================================

func TestBuyerDisplayName_CashSaleFallback(t *testing.T) {
	buyers := []ledger.Party{{ID: "b1", Name: "Meena Traders"}}

	named := saleAt("Paint", "b1", 100, 0, reportNow)
	assert.Equal(t, "Meena Traders", directory.BuyerDisplayName(named, buyers))

	anonymous := saleAt("Paint", "", 100, 100, reportNow)
	assert.Equal(t, "Cash Sale", directory.BuyerDisplayName(anonymous, buyers))
}
