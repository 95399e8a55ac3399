/*
tax.go - Bill-level tax computation

PURPOSE:
  The single flat tax rule: cash bills carry 18% on the subtotal,
  credit (udhaar) and estimate bills carry none. Tax applies at bill
  level, never per line, and is truncated to the cent.
*/
package billing

import (
	"github.com/shopspring/decimal"

	"github.com/storefront/inventory-engine/ledger"
)

// TaxRate is the flat rate applied to cash-bill subtotals.
var TaxRate = decimal.NewFromFloat(0.18)

// Totals is the money summary of a bill.
type Totals struct {
	Subtotal   ledger.Money
	Tax        ledger.Money
	GrandTotal ledger.Money
}

// ComputeTotals sums line totals into the bill's subtotal and applies
// the classification's tax rule: subtotal x 0.18 for cash, zero
// otherwise. grand_total = subtotal + tax.
func ComputeTotals(class ledger.BillClass, lines []Line) Totals {
	subtotal := ledger.ZeroMoney()
	for _, l := range lines {
		subtotal = subtotal.Add(l.Total())
	}

	tax := ledger.ZeroMoney()
	if class.Taxable() {
		tax = ledger.Money{Value: subtotal.Value.Mul(TaxRate)}.TruncateCents()
	}

	return Totals{
		Subtotal:   subtotal,
		Tax:        tax,
		GrandTotal: subtotal.Add(tax),
	}
}
