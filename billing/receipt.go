/*
receipt.go - Bill rendering output for the presentation layer

PURPOSE:
  The printable shape of a bill: an ordered list of {name, quantity,
  line_total}, the subtotal/tax/grand_total summary, and for credit
  bills the paid and remaining amounts. Estimates are rendered from
  DRAFT with zero store calls and zero persisted transactions; the
  bill transitions to RENDERED and cannot be submitted afterwards.
*/
package billing

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/storefront/inventory-engine/ledger"
)

// =============================================================================
// RECEIPT
// =============================================================================

// ReceiptLine is one printed row.
type ReceiptLine struct {
	Name      string
	Quantity  ledger.Quantity
	LineTotal ledger.Money
}

// Receipt is the rendering output handed to the presentation layer.
// Paid and Remaining are set for credit bills only.
type Receipt struct {
	InvoiceNo  string
	Customer   string
	Class      ledger.BillClass
	IssuedAt   time.Time
	Lines      []ReceiptLine
	Subtotal   ledger.Money
	Tax        ledger.Money
	GrandTotal ledger.Money
	Paid       *ledger.Money
	Remaining  *ledger.Money
}

// RenderEstimate renders an estimate bill: DRAFT -> RENDERED, stock and
// persistence untouched. Cash and credit bills go through Submit instead.
func RenderEstimate(bill *Bill, now time.Time) (Receipt, error) {
	if bill.state != StateDraft {
		return Receipt{}, ErrBillNotDraft
	}
	if bill.Class != ledger.ClassEstimate {
		return Receipt{}, ErrEstimateOnly
	}
	if len(bill.lines) == 0 {
		return Receipt{}, ErrEmptyBill
	}

	totals := ComputeTotals(bill.Class, bill.lines)
	bill.state = StateRendered
	return newReceipt(bill, totals, ledger.ZeroMoney(), now), nil
}

func newReceipt(bill *Bill, totals Totals, paid ledger.Money, now time.Time) Receipt {
	r := Receipt{
		InvoiceNo:  newInvoiceNo(),
		Customer:   bill.CustomerName,
		Class:      bill.Class,
		IssuedAt:   now,
		Subtotal:   totals.Subtotal,
		Tax:        totals.Tax,
		GrandTotal: totals.GrandTotal,
	}
	if r.Customer == "" {
		r.Customer = "Cash Customer"
	}
	for _, l := range bill.lines {
		r.Lines = append(r.Lines, ReceiptLine{
			Name:      l.Product.Name,
			Quantity:  l.Quantity,
			LineTotal: l.Total(),
		})
	}
	if bill.Class == ledger.ClassCredit {
		remaining, err := totals.GrandTotal.Sub(paid)
		if err != nil {
			remaining = ledger.ZeroMoney()
		}
		r.Paid = &paid
		r.Remaining = &remaining
	}
	return r
}

// newInvoiceNo mints a display invoice number: INV- plus six digits.
func newInvoiceNo() string {
	return fmt.Sprintf("INV-%06d", 100000+rand.Intn(900000))
}
