/*
Package billing composes bills: carts of line items plus a classification,
turned into the transaction records to submit.

PURPOSE:
  The Bill Composer is the write path of the storefront. An operator
  builds a cart (DRAFT), then either submits it (cash/credit, stock
  reserved and transactions persisted, COMMITTED) or renders it as an
  estimate (RENDERED, nothing persisted, stock untouched).

STATE MACHINE:
  DRAFT -> COMMITTED   cash/credit submit, per line, partial success kept
  DRAFT -> RENDERED    estimate preview
  No transitions out of COMMITTED or RENDERED. Corrections are new
  operations on the committed records (payments, total revisions), never
  a rollback of the commit.

KEY CONCEPTS IN THIS FILE (bill.go):
  - Line: (product snapshot, quantity, optional agreed total)
  - Bill: ordered cart with unique products and the advisory stock check

SEE ALSO:
  - composer.go: submission against the store
  - tax.go: the cash-bill tax rule
  - receipt.go: rendering output for the presentation layer
*/
package billing

import (
	"errors"

	"github.com/storefront/inventory-engine/ledger"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrBillNotDraft is returned when mutating or submitting a bill that
	// has already been committed or rendered.
	ErrBillNotDraft = errors.New("bill is no longer a draft")

	// ErrEmptyBill is returned when submitting or rendering a bill with
	// no lines.
	ErrEmptyBill = errors.New("bill has no line items")

	// ErrEstimateOnly is returned when rendering a cash or credit bill as
	// an estimate, or submitting an estimate as a real bill.
	ErrEstimateOnly = errors.New("operation valid only for the other bill class")

	// ErrOverrideNotAllowed is returned when an explicit line total is
	// supplied outside the supplier purchase flow.
	ErrOverrideNotAllowed = errors.New("total override allowed only on supplier purchases")
)

// =============================================================================
// BILL STATE
// =============================================================================

type State string

const (
	StateDraft     State = "DRAFT"
	StateCommitted State = "COMMITTED"
	StateRendered  State = "RENDERED"
)

// =============================================================================
// LINE - one (product, quantity) cart entry
// =============================================================================

// Line is one cart entry. The product is a snapshot taken when the line
// was added; the authoritative stock check happens again at submit time.
type Line struct {
	Product  ledger.Product
	Quantity ledger.Quantity

	agreedTotal *ledger.Money // supplier purchases only
}

// Total is the line's money amount: the explicitly agreed total when one
// was entered, otherwise unit_price x quantity truncated to the cent.
func (l Line) Total() ledger.Money {
	if l.agreedTotal != nil {
		return *l.agreedTotal
	}
	return ledger.DeriveTotal(l.Product.UnitPrice, l.Quantity)
}

// =============================================================================
// BILL - ordered cart plus classification
// =============================================================================

// Bill is a cart being built (DRAFT) or its finalized outcome. Products
// are unique within a bill: adding an already-carted product merges
// quantities rather than duplicating the line.
type Bill struct {
	Class        ledger.BillClass
	Direction    ledger.Direction
	PartyID      ledger.PartyID
	CustomerName string // display only; cash receipts fall back to "Cash Customer"

	state State
	lines []Line
}

// NewSale starts a DRAFT sale bill of the given class. Credit bills name
// the buyer at submit time via PartyID.
func NewSale(class ledger.BillClass) *Bill {
	return &Bill{Class: class, Direction: ledger.DirectionSale, state: StateDraft}
}

// NewPurchase starts a DRAFT supplier purchase bill. Purchases are always
// credit-shaped: the payable accrues against the supplier.
func NewPurchase(supplierID ledger.PartyID) *Bill {
	return &Bill{
		Class:     ledger.ClassCredit,
		Direction: ledger.DirectionPurchase,
		PartyID:   supplierID,
		state:     StateDraft,
	}
}

func (b *Bill) State() State  { return b.state }
func (b *Bill) Lines() []Line { return b.lines }

// AddItem adds qty units of the product, merging with an existing line
// for the same product. For cash and credit sale bills the cumulative
// line quantity is checked against the product's remaining stock before
// the cart mutates; a shortage rejects the addition and leaves the cart
// unchanged. Estimates skip the check entirely.
func (b *Bill) AddItem(p ledger.Product, qty ledger.Quantity) error {
	if b.state != StateDraft {
		return ErrBillNotDraft
	}
	if qty <= 0 {
		return ledger.ErrInvalidQuantity
	}

	idx := b.lineIndex(p.ID)
	cumulative := qty
	if idx >= 0 {
		cumulative += b.lines[idx].Quantity
	}

	// Advisory check: sales of stock-reserving classes only. Purchases
	// add stock; estimates only read remaining for display.
	if b.Direction == ledger.DirectionSale && b.Class.ReservesStock() {
		if err := ledger.CheckAvailability(p, cumulative); err != nil {
			return err
		}
	}

	if idx >= 0 {
		b.lines[idx].Quantity = cumulative
		return nil
	}
	b.lines = append(b.lines, Line{Product: p, Quantity: qty})
	return nil
}

// RemoveItem drops the line for the product, if present.
func (b *Bill) RemoveItem(id ledger.ProductID) error {
	if b.state != StateDraft {
		return ErrBillNotDraft
	}
	idx := b.lineIndex(id)
	if idx < 0 {
		return ledger.ErrProductNotFound
	}
	b.lines = append(b.lines[:idx], b.lines[idx+1:]...)
	return nil
}

// OverrideLineTotal records an explicitly agreed total for a line,
// replacing the derived unit_price x quantity figure. Only the supplier
// purchase flow may differ from the derived price.
func (b *Bill) OverrideLineTotal(id ledger.ProductID, total ledger.Money) error {
	if b.state != StateDraft {
		return ErrBillNotDraft
	}
	if b.Direction != ledger.DirectionPurchase {
		return ErrOverrideNotAllowed
	}
	idx := b.lineIndex(id)
	if idx < 0 {
		return ledger.ErrProductNotFound
	}
	b.lines[idx].agreedTotal = &total
	return nil
}

func (b *Bill) lineIndex(id ledger.ProductID) int {
	for i, l := range b.lines {
		if l.Product.ID == id {
			return i
		}
	}
	return -1
}
