/*
Package ledger provides the transaction ledger and stock reconciliation
engine for the storefront.

PURPOSE:
  One engine governs two tightly coupled ledgers: a ledger of money owed
  (transactions with paid/outstanding splits) and a ledger of units
  available (per-product stock). A sale, a purchase, a partial payment
  and a restock are all movements against these two ledgers.

KEY CONCEPTS IN THIS FILE (types.go):
  - Product:     catalog entry with total and remaining stock
  - Party:       buyer (credit customer) or supplier
  - Transaction: immutable-once-created record of one sale or purchase
  - BillClass:   CASH / CREDIT / ESTIMATE, threaded through composer,
                 stock checks and tax as one tagged variant

DESIGN PRINCIPLES:
  1. Exactness: decimal money, integer quantities, no clamping
  2. Recompute over cache: outstanding balances fold over transactions
  3. Type safety: distinct ID types for products, parties, transactions
  4. The store is a collaborator: the engine validates first, then asks
     the store to apply, and the store re-checks atomically

SEE ALSO:
  - money.go: Money and Quantity primitives
  - stock.go: stock ledger operations
  - payment.go: paid/outstanding mutations
  - store.go: persistence collaborator interface
*/
package ledger

import "time"

// =============================================================================
// IDENTIFIERS
// =============================================================================

type ProductID string
type PartyID string
type TransactionID string

// =============================================================================
// BILL CLASSIFICATION - one tagged variant, threaded everywhere
// =============================================================================

// BillClass classifies a bill and every transaction created from it.
type BillClass string

const (
	// ClassCash is a fully paid sale with no counterparty tracking.
	ClassCash BillClass = "CASH"
	// ClassCredit is an udhaar sale: goods now, payment owed later,
	// tracked against a named buyer.
	ClassCredit BillClass = "CREDIT"
	// ClassEstimate is a preview that never touches stock or persistence.
	ClassEstimate BillClass = "ESTIMATE"
)

// ParseBillClass maps both the UI tags ("original", "udhaar", "dummy") and
// the storage tags ("REAL", "CREDIT") onto the single classification used
// throughout the engine. Unknown tags are rejected rather than defaulted.
func ParseBillClass(tag string) (BillClass, error) {
	switch tag {
	case "original", "REAL", "CASH":
		return ClassCash, nil
	case "udhaar", "CREDIT":
		return ClassCredit, nil
	case "dummy", "estimate", "ESTIMATE":
		return ClassEstimate, nil
	}
	return "", ErrInvalidClass
}

// ReservesStock reports whether transactions of this class move stock.
// Estimates only read remaining quantity for display.
func (c BillClass) ReservesStock() bool { return c == ClassCash || c == ClassCredit }

// Taxable reports whether the bill-level tax applies. Only cash bills
// carry the flat rate; udhaar and estimates carry none.
func (c BillClass) Taxable() bool { return c == ClassCash }

// Persisted reports whether transactions of this class are ever written.
func (c BillClass) Persisted() bool { return c != ClassEstimate }

// =============================================================================
// DIRECTION - sale to a buyer vs purchase from a supplier
// =============================================================================

type Direction string

const (
	DirectionSale     Direction = "SALE"
	DirectionPurchase Direction = "PURCHASE"
)

// =============================================================================
// PRODUCT - catalog entry plus the stock ledger state
// =============================================================================

// StockStatus is the directory display band for a product's stock level.
type StockStatus string

const (
	StockStatusIn  StockStatus = "In Stock"
	StockStatusLow StockStatus = "Low Stock"
	StockStatusOut StockStatus = "Out of Stock"
)

// lowStockThreshold is the band boundary used by the catalog screen.
const lowStockThreshold = 50

// Product is a catalog entry. TotalQty only grows (restock); RemainingQty
// moves between 0 and TotalQty as sales reserve units.
//
// INVARIANT: 0 <= RemainingQty <= TotalQty.
type Product struct {
	ID           ProductID
	Name         string
	Category     string
	UnitPrice    Money
	TotalQty     Quantity
	RemainingQty Quantity
	CreatedAt    time.Time
}

// StockStatus bands the remaining quantity for catalog display.
func (p Product) StockStatus() StockStatus {
	switch {
	case p.RemainingQty == 0:
		return StockStatusOut
	case p.RemainingQty < lowStockThreshold:
		return StockStatusLow
	default:
		return StockStatusIn
	}
}

// =============================================================================
// PARTY - buyer or supplier, two variants of the same shape
// =============================================================================

type PartyKind string

const (
	KindBuyer    PartyKind = "BUYER"
	KindSupplier PartyKind = "SUPPLIER"
)

// Party is a buyer or supplier. It owns a back-reference to its
// transactions, not their money logic: outstanding balances are always
// recomputed from the transaction list (see balance.go).
type Party struct {
	ID          PartyID
	Kind        PartyKind
	Name        string
	Phone       string
	Address     string // buyers
	CompanyName string // suppliers
	CreatedAt   time.Time

	Transactions []Transaction
}

// =============================================================================
// TRANSACTION - immutable-once-created sale or purchase record
// =============================================================================

// Transaction records a single sale or purchase event. Once persisted it
// is never deleted; corrections happen through the payment ledger
// (ApplyPayment, ReviseTotal), never by editing history.
//
// INVARIANT: 0 <= PaidAmount <= TotalAmount at all times.
type Transaction struct {
	ID          TransactionID
	ProductID   ProductID
	ProductName string
	PartyID     PartyID // empty for cash sales
	Quantity    Quantity
	TotalAmount Money
	PaidAmount  Money
	Class       BillClass
	Direction   Direction
	CreatedAt   time.Time
}

// Outstanding is the unpaid remainder. Derived, never stored.
func (t Transaction) Outstanding() Money {
	out, err := t.TotalAmount.Sub(t.PaidAmount)
	if err != nil {
		// paid <= total is enforced on every mutation; an overpaid record
		// here means corrupted input, reported as zero owing.
		return ZeroMoney()
	}
	return out
}
