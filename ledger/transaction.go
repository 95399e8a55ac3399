/*
transaction.go - Transaction construction and total derivation

PURPOSE:
  The one place where transactions are born. NewTransaction enforces the
  creation-time invariants (positive quantity, paid within total, party
  presence rules) before anything reaches a store.

TOTAL DERIVATION:
  Two explicit operations, caller picks exactly one per transaction:
    DeriveTotal:   unit_price x quantity, truncated to the cent
    OverrideTotal: an explicitly agreed figure (supplier purchases only)
  This avoids ambiguous precedence when both a line price and an
  explicit total are present.

SEE ALSO:
  - payment.go: the only mutations allowed after creation
  - billing/composer.go: where carts become transaction specs
*/
package ledger

import "time"

// =============================================================================
// TRANSACTION SPEC - validated input to transaction creation
// =============================================================================

// TransactionSpec is the validated input from which a store creates a
// Transaction. The ID and CreatedAt are minted by the store.
type TransactionSpec struct {
	ProductID   ProductID
	ProductName string
	PartyID     PartyID
	Quantity    Quantity
	TotalAmount Money
	PaidAmount  Money
	Class       BillClass
	Direction   Direction
}

// DeriveTotal computes the normal line total: unit_price x quantity,
// truncated to the cent.
func DeriveTotal(unitPrice Money, qty Quantity) Money {
	return unitPrice.MulQty(qty)
}

// NewTransactionSpec validates the creation-time invariants:
//   - quantity is positive
//   - 0 <= paid <= total
//   - CREDIT sales and supplier purchases name a party; cash sales do not
//   - estimates are never turned into specs at all
func NewTransactionSpec(productID ProductID, productName string, partyID PartyID,
	qty Quantity, total, paid Money, class BillClass, direction Direction) (TransactionSpec, error) {

	if !class.Persisted() {
		// Estimates are rendered, never recorded.
		return TransactionSpec{}, ErrInvalidClass
	}
	if qty <= 0 {
		return TransactionSpec{}, ErrInvalidQuantity
	}
	if paid.GreaterThan(total) {
		return TransactionSpec{}, ErrNegativeBalance
	}
	if class == ClassCredit && partyID == "" {
		return TransactionSpec{}, ErrMissingParty
	}
	if direction == DirectionPurchase && partyID == "" {
		return TransactionSpec{}, ErrMissingParty
	}

	return TransactionSpec{
		ProductID:   productID,
		ProductName: productName,
		PartyID:     partyID,
		Quantity:    qty,
		TotalAmount: total,
		PaidAmount:  paid,
		Class:       class,
		Direction:   direction,
	}, nil
}

// Materialize turns a spec into a Transaction with store-minted identity.
func (s TransactionSpec) Materialize(id TransactionID, at time.Time) Transaction {
	return Transaction{
		ID:          id,
		ProductID:   s.ProductID,
		ProductName: s.ProductName,
		PartyID:     s.PartyID,
		Quantity:    s.Quantity,
		TotalAmount: s.TotalAmount,
		PaidAmount:  s.PaidAmount,
		Class:       s.Class,
		Direction:   s.Direction,
		CreatedAt:   at,
	}
}
