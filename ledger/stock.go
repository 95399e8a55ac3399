/*
stock.go - Stock ledger operations

PURPOSE:
  Tracks, per product, total acquired quantity and remaining sellable
  quantity, and validates every deduction and addition. Oversell is
  rejected, never clamped.

OPERATIONS:
  Reserve:          deduct remaining for a committed cash/credit sale
  Restock:          grow both total and remaining (supplier delivery)
  SetTotalQuantity: initialize stock at product creation

TWO-TIER VALIDATION:
  These functions are the engine-side check. They are authoritative for
  the memory and sqlite stores, which call them (or the equivalent SQL
  conditional update) under their own locking. Against a remote store
  the same check is advisory only: the remote backend must enforce
  remaining >= quantity atomically at write time.

SEE ALSO:
  - store.go: where reservation becomes a side effect of CreateTransaction
  - billing/bill.go: the advisory pre-check during cart building
*/
package ledger

// =============================================================================
// STOCK LEDGER
// =============================================================================

// Reserve deducts qty from the product's remaining stock for a committed
// sale. Only cash and credit sales reserve; estimates never call this.
// Fails with InsufficientStockError when qty exceeds remaining, leaving
// the product unchanged.
func Reserve(p *Product, qty Quantity) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	if qty > p.RemainingQty {
		return &InsufficientStockError{
			ProductID:   p.ID,
			ProductName: p.Name,
			Available:   p.RemainingQty,
			Requested:   qty,
		}
	}
	p.RemainingQty -= qty
	return nil
}

// Restock grows both total and remaining quantity by add. Zero is a
// no-op, not an error; negative is rejected.
func Restock(p *Product, add Quantity) error {
	if add < 0 {
		return ErrInvalidQuantity
	}
	p.TotalQty += add
	p.RemainingQty += add
	return nil
}

// SetTotalQuantity initializes stock at product creation: both total and
// remaining start equal. Used only at creation; later growth goes
// through Restock.
func SetTotalQuantity(p *Product, total Quantity) error {
	if total < 0 {
		return ErrInvalidQuantity
	}
	p.TotalQty = total
	p.RemainingQty = total
	return nil
}

// CheckAvailability is the read-only advisory check: does the product
// have at least qty units remaining? Returns the structured shortage
// when it does not.
func CheckAvailability(p Product, qty Quantity) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	if qty > p.RemainingQty {
		return &InsufficientStockError{
			ProductID:   p.ID,
			ProductName: p.Name,
			Available:   p.RemainingQty,
			Requested:   qty,
		}
	}
	return nil
}
