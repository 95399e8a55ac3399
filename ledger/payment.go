/*
payment.go - Paid/outstanding mutations on an existing transaction

PURPOSE:
  The only two mutations a persisted transaction ever takes:
    ApplyPayment: a collection against the outstanding balance
    ReviseTotal:  a corrected total (cannot make the record overpaid)
  Everything else about a transaction is immutable once created.

OVERPAYMENT INVARIANT:
  0 <= paid_amount <= total_amount, always. A payment exceeding the
  outstanding amount fails with a structured OverpaymentError and leaves
  the record untouched.

COMBINED UPDATES:
  When a revise and a payment arrive in one update, the revise is
  applied first so the payment is bounded by the new outstanding.

SEE ALSO:
  - balance.go: outstanding rollups over many transactions
  - store.go: UpdateTransaction carries UpdateRequest to the collaborator
*/
package ledger

// =============================================================================
// PAYMENT LEDGER
// =============================================================================

// ApplyPayment records amount against the transaction's outstanding
// balance. Requires amount > 0; fails with OverpaymentError (unwrapping
// to ErrNegativeBalance) if amount exceeds the outstanding.
func ApplyPayment(txn *Transaction, amount Money) error {
	if amount.IsZero() {
		return ErrNegativeBalance
	}
	outstanding := txn.Outstanding()
	if amount.GreaterThan(outstanding) {
		return &OverpaymentError{
			TransactionID: txn.ID,
			Outstanding:   outstanding,
			Requested:     amount,
		}
	}
	txn.PaidAmount = txn.PaidAmount.Add(amount)
	return nil
}

// ReviseTotal sets a corrected total. The new total must cover what has
// already been paid; a revision that would retroactively overpay the
// record fails with ErrInvalidTotal.
func ReviseTotal(txn *Transaction, newTotal Money) error {
	if newTotal.LessThan(txn.PaidAmount) {
		return ErrInvalidTotal
	}
	txn.TotalAmount = newTotal
	return nil
}

// =============================================================================
// COMBINED UPDATE
// =============================================================================

// UpdateRequest carries the optional mutations of one update call.
// Nil fields are skipped.
type UpdateRequest struct {
	NewTotal   *Money
	AddPayment *Money
}

// ApplyUpdate applies a combined update: revise first, then pay, so the
// payment bound reflects the revised total. Either both land or, on the
// first failure, the transaction is left unchanged.
func ApplyUpdate(txn *Transaction, req UpdateRequest) error {
	staged := *txn
	if req.NewTotal != nil {
		if err := ReviseTotal(&staged, *req.NewTotal); err != nil {
			return err
		}
	}
	if req.AddPayment != nil {
		if err := ApplyPayment(&staged, *req.AddPayment); err != nil {
			return err
		}
	}
	*txn = staged
	return nil
}
