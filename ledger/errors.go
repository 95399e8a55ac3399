/*
errors.go - Centralized error taxonomy for the ledger engine

PURPOSE:
  All engine error types in one place. Every rejected operation returns
  a typed failure distinguishable from a successful result; nothing is
  silently swallowed or clamped.

ERROR CATEGORIES:
  1. Validation errors  - checked locally before any store call
                          (ErrInvalidQuantity, ErrMissingParty,
                          ErrNegativeBalance, ErrInvalidTotal)
  2. Stock errors       - ErrInsufficientStock, advisory pre-check or
                          authoritative store guard
  3. Persistence errors - ErrPersistence wraps collaborator faults
                          verbatim, no automatic retry

USAGE:
  if errors.Is(err, ledger.ErrInsufficientStock) {
      var stockErr *ledger.InsufficientStockError
      if errors.As(err, &stockErr) {
          // stockErr.Available, stockErr.Requested
      }
  }

SEE ALSO:
  - stock.go: raises ErrInsufficientStock
  - payment.go: raises ErrNegativeBalance, ErrInvalidTotal
*/
package ledger

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidQuantity is returned for negative or fractional unit counts.
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrInsufficientStock is returned when a reservation or cart addition
	// would exceed a product's remaining quantity.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrMissingParty is returned when a credit sale or supplier purchase
	// has no counterparty reference.
	ErrMissingParty = errors.New("missing party reference")

	// ErrNegativeBalance is returned when a money subtraction would go
	// below zero, including payments that exceed the outstanding amount.
	ErrNegativeBalance = errors.New("negative balance")

	// ErrInvalidTotal is returned when a total revision would leave the
	// record overpaid, or a total fails to parse.
	ErrInvalidTotal = errors.New("invalid total amount")

	// ErrInvalidClass is returned for an unrecognized bill classification tag.
	ErrInvalidClass = errors.New("invalid bill classification")

	// ErrPersistence is returned when the persistence collaborator is
	// unreachable or rejects a write for a non-domain reason.
	ErrPersistence = errors.New("persistence failure")

	// ErrProductNotFound is returned when a referenced product does not exist.
	ErrProductNotFound = errors.New("product not found")

	// ErrPartyNotFound is returned when a referenced buyer or supplier
	// does not exist.
	ErrPartyNotFound = errors.New("party not found")

	// ErrTransactionNotFound is returned when a referenced transaction
	// does not exist.
	ErrTransactionNotFound = errors.New("transaction not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InsufficientStockError reports how short a product is.
type InsufficientStockError struct {
	ProductID   ProductID
	ProductName string
	Available   Quantity
	Requested   Quantity
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: available %d, requested %d",
		e.ProductName, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// OverpaymentError reports a payment exceeding the outstanding amount.
type OverpaymentError struct {
	TransactionID TransactionID
	Outstanding   Money
	Requested     Money
}

func (e *OverpaymentError) Error() string {
	return fmt.Sprintf("payment %s exceeds outstanding %s on transaction %s",
		e.Requested, e.Outstanding, e.TransactionID)
}

func (e *OverpaymentError) Unwrap() error { return ErrNegativeBalance }

// PersistenceError wraps a collaborator fault with the operation that hit it.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure in %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return ErrPersistence }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError reports whether the error is due to invalid operator input
// rather than a collaborator fault.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidQuantity) ||
		errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrMissingParty) ||
		errors.Is(err, ErrNegativeBalance) ||
		errors.Is(err, ErrInvalidTotal)
}

// IsNotFound reports whether the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrPartyNotFound) ||
		errors.Is(err, ErrTransactionNotFound)
}
