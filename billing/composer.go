/*
composer.go - Bill submission against the persistence collaborator

PURPOSE:
  Turns a DRAFT cash or credit bill into persisted transactions, one
  store round trip per line, strictly sequential: line i's reservation
  must be observable before line i+1's stock check runs.

PARTIAL SUCCESS (by design):
  If line n fails (typically stock changed between cart build and
  submit), lines 1..n-1 remain committed. The result lists which lines
  succeeded and which line stopped the run. Nothing is rolled back; the
  caller decides whether to re-submit the remainder.

VALIDATION ORDER:
  All local validation (party presence, paid bound, line specs) happens
  before any store call and aborts with no side effects. Only then does
  the per-line loop begin.

CREDIT PAYMENT ALLOCATION:
  The operator enters one partial payment for the whole bill. It is
  allocated greedily across lines in cart order: each line absorbs up to
  its own total, the remainder flows to the next line. The per-
  transaction invariant paid <= total holds for every line.

SEE ALSO:
  - bill.go: cart building and the advisory stock check
  - receipt.go: the rendering output attached to the result
*/
package billing

import (
	"context"
	"time"

	"github.com/storefront/inventory-engine/ledger"
)

// =============================================================================
// COMPOSER
// =============================================================================

// Composer submits bills against a persistence collaborator.
type Composer struct {
	store ledger.Store
}

func NewComposer(store ledger.Store) *Composer {
	return &Composer{store: store}
}

// LineFailure identifies the cart line that stopped a submission.
type LineFailure struct {
	Index       int
	ProductID   ledger.ProductID
	ProductName string
	Err         error
}

// SubmitResult reports a submission: every committed transaction in cart
// order, the failure that stopped the run (nil when all lines landed),
// the bill totals and the printable receipt.
type SubmitResult struct {
	Committed []ledger.Transaction
	Failed    *LineFailure
	Totals    Totals
	Receipt   Receipt
	State     State
}

// Submit persists a cash or credit bill line by line. Local validation
// errors return before any store call; store-detected failures after the
// first committed line surface as a partial-success result.
func (c *Composer) Submit(ctx context.Context, bill *Bill, paid ledger.Money) (SubmitResult, error) {
	if bill.state != StateDraft {
		return SubmitResult{}, ErrBillNotDraft
	}
	if !bill.Class.Persisted() {
		return SubmitResult{}, ErrEstimateOnly
	}
	if len(bill.lines) == 0 {
		return SubmitResult{}, ErrEmptyBill
	}

	totals := ComputeTotals(bill.Class, bill.lines)

	// Party presence: credit sales and supplier purchases name a party,
	// cash sales never do.
	switch {
	case bill.Class == ledger.ClassCredit && bill.PartyID == "":
		return SubmitResult{}, ledger.ErrMissingParty
	case bill.Class == ledger.ClassCash && bill.Direction == ledger.DirectionSale:
		bill.PartyID = ""
	}

	payments, err := c.allocatePayments(bill, totals, paid)
	if err != nil {
		return SubmitResult{}, err
	}

	// Build and validate every spec before the first store call.
	specs := make([]ledger.TransactionSpec, len(bill.lines))
	for i, line := range bill.lines {
		spec, err := ledger.NewTransactionSpec(
			line.Product.ID, line.Product.Name, bill.PartyID,
			line.Quantity, line.Total(), payments[i],
			bill.Class, bill.Direction,
		)
		if err != nil {
			return SubmitResult{}, err
		}
		specs[i] = spec
	}

	// Per-line commit, strictly sequential. Partial success is kept.
	result := SubmitResult{Totals: totals, State: StateDraft}
	for i, spec := range specs {
		txn, err := c.store.CreateTransaction(ctx, spec)
		if err != nil {
			result.Failed = &LineFailure{
				Index:       i,
				ProductID:   spec.ProductID,
				ProductName: spec.ProductName,
				Err:         err,
			}
			break
		}
		result.Committed = append(result.Committed, txn)
		bill.state = StateCommitted
	}

	result.State = bill.state
	result.Receipt = newReceipt(bill, totals, paid, time.Now())
	return result, nil
}

// allocatePayments splits the operator-entered payment across lines in
// cart order. Cash bills are fully paid per line by definition; the
// operator figure is ignored in favor of each line's own total. Credit
// payments must not exceed the bill total.
func (c *Composer) allocatePayments(bill *Bill, totals Totals, paid ledger.Money) ([]ledger.Money, error) {
	payments := make([]ledger.Money, len(bill.lines))

	if bill.Class == ledger.ClassCash {
		for i, line := range bill.lines {
			payments[i] = line.Total()
		}
		return payments, nil
	}

	if paid.GreaterThan(totals.GrandTotal) {
		return nil, &ledger.OverpaymentError{Outstanding: totals.GrandTotal, Requested: paid}
	}

	remaining := paid
	for i, line := range bill.lines {
		lineTotal := line.Total()
		if remaining.GreaterThan(lineTotal) || remaining.Equal(lineTotal) {
			payments[i] = lineTotal
			remaining, _ = remaining.Sub(lineTotal)
			continue
		}
		payments[i] = remaining
		remaining = ledger.ZeroMoney()
	}
	return payments, nil
}
