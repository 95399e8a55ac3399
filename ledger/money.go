/*
money.go - Exact money and quantity primitives

PURPOSE:
  All amounts in the engine are non-negative, exact decimals. All unit
  counts are non-negative integers. These two primitives carry every
  rupee and every countable unit in the system, so their invariants are
  enforced here, once, instead of at every call site.

KEY RULES:
  1. Money is never negative. Subtraction that would go below zero fails
     with ErrNegativeBalance instead of clamping.
  2. Quantity is never negative and never fractional. Fractional input
     at a boundary fails with ErrInvalidQuantity.
  3. unit_price x quantity truncates to the cent. Paid amounts are never
     rounded independently of the total they were paid against.

PRECISION:
  Uses decimal.Decimal throughout. Float arithmetic never touches a
  stored amount; float constructors exist only for literals in tests
  and seeds.

SEE ALSO:
  - errors.go: ErrNegativeBalance, ErrInvalidQuantity
  - payment.go: the only mutators of paid amounts
*/
package ledger

import (
	"math"

	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY - Non-negative exact amount
// =============================================================================

// Money is a non-negative monetary amount with cent precision on display.
// The zero value is zero rupees and is valid.
type Money struct {
	Value decimal.Decimal
}

// NewMoney creates Money from a float literal. Negative input is rejected,
// not clamped. Use only with non-negative literals (seeds, tests).
func NewMoney(value float64) (Money, error) {
	if value < 0 {
		return Money{}, ErrNegativeBalance
	}
	return Money{Value: decimal.NewFromFloat(value)}, nil
}

// NewMoneyFromInt creates Money from whole currency units.
func NewMoneyFromInt(value int64) (Money, error) {
	if value < 0 {
		return Money{}, ErrNegativeBalance
	}
	return Money{Value: decimal.NewFromInt(value)}, nil
}

// MustMoney is NewMoney for literals known to be non-negative.
// Panics on negative input; reserved for seeds and tests.
func MustMoney(value float64) Money {
	m, err := NewMoney(value)
	if err != nil {
		panic("ledger: negative money literal")
	}
	return m
}

// ParseMoney parses a decimal string ("4500", "1850.50") into Money.
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidTotal
	}
	if d.IsNegative() {
		return Money{}, ErrNegativeBalance
	}
	return Money{Value: d}, nil
}

// ZeroMoney returns the zero amount.
func ZeroMoney() Money { return Money{Value: decimal.Zero} }

// Add returns m + other. Both operands are non-negative, so the sum is too.
func (m Money) Add(other Money) Money {
	return Money{Value: m.Value.Add(other.Value)}
}

// Sub returns m - other, failing with ErrNegativeBalance if the result
// would be negative. Money never clamps.
func (m Money) Sub(other Money) (Money, error) {
	d := m.Value.Sub(other.Value)
	if d.IsNegative() {
		return Money{}, ErrNegativeBalance
	}
	return Money{Value: d}, nil
}

// MulQty returns m x qty, truncated to the cent. This is the only
// multiplication the engine performs on money (deriving line totals).
func (m Money) MulQty(qty Quantity) Money {
	return Money{Value: m.Value.Mul(decimal.NewFromInt(int64(qty))).Truncate(2)}
}

// TruncateCents truncates to two decimal places. Applied to derived
// totals (tax), never to paid amounts.
func (m Money) TruncateCents() Money {
	return Money{Value: m.Value.Truncate(2)}
}

func (m Money) IsZero() bool                 { return m.Value.IsZero() }
func (m Money) Equal(other Money) bool       { return m.Value.Equal(other.Value) }
func (m Money) GreaterThan(other Money) bool { return m.Value.GreaterThan(other.Value) }
func (m Money) LessThan(other Money) bool    { return m.Value.LessThan(other.Value) }

// String renders with cent precision for receipts and logs.
func (m Money) String() string { return m.Value.StringFixed(2) }

// =============================================================================
// QUANTITY - Non-negative integer unit count
// =============================================================================

// Quantity is a count of sellable units. Always a non-negative integer.
type Quantity int

// NewQuantity validates an integer unit count.
func NewQuantity(n int) (Quantity, error) {
	if n < 0 {
		return 0, ErrInvalidQuantity
	}
	return Quantity(n), nil
}

// QuantityFromFloat validates boundary input that arrives as a number:
// negative or fractional values are rejected, never truncated.
func QuantityFromFloat(f float64) (Quantity, error) {
	if f < 0 || f != math.Trunc(f) {
		return 0, ErrInvalidQuantity
	}
	return Quantity(int(f)), nil
}

func (q Quantity) IsZero() bool { return q == 0 }
