package billing_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/inventory-engine/billing"
	"github.com/storefront/inventory-engine/ledger"
)

// =============================================================================
// ESTIMATE RENDERING
// =============================================================================

func TestRenderEstimate_TouchesNothing(t *testing.T) {
	// GIVEN: An estimate cart over live products
	// WHEN: Rendering
	// THEN: Stock unchanged, no transactions, no tax; DRAFT -> RENDERED

	f := newFixture(t)
	bill := billing.NewSale(ledger.ClassEstimate)
	require.NoError(t, bill.AddItem(f.paint, 3))

	receipt, err := billing.RenderEstimate(bill, time.Now())
	require.NoError(t, err)

	assert.Equal(t, billing.StateRendered, bill.State())
	assert.Equal(t, "13500.00", receipt.GrandTotal.String())
	assert.True(t, receipt.Tax.IsZero())
	assert.Nil(t, receipt.Paid)

	// Zero store effects.
	assert.Equal(t, ledger.Quantity(10), f.remaining(t, f.paint.ID))
	sales, err := f.store.ListSales(context.Background())
	require.NoError(t, err)
	assert.Empty(t, sales)
}

func TestRenderEstimate_RenderedBill_CannotBeSubmitted(t *testing.T) {
	f := newFixture(t)
	bill := billing.NewSale(ledger.ClassEstimate)
	require.NoError(t, bill.AddItem(f.paint, 1))

	_, err := billing.RenderEstimate(bill, time.Now())
	require.NoError(t, err)

	_, err = f.composer.Submit(context.Background(), bill, ledger.ZeroMoney())
	assert.ErrorIs(t, err, billing.ErrBillNotDraft)

	_, err = billing.RenderEstimate(bill, time.Now())
	assert.ErrorIs(t, err, billing.ErrBillNotDraft)
}

func TestRenderEstimate_CashBill_Rejected(t *testing.T) {
	f := newFixture(t)
	bill := billing.NewSale(ledger.ClassCash)
	require.NoError(t, bill.AddItem(f.paint, 1))

	_, err := billing.RenderEstimate(bill, time.Now())
	assert.ErrorIs(t, err, billing.ErrEstimateOnly)
}

func TestRenderEstimate_Empty_Rejected(t *testing.T) {
	bill := billing.NewSale(ledger.ClassEstimate)
	_, err := billing.RenderEstimate(bill, time.Now())
	assert.ErrorIs(t, err, billing.ErrEmptyBill)
}

// =============================================================================
// RECEIPT SHAPE
// =============================================================================

func TestReceipt_CustomerFallback(t *testing.T) {
	f := newFixture(t)
	bill := billing.NewSale(ledger.ClassEstimate)
	require.NoError(t, bill.AddItem(f.paint, 1))

	receipt, err := billing.RenderEstimate(bill, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "Cash Customer", receipt.Customer)
}

func TestReceipt_InvoiceNumberFormat(t *testing.T) {
	f := newFixture(t)
	bill := billing.NewSale(ledger.ClassEstimate)
	bill.CustomerName = "Meena Traders"
	require.NoError(t, bill.AddItem(f.paint, 2))
	require.NoError(t, bill.AddItem(f.hammer, 1))

	issued := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	receipt, err := billing.RenderEstimate(bill, issued)
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^INV-\d{6}$`), receipt.InvoiceNo)
	assert.Equal(t, "Meena Traders", receipt.Customer)
	assert.Equal(t, issued, receipt.IssuedAt)

	require.Len(t, receipt.Lines, 2)
	assert.Equal(t, "Premium Emulsion Paint", receipt.Lines[0].Name)
	assert.Equal(t, "9000.00", receipt.Lines[0].LineTotal.String())
}
