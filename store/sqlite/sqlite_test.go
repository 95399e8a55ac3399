package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/inventory-engine/ledger"
	"github.com/storefront/inventory-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func createPaint(t *testing.T, s *sqlite.Store, stock int) ledger.Product {
	t.Helper()
	p, err := s.CreateProduct(context.Background(), ledger.Product{
		Name:      "Premium Emulsion Paint",
		Category:  "Paint",
		UnitPrice: ledger.MustMoney(4500),
		TotalQty:  ledger.Quantity(stock),
	})
	require.NoError(t, err)
	return p
}

func createBuyer(t *testing.T, s *sqlite.Store) ledger.Party {
	t.Helper()
	p, err := s.CreateParty(context.Background(), ledger.Party{
		Kind:  ledger.KindBuyer,
		Name:  "Rahul Sharma",
		Phone: "9811001100",
	})
	require.NoError(t, err)
	return p
}

func cashSale(t *testing.T, p ledger.Product, qty ledger.Quantity) ledger.TransactionSpec {
	t.Helper()
	total := ledger.DeriveTotal(p.UnitPrice, qty)
	spec, err := ledger.NewTransactionSpec(
		p.ID, p.Name, "", qty, total, total,
		ledger.ClassCash, ledger.DirectionSale)
	require.NoError(t, err)
	return spec
}

// =============================================================================
// CATALOG ROUND TRIPS
// =============================================================================

func TestSQLite_ProductRoundTrip(t *testing.T) {
	s := newTestStore(t)
	created := createPaint(t, s, 120)

	got, err := s.GetProduct(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Premium Emulsion Paint", got.Name)
	assert.True(t, got.UnitPrice.Equal(ledger.MustMoney(4500)))
	assert.Equal(t, ledger.Quantity(120), got.TotalQty)
	assert.Equal(t, ledger.Quantity(120), got.RemainingQty)
}

func TestSQLite_GetProduct_Missing(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetProduct(context.Background(), "missing")
	assert.ErrorIs(t, err, ledger.ErrProductNotFound)
}

func TestSQLite_Restock(t *testing.T) {
	s := newTestStore(t)
	p := createPaint(t, s, 10)

	got, err := s.RestockProduct(context.Background(), p.ID, 20)
	require.NoError(t, err)
	assert.Equal(t, ledger.Quantity(30), got.TotalQty)
	assert.Equal(t, ledger.Quantity(30), got.RemainingQty)

	_, err = s.RestockProduct(context.Background(), "missing", 1)
	assert.ErrorIs(t, err, ledger.ErrProductNotFound)
}

// =============================================================================
// THE ATOMIC STOCK GUARD
// =============================================================================

func TestSQLite_CashSale_GuardedDecrement(t *testing.T) {
	// GIVEN: 10 units in SQLite
	// WHEN: Selling 3, then trying to sell 8
	// THEN: The guarded SQL update rejects the second sale; nothing of
	//       it lands, and remaining is still 7

	s := newTestStore(t)
	p := createPaint(t, s, 10)
	ctx := context.Background()

	_, err := s.CreateTransaction(ctx, cashSale(t, p, 3))
	require.NoError(t, err)

	_, err = s.CreateTransaction(ctx, cashSale(t, p, 8))
	assert.ErrorIs(t, err, ledger.ErrInsufficientStock)

	got, err := s.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, ledger.Quantity(7), got.RemainingQty)

	sales, err := s.ListSales(ctx)
	require.NoError(t, err)
	assert.Len(t, sales, 1)
}

func TestSQLite_Purchase_IncrementsStock(t *testing.T) {
	s := newTestStore(t)
	p := createPaint(t, s, 10)
	ctx := context.Background()

	supplier, err := s.CreateParty(ctx, ledger.Party{
		Kind:        ledger.KindSupplier,
		Name:        "Apex Paint Distributors",
		CompanyName: "Apex Distributors",
	})
	require.NoError(t, err)

	spec, err := ledger.NewTransactionSpec(
		p.ID, p.Name, supplier.ID, 40,
		ledger.MustMoney(160000), ledger.ZeroMoney(),
		ledger.ClassCredit, ledger.DirectionPurchase)
	require.NoError(t, err)

	_, err = s.CreateTransaction(ctx, spec)
	require.NoError(t, err)

	got, err := s.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, ledger.Quantity(50), got.TotalQty)
	assert.Equal(t, ledger.Quantity(50), got.RemainingQty)

	// The payable shows on the supplier.
	withTxns, err := s.GetParty(ctx, supplier.ID)
	require.NoError(t, err)
	require.Len(t, withTxns.Transactions, 1)
	assert.True(t, ledger.OutstandingFor(withTxns).Equal(ledger.MustMoney(160000)))
}

func TestSQLite_CreateTransaction_UnknownParty(t *testing.T) {
	s := newTestStore(t)
	p := createPaint(t, s, 10)

	spec, err := ledger.NewTransactionSpec(
		p.ID, p.Name, "missing", 1,
		ledger.MustMoney(4500), ledger.ZeroMoney(),
		ledger.ClassCredit, ledger.DirectionSale)
	require.NoError(t, err)

	_, err = s.CreateTransaction(context.Background(), spec)
	assert.ErrorIs(t, err, ledger.ErrPartyNotFound)

	// The guard ran inside a rolled-back transaction; stock untouched.
	got, err := s.GetProduct(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, ledger.Quantity(10), got.RemainingQty)
}

// =============================================================================
// PAYMENTS AND REVISIONS
// =============================================================================

func TestSQLite_UpdateTransaction_CombinedUpdate(t *testing.T) {
	// GIVEN: A credit sale of 10000 with 4000 paid
	// WHEN: One update revises the total to 12000 and pays 7000
	// THEN: The revise lands first; the stored record shows 12000/11000

	s := newTestStore(t)
	p := createPaint(t, s, 10)
	buyer := createBuyer(t, s)
	ctx := context.Background()

	spec, err := ledger.NewTransactionSpec(
		p.ID, p.Name, buyer.ID, 2,
		ledger.MustMoney(10000), ledger.MustMoney(4000),
		ledger.ClassCredit, ledger.DirectionSale)
	require.NoError(t, err)

	txn, err := s.CreateTransaction(ctx, spec)
	require.NoError(t, err)

	newTotal := ledger.MustMoney(12000)
	payment := ledger.MustMoney(7000)
	updated, err := s.UpdateTransaction(ctx, txn.ID, ledger.UpdateRequest{
		NewTotal:   &newTotal,
		AddPayment: &payment,
	})
	require.NoError(t, err)
	assert.True(t, updated.TotalAmount.Equal(newTotal))
	assert.True(t, updated.PaidAmount.Equal(ledger.MustMoney(11000)))

	// Re-read to prove it persisted, not just the returned copy.
	withTxns, err := s.GetParty(ctx, buyer.ID)
	require.NoError(t, err)
	require.Len(t, withTxns.Transactions, 1)
	assert.True(t, withTxns.Transactions[0].Outstanding().Equal(ledger.MustMoney(1000)))
}

func TestSQLite_UpdateTransaction_Overpayment_NothingWritten(t *testing.T) {
	s := newTestStore(t)
	p := createPaint(t, s, 10)
	buyer := createBuyer(t, s)
	ctx := context.Background()

	spec, err := ledger.NewTransactionSpec(
		p.ID, p.Name, buyer.ID, 2,
		ledger.MustMoney(10000), ledger.MustMoney(4000),
		ledger.ClassCredit, ledger.DirectionSale)
	require.NoError(t, err)
	txn, err := s.CreateTransaction(ctx, spec)
	require.NoError(t, err)

	payment := ledger.MustMoney(6001)
	_, err = s.UpdateTransaction(ctx, txn.ID, ledger.UpdateRequest{AddPayment: &payment})
	assert.ErrorIs(t, err, ledger.ErrNegativeBalance)

	withTxns, err := s.GetParty(ctx, buyer.ID)
	require.NoError(t, err)
	assert.True(t, withTxns.Transactions[0].PaidAmount.Equal(ledger.MustMoney(4000)))
}

func TestSQLite_UpdateTransaction_Missing(t *testing.T) {
	s := newTestStore(t)
	payment := ledger.MustMoney(1)
	_, err := s.UpdateTransaction(context.Background(), "missing",
		ledger.UpdateRequest{AddPayment: &payment})
	assert.ErrorIs(t, err, ledger.ErrTransactionNotFound)
}

// =============================================================================
// DIRECTORY
// =============================================================================

func TestSQLite_PartyLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	buyer := createBuyer(t, s)

	buyer.Phone = "9899999999"
	buyer.Address = "14 Market Road"
	updated, err := s.UpdateParty(ctx, buyer)
	require.NoError(t, err)
	assert.Equal(t, "14 Market Road", updated.Address)

	buyers, err := s.GetParties(ctx, ledger.KindBuyer)
	require.NoError(t, err)
	require.Len(t, buyers, 1)

	suppliers, err := s.GetParties(ctx, ledger.KindSupplier)
	require.NoError(t, err)
	assert.Empty(t, suppliers)

	require.NoError(t, s.DeleteParty(ctx, buyer.ID))
	_, err = s.GetParty(ctx, buyer.ID)
	assert.ErrorIs(t, err, ledger.ErrPartyNotFound)
}

// =============================================================================
// SALES LISTING
// =============================================================================

func TestSQLite_ListSales_NewestFirst(t *testing.T) {
	s := newTestStore(t)
	p := createPaint(t, s, 10)
	ctx := context.Background()

	first, err := s.CreateTransaction(ctx, cashSale(t, p, 1))
	require.NoError(t, err)
	second, err := s.CreateTransaction(ctx, cashSale(t, p, 2))
	require.NoError(t, err)

	sales, err := s.ListSales(ctx)
	require.NoError(t, err)
	require.Len(t, sales, 2)
	assert.Equal(t, second.ID, sales[0].ID)
	assert.Equal(t, first.ID, sales[1].ID)
}
