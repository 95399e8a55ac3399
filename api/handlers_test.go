/*
handlers_test.go - HTTP surface tests over the in-memory store

Covers:
- Session middleware (401 without a bearer credential)
- Catalog and bill submission round trips through the router
- Error code mapping (409 on oversell)
- Wire-contract compatibility with the remote store client
*/
package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/inventory-engine/api"
	"github.com/storefront/inventory-engine/ledger"
	"github.com/storefront/inventory-engine/ledger/store"
	"github.com/storefront/inventory-engine/session"
	"github.com/storefront/inventory-engine/store/remote"
)

// =============================================================================
// TEST SETUP
// =============================================================================

type apiFixture struct {
	store  *store.Memory
	server *httptest.Server
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	m := store.NewMemory()
	srv := httptest.NewServer(api.NewRouter(api.NewHandler(m)))
	t.Cleanup(srv.Close)
	return &apiFixture{store: m, server: srv}
}

func (f *apiFixture) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, f.server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer test-token")
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func (f *apiFixture) seedPaint(t *testing.T, stock int) ledger.Product {
	t.Helper()
	p, err := f.store.CreateProduct(context.Background(), ledger.Product{
		Name:      "Premium Emulsion Paint",
		Category:  "Paint",
		UnitPrice: ledger.MustMoney(4500),
		TotalQty:  ledger.Quantity(stock),
	})
	require.NoError(t, err)
	return p
}

// =============================================================================
// SESSION MIDDLEWARE
// =============================================================================

func TestAPI_NoBearer_Unauthorized(t *testing.T) {
	f := newAPIFixture(t)

	resp, err := http.Get(f.server.URL + "/api/products")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body := decodeBody[api.ErrorResponse](t, resp)
	assert.Equal(t, "UNAUTHORIZED", body.Code)
}

// =============================================================================
// CATALOG
// =============================================================================

func TestAPI_CreateAndListProducts(t *testing.T) {
	f := newAPIFixture(t)

	resp := f.do(t, http.MethodPost, "/api/products", api.CreateProductRequest{
		Name:          "Steel Claw Hammer",
		Category:      "Tools",
		UnitPrice:     "1850",
		TotalQuantity: 45,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	created := decodeBody[api.ProductDTO](t, resp)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "1850.00", created.UnitPrice)
	assert.Equal(t, 45, created.RemainingQuantity)
	assert.Equal(t, "Low Stock", created.StockStatus)

	list := f.do(t, http.MethodGet, "/api/products", nil)
	require.Equal(t, http.StatusOK, list.StatusCode)
	products := decodeBody[[]api.ProductDTO](t, list)
	assert.Len(t, products, 1)
}

func TestAPI_CreateProduct_FractionalQuantity_BadRequest(t *testing.T) {
	f := newAPIFixture(t)

	resp := f.do(t, http.MethodPost, "/api/products", api.CreateProductRequest{
		Name:          "Broken",
		UnitPrice:     "100",
		TotalQuantity: 2.5,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decodeBody[api.ErrorResponse](t, resp)
	assert.Equal(t, "INVALID_QUANTITY", body.Code)
}

func TestAPI_Restock(t *testing.T) {
	f := newAPIFixture(t)
	p := f.seedPaint(t, 10)

	resp := f.do(t, http.MethodPost, "/api/products/"+string(p.ID)+"/restock",
		api.RestockRequest{AddQuantity: 20})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decodeBody[api.ProductDTO](t, resp)
	assert.Equal(t, 30, got.RemainingQuantity)
	assert.Equal(t, 30, got.TotalQuantity)
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

func TestAPI_Oversell_Conflict(t *testing.T) {
	// GIVEN: 5 units in stock
	// WHEN: Posting a sale of 8
	// THEN: 409 with the INSUFFICIENT_STOCK code and stock untouched

	f := newAPIFixture(t)
	p := f.seedPaint(t, 5)

	resp := f.do(t, http.MethodPost, "/api/transactions", api.CreateTransactionRequest{
		ProductID:      string(p.ID),
		Quantity:       8,
		TotalAmount:    "36000",
		PaidAmount:     "36000",
		Classification: "CASH",
		Direction:      "SALE",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	body := decodeBody[api.ErrorResponse](t, resp)
	assert.Equal(t, "INSUFFICIENT_STOCK", body.Code)

	got, err := f.store.GetProduct(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, ledger.Quantity(5), got.RemainingQty)
}

func TestAPI_UpdateTransaction_Payment(t *testing.T) {
	f := newAPIFixture(t)
	p := f.seedPaint(t, 10)
	ctx := context.Background()

	buyer, err := f.store.CreateParty(ctx, ledger.Party{Kind: ledger.KindBuyer, Name: "Rahul Sharma"})
	require.NoError(t, err)

	spec, err := ledger.NewTransactionSpec(
		p.ID, p.Name, buyer.ID, 2,
		ledger.MustMoney(9000), ledger.ZeroMoney(),
		ledger.ClassCredit, ledger.DirectionSale)
	require.NoError(t, err)
	txn, err := f.store.CreateTransaction(ctx, spec)
	require.NoError(t, err)

	payment := "4000"
	resp := f.do(t, http.MethodPatch, "/api/transactions/"+string(txn.ID),
		api.UpdateTransactionRequest{AddPayment: &payment})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	got := decodeBody[api.TransactionDTO](t, resp)
	assert.Equal(t, "4000.00", got.PaidAmount)
	assert.Equal(t, "5000.00", got.PendingAmount)
}

// =============================================================================
// BILLS
// =============================================================================

func TestAPI_SubmitCashBill(t *testing.T) {
	// GIVEN: 10 paints at 4500
	// WHEN: Submitting a cash bill of 3
	// THEN: 201, the receipt carries 13500 + 2430 tax, stock drops to 7

	f := newAPIFixture(t)
	p := f.seedPaint(t, 10)

	resp := f.do(t, http.MethodPost, "/api/bills", api.SubmitBillRequest{
		Classification: "original",
		Items: []api.BillItemRequest{
			{ProductID: string(p.ID), Quantity: 3},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decodeBody[api.SubmitBillResponse](t, resp)
	assert.Equal(t, "COMMITTED", body.State)
	require.Len(t, body.Committed, 1)
	assert.Nil(t, body.Failed)
	assert.Equal(t, "13500.00", body.Receipt.Subtotal)
	assert.Equal(t, "2430.00", body.Receipt.Tax)
	assert.Equal(t, "15930.00", body.Receipt.GrandTotal)
	assert.Equal(t, "Cash Customer", body.Receipt.Customer)

	got, err := f.store.GetProduct(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, ledger.Quantity(7), got.RemainingQty)
}

func TestAPI_SubmitCreditBill_WithoutParty_BadRequest(t *testing.T) {
	f := newAPIFixture(t)
	p := f.seedPaint(t, 10)

	resp := f.do(t, http.MethodPost, "/api/bills", api.SubmitBillRequest{
		Classification: "udhaar",
		Items: []api.BillItemRequest{
			{ProductID: string(p.ID), Quantity: 1},
		},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decodeBody[api.ErrorResponse](t, resp)
	assert.Equal(t, "MISSING_PARTY", body.Code)
}

func TestAPI_RenderEstimate_NoWrites(t *testing.T) {
	f := newAPIFixture(t)
	p := f.seedPaint(t, 10)

	resp := f.do(t, http.MethodPost, "/api/bills/estimate", api.SubmitBillRequest{
		Classification: "dummy",
		CustomerName:   "Meena Traders",
		Items: []api.BillItemRequest{
			{ProductID: string(p.ID), Quantity: 4},
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	receipt := decodeBody[api.ReceiptDTO](t, resp)
	assert.Equal(t, "18000.00", receipt.GrandTotal)
	assert.Equal(t, "0.00", receipt.Tax)
	assert.Equal(t, "Meena Traders", receipt.Customer)
	assert.Regexp(t, `^INV-\d{6}$`, receipt.InvoiceNo)

	// Stock untouched, nothing persisted.
	got, err := f.store.GetProduct(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, ledger.Quantity(10), got.RemainingQty)

	sales, err := f.store.ListSales(context.Background())
	require.NoError(t, err)
	assert.Empty(t, sales)
}

// =============================================================================
// REPORTS
// =============================================================================

func TestAPI_SalesReport(t *testing.T) {
	f := newAPIFixture(t)
	p := f.seedPaint(t, 10)
	ctx := context.Background()

	total := ledger.DeriveTotal(p.UnitPrice, 2)
	spec, err := ledger.NewTransactionSpec(
		p.ID, p.Name, "", 2, total, total,
		ledger.ClassCash, ledger.DirectionSale)
	require.NoError(t, err)
	_, err = f.store.CreateTransaction(ctx, spec)
	require.NoError(t, err)

	resp := f.do(t, http.MethodGet, "/api/reports/sales?period=1w", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	report := decodeBody[api.SalesReportDTO](t, resp)
	assert.Equal(t, 1, report.Count)
	assert.Equal(t, "9000.00", report.TotalRevenue)
	require.Len(t, report.Sales, 1)
	assert.Equal(t, "Cash Sale", report.Sales[0].BuyerName)
}

// =============================================================================
// WIRE-CONTRACT COMPATIBILITY
// =============================================================================

func TestAPI_RemoteClient_SpeaksServedContract(t *testing.T) {
	// GIVEN: The router over a memory store
	// WHEN: Driving it through the remote store client
	// THEN: Full round trips work; the client is a drop-in ledger.Store

	f := newAPIFixture(t)
	client := remote.New(f.server.URL)
	ctx := session.NewContext(context.Background(), session.Session{Token: "test-token"})

	created, err := client.CreateProduct(ctx, ledger.Product{
		Name:      "Copper Wire Bundle",
		Category:  "Electrical",
		UnitPrice: ledger.MustMoney(4000),
		TotalQty:  200,
	})
	require.NoError(t, err)

	buyer, err := client.CreateParty(ctx, ledger.Party{
		Kind: ledger.KindBuyer,
		Name: "Rahul Sharma",
	})
	require.NoError(t, err)

	spec, err := ledger.NewTransactionSpec(
		created.ID, created.Name, buyer.ID, 5,
		ledger.MustMoney(20000), ledger.MustMoney(5000),
		ledger.ClassCredit, ledger.DirectionSale)
	require.NoError(t, err)

	txn, err := client.CreateTransaction(ctx, spec)
	require.NoError(t, err)
	assert.True(t, txn.Outstanding().Equal(ledger.MustMoney(15000)))

	// The reservation happened server-side.
	got, err := client.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, ledger.Quantity(195), got.RemainingQty)

	// And an oversell maps back to the taxonomy through the wire codes.
	bad, err := ledger.NewTransactionSpec(
		created.ID, created.Name, "", 1000,
		ledger.MustMoney(4000000), ledger.MustMoney(4000000),
		ledger.ClassCash, ledger.DirectionSale)
	require.NoError(t, err)
	_, err = client.CreateTransaction(ctx, bad)
	assert.ErrorIs(t, err, ledger.ErrInsufficientStock)

	withTxns, err := client.GetParty(ctx, buyer.ID)
	require.NoError(t, err)
	require.Len(t, withTxns.Transactions, 1)
	assert.True(t, ledger.OutstandingFor(withTxns).Equal(ledger.MustMoney(15000)))
}
