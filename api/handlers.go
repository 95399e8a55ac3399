/*
handlers.go - HTTP API handlers for the storefront engine

PURPOSE:
  Exposes the ledger engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Catalog:
    GET    /api/products               List catalog with stock status
    POST   /api/products               Create product
    GET    /api/products/{id}          Get product
    POST   /api/products/{id}/restock  Grow stock

  Directory:
    GET    /api/buyers                 List buyers with balances
    POST   /api/buyers                 Create buyer
    GET    /api/suppliers              List suppliers with balances
    POST   /api/suppliers              Create supplier
    PUT    /api/buyers/{id}            Update contact fields
    PUT    /api/suppliers/{id}         Update contact fields
    GET    /api/parties/{id}           Get party with transactions
    DELETE /api/parties/{id}           Remove party

  Ledger:
    POST   /api/transactions           Record one sale or purchase
    PATCH  /api/transactions/{id}      Payment and/or total revision
    GET    /api/sales                  Sales, newest first

  Billing:
    POST   /api/bills                  Submit a cash/credit bill
    POST   /api/bills/estimate         Render an estimate (no writes)

  Reports:
    GET    /api/reports/sales          Period-filtered sales report
    GET    /api/reports/outstanding    Directory balances and statuses

ERROR HANDLING:
  Domain rejections map onto {error, code} JSON bodies with stable
  machine-readable codes. Remote-store clients rebuild the engine error
  taxonomy from the codes:
  - 400: INVALID_QUANTITY, MISSING_PARTY, NEGATIVE_BALANCE,
         INVALID_TOTAL, INVALID_CLASS, BAD_REQUEST
  - 401: UNAUTHORIZED
  - 404: PRODUCT_NOT_FOUND, PARTY_NOT_FOUND, TRANSACTION_NOT_FOUND
  - 409: INSUFFICIENT_STOCK, BILL_NOT_DRAFT
  - 502: PERSISTENCE
  - 500: INTERNAL

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - seed.go: Demo catalog loader
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/storefront/inventory-engine/billing"
	"github.com/storefront/inventory-engine/directory"
	"github.com/storefront/inventory-engine/ledger"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store    ledger.Store
	Composer *billing.Composer

	// now is swappable for deterministic report windows in tests.
	now func() time.Time
}

// NewHandler creates a new handler over the given store.
func NewHandler(store ledger.Store) *Handler {
	return &Handler{
		Store:    store,
		Composer: billing.NewComposer(store),
		now:      time.Now,
	}
}

// =============================================================================
// CATALOG HANDLERS
// =============================================================================

// ListProducts returns the full catalog with stock statuses.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.Store.GetProducts(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	dtos := make([]ProductDTO, len(products))
	for i, p := range products {
		dtos[i] = toProductDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetProduct returns a single product.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := ledger.ProductID(chi.URLParam(r, "id"))

	p, err := h.Store.GetProduct(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductDTO(p))
}

// CreateProduct creates a catalog entry. The initial total quantity also
// becomes the remaining quantity.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}
	if err := validateStruct(req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	price, err := ledger.ParseMoney(req.UnitPrice)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	qty, err := ledger.QuantityFromFloat(req.TotalQuantity)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	p, err := h.Store.CreateProduct(r.Context(), ledger.Product{
		Name:      req.Name,
		Category:  req.Category,
		UnitPrice: price,
		TotalQty:  qty,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProductDTO(p))
}

// RestockProduct grows a product's stock.
func (h *Handler) RestockProduct(w http.ResponseWriter, r *http.Request) {
	id := ledger.ProductID(chi.URLParam(r, "id"))

	var req RestockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}

	add, err := ledger.QuantityFromFloat(req.AddQuantity)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	p, err := h.Store.RestockProduct(r.Context(), id, add)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductDTO(p))
}

// =============================================================================
// DIRECTORY HANDLERS
// =============================================================================

// ListBuyers returns all buyers with embedded transactions and balances.
func (h *Handler) ListBuyers(w http.ResponseWriter, r *http.Request) {
	h.listParties(w, r, ledger.KindBuyer)
}

// ListSuppliers returns all suppliers with embedded transactions and balances.
func (h *Handler) ListSuppliers(w http.ResponseWriter, r *http.Request) {
	h.listParties(w, r, ledger.KindSupplier)
}

func (h *Handler) listParties(w http.ResponseWriter, r *http.Request, kind ledger.PartyKind) {
	parties, err := h.Store.GetParties(r.Context(), kind)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	dtos := make([]PartyDTO, len(parties))
	for i, p := range parties {
		dtos[i] = toPartyDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateBuyer creates a buyer record.
func (h *Handler) CreateBuyer(w http.ResponseWriter, r *http.Request) {
	h.createParty(w, r, ledger.KindBuyer)
}

// CreateSupplier creates a supplier record.
func (h *Handler) CreateSupplier(w http.ResponseWriter, r *http.Request) {
	h.createParty(w, r, ledger.KindSupplier)
}

func (h *Handler) createParty(w http.ResponseWriter, r *http.Request, kind ledger.PartyKind) {
	var req PartyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}
	if err := validateStruct(req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	p, err := h.Store.CreateParty(r.Context(), ledger.Party{
		Kind:        kind,
		Name:        req.Name,
		Phone:       req.Phone,
		Address:     req.Address,
		CompanyName: req.CompanyName,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPartyDTO(p))
}

// GetParty returns one party with its transaction history.
func (h *Handler) GetParty(w http.ResponseWriter, r *http.Request) {
	id := ledger.PartyID(chi.URLParam(r, "id"))

	p, err := h.Store.GetParty(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPartyDTO(p))
}

// UpdateParty overwrites a party's contact fields. The party keeps its
// kind; only name, phone, address and company change.
func (h *Handler) UpdateParty(w http.ResponseWriter, r *http.Request) {
	id := ledger.PartyID(chi.URLParam(r, "id"))

	var req PartyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}
	if err := validateStruct(req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	existing, err := h.Store.GetParty(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	existing.Name = req.Name
	existing.Phone = req.Phone
	existing.Address = req.Address
	existing.CompanyName = req.CompanyName

	p, err := h.Store.UpdateParty(r.Context(), existing)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPartyDTO(p))
}

// DeleteParty removes a party from the directory.
func (h *Handler) DeleteParty(w http.ResponseWriter, r *http.Request) {
	id := ledger.PartyID(chi.URLParam(r, "id"))

	if err := h.Store.DeleteParty(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// LEDGER HANDLERS
// =============================================================================

// CreateTransaction records one sale or purchase. The store applies the
// stock movement atomically; oversells come back as 409.
func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}
	if err := validateStruct(req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	spec, err := h.buildSpec(r, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	txn, err := h.Store.CreateTransaction(r.Context(), spec)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTransactionDTO(txn))
}

func (h *Handler) buildSpec(r *http.Request, req CreateTransactionRequest) (ledger.TransactionSpec, error) {
	qty, err := ledger.QuantityFromFloat(req.Quantity)
	if err != nil {
		return ledger.TransactionSpec{}, err
	}
	total, err := ledger.ParseMoney(req.TotalAmount)
	if err != nil {
		return ledger.TransactionSpec{}, err
	}
	paid := ledger.ZeroMoney()
	if req.PaidAmount != "" {
		if paid, err = ledger.ParseMoney(req.PaidAmount); err != nil {
			return ledger.TransactionSpec{}, err
		}
	}
	class, err := ledger.ParseBillClass(req.Classification)
	if err != nil {
		return ledger.TransactionSpec{}, err
	}

	// The product name is snapshotted into the record at write time.
	product, err := h.Store.GetProduct(r.Context(), ledger.ProductID(req.ProductID))
	if err != nil {
		return ledger.TransactionSpec{}, err
	}

	return ledger.NewTransactionSpec(
		product.ID, product.Name, ledger.PartyID(req.PartyID),
		qty, total, paid, class, ledger.Direction(req.Direction),
	)
}

// UpdateTransaction applies a combined total revision and/or additional
// payment, revise-before-payment, all-or-nothing.
func (h *Handler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id := ledger.TransactionID(chi.URLParam(r, "id"))

	var req UpdateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}

	var update ledger.UpdateRequest
	if req.NewTotalAmount != nil {
		total, err := ledger.ParseMoney(*req.NewTotalAmount)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		update.NewTotal = &total
	}
	if req.AddPayment != nil {
		add, err := ledger.ParseMoney(*req.AddPayment)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		update.AddPayment = &add
	}

	txn, err := h.Store.UpdateTransaction(r.Context(), id, update)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionDTO(txn))
}

// ListSales returns all sale transactions, newest first.
func (h *Handler) ListSales(w http.ResponseWriter, r *http.Request) {
	sales, err := h.Store.ListSales(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	dtos := make([]TransactionDTO, len(sales))
	for i, s := range sales {
		dtos[i] = toTransactionDTO(s)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// BILLING HANDLERS
// =============================================================================

// SubmitBill builds a bill from the request cart and submits it line by
// line. Partial success is reported, not rolled back: the response lists
// the committed transactions and the line that stopped the run.
func (h *Handler) SubmitBill(w http.ResponseWriter, r *http.Request) {
	var req SubmitBillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}
	if err := validateStruct(req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	bill, paid, err := h.buildBill(r, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	result, err := h.Composer.Submit(r.Context(), bill, paid)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := SubmitBillResponse{
		State:     string(result.State),
		Committed: make([]TransactionDTO, len(result.Committed)),
		Receipt:   toReceiptDTO(result.Receipt),
	}
	for i, txn := range result.Committed {
		resp.Committed[i] = toTransactionDTO(txn)
	}

	status := http.StatusCreated
	if result.Failed != nil {
		f := result.Failed
		message, code := errorBody(f.Err)
		resp.Failed = &LineFailureDTO{
			Index:       f.Index,
			ProductID:   string(f.ProductID),
			ProductName: f.ProductName,
			Error:       message,
			Code:        code,
		}
		// Nothing landed: surface the failure itself. Otherwise the
		// partial result is a success the caller must inspect.
		if len(result.Committed) == 0 {
			writeDomainError(w, f.Err)
			return
		}
		status = http.StatusOK
	}
	writeJSON(w, status, resp)
}

// RenderEstimate renders an estimate bill: totals and a printable
// receipt, zero store writes, stock untouched.
func (h *Handler) RenderEstimate(w http.ResponseWriter, r *http.Request) {
	var req SubmitBillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}
	if err := validateStruct(req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	class, err := ledger.ParseBillClass(req.Classification)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if class != ledger.ClassEstimate {
		writeDomainError(w, billing.ErrEstimateOnly)
		return
	}

	bill, _, err := h.buildBill(r, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	receipt, err := billing.RenderEstimate(bill, h.now())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toReceiptDTO(receipt))
}

// buildBill reconstructs the cart from the request: resolve each
// product, merge quantities, apply purchase total overrides.
func (h *Handler) buildBill(r *http.Request, req SubmitBillRequest) (*billing.Bill, ledger.Money, error) {
	class, err := ledger.ParseBillClass(req.Classification)
	if err != nil {
		return nil, ledger.Money{}, err
	}

	var bill *billing.Bill
	if ledger.Direction(req.Direction) == ledger.DirectionPurchase {
		bill = billing.NewPurchase(ledger.PartyID(req.PartyID))
	} else {
		bill = billing.NewSale(class)
		bill.PartyID = ledger.PartyID(req.PartyID)
	}
	bill.CustomerName = req.CustomerName

	for _, item := range req.Items {
		product, err := h.Store.GetProduct(r.Context(), ledger.ProductID(item.ProductID))
		if err != nil {
			return nil, ledger.Money{}, err
		}
		qty, err := ledger.QuantityFromFloat(item.Quantity)
		if err != nil {
			return nil, ledger.Money{}, err
		}
		if err := bill.AddItem(product, qty); err != nil {
			return nil, ledger.Money{}, err
		}
		if item.TotalOverride != nil {
			total, err := ledger.ParseMoney(*item.TotalOverride)
			if err != nil {
				return nil, ledger.Money{}, err
			}
			if err := bill.OverrideLineTotal(product.ID, total); err != nil {
				return nil, ledger.Money{}, err
			}
		}
	}

	paid := ledger.ZeroMoney()
	if req.PaidAmount != "" {
		if paid, err = ledger.ParseMoney(req.PaidAmount); err != nil {
			return nil, ledger.Money{}, err
		}
	}
	return bill, paid, nil
}

// =============================================================================
// REPORT HANDLERS
// =============================================================================

// SalesReport returns the period-filtered sales history with totals.
// Query params: period (1d/1w/1m/6m/1y/5y), q (product or buyer name).
func (h *Handler) SalesReport(w http.ResponseWriter, r *http.Request) {
	sales, err := h.Store.ListSales(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	buyers, err := h.Store.GetParties(r.Context(), ledger.KindBuyer)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	period := directory.Period(r.URL.Query().Get("period"))
	query := r.URL.Query().Get("q")
	report := directory.BuildSalesReport(sales, buyers, period, query, h.now())

	dto := SalesReportDTO{
		Sales:        make([]SaleRowDTO, len(report.Sales)),
		TotalRevenue: report.TotalRevenue.String(),
		TotalPaid:    report.TotalPaid.String(),
		TotalPending: report.TotalPending.String(),
		Count:        report.Count,
	}
	for i, s := range report.Sales {
		dto.Sales[i] = SaleRowDTO{
			TransactionDTO: toTransactionDTO(s),
			BuyerName:      directory.BuyerDisplayName(s, buyers),
		}
	}
	writeJSON(w, http.StatusOK, dto)
}

// OutstandingReport returns the directory rows with their outstanding
// balances and status bands, highest balance first. Query params: kind
// (buyers/suppliers, default buyers), q (name or phone).
func (h *Handler) OutstandingReport(w http.ResponseWriter, r *http.Request) {
	kind := ledger.KindBuyer
	if r.URL.Query().Get("kind") == "suppliers" {
		kind = ledger.KindSupplier
	}

	parties, err := h.Store.GetParties(r.Context(), kind)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	rows := directory.Summarize(parties, r.URL.Query().Get("q"))
	type rowDTO struct {
		Party       PartyDTO `json:"party"`
		Outstanding string   `json:"outstanding"`
		Status      string   `json:"status"`
	}
	resp := struct {
		Rows  []rowDTO `json:"rows"`
		Total string   `json:"total"`
	}{
		Rows:  make([]rowDTO, len(rows)),
		Total: directory.TotalOutstanding(rows).String(),
	}
	for i, row := range rows {
		resp.Rows[i] = rowDTO{
			Party:       toPartyDTO(row.Party),
			Outstanding: row.Outstanding.String(),
			Status:      string(row.Status),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// writeDomainError maps the engine error taxonomy onto HTTP statuses and
// stable codes. Structured errors keep their detailed messages.
func writeDomainError(w http.ResponseWriter, err error) {
	message, code := errorBody(err)
	writeError(w, statusFor(err), code, message)
}

func errorBody(err error) (message, code string) {
	return err.Error(), codeFor(err)
}

func codeFor(err error) string {
	switch {
	case errors.Is(err, ledger.ErrInvalidQuantity):
		return "INVALID_QUANTITY"
	case errors.Is(err, ledger.ErrInsufficientStock):
		return "INSUFFICIENT_STOCK"
	case errors.Is(err, ledger.ErrMissingParty):
		return "MISSING_PARTY"
	case errors.Is(err, ledger.ErrNegativeBalance):
		return "NEGATIVE_BALANCE"
	case errors.Is(err, ledger.ErrInvalidTotal):
		return "INVALID_TOTAL"
	case errors.Is(err, ledger.ErrInvalidClass):
		return "INVALID_CLASS"
	case errors.Is(err, ledger.ErrProductNotFound):
		return "PRODUCT_NOT_FOUND"
	case errors.Is(err, ledger.ErrPartyNotFound):
		return "PARTY_NOT_FOUND"
	case errors.Is(err, ledger.ErrTransactionNotFound):
		return "TRANSACTION_NOT_FOUND"
	case errors.Is(err, billing.ErrBillNotDraft):
		return "BILL_NOT_DRAFT"
	case errors.Is(err, billing.ErrEmptyBill):
		return "EMPTY_BILL"
	case errors.Is(err, billing.ErrEstimateOnly):
		return "ESTIMATE_ONLY"
	case errors.Is(err, billing.ErrOverrideNotAllowed):
		return "OVERRIDE_NOT_ALLOWED"
	case errors.Is(err, ledger.ErrPersistence):
		return "PERSISTENCE"
	}
	return "INTERNAL"
}

func statusFor(err error) int {
	switch {
	case ledger.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrInsufficientStock),
		errors.Is(err, billing.ErrBillNotDraft):
		return http.StatusConflict
	case ledger.IsClientError(err),
		errors.Is(err, ledger.ErrInvalidClass),
		errors.Is(err, billing.ErrEmptyBill),
		errors.Is(err, billing.ErrEstimateOnly),
		errors.Is(err, billing.ErrOverrideNotAllowed):
		return http.StatusBadRequest
	case errors.Is(err, ledger.ErrPersistence):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
