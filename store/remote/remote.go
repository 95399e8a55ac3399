/*
Package remote provides the HTTP persistence collaborator: a ledger.Store
backed by the remote storefront API.

PURPOSE:
  Production deployments keep the catalog and ledgers behind a remote
  API. This client speaks that API's JSON wire contract (the same
  contract the api package serves), attaching the opaque bearer
  credential from the session on every call.

AUTH:
  Every request requires a session on the context (session.FromContext).
  The token is attached as "Authorization: Bearer <token>" and never
  interpreted. A missing session fails before any network traffic.

ERROR MAPPING:
  The API returns {"error": "...", "code": "..."}. Codes map back onto
  the engine taxonomy (INSUFFICIENT_STOCK -> ErrInsufficientStock, and
  so on); anything else, including transport faults, wraps
  ErrPersistence verbatim with no automatic retry.

SEE ALSO:
  - wire.go: request/response shapes and the error code table
  - api/: the server side of the same contract
*/
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/storefront/inventory-engine/ledger"
	"github.com/storefront/inventory-engine/session"
)

// Client implements ledger.Store over the storefront HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the API at baseURL (e.g. "https://shop.example.com").
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// NewWithHTTPClient injects a custom http.Client (tests, custom transports).
func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	return &Client{baseURL: baseURL, http: hc}
}

// =============================================================================
// PRODUCTS
// =============================================================================

func (c *Client) GetProducts(ctx context.Context) ([]ledger.Product, error) {
	var dtos []productDTO
	if err := c.call(ctx, http.MethodGet, "/api/products", nil, &dtos); err != nil {
		return nil, err
	}
	products := make([]ledger.Product, 0, len(dtos))
	for _, d := range dtos {
		p, err := d.toProduct()
		if err != nil {
			return nil, &ledger.PersistenceError{Op: "GetProducts", Err: err}
		}
		products = append(products, p)
	}
	return products, nil
}

func (c *Client) GetProduct(ctx context.Context, id ledger.ProductID) (ledger.Product, error) {
	var d productDTO
	if err := c.call(ctx, http.MethodGet, "/api/products/"+string(id), nil, &d); err != nil {
		return ledger.Product{}, err
	}
	p, err := d.toProduct()
	if err != nil {
		return ledger.Product{}, &ledger.PersistenceError{Op: "GetProduct", Err: err}
	}
	return p, nil
}

func (c *Client) CreateProduct(ctx context.Context, p ledger.Product) (ledger.Product, error) {
	req := createProductRequest{
		Name:          p.Name,
		Category:      p.Category,
		UnitPrice:     p.UnitPrice.String(),
		TotalQuantity: int(p.TotalQty),
	}
	var d productDTO
	if err := c.call(ctx, http.MethodPost, "/api/products", req, &d); err != nil {
		return ledger.Product{}, err
	}
	created, err := d.toProduct()
	if err != nil {
		return ledger.Product{}, &ledger.PersistenceError{Op: "CreateProduct", Err: err}
	}
	return created, nil
}

func (c *Client) RestockProduct(ctx context.Context, id ledger.ProductID, add ledger.Quantity) (ledger.Product, error) {
	var d productDTO
	err := c.call(ctx, http.MethodPost, "/api/products/"+string(id)+"/restock",
		restockRequest{AddQuantity: int(add)}, &d)
	if err != nil {
		return ledger.Product{}, err
	}
	p, err := d.toProduct()
	if err != nil {
		return ledger.Product{}, &ledger.PersistenceError{Op: "RestockProduct", Err: err}
	}
	return p, nil
}

// =============================================================================
// PARTIES
// =============================================================================

func kindPath(kind ledger.PartyKind) string {
	if kind == ledger.KindSupplier {
		return "/api/suppliers"
	}
	return "/api/buyers"
}

func (c *Client) GetParties(ctx context.Context, kind ledger.PartyKind) ([]ledger.Party, error) {
	var dtos []partyDTO
	if err := c.call(ctx, http.MethodGet, kindPath(kind), nil, &dtos); err != nil {
		return nil, err
	}
	parties := make([]ledger.Party, 0, len(dtos))
	for _, d := range dtos {
		p, err := d.toParty()
		if err != nil {
			return nil, &ledger.PersistenceError{Op: "GetParties", Err: err}
		}
		parties = append(parties, p)
	}
	return parties, nil
}

func (c *Client) GetParty(ctx context.Context, id ledger.PartyID) (ledger.Party, error) {
	var d partyDTO
	if err := c.call(ctx, http.MethodGet, "/api/parties/"+string(id), nil, &d); err != nil {
		return ledger.Party{}, err
	}
	p, err := d.toParty()
	if err != nil {
		return ledger.Party{}, &ledger.PersistenceError{Op: "GetParty", Err: err}
	}
	return p, nil
}

func (c *Client) CreateParty(ctx context.Context, p ledger.Party) (ledger.Party, error) {
	req := partyRequest{
		Name:        p.Name,
		Phone:       p.Phone,
		Address:     p.Address,
		CompanyName: p.CompanyName,
	}
	var d partyDTO
	if err := c.call(ctx, http.MethodPost, kindPath(p.Kind), req, &d); err != nil {
		return ledger.Party{}, err
	}
	created, err := d.toParty()
	if err != nil {
		return ledger.Party{}, &ledger.PersistenceError{Op: "CreateParty", Err: err}
	}
	return created, nil
}

func (c *Client) UpdateParty(ctx context.Context, p ledger.Party) (ledger.Party, error) {
	req := partyRequest{
		Name:        p.Name,
		Phone:       p.Phone,
		Address:     p.Address,
		CompanyName: p.CompanyName,
	}
	var d partyDTO
	err := c.call(ctx, http.MethodPut, kindPath(p.Kind)+"/"+string(p.ID), req, &d)
	if err != nil {
		return ledger.Party{}, err
	}
	updated, err := d.toParty()
	if err != nil {
		return ledger.Party{}, &ledger.PersistenceError{Op: "UpdateParty", Err: err}
	}
	return updated, nil
}

func (c *Client) DeleteParty(ctx context.Context, id ledger.PartyID) error {
	return c.call(ctx, http.MethodDelete, "/api/parties/"+string(id), nil, nil)
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

func (c *Client) CreateTransaction(ctx context.Context, spec ledger.TransactionSpec) (ledger.Transaction, error) {
	req := createTransactionRequest{
		ProductID:      string(spec.ProductID),
		PartyID:        string(spec.PartyID),
		Quantity:       int(spec.Quantity),
		TotalAmount:    spec.TotalAmount.String(),
		PaidAmount:     spec.PaidAmount.String(),
		Classification: string(spec.Class),
		Direction:      string(spec.Direction),
	}
	var d transactionDTO
	if err := c.call(ctx, http.MethodPost, "/api/transactions", req, &d); err != nil {
		return ledger.Transaction{}, err
	}
	txn, err := d.toTransaction()
	if err != nil {
		return ledger.Transaction{}, &ledger.PersistenceError{Op: "CreateTransaction", Err: err}
	}
	return txn, nil
}

func (c *Client) UpdateTransaction(ctx context.Context, id ledger.TransactionID, req ledger.UpdateRequest) (ledger.Transaction, error) {
	wire := updateTransactionRequest{}
	if req.AddPayment != nil {
		s := req.AddPayment.String()
		wire.AddPayment = &s
	}
	if req.NewTotal != nil {
		s := req.NewTotal.String()
		wire.NewTotalAmount = &s
	}
	var d transactionDTO
	if err := c.call(ctx, http.MethodPatch, "/api/transactions/"+string(id), wire, &d); err != nil {
		return ledger.Transaction{}, err
	}
	txn, err := d.toTransaction()
	if err != nil {
		return ledger.Transaction{}, &ledger.PersistenceError{Op: "UpdateTransaction", Err: err}
	}
	return txn, nil
}

func (c *Client) ListSales(ctx context.Context) ([]ledger.Transaction, error) {
	var dtos []transactionDTO
	if err := c.call(ctx, http.MethodGet, "/api/sales", nil, &dtos); err != nil {
		return nil, err
	}
	sales := make([]ledger.Transaction, 0, len(dtos))
	for _, d := range dtos {
		txn, err := d.toTransaction()
		if err != nil {
			return nil, &ledger.PersistenceError{Op: "ListSales", Err: err}
		}
		sales = append(sales, txn)
	}
	return sales, nil
}

// =============================================================================
// TRANSPORT
// =============================================================================

// call performs one authenticated round trip. The session must already
// be on the context; its absence fails before any network traffic.
func (c *Client) call(ctx context.Context, method, path string, body, out any) error {
	sess, err := session.FromContext(ctx)
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &ledger.PersistenceError{Op: method + " " + path, Err: err}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &ledger.PersistenceError{Op: method + " " + path, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+sess.Token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &ledger.PersistenceError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.decodeError(method, path, resp)
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ledger.PersistenceError{Op: method + " " + path, Err: err}
	}
	return nil
}

func (c *Client) decodeError(method, path string, resp *http.Response) error {
	var wire errorResponse
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	_ = json.Unmarshal(raw, &wire)

	if err := wire.toLedgerError(); err != nil {
		return err
	}
	return &ledger.PersistenceError{
		Op:  method + " " + path,
		Err: fmt.Errorf("status %d: %s", resp.StatusCode, string(raw)),
	}
}
