/*
wire.go - JSON wire contract of the storefront API

PURPOSE:
  The client-side shapes of the API's JSON bodies, and the error code
  table mapping API rejections back onto the engine's error taxonomy.
  Money travels as exact decimal strings, never floats.
*/
package remote

import (
	"time"

	"github.com/storefront/inventory-engine/ledger"
)

// =============================================================================
// REQUESTS
// =============================================================================

type createProductRequest struct {
	Name          string `json:"name"`
	Category      string `json:"category,omitempty"`
	UnitPrice     string `json:"unit_price"`
	TotalQuantity int    `json:"total_quantity"`
}

type restockRequest struct {
	AddQuantity int `json:"add_quantity"`
}

type partyRequest struct {
	Name        string `json:"name"`
	Phone       string `json:"phone,omitempty"`
	Address     string `json:"address,omitempty"`
	CompanyName string `json:"company_name,omitempty"`
}

type createTransactionRequest struct {
	ProductID      string `json:"product_id"`
	PartyID        string `json:"party_id,omitempty"`
	Quantity       int    `json:"quantity"`
	TotalAmount    string `json:"total_amount"`
	PaidAmount     string `json:"paid_amount"`
	Classification string `json:"classification"`
	Direction      string `json:"direction"`
}

type updateTransactionRequest struct {
	AddPayment     *string `json:"add_payment,omitempty"`
	NewTotalAmount *string `json:"new_total_amount,omitempty"`
}

// =============================================================================
// RESPONSES
// =============================================================================

type productDTO struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Category          string    `json:"category"`
	UnitPrice         string    `json:"unit_price"`
	TotalQuantity     int       `json:"total_quantity"`
	RemainingQuantity int       `json:"remaining_quantity"`
	CreatedAt         time.Time `json:"created_at"`
}

func (d productDTO) toProduct() (ledger.Product, error) {
	price, err := ledger.ParseMoney(d.UnitPrice)
	if err != nil {
		return ledger.Product{}, err
	}
	return ledger.Product{
		ID:           ledger.ProductID(d.ID),
		Name:         d.Name,
		Category:     d.Category,
		UnitPrice:    price,
		TotalQty:     ledger.Quantity(d.TotalQuantity),
		RemainingQty: ledger.Quantity(d.RemainingQuantity),
		CreatedAt:    d.CreatedAt,
	}, nil
}

type partyDTO struct {
	ID           string           `json:"id"`
	Kind         string           `json:"kind"`
	Name         string           `json:"name"`
	Phone        string           `json:"phone"`
	Address      string           `json:"address"`
	CompanyName  string           `json:"company_name"`
	Transactions []transactionDTO `json:"transactions"`
	CreatedAt    time.Time        `json:"created_at"`
}

func (d partyDTO) toParty() (ledger.Party, error) {
	p := ledger.Party{
		ID:          ledger.PartyID(d.ID),
		Kind:        ledger.PartyKind(d.Kind),
		Name:        d.Name,
		Phone:       d.Phone,
		Address:     d.Address,
		CompanyName: d.CompanyName,
		CreatedAt:   d.CreatedAt,
	}
	for _, t := range d.Transactions {
		txn, err := t.toTransaction()
		if err != nil {
			return ledger.Party{}, err
		}
		p.Transactions = append(p.Transactions, txn)
	}
	return p, nil
}

type transactionDTO struct {
	ID             string    `json:"id"`
	ProductID      string    `json:"product_id"`
	ProductName    string    `json:"product_name"`
	PartyID        string    `json:"party_id"`
	Quantity       int       `json:"quantity"`
	TotalAmount    string    `json:"total_amount"`
	PaidAmount     string    `json:"paid_amount"`
	Classification string    `json:"classification"`
	Direction      string    `json:"direction"`
	CreatedAt      time.Time `json:"created_at"`
}

func (d transactionDTO) toTransaction() (ledger.Transaction, error) {
	total, err := ledger.ParseMoney(d.TotalAmount)
	if err != nil {
		return ledger.Transaction{}, err
	}
	paid, err := ledger.ParseMoney(d.PaidAmount)
	if err != nil {
		return ledger.Transaction{}, err
	}
	return ledger.Transaction{
		ID:          ledger.TransactionID(d.ID),
		ProductID:   ledger.ProductID(d.ProductID),
		ProductName: d.ProductName,
		PartyID:     ledger.PartyID(d.PartyID),
		Quantity:    ledger.Quantity(d.Quantity),
		TotalAmount: total,
		PaidAmount:  paid,
		Class:       ledger.BillClass(d.Classification),
		Direction:   ledger.Direction(d.Direction),
		CreatedAt:   d.CreatedAt,
	}, nil
}

// =============================================================================
// ERROR CODES
// =============================================================================

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// toLedgerError maps an API error code back onto the engine taxonomy.
// Unknown codes return nil so the caller wraps the raw response as a
// persistence failure.
func (e errorResponse) toLedgerError() error {
	switch e.Code {
	case "INVALID_QUANTITY":
		return ledger.ErrInvalidQuantity
	case "INSUFFICIENT_STOCK":
		return ledger.ErrInsufficientStock
	case "MISSING_PARTY":
		return ledger.ErrMissingParty
	case "NEGATIVE_BALANCE":
		return ledger.ErrNegativeBalance
	case "INVALID_TOTAL":
		return ledger.ErrInvalidTotal
	case "INVALID_CLASS":
		return ledger.ErrInvalidClass
	case "PRODUCT_NOT_FOUND":
		return ledger.ErrProductNotFound
	case "PARTY_NOT_FOUND":
		return ledger.ErrPartyNotFound
	case "TRANSACTION_NOT_FOUND":
		return ledger.ErrTransactionNotFound
	}
	return nil
}
