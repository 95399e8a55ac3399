/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  The JSON shapes of the storefront API. These decouple the engine's
  domain model from the wire contract. Money travels as exact decimal
  strings; quantities arrive as JSON numbers and are validated against
  the fractional/negative rules at the boundary.

NAMING CONVENTION:
  - *DTO: response types returned to clients
  - *Request: request body types from clients

VALIDATION:
  Struct tags drive go-playground/validator (see validate.go); domain
  rules (stock, overpayment, party presence) stay in the engine.

SEE ALSO:
  - handlers.go: uses these types
  - store/remote/wire.go: the client-side mirror of this contract
*/
package api

import (
	"time"

	"github.com/storefront/inventory-engine/billing"
	"github.com/storefront/inventory-engine/directory"
	"github.com/storefront/inventory-engine/ledger"
)

// =============================================================================
// PRODUCTS
// =============================================================================

type ProductDTO struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Category          string    `json:"category"`
	UnitPrice         string    `json:"unit_price"`
	TotalQuantity     int       `json:"total_quantity"`
	RemainingQuantity int       `json:"remaining_quantity"`
	StockStatus       string    `json:"stock_status"`
	CreatedAt         time.Time `json:"created_at"`
}

func toProductDTO(p ledger.Product) ProductDTO {
	return ProductDTO{
		ID:                string(p.ID),
		Name:              p.Name,
		Category:          p.Category,
		UnitPrice:         p.UnitPrice.String(),
		TotalQuantity:     int(p.TotalQty),
		RemainingQuantity: int(p.RemainingQty),
		StockStatus:       string(p.StockStatus()),
		CreatedAt:         p.CreatedAt,
	}
}

type CreateProductRequest struct {
	Name          string  `json:"name" validate:"required"`
	Category      string  `json:"category"`
	UnitPrice     string  `json:"unit_price" validate:"required"`
	TotalQuantity float64 `json:"total_quantity"`
}

type RestockRequest struct {
	AddQuantity float64 `json:"add_quantity"`
}

// =============================================================================
// PARTIES
// =============================================================================

type PartyDTO struct {
	ID           string           `json:"id"`
	Kind         string           `json:"kind"`
	Name         string           `json:"name"`
	Phone        string           `json:"phone"`
	Address      string           `json:"address"`
	CompanyName  string           `json:"company_name"`
	Outstanding  string           `json:"outstanding"`
	Status       string           `json:"status"`
	Transactions []TransactionDTO `json:"transactions"`
	CreatedAt    time.Time        `json:"created_at"`
}

func toPartyDTO(p ledger.Party) PartyDTO {
	outstanding := ledger.OutstandingFor(p)
	dto := PartyDTO{
		ID:           string(p.ID),
		Kind:         string(p.Kind),
		Name:         p.Name,
		Phone:        p.Phone,
		Address:      p.Address,
		CompanyName:  p.CompanyName,
		Outstanding:  outstanding.String(),
		Status:       string(directory.StatusFor(outstanding)),
		Transactions: []TransactionDTO{},
		CreatedAt:    p.CreatedAt,
	}
	for _, t := range p.Transactions {
		dto.Transactions = append(dto.Transactions, toTransactionDTO(t))
	}
	return dto
}

type PartyRequest struct {
	Name        string `json:"name" validate:"required"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	CompanyName string `json:"company_name"`
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

type TransactionDTO struct {
	ID             string    `json:"id"`
	ProductID      string    `json:"product_id"`
	ProductName    string    `json:"product_name"`
	PartyID        string    `json:"party_id,omitempty"`
	Quantity       int       `json:"quantity"`
	TotalAmount    string    `json:"total_amount"`
	PaidAmount     string    `json:"paid_amount"`
	PendingAmount  string    `json:"pending_amount"`
	Classification string    `json:"classification"`
	Direction      string    `json:"direction"`
	CreatedAt      time.Time `json:"created_at"`
}

func toTransactionDTO(t ledger.Transaction) TransactionDTO {
	return TransactionDTO{
		ID:             string(t.ID),
		ProductID:      string(t.ProductID),
		ProductName:    t.ProductName,
		PartyID:        string(t.PartyID),
		Quantity:       int(t.Quantity),
		TotalAmount:    t.TotalAmount.String(),
		PaidAmount:     t.PaidAmount.String(),
		PendingAmount:  t.Outstanding().String(),
		Classification: string(t.Class),
		Direction:      string(t.Direction),
		CreatedAt:      t.CreatedAt,
	}
}

type CreateTransactionRequest struct {
	ProductID      string  `json:"product_id" validate:"required"`
	PartyID        string  `json:"party_id"`
	Quantity       float64 `json:"quantity" validate:"required"`
	TotalAmount    string  `json:"total_amount" validate:"required"`
	PaidAmount     string  `json:"paid_amount"`
	Classification string  `json:"classification" validate:"required"`
	Direction      string  `json:"direction" validate:"required,oneof=SALE PURCHASE"`
}

type UpdateTransactionRequest struct {
	AddPayment     *string `json:"add_payment,omitempty"`
	NewTotalAmount *string `json:"new_total_amount,omitempty"`
}

// =============================================================================
// BILLS
// =============================================================================

type BillItemRequest struct {
	ProductID     string  `json:"product_id" validate:"required"`
	Quantity      float64 `json:"quantity" validate:"required"`
	TotalOverride *string `json:"total_override,omitempty"`
}

type SubmitBillRequest struct {
	Classification string            `json:"classification" validate:"required"`
	Direction      string            `json:"direction"`
	PartyID        string            `json:"party_id"`
	CustomerName   string            `json:"customer_name"`
	PaidAmount     string            `json:"paid_amount"`
	Items          []BillItemRequest `json:"items" validate:"required,min=1,dive"`
}

type ReceiptLineDTO struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"line_total"`
}

type ReceiptDTO struct {
	InvoiceNo      string           `json:"invoice_no"`
	Customer       string           `json:"customer"`
	Classification string           `json:"classification"`
	IssuedAt       time.Time        `json:"issued_at"`
	Lines          []ReceiptLineDTO `json:"lines"`
	Subtotal       string           `json:"subtotal"`
	Tax            string           `json:"tax"`
	GrandTotal     string           `json:"grand_total"`
	PaidAmount     *string          `json:"paid_amount,omitempty"`
	RemainingAmt   *string          `json:"remaining_amount,omitempty"`
}

func toReceiptDTO(r billing.Receipt) ReceiptDTO {
	dto := ReceiptDTO{
		InvoiceNo:      r.InvoiceNo,
		Customer:       r.Customer,
		Classification: string(r.Class),
		IssuedAt:       r.IssuedAt,
		Subtotal:       r.Subtotal.String(),
		Tax:            r.Tax.String(),
		GrandTotal:     r.GrandTotal.String(),
	}
	for _, l := range r.Lines {
		dto.Lines = append(dto.Lines, ReceiptLineDTO{
			Name:      l.Name,
			Quantity:  int(l.Quantity),
			LineTotal: l.LineTotal.String(),
		})
	}
	if r.Paid != nil {
		s := r.Paid.String()
		dto.PaidAmount = &s
	}
	if r.Remaining != nil {
		s := r.Remaining.String()
		dto.RemainingAmt = &s
	}
	return dto
}

type LineFailureDTO struct {
	Index       int    `json:"index"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Error       string `json:"error"`
	Code        string `json:"code"`
}

type SubmitBillResponse struct {
	State     string           `json:"state"`
	Committed []TransactionDTO `json:"committed"`
	Failed    *LineFailureDTO  `json:"failed,omitempty"`
	Receipt   ReceiptDTO       `json:"receipt"`
}

// =============================================================================
// REPORTS
// =============================================================================

type SaleRowDTO struct {
	TransactionDTO
	BuyerName string `json:"buyer_name"`
}

type SalesReportDTO struct {
	Sales        []SaleRowDTO `json:"sales"`
	TotalRevenue string       `json:"total_revenue"`
	TotalPaid    string       `json:"total_paid"`
	TotalPending string       `json:"total_pending"`
	Count        int          `json:"count"`
}

// =============================================================================
// ERRORS
// =============================================================================

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
