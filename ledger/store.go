/*
store.go - Persistence collaborator interface

PURPOSE:
  Defines the boundary between the engine and whatever persists its
  records: the remote storefront API in production, SQLite for a local
  deployment, memory for tests. The engine validates first; the store
  applies, and re-checks the stock invariant atomically at write time.

THE ATOMIC GUARD:
  CreateTransaction is the correctness boundary for stock. For cash and
  credit movements the store must apply the reservation (sale) or the
  restock (purchase) as an atomic side effect of the write, guarded by
  remaining_qty >= quantity. The engine's own pre-check is advisory: it
  exists for fast rejection in the cart, not for correctness under
  concurrent operators.

SESSIONS:
  Every call is authenticated by an opaque bearer credential carried in
  an explicit session (see the session package). Stores that talk to a
  remote collaborator attach it; they never interpret it. Local stores
  ignore it.

ERROR CONTRACT:
  Domain rejections surface as the typed taxonomy in errors.go
  (ErrInsufficientStock, ErrProductNotFound, ...). Everything else wraps
  ErrPersistence verbatim, with no automatic retry.

IMPLEMENTATIONS:
  - ledger/store/memory.go: in-memory, for tests and dev
  - store/sqlite/:          local SQLite deployment
  - store/remote/:          HTTP client for the storefront API
*/
package ledger

import "context"

// =============================================================================
// STORE - persistence collaborator
// =============================================================================

// Store is the persistence collaborator the engine drives.
type Store interface {
	// GetProducts returns the full catalog.
	GetProducts(ctx context.Context) ([]Product, error)

	// GetProduct returns one product or ErrProductNotFound.
	GetProduct(ctx context.Context, id ProductID) (Product, error)

	// CreateProduct persists a new catalog entry. The product's initial
	// total quantity also sets its remaining quantity.
	CreateProduct(ctx context.Context, p Product) (Product, error)

	// RestockProduct grows a product's total and remaining quantity.
	// Zero is a no-op, negative is ErrInvalidQuantity.
	RestockProduct(ctx context.Context, id ProductID, add Quantity) (Product, error)

	// GetParties returns all buyers or all suppliers, each with its
	// embedded transaction list.
	GetParties(ctx context.Context, kind PartyKind) ([]Party, error)

	// GetParty returns one party with embedded transactions.
	GetParty(ctx context.Context, id PartyID) (Party, error)

	// CreateParty persists a new buyer or supplier.
	CreateParty(ctx context.Context, p Party) (Party, error)

	// UpdateParty overwrites a party's contact fields.
	UpdateParty(ctx context.Context, p Party) (Party, error)

	// DeleteParty removes a party from the directory.
	DeleteParty(ctx context.Context, id PartyID) error

	// CreateTransaction persists one sale or purchase, applying the
	// stock movement atomically under the remaining_qty >= quantity
	// guard. A guard failure is ErrInsufficientStock and writes nothing.
	CreateTransaction(ctx context.Context, spec TransactionSpec) (Transaction, error)

	// UpdateTransaction applies a combined revise/payment update,
	// revise-before-payment, atomically.
	UpdateTransaction(ctx context.Context, id TransactionID, req UpdateRequest) (Transaction, error)

	// ListSales returns all sale transactions, newest first, for the
	// sales history report.
	ListSales(ctx context.Context) ([]Transaction, error)
}
