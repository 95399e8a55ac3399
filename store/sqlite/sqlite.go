/*
Package sqlite provides the SQLite-backed persistence collaborator.

PURPOSE:
  A local/offline deployment of the ledger.Store contract. The same
  patterns apply to PostgreSQL - only minor SQL dialect differences.

THE ATOMIC STOCK GUARD:
  CreateTransaction runs the stock movement and the transaction insert
  in one database transaction, with the sale decrement guarded in SQL:

    UPDATE products SET remaining_qty = remaining_qty - ?
    WHERE id = ? AND remaining_qty >= ?

  Zero rows affected means the optimistic cart check was stale; the
  write is rejected with ErrInsufficientStock and nothing lands. This
  is the authoritative check - the engine's cart check is advisory.

STORAGE NOTES:
  Money is stored as exact decimal strings, never floats. Timestamps
  are RFC3339 text. WAL mode for better concurrency.

CONCURRENCY:
  A sync.Mutex serializes writers; SQLite's own locking would also do,
  but one writer at a time keeps the guard semantics obvious.

SEE ALSO:
  - ledger/store.go: the interface and its error contract
  - ledger/store/memory.go: the in-memory equivalent for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/storefront/inventory-engine/ledger"
)

// Store implements ledger.Store over SQLite.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// New opens (or creates) the database at dbPath and migrates the schema.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS products (
		id            TEXT PRIMARY KEY,
		name          TEXT NOT NULL,
		category      TEXT NOT NULL DEFAULT '',
		unit_price    TEXT NOT NULL,
		total_qty     INTEGER NOT NULL CHECK (total_qty >= 0),
		remaining_qty INTEGER NOT NULL CHECK (remaining_qty >= 0),
		created_at    TEXT NOT NULL,
		CHECK (remaining_qty <= total_qty)
	);

	CREATE TABLE IF NOT EXISTS parties (
		id           TEXT PRIMARY KEY,
		kind         TEXT NOT NULL CHECK (kind IN ('BUYER', 'SUPPLIER')),
		name         TEXT NOT NULL,
		phone        TEXT NOT NULL DEFAULT '',
		address      TEXT NOT NULL DEFAULT '',
		company_name TEXT NOT NULL DEFAULT '',
		created_at   TEXT NOT NULL
	);

	-- Transactions are never deleted. Only paid_amount and total_amount
	-- ever change, through UpdateTransaction.
	CREATE TABLE IF NOT EXISTS transactions (
		id           TEXT PRIMARY KEY,
		product_id   TEXT NOT NULL REFERENCES products(id),
		product_name TEXT NOT NULL,
		party_id     TEXT,
		quantity     INTEGER NOT NULL CHECK (quantity > 0),
		total_amount TEXT NOT NULL,
		paid_amount  TEXT NOT NULL,
		class        TEXT NOT NULL CHECK (class IN ('CASH', 'CREDIT')),
		direction    TEXT NOT NULL CHECK (direction IN ('SALE', 'PURCHASE')),
		created_at   TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_transactions_party
		ON transactions(party_id) WHERE party_id IS NOT NULL;
	CREATE INDEX IF NOT EXISTS idx_transactions_direction_created
		ON transactions(direction, created_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// PRODUCTS
// =============================================================================

func (s *Store) GetProducts(ctx context.Context) ([]ledger.Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, category, unit_price, total_qty, remaining_qty, created_at
		FROM products ORDER BY name`)
	if err != nil {
		return nil, &ledger.PersistenceError{Op: "GetProducts", Err: err}
	}
	defer rows.Close()

	var products []ledger.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, &ledger.PersistenceError{Op: "GetProducts", Err: err}
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (s *Store) GetProduct(ctx context.Context, id ledger.ProductID) (ledger.Product, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, category, unit_price, total_qty, remaining_qty, created_at
		FROM products WHERE id = ?`, string(id))
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.Product{}, ledger.ErrProductNotFound
	}
	if err != nil {
		return ledger.Product{}, &ledger.PersistenceError{Op: "GetProduct", Err: err}
	}
	return p, nil
}

func (s *Store) CreateProduct(ctx context.Context, p ledger.Product) (ledger.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = ledger.ProductID(uuid.NewString())
	}
	if err := ledger.SetTotalQuantity(&p, p.TotalQty); err != nil {
		return ledger.Product{}, err
	}
	p.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO products (id, name, category, unit_price, total_qty, remaining_qty, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		string(p.ID), p.Name, p.Category, p.UnitPrice.String(),
		int(p.TotalQty), int(p.RemainingQty), p.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return ledger.Product{}, &ledger.PersistenceError{Op: "CreateProduct", Err: err}
	}
	return p, nil
}

func (s *Store) RestockProduct(ctx context.Context, id ledger.ProductID, add ledger.Quantity) (ledger.Product, error) {
	if add < 0 {
		return ledger.Product{}, ledger.ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE products
		SET total_qty = total_qty + ?, remaining_qty = remaining_qty + ?
		WHERE id = ?`, int(add), int(add), string(id))
	if err != nil {
		return ledger.Product{}, &ledger.PersistenceError{Op: "RestockProduct", Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ledger.Product{}, ledger.ErrProductNotFound
	}
	return s.GetProduct(ctx, id)
}

// =============================================================================
// PARTIES
// =============================================================================

func (s *Store) GetParties(ctx context.Context, kind ledger.PartyKind) ([]ledger.Party, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, name, phone, address, company_name, created_at
		FROM parties WHERE kind = ? ORDER BY name`, string(kind))
	if err != nil {
		return nil, &ledger.PersistenceError{Op: "GetParties", Err: err}
	}
	defer rows.Close()

	var parties []ledger.Party
	for rows.Next() {
		p, err := scanParty(rows)
		if err != nil {
			return nil, &ledger.PersistenceError{Op: "GetParties", Err: err}
		}
		parties = append(parties, p)
	}
	if err := rows.Err(); err != nil {
		return nil, &ledger.PersistenceError{Op: "GetParties", Err: err}
	}

	for i := range parties {
		txns, err := s.transactionsFor(ctx, parties[i].ID)
		if err != nil {
			return nil, err
		}
		parties[i].Transactions = txns
	}
	return parties, nil
}

func (s *Store) GetParty(ctx context.Context, id ledger.PartyID) (ledger.Party, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, kind, name, phone, address, company_name, created_at
		FROM parties WHERE id = ?`, string(id))
	p, err := scanParty(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.Party{}, ledger.ErrPartyNotFound
	}
	if err != nil {
		return ledger.Party{}, &ledger.PersistenceError{Op: "GetParty", Err: err}
	}
	p.Transactions, err = s.transactionsFor(ctx, id)
	if err != nil {
		return ledger.Party{}, err
	}
	return p, nil
}

func (s *Store) CreateParty(ctx context.Context, p ledger.Party) (ledger.Party, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = ledger.PartyID(uuid.NewString())
	}
	p.CreatedAt = time.Now().UTC()
	p.Transactions = nil

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO parties (id, kind, name, phone, address, company_name, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		string(p.ID), string(p.Kind), p.Name, p.Phone, p.Address, p.CompanyName,
		p.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return ledger.Party{}, &ledger.PersistenceError{Op: "CreateParty", Err: err}
	}
	return p, nil
}

func (s *Store) UpdateParty(ctx context.Context, p ledger.Party) (ledger.Party, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE parties SET name = ?, phone = ?, address = ?, company_name = ?
		WHERE id = ?`,
		p.Name, p.Phone, p.Address, p.CompanyName, string(p.ID))
	if err != nil {
		return ledger.Party{}, &ledger.PersistenceError{Op: "UpdateParty", Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ledger.Party{}, ledger.ErrPartyNotFound
	}
	return s.GetParty(ctx, p.ID)
}

func (s *Store) DeleteParty(ctx context.Context, id ledger.PartyID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM parties WHERE id = ?`, string(id))
	if err != nil {
		return &ledger.PersistenceError{Op: "DeleteParty", Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ledger.ErrPartyNotFound
	}
	return nil
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

// CreateTransaction applies the stock movement and inserts the record in
// one database transaction. The sale path decrements through the guarded
// UPDATE; zero rows affected means the advisory check was stale and the
// whole write is rolled back.
func (s *Store) CreateTransaction(ctx context.Context, spec ledger.TransactionSpec) (ledger.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ledger.Transaction{}, &ledger.PersistenceError{Op: "CreateTransaction", Err: err}
	}
	defer tx.Rollback()

	var (
		name      string
		remaining int
	)
	err = tx.QueryRowContext(ctx,
		`SELECT name, remaining_qty FROM products WHERE id = ?`,
		string(spec.ProductID)).Scan(&name, &remaining)
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.Transaction{}, ledger.ErrProductNotFound
	}
	if err != nil {
		return ledger.Transaction{}, &ledger.PersistenceError{Op: "CreateTransaction", Err: err}
	}

	if spec.PartyID != "" {
		var one int
		err = tx.QueryRowContext(ctx,
			`SELECT 1 FROM parties WHERE id = ?`, string(spec.PartyID)).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return ledger.Transaction{}, ledger.ErrPartyNotFound
		}
		if err != nil {
			return ledger.Transaction{}, &ledger.PersistenceError{Op: "CreateTransaction", Err: err}
		}
	}

	if spec.Class.ReservesStock() {
		switch spec.Direction {
		case ledger.DirectionSale:
			res, err := tx.ExecContext(ctx, `
				UPDATE products SET remaining_qty = remaining_qty - ?
				WHERE id = ? AND remaining_qty >= ?`,
				int(spec.Quantity), string(spec.ProductID), int(spec.Quantity))
			if err != nil {
				return ledger.Transaction{}, &ledger.PersistenceError{Op: "CreateTransaction", Err: err}
			}
			if n, _ := res.RowsAffected(); n == 0 {
				return ledger.Transaction{}, &ledger.InsufficientStockError{
					ProductID:   spec.ProductID,
					ProductName: name,
					Available:   ledger.Quantity(remaining),
					Requested:   spec.Quantity,
				}
			}
		case ledger.DirectionPurchase:
			if _, err := tx.ExecContext(ctx, `
				UPDATE products SET total_qty = total_qty + ?, remaining_qty = remaining_qty + ?
				WHERE id = ?`,
				int(spec.Quantity), int(spec.Quantity), string(spec.ProductID)); err != nil {
				return ledger.Transaction{}, &ledger.PersistenceError{Op: "CreateTransaction", Err: err}
			}
		}
	}

	txn := spec.Materialize(ledger.TransactionID(uuid.NewString()), time.Now().UTC())
	if txn.ProductName == "" {
		txn.ProductName = name
	}

	var partyID any
	if txn.PartyID != "" {
		partyID = string(txn.PartyID)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO transactions (id, product_id, product_name, party_id, quantity,
			total_amount, paid_amount, class, direction, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(txn.ID), string(txn.ProductID), txn.ProductName, partyID,
		int(txn.Quantity), txn.TotalAmount.String(), txn.PaidAmount.String(),
		string(txn.Class), string(txn.Direction), txn.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return ledger.Transaction{}, &ledger.PersistenceError{Op: "CreateTransaction", Err: err}
	}

	if err := tx.Commit(); err != nil {
		return ledger.Transaction{}, &ledger.PersistenceError{Op: "CreateTransaction", Err: err}
	}
	return txn, nil
}

// UpdateTransaction loads the record, applies revise-then-payment through
// the payment ledger, and writes the result back under the store lock.
func (s *Store) UpdateTransaction(ctx context.Context, id ledger.TransactionID, req ledger.UpdateRequest) (ledger.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	txn, err := s.getTransaction(ctx, id)
	if err != nil {
		return ledger.Transaction{}, err
	}
	if err := ledger.ApplyUpdate(&txn, req); err != nil {
		return ledger.Transaction{}, err
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE transactions SET total_amount = ?, paid_amount = ? WHERE id = ?`,
		txn.TotalAmount.String(), txn.PaidAmount.String(), string(id))
	if err != nil {
		return ledger.Transaction{}, &ledger.PersistenceError{Op: "UpdateTransaction", Err: err}
	}
	return txn, nil
}

func (s *Store) ListSales(ctx context.Context) ([]ledger.Transaction, error) {
	return s.queryTransactions(ctx, `
		SELECT id, product_id, product_name, party_id, quantity,
			total_amount, paid_amount, class, direction, created_at
		FROM transactions WHERE direction = 'SALE'
		ORDER BY created_at DESC`)
}

func (s *Store) transactionsFor(ctx context.Context, id ledger.PartyID) ([]ledger.Transaction, error) {
	return s.queryTransactions(ctx, `
		SELECT id, product_id, product_name, party_id, quantity,
			total_amount, paid_amount, class, direction, created_at
		FROM transactions WHERE party_id = ?
		ORDER BY created_at`, string(id))
}

func (s *Store) getTransaction(ctx context.Context, id ledger.TransactionID) (ledger.Transaction, error) {
	txns, err := s.queryTransactions(ctx, `
		SELECT id, product_id, product_name, party_id, quantity,
			total_amount, paid_amount, class, direction, created_at
		FROM transactions WHERE id = ?`, string(id))
	if err != nil {
		return ledger.Transaction{}, err
	}
	if len(txns) == 0 {
		return ledger.Transaction{}, ledger.ErrTransactionNotFound
	}
	return txns[0], nil
}

func (s *Store) queryTransactions(ctx context.Context, query string, args ...any) ([]ledger.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &ledger.PersistenceError{Op: "queryTransactions", Err: err}
	}
	defer rows.Close()

	var txns []ledger.Transaction
	for rows.Next() {
		var (
			t                    ledger.Transaction
			partyID              sql.NullString
			qty                  int
			total, paid, created string
		)
		if err := rows.Scan(&t.ID, &t.ProductID, &t.ProductName, &partyID, &qty,
			&total, &paid, &t.Class, &t.Direction, &created); err != nil {
			return nil, &ledger.PersistenceError{Op: "queryTransactions", Err: err}
		}
		t.PartyID = ledger.PartyID(partyID.String)
		t.Quantity = ledger.Quantity(qty)
		if t.TotalAmount, err = ledger.ParseMoney(total); err != nil {
			return nil, &ledger.PersistenceError{Op: "queryTransactions", Err: err}
		}
		if t.PaidAmount, err = ledger.ParseMoney(paid); err != nil {
			return nil, &ledger.PersistenceError{Op: "queryTransactions", Err: err}
		}
		if t.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, &ledger.PersistenceError{Op: "queryTransactions", Err: err}
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}

// =============================================================================
// SCANNING HELPERS
// =============================================================================

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (ledger.Product, error) {
	var (
		p                   ledger.Product
		price, created      string
		totalQty, remaining int
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Category, &price, &totalQty, &remaining, &created); err != nil {
		return ledger.Product{}, err
	}
	var err error
	if p.UnitPrice, err = ledger.ParseMoney(price); err != nil {
		return ledger.Product{}, err
	}
	if p.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return ledger.Product{}, err
	}
	p.TotalQty = ledger.Quantity(totalQty)
	p.RemainingQty = ledger.Quantity(remaining)
	return p, nil
}

func scanParty(row rowScanner) (ledger.Party, error) {
	var (
		p       ledger.Party
		created string
	)
	if err := row.Scan(&p.ID, &p.Kind, &p.Name, &p.Phone, &p.Address, &p.CompanyName, &created); err != nil {
		return ledger.Party{}, err
	}
	var err error
	if p.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return ledger.Party{}, err
	}
	return p, nil
}
