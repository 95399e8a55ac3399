// Package store provides the in-memory Store implementation.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/storefront/inventory-engine/ledger"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory implements ledger.Store with maps under one mutex. The mutex is
// what makes the stock guard atomic here: check and decrement happen in
// one critical section, the same contract SQL gives the sqlite store.
type Memory struct {
	mu           sync.RWMutex
	products     map[ledger.ProductID]ledger.Product
	parties      map[ledger.PartyID]ledger.Party
	transactions map[ledger.TransactionID]ledger.Transaction
	order        []ledger.TransactionID // creation order for stable listing

	now func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		products:     make(map[ledger.ProductID]ledger.Product),
		parties:      make(map[ledger.PartyID]ledger.Party),
		transactions: make(map[ledger.TransactionID]ledger.Transaction),
		now:          time.Now,
	}
}

// =============================================================================
// PRODUCTS
// =============================================================================

func (m *Memory) GetProducts(_ context.Context) ([]ledger.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]ledger.Product, 0, len(m.products))
	for _, p := range m.products {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *Memory) GetProduct(_ context.Context, id ledger.ProductID) (ledger.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.products[id]
	if !ok {
		return ledger.Product{}, ledger.ErrProductNotFound
	}
	return p, nil
}

func (m *Memory) CreateProduct(_ context.Context, p ledger.Product) (ledger.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p.ID == "" {
		p.ID = ledger.ProductID(uuid.NewString())
	}
	if err := ledger.SetTotalQuantity(&p, p.TotalQty); err != nil {
		return ledger.Product{}, err
	}
	p.CreatedAt = m.now()
	m.products[p.ID] = p
	return p, nil
}

func (m *Memory) RestockProduct(_ context.Context, id ledger.ProductID, add ledger.Quantity) (ledger.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.products[id]
	if !ok {
		return ledger.Product{}, ledger.ErrProductNotFound
	}
	if err := ledger.Restock(&p, add); err != nil {
		return ledger.Product{}, err
	}
	m.products[id] = p
	return p, nil
}

// =============================================================================
// PARTIES
// =============================================================================

func (m *Memory) GetParties(_ context.Context, kind ledger.PartyKind) ([]ledger.Party, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []ledger.Party
	for _, p := range m.parties {
		if p.Kind != kind {
			continue
		}
		p.Transactions = m.transactionsForLocked(p.ID)
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *Memory) GetParty(_ context.Context, id ledger.PartyID) (ledger.Party, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.parties[id]
	if !ok {
		return ledger.Party{}, ledger.ErrPartyNotFound
	}
	p.Transactions = m.transactionsForLocked(id)
	return p, nil
}

func (m *Memory) CreateParty(_ context.Context, p ledger.Party) (ledger.Party, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p.ID == "" {
		p.ID = ledger.PartyID(uuid.NewString())
	}
	p.CreatedAt = m.now()
	p.Transactions = nil
	m.parties[p.ID] = p
	return p, nil
}

func (m *Memory) UpdateParty(_ context.Context, p ledger.Party) (ledger.Party, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.parties[p.ID]
	if !ok {
		return ledger.Party{}, ledger.ErrPartyNotFound
	}
	existing.Name = p.Name
	existing.Phone = p.Phone
	existing.Address = p.Address
	existing.CompanyName = p.CompanyName
	m.parties[p.ID] = existing
	existing.Transactions = m.transactionsForLocked(p.ID)
	return existing, nil
}

func (m *Memory) DeleteParty(_ context.Context, id ledger.PartyID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.parties[id]; !ok {
		return ledger.ErrPartyNotFound
	}
	delete(m.parties, id)
	return nil
}

// transactionsForLocked collects a party's transactions in creation order.
// Caller holds at least the read lock.
func (m *Memory) transactionsForLocked(id ledger.PartyID) []ledger.Transaction {
	var txns []ledger.Transaction
	for _, txID := range m.order {
		t := m.transactions[txID]
		if t.PartyID == id {
			txns = append(txns, t)
		}
	}
	return txns
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

// CreateTransaction writes the record and applies the stock movement in
// one critical section: the remaining >= quantity check cannot race a
// concurrent commit.
func (m *Memory) CreateTransaction(_ context.Context, spec ledger.TransactionSpec) (ledger.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.products[spec.ProductID]
	if !ok {
		return ledger.Transaction{}, ledger.ErrProductNotFound
	}
	if spec.PartyID != "" {
		if _, ok := m.parties[spec.PartyID]; !ok {
			return ledger.Transaction{}, ledger.ErrPartyNotFound
		}
	}

	if spec.Class.ReservesStock() {
		switch spec.Direction {
		case ledger.DirectionSale:
			if err := ledger.Reserve(&p, spec.Quantity); err != nil {
				return ledger.Transaction{}, err
			}
		case ledger.DirectionPurchase:
			if err := ledger.Restock(&p, spec.Quantity); err != nil {
				return ledger.Transaction{}, err
			}
		}
		m.products[spec.ProductID] = p
	}

	txn := spec.Materialize(ledger.TransactionID(uuid.NewString()), m.now())
	if txn.ProductName == "" {
		txn.ProductName = p.Name
	}
	m.transactions[txn.ID] = txn
	m.order = append(m.order, txn.ID)
	return txn, nil
}

func (m *Memory) UpdateTransaction(_ context.Context, id ledger.TransactionID, req ledger.UpdateRequest) (ledger.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	txn, ok := m.transactions[id]
	if !ok {
		return ledger.Transaction{}, ledger.ErrTransactionNotFound
	}
	if err := ledger.ApplyUpdate(&txn, req); err != nil {
		return ledger.Transaction{}, err
	}
	m.transactions[id] = txn
	return txn, nil
}

func (m *Memory) ListSales(_ context.Context) ([]ledger.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var sales []ledger.Transaction
	for i := len(m.order) - 1; i >= 0; i-- {
		t := m.transactions[m.order[i]]
		if t.Direction == ledger.DirectionSale {
			sales = append(sales, t)
		}
	}
	return sales, nil
}
