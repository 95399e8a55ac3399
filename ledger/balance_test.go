package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/storefront/inventory-engine/ledger"
)

// =============================================================================
// OUTSTANDING ROLLUPS
// =============================================================================

func TestOutstanding_SumsUnpaidRemainders(t *testing.T) {
	// GIVEN: Two credit sales, one partially paid
	// WHEN: Rolling up the outstanding balance
	// THEN: 6000 + 2000 = 8000

	txns := []ledger.Transaction{
		creditTxn(10000, 4000),
		creditTxn(5000, 3000),
	}

	got := ledger.Outstanding(txns)
	assert.True(t, got.Equal(ledger.MustMoney(8000)))
}

func TestOutstanding_EmptyLedger_Zero(t *testing.T) {
	assert.True(t, ledger.Outstanding(nil).IsZero())
}

func TestOutstandingFor_RecomputedFromTransactions(t *testing.T) {
	// The balance is never cached on the party; mutate a transaction and
	// the next rollup reflects it.
	party := ledger.Party{
		ID:   "party-1",
		Kind: ledger.KindBuyer,
		Name: "Rahul Sharma",
		Transactions: []ledger.Transaction{
			creditTxn(10000, 4000),
		},
	}

	assert.True(t, ledger.OutstandingFor(party).Equal(ledger.MustMoney(6000)))

	if err := ledger.ApplyPayment(&party.Transactions[0], ledger.MustMoney(6000)); err != nil {
		t.Fatalf("payment failed: %v", err)
	}
	assert.True(t, ledger.OutstandingFor(party).IsZero())
}

func TestTotalOutstanding_AcrossParties(t *testing.T) {
	parties := []ledger.Party{
		{ID: "p1", Transactions: []ledger.Transaction{creditTxn(10000, 4000)}},
		{ID: "p2", Transactions: []ledger.Transaction{creditTxn(2000, 0)}},
		{ID: "p3"},
	}

	got := ledger.TotalOutstanding(parties)
	assert.True(t, got.Equal(ledger.MustMoney(8000)))
}
