/*
balance.go - Party balance aggregation

PURPOSE:
  Rolls up all transactions for one buyer or supplier into a single
  outstanding figure: udhaar for buyers, payable for suppliers. Always
  recomputed from the full transaction list on every read; there is no
  cached running balance to migrate or to drift out of sync.

SEE ALSO:
  - directory/: directory summaries built on these rollups
*/
package ledger

// =============================================================================
// PARTY BALANCE AGGREGATOR
// =============================================================================

// Outstanding folds total - paid over a transaction list. An empty list
// yields zero, not an error. Estimate records never persist, but any fed
// in defensively contribute nothing.
func Outstanding(txns []Transaction) Money {
	sum := ZeroMoney()
	for _, t := range txns {
		if !t.Class.Persisted() {
			continue
		}
		sum = sum.Add(t.Outstanding())
	}
	return sum
}

// OutstandingFor computes a party's outstanding balance from its
// embedded transaction list.
func OutstandingFor(party Party) Money {
	return Outstanding(party.Transactions)
}

// TotalOutstanding sums outstanding balances across a directory of
// parties (the directory header figure).
func TotalOutstanding(parties []Party) Money {
	sum := ZeroMoney()
	for _, p := range parties {
		sum = sum.Add(OutstandingFor(p))
	}
	return sum
}
