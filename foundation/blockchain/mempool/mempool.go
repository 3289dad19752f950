// Package mempool maintains the pending transactions for the ledger in the
// order they were submitted.
package mempool

import (
	"sync"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// Mempool represents an ordered cache of transactions waiting to be mined.
// Duplicates are allowed, every submission is a separate transaction.
type Mempool struct {
	mu   sync.RWMutex
	pool []database.Tx
}

// New constructs a new empty mempool.
func New() *Mempool {
	return &Mempool{}
}

// Count returns the current number of transaction in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Add appends a transaction to the end of the pool and returns the new count.
func (mp *Mempool) Add(tx database.Tx) int {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = append(mp.pool, tx)

	return len(mp.pool)
}

// Copy returns the pending transactions in submission order.
func (mp *Mempool) Copy() []database.Tx {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return append([]database.Tx{}, mp.pool...)
}

// Drain removes and returns every pending transaction in submission order.
func (mp *Mempool) Drain() []database.Tx {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	txs := mp.pool
	mp.pool = nil

	return txs
}

// Prepend places the transactions ahead of anything currently pending. It is
// used to return drained transactions that could not be mined, and to queue
// a reward ahead of transactions that arrived while mining.
func (mp *Mempool) Prepend(txs ...database.Tx) {
	if len(txs) == 0 {
		return
	}

	mp.mu.Lock()
	defer mp.mu.Unlock()

	pool := make([]database.Tx, 0, len(txs)+len(mp.pool))
	pool = append(pool, txs...)
	mp.pool = append(pool, mp.pool...)
}

// Truncate clears all the transactions from the pool.
func (mp *Mempool) Truncate() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = nil
}

// PickAccount returns the pending transactions the account is part of.
func (mp *Mempool) PickAccount(account database.AccountID) []database.Tx {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	var txs []database.Tx
	for _, tx := range mp.pool {
		if tx.From == account || tx.To == account {
			txs = append(txs, tx)
		}
	}

	return txs
}
