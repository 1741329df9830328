// Package mempool maintains the mempool for the blockchain.
package mempool

import (
	"sync"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
)

// Mempool represents the ordered set of transactions waiting to be mined
// into a block. Transactions are kept in the order they were added.
type Mempool struct {
	pool []database.Tx
	mu   sync.RWMutex
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

// Add appends a transaction to the end of the mempool. No validation of
// the transaction is performed.
func (mp *Mempool) Add(tx database.Tx) int {
	tx = append(database.Tx(nil), tx...)

	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = append(mp.pool, tx)

	return len(mp.pool)
}

// Copy returns a copy of the transactions in the order they were added.
func (mp *Mempool) Copy() []database.Tx {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	cpy := make([]database.Tx, len(mp.pool))
	for i, tx := range mp.pool {
		cpy[i] = append(database.Tx(nil), tx...)
	}
	return cpy
}

// Delete removes the specified transactions from the pool. Each one removes
// the oldest matching entry, transactions that are not in the pool are
// ignored. The number of transactions removed is returned.
func (mp *Mempool) Delete(trans ...database.Tx) int {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	var removed int
	for _, tx := range trans {
		for i := range mp.pool {
			if mp.pool[i].Equal(tx) {
				mp.pool = append(mp.pool[:i:i], mp.pool[i+1:]...)
				removed++
				break
			}
		}
	}

	return removed
}
