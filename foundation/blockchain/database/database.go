// Package database handles the in memory ledger of blocks and the rules for
// constructing, mining and validating those blocks.
package database

import (
	"errors"
	"sync"
)

// ErrChainEmpty is returned when the latest block is requested from a chain
// that has no blocks.
var ErrChainEmpty = errors.New("chain is empty")

// =============================================================================

// Database manages the ordered set of blocks accepted by this node. Blocks
// are only ever added at the end and every read hands back a copy, so no
// caller can change a block that is already part of the chain.
type Database struct {
	mu     sync.RWMutex
	blocks []Block
}

// New constructs an empty database.
func New() *Database {
	return &Database{}
}

// InitializeWith replaces the chain with the specified blocks. No validation
// is performed, it's the caller's responsibility to provide a sound chain.
func (db *Database) InitializeWith(blocks []Block) {
	chain := make([]Block, len(blocks))
	for i, block := range blocks {
		chain[i] = block.clone()
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	db.blocks = chain
}

// Append adds the block to the end of the chain.
func (db *Database) Append(block Block) {
	block = block.clone()

	db.mu.Lock()
	defer db.mu.Unlock()

	db.blocks = append(db.blocks, block)
}

// Copy returns a copy of the chain in order.
func (db *Database) Copy() []Block {
	db.mu.RLock()
	defer db.mu.RUnlock()

	chain := make([]Block, len(db.blocks))
	for i, block := range db.blocks {
		chain[i] = block.clone()
	}
	return chain
}

// Length returns the number of blocks in the chain.
func (db *Database) Length() int {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return len(db.blocks)
}

// IsEmpty reports whether the chain has no blocks.
func (db *Database) IsEmpty() bool {
	return db.Length() == 0
}

// LatestBlock returns the last block in the chain.
func (db *Database) LatestBlock() (Block, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if len(db.blocks) == 0 {
		return Block{}, ErrChainEmpty
	}

	return db.blocks[len(db.blocks)-1].clone(), nil
}

// GetBlock returns the block at the specified position in the chain.
func (db *Database) GetBlock(index int) (Block, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if index < 0 || index >= len(db.blocks) {
		return Block{}, false
	}

	return db.blocks[index].clone(), true
}

// IndexOf returns the position of the block with the specified hash or -1
// if no such block exists.
func (db *Database) IndexOf(hash string) int {
	db.mu.RLock()
	defer db.mu.RUnlock()

	for i, block := range db.blocks {
		if block.Hash == hash {
			return i
		}
	}

	return -1
}
