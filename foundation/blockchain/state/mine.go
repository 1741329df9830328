package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
)

// Set of errors returned by the mining api.
var (
	ErrNoTransactions   = errors.New("no transactions in mempool")
	ErrMiningInProgress = errors.New("mining operation already in progress")
	ErrChainNotEmpty    = errors.New("chain already has blocks")
)

// BlockTemplate represents the fields of a block that are known before the
// proof of work is performed.
type BlockTemplate struct {
	PreviousHash string
	Timestamp    int64
	Transactions []database.Tx
}

// =============================================================================

// MineBlock performs the proof of work over the template and returns the
// completed block. On success the transactions mined into the block are
// removed from the mempool. Transactions that arrive while mining stay
// pending for the next block. Only one mining operation can run at a time.
func (s *State) MineBlock(ctx context.Context, tmpl BlockTemplate) (database.Block, error) {
	if !s.isMining.CompareAndSwap(false, true) {
		return database.Block{}, ErrMiningInProgress
	}
	defer s.isMining.Store(false)

	s.evHandler("state: MineBlock: MINING: started: prevBlk[%s]: numTrans[%d]", database.Short(tmpl.PreviousHash), len(tmpl.Transactions))
	defer s.evHandler("state: MineBlock: MINING: completed")

	block, err := database.POW(ctx, database.POWArgs{
		PreviousHash: tmpl.PreviousHash,
		Timestamp:    tmpl.Timestamp,
		Trans:        tmpl.Transactions,
		Difficulty:   s.genesis.Difficulty,
		Digest:       s.digest,
		EvHandler:    s.evHandler,
	})
	if err != nil {
		return database.Block{}, err
	}

	removed := s.mempool.Delete(block.Transactions...)
	s.evHandler("state: MineBlock: MINING: removed mined transactions from mempool: Txs[%d]", removed)

	return block, nil
}

// MineBlockWith constructs a template that follows the latest block in the
// chain and mines it. A random delay is taken first so the node that saw
// the transactions first does not always win the race to mine them.
func (s *State) MineBlockWith(ctx context.Context, trans []database.Tx) (database.Block, error) {
	if err := s.delay(ctx, s.maxMiningDelay); err != nil {
		return database.Block{}, fmt.Errorf("%w: %w", database.ErrCancelled, err)
	}

	latest, err := s.db.LatestBlock()
	if err != nil {
		return database.Block{}, err
	}

	tmpl := BlockTemplate{
		PreviousHash: latest.Hash,
		Timestamp:    time.Now().UnixMilli(),
		Transactions: trans,
	}

	return s.MineBlock(ctx, tmpl)
}

// MineNewBlock mines the pending transactions into a block and adds that
// block to the chain. The block goes through the same validation as a block
// from a peer, which fails if another block was accepted while mining.
func (s *State) MineNewBlock(ctx context.Context) (database.Block, error) {
	s.evHandler("state: MineNewBlock: MINING: check mempool count")

	// Are there enough transactions in the pool.
	trans := s.mempool.Copy()
	if len(trans) == 0 {
		return database.Block{}, ErrNoTransactions
	}

	s.evHandler("state: MineNewBlock: MINING: perform POW")

	block, err := s.MineBlockWith(ctx, trans)
	if err != nil {
		return database.Block{}, err
	}

	s.evHandler("state: MineNewBlock: MINING: validate and update database")

	if err := s.AddBlock(block); err != nil {
		return database.Block{}, err
	}

	return block, nil
}

// InitializeWithGenesisBlock mines the first block of a new chain and adds
// it directly to the chain since there is no previous block to validate it
// against.
func (s *State) InitializeWithGenesisBlock(ctx context.Context) (database.Block, error) {
	if !s.db.IsEmpty() {
		return database.Block{}, ErrChainNotEmpty
	}

	tmpl := BlockTemplate{
		PreviousHash: database.GenesisHash,
		Timestamp:    time.Now().UnixMilli(),
	}

	block, err := s.MineBlock(ctx, tmpl)
	if err != nil {
		return database.Block{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another genesis block or a bootstrap chain could have landed
	// while mining.
	if !s.db.IsEmpty() {
		return database.Block{}, ErrChainNotEmpty
	}

	s.db.Append(block)
	s.blockEvent(block)

	return block, nil
}

// =============================================================================

// blockEvent provides a specific event about a new block in the chain for
// application specific support.
func (s *State) blockEvent(block database.Block) {
	blockJSON, err := json.Marshal(block)
	if err != nil {
		blockJSON = []byte(fmt.Sprintf("%q", err.Error()))
	}

	s.evHandler(`chain: block: %s`, string(blockJSON))
}
