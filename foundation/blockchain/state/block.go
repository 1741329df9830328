package state

import (
	"fmt"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
)

// AddBlock takes a block, normally received from a peer, and decides if it
// becomes the new latest block in the chain. The block is rejected when its
// previous block is unknown, when the chain has already moved past its
// previous block, or when its hash doesn't verify. A rejected block leaves
// the chain unchanged.
func (s *State) AddBlock(block database.Block) error {
	s.evHandler("state: AddBlock: started: prevBlk[%s]: newBlk[%s]: numTrans[%d]", database.Short(block.PreviousHash), block.ShortHash(), len(block.Transactions))
	defer s.evHandler("state: AddBlock: completed: newBlk[%s]", block.ShortHash())

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.validateUpdateDatabase(block); err != nil {
		s.evHandler("state: AddBlock: REJECTED: %s", err)
		return err
	}

	return nil
}

// InitializeWith replaces the chain with a known set of blocks, used when
// bootstrapping from another node. No validation is performed.
func (s *State) InitializeWith(blocks []database.Block) {
	s.evHandler("state: InitializeWith: blocks[%d]", len(blocks))

	s.mu.Lock()
	defer s.mu.Unlock()

	s.db.InitializeWith(blocks)
}

// =============================================================================

// validateUpdateDatabase takes the block and validates it against the
// consensus rules. If the block passes it's added to the end of the chain.
// The caller must hold the state lock so the checks and the append happen
// as one step.
func (s *State) validateUpdateDatabase(block database.Block) error {
	s.evHandler("state: validateUpdateDatabase: validate: blk[%s]: check: previous block is known", block.ShortHash())

	prevIndex := s.db.IndexOf(block.PreviousHash)
	if prevIndex < 0 {
		return database.Reject(block, database.ErrUnknownPredecessor, fmt.Sprintf("there is no block in the chain with the specified previous hash %q", database.Short(block.PreviousHash)))
	}

	s.evHandler("state: validateUpdateDatabase: validate: blk[%s]: check: previous block is the latest block", block.ShortHash())

	// This node may already have one or more blocks after the previous
	// block, mined here or received from other nodes. The longest chain
	// takes precedence so the block is rejected. This node never swaps
	// its own blocks for another node's.
	if tail := s.db.Length() - (prevIndex + 1); tail >= 1 {
		return database.Reject(block, database.ErrStaleCandidate, fmt.Sprintf("the longer tail of the current node takes precedence, %d block(s) past the previous block", tail))
	}

	prevBlock, _ := s.db.GetBlock(prevIndex)
	if err := block.ValidateBlock(prevBlock, s.genesis.Difficulty, s.digest, s.evHandler); err != nil {
		return err
	}

	s.evHandler("state: validateUpdateDatabase: append: blk[%s]: index[%d]", block.ShortHash(), prevIndex+1)

	s.db.Append(block)
	s.blockEvent(block)

	return nil
}
