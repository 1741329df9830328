package state

import (
	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/blockchain/genesis"
	"github.com/ardanlabs/powchain/foundation/blockchain/peer"
)

// Chain returns a copy of the blocks in the chain in order.
func (s *State) Chain() []database.Block {
	return s.db.Copy()
}

// ChainIsEmpty reports whether the chain has any blocks.
func (s *State) ChainIsEmpty() bool {
	return s.db.IsEmpty()
}

// ChainLength returns the number of blocks in the chain.
func (s *State) ChainLength() int {
	return s.db.Length()
}

// LatestBlock returns a copy the current latest block. It returns
// database.ErrChainEmpty when there are no blocks.
func (s *State) LatestBlock() (database.Block, error) {
	return s.db.LatestBlock()
}

// QueryBlockByHash returns a copy of the block with the specified hash.
func (s *State) QueryBlockByHash(hash string) (database.Block, bool) {
	return s.db.GetBlock(s.db.IndexOf(hash))
}

// PendingTransactions returns a copy of the mempool.
func (s *State) PendingTransactions() []database.Tx {
	return s.mempool.Copy()
}

// HasPendingTransactions reports whether transactions are waiting to be mined.
func (s *State) HasPendingTransactions() bool {
	return s.mempool.Count() > 0
}

// NoPendingTransactions reports whether the mempool is empty.
func (s *State) NoPendingTransactions() bool {
	return s.mempool.Count() == 0
}

// IsMining reports whether a mining operation is running.
func (s *State) IsMining() bool {
	return s.isMining.Load()
}

// RetrieveHost returns a copy of host information.
func (s *State) RetrieveHost() string {
	return s.host
}

// RetrieveGenesis returns a copy of the genesis information.
func (s *State) RetrieveGenesis() genesis.Genesis {
	return s.genesis
}

// RetrieveKnownPeers retrieves a copy of the known peer list.
func (s *State) RetrieveKnownPeers() []peer.Peer {
	return s.knownPeers.Copy(s.host)
}

// AddKnownPeer provides the ability to add a new peer to
// the known peer list.
func (s *State) AddKnownPeer(peer peer.Peer) bool {
	return s.knownPeers.Add(peer)
}

// RemoveKnownPeer provides the ability to remove a peer from
// the known peer list.
func (s *State) RemoveKnownPeer(peer peer.Peer) {
	s.knownPeers.Remove(peer)
}

// RetrievePeerStatus returns the status this node reports to its peers.
func (s *State) RetrievePeerStatus() peer.PeerStatus {
	ps := peer.PeerStatus{
		ChainLength: s.db.Length(),
		KnownPeers:  s.RetrieveKnownPeers(),
	}

	if latest, err := s.db.LatestBlock(); err == nil {
		ps.LatestBlockHash = latest.Hash
	}

	return ps
}
