package worker

import (
	"context"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/blockchain/peer"
)

// Sync brings the chain up to date with the known peers. A node with an
// empty chain takes the longest chain a peer has, or mines a genesis block
// when no peer has one. A node with blocks only appends the blocks peers
// have past its latest block.
func (w *Worker) Sync() {
	w.evHandler("worker: sync: started")
	defer w.evHandler("worker: sync: completed")

	var longest peer.Peer
	var longestLen int

	for _, pr := range w.state.RetrieveKnownPeers() {

		// Retrieve the status of this peer.
		peerStatus, err := w.state.NetRequestPeerStatus(pr)
		if err != nil {
			w.evHandler("worker: sync: queryPeerStatus: %s: ERROR: %s", pr.Host, err)
			continue
		}

		// Add new peers to this nodes list.
		w.addNewPeers(peerStatus.KnownPeers)

		// Let the peer know this node is available.
		if err := w.state.NetRequestAddPeer(pr); err != nil {
			w.evHandler("worker: sync: addPeer: %s: ERROR: %s", pr.Host, err)
		}

		if peerStatus.ChainLength > longestLen {
			longest = pr
			longestLen = peerStatus.ChainLength
		}
	}

	switch {
	case w.state.ChainIsEmpty() && longestLen > 0:
		w.bootstrap(longest)

	case w.state.ChainIsEmpty():
		w.mineGenesis()

	case longestLen > w.state.ChainLength():
		w.catchUp(longest)
	}
}

// bootstrap seeds the empty chain with the chain of the specified peer.
func (w *Worker) bootstrap(pr peer.Peer) {
	w.evHandler("worker: sync: bootstrap: %s", pr.Host)

	blocks, err := w.state.NetRequestPeerChain(pr)
	if err != nil {
		w.evHandler("worker: sync: bootstrap: %s: ERROR: %s", pr.Host, err)
		w.mineGenesis()
		return
	}

	if len(blocks) == 0 || !blocks[0].IsGenesis() {
		w.evHandler("worker: sync: bootstrap: %s: ERROR: chain doesn't start with a genesis block", pr.Host)
		w.mineGenesis()
		return
	}

	w.state.InitializeWith(blocks)
}

// mineGenesis mines the first block of a new chain. Shutdown cancels the
// mining.
func (w *Worker) mineGenesis() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		select {
		case <-w.shut:
			cancel()
		case <-ctx.Done():
		}
	}()

	block, err := w.state.InitializeWithGenesisBlock(ctx)
	if err != nil {
		w.evHandler("worker: sync: mineGenesis: ERROR: %s", err)
		return
	}

	w.evHandler("worker: sync: mineGenesis: blk[%s]", block.ShortHash())
}

// catchUp proposes the blocks the peer has past this node's latest block to
// the local chain. Every block goes through the normal acceptance rules, so
// a peer on a different fork adds nothing.
func (w *Worker) catchUp(pr peer.Peer) {
	w.evHandler("worker: sync: catchUp: %s", pr.Host)

	blocks, err := w.state.NetRequestPeerChain(pr)
	if err != nil {
		w.evHandler("worker: sync: catchUp: %s: ERROR: %s", pr.Host, err)
		return
	}

	latest, err := w.state.LatestBlock()
	if err != nil {
		return
	}

	var start int
	for i, block := range blocks {
		if block.Hash == latest.Hash {
			start = i + 1
			break
		}
	}

	if start == 0 {
		w.evHandler("worker: sync: catchUp: %s: latest block blk[%s] not in peer chain", pr.Host, latest.ShortHash())
		return
	}

	for _, block := range blocks[start:] {
		if err := w.state.AddBlock(block); err != nil {
			w.evHandler("worker: sync: catchUp: %s: blk[%s]: ERROR: %s", pr.Host, database.Short(block.Hash), err)
			return
		}
	}
}
