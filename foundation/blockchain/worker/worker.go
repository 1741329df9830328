// Package worker implements mining, peer updates, and transaction sharing for
// the blockchain.
package worker

import (
	"sync"
	"time"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/blockchain/state"
)

// peerUpdateInterval is how often peers are refreshed and missed blocks
// are picked up.
const peerUpdateInterval = time.Minute

// =============================================================================

// Worker runs the background workflows of a node: mining pending
// transactions, sharing transactions and keeping up with peers.
type Worker struct {
	state        *state.State
	wg           sync.WaitGroup
	ticker       *time.Ticker
	shut         chan struct{}
	startMining  chan bool
	cancelMining chan bool
	txSharing    chan database.Tx
	evHandler    state.EventHandler
}

// Run creates the worker for the state, syncs the chain with the known peers
// and starts the mining, transaction sharing and peer update goroutines.
// Run returns once every goroutine is running.
func Run(st *state.State, evHandler state.EventHandler) *Worker {
	if evHandler == nil {
		evHandler = func(string, ...any) {}
	}

	w := Worker{
		state:        st,
		ticker:       time.NewTicker(peerUpdateInterval),
		shut:         make(chan struct{}),
		startMining:  make(chan bool, 1),
		cancelMining: make(chan bool, 1),
		txSharing:    make(chan database.Tx, maxTxShareRequests),
		evHandler:    evHandler,
	}

	st.Worker = &w

	w.Sync()
	w.start(w.peerOperations, w.miningOperations, w.shareTxOperations)

	// Transactions could have been accepted while syncing.
	if st.HasPendingTransactions() {
		w.SignalStartMining()
	}

	return &w
}

// start runs each operation in its own goroutine and waits until all of
// them are running.
func (w *Worker) start(operations ...func()) {
	w.wg.Add(len(operations))

	started := make(chan struct{})
	for _, op := range operations {
		go func() {
			defer w.wg.Done()
			started <- struct{}{}
			op()
		}()
	}

	for range operations {
		<-started
	}
}

// =============================================================================

// Shutdown stops the peer updates, cancels any mining and waits for every
// goroutine to return.
func (w *Worker) Shutdown() {
	w.evHandler("worker: shutdown: started")
	defer w.evHandler("worker: shutdown: completed")

	w.evHandler("worker: shutdown: stop ticker")
	w.ticker.Stop()

	w.evHandler("worker: shutdown: signal cancel mining")
	w.SignalCancelMining()

	w.evHandler("worker: shutdown: terminate goroutines")
	close(w.shut)
	w.wg.Wait()
}

// SignalStartMining asks for a mining operation. A signal already pending
// covers this one.
func (w *Worker) SignalStartMining() {
	select {
	case w.startMining <- true:
	default:
	}
	w.evHandler("worker: SignalStartMining: mining signaled")
}

// SignalCancelMining signals the G executing the runMiningOperation function
// to stop immediately. Only shutdown does this, a block accepted from a peer
// never cancels the local search.
func (w *Worker) SignalCancelMining() {
	select {
	case w.cancelMining <- true:
	default:
	}
	w.evHandler("worker: SignalCancelMining: MINING: CANCEL: signaled")
}

// SignalShareTx queues the transaction to be shared with the peers. The
// transaction isn't shared when the queue is full.
func (w *Worker) SignalShareTx(tx database.Tx) {
	select {
	case w.txSharing <- tx:
		w.evHandler("worker: SignalShareTx: share Tx signaled")
	default:
		w.evHandler("worker: SignalShareTx: queue full, transactions won't be shared.")
	}
}

// =============================================================================

// isShutdown is used to test if a shutdown has been signaled.
func (w *Worker) isShutdown() bool {
	select {
	case <-w.shut:
		return true
	default:
		return false
	}
}
