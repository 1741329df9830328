package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/blockchain/state"
)

// miningOperations runs a mining operation for every start signal.
func (w *Worker) miningOperations() {
	w.evHandler("worker: miningOperations: G started")
	defer w.evHandler("worker: miningOperations: G completed")

	for {
		select {
		case <-w.startMining:
			if !w.isShutdown() {
				w.runMiningOperation()
			}
		case <-w.shut:
			w.evHandler("worker: miningOperations: received shut signal")
			return
		}
	}
}

// runMiningOperation mines the pending transactions into a block, proposes
// it to the local chain and then to the peers. Only shutdown stops the
// search early.
func (w *Worker) runMiningOperation() {
	w.evHandler("worker: runMiningOperation: MINING: started")
	defer w.evHandler("worker: runMiningOperation: MINING: completed")

	if w.state.NoPendingTransactions() {
		w.evHandler("worker: runMiningOperation: MINING: no transactions to mine")
		return
	}

	// Transactions that arrived while mining need another operation.
	defer func() {
		if w.state.HasPendingTransactions() && !w.isShutdown() {
			w.evHandler("worker: runMiningOperation: MINING: signal new mining operation: Txs[%d]", len(w.state.PendingTransactions()))
			w.SignalStartMining()
		}
	}()

	// A stale cancel signal must not stop this operation.
	select {
	case <-w.cancelMining:
		w.evHandler("worker: runMiningOperation: MINING: drained cancel channel")
	default:
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.cancelOnSignal(ctx, cancel)
	}()

	t := time.Now()
	block, err := w.state.MineNewBlock(ctx)
	w.evHandler("worker: runMiningOperation: MINING: mining duration[%v]", time.Since(t))

	cancel()
	wg.Wait()

	if err != nil {
		w.miningFailed(err)
		return
	}

	if err := w.state.NetSendBlockToPeers(block); err != nil {
		w.evHandler("worker: runMiningOperation: MINING: proposeBlockToPeers: WARNING %s", err)
	}
}

// cancelOnSignal cancels the mining context on a cancel or shutdown signal.
// It returns when the context is done.
func (w *Worker) cancelOnSignal(ctx context.Context, cancel context.CancelFunc) {
	select {
	case <-w.cancelMining:
		w.evHandler("worker: runMiningOperation: MINING: CANCEL: requested")
		cancel()
	case <-w.shut:
		w.evHandler("worker: runMiningOperation: MINING: CANCEL: shutdown")
		cancel()
	case <-ctx.Done():
	}
}

// miningFailed logs why a mining operation didn't add a block.
func (w *Worker) miningFailed(err error) {
	switch {
	case errors.Is(err, state.ErrNoTransactions):
		w.evHandler("worker: runMiningOperation: MINING: WARNING: no transactions in mempool")
	case errors.Is(err, state.ErrMiningInProgress):
		w.evHandler("worker: runMiningOperation: MINING: WARNING: mining already in progress")
	case errors.Is(err, database.ErrCancelled):
		w.evHandler("worker: runMiningOperation: MINING: CANCEL: complete")
	case database.IsRejected(err):
		w.evHandler("worker: runMiningOperation: MINING: WARNING: mined block lost the race: %s", err)
	default:
		w.evHandler("worker: runMiningOperation: MINING: ERROR: %s", err)
	}
}
