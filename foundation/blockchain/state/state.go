// Package state is the core API for the blockchain and implements all the
// business rules and processing for a single node.
package state

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/blockchain/digest"
	"github.com/ardanlabs/powchain/foundation/blockchain/genesis"
	"github.com/ardanlabs/powchain/foundation/blockchain/mempool"
	"github.com/ardanlabs/powchain/foundation/blockchain/peer"
)

// DefaultMaxMiningDelay is the upper bound of the random pause taken before
// mining a block from a set of transactions.
const DefaultMaxMiningDelay = 500 * time.Millisecond

// =============================================================================

// EventHandler defines a function that is called when events
// occur in the processing of blocks.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by any
// package providing support for mining and transaction sharing.
type Worker interface {
	Shutdown()
	Sync()
	SignalStartMining()
	SignalShareTx(tx database.Tx)
}

// =============================================================================

// Config represents the configuration required to start
// the blockchain node.
type Config struct {
	Host           string
	Genesis        genesis.Genesis
	MaxMiningDelay time.Duration
	Delayer        Delayer
	KnownPeers     *peer.PeerSet
	EvHandler      EventHandler
}

// State manages the blockchain for a single node. It owns the ledger of
// accepted blocks and the pool of pending transactions.
type State struct {
	mu sync.Mutex

	host           string
	evHandler      EventHandler
	maxMiningDelay time.Duration
	delay          Delayer
	isMining       atomic.Bool

	knownPeers *peer.PeerSet
	genesis    genesis.Genesis
	digest     digest.Func
	mempool    *mempool.Mempool
	db         *database.Database

	Worker Worker
}

// New constructs a new node with an empty chain. The chain is seeded by
// InitializeWith or InitializeWithGenesisBlock.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	if err := cfg.Genesis.Validate(); err != nil {
		return nil, fmt.Errorf("validating genesis: %w", err)
	}

	// The hash primitive is a property of the chain so every node
	// must use the same one.
	fn, err := cfg.Genesis.Digest()
	if err != nil {
		return nil, err
	}

	delay := cfg.Delayer
	if delay == nil {
		delay = RandomDelay
	}

	knownPeers := cfg.KnownPeers
	if knownPeers == nil {
		knownPeers = peer.NewPeerSet()
	}

	state := State{
		host:           cfg.Host,
		evHandler:      ev,
		maxMiningDelay: cfg.MaxMiningDelay,
		delay:          delay,

		knownPeers: knownPeers,
		genesis:    cfg.Genesis,
		digest:     fn,
		mempool:    mempool.New(),
		db:         database.New(),

		// Replaced when worker.Run registers itself.
		Worker: nopWorker{},
	}

	return &state, nil
}

// Shutdown cleanly brings the node down.
func (s *State) Shutdown() error {
	s.evHandler("state: shutdown: started")
	defer s.evHandler("state: shutdown: completed")

	// Stop all blockchain writing activity.
	s.Worker.Shutdown()

	return nil
}

// =============================================================================

// nopWorker is used until a real worker registers with the state.
type nopWorker struct{}

func (nopWorker) Shutdown() {}
func (nopWorker) Sync() {}
func (nopWorker) SignalStartMining() {}
func (nopWorker) SignalShareTx(database.Tx) {}
