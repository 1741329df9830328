package state

import "github.com/ardanlabs/powchain/foundation/blockchain/database"

// AddTransaction appends a transaction to the mempool. The content of the
// transaction is not validated.
func (s *State) AddTransaction(tx database.Tx) int {
	n := s.mempool.Add(tx)
	s.evHandler("state: AddTransaction: tx[%s]: Txs[%d]", tx, n)

	return n
}

// SubmitWalletTransaction accepts a transaction from a client, shares it
// with the known peers and signals a mining operation.
func (s *State) SubmitWalletTransaction(tx database.Tx) {
	s.AddTransaction(tx)

	s.Worker.SignalShareTx(tx)
	s.Worker.SignalStartMining()
}

// SubmitNodeTransaction accepts a transaction shared by another node. It's
// not shared again since the sending node already did that.
func (s *State) SubmitNodeTransaction(tx database.Tx) {
	s.AddTransaction(tx)

	s.Worker.SignalStartMining()
}
