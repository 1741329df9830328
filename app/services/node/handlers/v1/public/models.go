package public

import (
	"encoding/json"

	"github.com/ardanlabs/powchain/business/sys/validate"
	"github.com/ardanlabs/powchain/foundation/blockchain/peer"
)

// SubmitTx is what a client sends to add a transaction. The data can be
// any JSON value.
type SubmitTx struct {
	Data json.RawMessage `json:"data" validate:"required"`
}

// Validate checks the data in the model is considered clean.
func (st SubmitTx) Validate() error {
	return validate.Check(st)
}

// NodeStatus describes the state of the node for clients.
type NodeStatus struct {
	Host            string      `json:"host"`
	ChainLength     int         `json:"chain_length"`
	LatestBlockHash string      `json:"latest_block_hash"`
	Pending         int         `json:"pending"`
	IsMining        bool        `json:"is_mining"`
	Difficulty      uint        `json:"difficulty"`
	HashAlgorithm   string      `json:"hash_algorithm"`
	KnownPeers      []peer.Peer `json:"known_peers"`
}
