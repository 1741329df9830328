// Package private maintains the group of handlers for node to node access.
package private

import (
	"context"
	"errors"
	"net/http"

	"github.com/ardanlabs/powchain/business/web/errs"
	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/blockchain/peer"
	"github.com/ardanlabs/powchain/foundation/blockchain/state"
	"github.com/ardanlabs/powchain/foundation/web"
	"go.uber.org/zap"
)

// errEmptyHost is returned when a peer registers without a host.
var errEmptyHost = errors.New("peer host is required")

// Handlers manages the set of node to node endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
}

// SubmitPeer is called by a node so they can be added to the known peer list.
func (h Handlers) SubmitPeer(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var pr peer.Peer
	if err := web.Decode(r, &pr); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if pr.Host == "" {
		return errs.NewTrusted(errEmptyHost, http.StatusBadRequest)
	}

	if h.State.AddKnownPeer(pr) {
		h.Log.Infow("adding peer", "traceid", v.TraceID, "host", pr.Host)
	}

	return web.Respond(ctx, w, nil, http.StatusNoContent)
}

// SubmitNodeTransaction adds a transaction shared by another node to the
// mempool.
func (h Handlers) SubmitNodeTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	// Decode the JSON in the post call into a transaction.
	var raw database.Tx
	if err := web.Decode(r, &raw); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	tx, err := database.ParseTx(raw)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	// Ask the state package to add this transaction to the mempool and perform
	// any other business logic.
	h.Log.Infow("add tran", "traceid", v.TraceID, "tx", tx)
	h.State.SubmitNodeTransaction(tx)

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "transaction added to mempool",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// ProposeBlock takes a block received from a peer and runs it through the
// acceptance rules. If that passes, the block is added to the local chain.
func (h Handlers) ProposeBlock(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

	// Decode the JSON in the post call into a block.
	var block database.Block
	if err := web.Decode(r, &block); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	// Ask the state package to validate the proposed block. If the block
	// passes validation, it will be added to the blockchain database.
	if err := h.State.AddBlock(block); err != nil {
		if database.IsRejected(err) {
			return errs.NewTrusted(err, http.StatusNotAcceptable)
		}
		return err
	}

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "accepted",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Status returns the current status of the node.
func (h Handlers) Status(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.RetrievePeerStatus(), http.StatusOK)
}

// BlockList returns the whole chain so a new node can bootstrap from it.
func (h Handlers) BlockList(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	blocks := h.State.Chain()
	if blocks == nil {
		blocks = []database.Block{}
	}

	return web.Respond(ctx, w, blocks, http.StatusOK)
}
