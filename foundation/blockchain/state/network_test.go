package state_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/blockchain/genesis"
	"github.com/ardanlabs/powchain/foundation/blockchain/peer"
	"github.com/ardanlabs/powchain/foundation/blockchain/state"
)

// fakePeer serves the private node routes backed by a state value.
func fakePeer(t *testing.T, st *state.State) (*httptest.Server, *[]database.Block) {
	t.Helper()

	var mu sync.Mutex
	var proposed []database.Block

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/node/status", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(st.RetrievePeerStatus())
	})
	mux.HandleFunc("GET /v1/node/block/list", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(st.Chain())
	})
	mux.HandleFunc("POST /v1/node/block/propose", func(w http.ResponseWriter, r *http.Request) {
		var block database.Block
		if err := json.NewDecoder(r.Body).Decode(&block); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		mu.Lock()
		proposed = append(proposed, block)
		mu.Unlock()

		if err := st.AddBlock(block); err != nil {
			http.Error(w, err.Error(), http.StatusNotAcceptable)
			return
		}

		json.NewEncoder(w).Encode(struct {
			Status string `json:"status"`
		}{Status: "accepted"})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return srv, &proposed
}

func hostOf(srv *httptest.Server) string {
	return strings.TrimPrefix(srv.URL, "http://")
}

func Test_Network(t *testing.T) {
	t.Log("Given the need to talk to other nodes.")
	{
		remote, b0 := withGenesis(t)
		b1 := candidate(t, b0.Hash, b0.Timestamp+1000, database.Tx(`"remote"`))
		if err := remote.AddBlock(b1); err != nil {
			t.Fatalf("\t%s\tShould be able to add a block to the remote node: %v", failed, err)
		}

		srv, proposed := fakePeer(t, remote)
		pr := peer.New(hostOf(srv))

		gen := genesis.Default()
		gen.Difficulty = difficulty

		local, err := state.New(state.Config{
			Host:       "127.0.0.1:0",
			Genesis:    gen,
			Delayer:    state.NoDelay,
			KnownPeers: peer.NewPeerSet(pr.Host),
		})
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct the state: %v", failed, err)
		}

		t.Logf("\tTest 0:\tWhen asking a peer for its status.")
		{
			ps, err := local.NetRequestPeerStatus(pr)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to get the status: %v", failed, err)
			}
			if ps.ChainLength != 2 || ps.LatestBlockHash != b1.Hash {
				t.Fatalf("\t%s\tTest 0:\tShould get the remote chain length and latest hash, got %d %s.", failed, ps.ChainLength, ps.LatestBlockHash)
			}
			t.Logf("\t%s\tTest 0:\tShould get the remote chain length and latest hash.", success)
		}

		t.Logf("\tTest 1:\tWhen asking a peer for its chain.")
		{
			blocks, err := local.NetRequestPeerChain(pr)
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to get the chain: %v", failed, err)
			}
			if len(blocks) != 2 || blocks[1].Hash != b1.Hash {
				t.Fatalf("\t%s\tTest 1:\tShould get both blocks, got %d.", failed, len(blocks))
			}
			checkChain(t, blocks)
			t.Logf("\t%s\tTest 1:\tShould get both blocks.", success)

			local.InitializeWith(blocks)
			if local.ChainLength() != 2 {
				t.Fatalf("\t%s\tTest 1:\tShould be able to seed the local chain.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould be able to seed the local chain.", success)
		}

		t.Logf("\tTest 2:\tWhen proposing blocks to a peer.")
		{
			b2 := candidate(t, b1.Hash, b1.Timestamp+1000, database.Tx(`"local"`))
			if err := local.NetSendBlockToPeers(b2); err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould have the peer accept the block: %v", failed, err)
			}
			if remote.ChainLength() != 3 || len(*proposed) != 1 {
				t.Fatalf("\t%s\tTest 2:\tShould have the peer append the block.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould have the peer accept the block.", success)

			stale := candidate(t, b0.Hash, b0.Timestamp+2000, database.Tx(`"late"`))
			err := local.NetSendBlockToPeers(stale)
			if err == nil || !strings.Contains(err.Error(), "406") {
				t.Fatalf("\t%s\tTest 2:\tShould get a rejection from the peer: %v", failed, err)
			}
			t.Logf("\t%s\tTest 2:\tShould get a rejection from the peer.", success)

			if remote.ChainLength() != 3 {
				t.Fatalf("\t%s\tTest 2:\tShould leave the peer chain unchanged.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould leave the peer chain unchanged.", success)
		}
	}
}
