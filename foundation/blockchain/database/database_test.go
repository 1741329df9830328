package database_test

import (
	"errors"
	"testing"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
)

func Test_Database(t *testing.T) {
	t.Log("Given the need to manage the chain of blocks.")
	{
		db := database.New()

		t.Logf("\tTest 0:\tWhen the database is new.")
		{
			if !db.IsEmpty() {
				t.Fatalf("\t%s\tTest 0:\tShould be empty.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould be empty.", success)

			if _, err := db.LatestBlock(); !errors.Is(err, database.ErrChainEmpty) {
				t.Fatalf("\t%s\tTest 0:\tShould get ErrChainEmpty for the latest block: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould get ErrChainEmpty for the latest block.", success)
		}

		genesis := mine(t, database.GenesisHash, 1_700_000_000_000, nil)
		next := mine(t, genesis.Hash, 1_700_000_001_000, []database.Tx{tx(t, "t1")})

		t.Logf("\tTest 1:\tWhen blocks are appended.")
		{
			db.Append(genesis)
			db.Append(next)

			if db.Length() != 2 {
				t.Fatalf("\t%s\tTest 1:\tShould have two blocks, got %d.", failed, db.Length())
			}
			t.Logf("\t%s\tTest 1:\tShould have two blocks.", success)

			latest, err := db.LatestBlock()
			if err != nil || latest.Hash != next.Hash {
				t.Fatalf("\t%s\tTest 1:\tShould get the last block as the latest: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould get the last block as the latest.", success)

			if idx := db.IndexOf(genesis.Hash); idx != 0 {
				t.Fatalf("\t%s\tTest 1:\tShould find the genesis block at 0, got %d.", failed, idx)
			}
			if idx := db.IndexOf("missing"); idx != -1 {
				t.Fatalf("\t%s\tTest 1:\tShould not find a missing block, got %d.", failed, idx)
			}
			t.Logf("\t%s\tTest 1:\tShould be able to find blocks by hash.", success)

			if _, exists := db.GetBlock(2); exists {
				t.Fatalf("\t%s\tTest 1:\tShould not get a block past the end.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould not get a block past the end.", success)
		}

		t.Logf("\tTest 2:\tWhen a caller changes a copy of the chain.")
		{
			chain := db.Copy()
			chain[1].Transactions[0][0] = 'X'
			chain[1].Hash = "changed"
			chain = append(chain[:0], chain[1:]...)

			got, _ := db.GetBlock(1)
			if got.Hash != next.Hash || !got.Transactions[0].Equal(next.Transactions[0]) {
				t.Fatalf("\t%s\tTest 2:\tShould not be able to change the chain through a copy.", failed)
			}
			if db.Length() != 2 {
				t.Fatalf("\t%s\tTest 2:\tShould still have two blocks.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould not be able to change the chain through a copy.", success)
		}

		t.Logf("\tTest 3:\tWhen the chain is initialized with a known chain.")
		{
			db.InitializeWith([]database.Block{genesis})

			if db.Length() != 1 {
				t.Fatalf("\t%s\tTest 3:\tShould replace the chain, got %d blocks.", failed, db.Length())
			}
			t.Logf("\t%s\tTest 3:\tShould replace the chain.", success)
		}
	}
}

func Test_Tx(t *testing.T) {
	t.Log("Given the need to handle opaque transactions.")
	{
		parsed, err := database.ParseTx([]byte(`{ "amount" : 10,  "to": "ale" }`))
		if err != nil {
			t.Fatalf("\t%s\tShould be able to parse json: %v", failed, err)
		}
		if parsed.String() != `{"amount":10,"to":"ale"}` {
			t.Fatalf("\t%s\tShould compact the json, got %s.", failed, parsed)
		}
		t.Logf("\t%s\tShould be able to parse and compact json.", success)

		if _, err := database.ParseTx([]byte(`{"amount"`)); err == nil {
			t.Fatalf("\t%s\tShould not be able to parse invalid json.", failed)
		}
		t.Logf("\t%s\tShould not be able to parse invalid json.", success)

		built := tx(t, map[string]any{"amount": 10, "to": "ale"})
		if !built.Equal(parsed) {
			t.Fatalf("\t%s\tShould get the same bytes from a value and its json, got %s.", failed, built)
		}
		t.Logf("\t%s\tShould get the same bytes from a value and its json.", success)
	}
}
