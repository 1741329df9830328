package state_test

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
)

func Test_AddBlock(t *testing.T) {
	st, b0 := withGenesis(t)

	b1 := candidate(t, b0.Hash, b0.Timestamp+1000, database.Tx(`"t1"`))
	if err := st.AddBlock(b1); err != nil {
		t.Fatalf("\t%s\tShould be able to add a block that follows the latest block: %v", failed, err)
	}
	checkChain(t, st.Chain())

	type table struct {
		name   string
		block  func() database.Block
		reason error
	}

	tt := []table{
		{
			name: "stale",
			block: func() database.Block {
				return candidate(t, b0.Hash, b0.Timestamp+2000, database.Tx(`"fork"`))
			},
			reason: database.ErrStaleCandidate,
		},
		{
			name: "unknown",
			block: func() database.Block {
				return candidate(t, strings.Repeat("ab", 32), b0.Timestamp+2000)
			},
			reason: database.ErrUnknownPredecessor,
		},
		{
			name: "mismatch",
			block: func() database.Block {
				b := candidate(t, b1.Hash, b1.Timestamp+1000, database.Tx(`"t2"`))
				b.Hash = "00" + strings.Repeat("f", 62)
				return b
			},
			reason: database.ErrInvalidHash,
		},
		{
			name: "tampered",
			block: func() database.Block {
				b := candidate(t, b1.Hash, b1.Timestamp+1000, database.Tx(`"t2"`))
				b.Transactions = []database.Tx{database.Tx(`"t3"`)}
				return b
			},
			reason: database.ErrInvalidHash,
		},
		{
			name: "stale-and-invalid",
			block: func() database.Block {
				b := candidate(t, b0.Hash, b0.Timestamp+2000)
				b.Hash = "bad"
				return b
			},
			reason: database.ErrStaleCandidate,
		},
	}

	t.Log("Given the need to accept or reject blocks from other nodes.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling a %s block.", testID, tst.name)
			{
				f := func(t *testing.T) {
					before := st.Chain()
					block := tst.block()

					err := st.AddBlock(block)
					if !errors.Is(err, tst.reason) {
						t.Logf("\t%s\tTest %d:\tgot: %v", failed, testID, err)
						t.Logf("\t%s\tTest %d:\texp: %v", failed, testID, tst.reason)
						t.Fatalf("\t%s\tTest %d:\tShould reject the block with the right reason.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould reject the block with the right reason.", success, testID)

					if !strings.Contains(err.Error(), database.Short(block.Hash)) {
						t.Fatalf("\t%s\tTest %d:\tShould name the block in the error: %s", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould name the block in the error.", success, testID)

					after := st.Chain()
					if len(after) != len(before) || after[len(after)-1].Hash != before[len(before)-1].Hash {
						t.Fatalf("\t%s\tTest %d:\tShould leave the chain unchanged.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould leave the chain unchanged.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func Test_AddBlockRevalidate(t *testing.T) {
	st, b0 := withGenesis(t)

	b1 := candidate(t, b0.Hash, b0.Timestamp+1000, database.Tx(`{"amount":1}`))
	if err := st.AddBlock(b1); err != nil {
		t.Fatalf("\t%s\tShould be able to add the block: %v", failed, err)
	}

	other := newState(t, difficulty, nil)
	other.InitializeWith([]database.Block{b0})

	if err := other.AddBlock(st.Chain()[1]); err != nil {
		t.Fatalf("\t%s\tShould accept a block another node accepted: %v", failed, err)
	}
	t.Logf("\t%s\tShould accept a block another node accepted.", success)

	if err := other.AddBlock(b1); !errors.Is(err, database.ErrStaleCandidate) {
		t.Fatalf("\t%s\tShould reject the same block a second time as stale: %v", failed, err)
	}
	t.Logf("\t%s\tShould reject the same block a second time as stale.", success)
}

func Test_ForkChoice(t *testing.T) {
	t.Log("Given the need to keep the longest local tail.")
	{
		st, b0 := withGenesis(t)

		chain := []database.Block{b0}
		for i := 1; i <= 3; i++ {
			prev := chain[len(chain)-1]
			b := candidate(t, prev.Hash, prev.Timestamp+1000, database.Tx(`"main"`))
			if err := st.AddBlock(b); err != nil {
				t.Fatalf("\t%s\tShould be able to grow the chain: %v", failed, err)
			}
			chain = append(chain, b)
		}
		t.Logf("\t%s\tShould be able to grow the chain to %d blocks.", success, len(chain))

		for i := 0; i < len(chain)-1; i++ {
			b := candidate(t, chain[i].Hash, chain[i].Timestamp+500, database.Tx(`"fork"`))
			if err := st.AddBlock(b); !errors.Is(err, database.ErrStaleCandidate) {
				t.Fatalf("\t%s\tShould reject a valid block anchored at %d: %v", failed, i, err)
			}
		}
		t.Logf("\t%s\tShould reject every valid block anchored before the latest block.", success)

		checkChain(t, st.Chain())
		if st.ChainLength() != len(chain) {
			t.Fatalf("\t%s\tShould keep %d blocks, got %d.", failed, len(chain), st.ChainLength())
		}
		t.Logf("\t%s\tShould keep the chain unchanged.", success)
	}
}

func Test_ConcurrentAddBlock(t *testing.T) {
	t.Log("Given the need to serialize blocks that race for the same position.")
	{
		st, b0 := withGenesis(t)

		const racers = 8

		blocks := make([]database.Block, racers)
		for i := range blocks {
			blocks[i] = candidate(t, b0.Hash, b0.Timestamp+int64(i+1), database.Tx(`"race"`))
		}

		var wg sync.WaitGroup
		errs := make([]error, racers)
		for i := range blocks {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs[i] = st.AddBlock(blocks[i])
			}(i)
		}
		wg.Wait()

		var accepted, stale int
		for _, err := range errs {
			switch {
			case err == nil:
				accepted++
			case errors.Is(err, database.ErrStaleCandidate):
				stale++
			default:
				t.Fatalf("\t%s\tShould only get stale rejections: %v", failed, err)
			}
		}

		if accepted != 1 || stale != racers-1 {
			t.Fatalf("\t%s\tShould accept exactly one block, accepted %d stale %d.", failed, accepted, stale)
		}
		t.Logf("\t%s\tShould accept exactly one block.", success)

		if st.ChainLength() != 2 {
			t.Fatalf("\t%s\tShould have two blocks, got %d.", failed, st.ChainLength())
		}
		checkChain(t, st.Chain())
		t.Logf("\t%s\tShould keep the chain sound.", success)
	}
}

func Test_SnapshotCopies(t *testing.T) {
	st, b0 := withGenesis(t)

	st.AddTransaction(database.Tx(`"pending"`))

	chain := st.Chain()
	chain[0].Hash = "changed"
	pending := st.PendingTransactions()
	pending[0] = database.Tx(`"changed"`)

	if latest, _ := st.LatestBlock(); latest.Hash != b0.Hash {
		t.Fatalf("\t%s\tShould not be able to change the chain through a copy.", failed)
	}
	t.Logf("\t%s\tShould not be able to change the chain through a copy.", success)

	if got := st.PendingTransactions(); got[0].String() != `"pending"` {
		t.Fatalf("\t%s\tShould not be able to change the mempool through a copy.", failed)
	}
	t.Logf("\t%s\tShould not be able to change the mempool through a copy.", success)
}
