package main

import (
	"path/filepath"
	"testing"

	"github.com/ardanlabs/powchain/foundation/blockchain/genesis"
)

func Test_LoadGenesis(t *testing.T) {
	const (
		success = "\u2713"
		failed  = "\u2717"
	)

	// A missing file gives the default rules.
	path := filepath.Join(t.TempDir(), "genesis.json")
	def := genesis.Default()

	t.Log("Given the need to override the genesis rules from the configuration.")
	{
		t.Logf("\tTest 0:\tWhen the difficulty is zero.")
		{
			gen, err := loadGenesis(path, 0, "")
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to load the genesis: %v", failed, err)
			}
			if gen.Difficulty != def.Difficulty || gen.HashAlgorithm != def.HashAlgorithm {
				t.Fatalf("\t%s\tTest 0:\tShould keep the file rules, got %+v", failed, gen)
			}
			t.Logf("\t%s\tTest 0:\tShould keep the file rules.", success)
		}

		t.Logf("\tTest 1:\tWhen the difficulty is set.")
		{
			gen, err := loadGenesis(path, def.Difficulty+1, "")
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to load the genesis: %v", failed, err)
			}
			if gen.Difficulty != def.Difficulty+1 {
				t.Fatalf("\t%s\tTest 1:\tShould use the configured difficulty, got %d", failed, gen.Difficulty)
			}
			t.Logf("\t%s\tTest 1:\tShould use the configured difficulty.", success)
		}
	}
}
