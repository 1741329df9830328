package genesis_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ardanlabs/powchain/foundation/blockchain/digest"
	"github.com/ardanlabs/powchain/foundation/blockchain/genesis"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_Load(t *testing.T) {
	dir := t.TempDir()

	t.Log("Given the need to load the genesis settings.")
	{
		t.Logf("\tTest 0:\tWhen the file does not exist.")
		{
			gen, err := genesis.Load(filepath.Join(dir, "missing.json"))
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to fall back to defaults: %v", failed, err)
			}
			if gen != genesis.Default() {
				t.Fatalf("\t%s\tTest 0:\tShould get the default settings: %+v", failed, gen)
			}
			t.Logf("\t%s\tTest 0:\tShould get the default settings.", success)
		}

		t.Logf("\tTest 1:\tWhen the file overrides the difficulty and algorithm.")
		{
			path := filepath.Join(dir, "genesis.json")
			if err := os.WriteFile(path, []byte(`{"difficulty":2,"hash_algorithm":"keccak256"}`), 0600); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to write the file: %v", failed, err)
			}

			gen, err := genesis.Load(path)
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to load the file: %v", failed, err)
			}
			if gen.Difficulty != 2 || gen.HashAlgorithm != digest.AlgorithmKeccak256 {
				t.Fatalf("\t%s\tTest 1:\tShould get the file settings: %+v", failed, gen)
			}
			t.Logf("\t%s\tTest 1:\tShould get the file settings.", success)
		}

		t.Logf("\tTest 2:\tWhen the file names an unknown algorithm.")
		{
			path := filepath.Join(dir, "bad.json")
			if err := os.WriteFile(path, []byte(`{"hash_algorithm":"md5"}`), 0600); err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould be able to write the file: %v", failed, err)
			}

			if _, err := genesis.Load(path); err == nil {
				t.Fatalf("\t%s\tTest 2:\tShould not be able to load the file.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould not be able to load the file.", success)
		}
	}
}
