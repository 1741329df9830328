package digest_test

import (
	"testing"

	"github.com/ardanlabs/powchain/foundation/blockchain/digest"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// =============================================================================

func Test_Digest(t *testing.T) {
	type table struct {
		name      string
		algorithm string
		data      []byte
		exp       string
	}

	tt := []table{
		{
			name:      "sha256",
			algorithm: digest.AlgorithmSHA256,
			data:      []byte("abc"),
			exp:       "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
		},
		{
			name:      "keccak256",
			algorithm: digest.AlgorithmKeccak256,
			data:      []byte(""),
			exp:       "c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470",
		},
	}

	t.Log("Given the need to hash data with a known algorithm.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling algorithm %s.", testID, tst.algorithm)
			{
				f := func(t *testing.T) {
					fn, err := digest.Retrieve(tst.algorithm)
					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to retrieve the algorithm: %v", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould be able to retrieve the algorithm.", success, testID)

					got := fn(tst.data)
					if got != tst.exp {
						t.Logf("\t%s\tTest %d:\tgot: %s", failed, testID, got)
						t.Logf("\t%s\tTest %d:\texp: %s", failed, testID, tst.exp)
						t.Fatalf("\t%s\tTest %d:\tShould get back the known digest.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould get back the known digest.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func Test_Determinism(t *testing.T) {
	data := []byte(`0123[{"amount":10}]7`)

	for _, algorithm := range []string{digest.AlgorithmSHA256, digest.AlgorithmKeccak256, digest.AlgorithmBlake2b} {
		fn, err := digest.Retrieve(algorithm)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to retrieve %s: %v", failed, algorithm, err)
		}

		h1 := fn(data)
		h2 := fn(data)
		if h1 != h2 {
			t.Fatalf("\t%s\tShould get the same %s digest for the same data.", failed, algorithm)
		}
		if len(h1) != 64 {
			t.Fatalf("\t%s\tShould get a 64 character %s digest, got %d.", failed, algorithm, len(h1))
		}
		t.Logf("\t%s\tShould get a stable 64 character %s digest.", success, algorithm)
	}
}

func Test_RetrieveUnknown(t *testing.T) {
	if _, err := digest.Retrieve("md5"); err == nil {
		t.Fatalf("\t%s\tShould not be able to retrieve an unknown algorithm.", failed)
	}
	t.Logf("\t%s\tShould not be able to retrieve an unknown algorithm.", success)

	if _, err := digest.Retrieve("SHA256"); err != nil {
		t.Fatalf("\t%s\tShould retrieve an algorithm regardless of case: %v", failed, err)
	}
	t.Logf("\t%s\tShould retrieve an algorithm regardless of case.", success)
}
