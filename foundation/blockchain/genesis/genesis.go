// Package genesis maintains access to the genesis file, which holds the
// consensus settings every node in a network must share.
package genesis

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ardanlabs/powchain/foundation/blockchain/digest"
)

// Genesis represents the genesis file.
type Genesis struct {
	Date          time.Time `json:"date"`
	Difficulty    uint      `json:"difficulty"`     // Number of leading 0's a block hash must have.
	HashAlgorithm string    `json:"hash_algorithm"` // Name of the digest used to hash blocks.
}

// Default returns the settings used when no genesis file exists.
func Default() Genesis {
	return Genesis{
		Date:          time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		Difficulty:    4,
		HashAlgorithm: digest.AlgorithmSHA256,
	}
}

// =============================================================================

// Load opens and consumes the genesis file. If the file does not exist the
// default settings are returned.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Genesis{}, err
	}

	genesis := Default()
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, fmt.Errorf("decoding genesis: %w", err)
	}

	if err := genesis.Validate(); err != nil {
		return Genesis{}, err
	}

	return genesis, nil
}

// Validate checks the genesis settings can be used to run a node.
func (g Genesis) Validate() error {
	if g.Difficulty > 64 {
		return fmt.Errorf("difficulty %d is larger than a hash", g.Difficulty)
	}

	if _, err := digest.Retrieve(g.HashAlgorithm); err != nil {
		return err
	}

	return nil
}

// Digest returns the hash function configured for this chain.
func (g Genesis) Digest() (digest.Func, error) {
	return digest.Retrieve(g.HashAlgorithm)
}
