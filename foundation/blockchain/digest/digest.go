// Package digest provides the hash primitives used to fingerprint blocks.
// Every primitive returns the lowercase hexadecimal form of the digest so
// the proof of work can be checked as a prefix of zero characters.
package digest

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/blake2b"
)

// List of the supported hash algorithms.
const (
	AlgorithmSHA256    = "sha256"
	AlgorithmKeccak256 = "keccak256"
	AlgorithmBlake2b   = "blake2b"
)

// Map of the supported hash algorithms with functions.
var algorithms = map[string]Func{
	AlgorithmSHA256:    SHA256,
	AlgorithmKeccak256: Keccak256,
	AlgorithmBlake2b:   Blake2b,
}

// Func defines a function that takes a set of bytes and produces the hex
// encoded digest for those bytes. The same input MUST always produce the
// same output.
type Func func(data []byte) string

// Retrieve returns the specified hash function.
func Retrieve(algorithm string) (Func, error) {
	fn, exists := algorithms[strings.ToLower(algorithm)]
	if !exists {
		return nil, fmt.Errorf("algorithm %q does not exist", algorithm)
	}
	return fn, nil
}

// =============================================================================

// SHA256 returns the hex encoded sha256 digest of the data.
func SHA256(data []byte) string {
	hash := sha256.Sum256(data)
	return common.Bytes2Hex(hash[:])
}

// Keccak256 returns the hex encoded keccak256 digest of the data, the same
// hash Ethereum uses.
func Keccak256(data []byte) string {
	return common.Bytes2Hex(crypto.Keccak256(data))
}

// Blake2b returns the hex encoded 256 bit blake2b digest of the data.
func Blake2b(data []byte) string {
	hash := blake2b.Sum256(data)
	return common.Bytes2Hex(hash[:])
}
