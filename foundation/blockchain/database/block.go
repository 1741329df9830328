package database

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/ardanlabs/powchain/foundation/blockchain/digest"
)

// GenesisHash is the previous hash carried by the first block of a chain
// since there is no block before it.
const GenesisHash = "0"

// Set of reasons a proposed block can be rejected.
var (
	ErrUnknownPredecessor = errors.New("unknown predecessor")
	ErrStaleCandidate     = errors.New("stale candidate")
	ErrInvalidHash        = errors.New("invalid hash")
)

// ErrCancelled is returned when a mining operation is stopped before a
// solution is found.
var ErrCancelled = errors.New("mining cancelled")

// =============================================================================

// Block represents a group of transactions batched together. A block is never
// changed once it has been given a hash.
type Block struct {
	PreviousHash string `json:"previous_hash"` // Hash of the previous block in the chain or GenesisHash.
	Timestamp    int64  `json:"timestamp"`     // Time in milliseconds the block was assembled.
	Transactions []Tx   `json:"transactions"`  // Opaque payloads mined into this block.
	Nonce        uint64 `json:"nonce"`         // Value identified to solve the hash solution.
	Hash         string `json:"hash"`          // Digest of the fields above.
}

// IsGenesis reports whether this is the first block of a chain.
func (b Block) IsGenesis() bool {
	return b.PreviousHash == GenesisHash
}

// ShortHash returns the first characters of the hash for display.
func (b Block) ShortHash() string {
	return Short(b.Hash)
}

// CalculateHash recomputes the digest for the block from its declared fields.
// The declared Hash field is not part of the computation.
func (b Block) CalculateHash(fn digest.Func) (string, error) {
	prefix, err := hashPrefix(b.PreviousHash, b.Timestamp, b.Transactions)
	if err != nil {
		return "", err
	}

	return fn(strconv.AppendUint(prefix, b.Nonce, 10)), nil
}

// ValidateBlock takes a block and validates it against the block it claims
// to follow. The block must already have been matched to previousBlock by
// its previous hash.
func (b Block) ValidateBlock(previousBlock Block, difficulty uint, fn digest.Func, evHandler func(v string, args ...any)) error {
	evHandler("database: ValidateBlock: validate: blk[%s]: check: hash matches block content", b.ShortHash())

	hash, err := b.CalculateHash(fn)
	if err != nil {
		return Reject(b, ErrInvalidHash, fmt.Sprintf("unable to hash block, %s", err))
	}

	if hash != b.Hash {
		return Reject(b, ErrInvalidHash, fmt.Sprintf("hash verification has failed, got %s, exp %s", Short(b.Hash), Short(hash)))
	}

	evHandler("database: ValidateBlock: validate: blk[%s]: check: block hash has been solved", b.ShortHash())

	if !IsHashSolved(difficulty, hash) {
		return Reject(b, ErrInvalidHash, fmt.Sprintf("hash does not meet difficulty %d", difficulty))
	}

	evHandler("database: ValidateBlock: validate: blk[%s]: check: previous hash does match previous block", b.ShortHash())

	if b.PreviousHash != previousBlock.Hash {
		return Reject(b, ErrInvalidHash, fmt.Sprintf("previous block hash doesn't match, got %s, exp %s", Short(b.PreviousHash), Short(previousBlock.Hash)))
	}

	return nil
}

// clone makes a deep copy of the block.
func (b Block) clone() Block {
	b.Transactions = cloneTrans(b.Transactions)
	return b
}

// =============================================================================

// POWArgs represents the set of arguments required to run POW.
type POWArgs struct {
	PreviousHash string
	Timestamp    int64
	Trans        []Tx
	Difficulty   uint
	Digest       digest.Func
	EvHandler    func(v string, args ...any)
}

// POW constructs a new Block and performs the work to find a nonce that
// solves the cryptographic POW puzzle. There is no limit on the number of
// attempts, only the context can stop the search.
func POW(ctx context.Context, args POWArgs) (Block, error) {
	ev := args.EvHandler
	if ev == nil {
		ev = func(string, ...any) {}
	}

	nb := Block{
		PreviousHash: args.PreviousHash,
		Timestamp:    args.Timestamp,
		Transactions: cloneTrans(args.Trans),
	}

	// A block without transactions still carries an empty list.
	if nb.Transactions == nil {
		nb.Transactions = []Tx{}
	}

	// The previous hash, timestamp and transactions don't change while
	// searching, so only the nonce is appended on each attempt.
	prefix, err := hashPrefix(nb.PreviousHash, nb.Timestamp, nb.Transactions)
	if err != nil {
		return Block{}, err
	}

	if err := nb.performPOW(ctx, prefix, args.Difficulty, args.Digest, ev); err != nil {
		return Block{}, err
	}

	return nb, nil
}

// performPOW does the work of mining to find a valid hash for a specified
// block. Pointer semantics are being used since a nonce is being discovered.
func (b *Block) performPOW(ctx context.Context, prefix []byte, difficulty uint, fn digest.Func, ev func(v string, args ...any)) error {
	ev("database: PerformPOW: MINING: started")
	defer ev("database: PerformPOW: MINING: completed")

	for _, tx := range b.Transactions {
		ev("database: PerformPOW: MINING: tx[%s]", tx)
	}

	data := make([]byte, len(prefix), len(prefix)+20)
	copy(data, prefix)

	var nonce uint64
	for {
		nonce++
		if nonce%1_000_000 == 0 {
			ev("database: PerformPOW: MINING: attempts[%d]", nonce)
		}

		if ctx.Err() != nil {
			ev("database: PerformPOW: MINING: CANCELLED")
			return fmt.Errorf("%w: %w", ErrCancelled, ctx.Err())
		}

		hash := fn(strconv.AppendUint(data[:len(prefix)], nonce, 10))
		if !IsHashSolved(difficulty, hash) {
			continue
		}

		b.Nonce = nonce
		b.Hash = hash

		ev("database: PerformPOW: MINING: SOLVED: prevBlk[%s]: newBlk[%s]", Short(b.PreviousHash), Short(hash))
		ev("database: PerformPOW: MINING: attempts[%d]", nonce)

		return nil
	}
}

// IsHashSolved checks the hash to make sure it complies with the POW rules.
// We need to match a difficulty number of leading 0's.
func IsHashSolved(difficulty uint, hash string) bool {
	const match = "0000000000000000000000000000000000000000000000000000000000000000"

	if difficulty > uint(len(match)) || uint(len(hash)) < difficulty {
		return false
	}

	return hash[:difficulty] == match[:difficulty]
}

// =============================================================================

// hashPrefix builds the part of the hashed content that doesn't depend on
// the nonce.
func hashPrefix(previousHash string, timestamp int64, trans []Tx) ([]byte, error) {
	txData, err := encodeTrans(trans)
	if err != nil {
		return nil, err
	}

	data := make([]byte, 0, len(previousHash)+20+len(txData))
	data = append(data, previousHash...)
	data = strconv.AppendInt(data, timestamp, 10)
	data = append(data, txData...)

	return data, nil
}

// Short returns the first 8 characters of a hash for display.
func Short(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}
