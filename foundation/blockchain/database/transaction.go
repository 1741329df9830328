package database

import (
	"bytes"
	"encoding/json"
	"errors"
)

// Tx represents an opaque transaction payload. The node attaches no meaning
// to the content beyond it being a valid JSON value, which is what gets
// hashed into the block.
type Tx json.RawMessage

// ParseTx constructs a transaction from raw JSON. The data is compacted so
// the same value always produces the same bytes.
func ParseTx(data []byte) (Tx, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return nil, errors.New("transaction is not valid json")
	}

	return Tx(buf.Bytes()), nil
}

// MarshalJSON implements the json.Marshaler interface.
func (tx Tx) MarshalJSON() ([]byte, error) {
	if len(tx) == 0 {
		return []byte("null"), nil
	}

	return tx, nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (tx *Tx) UnmarshalJSON(data []byte) error {
	*tx = append((*tx)[0:0], data...)
	return nil
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	return string(tx)
}

// Equal reports whether both transactions hold the same bytes.
func (tx Tx) Equal(other Tx) bool {
	return bytes.Equal(tx, other)
}

// clone makes a copy of the transaction so the caller can't mutate
// shared state.
func (tx Tx) clone() Tx {
	if tx == nil {
		return nil
	}

	return bytes.Clone(tx)
}

// cloneTrans makes a deep copy of a list of transactions.
func cloneTrans(trans []Tx) []Tx {
	if trans == nil {
		return nil
	}

	out := make([]Tx, len(trans))
	for i, tx := range trans {
		out[i] = tx.clone()
	}

	return out
}

// encodeTrans produces the JSON form of the transactions used for hashing.
// An empty list is always encoded as [] and never as null.
func encodeTrans(trans []Tx) ([]byte, error) {
	if len(trans) == 0 {
		return []byte("[]"), nil
	}

	return json.Marshal(trans)
}
