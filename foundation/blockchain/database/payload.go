package database

import (
	"bytes"
	"encoding/json"
	"slices"

	"github.com/ardanlabs/ledger/foundation/blockchain/merkle"
	"github.com/ardanlabs/ledger/foundation/blockchain/signature"
)

// Payload represents the behavior the content of a block must exhibit. A
// chain carries exactly one payload type: Data or Transactions.
type Payload[P any] interface {

	// Digest returns the canonical commitment of the content that is
	// included in the block hash.
	Digest() string

	// Clone returns a deep copy so a block never shares its content.
	Clone() P
}

// =============================================================================

// Data is a payload carrying an arbitrary JSON serializable value.
type Data struct {
	raw json.RawMessage
}

// NewData constructs a data payload. The value is reduced to its canonical
// JSON form once so the bytes used for hashing are fixed at construction.
func NewData(value any) (Data, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return Data{}, err
	}

	raw, err := canonical(data)
	if err != nil {
		return Data{}, err
	}

	return Data{raw: raw}, nil
}

// Digest implements the Payload interface.
func (d Data) Digest() string {
	return signature.HashBytes(d.raw)
}

// Clone implements the Payload interface.
func (d Data) Clone() Data {
	return Data{raw: slices.Clone(d.raw)}
}

// Decode unmarshals the value into the specified destination.
func (d Data) Decode(v any) error {
	return json.Unmarshal(d.raw, v)
}

// MarshalJSON implements the json.Marshaler interface.
func (d Data) MarshalJSON() ([]byte, error) {
	if len(d.raw) == 0 {
		return []byte("null"), nil
	}

	return d.raw, nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (d *Data) UnmarshalJSON(data []byte) error {
	raw, err := canonical(data)
	if err != nil {
		return err
	}

	d.raw = raw
	return nil
}

// canonical decodes and re-encodes the JSON document so object keys are
// sorted and whitespace is removed. Numbers keep their literal form.
func canonical(data []byte) (json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}

	return json.Marshal(v)
}

// =============================================================================

// Transactions is a payload carrying an ordered batch of transactions. The
// batch is committed through the root of a merkle tree and its length.
type Transactions []Tx

// Digest implements the Payload interface. An empty batch commits to the
// zero hash. The tree pads an odd level by duplicating its last node, so the
// root alone can't tell [a,b,c] from [a,b,c,c] and the count is hashed with it.
func (ts Transactions) Digest() string {
	if len(ts) == 0 {
		return signature.ZeroHash
	}

	tree, err := merkle.NewTree([]Tx(ts))
	if err != nil {
		return signature.ZeroHash
	}

	v := struct {
		Count int    `json:"count"`
		Root  string `json:"root"`
	}{
		Count: len(ts),
		Root:  tree.RootHex(),
	}

	return signature.Hash(v)
}

// Clone implements the Payload interface.
func (ts Transactions) Clone() Transactions {
	return append(Transactions{}, ts...)
}
