// Package signature provides helper functions for producing the content
// digests used to address blocks and transactions.
package signature

import (
	"crypto/sha256"
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"
)

// ZeroHash represents a hash code of zeros.
const ZeroHash string = "0000000000000000000000000000000000000000000000000000000000000000"

// HashLength is the number of hex characters in a digest.
const HashLength = 2 * sha256.Size

// =============================================================================

// Hash returns a unique string for the value. The value is marshaled to JSON
// which gives a stable field order for structs and sorted keys for maps.
func Hash(value any) string {
	data, err := json.Marshal(value)
	if err != nil {
		return ZeroHash
	}

	return HashBytes(data)
}

// HashBytes returns the hex encoded sha256 digest of the data.
func HashBytes(data []byte) string {
	hash := sha256.Sum256(data)
	return common.Bytes2Hex(hash[:])
}

// HashRaw returns the raw sha256 digest of the JSON form of the value.
func HashRaw(value any) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	hash := sha256.Sum256(data)
	return hash[:], nil
}
