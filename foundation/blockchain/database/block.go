package database

import (
	"context"

	"github.com/ardanlabs/ledger/foundation/blockchain/signature"
)

// BlockHeader represents common information required for each block.
type BlockHeader struct {
	Number        uint64 `json:"number"`          // Position of the block in the chain.
	TimeStamp     uint64 `json:"timestamp"`       // Time the block was created in unix milliseconds. Not validated.
	PrevBlockHash string `json:"prev_block_hash"` // Hash of the previous block in the chain.
	Nonce         uint64 `json:"nonce"`           // Value identified to solve the hash solution.
}

// Block represents content bound to its predecessor by hash.
type Block[P Payload[P]] struct {
	Header  BlockHeader `json:"header"`
	Payload P           `json:"payload"`
	Hash    string      `json:"hash"`
}

// NewBlock constructs a block with a zero nonce and its hash computed from
// the initial state.
func NewBlock[P Payload[P]](number uint64, timeStamp uint64, payload P, prevBlockHash string) Block[P] {
	b := Block[P]{
		Header: BlockHeader{
			Number:        number,
			TimeStamp:     timeStamp,
			PrevBlockHash: prevBlockHash,
		},
		Payload: payload,
	}
	b.RecomputeHash()

	return b
}

// CalculateHash returns the hash for the current field values of the block
// without changing the stored hash.
func (b Block[P]) CalculateHash() string {
	return headerHash(b.Header, b.Payload.Digest())
}

// RecomputeHash overwrites the stored hash from the current field values.
func (b *Block[P]) RecomputeHash() {
	b.Hash = b.CalculateHash()
}

// IsSolved reports if the stored hash satisfies the difficulty.
func (b Block[P]) IsSolved(difficulty uint) bool {
	return IsHashSolved(difficulty, b.Hash)
}

// Clone returns a copy of the block that shares no content.
func (b Block[P]) Clone() Block[P] {
	b.Payload = b.Payload.Clone()
	return b
}

// =============================================================================

// MineResult describes the outcome of a bounded proof of work search.
type MineResult struct {
	Solved   bool   `json:"solved"`
	Nonce    uint64 `json:"nonce"`
	Attempts uint64 `json:"attempts"`
}

// Mine does the work of finding a nonce whose block hash has difficulty
// leading zeros. The nonce is incremented by 1 from its current value. A
// maxAttempts of 0 means the search is unbounded. When the attempts run out
// the result is returned with Solved set to false so the caller can decide to
// retry. Pointer semantics are being used since a nonce is being discovered.
func (b *Block[P]) Mine(ctx context.Context, difficulty uint, maxAttempts uint64, ev func(v string, args ...any)) (MineResult, error) {
	if ev == nil {
		ev = func(string, ...any) {}
	}

	ev("database: Mine: MINING: started: blk[%d]: difficulty[%d]", b.Header.Number, difficulty)
	defer ev("database: Mine: MINING: completed: blk[%d]", b.Header.Number)

	// The payload can't change while mining so it is only digested once.
	digest := b.Payload.Digest()
	b.Hash = headerHash(b.Header, digest)

	var attempts uint64
	for {
		if IsHashSolved(difficulty, b.Hash) {
			ev("database: Mine: MINING: SOLVED: prevBlk[%s]: newBlk[%s]: attempts[%d]", b.Header.PrevBlockHash, b.Hash, attempts)
			return MineResult{Solved: true, Nonce: b.Header.Nonce, Attempts: attempts}, nil
		}

		if maxAttempts > 0 && attempts >= maxAttempts {
			ev("database: Mine: MINING: EXHAUSTED: attempts[%d]", attempts)
			return MineResult{Nonce: b.Header.Nonce, Attempts: attempts}, nil
		}

		// Did we get cancelled trying to solve the problem.
		if ctx.Err() != nil {
			ev("database: Mine: MINING: CANCELLED: attempts[%d]", attempts)
			return MineResult{Nonce: b.Header.Nonce, Attempts: attempts}, ctx.Err()
		}

		attempts++
		if attempts%1_000_000 == 0 {
			ev("database: Mine: MINING: attempts[%d]", attempts)
		}

		b.Header.Nonce++
		b.Hash = headerHash(b.Header, digest)
	}
}

// IsHashSolved checks the hash to make sure it complies with the POW rules.
// We need to match a difficulty number of leading '0' characters.
func IsHashSolved(difficulty uint, hash string) bool {
	if difficulty > uint(len(hash)) {
		return false
	}

	for i := range difficulty {
		if hash[i] != '0' {
			return false
		}
	}

	return true
}

// =============================================================================

// headerHash is the hash function for blocks. The fields are hashed in the
// order number, timestamp, previous hash, payload, nonce.
func headerHash(h BlockHeader, payloadDigest string) string {
	v := struct {
		Number        uint64 `json:"number"`
		TimeStamp     uint64 `json:"timestamp"`
		PrevBlockHash string `json:"prev_block_hash"`
		Payload       string `json:"payload"`
		Nonce         uint64 `json:"nonce"`
	}{
		Number:        h.Number,
		TimeStamp:     h.TimeStamp,
		PrevBlockHash: h.PrevBlockHash,
		Payload:       payloadDigest,
		Nonce:         h.Nonce,
	}

	return signature.Hash(v)
}
