// Package database handles the lower level support for maintaining the
// blockchain in memory: blocks, their payloads, mining and integrity checks.
package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// Set of error variables for chain operations.
var (
	ErrEmptyChain      = errors.New("chain has no blocks")
	ErrMiningExhausted = errors.New("mining attempts exhausted")
	ErrTipChanged      = errors.New("chain tip changed while mining")
	ErrBlockNotFound   = errors.New("block not found")
)

// GenesisPrevHash is the previous hash carried by a genesis block.
const GenesisPrevHash = "0"

// =============================================================================

// IntegrityError identifies the first block found to be tampered with.
type IntegrityError struct {
	Number uint64
	Reason string
}

// Error implements the error interface.
func (ie *IntegrityError) Error() string {
	return fmt.Sprintf("blk[%d]: %s", ie.Number, ie.Reason)
}

// Reasons reported by an IntegrityError.
const (
	ReasonHashMismatch     = "stored hash doesn't match block content"
	ReasonPrevHashMismatch = "previous hash doesn't match parent block"
)

// =============================================================================

// Config represents the configuration for a chain.
type Config struct {
	Difficulty  uint                        // Number of 0's needed to solve the hash solution.
	MaxAttempts uint64                      // Cap on nonces tried per block, 0 means unbounded.
	EvHandler   func(v string, args ...any) // Receives mining events, may be nil.
}

// Chain is an append-only sequence of blocks. Index 0 is the genesis block.
// The chain owns its blocks, values going in and out are copies.
type Chain[P Payload[P]] struct {
	mu          sync.RWMutex
	difficulty  uint
	maxAttempts uint64
	evHandler   func(v string, args ...any)
	blocks      []Block[P]
}

// NewChain constructs a chain starting with the specified genesis block.
func NewChain[P Payload[P]](genesis Block[P], cfg Config) *Chain[P] {
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	return &Chain[P]{
		difficulty:  cfg.Difficulty,
		maxAttempts: cfg.MaxAttempts,
		evHandler:   ev,
		blocks:      []Block[P]{genesis.Clone()},
	}
}

// GenesisBlock returns the fixed first block of a chain. It has no real
// predecessor and is never mined.
func GenesisBlock[P Payload[P]](timeStamp uint64, payload P) Block[P] {
	return NewBlock(0, timeStamp, payload, GenesisPrevHash)
}

// NewDataChain constructs a chain carrying arbitrary data with the value as
// the content of the genesis block.
func NewDataChain(timeStamp uint64, value any, cfg Config) (*Chain[Data], error) {
	data, err := NewData(value)
	if err != nil {
		return nil, fmt.Errorf("genesis data: %w", err)
	}

	return NewChain(GenesisBlock(timeStamp, data), cfg), nil
}

// Difficulty returns the number of leading zeros required for new blocks.
func (c *Chain[P]) Difficulty() uint {
	return c.difficulty
}

// Len returns the number of blocks including the genesis block.
func (c *Chain[P]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.blocks)
}

// LatestBlock returns the tip of the chain.
func (c *Chain[P]) LatestBlock() (Block[P], error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.blocks) == 0 {
		return Block[P]{}, ErrEmptyChain
	}

	return c.blocks[len(c.blocks)-1].Clone(), nil
}

// Block returns the block at the specified position.
func (c *Chain[P]) Block(number uint64) (Block[P], error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if number >= uint64(len(c.blocks)) {
		return Block[P]{}, fmt.Errorf("blk[%d]: %w", number, ErrBlockNotFound)
	}

	return c.blocks[number].Clone(), nil
}

// Blocks returns a copy of every block in the chain.
func (c *Chain[P]) Blocks() []Block[P] {
	c.mu.RLock()
	defer c.mu.RUnlock()

	blocks := make([]Block[P], len(c.blocks))
	for i, b := range c.blocks {
		blocks[i] = b.Clone()
	}

	return blocks
}

// Append binds the candidate to the current tip, mines it at the chain's
// difficulty and pushes it as the new tip. This is the only way to add a
// block. The block number is assigned from its position. The chain lock is
// not held while mining, so reads continue during the search.
func (c *Chain[P]) Append(ctx context.Context, candidate Block[P]) (Block[P], MineResult, error) {
	tip, err := c.LatestBlock()
	if err != nil {
		return Block[P]{}, MineResult{}, err
	}

	nb := candidate.Clone()
	nb.Header.Number = tip.Header.Number + 1
	nb.Header.PrevBlockHash = tip.Hash

	result, err := nb.Mine(ctx, c.difficulty, c.maxAttempts, c.evHandler)
	if err != nil {
		return Block[P]{}, result, err
	}

	if !result.Solved {
		return Block[P]{}, result, ErrMiningExhausted
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.blocks[len(c.blocks)-1].Hash != nb.Header.PrevBlockHash {
		return Block[P]{}, result, ErrTipChanged
	}

	c.blocks = append(c.blocks, nb)
	c.evHandler("database: Append: blk[%d]: hash[%s]", nb.Header.Number, nb.Hash)

	return nb.Clone(), result, nil
}

// IsValid reports if every block after genesis still hashes to its stored
// hash and references the stored hash of its parent.
func (c *Chain[P]) IsValid() bool {
	return c.Validate() == nil
}

// Validate performs the same scan as IsValid and returns an IntegrityError
// for the first mismatch found.
func (c *Chain[P]) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for i := 1; i < len(c.blocks); i++ {
		block := c.blocks[i]
		parent := c.blocks[i-1]

		if block.Hash != block.CalculateHash() {
			return &IntegrityError{Number: uint64(i), Reason: ReasonHashMismatch}
		}

		if block.Header.PrevBlockHash != parent.Hash {
			return &IntegrityError{Number: uint64(i), Reason: ReasonPrevHashMismatch}
		}
	}

	return nil
}

// MarshalJSON emits every field of every block for diagnostics. It is not a
// wire format.
func (c *Chain[P]) MarshalJSON() ([]byte, error) {
	v := struct {
		Difficulty uint       `json:"difficulty"`
		Blocks     []Block[P] `json:"chain"`
	}{
		Difficulty: c.difficulty,
		Blocks:     c.Blocks(),
	}

	return json.Marshal(v)
}
