// Package ledger is the core API for the transaction ledger and implements
// the business rules for pending transactions, mining rewards and balances.
package ledger

import (
	"encoding/json"
	"sync"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/blockchain/mempool"
)

// EventHandler defines a function that is called when events
// occur in the processing of mining blocks.
type EventHandler func(v string, args ...any)

// Config represents the configuration required to start the ledger.
type Config struct {
	Genesis   genesis.Genesis
	EvHandler EventHandler
}

// Ledger manages a chain of transaction blocks and the pool of transactions
// waiting to be mined into it.
type Ledger struct {
	evHandler EventHandler
	genesis   genesis.Genesis
	mineMu    sync.Mutex

	chain   *database.Chain[database.Transactions]
	mempool *mempool.Mempool
}

// New constructs a new ledger holding only the genesis block.
func New(cfg Config) (*Ledger, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	if err := cfg.Genesis.Validate(); err != nil {
		return nil, err
	}

	chainCfg := database.Config{
		Difficulty:  uint(cfg.Genesis.Difficulty),
		MaxAttempts: cfg.Genesis.MaxAttempts,
		EvHandler:   ev,
	}

	gb := database.GenesisBlock(cfg.Genesis.TimeStamp(), database.Transactions{})

	ldg := Ledger{
		evHandler: ev,
		genesis:   cfg.Genesis,
		chain:     database.NewChain(gb, chainCfg),
		mempool:   mempool.New(),
	}

	ev("ledger: New: genesis: blk[%s]: difficulty[%d]: reward[%d]", gb.Hash, cfg.Genesis.Difficulty, cfg.Genesis.MiningReward)

	return &ldg, nil
}

// CreateTransaction adds the transaction to the end of the pending pool and
// returns the number of pending transactions. No validation is performed.
func (l *Ledger) CreateTransaction(tx database.Tx) int {
	n := l.mempool.Add(tx)
	l.evHandler("ledger: CreateTransaction: tx[%s]: pending[%d]", tx, n)

	return n
}

// Truncate drops every pending transaction.
func (l *Ledger) Truncate() {
	l.mempool.Truncate()
}

// MarshalJSON emits the chain, the pending pool and the reward for
// diagnostics. It is not a wire format.
func (l *Ledger) MarshalJSON() ([]byte, error) {
	v := struct {
		Chain        *database.Chain[database.Transactions] `json:"blockchain"`
		Pending      []database.Tx                          `json:"pending_transactions"`
		MiningReward uint64                                 `json:"mining_reward"`
	}{
		Chain:        l.chain,
		Pending:      l.mempool.Copy(),
		MiningReward: l.genesis.MiningReward,
	}

	return json.Marshal(v)
}
