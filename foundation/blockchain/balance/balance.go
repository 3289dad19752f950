// Package balance maintains account balances computed by replaying the
// transactions of committed blocks.
package balance

import (
	"math"
	"sync"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// Sheet represents the data representation to maintain account balances.
// Balances are signed since senders are never checked.
type Sheet struct {
	sheet map[database.AccountID]int64
	mu    sync.RWMutex
}

// NewSheet constructs a new empty balance sheet for use.
func NewSheet() *Sheet {
	return &Sheet{
		sheet: make(map[database.AccountID]int64),
	}
}

// Replay constructs a balance sheet from every transaction in the blocks,
// applied in chain order.
func Replay(blocks []database.Block[database.Transactions]) *Sheet {
	bs := NewSheet()
	for _, block := range blocks {
		for _, tx := range block.Payload {
			bs.ApplyTransaction(tx)
		}
	}

	return bs
}

// ApplyTransaction moves the value of the transaction between the accounts.
// An issuance only credits the receiving account. Balances saturate at the
// int64 bounds instead of wrapping.
func (bs *Sheet) ApplyTransaction(tx database.Tx) {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	if !tx.IsReward() {
		bs.sheet[tx.From] = debit(bs.sheet[tx.From], tx.Value)
	}
	bs.sheet[tx.To] = credit(bs.sheet[tx.To], tx.Value)
}

// Balance returns the balance for the account, zero if the account never
// took part in a transaction.
func (bs *Sheet) Balance(account database.AccountID) int64 {
	bs.mu.RLock()
	defer bs.mu.RUnlock()

	return bs.sheet[account]
}

// Copy makes a copy of the current balance sheet but returns the raw data.
func (bs *Sheet) Copy() map[database.AccountID]int64 {
	bs.mu.RLock()
	defer bs.mu.RUnlock()

	sheet := make(map[database.AccountID]int64, len(bs.sheet))
	for account, value := range bs.sheet {
		sheet[account] = value
	}
	return sheet
}

// =============================================================================

// credit adds the value to the balance, stopping at math.MaxInt64.
func credit(balance int64, value uint64) int64 {
	if value > database.MaxValue || balance > math.MaxInt64-int64(value) {
		return math.MaxInt64
	}

	return balance + int64(value)
}

// debit subtracts the value from the balance, stopping at math.MinInt64.
func debit(balance int64, value uint64) int64 {
	if value > database.MaxValue || balance < math.MinInt64+int64(value) {
		return math.MinInt64
	}

	return balance - int64(value)
}
