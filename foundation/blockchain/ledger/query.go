package ledger

import (
	"github.com/ardanlabs/ledger/foundation/blockchain/balance"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
)

// Genesis returns a copy of the genesis information.
func (l *Ledger) Genesis() genesis.Genesis {
	return l.genesis
}

// Difficulty returns the number of leading zeros required for new blocks.
func (l *Ledger) Difficulty() uint {
	return l.chain.Difficulty()
}

// LatestBlock returns a copy of the current tip.
func (l *Ledger) LatestBlock() (database.Block[database.Transactions], error) {
	return l.chain.LatestBlock()
}

// Blocks returns a copy of every committed block.
func (l *Ledger) Blocks() []database.Block[database.Transactions] {
	return l.chain.Blocks()
}

// Mempool returns a copy of the pending transactions in order.
func (l *Ledger) Mempool() []database.Tx {
	return l.mempool.Copy()
}

// MempoolByAccount returns the pending transactions the account is part of.
func (l *Ledger) MempoolByAccount(account database.AccountID) []database.Tx {
	return l.mempool.PickAccount(account)
}

// IsValid reports if the chain is intact.
func (l *Ledger) IsValid() bool {
	return l.chain.IsValid()
}

// Validate returns an IntegrityError naming the first tampered block.
func (l *Ledger) Validate() error {
	return l.chain.Validate()
}

// BalanceOf replays every committed block and returns the net value received
// by the account. Pending transactions are not counted. The balance can be
// negative since senders are never checked.
func (l *Ledger) BalanceOf(account database.AccountID) int64 {
	return balance.Replay(l.chain.Blocks()).Balance(account)
}

// Balances replays every committed block and returns the balance of every
// account that took part in a transaction.
func (l *Ledger) Balances() map[database.AccountID]int64 {
	return balance.Replay(l.chain.Blocks()).Copy()
}

// QueryBlocksByAccount returns the set of blocks by account. If the account
// is empty, all blocks are returned.
func (l *Ledger) QueryBlocksByAccount(account database.AccountID) []database.Block[database.Transactions] {
	blocks := l.chain.Blocks()
	if account == "" {
		return blocks
	}

	var out []database.Block[database.Transactions]
	for _, block := range blocks {
		for _, tx := range block.Payload {
			if tx.From == account || tx.To == account {
				out = append(out, block)
				break
			}
		}
	}

	return out
}
