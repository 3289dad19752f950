package public

import "github.com/ardanlabs/ledger/foundation/blockchain/database"

type balance struct {
	Account database.AccountID `json:"account"`
	Balance int64              `json:"balance"`
}

type balances struct {
	LatestBlock string    `json:"latest_block"`
	Uncommitted int       `json:"uncommitted"`
	Balances    []balance `json:"balances"`
}

type tx struct {
	From   database.AccountID `json:"from,omitempty"`
	To     database.AccountID `json:"to"`
	Value  uint64             `json:"value"`
	Reward bool               `json:"reward,omitempty"`
}

type block struct {
	Number        uint64 `json:"number"`
	TimeStamp     uint64 `json:"timestamp"`
	PrevBlockHash string `json:"prev_block_hash"`
	Nonce         uint64 `json:"nonce"`
	Hash          string `json:"hash"`
	Transactions  []tx   `json:"transactions"`
}

type mined struct {
	Block    block  `json:"block"`
	Attempts uint64 `json:"attempts"`
}

type validation struct {
	Valid  bool   `json:"valid"`
	Number uint64 `json:"number,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// NewTx is what a client submits to add a transaction to the ledger.
type NewTx struct {
	From  string `json:"from" validate:"required"`
	To    string `json:"to" validate:"required"`
	Value uint64 `json:"value" validate:"lte=9223372036854775807"`
}

// TxQuery identifies a committed transaction. An empty from account
// identifies a mining reward.
type TxQuery struct {
	From  string `json:"from"`
	To    string `json:"to" validate:"required"`
	Value uint64 `json:"value" validate:"lte=9223372036854775807"`
}

// =============================================================================

func toTx(dbTx database.Tx) tx {
	return tx{
		From:   dbTx.From,
		To:     dbTx.To,
		Value:  dbTx.Value,
		Reward: dbTx.IsReward(),
	}
}

func toTxs(dbTxs []database.Tx) []tx {
	txs := make([]tx, len(dbTxs))
	for i, dbTx := range dbTxs {
		txs[i] = toTx(dbTx)
	}
	return txs
}

func toBlock(blk database.Block[database.Transactions]) block {
	return block{
		Number:        blk.Header.Number,
		TimeStamp:     blk.Header.TimeStamp,
		PrevBlockHash: blk.Header.PrevBlockHash,
		Nonce:         blk.Header.Nonce,
		Hash:          blk.Hash,
		Transactions:  toTxs(blk.Payload),
	}
}
