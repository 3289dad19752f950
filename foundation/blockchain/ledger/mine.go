package ledger

import (
	"context"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// MinePendingTransactions moves every pending transaction into a new block,
// mines it and appends it to the chain. The reward for the block is queued as
// a pending transaction so it is only committed by the next block. When the
// block can't be appended the drained transactions go back to the front of
// the pool. Only one mining cycle runs at a time.
func (l *Ledger) MinePendingTransactions(ctx context.Context, rewardID database.AccountID) (database.Block[database.Transactions], database.MineResult, error) {
	l.mineMu.Lock()
	defer l.mineMu.Unlock()

	txs := l.mempool.Drain()
	l.evHandler("ledger: MinePendingTransactions: MINING: started: txs[%d]", len(txs))

	candidate := database.NewBlock(0, uint64(time.Now().UTC().UnixMilli()), database.Transactions(txs), "")

	block, result, err := l.chain.Append(ctx, candidate)
	if err != nil {
		l.mempool.Prepend(txs...)
		l.evHandler("ledger: MinePendingTransactions: MINING: ERROR: restored txs[%d]: %s", len(txs), err)
		return database.Block[database.Transactions]{}, result, err
	}

	reward := database.NewRewardTx(rewardID, l.genesis.MiningReward)
	l.mempool.Prepend(reward)

	l.evHandler("ledger: MinePendingTransactions: MINING: completed: blk[%d]: hash[%s]: queued[%s]", block.Header.Number, block.Hash, reward)

	return block, result, nil
}
