package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// miningOperations handles mining.
func (w *Worker) miningOperations() {
	w.evHandler("worker: miningOperations: G started")
	defer w.evHandler("worker: miningOperations: G completed")

	for {
		select {
		case <-w.startMining:
			if !w.isShutdown() {
				w.runMiningOperation()
			}
		case <-w.shut:
			w.evHandler("worker: miningOperations: received shut signal")
			return
		}
	}
}

// runMiningOperation takes all the transactions from the mempool and writes a
// new block to the chain.
func (w *Worker) runMiningOperation() {
	w.evHandler("worker: runMiningOperation: MINING: started")
	defer w.evHandler("worker: runMiningOperation: MINING: completed")

	// A pool holding only the queued reward is not worth a block. The reward
	// is committed with the next submitted transaction.
	length := userTxCount(w.miner.Mempool())
	if length == 0 {
		w.evHandler("worker: runMiningOperation: MINING: no transactions to mine: Txs[%d]", length)
		return
	}

	// Set by the mining G, read once both G's are done.
	var mineErr error

	// After running a mining operation, check if a new operation should
	// be signaled again.
	defer func() {
		length := userTxCount(w.miner.Mempool())
		if length == 0 || w.isShutdown() {
			return
		}

		if !errors.Is(mineErr, database.ErrMiningExhausted) {
			w.retries = 0
		} else {
			w.retries++
			if w.retries > w.maxRetries {
				w.evHandler("worker: runMiningOperation: MINING: WARNING: exhausted retries[%d]: waiting for a new signal", w.maxRetries)
				w.retries = 0
				return
			}

			w.evHandler("worker: runMiningOperation: MINING: retry[%d] in %v", w.retries, w.retryDelay)
			select {
			case <-time.After(w.retryDelay):
			case <-w.shut:
				return
			}
		}

		w.evHandler("worker: runMiningOperation: MINING: signal new mining operation: Txs[%d]", length)
		w.SignalStartMining()
	}()

	// Drain the cancel mining channel before starting.
	select {
	case <-w.cancelMining:
		w.evHandler("worker: runMiningOperation: MINING: drained cancel channel")
	default:
	}

	// Create a context so mining can be cancelled.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Can't return from this function until these G's are complete.
	var wg sync.WaitGroup
	wg.Add(2)

	// This G exists to cancel the mining operation.
	go func() {
		defer func() {
			cancel()
			wg.Done()
		}()

		select {
		case <-w.cancelMining:
			w.evHandler("worker: runMiningOperation: MINING: CANCEL: requested")
		case <-w.shut:
			w.evHandler("worker: runMiningOperation: MINING: CANCEL: shutdown")
		case <-ctx.Done():
		}
	}()

	// This G is performing the mining.
	go func() {
		defer func() {
			cancel()
			wg.Done()
		}()

		t := time.Now()
		block, result, err := w.miner.MinePendingTransactions(ctx, w.beneficiary)
		duration := time.Since(t)

		w.evHandler("worker: runMiningOperation: MINING: mining duration[%v]: attempts[%d]", duration, result.Attempts)
		w.onMined(result, duration, err)
		mineErr = err

		if err != nil {
			switch {
			case errors.Is(err, database.ErrMiningExhausted):
				w.evHandler("worker: runMiningOperation: MINING: WARNING: attempts exhausted: attempts[%d]", result.Attempts)
			case ctx.Err() != nil:
				w.evHandler("worker: runMiningOperation: MINING: CANCEL: complete")
			default:
				w.evHandler("worker: runMiningOperation: MINING: ERROR: %s", err)
			}
			return
		}

		w.evHandler("worker: runMiningOperation: MINING: SOLVED: blk[%d]: hash[%s]: txs[%d]", block.Header.Number, block.Hash, len(block.Payload))
	}()

	// Wait for both G's to terminate.
	wg.Wait()
}

// userTxCount returns the number of pending transactions that are not
// mining rewards.
func userTxCount(txs []database.Tx) int {
	var n int
	for _, tx := range txs {
		if !tx.IsReward() {
			n++
		}
	}

	return n
}
