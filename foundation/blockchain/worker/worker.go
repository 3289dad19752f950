// Package worker implements background mining for the ledger.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/ledger"
)

// Miner represents the ledger behavior the worker needs to mine blocks.
type Miner interface {
	Mempool() []database.Tx
	MinePendingTransactions(ctx context.Context, rewardID database.AccountID) (database.Block[database.Transactions], database.MineResult, error)
}

// MinedFunc is called after every mining cycle that ran a nonce search.
type MinedFunc func(result database.MineResult, duration time.Duration, err error)

// Default settings for retrying a block whose search ran out of attempts.
const (
	defaultRetryDelay = time.Second
	defaultMaxRetries = 5
)

// Config represents the configuration required to start the worker.
type Config struct {
	Miner       Miner
	Beneficiary database.AccountID
	EvHandler   ledger.EventHandler
	OnMined     MinedFunc
	RetryDelay  time.Duration // Wait before mining again after an exhausted search.
	MaxRetries  int           // Exhausted searches in a row before waiting for a new signal.
}

// Worker manages the POW workflows for the ledger.
type Worker struct {
	miner        Miner
	beneficiary  database.AccountID
	wg           sync.WaitGroup
	shut         chan struct{}
	startMining  chan bool
	cancelMining chan bool
	evHandler    ledger.EventHandler
	onMined      MinedFunc
	retryDelay   time.Duration
	maxRetries   int
	retries      int
}

// Run creates a worker and starts up all the background processes.
func Run(cfg Config) *Worker {
	ev := cfg.EvHandler
	if ev == nil {
		ev = func(v string, args ...any) {}
	}

	onMined := cfg.OnMined
	if onMined == nil {
		onMined = func(database.MineResult, time.Duration, error) {}
	}

	retryDelay := cfg.RetryDelay
	if retryDelay <= 0 {
		retryDelay = defaultRetryDelay
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	w := Worker{
		miner:        cfg.Miner,
		beneficiary:  cfg.Beneficiary,
		shut:         make(chan struct{}),
		startMining:  make(chan bool, 1),
		cancelMining: make(chan bool, 1),
		evHandler:    ev,
		onMined:      onMined,
		retryDelay:   retryDelay,
		maxRetries:   maxRetries,
	}

	// Load the set of operations we need to run.
	operations := []func(){
		w.miningOperations,
	}

	// Set waitgroup to match the number of G's we need for the set
	// of operations we have.
	g := len(operations)
	w.wg.Add(g)

	// We don't want to return until we know all the G's are up and running.
	hasStarted := make(chan bool)

	// Start all the operational G's.
	for _, op := range operations {
		go func(op func()) {
			defer w.wg.Done()
			hasStarted <- true
			op()
		}(op)
	}

	// Wait for the G's to report they are running.
	for range g {
		<-hasStarted
	}

	return &w
}

// Shutdown terminates the goroutine performing work.
func (w *Worker) Shutdown() {
	w.evHandler("worker: shutdown: started")
	defer w.evHandler("worker: shutdown: completed")

	w.evHandler("worker: shutdown: signal cancel mining")
	w.SignalCancelMining()

	w.evHandler("worker: shutdown: terminate goroutines")
	close(w.shut)
	w.wg.Wait()
}

// SignalStartMining starts a mining operation. If there is already a signal
// pending in the channel, just return since a mining operation will start.
func (w *Worker) SignalStartMining() {
	select {
	case w.startMining <- true:
	default:
	}
	w.evHandler("worker: SignalStartMining: mining signaled")
}

// SignalCancelMining signals the G executing the runMiningOperation function
// to stop immediately.
func (w *Worker) SignalCancelMining() {
	select {
	case w.cancelMining <- true:
	default:
	}
	w.evHandler("worker: SignalCancelMining: MINING: CANCEL: signaled")
}

// =============================================================================

// isShutdown is used to test if a shutdown has been signaled.
func (w *Worker) isShutdown() bool {
	select {
	case <-w.shut:
		return true
	default:
		return false
	}
}
