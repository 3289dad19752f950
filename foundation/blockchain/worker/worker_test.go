package worker_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/blockchain/ledger"
	"github.com/ardanlabs/ledger/foundation/blockchain/worker"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

func Test_MiningOperations(t *testing.T) {
	t.Log("Given the need to mine blocks in the background.")
	{
		gen := genesis.Default()
		gen.Difficulty = 1

		ldg, err := ledger.New(ledger.Config{Genesis: gen})
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct the ledger: %v", failed, err)
		}

		var mu sync.Mutex
		var cycles int
		onMined := func(result database.MineResult, duration time.Duration, err error) {
			mu.Lock()
			defer mu.Unlock()
			cycles++
		}

		w := worker.Run(worker.Config{
			Miner:       ldg,
			Beneficiary: "W",
			OnMined:     onMined,
		})
		defer w.Shutdown()

		t.Logf("\tTest 0:\tWhen a transaction is submitted.")
		{
			ldg.CreateTransaction(database.NewTx("A", "B", 10))
			w.SignalStartMining()

			if !waitFor(func() bool { return len(ldg.Blocks()) == 2 }) {
				t.Fatalf("\t%s\tTest 0:\tShould mine a block.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould mine a block.", success)
		}

		t.Logf("\tTest 1:\tWhen only the reward is pending.")
		{
			w.SignalStartMining()
			time.Sleep(100 * time.Millisecond)

			if n := len(ldg.Blocks()); n != 2 {
				t.Fatalf("\t%s\tTest 1:\tShould not mine a block for the reward alone, got %d blocks.", failed, n)
			}
			t.Logf("\t%s\tTest 1:\tShould not mine a block for the reward alone.", success)
		}

		mu.Lock()
		defer mu.Unlock()

		if cycles != 1 {
			t.Fatalf("\t%s\tShould report every mining cycle, got %d.", failed, cycles)
		}
		t.Logf("\t%s\tShould report every mining cycle.", success)
	}
}

func Test_Shutdown(t *testing.T) {
	t.Log("Given the need to stop a worker stuck on a hard block.")
	{
		gen := genesis.Default()
		gen.Difficulty = 64

		ldg, err := ledger.New(ledger.Config{Genesis: gen})
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct the ledger: %v", failed, err)
		}

		w := worker.Run(worker.Config{Miner: ldg, Beneficiary: "W"})

		ldg.CreateTransaction(database.NewTx("A", "B", 10))
		w.SignalStartMining()
		time.Sleep(50 * time.Millisecond)

		done := make(chan struct{})
		go func() {
			w.Shutdown()
			close(done)
		}()

		select {
		case <-done:
			t.Logf("\t%s\tShould be able to shutdown while mining.", success)
		case <-time.After(5 * time.Second):
			t.Fatalf("\t%s\tShould be able to shutdown while mining.", failed)
		}

		if pending := ldg.Mempool(); len(pending) != 1 {
			t.Fatalf("\t%s\tShould restore the cancelled transaction: %v", failed, pending)
		}
		t.Logf("\t%s\tShould restore the cancelled transaction.", success)
	}
}

// exhaustedMiner never solves a block and keeps its transaction pending.
type exhaustedMiner struct {
	mu    sync.Mutex
	calls int
}

func (m *exhaustedMiner) Mempool() []database.Tx {
	return []database.Tx{database.NewTx("A", "B", 10)}
}

func (m *exhaustedMiner) MinePendingTransactions(ctx context.Context, rewardID database.AccountID) (database.Block[database.Transactions], database.MineResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	return database.Block[database.Transactions]{}, database.MineResult{Attempts: 10}, database.ErrMiningExhausted
}

func (m *exhaustedMiner) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.calls
}

func Test_ExhaustedRetries(t *testing.T) {
	t.Log("Given a block that can't be solved within the attempt cap.")
	{
		miner := exhaustedMiner{}

		w := worker.Run(worker.Config{
			Miner:       &miner,
			Beneficiary: "W",
			RetryDelay:  20 * time.Millisecond,
			MaxRetries:  3,
		})
		defer w.Shutdown()

		w.SignalStartMining()

		if !waitFor(func() bool { return miner.Calls() == 4 }) {
			t.Fatalf("\t%s\tShould retry the block up to the limit, got %d calls.", failed, miner.Calls())
		}
		t.Logf("\t%s\tShould retry the block up to the limit.", success)

		time.Sleep(200 * time.Millisecond)
		if calls := miner.Calls(); calls != 4 {
			t.Fatalf("\t%s\tShould wait for a new signal after the limit, got %d calls.", failed, calls)
		}
		t.Logf("\t%s\tShould wait for a new signal after the limit.", success)

		w.SignalStartMining()
		if !waitFor(func() bool { return miner.Calls() == 5 }) {
			t.Fatalf("\t%s\tShould mine again when signaled, got %d calls.", failed, miner.Calls())
		}
		t.Logf("\t%s\tShould mine again when signaled.", success)
	}
}

func Test_RetryDelay(t *testing.T) {
	t.Log("Given the need to pace retries of an exhausted search.")
	{
		miner := exhaustedMiner{}

		w := worker.Run(worker.Config{
			Miner:       &miner,
			Beneficiary: "W",
			RetryDelay:  time.Hour,
		})

		w.SignalStartMining()
		time.Sleep(100 * time.Millisecond)

		if calls := miner.Calls(); calls != 1 {
			t.Fatalf("\t%s\tShould wait before retrying, got %d calls.", failed, calls)
		}
		t.Logf("\t%s\tShould wait before retrying.", success)

		done := make(chan struct{})
		go func() {
			w.Shutdown()
			close(done)
		}()

		select {
		case <-done:
			t.Logf("\t%s\tShould be able to shutdown while waiting to retry.", success)
		case <-time.After(5 * time.Second):
			t.Fatalf("\t%s\tShould be able to shutdown while waiting to retry.", failed)
		}
	}
}
