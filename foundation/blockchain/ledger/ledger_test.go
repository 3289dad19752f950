package ledger_test

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/blockchain/ledger"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func newLedger(t *testing.T, difficulty uint16, maxAttempts uint64) *ledger.Ledger {
	t.Helper()

	gen := genesis.Default()
	gen.Difficulty = difficulty
	gen.MaxAttempts = maxAttempts

	ldg, err := ledger.New(ledger.Config{Genesis: gen})
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct the ledger: %v", failed, err)
	}

	return ldg
}

func mine(t *testing.T, ldg *ledger.Ledger, reward database.AccountID) database.Block[database.Transactions] {
	t.Helper()

	block, _, err := ldg.MinePendingTransactions(context.Background(), reward)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to mine pending transactions: %v", failed, err)
	}

	return block
}

// =============================================================================

func Test_Scenario(t *testing.T) {
	t.Log("Given the need to move value between accounts and reward the miner.")
	{
		ldg := newLedger(t, 2, 0)

		ldg.CreateTransaction(database.NewTx("A", "B", 100))
		ldg.CreateTransaction(database.NewTx("B", "C", 80))

		if bal := ldg.BalanceOf("B"); bal != 0 {
			t.Fatalf("\t%s\tShould not count pending transactions, got %d.", failed, bal)
		}
		t.Logf("\t%s\tShould not count pending transactions.", success)

		t.Logf("\tTest 0:\tWhen mining the first block.")
		{
			block := mine(t, ldg, "W")

			if len(block.Payload) != 2 || block.Header.Number != 1 {
				t.Fatalf("\t%s\tTest 0:\tShould commit both transactions: %+v", failed, block)
			}
			t.Logf("\t%s\tTest 0:\tShould commit both transactions.", success)

			if bal := ldg.BalanceOf("W"); bal != 0 {
				t.Fatalf("\t%s\tTest 0:\tShould not pay the reward yet, got %d.", failed, bal)
			}
			t.Logf("\t%s\tTest 0:\tShould not pay the reward yet.", success)

			pending := ldg.Mempool()
			if len(pending) != 1 || !pending[0].IsReward() || pending[0].To != "W" || pending[0].Value != 100 {
				t.Fatalf("\t%s\tTest 0:\tShould queue the reward: %v", failed, pending)
			}
			t.Logf("\t%s\tTest 0:\tShould queue the reward.", success)
		}

		t.Logf("\tTest 1:\tWhen mining the second block.")
		{
			mine(t, ldg, "W")

			exp := map[database.AccountID]int64{"A": -100, "B": 20, "C": 80, "W": 100}
			for account, bal := range exp {
				if got := ldg.BalanceOf(account); got != bal {
					t.Fatalf("\t%s\tTest 1:\tShould get a balance of %d for %s, got %d.", failed, bal, account, got)
				}
				t.Logf("\t%s\tTest 1:\tShould get a balance of %d for %s.", success, bal, account)
			}

			balances := ldg.Balances()
			if len(balances) != len(exp) {
				t.Fatalf("\t%s\tTest 1:\tShould get every account: %v", failed, balances)
			}
			for account, bal := range exp {
				if balances[account] != bal {
					t.Fatalf("\t%s\tTest 1:\tShould agree with BalanceOf for %s: %d", failed, account, balances[account])
				}
			}
			t.Logf("\t%s\tTest 1:\tShould agree with BalanceOf for every account.", success)

			if !ldg.IsValid() || len(ldg.Blocks()) != 3 {
				t.Fatalf("\t%s\tTest 1:\tShould have a valid chain of 3 blocks.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould have a valid chain of 3 blocks.", success)

			if blocks := ldg.QueryBlocksByAccount("C"); len(blocks) != 1 || blocks[0].Header.Number != 1 {
				t.Fatalf("\t%s\tTest 1:\tShould find the blocks for an account: %v", failed, blocks)
			}
			t.Logf("\t%s\tTest 1:\tShould find the blocks for an account.", success)
		}
	}
}

func Test_MineEmptyPool(t *testing.T) {
	t.Log("Given the need to mine with nothing pending.")
	{
		ldg := newLedger(t, 1, 0)

		block := mine(t, ldg, "W")
		if len(block.Payload) != 0 {
			t.Fatalf("\t%s\tShould mine an empty block: %v", failed, block.Payload)
		}
		t.Logf("\t%s\tShould mine an empty block.", success)

		if len(ldg.Mempool()) != 1 {
			t.Fatalf("\t%s\tShould still queue the reward.", failed)
		}
		t.Logf("\t%s\tShould still queue the reward.", success)
	}
}

func Test_MineExhausted(t *testing.T) {
	t.Log("Given a mining cycle that runs out of attempts.")
	{
		ldg := newLedger(t, 64, 10)

		ldg.CreateTransaction(database.NewTx("A", "B", 1))
		ldg.CreateTransaction(database.NewTx("B", "C", 2))

		_, result, err := ldg.MinePendingTransactions(context.Background(), "W")
		if !errors.Is(err, database.ErrMiningExhausted) || result.Solved {
			t.Fatalf("\t%s\tShould get an exhausted error: %v", failed, err)
		}
		t.Logf("\t%s\tShould get an exhausted error.", success)

		pending := ldg.Mempool()
		if len(pending) != 2 || pending[0].From != "A" || pending[1].From != "B" {
			t.Fatalf("\t%s\tShould restore the pending transactions in order: %v", failed, pending)
		}
		t.Logf("\t%s\tShould restore the pending transactions in order.", success)

		if len(ldg.Blocks()) != 1 {
			t.Fatalf("\t%s\tShould not append a block.", failed)
		}
		t.Logf("\t%s\tShould not append a block.", success)
	}
}

func Test_LargeTransfer(t *testing.T) {
	t.Log("Given a transfer larger than a balance can hold.")
	{
		ldg := newLedger(t, 1, 0)

		ldg.CreateTransaction(database.NewTx("A", "B", 1<<63))
		mine(t, ldg, "W")

		if got := ldg.BalanceOf("B"); got != math.MaxInt64 {
			t.Fatalf("\t%s\tShould cap the receiver balance, got %d.", failed, got)
		}
		t.Logf("\t%s\tShould cap the receiver balance.", success)

		if got := ldg.BalanceOf("A"); got != math.MinInt64 {
			t.Fatalf("\t%s\tShould cap the sender balance, got %d.", failed, got)
		}
		t.Logf("\t%s\tShould cap the sender balance.", success)
	}
}

func Test_Proof(t *testing.T) {
	t.Log("Given the need to prove a transaction was committed.")
	{
		ldg := newLedger(t, 1, 0)

		txs := []database.Tx{
			database.NewTx("A", "B", 100),
			database.NewTx("B", "C", 80),
			database.NewTx("C", "D", 5),
		}
		for _, tx := range txs {
			ldg.CreateTransaction(tx)
		}
		block := mine(t, ldg, "W")

		for i, tx := range txs {
			proof, err := ldg.QueryProof(block.Header.Number, tx)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to build a proof: %v", failed, i, err)
			}

			if !proof.Verify() {
				t.Fatalf("\t%s\tTest %d:\tShould be able to verify the proof.", failed, i)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to verify the proof for %s.", success, i, tx)
		}

		if _, err := ldg.QueryProof(block.Header.Number, database.NewTx("X", "Y", 1)); err == nil {
			t.Fatalf("\t%s\tShould not prove an unknown transaction.", failed)
		}
		t.Logf("\t%s\tShould not prove an unknown transaction.", success)

		if _, err := ldg.QueryProof(0, txs[0]); !errors.Is(err, ledger.ErrEmptyBlock) {
			t.Fatalf("\t%s\tShould not prove against the genesis block: %v", failed, err)
		}
		t.Logf("\t%s\tShould not prove against the genesis block.", success)

		if _, err := ldg.QueryProof(9, txs[0]); !errors.Is(err, database.ErrBlockNotFound) {
			t.Fatalf("\t%s\tShould not find an unknown block: %v", failed, err)
		}
		t.Logf("\t%s\tShould not find an unknown block.", success)
	}
}

func Test_LedgerJSON(t *testing.T) {
	t.Log("Given the need to dump the ledger for diagnostics.")
	{
		ldg := newLedger(t, 1, 0)
		ldg.CreateTransaction(database.NewTx("A", "B", 100))
		mine(t, ldg, "W")

		data, err := json.Marshal(ldg)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to marshal the ledger: %v", failed, err)
		}

		var dump struct {
			Chain struct {
				Difficulty uint `json:"difficulty"`
				Blocks     []struct {
					Hash string `json:"hash"`
				} `json:"chain"`
			} `json:"blockchain"`
			Pending      []json.RawMessage `json:"pending_transactions"`
			MiningReward uint64            `json:"mining_reward"`
		}
		if err := json.Unmarshal(data, &dump); err != nil {
			t.Fatalf("\t%s\tShould be able to unmarshal the dump: %v", failed, err)
		}

		if dump.Chain.Difficulty != 1 || len(dump.Chain.Blocks) != 2 || len(dump.Pending) != 1 || dump.MiningReward != 100 {
			t.Fatalf("\t%s\tShould get every field in the dump: %s", failed, data)
		}
		t.Logf("\t%s\tShould get every field in the dump.", success)
	}
}
