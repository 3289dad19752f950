package balance_test

import (
	"math"
	"testing"

	"github.com/ardanlabs/ledger/foundation/blockchain/balance"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func TestReplay(t *testing.T) {
	type table struct {
		name    string
		batches []database.Transactions
		final   map[database.AccountID]int64
	}

	tt := []table{
		{
			name: "basic",
			batches: []database.Transactions{
				{},
				{database.NewTx("A", "B", 100), database.NewTx("B", "C", 80)},
				{database.NewRewardTx("W", 100)},
			},
			final: map[database.AccountID]int64{"A": -100, "B": 20, "C": 80, "W": 100},
		},
		{
			name: "self",
			batches: []database.Transactions{
				{database.NewTx("A", "A", 50), database.NewRewardTx("A", 10)},
			},
			final: map[database.AccountID]int64{"A": 10},
		},
	}

	t.Log("Given the need to compute balances from committed blocks.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen replaying the %s blocks.", testID, tst.name)
			{
				f := func(t *testing.T) {
					blocks := make([]database.Block[database.Transactions], len(tst.batches))
					for i, batch := range tst.batches {
						blocks[i] = database.NewBlock(uint64(i), 0, batch, "")
					}

					sheet := balance.Replay(blocks)

					copied := sheet.Copy()
					if len(copied) != len(tst.final) {
						t.Fatalf("\t%s\tTest %d:\tShould get every account: %v", failed, testID, copied)
					}

					for account, exp := range tst.final {
						if got := sheet.Balance(account); got != exp {
							t.Logf("\t%s\tTest %d:\tgot: %d", failed, testID, got)
							t.Logf("\t%s\tTest %d:\texp: %d", failed, testID, exp)
							t.Fatalf("\t%s\tTest %d:\tShould get the right balance for %s.", failed, testID, account)
						}
						t.Logf("\t%s\tTest %d:\tShould get the right balance for %s.", success, testID, account)
					}

					if got := sheet.Balance("nobody"); got != 0 {
						t.Fatalf("\t%s\tTest %d:\tShould get zero for an unknown account.", failed, testID)
					}
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func TestBounds(t *testing.T) {
	type table struct {
		name string
		txs  database.Transactions
		from int64
		to   int64
	}

	tt := []table{
		{
			name: "max",
			txs:  database.Transactions{database.NewTx("A", "B", database.MaxValue)},
			from: -math.MaxInt64,
			to:   math.MaxInt64,
		},
		{
			name: "over",
			txs:  database.Transactions{database.NewTx("A", "B", 1<<63)},
			from: math.MinInt64,
			to:   math.MaxInt64,
		},
		{
			name: "accumulate",
			txs: database.Transactions{
				database.NewTx("A", "B", database.MaxValue),
				database.NewTx("A", "B", database.MaxValue),
			},
			from: math.MinInt64,
			to:   math.MaxInt64,
		},
	}

	t.Log("Given the need to keep balances inside the int64 range.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen replaying the %s transfer.", testID, tst.name)
			{
				f := func(t *testing.T) {
					blocks := []database.Block[database.Transactions]{database.NewBlock(1, 0, tst.txs, "")}
					sheet := balance.Replay(blocks)

					if got := sheet.Balance("A"); got != tst.from {
						t.Fatalf("\t%s\tTest %d:\tShould get sender balance %d, got %d.", failed, testID, tst.from, got)
					}
					t.Logf("\t%s\tTest %d:\tShould get the sender balance.", success, testID)

					if got := sheet.Balance("B"); got != tst.to || got < 0 {
						t.Fatalf("\t%s\tTest %d:\tShould get receiver balance %d, got %d.", failed, testID, tst.to, got)
					}
					t.Logf("\t%s\tTest %d:\tShould get a non negative receiver balance.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}
