package metrics_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ardanlabs/ledger/business/sys/metrics"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/blockchain/ledger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestObserveMining(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())

	m.ObserveMining(database.MineResult{Solved: true, Attempts: 10}, time.Millisecond, nil)
	m.ObserveMining(database.MineResult{Attempts: 5}, time.Millisecond, database.ErrMiningExhausted)
	m.ObserveMining(database.MineResult{Attempts: 2}, time.Millisecond, context.Canceled)

	require.Equal(t, 1.0, testutil.ToFloat64(m.MiningCycles.WithLabelValues(metrics.OutcomeSolved)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.MiningCycles.WithLabelValues(metrics.OutcomeExhausted)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.MiningCycles.WithLabelValues(metrics.OutcomeCancelled)))
	require.Equal(t, 17.0, testutil.ToFloat64(m.MiningAttempts))
}

func TestLedgerCollector(t *testing.T) {
	gen := genesis.Default()
	gen.Difficulty = 1

	ldg, err := ledger.New(ledger.Config{Genesis: gen})
	require.NoError(t, err)

	ldg.CreateTransaction(database.NewTx("A", "B", 100))
	_, _, err = ldg.MinePendingTransactions(context.Background(), "W")
	require.NoError(t, err)

	ldg.CreateTransaction(database.NewTx("B", "C", 80))

	collector := metrics.NewLedgerCollector(ldg)
	require.Equal(t, 3, testutil.CollectAndCount(collector))

	exp := `
# HELP ledger_chain_height Number of the latest block
# TYPE ledger_chain_height gauge
ledger_chain_height 1
# HELP ledger_chain_valid 1 when every block passes the integrity check
# TYPE ledger_chain_valid gauge
ledger_chain_valid 1
# HELP ledger_mempool_pending Transactions waiting to be mined
# TYPE ledger_mempool_pending gauge
ledger_mempool_pending 2
`
	require.NoError(t, testutil.CollectAndCompare(collector, strings.NewReader(exp)))
}
