package metrics

import (
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/prometheus/client_golang/prometheus"
)

// LedgerState represents the ledger behavior needed to report its state.
type LedgerState interface {
	LatestBlock() (database.Block[database.Transactions], error)
	Mempool() []database.Tx
	IsValid() bool
}

// LedgerCollector reports the state of the ledger at scrape time.
type LedgerCollector struct {
	ledger  LedgerState
	height  *prometheus.Desc
	pending *prometheus.Desc
	valid   *prometheus.Desc
}

// NewLedgerCollector constructs a collector for the ledger.
func NewLedgerCollector(ledger LedgerState) *LedgerCollector {
	return &LedgerCollector{
		ledger: ledger,
		height: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "chain", "height"),
			"Number of the latest block",
			nil, nil,
		),
		pending: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "mempool", "pending"),
			"Transactions waiting to be mined",
			nil, nil,
		),
		valid: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "chain", "valid"),
			"1 when every block passes the integrity check",
			nil, nil,
		),
	}
}

// Describe implements the prometheus.Collector interface.
func (c *LedgerCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.height
	ch <- c.pending
	ch <- c.valid
}

// Collect implements the prometheus.Collector interface.
func (c *LedgerCollector) Collect(ch chan<- prometheus.Metric) {
	block, err := c.ledger.LatestBlock()
	if err != nil {
		ch <- prometheus.NewInvalidMetric(c.height, err)
	} else {
		ch <- prometheus.MustNewConstMetric(c.height, prometheus.GaugeValue, float64(block.Header.Number))
	}

	ch <- prometheus.MustNewConstMetric(c.pending, prometheus.GaugeValue, float64(len(c.ledger.Mempool())))

	var valid float64
	if c.ledger.IsValid() {
		valid = 1
	}
	ch <- prometheus.MustNewConstMetric(c.valid, prometheus.GaugeValue, valid)
}
