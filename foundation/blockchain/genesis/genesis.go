// Package genesis maintains access to the genesis file.
package genesis

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ardanlabs/ledger/foundation/validate"
)

// Genesis represents the genesis file.
type Genesis struct {
	Date         time.Time `json:"date" validate:"required"`
	Difficulty   uint16    `json:"difficulty" validate:"lte=64"`                     // How difficult it needs to be to solve the work problem.
	MiningReward uint64    `json:"mining_reward" validate:"lte=9223372036854775807"` // Reward for mining a block.
	MaxAttempts  uint64    `json:"max_attempts"`                                     // Cap on nonces tried per block, 0 means unbounded.
	Data         string    `json:"data"`                                             // Content of the genesis block for data chains.
}

// Default returns the genesis settings used when no file is provided.
func Default() Genesis {
	return Genesis{
		Date:         time.Date(2018, time.January, 1, 0, 0, 0, 0, time.UTC),
		Difficulty:   3,
		MiningReward: 100,
		Data:         "Genesis block",
	}
}

// =============================================================================

// Load opens and consumes the genesis file. Fields missing from the file
// keep their default values.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	genesis := Default()
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, fmt.Errorf("decode genesis: %w", err)
	}

	if err := genesis.Validate(); err != nil {
		return Genesis{}, err
	}

	return genesis, nil
}

// Validate checks the genesis settings are usable.
func (g Genesis) Validate() error {
	if err := validate.Check(g); err != nil {
		return fmt.Errorf("validate genesis: %w", err)
	}

	return nil
}

// TimeStamp returns the genesis date in unix milliseconds.
func (g Genesis) TimeStamp() uint64 {
	return uint64(g.Date.UTC().UnixMilli())
}
