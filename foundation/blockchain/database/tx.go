package database

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/ardanlabs/ledger/foundation/blockchain/signature"
)

// AccountID represents an opaque account address. Addresses carry no key
// material and are not validated.
type AccountID string

// MaxValue is the largest value a transaction can move and still be
// represented in a signed balance.
const MaxValue uint64 = math.MaxInt64

// =============================================================================

// Tx is the transactional information between two parties. An empty From
// account marks an issuance, such as a mining reward.
type Tx struct {
	From  AccountID `json:"from"`  // Account sending the value, empty for issuance.
	To    AccountID `json:"to"`    // Account receiving the value.
	Value uint64    `json:"value"` // Monetary value moved by this transaction.
}

// NewTx constructs a new transaction. No balance or signature checks are
// performed, a sender is allowed to go negative.
func NewTx(from AccountID, to AccountID, value uint64) Tx {
	return Tx{
		From:  from,
		To:    to,
		Value: value,
	}
}

// NewRewardTx constructs an issuance transaction crediting the account.
func NewRewardTx(to AccountID, value uint64) Tx {
	return Tx{
		To:    to,
		Value: value,
	}
}

// IsReward reports if the transaction issues new value.
func (tx Tx) IsReward() bool {
	return tx.From == ""
}

// Hash implements the merkle Hashable interface for providing a hash
// of a transaction.
func (tx Tx) Hash() ([]byte, error) {
	return signature.HashRaw(tx)
}

// Equals implements the merkle Hashable interface for providing an equality
// check between two transactions. Transactions carry no identity so two
// transactions with the same fields are the same.
func (tx Tx) Equals(otherTx Tx) bool {
	return tx == otherTx
}

// MarshalJSON writes an issuance with a null from account.
func (tx Tx) MarshalJSON() ([]byte, error) {
	var from *AccountID
	if !tx.IsReward() {
		from = &tx.From
	}

	v := struct {
		From  *AccountID `json:"from"`
		To    AccountID  `json:"to"`
		Value uint64     `json:"value"`
	}{
		From:  from,
		To:    tx.To,
		Value: tx.Value,
	}

	return json.Marshal(v)
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	from := tx.From
	if tx.IsReward() {
		from = "reward"
	}

	return fmt.Sprintf("%s->%s:%d", from, tx.To, tx.Value)
}
