package ledger

import (
	"errors"
	"fmt"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/merkle"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ErrEmptyBlock is returned when a proof is requested from a block with no
// transactions.
var ErrEmptyBlock = errors.New("block has no transactions")

// Proof shows a transaction was committed by a block. The hashes are hex
// encoded with a 0x prefix.
type Proof struct {
	Number    uint64      `json:"number"`
	BlockHash string      `json:"block_hash"`
	Tx        database.Tx `json:"tx"`
	Root      string      `json:"root"`
	Leaf      string      `json:"leaf"`
	Proof     []string    `json:"proof"`
	Order     []int64     `json:"order"`
}

// QueryProof builds the merkle proof that the transaction is part of the
// specified block.
func (l *Ledger) QueryProof(number uint64, tx database.Tx) (Proof, error) {
	block, err := l.chain.Block(number)
	if err != nil {
		return Proof{}, err
	}

	if len(block.Payload) == 0 {
		return Proof{}, fmt.Errorf("blk[%d]: %w", number, ErrEmptyBlock)
	}

	tree, err := merkle.NewTree([]database.Tx(block.Payload))
	if err != nil {
		return Proof{}, err
	}

	proof, order, err := tree.ProofHex(tx)
	if err != nil {
		return Proof{}, fmt.Errorf("blk[%d]: tx[%s]: %w", number, tx, err)
	}

	leaf, err := tx.Hash()
	if err != nil {
		return Proof{}, err
	}

	p := Proof{
		Number:    number,
		BlockHash: block.Hash,
		Tx:        tx,
		Root:      tree.RootHex(),
		Leaf:      hexutil.Encode(leaf),
		Proof:     proof,
		Order:     order,
	}

	return p, nil
}

// Verify recomputes the root from the leaf and the proof.
func (p Proof) Verify() bool {
	leaf, err := hexutil.Decode(p.Leaf)
	if err != nil {
		return false
	}

	root, err := hexutil.Decode(p.Root)
	if err != nil {
		return false
	}

	proof := make([][]byte, len(p.Proof))
	for i, h := range p.Proof {
		if proof[i], err = hexutil.Decode(h); err != nil {
			return false
		}
	}

	return merkle.VerifyProof(leaf, proof, p.Order, root)
}
