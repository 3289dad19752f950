// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/ardanlabs/ledger/business/web/errs"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/ledger"
	"github.com/ardanlabs/ledger/foundation/blockchain/merkle"
	"github.com/ardanlabs/ledger/foundation/events"
	"github.com/ardanlabs/ledger/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Signaler represents the mining worker behavior the handlers need.
type Signaler interface {
	SignalStartMining()
}

// Handlers manages the set of ledger endpoints.
type Handlers struct {
	Log         *zap.SugaredLogger
	Ledger      *ledger.Ledger
	Worker      Signaler
	Beneficiary database.AccountID
	AutoMine    bool
	WS          websocket.Upgrader
	Evts        *events.Events
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	ch := h.Evts.Subscribe(v.TraceID)
	defer h.Evts.Unsubscribe(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return nil
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// Genesis returns the genesis information.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.Ledger.Genesis(), http.StatusOK)
}

// Accounts returns the current balances for all accounts, or the specified
// account. Balances only count committed blocks.
func (h Handlers) Accounts(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	account := database.AccountID(web.Param(r, "account"))

	var bals []balance
	switch account {
	case "":
		for acct, bal := range h.Ledger.Balances() {
			bals = append(bals, balance{Account: acct, Balance: bal})
		}
		sort.Slice(bals, func(i, j int) bool { return bals[i].Account < bals[j].Account })

	default:
		bals = []balance{{Account: account, Balance: h.Ledger.BalanceOf(account)}}
	}

	latest, err := h.Ledger.LatestBlock()
	if err != nil {
		return err
	}

	resp := balances{
		LatestBlock: latest.Hash,
		Uncommitted: len(h.Ledger.Mempool()),
		Balances:    bals,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// BlocksByAccount returns all the blocks and their details.
func (h Handlers) BlocksByAccount(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	account := database.AccountID(web.Param(r, "account"))

	dbBlocks := h.Ledger.QueryBlocksByAccount(account)
	if len(dbBlocks) == 0 {
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}

	blocks := make([]block, len(dbBlocks))
	for i, blk := range dbBlocks {
		blocks[i] = toBlock(blk)
	}

	return web.Respond(ctx, w, blocks, http.StatusOK)
}

// Mempool returns the set of uncommitted transactions.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	account := database.AccountID(web.Param(r, "account"))

	var pending []database.Tx
	switch account {
	case "":
		pending = h.Ledger.Mempool()
	default:
		pending = h.Ledger.MempoolByAccount(account)
	}

	return web.Respond(ctx, w, toTxs(pending), http.StatusOK)
}

// SubmitTransaction adds a new transaction to the end of the pending pool.
func (h Handlers) SubmitTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var nt NewTx
	if err := web.Decode(r, &nt); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	dbTx := database.NewTx(database.AccountID(nt.From), database.AccountID(nt.To), nt.Value)

	h.Log.Infow("add tran", "traceid", v.TraceID, "tx", dbTx)
	pending := h.Ledger.CreateTransaction(dbTx)

	if h.AutoMine {
		h.Worker.SignalStartMining()
	}

	resp := struct {
		Status  string `json:"status"`
		Pending int    `json:"pending"`
	}{
		Status:  "transaction added to mempool",
		Pending: pending,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Proof returns the merkle proof the transaction was committed by the block.
func (h Handlers) Proof(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	number, err := strconv.ParseUint(web.Param(r, "block"), 10, 64)
	if err != nil {
		return errs.NewTrusted(errors.New("invalid block number"), http.StatusBadRequest)
	}

	var tq TxQuery
	if err := web.Decode(r, &tq); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	proof, err := h.Ledger.QueryProof(number, database.NewTx(database.AccountID(tq.From), database.AccountID(tq.To), tq.Value))
	if err != nil {
		switch {
		case errors.Is(err, database.ErrBlockNotFound),
			errors.Is(err, ledger.ErrEmptyBlock),
			errors.Is(err, merkle.ErrNotFound):
			return errs.NewTrusted(err, http.StatusNotFound)
		}
		return err
	}

	return web.Respond(ctx, w, proof, http.StatusOK)
}

// MineBlock runs a mining cycle for the pending transactions and queues the
// reward for the specified account. The request blocks until the block is
// mined.
func (h Handlers) MineBlock(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	account := database.AccountID(web.Param(r, "account"))

	blk, result, err := h.Ledger.MinePendingTransactions(ctx, account)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrMiningExhausted):
			return errs.NewTrusted(err, http.StatusServiceUnavailable)
		case errors.Is(err, database.ErrTipChanged):
			return errs.NewTrusted(err, http.StatusConflict)
		}
		return err
	}

	resp := mined{
		Block:    toBlock(blk),
		Attempts: result.Attempts,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// SignalMining asks the worker to mine the pending transactions in the
// background. The reward goes to the node's beneficiary.
func (h Handlers) SignalMining(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	h.Worker.SignalStartMining()

	resp := struct {
		Status      string             `json:"status"`
		Beneficiary database.AccountID `json:"beneficiary"`
	}{
		Status:      "mining signaled",
		Beneficiary: h.Beneficiary,
	}

	return web.Respond(ctx, w, resp, http.StatusAccepted)
}

// Validate runs the integrity check over the chain.
func (h Handlers) Validate(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resp := validation{Valid: true}

	if err := h.Ledger.Validate(); err != nil {
		var ie *database.IntegrityError
		if !errors.As(err, &ie) {
			return err
		}

		resp = validation{
			Number: ie.Number,
			Reason: ie.Reason,
		}
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}
