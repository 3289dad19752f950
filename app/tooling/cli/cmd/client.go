package cmd

import (
	"errors"
	"fmt"

	"github.com/ardanlabs/ledger/foundation/blockchain/ledger"
	"github.com/go-resty/resty/v2"
)

// Tx is a transaction as the node reports it.
type Tx struct {
	From   string `json:"from,omitempty"`
	To     string `json:"to"`
	Value  uint64 `json:"value"`
	Reward bool   `json:"reward,omitempty"`
}

// Block is a block as the node reports it.
type Block struct {
	Number        uint64 `json:"number"`
	TimeStamp     uint64 `json:"timestamp"`
	PrevBlockHash string `json:"prev_block_hash"`
	Nonce         uint64 `json:"nonce"`
	Hash          string `json:"hash"`
	Transactions  []Tx   `json:"transactions"`
}

// Balance is the committed balance of an account.
type Balance struct {
	Account string `json:"account"`
	Balance int64  `json:"balance"`
}

// Balances is the node's view of every account.
type Balances struct {
	LatestBlock string    `json:"latest_block"`
	Uncommitted int       `json:"uncommitted"`
	Balances    []Balance `json:"balances"`
}

// Mined is the result of a mining cycle.
type Mined struct {
	Block    Block  `json:"block"`
	Attempts uint64 `json:"attempts"`
}

// Validation is the result of the integrity check.
type Validation struct {
	Valid  bool   `json:"valid"`
	Number uint64 `json:"number,omitempty"`
	Reason string `json:"reason,omitempty"`
}

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// =============================================================================

// Client provides access to the ledger node api.
type Client struct {
	http *resty.Client
}

// NewClient constructs a client for the node at the url.
func NewClient(url string) *Client {
	return &Client{
		http: resty.New().SetBaseURL(url).SetHeader("Content-Type", "application/json"),
	}
}

// Submit adds a transaction to the node's pending pool.
func (c *Client) Submit(tx Tx) (int, error) {
	var resp struct {
		Pending int `json:"pending"`
	}

	if err := c.do(c.http.R().SetBody(tx).SetResult(&resp), "POST", "/v1/tx/submit"); err != nil {
		return 0, err
	}

	return resp.Pending, nil
}

// Mine runs a mining cycle on the node and credits the account with the
// reward.
func (c *Client) Mine(account string) (Mined, error) {
	var resp Mined
	req := c.http.R().SetPathParam("account", account).SetResult(&resp)

	if err := c.do(req, "POST", "/v1/mining/mine/{account}"); err != nil {
		return Mined{}, err
	}

	return resp, nil
}

// Balances returns the balances of every account, or just the account
// when it is not empty.
func (c *Client) Balances(account string) (Balances, error) {
	var resp Balances

	path := "/v1/accounts/list"
	req := c.http.R().SetResult(&resp)
	if account != "" {
		path += "/{account}"
		req.SetPathParam("account", account)
	}

	if err := c.do(req, "GET", path); err != nil {
		return Balances{}, err
	}

	return resp, nil
}

// Blocks returns every block, or the blocks the account is part of.
func (c *Client) Blocks(account string) ([]Block, error) {
	var resp []Block

	path := "/v1/blocks/list"
	req := c.http.R().SetResult(&resp)
	if account != "" {
		path += "/{account}"
		req.SetPathParam("account", account)
	}

	if err := c.do(req, "GET", path); err != nil {
		return nil, err
	}

	return resp, nil
}

// Pending returns the transactions waiting to be mined.
func (c *Client) Pending() ([]Tx, error) {
	var resp []Tx
	if err := c.do(c.http.R().SetResult(&resp), "GET", "/v1/tx/uncommitted/list"); err != nil {
		return nil, err
	}

	return resp, nil
}

// Validate runs the integrity check on the node.
func (c *Client) Validate() (Validation, error) {
	var resp Validation
	if err := c.do(c.http.R().SetResult(&resp), "GET", "/v1/chain/validate"); err != nil {
		return Validation{}, err
	}

	return resp, nil
}

// Proof returns the merkle proof the transaction was committed by the block.
func (c *Client) Proof(number uint64, tx Tx) (ledger.Proof, error) {
	var resp ledger.Proof
	req := c.http.R().SetPathParam("block", fmt.Sprint(number)).SetBody(tx).SetResult(&resp)

	if err := c.do(req, "POST", "/v1/tx/proof/{block}"); err != nil {
		return ledger.Proof{}, err
	}

	return resp, nil
}

// do executes the request and converts an error response into an error.
func (c *Client) do(req *resty.Request, method string, path string) error {
	var er errorResponse
	req.SetError(&er)

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	if resp.IsError() {
		if er.Error == "" {
			er.Error = resp.Status()
		}
		for field, msg := range er.Fields {
			er.Error += fmt.Sprintf(": %s %s", field, msg)
		}
		return fmt.Errorf("%s %s: %w", method, path, errors.New(er.Error))
	}

	return nil
}
