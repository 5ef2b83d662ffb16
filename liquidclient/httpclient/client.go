// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package httpclient provides a typed client for the ledger REST api.
package httpclient

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/vechain/liquid/api/deposits"
	"github.com/vechain/liquid/api/holders"
	"github.com/vechain/liquid/api/logs"
	"github.com/vechain/liquid/api/rewards"
	"github.com/vechain/liquid/api/tokens"
	"github.com/vechain/liquid/api/totals"
	"github.com/vechain/liquid/api/utils"
	"github.com/vechain/liquid/api/wrapper"
	"github.com/vechain/liquid/thor"
)

// Client represents the HTTP client for interacting with the ledger api.
type Client struct {
	url string
	c   *http.Client
}

// New creates a new Client with the provided URL.
func New(url string) *Client {
	return NewWithHTTP(url, http.DefaultClient)
}

// NewWithHTTP creates a new Client using the given http.Client.
func NewWithHTTP(url string, c *http.Client) *Client {
	return &Client{
		url: url,
		c:   c,
	}
}

// Holder retrieves the position of a stake holder.
func (c *Client) Holder(addr thor.Address) (*holders.Holder, error) {
	return get[holders.Holder](c, "/holders/"+addr.String(), "holder")
}

// Stake stakes amount for the holder.
func (c *Client) Stake(addr thor.Address, req *holders.AmountRequest) (*utils.Receipt, error) {
	return post[utils.Receipt](c, "/holders/"+addr.String()+"/stake", req, "stake")
}

// Unstake withdraws amount of stake from the holder.
func (c *Client) Unstake(addr thor.Address, req *holders.AmountRequest) (*utils.Receipt, error) {
	return post[utils.Receipt](c, "/holders/"+addr.String()+"/unstake", req, "unstake")
}

// Transfer moves a stake amount from the holder to another one.
func (c *Client) Transfer(from thor.Address, req *holders.TransferRequest) (*utils.Receipt, error) {
	return post[utils.Receipt](c, "/holders/"+from.String()+"/transfer", req, "transfer")
}

// TransferShares moves raw shares from the holder to another one.
func (c *Client) TransferShares(from thor.Address, req *holders.TransferRequest) (*utils.Receipt, error) {
	return post[utils.Receipt](c, "/holders/"+from.String()+"/transferShares", req, "transfer shares")
}

// SetDelegatee changes the delegatee of the holder.
func (c *Client) SetDelegatee(addr thor.Address, req *holders.DelegateeRequest) (*utils.Receipt, error) {
	return post[utils.Receipt](c, "/holders/"+addr.String()+"/delegatee", req, "set delegatee")
}

// Deposits lists every initialized deposit.
func (c *Client) Deposits() ([]*deposits.Deposit, error) {
	out, err := get[[]*deposits.Deposit](c, "/deposits", "deposits")
	if err != nil {
		return nil, err
	}
	return *out, nil
}

// Deposit retrieves the deposit of a delegatee.
func (c *Client) Deposit(delegatee thor.Address) (*deposits.Deposit, error) {
	return get[deposits.Deposit](c, "/deposits/"+delegatee.String(), "deposit")
}

// InitDeposit fetches or initializes the deposit of a delegatee.
func (c *Client) InitDeposit(delegatee thor.Address) (*deposits.InitResult, error) {
	return post[deposits.InitResult](c, "/deposits/"+delegatee.String(), nil, "init deposit")
}

// SetDelegateeAllowed toggles the allow list entry of a delegatee.
func (c *Client) SetDelegateeAllowed(delegatee thor.Address, req *deposits.AllowedRequest) (*utils.Receipt, error) {
	return post[utils.Receipt](c, "/deposits/"+delegatee.String()+"/allowed", req, "set delegatee allowed")
}

// Rewards retrieves the reward summary.
func (c *Client) Rewards() (*rewards.Summary, error) {
	return get[rewards.Summary](c, "/rewards", "rewards")
}

// DistributeReward distributes a reward amount over the deposits.
func (c *Client) DistributeReward(req *rewards.DistributeRequest) (*rewards.Distribution, error) {
	return post[rewards.Distribution](c, "/rewards", req, "distribute reward")
}

// Totals retrieves the ledger wide totals.
func (c *Client) Totals() (*totals.Totals, error) {
	return get[totals.Totals](c, "/totals", "totals")
}

// Wrapper retrieves the state of the wrapper.
func (c *Client) Wrapper() (*wrapper.Info, error) {
	return get[wrapper.Info](c, "/wrapper", "wrapper")
}

// WrappedBalance retrieves the wrapped token balance of an address.
func (c *Client) WrappedBalance(addr thor.Address) (*wrapper.Balance, error) {
	return get[wrapper.Balance](c, "/wrapper/"+addr.String(), "wrapped balance")
}

// Wrap converts ledger stake into wrapped tokens.
func (c *Client) Wrap(req *wrapper.HolderRequest) (*utils.Receipt, error) {
	return post[utils.Receipt](c, "/wrapper/wrap", req, "wrap")
}

// Unwrap converts wrapped tokens back into ledger stake.
func (c *Client) Unwrap(req *wrapper.HolderRequest) (*utils.Receipt, error) {
	return post[utils.Receipt](c, "/wrapper/unwrap", req, "unwrap")
}

// WrappedTransfer moves wrapped tokens.
func (c *Client) WrappedTransfer(req *wrapper.TransferRequest) (*utils.Receipt, error) {
	return post[utils.Receipt](c, "/wrapper/transfer", req, "wrapped transfer")
}

// SetWrapperDelegatee changes the delegatee of the wrapper.
func (c *Client) SetWrapperDelegatee(req *wrapper.DelegateeRequest) (*utils.Receipt, error) {
	return post[utils.Receipt](c, "/wrapper/delegatee", req, "set wrapper delegatee")
}

// TokenSupply retrieves the supply of the underlying token.
func (c *Client) TokenSupply() (*tokens.Supply, error) {
	return get[tokens.Supply](c, "/tokens", "token supply")
}

// TokenBalance retrieves the underlying token balance of an address.
func (c *Client) TokenBalance(addr thor.Address) (*tokens.Balance, error) {
	return get[tokens.Balance](c, "/tokens/"+addr.String(), "token balance")
}

// Faucet mints underlying tokens, when the node allows it.
func (c *Client) Faucet(req *tokens.FaucetRequest) (*utils.Receipt, error) {
	return post[utils.Receipt](c, "/tokens/faucet", req, "faucet")
}

// FilterEvents fetches the events matching the filter.
func (c *Client) FilterEvents(req *logs.EventFilter) ([]*utils.Event, error) {
	body, err := c.httpPOST(c.url+"/logs/events", req)
	if err != nil {
		return nil, fmt.Errorf("unable to filter events - %w", err)
	}

	var events []*utils.Event
	if err = json.Unmarshal(body, &events); err != nil {
		return nil, fmt.Errorf("unable to unmarshal events - %w", err)
	}
	return events, nil
}
