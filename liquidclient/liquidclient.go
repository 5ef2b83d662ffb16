// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package liquidclient is a client for a running ledger node, combining the
// REST api with event subscriptions.
package liquidclient

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/liquid/api/deposits"
	"github.com/vechain/liquid/api/holders"
	"github.com/vechain/liquid/api/logs"
	"github.com/vechain/liquid/api/rewards"
	"github.com/vechain/liquid/api/tokens"
	"github.com/vechain/liquid/api/totals"
	"github.com/vechain/liquid/api/utils"
	"github.com/vechain/liquid/api/wrapper"
	"github.com/vechain/liquid/liquidclient/common"
	"github.com/vechain/liquid/liquidclient/httpclient"
	"github.com/vechain/liquid/liquidclient/wsclient"
	"github.com/vechain/liquid/thor"
)

type Client struct {
	httpConn *httpclient.Client
	wsConn   *wsclient.Client
}

func New(url string) *Client {
	return &Client{
		httpConn: httpclient.New(url),
	}
}

func NewWithWS(url string) (*Client, error) {
	wsClient, err := wsclient.NewClient(url)
	if err != nil {
		return nil, err
	}

	return &Client{
		httpConn: httpclient.New(url),
		wsConn:   wsClient,
	}, nil
}

// RawHTTPClient exposes the untyped REST client.
func (c *Client) RawHTTPClient() *httpclient.Client {
	return c.httpConn
}

// RawWSClient exposes the websocket client, nil unless built with NewWithWS.
func (c *Client) RawWSClient() *wsclient.Client {
	return c.wsConn
}

func hex(v *big.Int) *math.HexOrDecimal256 {
	return (*math.HexOrDecimal256)(v)
}

// Holder returns the position of addr.
func (c *Client) Holder(addr thor.Address) (*holders.Holder, error) {
	return c.httpConn.Holder(addr)
}

func (c *Client) Stake(holder thor.Address, amount *big.Int) (*utils.Receipt, error) {
	return c.httpConn.Stake(holder, &holders.AmountRequest{Amount: hex(amount)})
}

func (c *Client) Unstake(holder thor.Address, amount *big.Int) (*utils.Receipt, error) {
	return c.httpConn.Unstake(holder, &holders.AmountRequest{Amount: hex(amount)})
}

func (c *Client) Transfer(from, to thor.Address, amount *big.Int) (*utils.Receipt, error) {
	return c.httpConn.Transfer(from, &holders.TransferRequest{To: &to, Amount: hex(amount)})
}

func (c *Client) TransferShares(from, to thor.Address, shares *big.Int) (*utils.Receipt, error) {
	return c.httpConn.TransferShares(from, &holders.TransferRequest{To: &to, Amount: hex(shares)})
}

func (c *Client) SetDelegatee(holder, delegatee thor.Address) (*utils.Receipt, error) {
	return c.httpConn.SetDelegatee(holder, &holders.DelegateeRequest{Delegatee: &delegatee})
}

func (c *Client) Deposits() ([]*deposits.Deposit, error) {
	return c.httpConn.Deposits()
}

// Deposit returns the deposit of delegatee, or an error wrapping
// common.ErrNotFound when none was initialized.
func (c *Client) Deposit(delegatee thor.Address) (*deposits.Deposit, error) {
	return c.httpConn.Deposit(delegatee)
}

func (c *Client) InitDeposit(delegatee thor.Address) (*deposits.InitResult, error) {
	return c.httpConn.InitDeposit(delegatee)
}

func (c *Client) SetDelegateeAllowed(caller, delegatee thor.Address, allowed bool) (*utils.Receipt, error) {
	return c.httpConn.SetDelegateeAllowed(delegatee, &deposits.AllowedRequest{Caller: &caller, Allowed: &allowed})
}

func (c *Client) Rewards() (*rewards.Summary, error) {
	return c.httpConn.Rewards()
}

func (c *Client) DistributeReward(source thor.Address, amount *big.Int) (*rewards.Distribution, error) {
	return c.httpConn.DistributeReward(&rewards.DistributeRequest{Source: &source, Amount: hex(amount)})
}

func (c *Client) Totals() (*totals.Totals, error) {
	return c.httpConn.Totals()
}

func (c *Client) Wrapper() (*wrapper.Info, error) {
	return c.httpConn.Wrapper()
}

func (c *Client) WrappedBalance(addr thor.Address) (*wrapper.Balance, error) {
	return c.httpConn.WrappedBalance(addr)
}

func (c *Client) Wrap(holder thor.Address, amount *big.Int) (*utils.Receipt, error) {
	return c.httpConn.Wrap(&wrapper.HolderRequest{Holder: &holder, Amount: hex(amount)})
}

func (c *Client) Unwrap(holder thor.Address, amount *big.Int) (*utils.Receipt, error) {
	return c.httpConn.Unwrap(&wrapper.HolderRequest{Holder: &holder, Amount: hex(amount)})
}

func (c *Client) WrappedTransfer(from, to thor.Address, amount *big.Int) (*utils.Receipt, error) {
	return c.httpConn.WrappedTransfer(&wrapper.TransferRequest{From: &from, To: &to, Amount: hex(amount)})
}

func (c *Client) SetWrapperDelegatee(caller, delegatee thor.Address) (*utils.Receipt, error) {
	return c.httpConn.SetWrapperDelegatee(&wrapper.DelegateeRequest{Caller: &caller, Delegatee: &delegatee})
}

func (c *Client) TokenSupply() (*tokens.Supply, error) {
	return c.httpConn.TokenSupply()
}

func (c *Client) TokenBalance(addr thor.Address) (*tokens.Balance, error) {
	return c.httpConn.TokenBalance(addr)
}

func (c *Client) Faucet(to thor.Address, amount *big.Int) (*utils.Receipt, error) {
	return c.httpConn.Faucet(&tokens.FaucetRequest{To: &to, Amount: hex(amount)})
}

func (c *Client) FilterEvents(filter *logs.EventFilter) ([]*utils.Event, error) {
	return c.httpConn.FilterEvents(filter)
}

// SubscribeEvents streams events matching query. The client must be built with NewWithWS.
func (c *Client) SubscribeEvents(query *wsclient.EventQuery) (<-chan common.EventWrapper[*utils.Event], error) {
	if c.wsConn == nil {
		return nil, common.ErrNoWebsocket
	}
	return c.wsConn.SubscribeEvents(query)
}
