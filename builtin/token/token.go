// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package token implements the underlying stakeable token.
package token

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/liquid/builtin/reverts"
	"github.com/vechain/liquid/builtin/solidity"
	"github.com/vechain/liquid/event"
	"github.com/vechain/liquid/log"
	"github.com/vechain/liquid/state"
	"github.com/vechain/liquid/thor"
)

var (
	logger = log.WithContext("pkg", "token")

	slotBalances    = thor.BytesToBytes32([]byte("balances"))
	slotTotalSupply = thor.BytesToBytes32([]byte("total-supply"))
)

// Token implements native methods of the stakeable token.
type Token struct {
	sctx        *solidity.Context
	balances    *solidity.Mapping[thor.Address, *big.Int]
	totalSupply *solidity.Uint256
}

// New create a new instance.
func New(addr thor.Address, state *state.State, sink event.Sink) *Token {
	sctx := solidity.NewContext(addr, state, sink)
	return &Token{
		sctx:        sctx,
		balances:    solidity.NewMapping[thor.Address, *big.Int](sctx, slotBalances),
		totalSupply: solidity.NewUint256(sctx, slotTotalSupply),
	}
}

// BalanceOf returns the token balance of addr.
func (t *Token) BalanceOf(addr thor.Address) (*big.Int, error) {
	b, err := t.balances.Get(addr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get balance")
	}
	if b == nil {
		return new(big.Int), nil
	}
	return b, nil
}

// TotalSupply returns the amount minted so far.
func (t *Token) TotalSupply() (*big.Int, error) {
	return t.totalSupply.Get()
}

// Mint creates amount new tokens owned by to.
func (t *Token) Mint(to thor.Address, amount *big.Int) error {
	if amount.Sign() <= 0 {
		return &reverts.ErrInvalidAmount{Op: "mint"}
	}
	if to.IsZero() {
		return reverts.New("mint to the zero address")
	}
	if err := t.add(to, amount); err != nil {
		return err
	}
	if err := t.totalSupply.Add(amount); err != nil {
		return err
	}
	logger.Debug("minted", "to", to, "amount", amount)
	t.sctx.Emit(event.TokenTransfer, []thor.Address{{}, to}, amount)
	return nil
}

// Transfer moves amount from one owner to another.
func (t *Token) Transfer(from, to thor.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return &reverts.ErrInvalidAmount{Op: "transfer"}
	}
	if to.IsZero() {
		return reverts.New("transfer to the zero address")
	}
	balance, err := t.BalanceOf(from)
	if err != nil {
		return err
	}
	if balance.Cmp(amount) < 0 {
		return reverts.InsufficientBalance(from, balance, amount)
	}
	if amount.Sign() == 0 || from == to {
		return nil
	}
	if err := t.balances.Update(from, balance.Sub(balance, amount)); err != nil {
		return errors.Wrap(err, "failed to set balance")
	}
	if err := t.add(to, amount); err != nil {
		return err
	}
	t.sctx.Emit(event.TokenTransfer, []thor.Address{from, to}, amount)
	return nil
}

func (t *Token) add(addr thor.Address, amount *big.Int) error {
	balance, err := t.BalanceOf(addr)
	if err != nil {
		return err
	}
	if err := t.balances.Update(addr, balance.Add(balance, amount)); err != nil {
		return errors.Wrap(err, "failed to set balance")
	}
	return nil
}
