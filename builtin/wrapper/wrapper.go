// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package wrapper implements the non-rebasing wrapped token. The wrapper is a
// single holder of the liquid ledger; wrapped units are its shares divided by
// the share scale factor.
package wrapper

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
	logger = log.WithContext("pkg", "wrapper")

	slotOwner       = thor.BytesToBytes32([]byte("owner"))
	slotBalances    = thor.BytesToBytes32([]byte("wrapped-balances"))
	slotTotalSupply = thor.BytesToBytes32([]byte("wrapped-supply"))
)

// Ledger is the part of the liquid ledger the wrapper is a client of.
type Ledger interface {
	Transfer(from, to thor.Address, stake *big.Int) (*big.Int, error)
	DelegateeForHolder(holder thor.Address) (thor.Address, error)
	SharesForStake(stake *big.Int) (*big.Int, error)
	StakeForShares(shares *big.Int) (*big.Int, error)
	ShareScaleFactor() (*big.Int, error)
}

// Account is the wrapper's reserved position in the ledger. Stake leaves the
// wrapper and its delegatee changes only through it.
type Account interface {
	Transfer(to thor.Address, stake *big.Int) (*big.Int, error)
	SetDelegatee(delegatee thor.Address) error
}

// Wrapper implements native methods of the wrapped token.
type Wrapper struct {
	sctx        *solidity.Context
	ledger      Ledger
	account     Account
	owner       *solidity.Address
	balances    *solidity.Mapping[thor.Address, *big.Int]
	totalSupply *solidity.Uint256
}

// New create a new instance.
func New(addr thor.Address, state *state.State, sink event.Sink, ledger Ledger, account Account) *Wrapper {
	sctx := solidity.NewContext(addr, state, sink)
	return &Wrapper{
		sctx:        sctx,
		ledger:      ledger,
		account:     account,
		owner:       solidity.NewAddress(sctx, slotOwner),
		balances:    solidity.NewMapping[thor.Address, *big.Int](sctx, slotBalances),
		totalSupply: solidity.NewUint256(sctx, slotTotalSupply),
	}
}

// Address returns the wrapper's holder address in the ledger.
func (w *Wrapper) Address() thor.Address {
	return w.sctx.Address()
}

// Initialize sets the owner and routes the wrapper's holding to delegatee,
// which creates the wrapper's deposit. It can only run once.
func (w *Wrapper) Initialize(owner, delegatee thor.Address) error {
	current, err := w.owner.Get()
	if err != nil {
		return err
	}
	if !current.IsZero() {
		return reverts.New("already initialized")
	}
	if owner.IsZero() {
		return reverts.New("owner is the zero address")
	}
	w.owner.Set(owner)
	if err := w.account.SetDelegatee(delegatee); err != nil {
		return err
	}
	logger.Info("wrapper initialized", "owner", owner, "delegatee", delegatee)
	return nil
}

func (w *Wrapper) Owner() (thor.Address, error) {
	return w.owner.Get()
}

func (w *Wrapper) requireInitialized() error {
	owner, err := w.owner.Get()
	if err != nil {
		return err
	}
	if owner.IsZero() {
		return reverts.New("wrapper not initialized")
	}
	return nil
}

// Delegatee returns the delegatee the wrapped stake is routed to.
func (w *Wrapper) Delegatee() (thor.Address, error) {
	return w.ledger.DelegateeForHolder(w.Address())
}

// BalanceOf returns the wrapped balance of holder.
func (w *Wrapper) BalanceOf(holder thor.Address) (*big.Int, error) {
	b, err := w.balances.Get(holder)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get wrapped balance")
	}
	if b == nil {
		return new(big.Int), nil
	}
	return b, nil
}

func (w *Wrapper) TotalSupply() (*big.Int, error) {
	return w.totalSupply.Get()
}

// Wrap moves stake from holder into the wrapper and credits the holder with
// the wrapped units those shares are worth. It returns the wrapped amount.
func (w *Wrapper) Wrap(holder thor.Address, stake *big.Int) (*big.Int, error) {
	if stake.Sign() <= 0 {
		return nil, &reverts.ErrInvalidAmount{Op: "wrap"}
	}
	if err := w.requireInitialized(); err != nil {
		return nil, err
	}
	scale, err := w.ledger.ShareScaleFactor()
	if err != nil {
		return nil, err
	}
	shares, err := w.ledger.SharesForStake(stake)
	if err != nil {
		return nil, err
	}
	wrapped := new(big.Int).Quo(shares, scale)
	if wrapped.Sign() == 0 {
		// nothing to credit, the stake would be lost to the wrapper
		return nil, &reverts.ErrInvalidAmount{Op: "wrap"}
	}

	if _, err := w.ledger.Transfer(holder, w.Address(), stake); err != nil {
		return nil, err
	}
	if err := w.credit(holder, wrapped); err != nil {
		return nil, err
	}
	if err := w.totalSupply.Add(wrapped); err != nil {
		return nil, err
	}

	logger.Debug("wrapped", "holder", holder, "stake", stake, "wrapped", wrapped)
	w.sctx.Emit(event.Wrapped, []thor.Address{holder}, stake, wrapped)
	return wrapped, nil
}

// Unwrap burns wrapped units of holder and returns the stake they are worth.
// It returns the stake amount transferred.
func (w *Wrapper) Unwrap(holder thor.Address, wrapped *big.Int) (*big.Int, error) {
	if wrapped.Sign() <= 0 {
		return nil, &reverts.ErrInvalidAmount{Op: "unwrap"}
	}
	if err := w.requireInitialized(); err != nil {
		return nil, err
	}
	if err := w.debit(holder, wrapped); err != nil {
		return nil, err
	}
	if err := w.totalSupply.Sub(wrapped); err != nil {
		return nil, err
	}

	scale, err := w.ledger.ShareScaleFactor()
	if err != nil {
		return nil, err
	}
	stake, err := w.ledger.StakeForShares(new(big.Int).Mul(wrapped, scale))
	if err != nil {
		return nil, err
	}
	if _, err := w.account.Transfer(holder, stake); err != nil {
		return nil, err
	}

	logger.Debug("unwrapped", "holder", holder, "stake", stake, "wrapped", wrapped)
	w.sctx.Emit(event.Unwrapped, []thor.Address{holder}, stake, wrapped)
	return stake, nil
}

// Transfer moves wrapped units between holders.
func (w *Wrapper) Transfer(from, to thor.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return &reverts.ErrInvalidAmount{Op: "transfer"}
	}
	if to.IsZero() {
		return reverts.New("transfer to the zero address")
	}
	if err := w.debit(from, amount); err != nil {
		return err
	}
	if err := w.credit(to, amount); err != nil {
		return err
	}
	w.sctx.Emit(event.WrappedTransfer, []thor.Address{from, to}, amount)
	return nil
}

// SetDelegatee re-points the wrapper's whole holding to delegatee. Owner only.
func (w *Wrapper) SetDelegatee(caller, delegatee thor.Address) error {
	owner, err := w.owner.Get()
	if err != nil {
		return err
	}
	if owner.IsZero() || caller != owner {
		return &reverts.ErrUnauthorized{Caller: caller}
	}
	old, err := w.Delegatee()
	if err != nil {
		return err
	}
	if err := w.account.SetDelegatee(delegatee); err != nil {
		return err
	}
	logger.Debug("wrapper delegatee set", "old", old, "new", delegatee)
	w.sctx.Emit(event.DelegateeSet, []thor.Address{old, delegatee})
	return nil
}

func (w *Wrapper) credit(holder thor.Address, amount *big.Int) error {
	balance, err := w.BalanceOf(holder)
	if err != nil {
		return err
	}
	return w.balances.Update(holder, balance.Add(balance, amount))
}

func (w *Wrapper) debit(holder thor.Address, amount *big.Int) error {
	balance, err := w.BalanceOf(holder)
	if err != nil {
		return err
	}
	if balance.Cmp(amount) < 0 {
		return reverts.InsufficientBalance(holder, balance, amount)
	}
	return w.balances.Update(holder, balance.Sub(balance, amount))
}
