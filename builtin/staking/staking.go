// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package staking implements the staking backend holding delegated positions.
package staking

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
	logger = log.WithContext("pkg", "staking")

	slotPositions = thor.BytesToBytes32([]byte("positions"))
	slotCounter   = thor.BytesToBytes32([]byte("positions-counter"))
	slotTotal     = thor.BytesToBytes32([]byte("total-staked"))
)

// Transferer moves the staked token between owners.
type Transferer interface {
	Transfer(from, to thor.Address, amount *big.Int) error
}

// Staking implements native methods of the staking backend.
type Staking struct {
	addr      thor.Address
	token     Transferer
	positions *solidity.Mapping[DepositID, *body]
	counter   *solidity.Raw[uint64]
	total     *solidity.Uint256
}

// New create a new instance.
func New(addr thor.Address, state *state.State, sink event.Sink, token Transferer) *Staking {
	sctx := solidity.NewContext(addr, state, sink)
	return &Staking{
		addr:      addr,
		token:     token,
		positions: solidity.NewMapping[DepositID, *body](sctx, slotPositions),
		counter:   solidity.NewRaw[uint64](sctx, slotCounter),
		total:     solidity.NewUint256(sctx, slotTotal),
	}
}

// Deposit returns the position for id, nil if it does not exist.
func (s *Staking) Deposit(id DepositID) (*Position, error) {
	b, err := s.positions.Get(id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get position")
	}
	if b == nil {
		return nil, nil
	}
	return &Position{b}, nil
}

// TotalStaked returns the sum of all position amounts.
func (s *Staking) TotalStaked() (*big.Int, error) {
	return s.total.Get()
}

// Stake opens a new position owned by owner and delegated to delegatee.
// The amount may be zero.
func (s *Staking) Stake(owner, delegatee thor.Address, amount *big.Int) (DepositID, error) {
	if delegatee.IsZero() {
		return 0, &reverts.ErrInvalidDelegatee{Delegatee: delegatee}
	}
	if amount.Sign() < 0 {
		return 0, &reverts.ErrInvalidAmount{Op: "stake"}
	}
	if err := s.token.Transfer(owner, s.addr, amount); err != nil {
		return 0, err
	}
	id, err := s.newDepositID()
	if err != nil {
		return 0, err
	}
	if err := s.positions.Insert(id, &body{
		Owner:     owner,
		Delegatee: delegatee,
		Amount:    new(big.Int).Set(amount),
	}); err != nil {
		return 0, errors.Wrap(err, "failed to set position")
	}
	if err := s.total.Add(amount); err != nil {
		return 0, err
	}
	logger.Debug("position opened", "id", id, "owner", owner, "delegatee", delegatee, "amount", amount)
	return id, nil
}

// StakeMore adds amount to an existing position.
func (s *Staking) StakeMore(caller thor.Address, id DepositID, amount *big.Int) error {
	if amount.Sign() <= 0 {
		return &reverts.ErrInvalidAmount{Op: "stakeMore"}
	}
	pos, err := s.owned(caller, id)
	if err != nil {
		return err
	}
	if err := s.token.Transfer(caller, s.addr, amount); err != nil {
		return err
	}
	pos.body.Amount.Add(pos.body.Amount, amount)
	if err := s.positions.Update(id, pos.body); err != nil {
		return errors.Wrap(err, "failed to set position")
	}
	return s.total.Add(amount)
}

// Withdraw takes amount out of a position and returns the tokens to its owner.
func (s *Staking) Withdraw(caller thor.Address, id DepositID, amount *big.Int) error {
	if amount.Sign() <= 0 {
		return &reverts.ErrInvalidAmount{Op: "withdraw"}
	}
	pos, err := s.owned(caller, id)
	if err != nil {
		return err
	}
	if pos.body.Amount.Cmp(amount) < 0 {
		return reverts.InsufficientBalance(caller, pos.body.Amount, amount)
	}
	pos.body.Amount.Sub(pos.body.Amount, amount)
	if err := s.positions.Update(id, pos.body); err != nil {
		return errors.Wrap(err, "failed to set position")
	}
	if err := s.total.Sub(amount); err != nil {
		return err
	}
	return s.token.Transfer(s.addr, caller, amount)
}

// AlterDelegatee re-points a position to another delegatee.
func (s *Staking) AlterDelegatee(caller thor.Address, id DepositID, delegatee thor.Address) error {
	if delegatee.IsZero() {
		return &reverts.ErrInvalidDelegatee{Delegatee: delegatee}
	}
	pos, err := s.owned(caller, id)
	if err != nil {
		return err
	}
	pos.body.Delegatee = delegatee
	return s.positions.Update(id, pos.body)
}

func (s *Staking) owned(caller thor.Address, id DepositID) (*Position, error) {
	pos, err := s.Deposit(id)
	if err != nil {
		return nil, err
	}
	if pos == nil {
		return nil, reverts.New("position not found")
	}
	if pos.Owner() != caller {
		return nil, &reverts.ErrUnauthorized{Caller: caller}
	}
	return pos, nil
}

func (s *Staking) newDepositID() (DepositID, error) {
	n, err := s.counter.Get()
	if err != nil {
		return 0, err
	}
	n++
	if n == 0 {
		return 0, errors.New("deposit ID counter overflow")
	}
	if err := s.counter.Upsert(n); err != nil {
		return 0, err
	}
	return DepositID(n), nil
}
