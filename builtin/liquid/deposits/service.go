// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package deposits maps delegatees to the staking positions that back them.
package deposits

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/liquid/builtin/reverts"
	"github.com/vechain/liquid/builtin/solidity"
	"github.com/vechain/liquid/builtin/staking"
	"github.com/vechain/liquid/event"
	"github.com/vechain/liquid/log"
	"github.com/vechain/liquid/thor"
)

var (
	logger = log.WithContext("pkg", "deposits")

	slotByDelegatee = thor.BytesToBytes32([]byte("deposit-by-delegatee"))
	slotDeposits    = thor.BytesToBytes32([]byte("deposits"))
	slotIndex       = thor.BytesToBytes32([]byte("deposit-index"))
	slotCount       = thor.BytesToBytes32([]byte("deposit-count"))
	slotDisallowed  = thor.BytesToBytes32([]byte("disallowed-delegatees"))
)

// Backend is the staking backend holding the positions.
type Backend interface {
	Stake(owner, delegatee thor.Address, amount *big.Int) (staking.DepositID, error)
	StakeMore(caller thor.Address, id staking.DepositID, amount *big.Int) error
	Withdraw(caller thor.Address, id staking.DepositID, amount *big.Int) error
}

// Service is the deposit registry. It is the only writer of deposit records
// and of the delegatee to deposit mapping.
type Service struct {
	sctx        *solidity.Context
	backend     Backend
	byDelegatee *solidity.Mapping[thor.Address, staking.DepositID]
	deposits    *solidity.Mapping[staking.DepositID, *body]
	index       *solidity.Mapping[index, staking.DepositID]
	count       *solidity.Raw[uint64]
	disallowed  *solidity.Mapping[thor.Address, bool]
}

func New(sctx *solidity.Context, backend Backend) *Service {
	return &Service{
		sctx:        sctx,
		backend:     backend,
		byDelegatee: solidity.NewMapping[thor.Address, staking.DepositID](sctx, slotByDelegatee),
		deposits:    solidity.NewMapping[staking.DepositID, *body](sctx, slotDeposits),
		index:       solidity.NewMapping[index, staking.DepositID](sctx, slotIndex),
		count:       solidity.NewRaw[uint64](sctx, slotCount),
		disallowed:  solidity.NewMapping[thor.Address, bool](sctx, slotDisallowed),
	}
}

// DepositForDelegatee looks up the deposit routed to delegatee.
// The boolean is false when no deposit was initialized for it yet.
func (s *Service) DepositForDelegatee(delegatee thor.Address) (staking.DepositID, bool, error) {
	id, err := s.byDelegatee.Get(delegatee)
	if err != nil {
		return 0, false, errors.Wrap(err, "failed to get deposit id")
	}
	return id, id != 0, nil
}

// FetchOrInitialize returns the deposit of delegatee, opening a position at
// the backend the first time the delegatee is seen.
func (s *Service) FetchOrInitialize(delegatee thor.Address) (staking.DepositID, error) {
	id, ok, err := s.DepositForDelegatee(delegatee)
	if err != nil || ok {
		return id, err
	}
	if err := s.Validate(delegatee); err != nil {
		return 0, err
	}

	id, err = s.backend.Stake(s.sctx.Address(), delegatee, new(big.Int))
	if err != nil {
		return 0, err
	}
	if err := s.byDelegatee.Insert(delegatee, id); err != nil {
		return 0, errors.Wrap(err, "failed to set deposit id")
	}
	if err := s.deposits.Insert(id, &body{Delegatee: delegatee, Staked: new(big.Int)}); err != nil {
		return 0, errors.Wrap(err, "failed to set deposit")
	}
	n, err := s.count.Get()
	if err != nil {
		return 0, err
	}
	if err := s.index.Insert(index(n), id); err != nil {
		return 0, errors.Wrap(err, "failed to index deposit")
	}
	if err := s.count.Upsert(n + 1); err != nil {
		return 0, err
	}

	logger.Debug("deposit initialized", "delegatee", delegatee, "id", id)
	s.sctx.Emit(event.DepositInitialized, []thor.Address{delegatee}, new(big.Int).SetUint64(uint64(id)))
	return id, nil
}

// Deposit returns the record of id, nil if unknown.
func (s *Service) Deposit(id staking.DepositID) (*Deposit, error) {
	b, err := s.deposits.Get(id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get deposit")
	}
	if b == nil {
		return nil, nil
	}
	return newDeposit(id, b), nil
}

// Deposits returns every deposit ordered by id.
func (s *Service) Deposits() ([]*Deposit, error) {
	n, err := s.count.Get()
	if err != nil {
		return nil, err
	}
	out := make([]*Deposit, 0, n)
	for i := range n {
		id, err := s.index.Get(index(i))
		if err != nil {
			return nil, errors.Wrap(err, "failed to get deposit index")
		}
		d, err := s.Deposit(id)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// Update applies delta to the stake of deposit id and to its backend position.
// The liquid contract must hold the tokens for a positive delta.
func (s *Service) Update(id staking.DepositID, delta *big.Int) error {
	b, err := s.deposits.Get(id)
	if err != nil {
		return errors.Wrap(err, "failed to get deposit")
	}
	if b == nil {
		return reverts.New("deposit not found")
	}

	switch delta.Sign() {
	case 0:
		return nil
	case 1:
		if err := s.backend.StakeMore(s.sctx.Address(), id, delta); err != nil {
			return err
		}
	case -1:
		amount := new(big.Int).Neg(delta)
		if b.Staked.Cmp(amount) < 0 {
			return reverts.InsufficientBalance(b.Delegatee, b.Staked, amount)
		}
		if err := s.backend.Withdraw(s.sctx.Address(), id, amount); err != nil {
			return err
		}
	}
	b.Staked.Add(b.Staked, delta)
	return s.deposits.Update(id, b)
}

// Move transfers amount of tracked stake between two deposits.
func (s *Service) Move(from, to staking.DepositID, amount *big.Int) error {
	if from == to || amount.Sign() == 0 {
		return nil
	}
	if err := s.Update(from, new(big.Int).Neg(amount)); err != nil {
		return err
	}
	return s.Update(to, amount)
}

// Reassign moves amount from the deposit of oldDelegatee to the deposit of
// newDelegatee, initializing the latter when needed.
func (s *Service) Reassign(oldDelegatee, newDelegatee thor.Address, amount *big.Int) (staking.DepositID, error) {
	if err := s.Validate(newDelegatee); err != nil {
		return 0, err
	}
	from, ok, err := s.DepositForDelegatee(oldDelegatee)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, reverts.InsufficientBalance(oldDelegatee, new(big.Int), amount)
	}
	to, err := s.FetchOrInitialize(newDelegatee)
	if err != nil {
		return 0, err
	}
	return to, s.Move(from, to, amount)
}

// Validate rejects the zero address and disallowed delegatees.
func (s *Service) Validate(delegatee thor.Address) error {
	if delegatee.IsZero() {
		return &reverts.ErrInvalidDelegatee{Delegatee: delegatee}
	}
	disallowed, err := s.disallowed.Get(delegatee)
	if err != nil {
		return errors.Wrap(err, "failed to get delegatee flag")
	}
	if disallowed {
		return &reverts.ErrInvalidDelegatee{Delegatee: delegatee}
	}
	return nil
}

// Allowed reports whether delegatee is a valid routing target.
func (s *Service) Allowed(delegatee thor.Address) (bool, error) {
	if delegatee.IsZero() {
		return false, nil
	}
	disallowed, err := s.disallowed.Get(delegatee)
	if err != nil {
		return false, errors.Wrap(err, "failed to get delegatee flag")
	}
	return !disallowed, nil
}

// SetAllowed flags or unflags delegatee as a valid routing target.
func (s *Service) SetAllowed(delegatee thor.Address, allowed bool) error {
	if delegatee.IsZero() {
		return &reverts.ErrInvalidDelegatee{Delegatee: delegatee}
	}
	if allowed {
		return s.disallowed.Update(delegatee, false)
	}
	return s.disallowed.Update(delegatee, true)
}
