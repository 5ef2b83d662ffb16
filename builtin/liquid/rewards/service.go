// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package rewards attributes reward inflows to deposits.
package rewards

import (
	"math/big"

	"github.com/vechain/liquid/builtin/liquid/convert"
	"github.com/vechain/liquid/builtin/liquid/deposits"
	"github.com/vechain/liquid/builtin/reverts"
	"github.com/vechain/liquid/builtin/solidity"
	"github.com/vechain/liquid/builtin/staking"
	"github.com/vechain/liquid/thor"
)

var (
	slotDust        = thor.BytesToBytes32([]byte("reward-dust"))
	slotDistributed = thor.BytesToBytes32([]byte("reward-distributed"))
)

// Allocation is the part of a reward attributed to one deposit.
type Allocation struct {
	ID     staking.DepositID
	Amount *big.Int
}

// Plan is the outcome of attributing a reward pool.
type Plan struct {
	Allocations []Allocation
	// Attributed is the sum of all allocations, the exact total stake increase.
	Attributed *big.Int
	// Remainder is left over by flooring and carried to the next distribution.
	Remainder *big.Int
}

// Service keeps the carried remainder and the cumulative attributed amount.
type Service struct {
	dust        *solidity.Uint256
	distributed *solidity.Uint256
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		dust:        solidity.NewUint256(sctx, slotDust),
		distributed: solidity.NewUint256(sctx, slotDistributed),
	}
}

// Dust returns the remainder carried from previous distributions.
func (s *Service) Dust() (*big.Int, error) {
	return s.dust.Get()
}

// Distributed returns the total stake attributed by rewards so far.
func (s *Service) Distributed() (*big.Int, error) {
	return s.distributed.Get()
}

// Plan attributes amount plus the carried dust across deposits in proportion
// to their staked amounts. Deposits with nothing staked get nothing.
func (s *Service) Plan(amount *big.Int, ds []*deposits.Deposit) (*Plan, error) {
	dust, err := s.dust.Get()
	if err != nil {
		return nil, err
	}
	return Attribute(new(big.Int).Add(amount, dust), ds)
}

// Settle records the outcome of an applied plan.
func (s *Service) Settle(plan *Plan) error {
	if err := s.dust.Set(plan.Remainder); err != nil {
		return err
	}
	return s.distributed.Add(plan.Attributed)
}

// Attribute splits pool across deposits by staked amount, flooring every part.
// The remainder is below the number of eligible deposits.
func Attribute(pool *big.Int, ds []*deposits.Deposit) (*Plan, error) {
	eligible := new(big.Int)
	for _, d := range ds {
		eligible.Add(eligible, d.Staked)
	}
	if eligible.Sign() == 0 {
		return nil, reverts.ErrNoEligibleStake
	}

	plan := &Plan{Attributed: new(big.Int)}
	for _, d := range ds {
		if d.Staked.Sign() == 0 {
			continue
		}
		part := convert.MulDiv(pool, d.Staked, eligible)
		if part.Sign() == 0 {
			continue
		}
		plan.Allocations = append(plan.Allocations, Allocation{ID: d.ID, Amount: part})
		plan.Attributed.Add(plan.Attributed, part)
	}
	plan.Remainder = new(big.Int).Sub(pool, plan.Attributed)
	return plan, nil
}
