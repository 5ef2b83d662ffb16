// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package shares keeps the holder share balances and the ledger totals.
package shares

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/liquid/builtin/reverts"
	"github.com/vechain/liquid/builtin/solidity"
	"github.com/vechain/liquid/thor"
)

var (
	slotHolders     = thor.BytesToBytes32([]byte("holders"))
	slotTotalShares = thor.BytesToBytes32([]byte("total-shares"))
	slotTotalStake  = thor.BytesToBytes32([]byte("total-stake"))
)

// Service owns holder accounts and totals. Shares are only created by Mint
// and destroyed by Burn; Transfer keeps their sum unchanged.
type Service struct {
	holders     *solidity.Mapping[thor.Address, *body]
	totalShares *solidity.Uint256
	totalStake  *solidity.Uint256
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		holders:     solidity.NewMapping[thor.Address, *body](sctx, slotHolders),
		totalShares: solidity.NewUint256(sctx, slotTotalShares),
		totalStake:  solidity.NewUint256(sctx, slotTotalStake),
	}
}

// Holder returns the account of addr. Unknown holders read as zero shares.
func (s *Service) Holder(addr thor.Address) (*Holder, error) {
	b, err := s.holders.Get(addr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get holder")
	}
	if b == nil {
		return &Holder{Shares: new(big.Int)}, nil
	}
	return &Holder{Shares: b.Shares, Delegatee: b.Delegatee}, nil
}

func (s *Service) setHolder(addr thor.Address, h *Holder) error {
	if err := s.holders.Update(addr, &body{Shares: h.Shares, Delegatee: h.Delegatee}); err != nil {
		return errors.Wrap(err, "failed to set holder")
	}
	return nil
}

// Totals returns total shares and total stake.
func (s *Service) Totals() (*Totals, error) {
	shares, err := s.totalShares.Get()
	if err != nil {
		return nil, err
	}
	stake, err := s.totalStake.Get()
	if err != nil {
		return nil, err
	}
	return &Totals{Shares: shares, Stake: stake}, nil
}

// Mint credits shares to holder backed by stake.
func (s *Service) Mint(holder thor.Address, shares, stake *big.Int) error {
	h, err := s.Holder(holder)
	if err != nil {
		return err
	}
	h.Shares.Add(h.Shares, shares)
	if err := s.setHolder(holder, h); err != nil {
		return err
	}
	if err := s.totalShares.Add(shares); err != nil {
		return err
	}
	return s.totalStake.Add(stake)
}

// Burn debits shares from holder and releases stake from the total.
func (s *Service) Burn(holder thor.Address, shares, stake *big.Int) error {
	h, err := s.Holder(holder)
	if err != nil {
		return err
	}
	if h.Shares.Cmp(shares) < 0 {
		return reverts.InsufficientBalance(holder, h.Shares, shares)
	}
	h.Shares.Sub(h.Shares, shares)
	if err := s.setHolder(holder, h); err != nil {
		return err
	}
	if err := s.totalShares.Sub(shares); err != nil {
		return err
	}
	return s.totalStake.Sub(stake)
}

// Transfer moves shares between holders. Deposits are not touched.
func (s *Service) Transfer(from, to thor.Address, shares *big.Int) error {
	if shares.Sign() < 0 {
		return &reverts.ErrInvalidAmount{Op: "transferShares"}
	}
	src, err := s.Holder(from)
	if err != nil {
		return err
	}
	if src.Shares.Cmp(shares) < 0 {
		return reverts.InsufficientBalance(from, src.Shares, shares)
	}
	if from == to || shares.Sign() == 0 {
		return nil
	}
	src.Shares.Sub(src.Shares, shares)
	if err := s.setHolder(from, src); err != nil {
		return err
	}
	dst, err := s.Holder(to)
	if err != nil {
		return err
	}
	dst.Shares.Add(dst.Shares, shares)
	return s.setHolder(to, dst)
}

// SetDelegatee records the delegatee chosen by holder.
func (s *Service) SetDelegatee(holder, delegatee thor.Address) error {
	h, err := s.Holder(holder)
	if err != nil {
		return err
	}
	h.Delegatee = delegatee
	return s.setHolder(holder, h)
}

// AddStake raises total stake without minting shares.
func (s *Service) AddStake(amount *big.Int) error {
	return s.totalStake.Add(amount)
}
