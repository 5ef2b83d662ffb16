// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package liquid

import (
	"math/big"

	"github.com/vechain/liquid/builtin/reverts"
	"github.com/vechain/liquid/builtin/staking"
)

type draw struct {
	id     staking.DepositID
	amount *big.Int
}

// drain plans where amount of stake is taken from: the primary deposit first,
// then the default deposit, then every other deposit by id. Rounding lets a
// holder's balance exceed what its own deposit tracks; the shortfall is
// covered by the others. The exclude deposit is never drawn from.
func (l *Liquid) drain(primary, exclude staking.DepositID, amount *big.Int) ([]draw, error) {
	def, err := l.DefaultDelegatee()
	if err != nil {
		return nil, err
	}
	defID, err := l.depositOf(def)
	if err != nil {
		return nil, err
	}

	order := []staking.DepositID{primary}
	if defID != primary {
		order = append(order, defID)
	}

	var (
		draws     []draw
		remaining = new(big.Int).Set(amount)
		visited   = map[staking.DepositID]bool{exclude: true}
	)
	take := func(id staking.DepositID) error {
		if visited[id] || remaining.Sign() == 0 {
			return nil
		}
		visited[id] = true
		d, err := l.depositService.Deposit(id)
		if err != nil {
			return err
		}
		if d == nil || d.Staked.Sign() == 0 {
			return nil
		}
		part := d.Staked
		if part.Cmp(remaining) > 0 {
			part = new(big.Int).Set(remaining)
		}
		draws = append(draws, draw{id: id, amount: part})
		remaining.Sub(remaining, part)
		return nil
	}

	for _, id := range order {
		if err := take(id); err != nil {
			return nil, err
		}
	}
	if remaining.Sign() > 0 {
		all, err := l.depositService.Deposits()
		if err != nil {
			return nil, err
		}
		for _, d := range all {
			if err := take(d.ID); err != nil {
				return nil, err
			}
		}
	}
	if remaining.Sign() > 0 {
		drawn := new(big.Int).Sub(amount, remaining)
		return nil, reverts.InsufficientBalance(l.Address(), drawn, amount)
	}
	if len(draws) > 1 {
		logger.Debug("stake drawn from several deposits", "primary", primary, "draws", len(draws))
	}
	return draws, nil
}
