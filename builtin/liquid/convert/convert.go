// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package convert maps between stake units and share units.
// Every conversion floors unless its name says otherwise, so the ledger never
// owes more stake than it holds.
package convert

import "math/big"

// Converter carries the bootstrap ratio used while no stake is tracked.
type Converter struct {
	initialRatio *big.Int
}

func New(initialShareRatio *big.Int) Converter {
	return Converter{initialRatio: new(big.Int).Set(initialShareRatio)}
}

// SharesForStake returns stake * totalShares / totalStake, or
// stake * initialShareRatio when totalStake is zero.
func (c Converter) SharesForStake(stake, totalShares, totalStake *big.Int) *big.Int {
	if totalStake.Sign() == 0 {
		return new(big.Int).Mul(stake, c.initialRatio)
	}
	out := new(big.Int).Mul(stake, totalShares)
	return out.Quo(out, totalStake)
}

// SharesForStakeUp is SharesForStake rounded up. Burns use it so a withdrawal
// never leaves the remaining holders with a lower share price.
func (c Converter) SharesForStakeUp(stake, totalShares, totalStake *big.Int) *big.Int {
	if totalStake.Sign() == 0 {
		return new(big.Int).Mul(stake, c.initialRatio)
	}
	num := new(big.Int).Mul(stake, totalShares)
	q, m := new(big.Int).QuoRem(num, totalStake, new(big.Int))
	if m.Sign() != 0 {
		q.Add(q, big.NewInt(1))
	}
	return q
}

// StakeForShares returns shares * totalStake / totalShares, or zero when no shares exist.
func StakeForShares(shares, totalShares, totalStake *big.Int) *big.Int {
	if totalShares.Sign() == 0 {
		return new(big.Int)
	}
	out := new(big.Int).Mul(shares, totalStake)
	return out.Quo(out, totalShares)
}

// MulDiv returns a * b / c, floored. c must be positive.
func MulDiv(a, b, c *big.Int) *big.Int {
	out := new(big.Int).Mul(a, b)
	return out.Quo(out, c)
}
