// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package deposits

import (
	"math/big"

	"github.com/vechain/liquid/builtin/staking"
	"github.com/vechain/liquid/thor"
)

type body struct {
	Delegatee thor.Address
	Staked    *big.Int
}

// Deposit is the registry record of one staking position, shared by every
// holder routed to its delegatee.
type Deposit struct {
	ID        staking.DepositID
	Delegatee thor.Address
	Staked    *big.Int
}

func newDeposit(id staking.DepositID, b *body) *Deposit {
	return &Deposit{
		ID:        id,
		Delegatee: b.Delegatee,
		Staked:    new(big.Int).Set(b.Staked),
	}
}

type index uint64

func (i index) Bytes() []byte {
	return staking.DepositID(i).Bytes()
}
