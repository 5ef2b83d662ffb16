// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package deposits

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/liquid/api/utils"
	"github.com/vechain/liquid/builtin/liquid/deposits"
	"github.com/vechain/liquid/thor"
)

type Deposit struct {
	ID        uint64                `json:"id"`
	Delegatee thor.Address          `json:"delegatee"`
	Staked    *math.HexOrDecimal256 `json:"staked"`
	Allowed   bool                  `json:"allowed"`
}

func convertDeposit(d *deposits.Deposit, allowed bool) *Deposit {
	return &Deposit{
		ID:        uint64(d.ID),
		Delegatee: d.Delegatee,
		Staked:    utils.Hex256(d.Staked),
		Allowed:   allowed,
	}
}

// AllowedRequest is an owner call flagging a delegatee.
type AllowedRequest struct {
	Caller  *thor.Address `json:"caller"`
	Allowed *bool         `json:"allowed"`
}

// InitResult is the deposit bound to a delegatee after fetch-or-init.
type InitResult struct {
	ID      uint64         `json:"id"`
	Receipt *utils.Receipt `json:"receipt"`
}
