// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package holders

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/liquid/thor"
)

// Holder is the ledger position of an address.
type Holder struct {
	Address   thor.Address          `json:"address"`
	Balance   *math.HexOrDecimal256 `json:"balance"`
	Shares    *math.HexOrDecimal256 `json:"shares"`
	Delegatee thor.Address          `json:"delegatee"`
	DepositID uint64                `json:"depositId"`
}

// AmountRequest carries a stake amount.
type AmountRequest struct {
	Amount *math.HexOrDecimal256 `json:"amount"`
}

// TransferRequest moves stake, or shares for transferShares, to another holder.
type TransferRequest struct {
	To     *thor.Address         `json:"to"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

type DelegateeRequest struct {
	Delegatee *thor.Address `json:"delegatee"`
}
