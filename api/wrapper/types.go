// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package wrapper

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/liquid/thor"
)

// Info describes the wrapper token.
type Info struct {
	Address     thor.Address          `json:"address"`
	Owner       thor.Address          `json:"owner"`
	Delegatee   thor.Address          `json:"delegatee"`
	TotalSupply *math.HexOrDecimal256 `json:"totalSupply"`
	// Backing is the ledger stake held by the wrapper.
	Backing *math.HexOrDecimal256 `json:"backing"`
}

type Balance struct {
	Address thor.Address          `json:"address"`
	Balance *math.HexOrDecimal256 `json:"balance"`
}

// HolderRequest is a wrap or unwrap call.
type HolderRequest struct {
	Holder *thor.Address         `json:"holder"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

type TransferRequest struct {
	From   *thor.Address         `json:"from"`
	To     *thor.Address         `json:"to"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

type DelegateeRequest struct {
	Caller    *thor.Address `json:"caller"`
	Delegatee *thor.Address `json:"delegatee"`
}
