// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package shares

import (
	"math/big"

	"github.com/vechain/liquid/thor"
)

type body struct {
	Shares    *big.Int
	Delegatee thor.Address
}

// Holder is a holder account. A zero delegatee means the holder never chose one.
type Holder struct {
	Shares    *big.Int
	Delegatee thor.Address
}

// Totals are the ledger wide share and stake totals.
type Totals struct {
	Shares *big.Int
	Stake  *big.Int
}
