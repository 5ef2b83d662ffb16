// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import "math/big"

// Ledger parameters applied at genesis when the config leaves them unset.
var (
	// DefaultShareScaleFactor is the ratio between ledger shares and wrapped token units.
	DefaultShareScaleFactor = big.NewInt(1e10)

	// Ether is 1e18 base units of the stakeable token.
	Ether = big.NewInt(1e18)
)

// Builtin contract addresses.
var (
	TokenAddress   = BytesToAddress([]byte("Token"))
	StakingAddress = BytesToAddress([]byte("Staking"))
	LiquidAddress  = BytesToAddress([]byte("Liquid"))
	WrapperAddress = BytesToAddress([]byte("Wrapper"))
)
