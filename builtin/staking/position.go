// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"encoding/binary"
	"math/big"
	"strconv"

	"github.com/vechain/liquid/thor"
)

// DepositID identifies a staking position. Zero is never allocated.
type DepositID uint64

func (id DepositID) Bytes() []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(id))
	return b[:]
}

func (id DepositID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

type body struct {
	Owner     thor.Address
	Delegatee thor.Address
	Amount    *big.Int
}

// Position is a read only view of a staking position.
type Position struct {
	*body
}

func (p *Position) Owner() thor.Address     { return p.body.Owner }
func (p *Position) Delegatee() thor.Address { return p.body.Delegatee }

func (p *Position) Amount() *big.Int {
	return new(big.Int).Set(p.body.Amount)
}
