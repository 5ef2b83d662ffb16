// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package liquid

import (
	"math/big"

	"github.com/vechain/liquid/thor"
)

// Account is the handle of a reserved holder. Public operations refuse to
// move stake out of a reserved holder or re-route it; only the handle can.
type Account struct {
	ledger *Liquid
	holder thor.Address
}

// Reserve marks holder as reserved and returns its handle. Reserving the same
// holder twice returns an equivalent handle.
func (l *Liquid) Reserve(holder thor.Address) *Account {
	l.reserved[holder] = true
	return &Account{ledger: l, holder: holder}
}

// Reserved reports whether holder can only be debited through its handle.
func (l *Liquid) Reserved(holder thor.Address) bool {
	return l.reserved[holder]
}

func (a *Account) Address() thor.Address {
	return a.holder
}

// Transfer moves the shares worth stake out of the reserved holder.
func (a *Account) Transfer(to thor.Address, stake *big.Int) (*big.Int, error) {
	return a.ledger.transfer(a.holder, to, stake)
}

// SetDelegatee routes the reserved holder's stake to delegatee.
func (a *Account) SetDelegatee(delegatee thor.Address) error {
	return a.ledger.setDelegatee(a.holder, delegatee)
}
