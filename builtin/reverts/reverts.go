// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package reverts holds the errors a builtin contract returns when it rejects a call.
// A revert leaves no state change behind; any other error is a storage fault.
package reverts

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/vechain/liquid/thor"
)

// ErrNoEligibleStake is returned when a reward cannot be attributed to any deposit.
var ErrNoEligibleStake = New("no eligible stake")

// Reverter is implemented by every revert error.
type Reverter interface {
	error
	revert()
}

type ErrRevert struct {
	message string
}

func New(message string) *ErrRevert {
	return &ErrRevert{
		message: message,
	}
}

func (e *ErrRevert) Error() string {
	return e.message
}

func (e *ErrRevert) revert() {}

// ErrInvalidAmount rejects a zero or otherwise unusable amount.
type ErrInvalidAmount struct {
	Op string
}

func (e *ErrInvalidAmount) Error() string {
	return fmt.Sprintf("%s: invalid amount", e.Op)
}

func (e *ErrInvalidAmount) revert() {}

// ErrInsufficientBalance rejects a debit above the recorded balance.
type ErrInsufficientBalance struct {
	Holder    thor.Address
	Available *big.Int
	Requested *big.Int
}

func (e *ErrInsufficientBalance) Error() string {
	return fmt.Sprintf("insufficient balance: holder %v has %v, requested %v", e.Holder, e.Available, e.Requested)
}

func (e *ErrInsufficientBalance) revert() {}

// ErrInvalidDelegatee rejects the zero address or a disallowed delegatee.
type ErrInvalidDelegatee struct {
	Delegatee thor.Address
}

func (e *ErrInvalidDelegatee) Error() string {
	return fmt.Sprintf("invalid delegatee %v", e.Delegatee)
}

func (e *ErrInvalidDelegatee) revert() {}

// ErrUnauthorized rejects an owner-gated call from another caller.
type ErrUnauthorized struct {
	Caller thor.Address
}

func (e *ErrUnauthorized) Error() string {
	return fmt.Sprintf("unauthorized caller %v", e.Caller)
}

func (e *ErrUnauthorized) revert() {}

// InsufficientBalance builds an ErrInsufficientBalance with copied amounts.
func InsufficientBalance(holder thor.Address, available, requested *big.Int) error {
	return &ErrInsufficientBalance{
		Holder:    holder,
		Available: new(big.Int).Set(available),
		Requested: new(big.Int).Set(requested),
	}
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var r Reverter
	return errors.As(e, &r)
}
