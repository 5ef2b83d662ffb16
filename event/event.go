// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package event

import (
	"math/big"

	"github.com/vechain/liquid/thor"
)

// Names of the events emitted by the builtin contracts.
const (
	Staked             = "Staked"
	Unstaked           = "Unstaked"
	Transfer           = "Transfer"
	SharesTransfer     = "SharesTransfer"
	DelegateeAssigned  = "DelegateeAssigned"
	DepositInitialized = "DepositInitialized"
	DelegateeAllowed   = "DelegateeAllowed"
	RewardDistributed  = "RewardDistributed"
	BalanceChanged     = "BalanceChanged"
	Wrapped            = "Wrapped"
	Unwrapped          = "Unwrapped"
	WrappedTransfer    = "WrappedTransfer"
	DelegateeSet       = "DelegateeSet"
	TokenTransfer      = "TokenTransfer"
)

// Event is an observable notification raised by a builtin contract.
// Subjects are the addresses the event is about, in a fixed order per event name.
type Event struct {
	Address  thor.Address
	Name     string
	Subjects []thor.Address
	Amounts  []*big.Int
}

// Events slice of event logs.
type Events []*Event

// Filter returns the events matching the given name.
func (es Events) Filter(name string) Events {
	var out Events
	for _, e := range es {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}

// Sink receives events as they are emitted.
type Sink func(*Event)

// Collector buffers the events of a single operation.
type Collector struct {
	events Events
}

// Sink returns the sink appending to the collector.
func (c *Collector) Sink() Sink {
	return func(e *Event) {
		c.events = append(c.events, e)
	}
}

// Events returns the collected events.
func (c *Collector) Events() Events {
	return c.events
}

// Reset drops all collected events.
func (c *Collector) Reset() {
	c.events = nil
}
