// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"

	"github.com/vechain/liquid/event"
	"github.com/vechain/liquid/state"
	"github.com/vechain/liquid/thor"
)

// Context binds a builtin contract address to the state it reads and writes,
// and to the sink receiving its events.
type Context struct {
	address thor.Address
	state   *state.State
	sink    event.Sink
}

func NewContext(address thor.Address, state *state.State, sink event.Sink) *Context {
	return &Context{
		address: address,
		state:   state,
		sink:    sink,
	}
}

func (c *Context) Address() thor.Address {
	return c.address
}

func (c *Context) State() *state.State {
	return c.state
}

// Emit raises an event from the bound contract. A context without sink drops events.
func (c *Context) Emit(name string, subjects []thor.Address, amounts ...*big.Int) {
	if c.sink == nil {
		return
	}
	copied := make([]*big.Int, len(amounts))
	for i, a := range amounts {
		copied[i] = new(big.Int).Set(a)
	}
	c.sink(&event.Event{
		Address:  c.address,
		Name:     name,
		Subjects: subjects,
		Amounts:  copied,
	})
}
