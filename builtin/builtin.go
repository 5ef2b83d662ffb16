// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/vechain/liquid/builtin/liquid"
	"github.com/vechain/liquid/builtin/staking"
	"github.com/vechain/liquid/builtin/token"
	"github.com/vechain/liquid/builtin/wrapper"
	"github.com/vechain/liquid/event"
	"github.com/vechain/liquid/state"
)

// Builtin contracts binding.
var (
	Token   = &tokenContract{newContract("Token")}
	Staking = &stakingContract{newContract("Staking")}
	Liquid  = &liquidContract{newContract("Liquid")}
	Wrapper = &wrapperContract{newContract("Wrapper")}
)

type (
	tokenContract   struct{ *contract }
	stakingContract struct{ *contract }
	liquidContract  struct{ *contract }
	wrapperContract struct{ *contract }
)

func (t *tokenContract) Native(state *state.State, sink event.Sink) *token.Token {
	return token.New(t.Address, state, sink)
}

func (s *stakingContract) Native(state *state.State, sink event.Sink) *staking.Staking {
	return staking.New(s.Address, state, sink, Token.Native(state, sink))
}

// Native binds the ledger with the wrapper's holding reserved.
func (l *liquidContract) Native(state *state.State, sink event.Sink) *liquid.Liquid {
	lq := liquid.New(l.Address, state, sink, Token.Native(state, sink), Staking.Native(state, sink))
	lq.Reserve(Wrapper.Address)
	return lq
}

func (w *wrapperContract) Native(state *state.State, sink event.Sink) *wrapper.Wrapper {
	lq := Liquid.Native(state, sink)
	return wrapper.New(w.Address, state, sink, lq, lq.Reserve(w.Address))
}

// Contracts are the builtin contracts bound to one state and one event sink.
type Contracts struct {
	Token   *token.Token
	Staking *staking.Staking
	Liquid  *liquid.Liquid
	Wrapper *wrapper.Wrapper
}

// New binds all builtin contracts to state.
func New(state *state.State, sink event.Sink) *Contracts {
	return &Contracts{
		Token:   Token.Native(state, sink),
		Staking: Staking.Native(state, sink),
		Liquid:  Liquid.Native(state, sink),
		Wrapper: Wrapper.Native(state, sink),
	}
}
