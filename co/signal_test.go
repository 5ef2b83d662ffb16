// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"

	"github.com/vechain/liquid/co"
)

func ready(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

func TestSignal_NoBroadcast(t *testing.T) {
	var sig co.Signal
	w := sig.NewWaiter()
	assert.False(t, ready(w.C()))
	assert.False(t, ready(w.C()))
}

func TestSignal_BroadcastBeforeWaiter(t *testing.T) {
	var sig co.Signal
	sig.Broadcast()

	w := sig.NewWaiter()
	assert.False(t, ready(w.C()))
}

func TestSignal_BroadcastWakesAll(t *testing.T) {
	var sig co.Signal

	var ws []*co.Waiter
	for range 10 {
		ws = append(ws, sig.NewWaiter())
	}
	sig.Broadcast()

	for _, w := range ws {
		assert.True(t, ready(w.C()))
		// consumed
		assert.False(t, ready(w.C()))
	}
}

func TestSignal_NotLostWhileBusy(t *testing.T) {
	var sig co.Signal
	w := sig.NewWaiter()

	ch := w.C()
	sig.Broadcast()
	sig.Broadcast()
	assert.True(t, ready(ch))
	assert.True(t, ready(w.C()))
	assert.False(t, ready(w.C()))
}

func TestGoes(t *testing.T) {
	defer goleak.VerifyNone(t)

	var (
		g    co.Goes
		sig  co.Signal
		w    = sig.NewWaiter()
		done = make(chan struct{})
	)
	g.Go(func() {
		<-w.C()
		close(done)
	})
	sig.Broadcast()

	select {
	case <-g.Done():
	case <-time.After(time.Second):
		t.Fatal("goroutine did not exit")
	}
	assert.True(t, ready(done))
}
