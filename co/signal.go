// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import "sync"

// Signal wakes every waiter on Broadcast. The zero value is ready to use.
type Signal struct {
	mu sync.Mutex
	ch chan struct{}
}

func (s *Signal) current() chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ch == nil {
		s.ch = make(chan struct{})
	}
	return s.ch
}

// Broadcast wakes all goroutines waiting on s.
func (s *Signal) Broadcast() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ch != nil {
		close(s.ch)
		s.ch = nil
	}
}

// NewWaiter returns a waiter that follows every broadcast from now on.
func (s *Signal) NewWaiter() *Waiter {
	return &Waiter{s: s, ch: s.current()}
}

// Waiter observes the broadcasts of one Signal.
type Waiter struct {
	s  *Signal
	ch chan struct{}
}

// C returns a channel closed by the first broadcast since the previous call.
// Broadcasts that happen while the caller is busy are not lost.
func (w *Waiter) C() <-chan struct{} {
	ch := w.ch
	w.ch = w.s.current()
	return ch
}
