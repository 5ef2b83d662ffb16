// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"sync"
	"time"

	"github.com/vechain/liquid/ledger"
)

type LastOperation struct {
	Seq       uint64     `json:"seq"`
	Timestamp *time.Time `json:"timestamp"`
}

type Status struct {
	Healthy       bool           `json:"healthy"`
	Initialized   bool           `json:"initialized"`
	LastOperation *LastOperation `json:"lastOperation"`
	Unindexed     uint64         `json:"unindexed"`
}

// Health watches the ledger sequence. The ledger is healthy once genesis has
// been applied and every committed operation reached the event log.
type Health struct {
	lock      sync.Mutex
	ledger    *ledger.Ledger
	seq       uint64
	changedAt time.Time
}

func New(ledger *ledger.Ledger) *Health {
	return &Health{ledger: ledger, changedAt: time.Now()}
}

func (h *Health) Status() (*Status, error) {
	seq, err := h.ledger.Seq()
	if err != nil {
		return nil, err
	}
	initialized, err := h.ledger.Initialized()
	if err != nil {
		return nil, err
	}

	h.lock.Lock()
	defer h.lock.Unlock()

	if seq != h.seq {
		h.seq = seq
		h.changedAt = time.Now()
	}
	changedAt := h.changedAt
	unindexed := h.ledger.Unindexed()

	return &Status{
		Healthy:       initialized && unindexed == 0,
		Initialized:   initialized,
		LastOperation: &LastOperation{Seq: seq, Timestamp: &changedAt},
		Unindexed:     unindexed,
	}, nil
}
