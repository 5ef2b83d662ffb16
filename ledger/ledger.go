// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package ledger runs operations against the builtin contracts atomically.
// Every operation either commits with all its events or leaves no trace.
package ledger

import (
	"math/big"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"github.com/vechain/liquid/builtin"
	"github.com/vechain/liquid/builtin/reverts"
	"github.com/vechain/liquid/builtin/solidity"
	"github.com/vechain/liquid/co"
	"github.com/vechain/liquid/event"
	"github.com/vechain/liquid/kv"
	"github.com/vechain/liquid/log"
	"github.com/vechain/liquid/logdb"
	"github.com/vechain/liquid/state"
	"github.com/vechain/liquid/thor"
)

var (
	logger = log.WithContext("pkg", "ledger")

	metaAddress = thor.BytesToAddress([]byte("Ledger"))
	slotSeq     = thor.BytesToBytes32([]byte("seq"))
)

// Receipt is the outcome of a committed operation.
type Receipt struct {
	Seq    uint64
	Op     string
	Events event.Events
}

// Ledger serialises operations on one state. It is safe for concurrent use.
type Ledger struct {
	mu        sync.Mutex
	state     *state.State
	collector *event.Collector
	contracts *builtin.Contracts
	seq       *solidity.Raw[uint64]
	logDB     *logdb.LogDB
	signal    co.Signal
	unindexed atomic.Uint64
}

// New creates a ledger over db. logDB may be nil, events are then only
// returned in receipts.
func New(db kv.Store, logDB *logdb.LogDB) *Ledger {
	st := state.New(db)
	collector := &event.Collector{}
	return &Ledger{
		state:     st,
		collector: collector,
		contracts: builtin.New(st, collector.Sink()),
		seq:       solidity.NewRaw[uint64](solidity.NewContext(metaAddress, st, nil), slotSeq),
		logDB:     logDB,
	}
}

// Execute runs fn as one operation named op. On error every state change and
// event of fn is dropped.
func (l *Ledger) Execute(op string, fn func(c *builtin.Contracts) error) (*Receipt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	start := time.Now()
	defer func() {
		metricOpDuration().ObserveWithLabels(time.Since(start).Microseconds(), map[string]string{"op": op})
	}()

	receipt, err := l.execute(op, fn)
	if err != nil {
		outcome := "error"
		if reverts.IsRevertErr(err) {
			outcome = "revert"
			logger.Debug("operation rejected", "op", op, "err", err)
		} else {
			logger.Error("operation failed", "op", op, "err", err)
		}
		metricOperations().AddWithLabel(1, map[string]string{"op": op, "outcome": outcome})
		return nil, err
	}
	metricOperations().AddWithLabel(1, map[string]string{"op": op, "outcome": "ok"})

	if l.logDB != nil {
		if err := l.logDB.Write(receipt.Seq, receipt.Events); err != nil {
			// the state is already committed, the log falls behind
			l.unindexed.Add(1)
			logger.Error("failed to write events", "seq", receipt.Seq, "err", err)
		}
	}
	l.signal.Broadcast()
	l.updateGauges(receipt.Seq)
	return receipt, nil
}

func (l *Ledger) execute(op string, fn func(c *builtin.Contracts) error) (*Receipt, error) {
	l.collector.Reset()
	checkpoint := l.state.NewCheckpoint()
	revert := func() {
		l.state.RevertTo(checkpoint)
		l.collector.Reset()
	}

	if err := fn(l.contracts); err != nil {
		revert()
		return nil, err
	}
	seq, err := l.seq.Get()
	if err != nil {
		revert()
		return nil, err
	}
	seq++
	if err := l.seq.Upsert(seq); err != nil {
		revert()
		return nil, err
	}
	dirty := l.state.Dirty()
	if err := l.state.Commit(); err != nil {
		revert()
		return nil, errors.WithMessage(err, "commit")
	}

	events := append(event.Events(nil), l.collector.Events()...)
	l.collector.Reset()
	logger.Debug("operation committed", "op", op, "seq", seq, "slots", dirty, "events", len(events))
	metricEvents().Add(int64(len(events)))
	return &Receipt{Seq: seq, Op: op, Events: events}, nil
}

// View runs fn against the committed state. Writes made by fn are discarded.
func (l *Ledger) View(fn func(c *builtin.Contracts) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	checkpoint := l.state.NewCheckpoint()
	defer func() {
		l.state.RevertTo(checkpoint)
		l.collector.Reset()
	}()
	return fn(l.contracts)
}

// Seq returns the sequence number of the last committed operation.
func (l *Ledger) Seq() (seq uint64, err error) {
	err = l.View(func(*builtin.Contracts) error {
		seq, err = l.seq.Get()
		return err
	})
	return
}

// Initialized reports whether genesis was applied.
func (l *Ledger) Initialized() (ok bool, err error) {
	err = l.View(func(c *builtin.Contracts) error {
		ok, err = c.Liquid.Initialized()
		return err
	})
	return
}

// NewWaiter returns a waiter woken after every committed operation.
func (l *Ledger) NewWaiter() *co.Waiter {
	return l.signal.NewWaiter()
}

// Unindexed returns how many committed operations are missing from the event log.
func (l *Ledger) Unindexed() uint64 {
	return l.unindexed.Load()
}

// LogDB returns the event log, nil when events are not persisted.
func (l *Ledger) LogDB() *logdb.LogDB {
	return l.logDB
}

func (l *Ledger) updateGauges(seq uint64) {
	metricSeq().Set(int64(seq))

	totals, err := l.contracts.Liquid.Totals()
	if err != nil {
		logger.Warn("failed to read totals", "err", err)
		return
	}
	scale, err := l.contracts.Liquid.ShareScaleFactor()
	if err != nil {
		logger.Warn("failed to read scale factor", "err", err)
		return
	}
	metricTotalStake().Set(gaugeValue(totals.Stake, thor.Ether))
	metricTotalShares().Set(gaugeValue(totals.Shares, new(big.Int).Mul(scale, thor.Ether)))
}
