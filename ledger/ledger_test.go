// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"context"
	"math/big"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/liquid/builtin"
	"github.com/vechain/liquid/builtin/reverts"
	"github.com/vechain/liquid/event"
	"github.com/vechain/liquid/genesis"
	"github.com/vechain/liquid/logdb"
	"github.com/vechain/liquid/lvldb"
)

func newTestLedger(t *testing.T) (*Ledger, *lvldb.LevelDB) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	logDB, err := logdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { logDB.Close() })

	l := New(db, logDB)
	_, err = l.Execute("genesis", genesis.NewDevnet().Build)
	require.NoError(t, err)
	return l, db
}

func TestExecuteCommits(t *testing.T) {
	l, db := newTestLedger(t)
	holder := genesis.DevAccounts()[3].Address

	receipt, err := l.Execute("stake", func(c *builtin.Contracts) error {
		_, err := c.Liquid.Stake(holder, big.NewInt(100))
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), receipt.Seq)
	assert.Len(t, receipt.Events.Filter(event.Staked), 1)

	// a fresh ledger over the same store sees the commit
	again := New(db, nil)
	seq, err := again.Seq()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), seq)
	require.NoError(t, again.View(func(c *builtin.Contracts) error {
		balance, err := c.Liquid.BalanceOf(holder)
		require.NoError(t, err)
		assert.Equal(t, big.NewInt(100), balance)
		return nil
	}))

	logged, err := l.LogDB().FilterEvents(context.Background(), &logdb.EventFilter{
		Range:       &logdb.Range{From: 2, To: 2},
		CriteriaSet: []*logdb.EventCriteria{{Name: event.Staked}},
	})
	require.NoError(t, err)
	require.Len(t, logged, 1)
	assert.Equal(t, holder, logged[0].Subjects[0])
}

func TestExecuteReverts(t *testing.T) {
	l, _ := newTestLedger(t)
	holder := genesis.DevAccounts()[3].Address

	var before *big.Int
	require.NoError(t, l.View(func(c *builtin.Contracts) (err error) {
		before, err = c.Token.BalanceOf(holder)
		return
	}))

	// the stake succeeds, the failing unstake after it undoes it
	_, err := l.Execute("stakeThenFail", func(c *builtin.Contracts) error {
		if _, err := c.Liquid.Stake(holder, big.NewInt(100)); err != nil {
			return err
		}
		_, err := c.Liquid.Unstake(holder, big.NewInt(101))
		return err
	})
	var insufficient *reverts.ErrInsufficientBalance
	require.ErrorAs(t, err, &insufficient)

	require.NoError(t, l.View(func(c *builtin.Contracts) error {
		after, err := c.Token.BalanceOf(holder)
		require.NoError(t, err)
		assert.Equal(t, before, after)
		totals, err := c.Liquid.Totals()
		require.NoError(t, err)
		assert.Equal(t, 0, totals.Shares.Sign())
		return nil
	}))

	seq, err := l.Seq()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), seq)

	logged, err := l.LogDB().FilterEvents(context.Background(), &logdb.EventFilter{
		CriteriaSet: []*logdb.EventCriteria{{Name: event.Staked}},
	})
	require.NoError(t, err)
	assert.Empty(t, logged)
}

func TestViewDiscardsWrites(t *testing.T) {
	l, _ := newTestLedger(t)
	holder := genesis.DevAccounts()[4].Address

	require.NoError(t, l.View(func(c *builtin.Contracts) error {
		_, err := c.Liquid.Stake(holder, big.NewInt(5))
		return err
	}))
	require.NoError(t, l.View(func(c *builtin.Contracts) error {
		shares, err := c.Liquid.SharesOf(holder)
		require.NoError(t, err)
		assert.Equal(t, 0, shares.Sign())
		return nil
	}))
}

func TestWaiterWokenOnCommit(t *testing.T) {
	l, _ := newTestLedger(t)
	w := l.NewWaiter()
	ch := w.C()

	_, err := l.Execute("noop", func(*builtin.Contracts) error { return nil })
	require.NoError(t, err)

	select {
	case <-ch:
	default:
		t.Fatal("waiter not woken")
	}
}

func TestConcurrentOperations(t *testing.T) {
	l, _ := newTestLedger(t)
	accs := genesis.DevAccounts()

	var wg sync.WaitGroup
	for _, acc := range accs[2:] {
		wg.Go(func() {
			for range 10 {
				_, err := l.Execute("stake", func(c *builtin.Contracts) error {
					_, err := c.Liquid.Stake(acc.Address, big.NewInt(7))
					return err
				})
				assert.NoError(t, err)
			}
		})
	}
	wg.Wait()

	seq, err := l.Seq()
	require.NoError(t, err)
	assert.Equal(t, uint64(1+10*len(accs[2:])), seq)

	require.NoError(t, l.View(func(c *builtin.Contracts) error {
		totals, err := c.Liquid.Totals()
		require.NoError(t, err)
		assert.Equal(t, big.NewInt(int64(7*10*len(accs[2:]))), totals.Stake)
		return nil
	}))

	initialized, err := l.Initialized()
	require.NoError(t, err)
	assert.True(t, initialized)
}
