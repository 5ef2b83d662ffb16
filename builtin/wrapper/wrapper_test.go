// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package wrapper

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/vechain/liquid/builtin/liquid"
	"github.com/vechain/liquid/builtin/reverts"
	"github.com/vechain/liquid/builtin/staking"
	"github.com/vechain/liquid/builtin/token"
	"github.com/vechain/liquid/event"
	"github.com/vechain/liquid/lvldb"
	"github.com/vechain/liquid/state"
	"github.com/vechain/liquid/test/datagen"
	"github.com/vechain/liquid/thor"
)

var (
	owner     = thor.BytesToAddress([]byte("owner"))
	validator = thor.BytesToAddress([]byte("validator"))
	other     = thor.BytesToAddress([]byte("other"))
	alice     = thor.BytesToAddress([]byte("alice"))
	bob       = thor.BytesToAddress([]byte("bob"))
	source    = thor.BytesToAddress([]byte("rewards"))
)

type testEnv struct {
	wrapper *Wrapper
	ledger  *liquid.Liquid
	events  *event.Collector
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWith(t, true)
}

func newTestEnvWith(t *testing.T, initWrapper bool) *testEnv {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := state.New(db)
	col := &event.Collector{}
	tok := token.New(thor.TokenAddress, st, col.Sink())
	stk := staking.New(thor.StakingAddress, st, col.Sink(), tok)
	l := liquid.New(thor.LiquidAddress, st, col.Sink(), tok, stk)
	w := New(thor.WrapperAddress, st, col.Sink(), l, l.Reserve(thor.WrapperAddress))

	require.NoError(t, l.Initialize(liquid.Params{Owner: owner, DefaultDelegatee: validator}))
	if initWrapper {
		require.NoError(t, w.Initialize(owner, validator))
	}
	for _, addr := range []thor.Address{alice, bob, source} {
		require.NoError(t, tok.Mint(addr, datagen.Ether(1_000_000)))
	}
	col.Reset()
	return &testEnv{wrapper: w, ledger: l, events: col}
}

func (e *testEnv) stake(t *testing.T, holder thor.Address, amount int64) {
	_, err := e.ledger.Stake(holder, big.NewInt(amount))
	require.NoError(t, err)
}

func TestWrapUnwrap(t *testing.T) {
	env := newTestEnv(t)
	env.stake(t, alice, 100)

	wrapped, err := env.wrapper.Wrap(alice, big.NewInt(100))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(100), wrapped)

	balance, err := env.wrapper.BalanceOf(alice)
	require.NoError(t, err)
	assert.Equal(t, wrapped, balance)

	supply, err := env.wrapper.TotalSupply()
	require.NoError(t, err)
	assert.Equal(t, wrapped, supply)

	staked, err := env.ledger.BalanceOf(alice)
	require.NoError(t, err)
	assert.Equal(t, 0, staked.Sign())

	// the wrapped balance does not rebase, its value in stake grows
	_, err = env.ledger.DistributeReward(source, big.NewInt(50))
	require.NoError(t, err)

	stake, err := env.wrapper.Unwrap(alice, wrapped)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(150), stake)

	staked, err = env.ledger.BalanceOf(alice)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(150), staked)

	assert.Len(t, env.events.Events().Filter(event.Wrapped), 1)
	unwrapped := env.events.Events().Filter(event.Unwrapped)
	require.Len(t, unwrapped, 1)
	assert.Equal(t, []*big.Int{big.NewInt(150), big.NewInt(100)}, unwrapped[0].Amounts)
}

func TestWrapRejectsZero(t *testing.T) {
	env := newTestEnv(t)
	env.stake(t, alice, 100)

	var invalid *reverts.ErrInvalidAmount
	_, err := env.wrapper.Wrap(alice, new(big.Int))
	assert.ErrorAs(t, err, &invalid)

	_, err = env.wrapper.Unwrap(alice, new(big.Int))
	assert.ErrorAs(t, err, &invalid)
}

func TestWrapBelowOneUnit(t *testing.T) {
	env := newTestEnv(t)
	env.stake(t, alice, 3)
	_, err := env.ledger.DistributeReward(source, datagen.Ether(1))
	require.NoError(t, err)

	// one stake unit is worth less than one wrapped unit now
	var invalid *reverts.ErrInvalidAmount
	_, err = env.wrapper.Wrap(alice, big.NewInt(1))
	assert.ErrorAs(t, err, &invalid)
}

func TestUnwrapTooMuch(t *testing.T) {
	env := newTestEnv(t)
	env.stake(t, alice, 100)
	_, err := env.wrapper.Wrap(alice, big.NewInt(40))
	require.NoError(t, err)

	_, err = env.wrapper.Unwrap(alice, big.NewInt(41))
	var insufficient *reverts.ErrInsufficientBalance
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, alice, insufficient.Holder)
	assert.Equal(t, big.NewInt(40), insufficient.Available)
	assert.Equal(t, big.NewInt(41), insufficient.Requested)
}

func TestTransfer(t *testing.T) {
	env := newTestEnv(t)
	env.stake(t, alice, 100)
	_, err := env.wrapper.Wrap(alice, big.NewInt(100))
	require.NoError(t, err)

	require.NoError(t, env.wrapper.Transfer(alice, bob, big.NewInt(25)))
	b, err := env.wrapper.BalanceOf(bob)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(25), b)

	var insufficient *reverts.ErrInsufficientBalance
	assert.ErrorAs(t, env.wrapper.Transfer(bob, alice, big.NewInt(26)), &insufficient)
	assert.Error(t, env.wrapper.Transfer(alice, thor.Address{}, big.NewInt(1)))

	supply, err := env.wrapper.TotalSupply()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(100), supply)
}

func TestSetDelegatee(t *testing.T) {
	env := newTestEnv(t)
	env.stake(t, alice, 100)
	_, err := env.wrapper.Wrap(alice, big.NewInt(60))
	require.NoError(t, err)

	var unauthorized *reverts.ErrUnauthorized
	assert.ErrorAs(t, env.wrapper.SetDelegatee(alice, other), &unauthorized)

	require.NoError(t, env.wrapper.SetDelegatee(owner, other))
	delegatee, err := env.wrapper.Delegatee()
	require.NoError(t, err)
	assert.Equal(t, other, delegatee)

	id, ok, err := env.ledger.DepositForDelegatee(other)
	require.NoError(t, err)
	require.True(t, ok)
	d, err := env.ledger.Deposit(id)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(60), d.Staked)

	set := env.events.Events().Filter(event.DelegateeSet)
	require.Len(t, set, 1)
	assert.Equal(t, []thor.Address{validator, other}, set[0].Subjects)
	assert.Empty(t, set[0].Amounts)
}

func TestRoundTripNeverGains(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		env := newTestEnv(t)
		env.stake(t, bob, rapid.Int64Range(1, 1e15).Draw(rt, "seed"))
		if reward := rapid.Int64Range(0, 1e15).Draw(rt, "reward"); reward > 0 {
			_, err := env.ledger.DistributeReward(source, big.NewInt(reward))
			require.NoError(rt, err)
		}

		x := big.NewInt(rapid.Int64Range(1, 1e15).Draw(rt, "stake"))
		if _, err := env.ledger.Stake(alice, x); err != nil {
			// too small to mint a share at this price
			var invalid *reverts.ErrInvalidAmount
			require.ErrorAs(rt, err, &invalid)
			return
		}
		held, err := env.ledger.BalanceOf(alice)
		require.NoError(rt, err)
		if held.Cmp(x) < 0 {
			x = held
		}

		totals, err := env.ledger.Totals()
		require.NoError(rt, err)
		scale, err := env.ledger.ShareScaleFactor()
		require.NoError(rt, err)

		wrapped, err := env.wrapper.Wrap(alice, x)
		if err != nil {
			var invalid *reverts.ErrInvalidAmount
			require.ErrorAs(rt, err, &invalid)
			return
		}
		back, err := env.wrapper.Unwrap(alice, wrapped)
		require.NoError(rt, err)

		require.True(rt, back.Cmp(x) <= 0, "unwrapped %v more than wrapped %v", back, x)
		// the loss is bounded by the stake value of one wrapped unit plus rounding
		limit := new(big.Int).Mul(new(big.Int).Add(scale, big.NewInt(1)), totals.Stake)
		limit.Add(limit, new(big.Int).Sub(totals.Shares, big.NewInt(1)))
		limit.Quo(limit, totals.Shares)
		limit.Add(limit, big.NewInt(1))
		require.True(rt, new(big.Int).Sub(x, back).Cmp(limit) <= 0, "lost %v", new(big.Int).Sub(x, back))
	})
}

func TestWrapRequiresInitialize(t *testing.T) {
	env := newTestEnvWith(t, false)
	env.stake(t, alice, 100)

	_, err := env.wrapper.Wrap(alice, big.NewInt(100))
	assert.EqualError(t, err, "wrapper not initialized")
	_, err = env.wrapper.Unwrap(alice, big.NewInt(1))
	assert.EqualError(t, err, "wrapper not initialized")

	balance, err := env.ledger.BalanceOf(alice)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(100), balance)

	require.NoError(t, env.wrapper.Initialize(owner, validator))
	_, err = env.wrapper.Wrap(alice, big.NewInt(100))
	assert.NoError(t, err)
}
