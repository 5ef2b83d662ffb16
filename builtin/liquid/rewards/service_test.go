// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/vechain/liquid/builtin/liquid/deposits"
	"github.com/vechain/liquid/builtin/reverts"
	"github.com/vechain/liquid/builtin/solidity"
	"github.com/vechain/liquid/builtin/staking"
	"github.com/vechain/liquid/lvldb"
	"github.com/vechain/liquid/state"
	"github.com/vechain/liquid/thor"
)

func dep(id uint64, staked int64) *deposits.Deposit {
	return &deposits.Deposit{ID: staking.DepositID(id), Delegatee: thor.Address{byte(id)}, Staked: big.NewInt(staked)}
}

func TestAttribute(t *testing.T) {
	plan, err := Attribute(big.NewInt(100), []*deposits.Deposit{dep(1, 1), dep(2, 0), dep(3, 2)})
	require.NoError(t, err)

	require.Len(t, plan.Allocations, 2)
	assert.Equal(t, staking.DepositID(1), plan.Allocations[0].ID)
	assert.Equal(t, big.NewInt(33), plan.Allocations[0].Amount)
	assert.Equal(t, staking.DepositID(3), plan.Allocations[1].ID)
	assert.Equal(t, big.NewInt(66), plan.Allocations[1].Amount)
	assert.Equal(t, big.NewInt(99), plan.Attributed)
	assert.Equal(t, big.NewInt(1), plan.Remainder)
}

func TestAttributeNoEligibleStake(t *testing.T) {
	_, err := Attribute(big.NewInt(100), []*deposits.Deposit{dep(1, 0)})
	assert.ErrorIs(t, err, reverts.ErrNoEligibleStake)

	_, err = Attribute(big.NewInt(100), nil)
	assert.ErrorIs(t, err, reverts.ErrNoEligibleStake)
}

func TestAttributeBounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 20).Draw(t, "deposits")
		ds := make([]*deposits.Deposit, n)
		for i := range ds {
			ds[i] = dep(uint64(i+1), rapid.Int64Range(0, 1e12).Draw(t, "staked"))
		}
		pool := big.NewInt(rapid.Int64Range(0, 1e12).Draw(t, "pool"))

		plan, err := Attribute(pool, ds)
		if err != nil {
			return
		}
		sum := new(big.Int)
		for _, a := range plan.Allocations {
			sum.Add(sum, a.Amount)
		}
		if sum.Cmp(plan.Attributed) != 0 {
			t.Fatalf("attributed %v, allocations sum %v", plan.Attributed, sum)
		}
		if plan.Attributed.Cmp(pool) > 0 {
			t.Fatalf("attributed %v above pool %v", plan.Attributed, pool)
		}
		if plan.Remainder.Cmp(big.NewInt(int64(n))) >= 0 {
			t.Fatalf("remainder %v not below deposit count %d", plan.Remainder, n)
		}
	})
}

func TestDustCarriedForward(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()
	s := New(solidity.NewContext(thor.LiquidAddress, state.New(db), nil))

	ds := []*deposits.Deposit{dep(1, 1), dep(2, 1), dep(3, 1)}
	plan, err := s.Plan(big.NewInt(10), ds)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(9), plan.Attributed)
	require.NoError(t, s.Settle(plan))

	dust, err := s.Dust()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1), dust)

	// 1 carried + 2 new = 3, split evenly
	plan, err = s.Plan(big.NewInt(2), ds)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(3), plan.Attributed)
	assert.Zero(t, plan.Remainder.Sign())
	require.NoError(t, s.Settle(plan))

	distributed, err := s.Distributed()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(12), distributed)
}
