// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/liquid/builtin/reverts"
	"github.com/vechain/liquid/builtin/token"
	"github.com/vechain/liquid/lvldb"
	"github.com/vechain/liquid/state"
	"github.com/vechain/liquid/test/datagen"
	"github.com/vechain/liquid/thor"
)

func newStaking(t *testing.T) (*Staking, *token.Token) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	st := state.New(db)
	tok := token.New(thor.TokenAddress, st, nil)
	return New(thor.StakingAddress, st, nil, tok), tok
}

func TestStakeLifecycle(t *testing.T) {
	s, tok := newStaking(t)
	owner, delegatee := datagen.RandAddress(), datagen.RandAddress()
	require.NoError(t, tok.Mint(owner, big.NewInt(1000)))

	id, err := s.Stake(owner, delegatee, big.NewInt(0))
	require.NoError(t, err)
	assert.Equal(t, DepositID(1), id)

	id2, err := s.Stake(owner, delegatee, big.NewInt(100))
	require.NoError(t, err)
	assert.Equal(t, DepositID(2), id2)

	require.NoError(t, s.StakeMore(owner, id, big.NewInt(50)))
	require.NoError(t, s.Withdraw(owner, id2, big.NewInt(40)))

	pos, err := s.Deposit(id)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(50), pos.Amount())
	assert.Equal(t, owner, pos.Owner())

	total, err := s.TotalStaked()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(110), total)

	held, err := tok.BalanceOf(thor.StakingAddress)
	require.NoError(t, err)
	assert.Equal(t, total, held)

	other := datagen.RandAddress()
	require.NoError(t, s.AlterDelegatee(owner, id, other))
	pos, err = s.Deposit(id)
	require.NoError(t, err)
	assert.Equal(t, other, pos.Delegatee())

	missing, err := s.Deposit(99)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestStakingRejections(t *testing.T) {
	s, tok := newStaking(t)
	owner, stranger := datagen.RandAddress(), datagen.RandAddress()
	require.NoError(t, tok.Mint(owner, big.NewInt(100)))
	id, err := s.Stake(owner, datagen.RandAddress(), big.NewInt(10))
	require.NoError(t, err)

	_, err = s.Stake(owner, thor.Address{}, big.NewInt(1))
	assert.IsType(t, &reverts.ErrInvalidDelegatee{}, err)

	assert.IsType(t, &reverts.ErrUnauthorized{}, s.StakeMore(stranger, id, big.NewInt(1)))
	assert.IsType(t, &reverts.ErrUnauthorized{}, s.Withdraw(stranger, id, big.NewInt(1)))
	assert.IsType(t, &reverts.ErrUnauthorized{}, s.AlterDelegatee(stranger, id, stranger))
	assert.IsType(t, &reverts.ErrInsufficientBalance{}, s.Withdraw(owner, id, big.NewInt(11)))
	assert.IsType(t, &reverts.ErrInvalidAmount{}, s.Withdraw(owner, id, big.NewInt(0)))
	assert.True(t, reverts.IsRevertErr(s.Withdraw(owner, 42, big.NewInt(1))))
}
