// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/liquid/thor"
)

func Test_Reverts(t *testing.T) {
	revert := New("test")
	assert.Equal(t, "test", revert.message)
	assert.Equal(t, revert.Error(), revert.message)

	assert.True(t, IsRevertErr(revert))
	assert.True(t, IsRevertErr(ErrNoEligibleStake))
	assert.True(t, IsRevertErr(&ErrInvalidAmount{Op: "wrap"}))
	assert.True(t, IsRevertErr(&ErrInvalidDelegatee{}))
	assert.True(t, IsRevertErr(&ErrUnauthorized{}))
	assert.False(t, IsRevertErr(nil))
	assert.False(t, IsRevertErr(fmt.Errorf("test")))
	assert.False(t, IsRevertErr(big.NewInt(0)))
}

func TestInsufficientBalance(t *testing.T) {
	holder := thor.Address{1}
	available := big.NewInt(10)
	err := InsufficientBalance(holder, available, big.NewInt(11))
	available.SetInt64(0)

	wrapped := errors.Wrap(err, "unwrap")
	assert.True(t, IsRevertErr(wrapped))

	var ib *ErrInsufficientBalance
	require.True(t, errors.As(wrapped, &ib))
	assert.Equal(t, holder, ib.Holder)
	assert.Equal(t, big.NewInt(10), ib.Available)
	assert.Equal(t, big.NewInt(11), ib.Requested)
	assert.Contains(t, err.Error(), "has 10, requested 11")
}
