// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package convert

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

var ratio = big.NewInt(1e10)

func TestSharesForStake(t *testing.T) {
	c := New(ratio)
	tests := []struct {
		name      string
		stake     int64
		totShares int64
		totStake  int64
		want      int64
	}{
		{"bootstrap", 100, 0, 0, 100 * 1e10},
		{"proportional", 50, 1000, 100, 500},
		{"floors", 1, 10, 3, 3},
		{"zero stake", 0, 10, 3, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.SharesForStake(big.NewInt(tt.stake), big.NewInt(tt.totShares), big.NewInt(tt.totStake))
			assert.Equal(t, big.NewInt(tt.want), got)
		})
	}
}

func TestSharesForStakeUp(t *testing.T) {
	c := New(ratio)
	assert.Equal(t, big.NewInt(4), c.SharesForStakeUp(big.NewInt(1), big.NewInt(10), big.NewInt(3)))
	assert.Equal(t, big.NewInt(500), c.SharesForStakeUp(big.NewInt(50), big.NewInt(1000), big.NewInt(100)))
	assert.Equal(t, big.NewInt(7e10), c.SharesForStakeUp(big.NewInt(7), big.NewInt(0), big.NewInt(0)))
}

func TestStakeForShares(t *testing.T) {
	assert.Equal(t, big.NewInt(0), StakeForShares(big.NewInt(10), big.NewInt(0), big.NewInt(0)))
	assert.Equal(t, big.NewInt(150), StakeForShares(big.NewInt(1e12), big.NewInt(1e12), big.NewInt(150)))
	assert.Equal(t, big.NewInt(3), StakeForShares(big.NewInt(7), big.NewInt(10), big.NewInt(5)))
}

func TestInputsAreNotMutated(t *testing.T) {
	c := New(ratio)
	stake, shares, total := big.NewInt(5), big.NewInt(10), big.NewInt(3)
	c.SharesForStake(stake, shares, total)
	c.SharesForStakeUp(stake, shares, total)
	StakeForShares(stake, shares, total)
	assert.Equal(t, int64(5), stake.Int64())
	assert.Equal(t, int64(10), shares.Int64())
	assert.Equal(t, int64(3), total.Int64())
}

func TestRoundTripNeverGains(t *testing.T) {
	c := New(ratio)
	rapid.Check(t, func(t *rapid.T) {
		totalStake := big.NewInt(rapid.Int64Range(1, 1e15).Draw(t, "totalStake"))
		// price can only rise above the bootstrap ratio through rewards
		totalShares := new(big.Int).Mul(totalStake, ratio)
		totalShares.Quo(totalShares, big.NewInt(rapid.Int64Range(1, 1000).Draw(t, "rebase")))
		stake := big.NewInt(rapid.Int64Range(0, 1e15).Draw(t, "stake"))

		shares := c.SharesForStake(stake, totalShares, totalStake)
		back := StakeForShares(shares, totalShares, totalStake)
		if back.Cmp(stake) > 0 {
			t.Fatalf("round trip gained: %v -> %v", stake, back)
		}
		diff := new(big.Int).Sub(stake, back)
		if diff.Cmp(big.NewInt(1)) > 0 {
			t.Fatalf("round trip lost more than one unit: %v -> %v", stake, back)
		}

		up := c.SharesForStakeUp(stake, totalShares, totalStake)
		if d := new(big.Int).Sub(up, shares); d.Sign() < 0 || d.Cmp(big.NewInt(1)) > 0 {
			t.Fatalf("rounded up shares %v not within one of %v", up, shares)
		}
	})
}
