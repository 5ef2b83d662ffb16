// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/liquid/lvldb"
	"github.com/vechain/liquid/thor"
)

func newTestState(t *testing.T) (*State, *lvldb.LevelDB) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db), db
}

func TestStorage(t *testing.T) {
	st, _ := newTestState(t)

	addr := thor.BytesToAddress([]byte("acc"))
	key := thor.BytesToBytes32([]byte("key"))

	v, err := st.GetStorage(addr, key)
	require.NoError(t, err)
	assert.True(t, v.IsZero())

	value := thor.BytesToBytes32([]byte("value"))
	st.SetStorage(addr, key, value)
	v, err = st.GetStorage(addr, key)
	require.NoError(t, err)
	assert.Equal(t, value, v)

	st.SetStorage(addr, key, thor.Bytes32{})
	raw, err := st.GetRawStorage(addr, key)
	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestEncodeDecodeStorage(t *testing.T) {
	st, _ := newTestState(t)

	addr := thor.BytesToAddress([]byte("acc"))
	key := thor.BytesToBytes32([]byte("key"))

	require.NoError(t, st.EncodeStorage(addr, key, func() ([]byte, error) {
		return rlp.EncodeToBytes([]any{big.NewInt(7), addr})
	}))

	var decoded struct {
		N    *big.Int
		Addr thor.Address
	}
	require.NoError(t, st.DecodeStorage(addr, key, func(raw []byte) error {
		return rlp.DecodeBytes(raw, &decoded)
	}))
	assert.Equal(t, big.NewInt(7), decoded.N)
	assert.Equal(t, addr, decoded.Addr)

	// list values are exposed as hash
	h, err := st.GetStorage(addr, key)
	require.NoError(t, err)
	assert.False(t, h.IsZero())

	st.SetRawStorage(addr, key, rlp.RawValue{0xFF})
	err = st.DecodeStorage(addr, key, func(raw []byte) error {
		return rlp.DecodeBytes(raw, &decoded)
	})
	assert.Error(t, err)
}

func TestCheckpointRevert(t *testing.T) {
	st, _ := newTestState(t)

	addr := thor.BytesToAddress([]byte("acc"))
	k1 := thor.BytesToBytes32([]byte("k1"))
	k2 := thor.BytesToBytes32([]byte("k2"))

	st.SetStorage(addr, k1, thor.BytesToBytes32([]byte("v1")))

	cp := st.NewCheckpoint()
	st.SetStorage(addr, k1, thor.BytesToBytes32([]byte("v1-changed")))
	st.SetStorage(addr, k2, thor.BytesToBytes32([]byte("v2")))
	st.RevertTo(cp)

	v1, err := st.GetStorage(addr, k1)
	require.NoError(t, err)
	assert.Equal(t, thor.BytesToBytes32([]byte("v1")), v1)

	v2, err := st.GetStorage(addr, k2)
	require.NoError(t, err)
	assert.True(t, v2.IsZero())
	assert.Equal(t, 1, st.Dirty())
}

func TestCommit(t *testing.T) {
	st, db := newTestState(t)

	addr := thor.BytesToAddress([]byte("acc"))
	k1 := thor.BytesToBytes32([]byte("k1"))
	k2 := thor.BytesToBytes32([]byte("k2"))

	st.SetStorage(addr, k1, thor.BytesToBytes32([]byte("v1")))
	st.SetStorage(addr, k2, thor.BytesToBytes32([]byte("v2")))
	require.NoError(t, st.Commit())
	assert.Zero(t, st.Dirty())

	st.SetStorage(addr, k2, thor.Bytes32{})
	require.NoError(t, st.Commit())

	// a fresh state over the same db sees the committed values
	reopened := New(db)
	v1, err := reopened.GetStorage(addr, k1)
	require.NoError(t, err)
	assert.Equal(t, thor.BytesToBytes32([]byte("v1")), v1)

	v2, err := reopened.GetStorage(addr, k2)
	require.NoError(t, err)
	assert.True(t, v2.IsZero())

	has, err := db.Has(storageKey{addr, k2}.dbKey())
	require.NoError(t, err)
	assert.False(t, has)

	// empty commit is a no-op
	require.NoError(t, reopened.Commit())
}

func TestCommitAfterRevertDropsChanges(t *testing.T) {
	st, db := newTestState(t)

	addr := thor.BytesToAddress([]byte("acc"))
	key := thor.BytesToBytes32([]byte("key"))

	cp := st.NewCheckpoint()
	st.SetStorage(addr, key, thor.BytesToBytes32([]byte("v")))
	st.RevertTo(cp)
	require.NoError(t, st.Commit())

	has, err := db.Has(storageKey{addr, key}.dbKey())
	require.NoError(t, err)
	assert.False(t, has)
}
