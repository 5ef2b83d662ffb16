// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stackedmap_test

import (
	"errors"
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"

	"github.com/vechain/liquid/stackedmap"
)

func M(a ...any) []any {
	return a
}

func TestStackedMap(t *testing.T) {
	assert := assert.New(t)
	src := make(map[string]string)
	src["foo"] = "bar"

	sm := stackedmap.New(func(key any) (any, bool, error) {
		v, r := src[key.(string)]
		return v, r, nil
	})

	tests := []struct {
		f         func()
		depth     int
		putKey    string
		putValue  string
		getKey    string
		getReturn []any
	}{
		{func() {}, 1, "", "", "foo", []any{"bar", true, nil}},
		{func() { sm.Push() }, 2, "foo", "baz", "foo", []any{"baz", true, nil}},
		{func() {}, 2, "foo", "baz1", "foo", []any{"baz1", true, nil}},
		{func() { sm.Push() }, 3, "foo", "qux", "foo", []any{"qux", true, nil}},
		{func() { sm.Pop() }, 2, "", "", "foo", []any{"baz1", true, nil}},
		{func() { sm.Pop() }, 1, "", "", "foo", []any{"bar", true, nil}},

		{func() { sm.Push(); sm.Push() }, 3, "", "", "", nil},
		{func() { sm.PopTo(1) }, 1, "", "", "foo", []any{"bar", true, nil}},
	}

	for _, test := range tests {
		test.f()
		assert.Equal(test.depth, sm.Depth())
		if test.putKey != "" {
			sm.Put(test.putKey, test.putValue)
		}
		if test.getKey != "" {
			assert.Equal(test.getReturn, M(sm.Get(test.getKey)))
		}
	}
}

func TestStackedMapJournal(t *testing.T) {
	assert := assert.New(t)
	sm := stackedmap.New(func(key any) (any, bool, error) {
		return nil, false, nil
	})

	kvs := []struct {
		k, v string
	}{
		{"a", "b"},
		{"a", "b"},
		{"a1", "b1"},
		{"a2", "b2"},
		{"a3", "b3"},
		{"a4", "b4"},
	}

	for _, kv := range kvs {
		sm.Push()
		sm.Put(kv.k, kv.v)
	}
	i := 0
	sm.Journal(func(k, v any) bool {
		assert.Equal(kvs[i].k, k)
		assert.Equal(kvs[i].v, v)
		i++
		return true
	})
	assert.Equal(len(kvs), i)

	i = 0
	sm.Journal(func(k, v any) bool {
		i++
		return false
	})
	assert.Equal(1, i, "Journal traverse should abort")
}

func TestStackedMapSourceError(t *testing.T) {
	sm := stackedmap.New(func(key any) (any, bool, error) {
		return nil, false, errors.New("source failure")
	})
	_, _, err := sm.Get("missing")
	assert.EqualError(t, err, "source failure")

	sm.Put("missing", "found")
	v, ok, err := sm.Get("missing")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "found", v)
}

// Random puts on nested levels must all be undone by reverting to the base depth.
func TestStackedMapRevertRandom(t *testing.T) {
	f := fuzz.New().NilChance(0).NumElements(1, 20)
	base := map[string]int{}
	f.Fuzz(&base)

	sm := stackedmap.New(func(key any) (any, bool, error) {
		v, ok := base[key.(string)]
		return v, ok, nil
	})

	depth := sm.Push()
	for range 5 {
		var puts map[string]int
		f.Fuzz(&puts)
		sm.Push()
		for k, v := range puts {
			sm.Put(k, v)
		}
	}
	sm.PopTo(depth)

	for k, v := range base {
		got, ok, err := sm.Get(k)
		assert.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, v, got)
	}
	journal := 0
	sm.Journal(func(any, any) bool {
		journal++
		return true
	})
	assert.Zero(t, journal)
}
