// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func swapRoot(t *testing.T, h slog.Handler) {
	old := Root()
	SetDefault(NewLogger(h))
	t.Cleanup(func() { SetDefault(old) })
}

func verbose() *slog.LevelVar {
	var lvl slog.LevelVar
	lvl.Set(levelMaxVerbosity)
	return &lvl
}

func TestTerminalHandler(t *testing.T) {
	var buf bytes.Buffer
	swapRoot(t, NewHandler(&buf, verbose(), false, false))

	Info("staked", "amount", big.NewInt(1_000_000), "holder", "alice")
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "INFO ["))
	assert.Contains(t, out, "staked")
	assert.Contains(t, out, "amount=1,000,000")
	assert.Contains(t, out, "holder=alice")
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	var lvl slog.LevelVar
	lvl.Set(FromLegacyLevel(legacyLevelWarn))
	swapRoot(t, NewHandler(&buf, &lvl, false, false))

	Debug("hidden")
	Info("hidden")
	Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestWithContextResolvesRootLate(t *testing.T) {
	// bound before the handler is installed
	l := WithContext("pkg", "test")

	var buf bytes.Buffer
	swapRoot(t, NewHandler(&buf, verbose(), true, false))

	l.With("op", "stake").Info("done", "n", 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "info", rec["lvl"])
	assert.Equal(t, "test", rec["pkg"])
	assert.Equal(t, "stake", rec["op"])
	assert.Equal(t, "done", rec["msg"])
	assert.Contains(t, rec, "t")
}

func TestOddArguments(t *testing.T) {
	var buf bytes.Buffer
	swapRoot(t, NewHandler(&buf, verbose(), true, false))

	New().Warn("odd", "k")
	assert.Contains(t, buf.String(), errorKey)
}

func TestFromLegacyLevel(t *testing.T) {
	assert.Equal(t, LevelCrit, FromLegacyLevel(0))
	assert.Equal(t, LevelInfo, FromLegacyLevel(3))
	assert.Equal(t, LevelTrace, FromLegacyLevel(5))
	assert.Equal(t, levelMaxVerbosity, FromLegacyLevel(9))
	assert.Equal(t, "INFO ", LevelAlignedString(LevelInfo))
	assert.Equal(t, "crit", LevelString(LevelCrit))
}

func TestDiscardByDefault(t *testing.T) {
	var h slog.Handler = discard{}
	assert.False(t, h.Enabled(context.Background(), LevelCrit))
	assert.NoError(t, h.WithAttrs(nil).WithGroup("g").Handle(context.Background(), slog.Record{}))
}

func TestLevelChangesAtRuntime(t *testing.T) {
	var buf bytes.Buffer
	var lvl slog.LevelVar
	lvl.Set(LevelInfo)
	swapRoot(t, NewHandler(&buf, &lvl, false, false))

	Debug("before")
	lvl.Set(LevelDebug)
	Debug("after")
	assert.NotContains(t, buf.String(), "before")
	assert.Contains(t, buf.String(), "after")
}

func TestJSONRendersAmounts(t *testing.T) {
	var buf bytes.Buffer
	swapRoot(t, NewHandler(&buf, verbose(), true, false))

	huge, _ := new(big.Int).SetString("123456789012345678901234567890", 10)
	Info("reward", "amount", huge, "missing", (*big.Int)(nil))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "123456789012345678901234567890", rec["amount"])
	assert.Equal(t, "<nil>", rec["missing"])
}
