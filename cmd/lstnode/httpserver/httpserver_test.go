// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package httpserver

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/liquid/test/testnode"
)

func serve(t *testing.T, s *Server) {
	done := make(chan error, 1)
	go func() { done <- s.Serve() }()
	t.Cleanup(func() {
		require.NoError(t, s.Shutdown(context.Background()))
		require.NoError(t, <-done)
	})
}

func TestAPITimeout(t *testing.T) {
	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	})
	s, err := NewAPIServer("localhost:0", slow, 20*time.Millisecond)
	require.NoError(t, err)
	serve(t, s)

	res, err := http.Get(s.URL() + "totals")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)
}

func TestTimeoutSkipsWebsocket(t *testing.T) {
	var hijackable atomic.Bool
	s, err := NewAPIServer("localhost:0", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, ok := w.(http.Hijacker)
		hijackable.Store(ok)
	}), time.Second)
	require.NoError(t, err)
	serve(t, s)

	req, err := http.NewRequest(http.MethodGet, s.URL()+"subscriptions/events", nil)
	require.NoError(t, err)
	req.Header.Set("Connection", "upgrade")
	req.Header.Set("Upgrade", "websocket")
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	assert.True(t, hijackable.Load())
}

func TestRequestBodyLimit(t *testing.T) {
	s, err := NewAPIServer("localhost:0", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.ReadAll(r.Body); err != nil {
			http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
		}
	}), 0)
	require.NoError(t, err)
	serve(t, s)

	res, err := http.Post(s.URL()+"rewards", "application/json", strings.NewReader("{}"))
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, err = http.Post(s.URL()+"rewards", "application/json", bytes.NewReader(make([]byte, maxRequestBody+1)))
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusRequestEntityTooLarge, res.StatusCode)
}

func TestAdminServer(t *testing.T) {
	var level slog.LevelVar
	var apiLogs atomic.Bool
	s, err := NewAdminServer("localhost:0", &level, &apiLogs, testnode.NewLedger(t))
	require.NoError(t, err)
	serve(t, s)

	res, err := http.Get(s.URL() + "/health")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestMetricsServer(t *testing.T) {
	s, err := NewMetricsServer("localhost:0")
	require.NoError(t, err)
	serve(t, s)
	assert.True(t, strings.HasSuffix(s.URL(), "/metrics"))
}

func TestListenError(t *testing.T) {
	_, err := NewMetricsServer("not-an-addr")
	assert.Error(t, err)
}
