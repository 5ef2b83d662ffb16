// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/liquid/log"
)

// recordingLogger keeps the key/value pairs of every Info call.
type recordingLogger struct {
	records [][]any
}

func (m *recordingLogger) With(_ ...any) log.Logger                     { return m }
func (m *recordingLogger) New(_ ...any) log.Logger                      { return m }
func (m *recordingLogger) Log(_ slog.Level, _ string, _ ...any)         {}
func (m *recordingLogger) Write(_ slog.Level, _ string, _ ...any)       {}
func (m *recordingLogger) Enabled(_ context.Context, _ slog.Level) bool { return true }
func (m *recordingLogger) Handler() slog.Handler                        { return nil }
func (m *recordingLogger) Trace(_ string, _ ...any)                     {}
func (m *recordingLogger) Debug(_ string, _ ...any)                     {}
func (m *recordingLogger) Warn(_ string, _ ...any)                      {}
func (m *recordingLogger) Error(_ string, _ ...any)                     {}
func (m *recordingLogger) Crit(_ string, _ ...any)                      {}
func (m *recordingLogger) Info(_ string, ctx ...any)                    { m.records = append(m.records, ctx) }

func (m *recordingLogger) field(key string) any {
	if len(m.records) == 0 {
		return nil
	}
	kv := m.records[0]
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i] == key {
			return kv[i+1]
		}
	}
	return nil
}

func respond(status int, delay time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(delay)
		w.WriteHeader(status)
	}
}

func TestRequestLoggerMiddleware(t *testing.T) {
	tests := []struct {
		name      string
		handler   http.HandlerFunc
		enabled   bool
		slow      time.Duration
		log5xx    bool
		shouldLog bool
	}{
		{"enabled", respond(http.StatusOK, 0), true, 0, false, true},
		{"disabled", respond(http.StatusOK, 0), false, 0, false, false},
		{"slow stake", respond(http.StatusOK, 15*time.Millisecond), false, 10 * time.Millisecond, false, true},
		{"fast stake", respond(http.StatusOK, 0), false, time.Second, false, false},
		{"ledger failure", respond(http.StatusInternalServerError, 0), false, 0, true, true},
		{"ledger failure unlogged", respond(http.StatusInternalServerError, 0), false, 0, false, false},
		{"rejected amount", respond(http.StatusBadRequest, 0), false, 0, true, false},
		{"implicit ok", func(w http.ResponseWriter, _ *http.Request) { w.Write([]byte("{}")) }, false, 0, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recordingLogger{}
			var enabled atomic.Bool
			enabled.Store(tt.enabled)

			body := `{"amount":"100"}`
			req := httptest.NewRequest(http.MethodPost, "http://localhost/holders/0xf077b491b355e64048ce21e3a6fc4751eeea77fa/stake", strings.NewReader(body))
			rr := httptest.NewRecorder()
			RequestLoggerMiddleware(rec, &enabled, tt.slow, tt.log5xx)(tt.handler).ServeHTTP(rr, req)

			if !tt.shouldLog {
				assert.Empty(t, rec.records)
				return
			}
			require.Len(t, rec.records, 1)
			assert.Equal(t, req.URL.String(), rec.field("URI"))
			assert.Equal(t, http.MethodPost, rec.field("Method"))
			assert.Equal(t, body, rec.field("Body"))
			assert.Equal(t, rr.Code, rec.field("Status"))
			assert.IsType(t, int64(0), rec.field("Timestamp"))
		})
	}
}

func TestRequestLoggerKeepsBody(t *testing.T) {
	var enabled atomic.Bool
	enabled.Store(true)

	var got string
	h := RequestLoggerMiddleware(&recordingLogger{}, &enabled, 0, false)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		b, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		got = string(b)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/rewards", strings.NewReader("payload")))
	assert.Equal(t, "payload", got)
}
