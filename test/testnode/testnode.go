// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package testnode builds in-memory ledgers and drives http handlers for tests.
package testnode

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vechain/liquid/genesis"
	"github.com/vechain/liquid/ledger"
	"github.com/vechain/liquid/logdb"
	"github.com/vechain/liquid/lvldb"
)

// NewLedger returns a ledger over memory stores with the devnet genesis applied.
func NewLedger(t testing.TB) *ledger.Ledger {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	logDB, err := logdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { logDB.Close() })

	l := ledger.New(db, logDB)
	_, err = l.Execute("genesis", genesis.NewDevnet().Build)
	require.NoError(t, err)
	return l
}

// Request sends body as json and returns the response body and status code.
func Request(t testing.TB, ts *httptest.Server, method, path string, body any) ([]byte, int) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return data, res.StatusCode
}

// Get is Request without a body.
func Get(t testing.TB, ts *httptest.Server, path string) ([]byte, int) {
	return Request(t, ts, http.MethodGet, path, nil)
}

// Post is Request with the POST method.
func Post(t testing.TB, ts *httptest.Server, path string, body any) ([]byte, int) {
	return Request(t, ts, http.MethodPost, path, body)
}
