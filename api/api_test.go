// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/liquid/api/holders"
	"github.com/vechain/liquid/api/totals"
	"github.com/vechain/liquid/genesis"
	"github.com/vechain/liquid/test/testnode"
)

func initAPIServer(t *testing.T, opts Options) *httptest.Server {
	handler, closeFn := New(testnode.NewLedger(t), opts)
	ts := httptest.NewServer(handler)
	t.Cleanup(func() {
		ts.Close()
		closeFn()
	})
	return ts
}

func TestRoutesMounted(t *testing.T) {
	ts := initAPIServer(t, Options{AllowedOrigins: "*", BacktraceLimit: 100, LogsLimit: 100})
	addr := genesis.DevAccounts()[3].Address.String()

	for _, path := range []string{"/totals", "/deposits", "/rewards", "/wrapper", "/tokens", "/holders/" + addr, "/tokens/" + addr} {
		body, code := testnode.Get(t, ts, path)
		assert.Equal(t, http.StatusOK, code, path+": "+string(body))
	}
	body, code := testnode.Post(t, ts, "/logs/events", map[string]any{"criteriaSet": []any{}})
	assert.Equal(t, http.StatusOK, code, string(body))

	_, code = testnode.Get(t, ts, "/debug/pprof/")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestStakeThroughRouter(t *testing.T) {
	ts := initAPIServer(t, Options{AllowedOrigins: "*"})
	alice := genesis.DevAccounts()[3].Address

	amount := math.HexOrDecimal256(*big.NewInt(1000))
	body, code := testnode.Post(t, ts, "/holders/"+alice.String()+"/stake", holders.AmountRequest{Amount: &amount})
	require.Equal(t, http.StatusOK, code, string(body))

	body, code = testnode.Get(t, ts, "/totals")
	require.Equal(t, http.StatusOK, code)
	var tot totals.Totals
	require.NoError(t, json.Unmarshal(body, &tot))
	assert.Equal(t, uint64(2), tot.Seq)
	assert.Equal(t, big.NewInt(1000), (*big.Int)(tot.TotalStake))
}

func TestFaucetOption(t *testing.T) {
	to := genesis.DevAccounts()[3].Address
	amount := math.HexOrDecimal256(*big.NewInt(1))
	req := map[string]any{"to": &to, "amount": &amount}

	_, code := testnode.Post(t, initAPIServer(t, Options{}), "/tokens/faucet", req)
	assert.Equal(t, http.StatusForbidden, code)

	_, code = testnode.Post(t, initAPIServer(t, Options{Faucet: true}), "/tokens/faucet", req)
	assert.Equal(t, http.StatusOK, code)
}

func TestCORS(t *testing.T) {
	ts := initAPIServer(t, Options{AllowedOrigins: "https://app.example"})

	for _, tt := range []struct {
		origin string
		allow  string
	}{
		{"https://app.example", "https://app.example"},
		{"https://other.example", ""},
	} {
		req, err := http.NewRequest(http.MethodOptions, ts.URL+"/totals", nil)
		require.NoError(t, err)
		req.Header.Set("Origin", tt.origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodGet)
		res, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		res.Body.Close()
		assert.Equal(t, tt.allow, res.Header.Get("Access-Control-Allow-Origin"), tt.origin)
	}
}

func TestPprofOption(t *testing.T) {
	ts := initAPIServer(t, Options{PprofOn: true})
	_, code := testnode.Get(t, ts, "/debug/pprof/")
	assert.Equal(t, http.StatusOK, code)
}

func TestDocServed(t *testing.T) {
	ts := initAPIServer(t, Options{})

	body, code := testnode.Get(t, ts, "/doc/liquid.yaml")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(body), "openapi:")

	// root redirects to the openapi document
	body, code = testnode.Get(t, ts, "/")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(body), "/holders/{address}")
}
