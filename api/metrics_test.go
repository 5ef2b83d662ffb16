// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/liquid/api/deposits"
	"github.com/vechain/liquid/api/holders"
	"github.com/vechain/liquid/api/subscriptions"
	"github.com/vechain/liquid/genesis"
	"github.com/vechain/liquid/metrics"
	"github.com/vechain/liquid/test/testnode"
)

func init() {
	metrics.InitializePrometheusMetrics()
}

func scrape(t *testing.T, ts *httptest.Server) map[string]*dto.MetricFamily {
	body, code := httpGet(t, ts.URL+"/metrics")
	require.Equal(t, http.StatusOK, code)
	parser := expfmt.TextParser{}
	families, err := parser.TextToMetricFamilies(bytes.NewReader(body))
	require.NoError(t, err)
	return families
}

func labelValue(m *dto.Metric, name string) string {
	for _, l := range m.GetLabel() {
		if l.GetName() == name {
			return l.GetValue()
		}
	}
	return ""
}

func TestMetricsMiddleware(t *testing.T) {
	l := testnode.NewLedger(t)

	router := mux.NewRouter()
	holders.New(l).Mount(router, "/holders")
	deposits.New(l).Mount(router, "/deposits")
	router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
	router.Use(metricsMiddleware)
	ts := httptest.NewServer(router)
	defer ts.Close()

	accs := genesis.DevAccounts()
	httpGet(t, ts.URL+"/holders/"+accs[3].Address.String())
	httpGet(t, ts.URL+"/holders/0x")
	_, code := httpGet(t, ts.URL+"/deposits/"+accs[5].Address.String())
	assert.Equal(t, http.StatusNotFound, code)

	families := scrape(t, ts)
	m := families["liquid_api_request_count"].GetMetric()
	require.Len(t, m, 3)

	got := make(map[string]float64)
	for _, metric := range m {
		assert.Equal(t, http.MethodGet, labelValue(metric, "method"))
		got[labelValue(metric, "name")+" "+labelValue(metric, "code")] = metric.GetCounter().GetValue()
	}
	assert.Equal(t, map[string]float64{
		"GET /holders/{address} 200":    1,
		"GET /holders/{address} 400":    1,
		"GET /deposits/{delegatee} 404": 1,
	}, got)

	// durations are recorded with the same labels
	assert.NotNil(t, families["liquid_api_duration_ms"])
}

func TestWebsocketMetrics(t *testing.T) {
	l := testnode.NewLedger(t)

	router := mux.NewRouter()
	subs := subscriptions.New(l, []string{"*"}, 10)
	subs.Mount(router, "/subscriptions")
	router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
	router.Use(metricsMiddleware)
	ts := httptest.NewServer(router)
	defer func() {
		ts.Close()
		subs.Close()
	}()

	u := url.URL{Scheme: "ws", Host: strings.TrimPrefix(ts.URL, "http://"), Path: "/subscriptions/events"}
	active := func() float64 {
		m := scrape(t, ts)["liquid_api_active_websocket_count"].GetMetric()
		if len(m) == 0 {
			return 0
		}
		return m[0].GetGauge().GetValue()
	}

	conn1, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	require.NoError(t, err)
	assert.Equal(t, float64(1), active())

	conn2, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	require.NoError(t, err)
	assert.Equal(t, float64(2), active())

	m := scrape(t, ts)["liquid_api_websocket_count"].GetMetric()
	require.Len(t, m, 1)
	assert.Equal(t, "WS /subscriptions/{subject}", labelValue(m[0], "name"))
	assert.Equal(t, float64(2), m[0].GetCounter().GetValue())

	conn1.Close()
	conn2.Close()
	assert.Eventually(t, func() bool { return active() == 0 }, 5*time.Second, 20*time.Millisecond)
}

func httpGet(t *testing.T, url string) ([]byte, int) {
	res, err := http.Get(url) //#nosec G107
	if err != nil {
		t.Fatal(err)
	}
	r, err := io.ReadAll(res.Body)
	res.Body.Close()
	if err != nil {
		t.Fatal(err)
	}
	return r, res.StatusCode
}
