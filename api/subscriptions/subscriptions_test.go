// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"context"
	"math/big"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/liquid/api/utils"
	"github.com/vechain/liquid/builtin"
	"github.com/vechain/liquid/event"
	"github.com/vechain/liquid/genesis"
	"github.com/vechain/liquid/ledger"
	"github.com/vechain/liquid/logdb"
	"github.com/vechain/liquid/test/testnode"
)

var accs = genesis.DevAccounts()

func initSubscriptionsServer(t *testing.T, backtrace uint64) (*httptest.Server, *ledger.Ledger) {
	l := testnode.NewLedger(t)
	router := mux.NewRouter()
	subs := New(l, []string{"*"}, backtrace)
	subs.Mount(router, "/subscriptions")
	ts := httptest.NewServer(router)
	t.Cleanup(func() {
		ts.Close()
		subs.Close()
	})
	return ts, l
}

func stake(t *testing.T, l *ledger.Ledger, idx int) {
	_, err := l.Execute("stake", func(c *builtin.Contracts) error {
		_, err := c.Liquid.Stake(accs[idx].Address, big.NewInt(100))
		return err
	})
	require.NoError(t, err)
}

func dial(t *testing.T, ts *httptest.Server, query string) (*websocket.Conn, *http.Response, error) {
	u := url.URL{Scheme: "ws", Host: strings.TrimPrefix(ts.URL, "http://"), Path: "/subscriptions/events", RawQuery: query}
	return websocket.DefaultDialer.Dial(u.String(), nil)
}

func readEvent(t *testing.T, conn *websocket.Conn) *utils.Event {
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var ev utils.Event
	require.NoError(t, conn.ReadJSON(&ev))
	return &ev
}

func TestSubscribeEvents(t *testing.T) {
	ts, l := initSubscriptionsServer(t, 100)
	stake(t, l, 3)

	conn, resp, err := dial(t, ts, "pos=0&name="+event.Staked)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	// backlog first
	ev := readEvent(t, conn)
	assert.Equal(t, event.Staked, ev.Name)
	assert.Equal(t, uint64(2), ev.Seq)
	assert.Equal(t, accs[3].Address, ev.Subjects[0])

	// then live events
	stake(t, l, 4)
	ev = readEvent(t, conn)
	assert.Equal(t, event.Staked, ev.Name)
	assert.Equal(t, uint64(3), ev.Seq)
	assert.Equal(t, accs[4].Address, ev.Subjects[0])
}

func TestSubscribeBySubject(t *testing.T) {
	ts, l := initSubscriptionsServer(t, 100)

	conn, _, err := dial(t, ts, "s0="+accs[4].Address.String()+"&name="+event.Staked)
	require.NoError(t, err)
	defer conn.Close()

	stake(t, l, 3)
	stake(t, l, 4)
	ev := readEvent(t, conn)
	assert.Equal(t, accs[4].Address, ev.Subjects[0])
}

func TestSubscribeRejects(t *testing.T) {
	ts, l := initSubscriptionsServer(t, 1)
	stake(t, l, 3)
	stake(t, l, 3)

	for _, tt := range []struct {
		query string
		code  int
	}{
		{"pos=abc", http.StatusBadRequest},
		{"pos=1000", http.StatusBadRequest},
		{"pos=0", http.StatusForbidden},
		{"s0=not-an-address", http.StatusBadRequest},
	} {
		_, resp, err := dial(t, ts, tt.query)
		assert.Error(t, err, tt.query)
		require.NotNil(t, resp, tt.query)
		assert.Equal(t, tt.code, resp.StatusCode, tt.query)
	}
}

func TestEventReaderPages(t *testing.T) {
	l := testnode.NewLedger(t)
	for range 5 {
		stake(t, l, 3)
	}
	newest, err := l.LogDB().NewestSeq()
	require.NoError(t, err)

	reader := newEventReader(l.LogDB(), 0, &logdb.EventCriteria{Name: event.Staked}, 2)
	var got []any
	for {
		msgs, more, err := reader.Read(context.Background())
		require.NoError(t, err)
		got = append(got, msgs...)
		if !more {
			break
		}
	}
	assert.Len(t, got, 5)
	assert.Equal(t, newest, reader.pos)

	msgs, more, err := reader.Read(context.Background())
	require.NoError(t, err)
	assert.Empty(t, msgs)
	assert.False(t, more)
}

func TestEventReaderZeroLimit(t *testing.T) {
	l := testnode.NewLedger(t)
	newest, err := l.LogDB().NewestSeq()
	require.NoError(t, err)

	reader := newEventReader(l.LogDB(), newest, nil, 0)
	stake(t, l, 3)

	msgs, more, err := reader.Read(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, msgs)
	assert.False(t, more)
	latest, err := l.LogDB().NewestSeq()
	require.NoError(t, err)
	assert.Greater(t, latest, newest)
	assert.Equal(t, latest, reader.pos)

	// nothing is delivered twice
	msgs, more, err = reader.Read(context.Background())
	require.NoError(t, err)
	assert.Empty(t, msgs)
	assert.False(t, more)
}

func TestSubscribeZeroBacktrace(t *testing.T) {
	ts, l := initSubscriptionsServer(t, 0)

	conn, _, err := dial(t, ts, "name="+event.Staked)
	require.NoError(t, err)
	defer conn.Close()

	stake(t, l, 3)
	stake(t, l, 4)
	ev := readEvent(t, conn)
	assert.Equal(t, accs[3].Address, ev.Subjects[0])
	ev = readEvent(t, conn)
	assert.Equal(t, accs[4].Address, ev.Subjects[0])
}
