// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package wsclient

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/vechain/liquid/api/utils"
	"github.com/vechain/liquid/liquidclient/common"
	"github.com/vechain/liquid/thor"
)

type Client struct {
	host   string
	scheme string
}

func NewClient(url string) (*Client, error) {
	var host string
	var scheme string

	if strings.Contains(url, "https://") || strings.Contains(url, "wss://") {
		host = strings.TrimPrefix(strings.TrimPrefix(url, "https://"), "wss://")
		scheme = "wss"
	} else if strings.Contains(url, "http://") || strings.Contains(url, "ws://") {
		host = strings.TrimPrefix(strings.TrimPrefix(url, "http://"), "ws://")
		scheme = "ws"
	} else {
		return nil, fmt.Errorf("invalid url")
	}

	return &Client{
		host:   strings.TrimSuffix(host, "/"),
		scheme: scheme,
	}, nil
}

// EventQuery narrows an event subscription. Zero fields match anything,
// a nil Pos starts at the newest event.
type EventQuery struct {
	Pos      *uint64
	Address  *thor.Address
	Name     string
	Subjects [3]*thor.Address
}

// Encode renders the query string understood by the subscription endpoint.
func (q *EventQuery) Encode() string {
	if q == nil {
		return ""
	}
	values := url.Values{}
	if q.Pos != nil {
		values.Set("pos", strconv.FormatUint(*q.Pos, 10))
	}
	if q.Address != nil {
		values.Set("addr", q.Address.String())
	}
	if q.Name != "" {
		values.Set("name", q.Name)
	}
	for i, s := range q.Subjects {
		if s != nil {
			values.Set("s"+strconv.Itoa(i), s.String())
		}
	}
	return values.Encode()
}

// SubscribeEvents streams ledger events matching the query. The channel is
// closed after the first error.
func (c *Client) SubscribeEvents(query *EventQuery) (<-chan common.EventWrapper[*utils.Event], error) {
	conn, err := c.connect("/subscriptions/events", query.Encode())
	if err != nil {
		return nil, fmt.Errorf("unable to connect - %w", err)
	}

	return subscribe[utils.Event](conn)
}

// subscribe pumps json messages of the connection into a channel.
func subscribe[T any](conn *websocket.Conn) (<-chan common.EventWrapper[*T], error) {
	eventChan := make(chan common.EventWrapper[*T])

	go func() {
		defer close(eventChan)
		defer conn.Close()

		for {
			var data T
			if err := conn.ReadJSON(&data); err != nil {
				eventChan <- common.EventWrapper[*T]{Error: fmt.Errorf("%w: %w", common.ErrUnexpectedMsg, err)}
				return
			}
			eventChan <- common.EventWrapper[*T]{Data: &data}
		}
	}()

	return eventChan, nil
}

func (c *Client) connect(endpoint, rawQuery string) (*websocket.Conn, error) {
	u := url.URL{
		Scheme:   c.scheme,
		Host:     c.host,
		Path:     endpoint,
		RawQuery: rawQuery,
	}

	conn, resp, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		if resp != nil {
			return nil, &common.StatusError{StatusCode: resp.StatusCode, Body: resp.Status}
		}
		return nil, err
	}
	return conn, nil
}
