// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/vechain/liquid/api/utils"
	"github.com/vechain/liquid/co"
	"github.com/vechain/liquid/ledger"
	"github.com/vechain/liquid/log"
	"github.com/vechain/liquid/logdb"
	"github.com/vechain/liquid/thor"
)

var logger = log.WithContext("pkg", "subscriptions")

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 7) / 10
)

type Subscriptions struct {
	ledger       *ledger.Ledger
	backtrace    uint64
	upgrader     *websocket.Upgrader
	done         chan struct{}
	wg           sync.WaitGroup
	pipes        co.Goes
	pingInterval time.Duration
}

type msgReader interface {
	Read(ctx context.Context) ([]any, bool, error)
}

// New creates the subscription api. backtrace bounds how far behind the
// newest event a subscriber may start, and the page size of a catch up read.
func New(ledger *ledger.Ledger, allowedOrigins []string, backtrace uint64) *Subscriptions {
	return &Subscriptions{
		ledger:    ledger,
		backtrace: backtrace,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if allowed == origin || allowed == "*" {
						return true
					}
				}
				return false
			},
		},
		done:         make(chan struct{}),
		pingInterval: pingPeriod,
	}
}

func (s *Subscriptions) parseEventReader(req *http.Request) (*eventReader, error) {
	db := s.ledger.LogDB()
	if db == nil {
		return nil, utils.Forbidden(errors.New("event log disabled"))
	}
	newest, err := db.NewestSeq()
	if err != nil {
		return nil, err
	}

	query := req.URL.Query()
	pos := newest
	if v := query.Get("pos"); v != "" {
		if pos, err = strconv.ParseUint(v, 10, 64); err != nil {
			return nil, utils.BadRequest(errors.WithMessage(err, "pos"))
		}
	}
	if pos > newest {
		return nil, utils.BadRequest(errors.New("pos: out of range"))
	}
	if newest-pos > s.backtrace {
		return nil, utils.Forbidden(errors.New("pos: backtrace limit exceeded"))
	}

	var criteria logdb.EventCriteria
	parseAddr := func(key string) (*thor.Address, error) {
		v := query.Get(key)
		if v == "" {
			return nil, nil
		}
		addr, err := thor.ParseAddress(v)
		if err != nil {
			return nil, utils.BadRequest(errors.WithMessage(err, key))
		}
		return &addr, nil
	}
	if criteria.Address, err = parseAddr("addr"); err != nil {
		return nil, err
	}
	for i, key := range []string{"s0", "s1", "s2"} {
		if criteria.Subjects[i], err = parseAddr(key); err != nil {
			return nil, err
		}
	}
	criteria.Name = query.Get("name")
	return newEventReader(db, pos, &criteria, s.backtrace), nil
}

func (s *Subscriptions) handleSubject(w http.ResponseWriter, req *http.Request) error {
	s.wg.Add(1)
	defer s.wg.Done()

	var (
		reader msgReader
		err    error
	)
	switch mux.Vars(req)["subject"] {
	case "events":
		if reader, err = s.parseEventReader(req); err != nil {
			return err
		}
	default:
		return utils.HTTPError(errors.New("not found"), http.StatusNotFound)
	}

	conn, closed, err := s.setupConn(w, req)
	// since the conn is hijacked here, no error should be returned in lines below
	if err != nil {
		logger.Debug("upgrade to websocket", "err", err)
		return nil
	}

	err = s.pipe(conn, reader, closed)
	s.closeConn(conn, err)
	return nil
}

// setupConn upgrades the request and starts the reader half. closed is
// signalled when the peer goes away.
func (s *Subscriptions) setupConn(w http.ResponseWriter, req *http.Request) (*websocket.Conn, chan struct{}, error) {
	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		return nil, nil, err
	}

	closed := make(chan struct{})
	// start read loop to handle close event
	s.pipes.Go(func() {
		defer close(closed)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(pongWait))
			return nil
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				logger.Debug("websocket read err", "err", err)
				return
			}
		}
	})
	return conn, closed, nil
}

func (s *Subscriptions) closeConn(conn *websocket.Conn, err error) {
	var closeMsg []byte
	if err != nil {
		closeMsg = websocket.FormatCloseMessage(websocket.CloseInternalServerErr, err.Error())
	} else {
		closeMsg = websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	}

	if err := conn.WriteMessage(websocket.CloseMessage, closeMsg); err != nil {
		logger.Debug("write close message", "err", err)
	}
	if err := conn.Close(); err != nil {
		logger.Debug("close websocket", "err", err)
	}
}

func (s *Subscriptions) pipe(conn *websocket.Conn, reader msgReader, closed chan struct{}) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	waiter := s.ledger.NewWaiter()
	ticker := time.NewTicker(s.pingInterval)
	defer ticker.Stop()

	for {
		msgs, hasMore, err := reader.Read(ctx)
		if err != nil {
			return err
		}
		for _, msg := range msgs {
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				return err
			}
		}
		if hasMore {
			continue
		}

		select {
		case <-s.done:
			return nil
		case <-closed:
			return nil
		case <-waiter.C():
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return err
			}
		}
	}
}

// Close ends every open subscription and waits for the handlers to return.
func (s *Subscriptions) Close() {
	close(s.done)
	s.wg.Wait()
	s.pipes.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{subject}").
		Methods(http.MethodGet).
		Name("WS /subscriptions/{subject}").
		HandlerFunc(utils.WrapHandlerFunc(s.handleSubject))
}
