// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package httpserver hosts the api, admin and metrics endpoints of the node.
package httpserver

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

// Server is a listening http server that has not started serving yet.
type Server struct {
	srv      *http.Server
	listener net.Listener
	url      string
}

func listen(name, addr, path string, srv *http.Server) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "listen %v addr [%v]", name, addr)
	}
	return &Server{
		srv:      srv,
		listener: listener,
		url:      "http://" + listener.Addr().String() + path,
	}, nil
}

// URL returns the base url of the served endpoints.
func (s *Server) URL() string {
	return s.url
}

// Serve blocks until the server is shut down.
func (s *Server) Serve() error {
	if err := s.srv.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for active requests until ctx is done.
// Hijacked connections are not tracked and must be closed by their owner.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func newHTTPServer(handler http.Handler) *http.Server {
	return &http.Server{Handler: handler, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}
}
