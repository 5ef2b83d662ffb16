// Copyright 2017 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"reflect"
	"sync"

	"github.com/holiman/uint256"
)

// discard drops every record. It backs the root logger until a handler is installed.
type discard struct{}

func (discard) Handle(context.Context, slog.Record) error { return nil }
func (discard) Enabled(context.Context, slog.Level) bool  { return false }
func (discard) WithGroup(string) slog.Handler             { return discard{} }
func (discard) WithAttrs([]slog.Attr) slog.Handler        { return discard{} }

// NewHandler returns the handler used by the node: JSON lines when json is set,
// otherwise the terminal format, coloured when useColor is set. Records below
// level are dropped, level may be changed at runtime.
func NewHandler(w io.Writer, level *slog.LevelVar, json bool, useColor bool) slog.Handler {
	if json {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{
			ReplaceAttr: replaceJSON,
			Level:       level,
		})
	}
	return &TerminalHandler{
		out:          &syncWriter{w: w},
		lvl:          level,
		useColor:     useColor,
		fieldPadding: make(map[string]int),
	}
}

type syncWriter struct {
	mu  sync.Mutex
	w   io.Writer
	buf []byte
}

// TerminalHandler formats records for humans:
//
//	LEVEL[MM-DD|hh:mm:ss.sss] message                        key=value key=value
//
// Values of a key are padded to the widest seen so far, so columns line up.
type TerminalHandler struct {
	out          *syncWriter
	lvl          *slog.LevelVar
	useColor     bool
	attrs        []slog.Attr
	fieldPadding map[string]int
}

func (h *TerminalHandler) Handle(_ context.Context, r slog.Record) error {
	h.out.mu.Lock()
	defer h.out.mu.Unlock()
	buf := h.format(h.out.buf, r, h.useColor)
	_, err := h.out.w.Write(buf)
	h.out.buf = buf[:0]
	return err
}

func (h *TerminalHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.lvl.Level()
}

// WithGroup is a no-op, groups are not rendered by the terminal format.
func (h *TerminalHandler) WithGroup(string) slog.Handler {
	return h
}

func (h *TerminalHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &TerminalHandler{
		out:          h.out,
		lvl:          h.lvl,
		useColor:     h.useColor,
		attrs:        append(h.attrs[:len(h.attrs):len(h.attrs)], attrs...),
		fieldPadding: make(map[string]int),
	}
}

// replaceJSON shortens the time and level keys, and renders amounts and
// stringers as strings so large values keep their precision.
func replaceJSON(_ []string, attr slog.Attr) slog.Attr {
	switch attr.Key {
	case slog.TimeKey:
		if attr.Value.Kind() == slog.KindTime {
			return slog.Attr{Key: "t", Value: attr.Value}
		}
	case slog.LevelKey:
		if l, ok := attr.Value.Any().(slog.Level); ok {
			return slog.String("lvl", LevelString(l))
		}
	}
	if attr.Value.Kind() != slog.KindAny {
		return attr
	}

	var s string
	switch v := attr.Value.Any().(type) {
	case *big.Int:
		if v == nil {
			s = "<nil>"
		} else {
			s = v.String()
		}
	case *uint256.Int:
		if v == nil {
			s = "<nil>"
		} else {
			s = v.Dec()
		}
	case fmt.Stringer:
		if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
			s = "<nil>"
		} else {
			s = v.String()
		}
	default:
		return attr
	}
	return slog.String(attr.Key, s)
}
