// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package common

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrNot200Status  = errors.New("not 200 status code")
	ErrUnexpectedMsg = errors.New("unexpected message format")
	ErrNoWebsocket   = errors.New("websocket client not configured")
)

// StatusError is a non 200 answer of the api.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http error - Status Code %d - %s", e.StatusCode, e.Body)
}

func (e *StatusError) Unwrap() []error {
	if e.StatusCode == http.StatusNotFound {
		return []error{ErrNot200Status, ErrNotFound}
	}
	return []error{ErrNot200Status}
}

// EventWrapper carries either a message of a subscription or the error that ended it.
type EventWrapper[T any] struct {
	Data  T
	Error error
}
