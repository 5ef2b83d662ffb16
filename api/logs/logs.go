// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logs

import (
	"context"
	"fmt"
	"math"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/liquid/api/utils"
	"github.com/vechain/liquid/logdb"
)

type Logs struct {
	logDB *logdb.LogDB
	limit uint64
}

func New(logDB *logdb.LogDB, logsLimit uint64) *Logs {
	return &Logs{
		logDB,
		logsLimit,
	}
}

// filter query events with option
func (l *Logs) filter(ctx context.Context, ef *EventFilter) ([]*utils.Event, error) {
	filter, err := convertEventFilter(ef)
	if err != nil {
		return nil, utils.BadRequest(err)
	}
	events, err := l.logDB.FilterEvents(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]*utils.Event, len(events))
	for i, e := range events {
		out[i] = utils.ConvertEvent(e)
	}
	return out, nil
}

func (l *Logs) handleFilterEvents(w http.ResponseWriter, req *http.Request) error {
	var filter EventFilter
	if err := utils.ParseJSON(req.Body, &filter); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if filter.Options != nil && filter.Options.Limit > l.limit {
		return utils.Forbidden(fmt.Errorf("options.limit exceeds the maximum allowed value of %d", l.limit))
	}
	if filter.Options != nil && filter.Options.Offset > math.MaxInt64 {
		return utils.BadRequest(fmt.Errorf("options.offset exceeds the maximum allowed value of %d", int64(math.MaxInt64)))
	}
	// {} is accepted as a match-all criteria, null is not
	for i, criteria := range filter.CriteriaSet {
		if criteria == nil {
			return utils.BadRequest(fmt.Errorf("criteriaSet[%d]: null not allowed", i))
		}
	}
	if filter.Options == nil {
		// one above the limit detects an oversized result
		filter.Options = &Options{
			Offset: 0,
			Limit:  l.limit + 1,
		}
	}

	events, err := l.filter(req.Context(), &filter)
	if err != nil {
		return err
	}
	if uint64(len(events)) > l.limit {
		return utils.Forbidden(fmt.Errorf("the number of filtered events exceeds the maximum allowed value of %d, please use pagination", l.limit))
	}
	return utils.WriteJSON(w, events)
}

func (l *Logs) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/events").
		Methods(http.MethodPost).
		Name("POST /logs/events").
		HandlerFunc(utils.WrapHandlerFunc(l.handleFilterEvents))
}
