// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"context"
	"math"

	"github.com/vechain/liquid/api/utils"
	"github.com/vechain/liquid/logdb"
)

// eventReader pages through the event log from a sequence position.
type eventReader struct {
	db       *logdb.LogDB
	criteria *logdb.EventCriteria
	pos      uint64 // last delivered seq
	limit    uint64
}

// newEventReader reads at most limit sequence numbers per page, and at least one.
func newEventReader(db *logdb.LogDB, pos uint64, criteria *logdb.EventCriteria, limit uint64) *eventReader {
	return &eventReader{
		db:       db,
		criteria: criteria,
		pos:      pos,
		limit:    max(limit, 1),
	}
}

// Read returns events after the current position. The boolean reports whether
// more events may be pending.
func (er *eventReader) Read(ctx context.Context) ([]any, bool, error) {
	newest, err := er.db.NewestSeq()
	if err != nil {
		return nil, false, err
	}
	if newest <= er.pos {
		return nil, false, nil
	}
	to := newest
	if to-er.pos > er.limit {
		to = er.pos + er.limit
	}
	filter := &logdb.EventFilter{
		Range: &logdb.Range{From: er.pos + 1, To: min(to, math.MaxInt64)},
		Order: logdb.ASC,
	}
	if er.criteria != nil {
		filter.CriteriaSet = []*logdb.EventCriteria{er.criteria}
	}
	events, err := er.db.FilterEvents(ctx, filter)
	if err != nil {
		return nil, false, err
	}
	msgs := make([]any, 0, len(events))
	for _, e := range events {
		msgs = append(msgs, utils.ConvertEvent(e))
	}
	er.pos = to
	return msgs, to < newest, nil
}
