// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logs

import (
	"fmt"
	"math"

	"github.com/vechain/liquid/logdb"
	"github.com/vechain/liquid/thor"
)

type EventCriteria struct {
	Address  *thor.Address `json:"address"`
	Name     string        `json:"name"`
	Subject0 *thor.Address `json:"subject0"`
	Subject1 *thor.Address `json:"subject1"`
	Subject2 *thor.Address `json:"subject2"`
}

// Range bounds the operation sequence, both ends inclusive.
type Range struct {
	From *uint64 `json:"from"`
	To   *uint64 `json:"to"`
}

type Options struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

type EventFilter struct {
	CriteriaSet []*EventCriteria `json:"criteriaSet"`
	Range       *Range           `json:"range"`
	Options     *Options         `json:"options"`
	Order       logdb.Order      `json:"order"`
}

func convertRange(r *Range) (*logdb.Range, error) {
	if r == nil {
		return nil, nil
	}
	out := &logdb.Range{To: math.MaxInt64}
	if r.From != nil {
		out.From = *r.From
	}
	if r.To != nil {
		out.To = *r.To
	}
	if out.From > math.MaxInt64 || out.To > math.MaxInt64 {
		return nil, fmt.Errorf("range exceeds the maximum allowed value of %d", int64(math.MaxInt64))
	}
	if out.To < out.From {
		return nil, fmt.Errorf("range.to must be greater than or equal to range.from")
	}
	return out, nil
}

func convertEventFilter(f *EventFilter) (*logdb.EventFilter, error) {
	rng, err := convertRange(f.Range)
	if err != nil {
		return nil, err
	}
	switch f.Order {
	case "", logdb.ASC, logdb.DESC:
	default:
		return nil, fmt.Errorf("order: unknown value %q", f.Order)
	}
	filter := &logdb.EventFilter{
		Range: rng,
		Order: f.Order,
	}
	if f.Options != nil {
		filter.Options = &logdb.Options{Offset: f.Options.Offset, Limit: f.Options.Limit}
	}
	for _, c := range f.CriteriaSet {
		filter.CriteriaSet = append(filter.CriteriaSet, &logdb.EventCriteria{
			Address:  c.Address,
			Name:     c.Name,
			Subjects: [3]*thor.Address{c.Subject0, c.Subject1, c.Subject2},
		})
	}
	return filter, nil
}
