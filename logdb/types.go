// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"math/big"

	"github.com/vechain/liquid/event"
	"github.com/vechain/liquid/thor"
)

// maxSubjects is the number of subject columns.
const maxSubjects = 3

// Event represents event.Event that can be stored in db.
type Event struct {
	Seq      uint64
	Index    uint32
	Address  thor.Address
	Name     string
	Subjects []thor.Address
	Amounts  []*big.Int
}

// newEvent converts event.Event to Event.
func newEvent(seq uint64, index uint32, ev *event.Event) *Event {
	subjects := ev.Subjects
	if len(subjects) > maxSubjects {
		subjects = subjects[:maxSubjects]
	}
	return &Event{
		Seq:      seq,
		Index:    index,
		Address:  ev.Address,
		Name:     ev.Name,
		Subjects: append([]thor.Address(nil), subjects...),
		Amounts:  ev.Amounts,
	}
}

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Range bounds the operation sequence. To below From means open ended.
type Range struct {
	From uint64
	To   uint64
}

type Options struct {
	Offset uint64
	Limit  uint64
}

// EventCriteria matches events field by field. Subjects match by position.
type EventCriteria struct {
	Address  *thor.Address
	Name     string
	Subjects [maxSubjects]*thor.Address
}

// EventFilter filter
type EventFilter struct {
	CriteriaSet []*EventCriteria
	Range       *Range
	Options     *Options
	Order       Order // default asc
}
