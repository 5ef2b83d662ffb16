// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/liquid/event"
	"github.com/vechain/liquid/ledger"
	"github.com/vechain/liquid/logdb"
	"github.com/vechain/liquid/thor"
)

// Event for json marshal
type Event struct {
	Seq      uint64                  `json:"seq"`
	Index    uint32                  `json:"index"`
	Address  thor.Address            `json:"address"`
	Name     string                  `json:"name"`
	Subjects []thor.Address          `json:"subjects"`
	Amounts  []*math.HexOrDecimal256 `json:"amounts"`
}

func amounts(values []*big.Int) []*math.HexOrDecimal256 {
	out := make([]*math.HexOrDecimal256, 0, len(values))
	for _, v := range values {
		out = append(out, Hex256(v))
	}
	return out
}

// ConvertEvent converts a stored event into json format.
func ConvertEvent(e *logdb.Event) *Event {
	return &Event{
		Seq:      e.Seq,
		Index:    e.Index,
		Address:  e.Address,
		Name:     e.Name,
		Subjects: append([]thor.Address{}, e.Subjects...),
		Amounts:  amounts(e.Amounts),
	}
}

// Receipt is returned by every operation endpoint.
type Receipt struct {
	Seq    uint64                `json:"seq"`
	Amount *math.HexOrDecimal256 `json:"amount,omitempty"`
	Events []*Event              `json:"events"`
}

// ConvertReceipt converts an operation receipt into json format. amount is the
// operation result and may be nil.
func ConvertReceipt(r *ledger.Receipt, amount *big.Int) *Receipt {
	out := &Receipt{
		Seq:    r.Seq,
		Events: make([]*Event, 0, len(r.Events)),
	}
	if amount != nil {
		out.Amount = Hex256(amount)
	}
	for i, ev := range r.Events {
		out.Events = append(out.Events, convertRaw(r.Seq, uint32(i), ev))
	}
	return out
}

func convertRaw(seq uint64, index uint32, ev *event.Event) *Event {
	return &Event{
		Seq:      seq,
		Index:    index,
		Address:  ev.Address,
		Name:     ev.Name,
		Subjects: append([]thor.Address{}, ev.Subjects...),
		Amounts:  amounts(ev.Amounts),
	}
}
