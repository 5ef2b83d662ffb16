// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNoopMetrics(t *testing.T) {
	backend = noop{}

	require.True(t, NoOp())
	require.Nil(t, HTTPHandler())

	// meters accept anything without panicking
	Counter("count1").Add(1)
	CounterVec("countVec1", []string{"op"}).AddWithLabel(1, map[string]string{"thisIsNonsense": "butDoesntBreak"})
	Histogram("hist1", nil).Observe(3)
	HistogramVec("hist2", []string{"op"}, nil).ObserveWithLabels(3, nil)
	g := Gauge("gauge1")
	g.Add(1)
	g.Set(2)
}
