// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"math/big"

	"github.com/vechain/liquid/metrics"
)

var (
	metricOperations  = metrics.LazyLoadCounterVec("ledger_operations_count", []string{"op", "outcome"})
	metricOpDuration  = metrics.LazyLoadHistogramVec("ledger_operation_duration_us", []string{"op"}, metrics.BucketOpMicros)
	metricEvents      = metrics.LazyLoadCounter("ledger_events_count")
	metricTotalStake  = metrics.LazyLoadGauge("ledger_total_stake_ether")
	metricTotalShares = metrics.LazyLoadGauge("ledger_total_shares_ether")
	metricSeq         = metrics.LazyLoadGauge("ledger_seq")
)

// gaugeValue scales v down by unit so it fits an int64 gauge.
func gaugeValue(v, unit *big.Int) int64 {
	q := new(big.Int).Quo(v, unit)
	if !q.IsInt64() {
		return -1
	}
	return q.Int64()
}
