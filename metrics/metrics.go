// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package metrics exposes process wide meters. Meters are no-ops until
// InitializePrometheusMetrics switches the backend.
package metrics

import (
	"net/http"
	"sync"
)

var backend registry = noop{}

// registry creates meters by name, returning the existing one when the name is taken.
type registry interface {
	counter(name string) CountMeter
	counterVec(name string, labels []string) CountVecMeter
	gauge(name string) GaugeMeter
	histogram(name string, buckets []int64) HistogramMeter
	histogramVec(name string, labels []string, buckets []int64) HistogramVecMeter
	handler() http.Handler
}

// HTTPHandler serves the metrics in the text exposition format. It is nil
// while metrics are disabled.
func HTTPHandler() http.Handler {
	return backend.handler()
}

// NoOp reports whether metrics are disabled.
func NoOp() bool {
	_, ok := backend.(noop)
	return ok
}

// Standard buckets for histograms.
var (
	// BucketOpMicros buckets ledger operation durations in microseconds.
	BucketOpMicros = []int64{
		5, 10, 25, 50, 100, 250, 500,
		1000, 2500, 5000, 10_000, 50_000,
	}
	// BucketHTTPReqs buckets api request durations in milliseconds.
	BucketHTTPReqs = []int64{
		0, 1, 2, 5, 10, 20, 30, 50, 75, 100,
		150, 200, 300, 400, 500, 750, 1000,
		1500, 2000, 3000, 4000, 5000, 10000,
	}
)

type HistogramMeter interface {
	Observe(int64)
}

type HistogramVecMeter interface {
	ObserveWithLabels(int64, map[string]string)
}

// CountMeter only goes up.
type CountMeter interface {
	Add(int64)
}

type CountVecMeter interface {
	AddWithLabel(int64, map[string]string)
}

// GaugeMeter holds a value that can go both ways.
type GaugeMeter interface {
	Add(int64)
	Set(int64)
}

func Histogram(name string, buckets []int64) HistogramMeter {
	return backend.histogram(name, buckets)
}

func HistogramVec(name string, labels []string, buckets []int64) HistogramVecMeter {
	return backend.histogramVec(name, labels, buckets)
}

func Counter(name string) CountMeter {
	return backend.counter(name)
}

func CounterVec(name string, labels []string) CountVecMeter {
	return backend.counterVec(name, labels)
}

func Gauge(name string) GaugeMeter {
	return backend.gauge(name)
}

// LazyLoad defers creating a meter to its first use, so package level meters
// bind to whichever backend is active by then.
func LazyLoad[T any](f func() T) func() T {
	return sync.OnceValue(f)
}

func LazyLoadHistogram(name string, buckets []int64) func() HistogramMeter {
	return LazyLoad(func() HistogramMeter { return Histogram(name, buckets) })
}

func LazyLoadHistogramVec(name string, labels []string, buckets []int64) func() HistogramVecMeter {
	return LazyLoad(func() HistogramVecMeter { return HistogramVec(name, labels, buckets) })
}

func LazyLoadCounter(name string) func() CountMeter {
	return LazyLoad(func() CountMeter { return Counter(name) })
}

func LazyLoadCounterVec(name string, labels []string) func() CountVecMeter {
	return LazyLoad(func() CountVecMeter { return CounterVec(name, labels) })
}

func LazyLoadGauge(name string) func() GaugeMeter {
	return LazyLoad(func() GaugeMeter { return Gauge(name) })
}

// noop is the disabled backend, every meter it hands out discards its input.
type noop struct{}

func (noop) counter(string) CountMeter                                { return noopMeter{} }
func (noop) counterVec(string, []string) CountVecMeter                { return noopMeter{} }
func (noop) gauge(string) GaugeMeter                                  { return noopMeter{} }
func (noop) histogram(string, []int64) HistogramMeter                 { return noopMeter{} }
func (noop) histogramVec(string, []string, []int64) HistogramVecMeter { return noopMeter{} }
func (noop) handler() http.Handler                                    { return nil }

type noopMeter struct{}

func (noopMeter) Add(int64)                                  {}
func (noopMeter) Set(int64)                                  {}
func (noopMeter) Observe(int64)                              {}
func (noopMeter) AddWithLabel(int64, map[string]string)      {}
func (noopMeter) ObserveWithLabels(int64, map[string]string) {}
