// Copyright (c) 2017 Uber Technologies, Inc.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package prometheus

import (
	"time"

	"github.com/uber-go/tally/prometheus"
)

// DefaultHistogramBuckets is the histogram objectives used for every histogram
// registered with the prometheus reporter. Histograms carry both durations
// (aggregation, rotation, resolve latencies) and plain counts (batch sizes),
// so the objectives span both.
func DefaultHistogramBuckets() []prometheus.HistogramObjective {
	// the reporter divides durations by a second before observing them:
	// this is a nanosecond for latencies and one for counts
	oneOrNanoSecond := float64(time.Nanosecond) / float64(time.Second)

	microSecOr1K := oneOrNanoSecond * 1000
	milliSecOr1M := oneOrNanoSecond * 1000000

	return []prometheus.HistogramObjective{
		{Upper: oneOrNanoSecond},
		{Upper: 8 * oneOrNanoSecond},
		{Upper: 32 * oneOrNanoSecond},
		{Upper: 128 * oneOrNanoSecond},
		{Upper: 512 * oneOrNanoSecond},

		{Upper: 2 * microSecOr1K},
		{Upper: 8 * microSecOr1K},
		{Upper: 32 * microSecOr1K},
		{Upper: 128 * microSecOr1K},
		{Upper: 512 * microSecOr1K},

		{Upper: milliSecOr1M},
		{Upper: 5 * milliSecOr1M},
		{Upper: 10 * milliSecOr1M},
		{Upper: 50 * milliSecOr1M},
		{Upper: 100 * milliSecOr1M},
		{Upper: 500 * milliSecOr1M},
		{Upper: 1000 * milliSecOr1M},
		{Upper: 1500 * milliSecOr1M},
		{Upper: 2000 * milliSecOr1M},
		{Upper: 5000 * milliSecOr1M},
	}
}
