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

package metrics

import (
	"time"

	"github.com/uber-go/tally"
)

type (
	// Scope is an interface for metrics emitted under a fixed set of tags
	Scope interface {
		// IncCounter increments a counter metric
		IncCounter(counter int)
		// AddCounter adds delta to the counter metric
		AddCounter(counter int, delta int64)
		// StartTimer starts a timer for the given metric name.
		// Time will be recorded when stopwatch is stopped.
		StartTimer(timer int) Stopwatch
		// RecordTimer starts a timer for the given metric name
		RecordTimer(timer int, d time.Duration)
		// RecordHistogramValue records a histogram value for the given metric name
		RecordHistogramValue(timer int, value float64)
		// UpdateGauge reports Gauge type absolute value metric
		UpdateGauge(gauge int, value float64)
		// Tagged returns an internal scope that can be used to add additional
		// information to metrics
		Tagged(tags ...Tag) Scope
	}

	// Client is the interface used to report metrics tally.
	Client interface {
		// Scope returns an internal scope that can be used to add additional
		// information to metrics
		Scope(scope int, tags ...Tag) Scope
	}

	metricsScope struct {
		scope tally.Scope
		defs  map[int]metricDefinition
	}

	// ClientImpl is used for reporting metrics by various services
	ClientImpl struct {
		// parentScope is the parent scope for the metrics
		parentScope tally.Scope
		childScopes map[int]tally.Scope
	}

	// Stopwatch is a helper for simpler tracking of elapsed time, use the
	// Stop() method to report time elapsed since its created back to the
	// timer or histogram.
	Stopwatch struct {
		start time.Time
		timer tally.Timer
	}
)

var (
	_ Scope  = (*metricsScope)(nil)
	_ Client = (*ClientImpl)(nil)
)

// NewClient creates and returns a new instance of
// Client implementation
// reporter holds the common tags for the service
func NewClient(scope tally.Scope) Client {
	client := &ClientImpl{
		parentScope: scope,
		childScopes: make(map[int]tally.Scope, len(ScopeDefs)),
	}
	for idx, def := range ScopeDefs {
		tags := map[string]string{operation: def.operation}
		for k, v := range def.tags {
			tags[k] = v
		}
		client.childScopes[idx] = scope.Tagged(tags)
	}
	return client
}

// NewNoopClient returns a client discarding everything
func NewNoopClient() Client {
	return NewClient(tally.NoopScope)
}

// NoopScope returns a scope discarding everything
func NoopScope() Scope {
	return newMetricsScope(tally.NoopScope, MetricDefs)
}

// Scope returns a new internal metrics scope that can be used to add additional
// information to the metrics emitted
func (m *ClientImpl) Scope(scopeIdx int, tags ...Tag) Scope {
	scope, ok := m.childScopes[scopeIdx]
	if !ok {
		scope = m.parentScope
	}
	return newMetricsScope(scope, MetricDefs).Tagged(tags...)
}

func newMetricsScope(scope tally.Scope, defs map[int]metricDefinition) Scope {
	return &metricsScope{scope: scope, defs: defs}
}

func (m *metricsScope) IncCounter(id int) {
	m.AddCounter(id, 1)
}

func (m *metricsScope) AddCounter(id int, delta int64) {
	name := string(m.defs[id].metricName)
	m.scope.Counter(name).Inc(delta)
}

func (m *metricsScope) UpdateGauge(id int, value float64) {
	name := string(m.defs[id].metricName)
	m.scope.Gauge(name).Update(value)
}

func (m *metricsScope) StartTimer(id int) Stopwatch {
	name := string(m.defs[id].metricName)
	return Stopwatch{start: time.Now(), timer: m.scope.Timer(name)}
}

func (m *metricsScope) RecordTimer(id int, d time.Duration) {
	name := string(m.defs[id].metricName)
	m.scope.Timer(name).Record(d)
}

func (m *metricsScope) RecordHistogramValue(id int, value float64) {
	name := string(m.defs[id].metricName)
	m.scope.Histogram(name, m.getBuckets(id)).RecordValue(value)
}

func (m *metricsScope) Tagged(tags ...Tag) Scope {
	if len(tags) == 0 {
		return m
	}
	tagMap := make(map[string]string, len(tags))
	for _, tag := range tags {
		tagMap[tag.Key()] = tag.Value()
	}
	return newMetricsScope(m.scope.Tagged(tagMap), m.defs)
}

func (m *metricsScope) getBuckets(id int) tally.Buckets {
	if m.defs[id].buckets != nil {
		return m.defs[id].buckets
	}
	return tally.DefaultBuckets
}

// Stop reports time elapsed since the stopwatch start to the recorder.
func (sw Stopwatch) Stop() time.Duration {
	d := time.Since(sw.start)
	if sw.timer != nil {
		sw.timer.Record(d)
	}
	return d
}
