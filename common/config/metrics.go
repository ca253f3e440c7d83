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

package config

import (
	"io"
	"time"

	"github.com/cactus/go-statsd-client/statsd"
	"github.com/uber-go/tally"
	"github.com/uber-go/tally/prometheus"
	tallystatsd "github.com/uber-go/tally/statsd"

	"github.com/votecube/pollcache/common/log"
	"github.com/votecube/pollcache/common/log/tag"
	pollprometheus "github.com/votecube/pollcache/common/metrics/tally/prometheus"
)

const (
	defaultStatsdFlushInterval = time.Second
	defaultStatsdFlushBytes    = 1432
)

// tally sanitizer options that satisfy Prometheus restrictions.
// This will rename metrics at the tally emission level, so metrics name we
// use maybe different from what gets emitted to Prometheus.
var sanitizeOptions = tally.SanitizeOptions{
	NameCharacters: tally.ValidCharacters{
		Ranges:     tally.AlphanumericRange,
		Characters: tally.UnderscoreCharacters,
	},
	KeyCharacters: tally.ValidCharacters{
		Ranges:     tally.AlphanumericRange,
		Characters: tally.UnderscoreCharacters,
	},
	ValueCharacters: tally.ValidCharacters{
		Ranges:     tally.AlphanumericRange,
		Characters: tally.UnderscoreCharacters,
	},
	ReplacementCharacter: tally.DefaultReplacementCharacter,
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// NewScope builds a new tally scope for this metrics configuration.
// Without a configured reporter, the no-op scope is returned.
// The closer flushes and stops the reporter.
func (c *Metrics) NewScope(logger log.Logger, service string) (tally.Scope, io.Closer) {
	tags := make(map[string]string, len(c.Tags)+1)
	for k, v := range c.Tags {
		tags[k] = v
	}
	tags["service"] = service

	switch {
	case c.Prometheus != nil:
		return c.newPrometheusScope(logger, tags)
	case c.Statsd != nil:
		return c.newStatsdScope(logger, tags)
	default:
		return tally.NoopScope, closerFunc(func() error { return nil })
	}
}

func (c *Metrics) newStatsdScope(logger log.Logger, tags map[string]string) (tally.Scope, io.Closer) {
	flushInterval := c.Statsd.FlushInterval
	if flushInterval <= 0 {
		flushInterval = defaultStatsdFlushInterval
	}
	flushBytes := c.Statsd.FlushBytes
	if flushBytes <= 0 {
		flushBytes = defaultStatsdFlushBytes
	}
	statter, err := statsd.NewBufferedClient(c.Statsd.HostPort, c.Statsd.Prefix, flushInterval, flushBytes)
	if err != nil {
		logger.Fatal("error creating statsd client", tag.Error(err))
	}
	reporter := tallystatsd.NewReporter(statter, tallystatsd.Options{})
	scopeOpts := tally.ScopeOptions{
		Tags:     tags,
		Reporter: reporter,
		Prefix:   c.Prefix,
	}
	return tally.NewRootScope(scopeOpts, c.ReportingInterval)
}

func (c *Metrics) newPrometheusScope(logger log.Logger, tags map[string]string) (tally.Scope, io.Closer) {
	if len(c.Prometheus.DefaultHistogramBuckets) == 0 {
		c.Prometheus.DefaultHistogramBuckets = pollprometheus.DefaultHistogramBuckets()
	}
	reporter, err := c.Prometheus.NewReporter(
		prometheus.ConfigurationOptions{
			OnError: func(err error) {
				logger.Warn("error in prometheus reporter", tag.Error(err))
			},
		},
	)
	if err != nil {
		logger.Fatal("error creating prometheus reporter", tag.Error(err))
	}
	scopeOpts := tally.ScopeOptions{
		Tags:            tags,
		CachedReporter:  reporter,
		Separator:       prometheus.DefaultSeparator,
		SanitizeOptions: &sanitizeOptions,
		Prefix:          c.Prefix,
	}
	return tally.NewRootScope(scopeOpts, c.ReportingInterval)
}
