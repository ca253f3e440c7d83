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
	"fmt"
	"time"

	"github.com/uber-go/tally/prometheus"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v2"
)

type (
	// Config contains the configuration for the poll cache server
	Config struct {
		// Log is the logging config
		Log Logger `yaml:"log"`
		// Metrics is the metrics subsystem configuration
		Metrics Metrics `yaml:"metrics"`
		// Cache is the sizing of the ranking cache
		Cache Cache `yaml:"cache"`
		// Dispatcher is the batch dispatcher configuration
		Dispatcher Dispatcher `yaml:"dispatcher"`
		// Timekeeper drives period rotations
		Timekeeper Timekeeper `yaml:"timekeeper"`
		// Frontend is the HTTP surface configuration
		Frontend Frontend `yaml:"frontend"`
	}

	// Logger contains the config items for logger
	Logger struct {
		// Stdout is true if the output needs to goto standard out
		Stdout bool `yaml:"stdout"`
		// Level is the desired log level
		Level string `yaml:"level"`
		// OutputFile is the path to the log output file
		OutputFile string `yaml:"outputFile"`
		// LevelKey is the desired log level, defaults to "level"
		LevelKey string `yaml:"levelKey"`
		// Encoding decides the format, supports "console" and "json".
		// "json" will print the log in JSON format(better for machine), while "console" will print in plain-text format(more human friendly)
		// Default is "json"
		Encoding string `yaml:"encoding"`
	}

	// Metrics contains the config items for metrics subsystem
	Metrics struct {
		// Statsd is the configuration for statsd reporter
		Statsd *Statsd `yaml:"statsd"`
		// Prometheus is the configuration for prometheus reporter
		Prometheus *prometheus.Configuration `yaml:"prometheus"`
		// Tags is the set of key-value pairs to be reported
		// as part of every metric
		Tags map[string]string `yaml:"tags"`
		// Prefix sets the prefix to all outgoing metrics
		Prefix string `yaml:"prefix"`
		// ReportingInterval is the interval of the root scope reporting loop
		ReportingInterval time.Duration `yaml:"reportingInterval"`
	}

	// Statsd contains the config items for statsd metrics reporter
	Statsd struct {
		// The host and port of the statsd server
		HostPort string `yaml:"hostPort" validate:"nonzero"`
		// The prefix to use in reporting to statsd
		Prefix string `yaml:"prefix" validate:"nonzero"`
		// FlushInterval is the maximum interval for sending packets.
		// If it is not specified, it defaults to 1 second.
		FlushInterval time.Duration `yaml:"flushInterval"`
		// FlushBytes specifies the maximum udp packet size you wish to send.
		// If FlushBytes is unspecified, it defaults  to 1432 bytes, which is
		// considered safe for local traffic.
		FlushBytes int `yaml:"flushBytes"`
	}

	// Cache sizes the ranking cache
	Cache struct {
		// IndexInitialCapacity is the initial capacity of each period index map
		IndexInitialCapacity int `yaml:"indexInitialCapacity"`
		// LeaderboardSize is the number of polls kept on each leaderboard
		LeaderboardSize int `yaml:"leaderboardSize"`
		// PendingPageSize is the number of poll ids per pending list page
		PendingPageSize int `yaml:"pendingPageSize"`
	}

	// Dispatcher configures the batch dispatcher
	Dispatcher struct {
		// DrainInterval is the fixed period of the drain loop
		DrainInterval time.Duration `yaml:"drainInterval"`
		// BufferCapacity is the initial capacity of each pending buffer
		BufferCapacity int `yaml:"bufferCapacity"`
		// ShutdownTimeout bounds the final drain on stop
		ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
	}

	// Timekeeper configures the rotation driver
	Timekeeper struct {
		// CheckInterval is how often period boundaries are checked
		CheckInterval time.Duration `yaml:"checkInterval"`
	}

	// Frontend configures the HTTP surface
	Frontend struct {
		// ListenAddress is the host:port the HTTP server binds to
		ListenAddress string `yaml:"listenAddress"`
		// RPS is the intake rate limit across all endpoints, zero disables it
		RPS float64 `yaml:"rps"`
		// Burst is the intake limiter bucket size
		Burst int `yaml:"burst"`
		// MaxRankingSize caps the n of ranking queries
		MaxRankingSize int `yaml:"maxRankingSize"`
		// ShutdownTimeout bounds graceful HTTP shutdown
		ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
	}
)

const (
	defaultIndexInitialCapacity = 2000
	defaultLeaderboardSize      = 100
	defaultPendingPageSize      = 1024
	defaultDrainInterval        = time.Second
	defaultBufferCapacity       = 2048
	defaultShutdownTimeout      = 10 * time.Second
	defaultCheckInterval        = time.Second
	defaultListenAddress        = "127.0.0.1:7940"
	defaultMaxRankingSize       = 100
	defaultReportingInterval    = time.Second
)

// ValidateAndFillDefaults validates this config and fills default values if needed
func (c *Config) ValidateAndFillDefaults() error {
	c.fillDefaults()
	return c.validate()
}

func (c *Config) validate() error {
	var errs error
	if c.Cache.IndexInitialCapacity < 0 {
		errs = multierr.Append(errs, fmt.Errorf("cache.indexInitialCapacity must not be negative, got %d", c.Cache.IndexInitialCapacity))
	}
	if c.Cache.LeaderboardSize < 1 {
		errs = multierr.Append(errs, fmt.Errorf("cache.leaderboardSize must be positive, got %d", c.Cache.LeaderboardSize))
	}
	if c.Cache.PendingPageSize < 1 {
		errs = multierr.Append(errs, fmt.Errorf("cache.pendingPageSize must be positive, got %d", c.Cache.PendingPageSize))
	}
	if c.Dispatcher.DrainInterval <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("dispatcher.drainInterval must be positive, got %v", c.Dispatcher.DrainInterval))
	}
	if c.Timekeeper.CheckInterval <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("timekeeper.checkInterval must be positive, got %v", c.Timekeeper.CheckInterval))
	}
	if c.Frontend.RPS < 0 {
		errs = multierr.Append(errs, fmt.Errorf("frontend.rps must not be negative, got %v", c.Frontend.RPS))
	}
	if c.Frontend.RPS > 0 && c.Frontend.Burst < 1 {
		errs = multierr.Append(errs, fmt.Errorf("frontend.burst must be positive when rps is set, got %d", c.Frontend.Burst))
	}
	if c.Frontend.MaxRankingSize > c.Cache.LeaderboardSize {
		errs = multierr.Append(errs, fmt.Errorf("frontend.maxRankingSize %d exceeds cache.leaderboardSize %d",
			c.Frontend.MaxRankingSize, c.Cache.LeaderboardSize))
	}
	if c.Metrics.Statsd != nil && c.Metrics.Prometheus != nil {
		errs = multierr.Append(errs, fmt.Errorf("metrics: only one of statsd and prometheus can be configured"))
	}
	return errs
}

func (c *Config) fillDefaults() {
	if c.Cache.IndexInitialCapacity == 0 {
		c.Cache.IndexInitialCapacity = defaultIndexInitialCapacity
	}
	if c.Cache.LeaderboardSize == 0 {
		c.Cache.LeaderboardSize = defaultLeaderboardSize
	}
	if c.Cache.PendingPageSize == 0 {
		c.Cache.PendingPageSize = defaultPendingPageSize
	}
	if c.Dispatcher.DrainInterval == 0 {
		c.Dispatcher.DrainInterval = defaultDrainInterval
	}
	if c.Dispatcher.BufferCapacity <= 0 {
		c.Dispatcher.BufferCapacity = defaultBufferCapacity
	}
	if c.Dispatcher.ShutdownTimeout <= 0 {
		c.Dispatcher.ShutdownTimeout = defaultShutdownTimeout
	}
	if c.Timekeeper.CheckInterval == 0 {
		c.Timekeeper.CheckInterval = defaultCheckInterval
	}
	if c.Frontend.ListenAddress == "" {
		c.Frontend.ListenAddress = defaultListenAddress
	}
	if c.Frontend.MaxRankingSize == 0 {
		c.Frontend.MaxRankingSize = defaultMaxRankingSize
		if c.Cache.LeaderboardSize < c.Frontend.MaxRankingSize {
			c.Frontend.MaxRankingSize = c.Cache.LeaderboardSize
		}
	}
	if c.Frontend.ShutdownTimeout <= 0 {
		c.Frontend.ShutdownTimeout = defaultShutdownTimeout
	}
	if c.Metrics.ReportingInterval <= 0 {
		c.Metrics.ReportingInterval = defaultReportingInterval
	}
}

// String converts the config object into a string
func (c *Config) String() string {
	out, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Sprintf("<unprintable config: %v>", err)
	}
	return string(out)
}
