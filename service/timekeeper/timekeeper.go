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

// Package timekeeper rotates the cache whenever a timezone crosses a day, week or month boundary.
package timekeeper

import (
	"sync"
	"time"

	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/votecube/pollcache/common"
	"github.com/votecube/pollcache/common/clock"
	"github.com/votecube/pollcache/common/config"
	"github.com/votecube/pollcache/common/log"
	"github.com/votecube/pollcache/common/log/tag"
	"github.com/votecube/pollcache/common/metrics"
	"github.com/votecube/pollcache/common/types"
	"github.com/votecube/pollcache/service/cache"
)

const stopTimeout = 30 * time.Second

type (
	// Timekeeper is the daemon keeping the cache on the current periods
	Timekeeper interface {
		common.Daemon
		// CheckAndRotate rotates every timezone whose period ids changed
		CheckAndRotate() error
	}

	timekeeperImpl struct {
		cache        cache.Cache
		timeSource   clock.TimeSource
		config       config.Timekeeper
		logger       log.Logger
		metricsScope metrics.Scope

		status     atomic.Int32
		shutdownCh chan struct{}
		shutdownWG sync.WaitGroup
	}
)

// New creates a Timekeeper checking period boundaries every cfg.CheckInterval
func New(
	cache cache.Cache,
	timeSource clock.TimeSource,
	cfg config.Timekeeper,
	logger log.Logger,
	metricsClient metrics.Client,
) Timekeeper {
	t := &timekeeperImpl{
		cache:        cache,
		timeSource:   timeSource,
		config:       cfg,
		logger:       logger.WithTags(tag.Component(tag.ComponentTimekeeper)),
		metricsScope: metricsClient.Scope(metrics.TimekeeperScope),
		shutdownCh:   make(chan struct{}),
	}
	t.status.Store(common.DaemonStatusInitialized)
	return t
}

func (t *timekeeperImpl) Start() {
	if !t.status.CompareAndSwap(common.DaemonStatusInitialized, common.DaemonStatusStarted) {
		return
	}

	t.shutdownWG.Add(1)
	go t.checkLoop()

	t.logger.Info("Timekeeper started.", tag.Lifecycle(tag.LifeCycleStarted), tag.Interval(t.config.CheckInterval))
}

func (t *timekeeperImpl) Stop() {
	if !t.status.CompareAndSwap(common.DaemonStatusStarted, common.DaemonStatusStopped) {
		return
	}

	close(t.shutdownCh)
	if success := common.AwaitWaitGroup(&t.shutdownWG, stopTimeout); !success {
		t.logger.Warn("Timekeeper timed out on shutdown.", tag.Lifecycle(tag.LifeCycleStopTimedout))
	}
	t.logger.Info("Timekeeper stopped.", tag.Lifecycle(tag.LifeCycleStopped))
}

func (t *timekeeperImpl) checkLoop() {
	defer t.shutdownWG.Done()

	ticker := t.timeSource.NewTicker(t.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-t.shutdownCh:
			return
		case <-ticker.Chan():
			if err := t.CheckAndRotate(); err != nil {
				t.logger.Error("Failed to rotate the cache.", tag.Lifecycle(tag.LifeCycleProcessingErr), tag.Error(err))
			}
		}
	}
}

func (t *timekeeperImpl) CheckAndRotate() error {
	t.metricsScope.IncCounter(metrics.Requests)
	now := t.timeSource.Now()

	// timezones are independent, each one rotates on its own goroutine
	var g errgroup.Group
	for _, tz := range types.AllTimezones() {
		tz := tz
		ids := clock.PeriodIDsAt(tz, now)
		current, err := t.cache.PeriodIDs(tz)
		if err != nil {
			return err
		}
		if ids == current {
			continue
		}
		g.Go(func() error {
			return t.cache.Rotate(tz, ids)
		})
	}
	if err := g.Wait(); err != nil {
		t.metricsScope.IncCounter(metrics.Failures)
		return err
	}
	return nil
}
