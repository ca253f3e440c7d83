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

package batch

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/atomic"

	"github.com/votecube/pollcache/common"
	"github.com/votecube/pollcache/common/clock"
	"github.com/votecube/pollcache/common/config"
	"github.com/votecube/pollcache/common/errors"
	"github.com/votecube/pollcache/common/future"
	"github.com/votecube/pollcache/common/log"
	"github.com/votecube/pollcache/common/log/tag"
	"github.com/votecube/pollcache/common/metrics"
)

type dispatcherImpl[Req, In, Out any] struct {
	validator     Validator[Req, In, Out]
	aggregator    Aggregator[In, Out]
	timeSource    clock.TimeSource
	config        config.Dispatcher
	logger        log.Logger
	metricsClient metrics.Client

	status     atomic.Int32
	shutdownCh chan struct{}
	shutdownWG sync.WaitGroup
	draining   atomic.Bool

	sync.Mutex
	buffer  []*Entry[In, Out]
	stopped bool
}

// NewDispatcher creates a Dispatcher draining every cfg.DrainInterval once started
func NewDispatcher[Req, In, Out any](
	validator Validator[Req, In, Out],
	aggregator Aggregator[In, Out],
	timeSource clock.TimeSource,
	cfg config.Dispatcher,
	logger log.Logger,
	metricsClient metrics.Client,
) Dispatcher[Req, In, Out] {
	d := &dispatcherImpl[Req, In, Out]{
		validator:     validator,
		aggregator:    aggregator,
		timeSource:    timeSource,
		config:        cfg,
		logger:        logger.WithTags(tag.Component(tag.ComponentDispatcher)),
		metricsClient: metricsClient,
		shutdownCh:    make(chan struct{}),
		buffer:        make([]*Entry[In, Out], 0, cfg.BufferCapacity),
	}
	d.status.Store(common.DaemonStatusInitialized)
	return d
}

func (d *dispatcherImpl[Req, In, Out]) Start() {
	if !d.status.CompareAndSwap(common.DaemonStatusInitialized, common.DaemonStatusStarted) {
		return
	}

	d.shutdownWG.Add(1)
	go d.drainLoop()

	d.logger.Info("Batch dispatcher started.", tag.Lifecycle(tag.LifeCycleStarted), tag.Interval(d.config.DrainInterval))
}

func (d *dispatcherImpl[Req, In, Out]) Stop() {
	if d.status.CompareAndSwap(common.DaemonStatusStarted, common.DaemonStatusStopped) {
		d.markStopped()
		close(d.shutdownCh)
		if success := common.AwaitWaitGroup(&d.shutdownWG, d.config.ShutdownTimeout); !success {
			d.logger.Warn("Batch dispatcher timed out on shutdown.", tag.Lifecycle(tag.LifeCycleStopTimedout))
		}
		d.logger.Info("Batch dispatcher stopped.", tag.Lifecycle(tag.LifeCycleStopped))
		return
	}

	// never started, nobody else drains what was enqueued
	if d.status.CompareAndSwap(common.DaemonStatusInitialized, common.DaemonStatusStopped) {
		d.markStopped()
		d.drain()
		d.logger.Info("Batch dispatcher stopped.", tag.Lifecycle(tag.LifeCycleStopped))
	}
}

func (d *dispatcherImpl[Req, In, Out]) Resolve(ctx context.Context, request Req) (Out, error) {
	scope := d.metricsClient.Scope(metrics.DispatcherResolveScope)
	scope.IncCounter(metrics.Requests)
	sw := scope.StartTimer(metrics.ResolveLatency)
	defer sw.Stop()

	input, rejection, err := d.validator.Validate(ctx, request)
	if err != nil {
		scope.IncCounter(metrics.ValidationRejections)
		if !errors.IsValidationRejectedErrorType(err) {
			err = errors.NewValidationRejectedError("%v", err)
		}
		return rejection, err
	}

	f, settable := future.NewFuture()
	entry := &Entry[In, Out]{
		ID:         uuid.New(),
		Input:      input,
		EnqueuedAt: d.timeSource.Now(),
		settable:   settable,
	}
	if err := d.enqueue(entry); err != nil {
		var zero Out
		return zero, err
	}
	scope.IncCounter(metrics.EntriesEnqueued)

	var result resolution[Out]
	if err := f.Get(ctx, &result); err != nil {
		// the entry is still aggregated with its batch, only the result is dropped
		scope.IncCounter(metrics.WaitCanceled)
		d.logger.Debug("Caller stopped waiting for its batch.", tag.EntryID(entry.ID.String()), tag.Error(err))
		var zero Out
		return zero, err
	}
	return result.output, result.err
}

func (d *dispatcherImpl[Req, In, Out]) State() State {
	if d.draining.Load() {
		return StateDraining
	}
	d.Lock()
	defer d.Unlock()
	if len(d.buffer) > 0 {
		return StateAccumulating
	}
	return StateIdle
}

func (d *dispatcherImpl[Req, In, Out]) enqueue(entry *Entry[In, Out]) error {
	d.Lock()
	defer d.Unlock()

	if d.stopped {
		return errors.ErrDispatcherStopped
	}
	d.buffer = append(d.buffer, entry)
	return nil
}

func (d *dispatcherImpl[Req, In, Out]) markStopped() {
	d.Lock()
	defer d.Unlock()
	d.stopped = true
}

func (d *dispatcherImpl[Req, In, Out]) drainLoop() {
	defer d.shutdownWG.Done()

	ticker := d.timeSource.NewTicker(d.config.DrainInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.Chan():
			d.drain()
		case <-d.shutdownCh:
			// enqueue is closed by now, this drain resumes every remaining caller
			d.drain()
			return
		}
	}
}

// drain detaches the live buffer, aggregates it and resumes its callers in buffer order
func (d *dispatcherImpl[Req, In, Out]) drain() {
	scope := d.metricsClient.Scope(metrics.DispatcherDrainScope)
	scope.IncCounter(metrics.DrainCycles)

	d.Lock()
	if len(d.buffer) == 0 {
		d.Unlock()
		scope.IncCounter(metrics.EmptyDrains)
		return
	}
	batch := d.buffer
	d.buffer = make([]*Entry[In, Out], 0, d.config.BufferCapacity)
	d.draining.Store(true)
	d.Unlock()
	defer d.draining.Store(false)

	scope.RecordHistogramValue(metrics.BatchSize, float64(len(batch)))
	sw := scope.StartTimer(metrics.AggregationLatency)
	err := d.aggregate(batch)
	sw.Stop()

	var fallback error
	if err != nil {
		scope.IncCounter(metrics.AggregationFailures)
		d.logger.Error("Batch aggregation failed.", tag.BatchSize(len(batch)), tag.Error(err))
		fallback = errors.NewAggregationFailureError("batch aggregation failed", true, err)
	} else {
		fallback = errors.NewAggregationFailureError("no result", false, nil)
	}

	var zero Out
	unfilled := 0
	for _, entry := range batch {
		if entry.Complete(zero, fallback) {
			unfilled++
		}
		entry.resume()
	}

	if err == nil && unfilled > 0 {
		scope.AddCounter(metrics.UnfilledEntries, int64(unfilled))
		d.logger.Warn("Batch aggregation left entries without a result.",
			tag.BatchSize(len(batch)), tag.Unfilled(unfilled))
	}
}

func (d *dispatcherImpl[Req, In, Out]) aggregate(batch []*Entry[In, Out]) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("aggregation panicked: %v", r)
		}
	}()
	return d.aggregator.Aggregate(context.Background(), batch)
}
