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

package cache

import (
	"go.uber.org/multierr"

	"github.com/votecube/pollcache/common/errors"
	"github.com/votecube/pollcache/common/log/tag"
	"github.com/votecube/pollcache/common/metrics"
	"github.com/votecube/pollcache/common/types"
)

// Rotate swaps the buckets of tz for the ones newIDs name.
// A bucket whose period is still served moves to its new position, periods
// no longer served are dropped and newly served ones start empty. Polls created
// ahead of a period that just became active are registered in its fresh bucket.
// Readers and writers of tz wait for the swap, other timezones are unaffected.
// A promotion error does not undo the swap: tz serves newIDs and every other
// poll is still promoted.
func (c *cacheImpl) Rotate(tz types.TimezoneID, newIDs types.CachePeriodIDs) error {
	if !tz.IsValid() {
		return errors.NewInvalidArgumentError("invalid timezone %d", tz)
	}
	scope := c.metricsClient.Scope(metrics.CacheRotateScope, metrics.TimezoneTag(tz))
	scope.IncCounter(metrics.Requests)

	p := c.partitions[tz]
	p.rotateMu.Lock()
	defer p.rotateMu.Unlock()

	// ids only change under rotateMu
	oldIDs := p.ids
	if oldIDs == newIDs {
		scope.IncCounter(metrics.RotationNoops)
		return nil
	}

	p.rotating.Store(true)
	defer p.rotating.Store(false)
	sw := scope.StartTimer(metrics.RotationLatency)

	p.mu.Lock()
	promoted, err := c.swap(p, newIDs)
	p.mu.Unlock()
	latency := sw.Stop()

	if err != nil {
		scope.IncCounter(metrics.Failures)
		scope.AddCounter(metrics.PollsPromoted, int64(promoted))
		c.logger.Error("Failed to promote polls during rotation",
			tag.Timezone(tz), tag.PeriodIDs(newIDs), tag.PromotedPolls(promoted), tag.Error(err))
		return err
	}

	scope.IncCounter(metrics.Rotations)
	scope.AddCounter(metrics.PollsPromoted, int64(promoted))
	c.logger.Info("Rotated period buckets",
		tag.Timezone(tz),
		tag.PreviousPeriodIDs(oldIDs),
		tag.PeriodIDs(newIDs),
		tag.PromotedPolls(promoted),
		tag.Latency(latency))
	return nil
}

// swap builds the bucket set of newIDs and installs it. The caller holds the write lock.
func (c *cacheImpl) swap(p *partition, newIDs types.CachePeriodIDs) (int, error) {
	oldIDs := p.ids

	ranked := make(map[types.PeriodKey]types.Period, types.NumPeriods)
	for period := types.Period(0); period < types.NumPeriods; period++ {
		ranked[oldIDs.Key(period)] = period
	}
	origin := func(period types.Period) (types.Period, bool) {
		from, ok := ranked[newIDs.Key(period)]
		return from, ok
	}

	var buckets [types.NumPeriods]*bucket
	for period := types.Period(0); period < types.NumPeriods; period++ {
		if from, ok := origin(period); ok {
			buckets[period] = p.buckets[from]
		} else {
			buckets[period] = c.newBucket(p.timezone, newIDs.Key(period))
		}
	}

	oldFuture := p.future
	var future [types.NumFuturePeriods]*futureBucket
	if !p.timezone.IsGlobal() {
		upcoming := make(map[types.PeriodKey]*futureBucket, types.NumFuturePeriods)
		for _, fb := range oldFuture {
			upcoming[fb.key] = fb
		}
		for period := types.FuturePeriod(0); period < types.NumFuturePeriods; period++ {
			key := newIDs.FutureKey(period)
			if fb, ok := upcoming[key]; ok {
				future[period] = fb
			} else {
				future[period] = c.newFutureBucket(key)
			}
		}
	}

	p.indices = p.indices.Rearranged(origin)
	p.buckets = buckets
	p.future = future
	p.ids = newIDs

	// the swap is committed, from here on errors are collected
	promoted := 0
	var errs error
	for _, fb := range oldFuture {
		if fb == nil {
			continue
		}
		period := fb.key.Granularity.ActivePeriod()
		if newIDs.Key(period) != fb.key {
			continue
		}
		for _, poll := range fb.polls {
			if err := p.register(period, poll); err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			promoted++
		}
	}
	return promoted, errs
}
