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
	"go.uber.org/atomic"

	"github.com/votecube/pollcache/common/clock"
	"github.com/votecube/pollcache/common/config"
	"github.com/votecube/pollcache/common/errors"
	"github.com/votecube/pollcache/common/log"
	"github.com/votecube/pollcache/common/log/tag"
	"github.com/votecube/pollcache/common/metrics"
	"github.com/votecube/pollcache/common/pagination"
	"github.com/votecube/pollcache/common/types"
	"github.com/votecube/pollcache/service/cache/pending"
)

type cacheImpl struct {
	config        config.Cache
	logger        log.Logger
	metricsClient metrics.Client

	// last issued poll id
	lastPollID atomic.Uint64
	partitions [types.NumTimezonesWithGlobal]*partition
}

var _ Cache = (*cacheImpl)(nil)

// New creates a Cache whose timezones serve the periods current at creation time
func New(
	cfg config.Cache,
	timeSource clock.TimeSource,
	logger log.Logger,
	metricsClient metrics.Client,
) Cache {
	c := &cacheImpl{
		config:        cfg,
		logger:        logger.WithTags(tag.Component(tag.ComponentCache)),
		metricsClient: metricsClient,
	}
	for _, tz := range types.AllTimezones() {
		c.partitions[tz] = c.newPartition(tz, clock.CurrentPeriodIDs(timeSource, tz))
	}
	return c
}

func (c *cacheImpl) CreatePoll(request *CreatePollRequest) (*CreatePollResponse, error) {
	scope := c.metricsClient.Scope(metrics.CacheCreatePollScope)
	scope.IncCounter(metrics.Requests)

	if err := validateCreatePoll(request); err != nil {
		scope.IncCounter(metrics.BadRequests)
		return nil, err
	}

	p := c.partitions[request.Timezone]
	p.mu.Lock()
	defer p.mu.Unlock()

	// issued under the timezone lock so pending lists stay in id order
	poll := futurePoll{
		id:             types.PollID(c.lastPollID.Inc()),
		dimensionality: request.Dimensionality,
		location:       request.LocationID,
		category:       request.CategoryID,
	}

	if request.Future != nil {
		fb := p.future[*request.Future]
		fb.lists.Append(poll.location, poll.category, poll.id)
		fb.polls = append(fb.polls, poll)
		scope.Tagged(metrics.GranularityTag(request.Granularity)).IncCounter(metrics.FuturePollsCreated)
		return &CreatePollResponse{PollID: poll.id, PeriodID: fb.key.ID}, nil
	}

	period := request.Granularity.ActivePeriod()
	if err := p.register(period, poll); err != nil {
		scope.IncCounter(metrics.Failures)
		return nil, err
	}
	scope.Tagged(metrics.GranularityTag(request.Granularity)).IncCounter(metrics.PollsCreated)
	return &CreatePollResponse{PollID: poll.id, PeriodID: p.buckets[period].key.ID}, nil
}

func validateCreatePoll(request *CreatePollRequest) error {
	if request == nil {
		return errors.NewInvalidArgumentError("create poll request is not set")
	}
	if !request.Timezone.IsValid() || request.Timezone.IsGlobal() {
		return errors.NewInvalidArgumentError("invalid timezone %d", request.Timezone)
	}
	if !request.Dimensionality.IsValid() {
		return errors.NewInvalidArgumentError("invalid dimensionality %d", request.Dimensionality)
	}
	if !request.Granularity.IsValid() {
		return errors.NewInvalidArgumentError("invalid granularity %d", request.Granularity)
	}
	if request.Future != nil {
		if !request.Future.IsValid() {
			return errors.NewInvalidArgumentError("invalid future period %d", *request.Future)
		}
		if request.Future.Granularity() != request.Granularity {
			return errors.NewInvalidArgumentError("future period %v does not run for a %v", *request.Future, request.Granularity)
		}
	}
	return nil
}

func (c *cacheImpl) RecordVote(request *VoteRequest) (*VoteResponse, error) {
	scope := c.metricsClient.Scope(metrics.CacheRecordVoteScope)
	scope.IncCounter(metrics.Requests)

	if request == nil || !request.Timezone.IsValid() || request.Timezone.IsGlobal() {
		scope.IncCounter(metrics.BadRequests)
		return nil, errors.NewInvalidArgumentError("invalid vote request")
	}

	p := c.partitions[request.Timezone]
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, period := range activePeriods {
		b := p.buckets[period]
		if !b.polls.Contains(request.PollID) {
			continue
		}

		vc, wrapped, err := b.polls.RecordVote(request.PollID, request.Direction, request.Weight)
		if err != nil {
			scope.IncCounter(metrics.BadRequests)
			return nil, err
		}
		if wrapped {
			scope.IncCounter(metrics.DirectionOverflows)
		}
		placement, _ := b.polls.Placement(request.PollID)
		b.rank(placement, vc)

		if placement.CategoryID != types.NoCategory {
			global := c.partitions[types.TimezoneGlobal]
			global.mu.Lock()
			global.rankGlobally(period, placement.CategoryID, vc)
			global.mu.Unlock()
		}

		scope.IncCounter(metrics.VotesRecorded)
		return &VoteResponse{VoteCount: vc, Period: period}, nil
	}

	scope.IncCounter(metrics.NotFound)
	return nil, errors.NewUnknownPollError(request.Timezone, request.PollID)
}

func (c *cacheImpl) ReadPoll(tz types.TimezoneID, id types.PollID) (*ReadPollResponse, error) {
	if !tz.IsValid() || tz.IsGlobal() {
		return nil, errors.NewInvalidArgumentError("invalid timezone %d", tz)
	}

	p := c.partitions[tz]
	p.mu.RLock()
	defer p.mu.RUnlock()

	// active buckets first, they are the ones a caller most likely means
	for _, period := range readOrder {
		b := p.buckets[period]
		if !b.polls.Contains(id) {
			continue
		}
		snapshot, err := b.polls.Read(id)
		if err != nil {
			return nil, err
		}
		return &ReadPollResponse{Period: period, Snapshot: snapshot}, nil
	}
	c.metricsClient.Scope(metrics.CacheQueryScope).IncCounter(metrics.NotFound)
	return nil, errors.NewUnknownPollError(tz, id)
}

var readOrder = [types.NumPeriods]types.Period{
	types.PeriodToday,
	types.PeriodThisWeek,
	types.PeriodThisMonth,
	types.PeriodYesterday,
	types.PeriodDayBeforeYesterday,
	types.PeriodLastWeek,
	types.PeriodLastMonth,
}

func (c *cacheImpl) TopByLocation(
	tz types.TimezoneID,
	period types.Period,
	location types.LocationID,
	n int,
) ([]types.VoteCount, error) {
	if err := validateQuery(tz, period, false); err != nil {
		return nil, err
	}

	p := c.partitions[tz]
	p.mu.RLock()
	defer p.mu.RUnlock()

	loc, ok := p.indices.Lookup(period, location)
	if !ok {
		c.metricsClient.Scope(metrics.CacheQueryScope).IncCounter(metrics.NotFound)
		return nil, errors.NewUnknownLocationError(tz, period, location)
	}
	return p.buckets[period].locationRankings.TopN(loc.LocationIndex, n), nil
}

func (c *cacheImpl) TopByLocationCategory(
	tz types.TimezoneID,
	period types.Period,
	location types.LocationID,
	category types.CategoryID,
	n int,
) ([]types.VoteCount, error) {
	if err := validateQuery(tz, period, false); err != nil {
		return nil, err
	}

	p := c.partitions[tz]
	p.mu.RLock()
	defer p.mu.RUnlock()

	loc, ok := p.indices.Lookup(period, location)
	if !ok {
		c.metricsClient.Scope(metrics.CacheQueryScope).IncCounter(metrics.NotFound)
		return nil, errors.NewUnknownLocationError(tz, period, location)
	}
	column, ok := loc.LookupCategory(category)
	if !ok {
		c.metricsClient.Scope(metrics.CacheQueryScope).IncCounter(metrics.NotFound)
		return nil, errors.NewUnknownCategoryError(tz, period, location, category)
	}
	return p.buckets[period].locationCategoryRankings.TopN(loc.LocationIndex, column, n), nil
}

func (c *cacheImpl) TopByCategory(
	tz types.TimezoneID,
	period types.Period,
	category types.CategoryID,
	n int,
) ([]types.VoteCount, error) {
	if err := validateQuery(tz, period, true); err != nil {
		return nil, err
	}

	p := c.partitions[tz]
	p.mu.RLock()
	defer p.mu.RUnlock()

	row, ok := p.indices.LookupCategory(period, category)
	if !ok {
		c.metricsClient.Scope(metrics.CacheQueryScope).IncCounter(metrics.NotFound)
		return nil, errors.NewUnknownCategoryError(tz, period, 0, category)
	}
	return p.buckets[period].categoryRankings.TopN(row, n), nil
}

func validateQuery(tz types.TimezoneID, period types.Period, allowGlobal bool) error {
	if !tz.IsValid() || (tz.IsGlobal() && !allowGlobal) {
		return errors.NewInvalidArgumentError("invalid timezone %d", tz)
	}
	if !period.IsValid() {
		return errors.NewInvalidArgumentError("invalid period %d", period)
	}
	return nil
}

func (c *cacheImpl) PendingSince(
	tz types.TimezoneID,
	period types.FuturePeriod,
	location types.LocationID,
	category types.CategoryID,
	cursor pending.Cursor,
) (pagination.Iterator, error) {
	if !tz.IsValid() || tz.IsGlobal() {
		return nil, errors.NewInvalidArgumentError("invalid timezone %d", tz)
	}
	if !period.IsValid() {
		return nil, errors.NewInvalidArgumentError("invalid future period %d", period)
	}

	p := c.partitions[tz]
	p.mu.RLock()
	defer p.mu.RUnlock()

	pages, ok := p.future[period].lists.Pages(location, category)
	if !ok {
		if cursor > 0 {
			return nil, errors.NewInvalidArgumentError("cursor %d is beyond the end of the list (0)", cursor)
		}
		// nothing created for the location yet
		return pending.NewPages(c.config.PendingPageSize).PagesSince(0)
	}
	return pages.PagesSince(cursor)
}

func (c *cacheImpl) PeriodIDs(tz types.TimezoneID) (types.CachePeriodIDs, error) {
	if !tz.IsValid() {
		return types.CachePeriodIDs{}, errors.NewInvalidArgumentError("invalid timezone %d", tz)
	}
	p := c.partitions[tz]
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.ids, nil
}

func (c *cacheImpl) IsRotating(tz types.TimezoneID) bool {
	return tz.IsValid() && c.partitions[tz].rotating.Load()
}

func (c *cacheImpl) RotationStatus(tz types.TimezoneID) error {
	if !tz.IsValid() {
		return errors.NewInvalidArgumentError("invalid timezone %d", tz)
	}
	if c.IsRotating(tz) {
		return errors.NewRotationInProgressError(tz)
	}
	return nil
}
