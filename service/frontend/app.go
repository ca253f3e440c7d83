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

package frontend

import (
	"context"

	"github.com/votecube/pollcache/common/clock"
	"github.com/votecube/pollcache/common/config"
	"github.com/votecube/pollcache/common/errors"
	"github.com/votecube/pollcache/common/log"
	"github.com/votecube/pollcache/common/log/tag"
	"github.com/votecube/pollcache/common/metrics"
	"github.com/votecube/pollcache/common/types"
	"github.com/votecube/pollcache/service/batch"
	"github.com/votecube/pollcache/service/cache"
)

type (
	// PollApp validates create poll and vote requests at intake and applies
	// their batches to the cache
	PollApp struct {
		cache  cache.Cache
		logger log.Logger
	}

	// CreatePollDispatcher batches poll creations
	CreatePollDispatcher = batch.Dispatcher[*cache.CreatePollRequest, *cache.CreatePollRequest, *cache.CreatePollResponse]
	// VoteDispatcher batches votes
	VoteDispatcher = batch.Dispatcher[*cache.VoteRequest, *cache.VoteRequest, *cache.VoteResponse]
)

// NewPollApp creates a PollApp applying batches to c
func NewPollApp(c cache.Cache, logger log.Logger) *PollApp {
	return &PollApp{cache: c, logger: logger}
}

// NewCreatePollDispatcher creates the dispatcher batching poll creations of app
func NewCreatePollDispatcher(
	app *PollApp,
	timeSource clock.TimeSource,
	cfg config.Dispatcher,
	logger log.Logger,
	metricsClient metrics.Client,
) CreatePollDispatcher {
	return batch.NewDispatcher[*cache.CreatePollRequest, *cache.CreatePollRequest, *cache.CreatePollResponse](
		batch.ValidatorFunc[*cache.CreatePollRequest, *cache.CreatePollRequest, *cache.CreatePollResponse](app.ValidateCreatePoll),
		batch.AggregatorFunc[*cache.CreatePollRequest, *cache.CreatePollResponse](app.AggregateCreatePolls),
		timeSource,
		cfg,
		logger.WithTags(tag.Name("create-poll")),
		metricsClient,
	)
}

// NewVoteDispatcher creates the dispatcher batching votes of app
func NewVoteDispatcher(
	app *PollApp,
	timeSource clock.TimeSource,
	cfg config.Dispatcher,
	logger log.Logger,
	metricsClient metrics.Client,
) VoteDispatcher {
	return batch.NewDispatcher[*cache.VoteRequest, *cache.VoteRequest, *cache.VoteResponse](
		batch.ValidatorFunc[*cache.VoteRequest, *cache.VoteRequest, *cache.VoteResponse](app.ValidateVote),
		batch.AggregatorFunc[*cache.VoteRequest, *cache.VoteResponse](app.AggregateVotes),
		timeSource,
		cfg,
		logger.WithTags(tag.Name("vote")),
		metricsClient,
	)
}

// ValidateCreatePoll checks the shape of a create poll request
func (a *PollApp) ValidateCreatePoll(_ context.Context, request *cache.CreatePollRequest) (*cache.CreatePollRequest, *cache.CreatePollResponse, error) {
	if request == nil {
		return nil, nil, errors.NewValidationRejectedError("request is not set")
	}
	if err := validateTimezone(request.Timezone); err != nil {
		return nil, nil, err
	}
	if !request.Dimensionality.IsValid() {
		return nil, nil, errors.NewValidationRejectedError("dimensionality must be 1, 2 or 3, got %d", request.Dimensionality)
	}
	if !request.Granularity.IsValid() {
		return nil, nil, errors.NewValidationRejectedError("unknown granularity %d", request.Granularity)
	}
	if request.Future != nil {
		if !request.Future.IsValid() {
			return nil, nil, errors.NewValidationRejectedError("unknown future period %d", *request.Future)
		}
		if request.Future.Granularity() != request.Granularity {
			return nil, nil, errors.NewValidationRejectedError("%v polls cannot start %v", request.Granularity, *request.Future)
		}
	}
	return request, nil, nil
}

// AggregateCreatePolls registers every poll of the batch. A failed poll only fails its own entry.
func (a *PollApp) AggregateCreatePolls(_ context.Context, entries []*batch.Entry[*cache.CreatePollRequest, *cache.CreatePollResponse]) error {
	for _, entry := range entries {
		response, err := a.cache.CreatePoll(entry.Input)
		if err != nil {
			a.logger.Warn("Failed to create poll.",
				tag.Timezone(entry.Input.Timezone), tag.LocationID(entry.Input.LocationID), tag.Error(err))
		}
		entry.Complete(response, err)
	}
	return nil
}

// ValidateVote checks the shape of a vote. Whether the direction exists on
// the poll is only known to the cache.
func (a *PollApp) ValidateVote(_ context.Context, request *cache.VoteRequest) (*cache.VoteRequest, *cache.VoteResponse, error) {
	if request == nil {
		return nil, nil, errors.NewValidationRejectedError("request is not set")
	}
	if err := validateTimezone(request.Timezone); err != nil {
		return nil, nil, err
	}
	if !request.Direction.IsValidFor(types.ThreeD) {
		return nil, nil, errors.NewValidationRejectedError("direction must be below %d, got %d", types.ThreeD.Directions(), request.Direction)
	}
	if request.Weight == 0 {
		return nil, nil, errors.NewValidationRejectedError("weight must be positive")
	}
	return request, nil, nil
}

// AggregateVotes applies every vote of the batch in order. A failed vote only fails its own entry.
func (a *PollApp) AggregateVotes(_ context.Context, entries []*batch.Entry[*cache.VoteRequest, *cache.VoteResponse]) error {
	for _, entry := range entries {
		response, err := a.cache.RecordVote(entry.Input)
		if err != nil && !errors.IsNotFoundErrorType(err) {
			a.logger.Warn("Failed to record vote.",
				tag.Timezone(entry.Input.Timezone), tag.PollID(entry.Input.PollID), tag.Error(err))
		}
		entry.Complete(response, err)
	}
	return nil
}

func validateTimezone(tz types.TimezoneID) error {
	if !tz.IsValid() || tz.IsGlobal() {
		return errors.NewValidationRejectedError("unknown timezone %d", tz)
	}
	return nil
}
