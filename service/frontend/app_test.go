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
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/votecube/pollcache/common/clock"
	"github.com/votecube/pollcache/common/config"
	"github.com/votecube/pollcache/common/errors"
	"github.com/votecube/pollcache/common/log/testlogger"
	"github.com/votecube/pollcache/common/metrics"
	"github.com/votecube/pollcache/common/types"
	"github.com/votecube/pollcache/service/batch"
	"github.com/votecube/pollcache/service/cache"
)

type appSuite struct {
	suite.Suite
	*require.Assertions

	timeSource clock.MockedTimeSource
	cache      cache.Cache
	app        *PollApp
}

func TestAppSuite(t *testing.T) {
	suite.Run(t, new(appSuite))
}

func (s *appSuite) SetupTest() {
	s.Assertions = require.New(s.T())
	s.timeSource = clock.NewMockedTimeSourceAt(time.Date(2024, time.March, 14, 12, 0, 0, 0, time.UTC))
	s.cache = cache.New(
		config.Cache{IndexInitialCapacity: 8, LeaderboardSize: 10, PendingPageSize: 4},
		s.timeSource,
		testlogger.New(s.T()),
		metrics.NewNoopClient(),
	)
	s.app = NewPollApp(s.cache, testlogger.New(s.T()))
}

func (s *appSuite) TestValidateCreatePoll() {
	tomorrow := types.FutureTomorrow
	nextWeek := types.FutureNextWeek
	valid := cache.CreatePollRequest{
		Timezone:       types.TimezoneUTC,
		Dimensionality: types.TwoD,
		Granularity:    types.GranularityDay,
		LocationID:     1,
	}

	for name, tc := range map[string]struct {
		mutate func(r *cache.CreatePollRequest)
		valid  bool
	}{
		"valid":                  {mutate: func(*cache.CreatePollRequest) {}, valid: true},
		"valid future":           {mutate: func(r *cache.CreatePollRequest) { r.Future = &tomorrow }, valid: true},
		"global timezone":        {mutate: func(r *cache.CreatePollRequest) { r.Timezone = types.TimezoneGlobal }},
		"unknown timezone":       {mutate: func(r *cache.CreatePollRequest) { r.Timezone = 60 }},
		"zero dimensionality":    {mutate: func(r *cache.CreatePollRequest) { r.Dimensionality = 0 }},
		"unknown granularity":    {mutate: func(r *cache.CreatePollRequest) { r.Granularity = 5 }},
		"mismatched future week": {mutate: func(r *cache.CreatePollRequest) { r.Future = &nextWeek }},
	} {
		s.Run(name, func() {
			request := valid
			tc.mutate(&request)
			input, rejection, err := s.app.ValidateCreatePoll(context.Background(), &request)
			s.Nil(rejection)
			if tc.valid {
				s.NoError(err)
				s.Equal(&request, input)
				return
			}
			s.True(errors.IsValidationRejectedErrorType(err), "%v", err)
		})
	}

	_, _, err := s.app.ValidateCreatePoll(context.Background(), nil)
	s.True(errors.IsValidationRejectedErrorType(err))
}

func (s *appSuite) TestValidateVote() {
	for name, tc := range map[string]struct {
		request *cache.VoteRequest
		valid   bool
	}{
		"valid":             {request: &cache.VoteRequest{Timezone: types.TimezoneUTC, PollID: 1, Direction: 5, Weight: 1}, valid: true},
		"nil":               {},
		"global timezone":   {request: &cache.VoteRequest{Timezone: types.TimezoneGlobal, PollID: 1, Weight: 1}},
		"direction too big": {request: &cache.VoteRequest{Timezone: types.TimezoneUTC, PollID: 1, Direction: 6, Weight: 1}},
		"zero weight":       {request: &cache.VoteRequest{Timezone: types.TimezoneUTC, PollID: 1}},
	} {
		s.Run(name, func() {
			_, _, err := s.app.ValidateVote(context.Background(), tc.request)
			if tc.valid {
				s.NoError(err)
				return
			}
			s.True(errors.IsValidationRejectedErrorType(err), "%v", err)
		})
	}
}

func (s *appSuite) TestAggregateCreatePollsKeepsFailuresLocal() {
	badFuture := types.FutureNextMonth
	entries := []*batch.Entry[*cache.CreatePollRequest, *cache.CreatePollResponse]{
		{Input: &cache.CreatePollRequest{Timezone: types.TimezoneUTC, Dimensionality: types.OneD, Granularity: types.GranularityDay, LocationID: 1}},
		{Input: &cache.CreatePollRequest{Timezone: types.TimezoneUTC, Dimensionality: types.OneD, Granularity: types.GranularityDay, Future: &badFuture, LocationID: 1}},
		{Input: &cache.CreatePollRequest{Timezone: types.TimezoneUTC, Dimensionality: types.ThreeD, Granularity: types.GranularityWeek, LocationID: 2, CategoryID: 3}},
	}
	s.NoError(s.app.AggregateCreatePolls(context.Background(), entries))

	first, err := entries[0].Result()
	s.NoError(err)
	s.Equal(types.PollID(1), first.PollID)

	_, err = entries[1].Result()
	s.True(errors.IsBadRequestErrorType(err))

	third, err := entries[2].Result()
	s.NoError(err)
	s.True(third.PollID > first.PollID)

	read, err := s.cache.ReadPoll(types.TimezoneUTC, third.PollID)
	s.NoError(err)
	s.Equal(types.PeriodThisWeek, read.Period)
}

func (s *appSuite) TestAggregateVotesInOrder() {
	created, err := s.cache.CreatePoll(&cache.CreatePollRequest{
		Timezone:       types.TimezoneUTC,
		Dimensionality: types.OneD,
		Granularity:    types.GranularityDay,
		LocationID:     1,
	})
	s.NoError(err)

	entries := []*batch.Entry[*cache.VoteRequest, *cache.VoteResponse]{
		{Input: &cache.VoteRequest{Timezone: types.TimezoneUTC, PollID: created.PollID, Direction: 0, Weight: 3}},
		{Input: &cache.VoteRequest{Timezone: types.TimezoneUTC, PollID: 999, Direction: 0, Weight: 1}},
		{Input: &cache.VoteRequest{Timezone: types.TimezoneUTC, PollID: created.PollID, Direction: 3, Weight: 1}},
		{Input: &cache.VoteRequest{Timezone: types.TimezoneUTC, PollID: created.PollID, Direction: 1, Weight: 2}},
	}
	s.NoError(s.app.AggregateVotes(context.Background(), entries))

	first, err := entries[0].Result()
	s.NoError(err)
	s.Equal(uint32(1), first.VoteCount.Count)

	_, err = entries[1].Result()
	s.True(errors.IsNotFoundErrorType(err))

	// a one dimensional poll has two directions
	_, err = entries[2].Result()
	s.True(errors.IsBadRequestErrorType(err))

	last, err := entries[3].Result()
	s.NoError(err)
	s.Equal(uint32(2), last.VoteCount.Count)
	s.Equal(types.PeriodToday, last.Period)

	read, err := s.cache.ReadPoll(types.TimezoneUTC, created.PollID)
	s.NoError(err)
	s.Equal([]uint64{3, 2}, read.Snapshot.Totals())
}

func (s *appSuite) TestDispatchersResolveThroughTheCache() {
	cfg := config.Dispatcher{DrainInterval: time.Second, BufferCapacity: 8, ShutdownTimeout: 5 * time.Second}
	polls := NewCreatePollDispatcher(s.app, s.timeSource, cfg, testlogger.New(s.T()), metrics.NewNoopClient())
	votes := NewVoteDispatcher(s.app, s.timeSource, cfg, testlogger.New(s.T()), metrics.NewNoopClient())
	polls.Start()
	votes.Start()
	defer polls.Stop()
	defer votes.Stop()

	created := make(chan *cache.CreatePollResponse, 1)
	go func() {
		response, err := polls.Resolve(context.Background(), &cache.CreatePollRequest{
			Timezone:       types.TimezoneUTC,
			Dimensionality: types.OneD,
			Granularity:    types.GranularityDay,
			LocationID:     5,
		})
		s.NoError(err)
		created <- response
	}()
	s.Eventually(func() bool { return polls.State() == batch.StateAccumulating }, time.Second, time.Millisecond)

	// both drain loops wait on the same mocked clock
	s.timeSource.BlockUntil(2)
	s.timeSource.Advance(time.Second)

	var response *cache.CreatePollResponse
	select {
	case response = <-created:
	case <-time.After(5 * time.Second):
		s.FailNow("poll was not created")
	}
	s.Equal(types.PollID(1), response.PollID)

	// rejected at intake without waiting for a drain
	_, err := votes.Resolve(context.Background(), &cache.VoteRequest{Timezone: types.TimezoneUTC, PollID: response.PollID})
	s.True(errors.IsValidationRejectedErrorType(err))
}
