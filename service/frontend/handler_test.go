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
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/time/rate"

	"github.com/votecube/pollcache/common/clock"
	"github.com/votecube/pollcache/common/config"
	"github.com/votecube/pollcache/common/errors"
	"github.com/votecube/pollcache/common/log/testlogger"
	"github.com/votecube/pollcache/common/metrics"
	"github.com/votecube/pollcache/common/types"
	"github.com/votecube/pollcache/service/cache"
	"github.com/votecube/pollcache/service/cache/pending"
	"github.com/votecube/pollcache/service/cache/polls"
)

type (
	handlerSuite struct {
		suite.Suite
		*require.Assertions

		controller  *gomock.Controller
		mockCache   *cache.MockCache
		createPolls resolverFunc[*cache.CreatePollRequest, *cache.CreatePollResponse]
		votes       resolverFunc[*cache.VoteRequest, *cache.VoteResponse]
		limiter     clock.Ratelimiter
		mux         *http.ServeMux
	}

	resolverFunc[Req, Out any] func(ctx context.Context, request Req) (Out, error)
)

func (f resolverFunc[Req, Out]) Resolve(ctx context.Context, request Req) (Out, error) {
	return f(ctx, request)
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(handlerSuite))
}

func (s *handlerSuite) SetupTest() {
	s.Assertions = require.New(s.T())
	s.controller = gomock.NewController(s.T())
	s.mockCache = cache.NewMockCache(s.controller)
	s.createPolls = func(context.Context, *cache.CreatePollRequest) (*cache.CreatePollResponse, error) {
		s.FailNow("unexpected create poll")
		return nil, nil
	}
	s.votes = func(context.Context, *cache.VoteRequest) (*cache.VoteResponse, error) {
		s.FailNow("unexpected vote")
		return nil, nil
	}
	s.limiter = nil
	s.mux = nil
}

func (s *handlerSuite) TearDownTest() {
	s.controller.Finish()
}

func (s *handlerSuite) serve(method, target, body string) *httptest.ResponseRecorder {
	if s.mux == nil {
		handler := NewHandler(
			s.mockCache,
			s.createPolls,
			s.votes,
			s.limiter,
			config.Frontend{MaxRankingSize: 5},
			testlogger.New(s.T()),
			metrics.NewNoopClient(),
		)
		s.mux = http.NewServeMux()
		handler.RegisterRoutes(s.mux)
	}
	recorder := httptest.NewRecorder()
	s.mux.ServeHTTP(recorder, httptest.NewRequest(method, target, strings.NewReader(body)))
	return recorder
}

func (s *handlerSuite) decode(recorder *httptest.ResponseRecorder, into interface{}) {
	s.Equal("application/json", recorder.Header().Get("Content-Type"))
	s.NoError(json.Unmarshal(recorder.Body.Bytes(), into))
}

func (s *handlerSuite) TestCreatePoll() {
	s.createPolls = func(_ context.Context, request *cache.CreatePollRequest) (*cache.CreatePollResponse, error) {
		s.Equal(types.TimezoneUTC, request.Timezone)
		s.Equal(types.TwoD, request.Dimensionality)
		s.Equal(types.GranularityWeek, request.Granularity)
		s.Require().NotNil(request.Future)
		s.Equal(types.FutureNextWeek, *request.Future)
		s.Equal(types.LocationID(12), request.LocationID)
		s.Equal(types.CategoryID(4), request.CategoryID)
		return &cache.CreatePollResponse{PollID: 77, PeriodID: 2829}, nil
	}
	s.mockCache.EXPECT().IsRotating(types.TimezoneUTC).Return(false)

	recorder := s.serve(http.MethodPost, "/polls",
		`{"timezone": 14, "dimensionality": 2, "granularity": "week", "future": "next-week", "locationId": 12, "categoryId": 4}`)
	s.Equal(http.StatusOK, recorder.Code)
	s.Empty(recorder.Header().Get(RotationHeader))

	var response createPollResponse
	s.decode(recorder, &response)
	s.Equal(createPollResponse{PollID: 77, PeriodID: 2829}, response)
}

func (s *handlerSuite) TestCreatePollMalformed() {
	for name, body := range map[string]string{
		"not json":             `{"timezone":`,
		"missing location":     `{"timezone": 14, "dimensionality": 1, "granularity": "day"}`,
		"unknown granularity":  `{"timezone": 14, "dimensionality": 1, "granularity": "year", "locationId": 1}`,
		"timezone too big":     `{"timezone": 99, "dimensionality": 1, "granularity": "day", "locationId": 1}`,
		"timezone past global": `{"timezone": 39, "dimensionality": 1, "granularity": "day", "locationId": 1}`,
		"negative location":    `{"timezone": 14, "dimensionality": 1, "granularity": "day", "locationId": -1}`,
	} {
		s.Run(name, func() {
			recorder := s.serve(http.MethodPost, "/polls", body)
			s.Equal(http.StatusBadRequest, recorder.Code)
		})
	}
}

func (s *handlerSuite) TestVoteErrorsMapToStatusCodes() {
	for name, tc := range map[string]struct {
		err    error
		status int
	}{
		"rejected":     {err: errors.NewValidationRejectedError("weight must be positive"), status: http.StatusBadRequest},
		"direction":    {err: errors.NewInvalidDirectionError(1, 4, types.OneD), status: http.StatusBadRequest},
		"unknown poll": {err: errors.NewUnknownPollError(types.TimezoneUTC, 1), status: http.StatusNotFound},
		"retryable":    {err: errors.NewAggregationFailureError("batch aggregation failed", true, context.Canceled), status: http.StatusServiceUnavailable},
		"stopped":      {err: errors.ErrDispatcherStopped, status: http.StatusServiceUnavailable},
		"no result":    {err: errors.NewAggregationFailureError("no result", false, nil), status: http.StatusInternalServerError},
	} {
		s.Run(name, func() {
			s.votes = func(context.Context, *cache.VoteRequest) (*cache.VoteResponse, error) {
				return nil, tc.err
			}
			s.mux = nil
			s.mockCache.EXPECT().IsRotating(types.TimezoneUTC).Return(false)

			recorder := s.serve(http.MethodPost, "/votes", `{"timezone": 14, "pollId": 1, "direction": 0, "weight": 1}`)
			s.Equal(tc.status, recorder.Code)

			var response errorResponse
			s.decode(recorder, &response)
			s.Equal(tc.err.Error(), response.Message)
		})
	}
}

func (s *handlerSuite) TestVoteTimezoneOutOfRange() {
	// the cache is never asked about the partition
	for _, body := range []string{
		`{"timezone": 39, "pollId": 1, "direction": 0, "weight": 1}`,
		`{"timezone": 256, "pollId": 1, "direction": 0, "weight": 1}`,
	} {
		recorder := s.serve(http.MethodPost, "/votes", body)
		s.Equal(http.StatusBadRequest, recorder.Code)

		var response errorResponse
		s.decode(recorder, &response)
		s.Contains(response.Message, "invalid timezone")
	}
}

func (s *handlerSuite) TestVote() {
	s.votes = func(_ context.Context, request *cache.VoteRequest) (*cache.VoteResponse, error) {
		s.Equal(&cache.VoteRequest{Timezone: types.TimezoneUTCPlus0530, PollID: 9, Direction: 3, Weight: 250}, request)
		return &cache.VoteResponse{
			VoteCount: types.VoteCount{
				PollTypeAndTimezone: types.NewPollTypeAndTimezone(types.TimezoneUTCPlus0530, types.TwoD),
				PollID:              9,
				Count:               41,
			},
			Period: types.PeriodToday,
		}, nil
	}
	s.mockCache.EXPECT().IsRotating(types.TimezoneUTCPlus0530).Return(true)

	recorder := s.serve(http.MethodPost, "/votes", `{"timezone": 22, "pollId": 9, "direction": 3, "weight": 250}`)
	s.Equal(http.StatusOK, recorder.Code)
	s.Equal("true", recorder.Header().Get(RotationHeader))

	var response voteResponse
	s.decode(recorder, &response)
	s.Equal(types.PollID(9), response.PollID)
	s.Equal(uint32(41), response.Count)
	s.Equal(uint8(types.TwoD), response.Dimensionality)
	s.Equal(uint8(types.TimezoneUTCPlus0530), response.Timezone)
	s.Equal("today", response.Period)
}

func (s *handlerSuite) TestRankings() {
	board := []types.VoteCount{
		{PollTypeAndTimezone: types.NewPollTypeAndTimezone(types.TimezoneUTC, types.OneD), PollID: 3, Count: 10},
		{PollTypeAndTimezone: types.NewPollTypeAndTimezone(types.TimezoneUTC, types.OneD), PollID: 1, Count: 4},
	}
	s.mockCache.EXPECT().IsRotating(gomock.Any()).Return(false).AnyTimes()
	s.mockCache.EXPECT().TopByLocation(types.TimezoneUTC, types.PeriodYesterday, types.LocationID(8), 2).Return(board, nil)
	s.mockCache.EXPECT().TopByLocationCategory(types.TimezoneUTC, types.PeriodToday, types.LocationID(8), types.CategoryID(2), 5).Return(board[:1], nil)
	s.mockCache.EXPECT().TopByCategory(types.TimezoneGlobal, types.PeriodThisMonth, types.CategoryID(2), 5).Return(nil, nil)

	var response rankingsResponse
	recorder := s.serve(http.MethodGet, "/rankings/location?tz=14&period=yesterday&location=8&n=2", "")
	s.Equal(http.StatusOK, recorder.Code)
	s.decode(recorder, &response)
	s.Len(response.Rankings, 2)
	s.Equal(types.PollID(3), response.Rankings[0].PollID)
	s.Equal(uint32(4), response.Rankings[1].Count)

	// n above the configured maximum is clamped
	recorder = s.serve(http.MethodGet, "/rankings/location-category?tz=14&location=8&category=2&n=50", "")
	s.Equal(http.StatusOK, recorder.Code)
	s.decode(recorder, &response)
	s.Len(response.Rankings, 1)

	recorder = s.serve(http.MethodGet, "/rankings/category?tz=global&period=this-month&category=2", "")
	s.Equal(http.StatusOK, recorder.Code)
	s.decode(recorder, &response)
	s.NotNil(response.Rankings)
	s.Empty(response.Rankings)
}

func (s *handlerSuite) TestRankingsBadQueries() {
	s.mockCache.EXPECT().IsRotating(gomock.Any()).Return(false).AnyTimes()
	s.mockCache.EXPECT().TopByLocation(types.TimezoneUTC, types.PeriodToday, types.LocationID(8), 5).
		Return(nil, errors.NewUnknownLocationError(types.TimezoneUTC, types.PeriodToday, 8))

	for target, status := range map[string]int{
		"/rankings/location?tz=global&location=8":       http.StatusBadRequest,
		"/rankings/location?tz=14":                      http.StatusBadRequest,
		"/rankings/location?tz=14&location=8&period=xx": http.StatusBadRequest,
		"/rankings/category?tz=40&category=1":           http.StatusBadRequest,
		"/rankings/location?tz=14&location=8":           http.StatusNotFound,
	} {
		recorder := s.serve(http.MethodGet, target, "")
		s.Equal(status, recorder.Code, target)
	}
}

func (s *handlerSuite) TestReadPoll() {
	s.mockCache.EXPECT().IsRotating(types.TimezoneUTC).Return(false).Times(2)
	s.mockCache.EXPECT().ReadPoll(types.TimezoneUTC, types.PollID(5)).Return(&cache.ReadPollResponse{
		Period:   types.PeriodThisWeek,
		Snapshot: pollsSnapshot(types.PollID(5), 6),
	}, nil)
	s.mockCache.EXPECT().ReadPoll(types.TimezoneUTC, types.PollID(6)).Return(nil, errors.NewUnknownPollError(types.TimezoneUTC, 6))

	recorder := s.serve(http.MethodGet, "/polls/14/5", "")
	s.Equal(http.StatusOK, recorder.Code)
	var response pollResponse
	s.decode(recorder, &response)
	s.Equal("this-week", response.Period)
	s.Equal(uint8(types.OneD), response.Dimensionality)
	s.Equal(uint32(6), response.Count)
	s.Equal([]uint64{1<<32 + 2, 4}, response.Totals)
	s.Equal(types.LocationID(8), response.LocationID)

	s.Equal(http.StatusNotFound, s.serve(http.MethodGet, "/polls/14/6", "").Code)
	s.Equal(http.StatusBadRequest, s.serve(http.MethodGet, "/polls/38/6", "").Code)
	s.Equal(http.StatusBadRequest, s.serve(http.MethodGet, "/polls/14/abc", "").Code)
}

func (s *handlerSuite) TestPending() {
	pages := pending.NewPages(2)
	for _, id := range []types.PollID{1, 2, 300} {
		pages.Append(id)
	}
	itr, err := pages.PagesSince(1)
	s.NoError(err)

	s.mockCache.EXPECT().IsRotating(types.TimezoneUTC).Return(false)
	s.mockCache.EXPECT().PendingSince(types.TimezoneUTC, types.FutureTomorrow, types.LocationID(8), types.NoCategory, pending.Cursor(1)).
		Return(itr, nil)

	recorder := s.serve(http.MethodGet, "/pending?tz=14&period=tomorrow&location=8&cursor=1", "")
	s.Equal(http.StatusOK, recorder.Code)

	var response pendingResponse
	s.decode(recorder, &response)
	s.Equal(pending.Cursor(3), response.Next)
	s.Len(response.Pages, 2)
	s.Equal([]types.PollID{2}, response.Pages[0].IDs)
	s.True(response.Pages[0].Sealed)
	s.Equal([]types.PollID{300}, response.Pages[1].IDs)
	s.False(response.Pages[1].Sealed)
	s.Equal(uint8(2), response.Pages[1].ByteWidth)

	encoded, err := base64.StdEncoding.DecodeString(response.Pages[1].Encoded)
	s.NoError(err)
	ids, ok := pending.DecodePage(encoded)
	s.True(ok)
	s.Equal([]types.PollID{300}, ids)
}

func (s *handlerSuite) TestPendingBadCursor() {
	s.mockCache.EXPECT().IsRotating(types.TimezoneUTC).Return(false)
	s.mockCache.EXPECT().PendingSince(types.TimezoneUTC, types.FutureNextMonth, types.LocationID(8), types.CategoryID(3), pending.Cursor(10)).
		Return(nil, errors.NewInvalidArgumentError("cursor %d is beyond the end of the list (0)", 10))

	recorder := s.serve(http.MethodGet, "/pending?tz=14&period=next-month&location=8&category=3&cursor=10", "")
	s.Equal(http.StatusBadRequest, recorder.Code)

	recorder = s.serve(http.MethodGet, "/pending?tz=14&period=last-month&location=8", "")
	s.Equal(http.StatusBadRequest, recorder.Code)
}

func (s *handlerSuite) TestRateLimited() {
	timeSource := clock.NewMockedTimeSourceAt(time.Date(2024, time.March, 14, 12, 0, 0, 0, time.UTC))
	s.limiter = clock.NewMockRatelimiter(timeSource, rate.Limit(1), 1)
	s.mockCache.EXPECT().IsRotating(types.TimezoneUTC).Return(false).Times(2)
	s.mockCache.EXPECT().TopByCategory(types.TimezoneUTC, types.PeriodToday, types.CategoryID(1), 5).Return(nil, nil).Times(2)

	target := "/rankings/category?tz=14&category=1"
	s.Equal(http.StatusOK, s.serve(http.MethodGet, target, "").Code)

	recorder := s.serve(http.MethodGet, target, "")
	s.Equal(http.StatusTooManyRequests, recorder.Code)
	var response errorResponse
	s.decode(recorder, &response)
	s.True(response.Retryable)

	timeSource.Advance(time.Second)
	s.Equal(http.StatusOK, s.serve(http.MethodGet, target, "").Code)
}

func (s *handlerSuite) TestUnknownRoutes() {
	s.Equal(http.StatusNotFound, s.serve(http.MethodGet, "/nothing", "").Code)
	s.Equal(http.StatusMethodNotAllowed, s.serve(http.MethodGet, "/votes", "").Code)
}

func pollsSnapshot(id types.PollID, count uint32) polls.Snapshot {
	return polls.Snapshot{
		Placement: polls.Placement{LocationID: 8},
		VoteCount: types.VoteCount{
			PollTypeAndTimezone: types.NewPollTypeAndTimezone(types.TimezoneUTC, types.OneD),
			PollID:              id,
			Count:               count,
		},
		Sums:      []uint32{2, 4},
		Overflows: []uint8{1, 0},
	}
}
