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

//go:generate mockgen -package $GOPACKAGE -source $GOFILE -destination interface_mock.go -self_package github.com/votecube/pollcache/service/cache

// Package cache is the in-memory ranking cache: per timezone period buckets
// of polls, leaderboards and pending lists, rotated as calendar periods turn over.
package cache

import (
	"github.com/votecube/pollcache/common/pagination"
	"github.com/votecube/pollcache/common/types"
	"github.com/votecube/pollcache/service/cache/pending"
	"github.com/votecube/pollcache/service/cache/polls"
)

type (
	// Cache is the aggregate root of the ranking cache
	Cache interface {
		// CreatePoll issues a new poll id and registers the poll in its timezone,
		// either in the active bucket of its granularity or in a future bucket
		CreatePoll(request *CreatePollRequest) (*CreatePollResponse, error)
		// RecordVote applies a vote to a poll of an active bucket and refreshes its leaderboards
		RecordVote(request *VoteRequest) (*VoteResponse, error)
		// ReadPoll returns a copy of a poll record from any ranked bucket of the timezone
		ReadPoll(tz types.TimezoneID, id types.PollID) (*ReadPollResponse, error)

		// TopByLocation returns the leaderboard of a location
		TopByLocation(tz types.TimezoneID, period types.Period, location types.LocationID, n int) ([]types.VoteCount, error)
		// TopByLocationCategory returns the leaderboard of a category within a location
		TopByLocationCategory(tz types.TimezoneID, period types.Period, location types.LocationID, category types.CategoryID, n int) ([]types.VoteCount, error)
		// TopByCategory returns the leaderboard of a category within a timezone,
		// or across all timezones for TimezoneGlobal
		TopByCategory(tz types.TimezoneID, period types.Period, category types.CategoryID, n int) ([]types.VoteCount, error)
		// PendingSince iterates the pages of polls created for a future period since cursor
		PendingSince(tz types.TimezoneID, period types.FuturePeriod, location types.LocationID, category types.CategoryID, cursor pending.Cursor) (pagination.Iterator, error)

		// Rotate moves the timezone to newIDs, the only way period buckets change identity
		Rotate(tz types.TimezoneID, newIDs types.CachePeriodIDs) error
		// PeriodIDs returns the period ids the timezone currently serves
		PeriodIDs(tz types.TimezoneID) (types.CachePeriodIDs, error)
		// IsRotating returns true while the timezone swaps its buckets, false for an unknown timezone
		IsRotating(tz types.TimezoneID) bool
		// RotationStatus returns a RotationInProgressError while the timezone swaps its buckets
		RotationStatus(tz types.TimezoneID) error
	}

	// CreatePollRequest describes a poll to register.
	// A nil Future registers the poll in the active bucket of Granularity.
	CreatePollRequest struct {
		Timezone       types.TimezoneID
		Dimensionality types.Dimensionality
		Granularity    types.Granularity
		Future         *types.FuturePeriod
		LocationID     types.LocationID
		CategoryID     types.CategoryID
	}

	// CreatePollResponse names the registered poll
	CreatePollResponse struct {
		PollID   types.PollID
		PeriodID int32
	}

	// VoteRequest is one vote of Weight in one Direction of a poll
	VoteRequest struct {
		Timezone  types.TimezoneID
		PollID    types.PollID
		Direction types.Direction
		Weight    uint32
	}

	// VoteResponse carries the ranking record of the poll after the vote
	VoteResponse struct {
		VoteCount types.VoteCount
		Period    types.Period
	}

	// ReadPollResponse is a copy of a poll record and the bucket it was found in
	ReadPollResponse struct {
		Period   types.Period
		Snapshot polls.Snapshot
	}
)
