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
	"sync"

	"go.uber.org/atomic"

	"github.com/votecube/pollcache/common/types"
	"github.com/votecube/pollcache/service/cache/index"
	"github.com/votecube/pollcache/service/cache/pending"
	"github.com/votecube/pollcache/service/cache/polls"
	"github.com/votecube/pollcache/service/cache/ranking"
)

// periods in which polls take votes, one per granularity
var activePeriods = [types.NumGranularities]types.Period{
	types.PeriodToday,
	types.PeriodThisWeek,
	types.PeriodThisMonth,
}

type (
	// bucket is everything one ranked period of one timezone holds
	bucket struct {
		key                      types.PeriodKey
		polls                    *polls.Store
		locationRankings         *ranking.Table[types.LocationCacheIndex]
		locationCategoryRankings *ranking.Nested[types.LocationCacheIndex, types.LocationCategoryCacheIndex]
		categoryRankings         *ranking.Table[types.CategoryCacheIndex]
	}

	// futurePoll is enough of a poll to register it once its period becomes active
	futurePoll struct {
		id             types.PollID
		dimensionality types.Dimensionality
		location       types.LocationID
		category       types.CategoryID
	}

	// futureBucket collects polls created ahead of their period
	futureBucket struct {
		key   types.PeriodKey
		lists *pending.Lists
		polls []futurePoll
	}

	// partition is the state of one timezone, or of the global category partition.
	// rotateMu serializes rotations, mu guards everything below it.
	partition struct {
		timezone types.TimezoneID
		rotateMu sync.Mutex
		rotating atomic.Bool

		mu      sync.RWMutex
		ids     types.CachePeriodIDs
		indices *index.PeriodMaps
		buckets [types.NumPeriods]*bucket
		future  [types.NumFuturePeriods]*futureBucket
	}
)

func (c *cacheImpl) newBucket(tz types.TimezoneID, key types.PeriodKey) *bucket {
	size := c.config.LeaderboardSize
	return &bucket{
		key:                      key,
		polls:                    polls.NewStore(tz, c.config.IndexInitialCapacity),
		locationRankings:         ranking.NewTable[types.LocationCacheIndex](size),
		locationCategoryRankings: ranking.NewNested[types.LocationCacheIndex, types.LocationCategoryCacheIndex](size),
		categoryRankings:         ranking.NewTable[types.CategoryCacheIndex](size),
	}
}

func (c *cacheImpl) newFutureBucket(key types.PeriodKey) *futureBucket {
	return &futureBucket{
		key:   key,
		lists: pending.NewLists(c.config.PendingPageSize),
	}
}

func (c *cacheImpl) newPartition(tz types.TimezoneID, ids types.CachePeriodIDs) *partition {
	p := &partition{
		timezone: tz,
		ids:      ids,
		indices:  index.NewPeriodMaps(c.config.IndexInitialCapacity),
	}
	for period := types.Period(0); period < types.NumPeriods; period++ {
		p.buckets[period] = c.newBucket(tz, ids.Key(period))
	}
	if !tz.IsGlobal() {
		for period := types.FuturePeriod(0); period < types.NumFuturePeriods; period++ {
			p.future[period] = c.newFutureBucket(ids.FutureKey(period))
		}
	}
	return p
}

// place reserves the rows of location and category in the bucket of period.
// The caller holds the write lock.
func (p *partition) place(period types.Period, location types.LocationID, category types.CategoryID) polls.Placement {
	b := p.buckets[period]
	loc, _ := p.indices.Locate(period, location)
	b.locationRankings.Grow(int(loc.LocationIndex) + 1)

	placement := polls.Placement{
		LocationID:    location,
		CategoryID:    category,
		LocationIndex: loc.LocationIndex,
	}
	if category == types.NoCategory {
		return placement
	}

	placement.LocationCategoryIndex, _ = loc.LocateCategory(category)
	b.locationCategoryRankings.Row(loc.LocationIndex).Grow(int(placement.LocationCategoryIndex) + 1)
	placement.CategoryIndex, _ = p.indices.LocateCategory(period, category)
	b.categoryRankings.Grow(int(placement.CategoryIndex) + 1)
	return placement
}

// register creates the poll in the bucket of period. The caller holds the write lock.
func (p *partition) register(period types.Period, poll futurePoll) error {
	placement := p.place(period, poll.location, poll.category)
	_, err := p.buckets[period].polls.Create(poll.id, poll.dimensionality, placement)
	return err
}

// rank refreshes every leaderboard of the bucket that lists the poll.
// The caller holds the write lock.
func (b *bucket) rank(placement polls.Placement, vc types.VoteCount) {
	b.locationRankings.Update(placement.LocationIndex, vc)
	if placement.CategoryID == types.NoCategory {
		return
	}
	b.locationCategoryRankings.Update(placement.LocationIndex, placement.LocationCategoryIndex, vc)
	b.categoryRankings.Update(placement.CategoryIndex, vc)
}

// rankGlobally refreshes the category leaderboard of the global bucket at period.
// The caller holds the write lock of the global partition.
func (p *partition) rankGlobally(period types.Period, category types.CategoryID, vc types.VoteCount) {
	row, _ := p.indices.LocateCategory(period, category)
	b := p.buckets[period]
	b.categoryRankings.Update(row, vc)
}
