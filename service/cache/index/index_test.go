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

package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/votecube/pollcache/common/types"
)

func TestMapLocate(t *testing.T) {
	m := NewMap[types.CategoryID, types.CategoryCacheIndex](4)

	first, created := m.Locate(500)
	assert.True(t, created)
	assert.Equal(t, types.CategoryCacheIndex(0), first)

	second, created := m.Locate(7)
	assert.True(t, created)
	assert.Equal(t, types.CategoryCacheIndex(1), second)

	again, created := m.Locate(500)
	assert.False(t, created)
	assert.Equal(t, first, again)

	_, ok := m.Lookup(8)
	assert.False(t, ok)
	assert.Equal(t, 2, m.Len())
}

func TestLocationMap(t *testing.T) {
	m := NewLocationMap(2)

	loc, created := m.Locate(1001)
	require.True(t, created)
	assert.Equal(t, types.LocationCacheIndex(0), loc.LocationIndex)

	col, created := loc.LocateCategory(42)
	assert.True(t, created)
	assert.Equal(t, types.LocationCategoryCacheIndex(0), col)
	col, created = loc.LocateCategory(43)
	assert.True(t, created)
	assert.Equal(t, types.LocationCategoryCacheIndex(1), col)

	other, created := m.Locate(1002)
	require.True(t, created)
	assert.Equal(t, types.LocationCacheIndex(1), other.LocationIndex)
	col, _ = other.LocateCategory(43)
	assert.Equal(t, types.LocationCategoryCacheIndex(0), col, "category columns are per location")

	found, ok := m.Lookup(1001)
	require.True(t, ok)
	assert.Same(t, loc, found)
	assert.Equal(t, 2, found.NumCategories())
	_, ok = found.LookupCategory(44)
	assert.False(t, ok)
	assert.Equal(t, 2, m.Len())
}

func TestPeriodMapsStableWithinBucket(t *testing.T) {
	maps := NewPeriodMaps(16)

	for i := 0; i < 100; i++ {
		id := types.LocationID(i * 31)
		first, _ := maps.Locate(types.PeriodToday, id)
		for j := 0; j < 3; j++ {
			again, created := maps.Locate(types.PeriodToday, id)
			assert.False(t, created)
			assert.Equal(t, first.LocationIndex, again.LocationIndex)
		}
	}
	assert.Equal(t, 100, maps.Locations(types.PeriodToday).Len())
	assert.Equal(t, 0, maps.Locations(types.PeriodYesterday).Len())
}

func TestPeriodMapsForget(t *testing.T) {
	maps := NewPeriodMaps(16)

	before, _ := maps.Locate(types.PeriodThisWeek, 77)
	maps.Locate(types.PeriodThisWeek, 78)
	categoryBefore, _ := maps.LocateCategory(types.PeriodThisWeek, 5)

	maps.Forget(types.PeriodThisWeek)
	_, ok := maps.Lookup(types.PeriodThisWeek, 77)
	assert.False(t, ok)
	_, ok = maps.LookupCategory(types.PeriodThisWeek, 5)
	assert.False(t, ok)

	// a fresh index may collide numerically but belongs to a different bucket
	after, created := maps.Locate(types.PeriodThisWeek, 78)
	assert.True(t, created)
	assert.Equal(t, before.LocationIndex, after.LocationIndex)
	assert.NotSame(t, before, after)
	categoryAfter, created := maps.LocateCategory(types.PeriodThisWeek, 6)
	assert.True(t, created)
	assert.Equal(t, categoryBefore, categoryAfter)
}

func TestPeriodMapsRearranged(t *testing.T) {
	maps := NewPeriodMaps(16)
	today, _ := maps.Locate(types.PeriodToday, 1)
	maps.Locate(types.PeriodDayBeforeYesterday, 2)
	maps.LocateCategory(types.PeriodToday, 9)
	week, _ := maps.Locate(types.PeriodThisWeek, 3)

	// a day boundary: today moves to yesterday, the week stays
	next := maps.Rearranged(func(p types.Period) (types.Period, bool) {
		switch p {
		case types.PeriodYesterday:
			return types.PeriodToday, true
		case types.PeriodDayBeforeYesterday:
			return types.PeriodYesterday, true
		case types.PeriodToday:
			return 0, false
		}
		return p, true
	})

	moved, ok := next.Lookup(types.PeriodYesterday, 1)
	require.True(t, ok)
	assert.Same(t, today, moved)
	_, ok = next.LookupCategory(types.PeriodYesterday, 9)
	assert.True(t, ok)
	_, ok = next.Lookup(types.PeriodToday, 1)
	assert.False(t, ok)
	_, ok = next.Lookup(types.PeriodDayBeforeYesterday, 2)
	assert.False(t, ok, "the oldest day rotated out")
	kept, ok := next.Lookup(types.PeriodThisWeek, 3)
	require.True(t, ok)
	assert.Same(t, week, kept)

	// the source is untouched
	_, ok = maps.Lookup(types.PeriodToday, 1)
	assert.True(t, ok)
	assert.Equal(t, 1, next.NumCategories(types.PeriodYesterday))
}
