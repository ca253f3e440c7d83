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

import "github.com/votecube/pollcache/common/types"

// PeriodMaps holds the location and category index maps of every ranked period
// of one timezone (or of the global partition)
type PeriodMaps struct {
	capacity   int
	locations  [types.NumPeriods]*LocationMap
	categories [types.NumPeriods]*Map[types.CategoryID, types.CategoryCacheIndex]
}

// NewPeriodMaps creates empty maps for every period
func NewPeriodMaps(capacity int) *PeriodMaps {
	p := &PeriodMaps{capacity: capacity}
	for period := types.Period(0); period < types.NumPeriods; period++ {
		p.Forget(period)
	}
	return p
}

// Locate returns the LocationPeriodIDs of a location within the period, creating them on first reference
func (p *PeriodMaps) Locate(period types.Period, id types.LocationID) (*LocationPeriodIDs, bool) {
	return p.locations[period].Locate(id)
}

// Lookup returns the LocationPeriodIDs of a location within the period
func (p *PeriodMaps) Lookup(period types.Period, id types.LocationID) (*LocationPeriodIDs, bool) {
	return p.locations[period].Lookup(id)
}

// LocateCategory returns the row of a category within the period, assigning one on first reference
func (p *PeriodMaps) LocateCategory(period types.Period, id types.CategoryID) (types.CategoryCacheIndex, bool) {
	return p.categories[period].Locate(id)
}

// LookupCategory returns the row of a category within the period
func (p *PeriodMaps) LookupCategory(period types.Period, id types.CategoryID) (types.CategoryCacheIndex, bool) {
	return p.categories[period].Lookup(id)
}

// Locations returns the location map of the period
func (p *PeriodMaps) Locations(period types.Period) *LocationMap {
	return p.locations[period]
}

// NumCategories returns the number of categories referenced within the period
func (p *PeriodMaps) NumCategories(period types.Period) int {
	return p.categories[period].Len()
}

// Forget discards every mapping of the period. Indices handed out before
// must not be used against the fresh maps.
func (p *PeriodMaps) Forget(period types.Period) {
	p.locations[period] = NewLocationMap(p.capacity)
	p.categories[period] = NewMap[types.CategoryID, types.CategoryCacheIndex](p.capacity)
}

// Rearranged returns new PeriodMaps where each period takes over the maps of the
// period reported by origin, or starts empty when origin reports none.
// The receiver is left untouched.
func (p *PeriodMaps) Rearranged(origin func(types.Period) (types.Period, bool)) *PeriodMaps {
	next := &PeriodMaps{capacity: p.capacity}
	for period := types.Period(0); period < types.NumPeriods; period++ {
		from, ok := origin(period)
		if !ok {
			next.Forget(period)
			continue
		}
		next.locations[period] = p.locations[from]
		next.categories[period] = p.categories[from]
	}
	return next
}
