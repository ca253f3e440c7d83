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

// Package index translates global, unbounded identifiers into small dense
// slots that are only meaningful inside one period bucket.
package index

import "github.com/votecube/pollcache/common/types"

type (
	// Slot is any dense index type
	Slot interface {
		~uint32
	}

	// Map assigns dense slots to ids in first reference order.
	// Slots are never released individually, the whole map is dropped with its bucket.
	Map[K comparable, I Slot] struct {
		slots map[K]I
	}

	// LocationPeriodIDs is what one period bucket knows about one location:
	// its row in the location structures and the columns of its categories
	LocationPeriodIDs struct {
		LocationIndex types.LocationCacheIndex
		categories    *Map[types.CategoryID, types.LocationCategoryCacheIndex]
	}

	// LocationMap maps locations to their LocationPeriodIDs within one bucket
	LocationMap struct {
		capacity  int
		locations *Map[types.LocationID, types.LocationCacheIndex]
		entries   []*LocationPeriodIDs
	}
)

// NewMap creates a Map sized for capacity ids
func NewMap[K comparable, I Slot](capacity int) *Map[K, I] {
	return &Map[K, I]{slots: make(map[K]I, capacity)}
}

// Locate returns the slot of id, assigning the next unused one on first reference
func (m *Map[K, I]) Locate(id K) (slot I, created bool) {
	if slot, ok := m.slots[id]; ok {
		return slot, false
	}
	slot = I(len(m.slots))
	m.slots[id] = slot
	return slot, true
}

// Lookup returns the slot of id without assigning one
func (m *Map[K, I]) Lookup(id K) (I, bool) {
	slot, ok := m.slots[id]
	return slot, ok
}

// Len returns the number of assigned slots, which is also the next slot to assign
func (m *Map[K, I]) Len() int {
	return len(m.slots)
}

// LocateCategory returns the column of category within the location, assigning one on first reference
func (l *LocationPeriodIDs) LocateCategory(id types.CategoryID) (types.LocationCategoryCacheIndex, bool) {
	return l.categories.Locate(id)
}

// LookupCategory returns the column of category within the location
func (l *LocationPeriodIDs) LookupCategory(id types.CategoryID) (types.LocationCategoryCacheIndex, bool) {
	return l.categories.Lookup(id)
}

// NumCategories returns the number of categories referenced within the location
func (l *LocationPeriodIDs) NumCategories() int {
	return l.categories.Len()
}

// NewLocationMap creates a LocationMap sized for capacity locations
func NewLocationMap(capacity int) *LocationMap {
	return &LocationMap{
		capacity:  capacity,
		locations: NewMap[types.LocationID, types.LocationCacheIndex](capacity),
		entries:   make([]*LocationPeriodIDs, 0, capacity),
	}
}

// Locate returns the LocationPeriodIDs of id, creating them on first reference
func (m *LocationMap) Locate(id types.LocationID) (*LocationPeriodIDs, bool) {
	slot, created := m.locations.Locate(id)
	if !created {
		return m.entries[slot], false
	}
	entry := &LocationPeriodIDs{
		LocationIndex: slot,
		categories:    NewMap[types.CategoryID, types.LocationCategoryCacheIndex](0),
	}
	m.entries = append(m.entries, entry)
	return entry, true
}

// Lookup returns the LocationPeriodIDs of id if the location was referenced in this bucket
func (m *LocationMap) Lookup(id types.LocationID) (*LocationPeriodIDs, bool) {
	slot, ok := m.locations.Lookup(id)
	if !ok {
		return nil, false
	}
	return m.entries[slot], true
}

// Len returns the number of locations referenced in this bucket
func (m *LocationMap) Len() int {
	return m.locations.Len()
}
