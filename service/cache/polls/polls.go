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

// Package polls keeps the per direction vote sums of every poll of one period bucket,
// in one dense array family per dimensionality.
package polls

import (
	"github.com/votecube/pollcache/common/errors"
	"github.com/votecube/pollcache/common/types"
)

type (
	// OneDPoll is the record of a poll with one dimension
	OneDPoll struct {
		Sums      [2]uint32
		Overflows [2]uint8
		VoteCount types.VoteCount
	}

	// TwoDPoll is the record of a poll with two dimensions
	TwoDPoll struct {
		Sums      [4]uint32
		Overflows [4]uint8
		VoteCount types.VoteCount
	}

	// ThreeDPoll is the record of a poll with three dimensions
	ThreeDPoll struct {
		Sums      [6]uint32
		Overflows [6]uint8
		VoteCount types.VoteCount
	}

	// Placement is where a poll sits in the ranking structures of its bucket
	Placement struct {
		LocationID            types.LocationID
		CategoryID            types.CategoryID
		LocationIndex         types.LocationCacheIndex
		LocationCategoryIndex types.LocationCategoryCacheIndex
		CategoryIndex         types.CategoryCacheIndex
	}

	// Snapshot is a copy of one poll record
	Snapshot struct {
		Placement Placement
		VoteCount types.VoteCount
		Sums      []uint32
		Overflows []uint8
	}

	slot struct {
		dim   types.Dimensionality
		index types.PollCacheIndex
	}

	// Store holds the poll records of one period bucket.
	// It is not safe for concurrent use, the owning bucket serializes writers.
	Store struct {
		timezone   types.TimezoneID
		slots      map[types.PollID]slot
		oneD       []OneDPoll
		twoD       []TwoDPoll
		threeD     []ThreeDPoll
		placements [4][]Placement
	}
)

// NewStore creates an empty store for a bucket of timezone tz
func NewStore(tz types.TimezoneID, capacity int) *Store {
	return &Store{
		timezone: tz,
		slots:    make(map[types.PollID]slot, capacity),
	}
}

// Create reserves the next dense slot of the dim family for the poll
func (s *Store) Create(id types.PollID, dim types.Dimensionality, placement Placement) (types.PollCacheIndex, error) {
	if _, ok := s.slots[id]; ok {
		return 0, errors.NewDuplicatePollError(id)
	}
	vc := types.VoteCount{
		PollTypeAndTimezone: types.NewPollTypeAndTimezone(s.timezone, dim),
		PollID:              id,
	}

	var index types.PollCacheIndex
	switch dim {
	case types.OneD:
		index = types.PollCacheIndex(len(s.oneD))
		s.oneD = append(s.oneD, OneDPoll{VoteCount: vc})
	case types.TwoD:
		index = types.PollCacheIndex(len(s.twoD))
		s.twoD = append(s.twoD, TwoDPoll{VoteCount: vc})
	case types.ThreeD:
		index = types.PollCacheIndex(len(s.threeD))
		s.threeD = append(s.threeD, ThreeDPoll{VoteCount: vc})
	default:
		return 0, errors.NewInvalidArgumentError("invalid dimensionality %d", dim)
	}
	s.placements[dim] = append(s.placements[dim], placement)
	s.slots[id] = slot{dim: dim, index: index}
	return index, nil
}

// Contains returns true if the poll has a record in this store
func (s *Store) Contains(id types.PollID) bool {
	_, ok := s.slots[id]
	return ok
}

// Len returns the number of polls in the store
func (s *Store) Len() int {
	return len(s.slots)
}

// RecordVote adds weight to one direction of the poll and counts one vote.
// wrapped reports whether the direction sum wrapped and bumped its overflow counter.
func (s *Store) RecordVote(id types.PollID, direction types.Direction, weight uint32) (vc types.VoteCount, wrapped bool, err error) {
	sl, ok := s.slots[id]
	if !ok {
		return types.VoteCount{}, false, errors.NewUnknownPollError(s.timezone, id)
	}
	if !direction.IsValidFor(sl.dim) {
		return types.VoteCount{}, false, errors.NewInvalidDirectionError(id, direction, sl.dim)
	}

	var record *types.VoteCount
	switch sl.dim {
	case types.OneD:
		p := &s.oneD[sl.index]
		wrapped = addWeight(p.Sums[:], p.Overflows[:], direction, weight)
		record = &p.VoteCount
	case types.TwoD:
		p := &s.twoD[sl.index]
		wrapped = addWeight(p.Sums[:], p.Overflows[:], direction, weight)
		record = &p.VoteCount
	default:
		p := &s.threeD[sl.index]
		wrapped = addWeight(p.Sums[:], p.Overflows[:], direction, weight)
		record = &p.VoteCount
	}
	record.Count++
	return *record, wrapped, nil
}

// Read returns a copy of the poll record
func (s *Store) Read(id types.PollID) (Snapshot, error) {
	sl, ok := s.slots[id]
	if !ok {
		return Snapshot{}, errors.NewUnknownPollError(s.timezone, id)
	}

	snapshot := Snapshot{Placement: s.placements[sl.dim][sl.index]}
	switch sl.dim {
	case types.OneD:
		p := s.oneD[sl.index]
		snapshot.VoteCount, snapshot.Sums, snapshot.Overflows = p.VoteCount, p.Sums[:], p.Overflows[:]
	case types.TwoD:
		p := s.twoD[sl.index]
		snapshot.VoteCount, snapshot.Sums, snapshot.Overflows = p.VoteCount, p.Sums[:], p.Overflows[:]
	default:
		p := s.threeD[sl.index]
		snapshot.VoteCount, snapshot.Sums, snapshot.Overflows = p.VoteCount, p.Sums[:], p.Overflows[:]
	}
	return snapshot, nil
}

// Placement returns where the poll sits in the ranking structures
func (s *Store) Placement(id types.PollID) (Placement, bool) {
	sl, ok := s.slots[id]
	if !ok {
		return Placement{}, false
	}
	return s.placements[sl.dim][sl.index], true
}

// addWeight returns true when the sum wrapped past its maximum
func addWeight(sums []uint32, overflows []uint8, direction types.Direction, weight uint32) bool {
	sum := sums[direction]
	next := sum + weight
	sums[direction] = next
	if next < sum {
		overflows[direction]++
		return true
	}
	return false
}

// Dimensionality returns the dimensionality of the poll
func (s Snapshot) Dimensionality() types.Dimensionality {
	return s.VoteCount.PollTypeAndTimezone.Dimensionality()
}

// Total returns the exact weight cast in a direction: overflow * 2^32 + sum
func (s Snapshot) Total(direction types.Direction) uint64 {
	if int(direction) >= len(s.Sums) {
		return 0
	}
	return uint64(s.Overflows[direction])<<32 + uint64(s.Sums[direction])
}

// Totals returns Total for every direction
func (s Snapshot) Totals() []uint64 {
	totals := make([]uint64, len(s.Sums))
	for d := range s.Sums {
		totals[d] = s.Total(types.Direction(d))
	}
	return totals
}
