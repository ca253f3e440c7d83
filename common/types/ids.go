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

package types

import "fmt"

type (
	// LocationID is the global identifier of a location, issued externally and never reused
	LocationID uint64
	// CategoryID is the global identifier of a poll category
	CategoryID uint64
	// PollID is the global identifier of a poll. Ids are issued monotonically,
	// so creation order and id order coincide
	PollID uint64

	// DayID names a calendar day: whole days since 1970-01-01 in a timezone's wall clock
	DayID int32
	// WeekID names a calendar week: whole Monday-based weeks since 1969-12-29
	WeekID int32
	// MonthID names a calendar month: (year-1970)*12 + (month-1)
	MonthID int32

	// LocationCacheIndex is a dense row index of a location, valid only inside one period bucket
	LocationCacheIndex uint32
	// CategoryCacheIndex is a dense row index of a category, valid only inside one period bucket
	CategoryCacheIndex uint32
	// LocationCategoryCacheIndex is a dense column index of a category within one location,
	// valid only inside one period bucket
	LocationCategoryCacheIndex uint32
	// PollCacheIndex is a dense slot of a poll inside the array family of its dimensionality
	PollCacheIndex uint32
)

// NoCategory selects the location-wide list where a category is optional
const NoCategory CategoryID = 0

// Dimensionality is the number of dimensions of a poll, each with two directions
type Dimensionality uint8

const (
	// OneD is a poll with a single dimension
	OneD Dimensionality = 1
	// TwoD is a poll with two dimensions
	TwoD Dimensionality = 2
	// ThreeD is a poll with three dimensions
	ThreeD Dimensionality = 3
)

// IsValid returns true for 1, 2 and 3 dimensional polls
func (d Dimensionality) IsValid() bool {
	return d >= OneD && d <= ThreeD
}

// Directions returns the number of vote directions of a poll of this dimensionality
func (d Dimensionality) Directions() int {
	return 2 * int(d)
}

func (d Dimensionality) String() string {
	return fmt.Sprintf("%dD", uint8(d))
}

// Direction addresses one direction of one dimension: dimension*2 + side
type Direction uint8

// IsValidFor returns true if the direction exists on a poll of dimensionality d
func (d Direction) IsValidFor(dim Dimensionality) bool {
	return int(d) < dim.Directions()
}
