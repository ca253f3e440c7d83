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

const (
	timezoneBits      = 6
	timezoneMask      = 1<<timezoneBits - 1
	dimensionalityBit = timezoneBits
)

// PollTypeAndTimezone packs the timezone of a poll (low 6 bits) and its dimensionality (high 2 bits) into one byte
type PollTypeAndTimezone uint8

// NewPollTypeAndTimezone packs tz and dim
func NewPollTypeAndTimezone(tz TimezoneID, dim Dimensionality) PollTypeAndTimezone {
	return PollTypeAndTimezone(uint8(dim)<<dimensionalityBit | uint8(tz)&timezoneMask)
}

// Timezone returns the packed timezone
func (p PollTypeAndTimezone) Timezone() TimezoneID {
	return TimezoneID(uint8(p) & timezoneMask)
}

// Dimensionality returns the packed dimensionality
func (p PollTypeAndTimezone) Dimensionality() Dimensionality {
	return Dimensionality(uint8(p) >> dimensionalityBit)
}

// VoteCount is the fixed size ranking record of one poll within one period
type VoteCount struct {
	PollTypeAndTimezone PollTypeAndTimezone
	PollID              PollID
	// Count is the number of votes cast, it never decreases within a period
	Count uint32
}

// RanksBefore returns true if vc sits above other on a leaderboard:
// higher counts first, then older (smaller) poll ids
func (vc VoteCount) RanksBefore(other VoteCount) bool {
	if vc.Count != other.Count {
		return vc.Count > other.Count
	}
	return vc.PollID < other.PollID
}

func (vc VoteCount) String() string {
	return fmt.Sprintf("VoteCount{PollID: %v, Count: %v, Timezone: %v, Dimensionality: %v}",
		vc.PollID, vc.Count, vc.PollTypeAndTimezone.Timezone(), vc.PollTypeAndTimezone.Dimensionality())
}
