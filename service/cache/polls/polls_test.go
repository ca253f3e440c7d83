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

package polls

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/votecube/pollcache/common/errors"
	"github.com/votecube/pollcache/common/types"
)

type storeSuite struct {
	suite.Suite
	*require.Assertions

	store *Store
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(storeSuite))
}

func (s *storeSuite) SetupTest() {
	s.Assertions = require.New(s.T())
	s.store = NewStore(types.TimezoneUTCPlus0200, 8)
}

func (s *storeSuite) TestCreateReservesDenseSlotsPerFamily() {
	testCases := []struct {
		id       types.PollID
		dim      types.Dimensionality
		expected types.PollCacheIndex
	}{
		{id: 10, dim: types.OneD, expected: 0},
		{id: 11, dim: types.TwoD, expected: 0},
		{id: 12, dim: types.OneD, expected: 1},
		{id: 13, dim: types.ThreeD, expected: 0},
		{id: 14, dim: types.TwoD, expected: 1},
	}
	for _, tc := range testCases {
		index, err := s.store.Create(tc.id, tc.dim, Placement{LocationID: 1})
		s.NoError(err)
		s.Equal(tc.expected, index, "poll %v", tc.id)
	}
	s.Equal(5, s.store.Len())

	_, err := s.store.Create(12, types.TwoD, Placement{})
	var duplicate *errors.DuplicatePollError
	s.ErrorAs(err, &duplicate)

	_, err = s.store.Create(15, types.Dimensionality(4), Placement{})
	s.Error(err)
	s.False(s.store.Contains(15))
}

func (s *storeSuite) TestRecordVote() {
	_, err := s.store.Create(20, types.TwoD, Placement{LocationID: 3, CategoryID: 4})
	s.NoError(err)

	vc, wrapped, err := s.store.RecordVote(20, 3, 5)
	s.NoError(err)
	s.False(wrapped)
	s.Equal(uint32(1), vc.Count)
	s.Equal(types.PollID(20), vc.PollID)
	s.Equal(types.TimezoneUTCPlus0200, vc.PollTypeAndTimezone.Timezone())
	s.Equal(types.TwoD, vc.PollTypeAndTimezone.Dimensionality())

	vc, _, err = s.store.RecordVote(20, 0, 1)
	s.NoError(err)
	s.Equal(uint32(2), vc.Count)

	snapshot, err := s.store.Read(20)
	s.NoError(err)
	s.Equal([]uint64{1, 0, 0, 5}, snapshot.Totals())
	s.Equal(types.TwoD, snapshot.Dimensionality())
	s.Equal(types.CategoryID(4), snapshot.Placement.CategoryID)
	s.Equal(uint64(0), snapshot.Total(9))
}

func (s *storeSuite) TestRecordVoteErrors() {
	_, err := s.store.Create(30, types.OneD, Placement{})
	s.NoError(err)

	_, _, err = s.store.RecordVote(31, 0, 1)
	var unknown *errors.UnknownPollError
	s.ErrorAs(err, &unknown)
	s.Equal(types.TimezoneUTCPlus0200, unknown.Timezone)

	_, _, err = s.store.RecordVote(30, 2, 1)
	var direction *errors.InvalidDirectionError
	s.ErrorAs(err, &direction)

	_, err = s.store.Read(31)
	s.ErrorAs(err, &unknown)
	_, ok := s.store.Placement(31)
	s.False(ok)
}

func (s *storeSuite) TestOverflowAcrossSeveralWraps() {
	_, err := s.store.Create(40, types.ThreeD, Placement{})
	s.NoError(err)

	const weight = uint32(3_000_000_000)
	const votes = 7
	wraps := 0
	for i := 0; i < votes; i++ {
		_, wrapped, err := s.store.RecordVote(40, 4, weight)
		s.NoError(err)
		if wrapped {
			wraps++
		}
	}

	snapshot, err := s.store.Read(40)
	s.NoError(err)
	expected := uint64(weight) * votes
	s.Equal(expected, snapshot.Total(4))
	s.GreaterOrEqual(wraps, 2)
	s.Equal(uint8(wraps), snapshot.Overflows[4])
	s.Equal(uint32(votes), snapshot.VoteCount.Count)
}

func (s *storeSuite) TestOverflowRandomWeights() {
	_, err := s.store.Create(50, types.OneD, Placement{})
	s.NoError(err)

	rnd := rand.New(rand.NewSource(42))
	var expected uint64
	for expected < 3*(math.MaxUint32+1) {
		weight := rnd.Uint32()
		expected += uint64(weight)
		_, _, err := s.store.RecordVote(50, 1, weight)
		s.NoError(err)
	}

	snapshot, err := s.store.Read(50)
	s.NoError(err)
	s.Equal(expected, snapshot.Total(1))
	s.Equal(uint64(0), snapshot.Total(0))
}

func (s *storeSuite) TestSnapshotIsACopy() {
	_, err := s.store.Create(60, types.OneD, Placement{})
	s.NoError(err)
	before, err := s.store.Read(60)
	s.NoError(err)

	_, _, err = s.store.RecordVote(60, 0, 10)
	s.NoError(err)

	s.Equal(uint64(0), before.Total(0))
	s.Equal(uint32(0), before.VoteCount.Count)
}
