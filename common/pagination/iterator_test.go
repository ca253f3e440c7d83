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

package pagination

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type IteratorSuite struct {
	*require.Assertions
	suite.Suite
}

func TestIteratorSuite(t *testing.T) {
	suite.Run(t, new(IteratorSuite))
}

func (s *IteratorSuite) SetupTest() {
	s.Assertions = require.New(s.T())
}

// pages of entities keyed by token, the last page returns a nil token
func fetchFromPages(pages [][]Entity, failAt int) FetchFn {
	return func(token PageToken) ([]Entity, PageToken, error) {
		idx := 0
		if token != nil {
			idx = token.(int)
		}
		if idx == failAt {
			return nil, nil, errors.New("fetch failed")
		}
		var next PageToken
		if idx+1 < len(pages) {
			next = idx + 1
		}
		return pages[idx], next, nil
	}
}

func (s *IteratorSuite) TestInitializedToEmpty() {
	itr := NewIterator(nil, fetchFromPages([][]Entity{{}}, -1))
	s.False(itr.HasNext())
	_, err := itr.Next()
	s.Equal(ErrIteratorFinished, err)
}

func (s *IteratorSuite) TestSkipsEmptyPages() {
	itr := NewIterator(nil, fetchFromPages([][]Entity{{1, 2}, {}, {}, {3}, {}}, -1))

	var got []Entity
	for itr.HasNext() {
		e, err := itr.Next()
		s.NoError(err)
		got = append(got, e)
	}
	s.Equal([]Entity{1, 2, 3}, got)
	_, err := itr.Next()
	s.Equal(ErrIteratorFinished, err)
}

func (s *IteratorSuite) TestStartsAtToken() {
	itr := NewIterator(2, fetchFromPages([][]Entity{{1}, {2}, {3}, {4}}, -1))

	var got []Entity
	for itr.HasNext() {
		e, err := itr.Next()
		s.NoError(err)
		got = append(got, e)
	}
	s.Equal([]Entity{3, 4}, got)
}

func (s *IteratorSuite) TestErrorIsSticky() {
	itr := NewIterator(nil, fetchFromPages([][]Entity{{1}, {2}, {3}}, 1))

	e, err := itr.Next()
	s.NoError(err)
	s.Equal(1, e)
	s.False(itr.HasNext())
	for i := 0; i < 3; i++ {
		_, err = itr.Next()
		s.EqualError(err, "fetch failed")
	}
}
