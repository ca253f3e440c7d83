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

// Package pending keeps the append-only lists of newly created polls
// that clients page through to find what is new since they last looked.
package pending

import (
	"github.com/votecube/pollcache/common/errors"
	"github.com/votecube/pollcache/common/pagination"
	"github.com/votecube/pollcache/common/types"
)

// DefaultPageSize is the number of ids held by one page
const DefaultPageSize = 1024

type (
	// Cursor is an absolute position in a Pages list. The Next cursor of the
	// last page returned resumes iteration after everything seen so far.
	Cursor uint64

	// Page is one page, or the tail of one page, as handed out by PagesSince
	Page struct {
		Number    int
		IDs       []types.PollID
		ByteWidth uint8
		Sealed    bool
		Next      Cursor
	}

	// Pages is an append-only list of poll ids split into fixed size pages.
	// Every page is allocated at full size and never reallocated, so sealed
	// pages and the filled prefix of the open page never change.
	// Pages is not safe for concurrent use, callers hold their own lock around
	// Append and PagesSince. Iterators returned by PagesSince may be consumed
	// after that lock is released.
	Pages struct {
		pageSize int
		pages    []page
	}

	page struct {
		ids   []types.PollID
		width uint8
	}
)

// NewPages creates an empty list with pages of pageSize ids
func NewPages(pageSize int) *Pages {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Pages{pageSize: pageSize}
}

// Append pushes id onto the open page, starting a new page when it is full
func (p *Pages) Append(id types.PollID) {
	if len(p.pages) == 0 || len(p.pages[len(p.pages)-1].ids) == p.pageSize {
		p.pages = append(p.pages, page{ids: make([]types.PollID, 0, p.pageSize)})
	}
	last := &p.pages[len(p.pages)-1]
	last.ids = append(last.ids, id)
	if width := ByteWidth(id); width > last.width {
		last.width = width
	}
}

// Len returns the number of ids appended so far
func (p *Pages) Len() Cursor {
	if len(p.pages) == 0 {
		return 0
	}
	return Cursor((len(p.pages)-1)*p.pageSize + len(p.pages[len(p.pages)-1].ids))
}

// PageSize returns the capacity of one page
func (p *Pages) PageSize() int {
	return p.pageSize
}

// PagesSince returns a lazy iterator of Page values holding every id appended
// at or after cursor, as of the call. A cursor beyond Len is rejected.
func (p *Pages) PagesSince(cursor Cursor) (pagination.Iterator, error) {
	if cursor > p.Len() {
		return nil, errors.NewInvalidArgumentError("cursor %d is beyond the end of the list (%d)", cursor, p.Len())
	}

	snapshot := make([]page, len(p.pages))
	copy(snapshot, p.pages)
	pageSize := p.pageSize

	fetch := func(token pagination.PageToken) ([]pagination.Entity, pagination.PageToken, error) {
		position := token.(Cursor)
		number := int(position) / pageSize
		if number >= len(snapshot) {
			return nil, nil, nil
		}
		current := snapshot[number]
		offset := int(position) % pageSize
		if offset >= len(current.ids) {
			return nil, nil, nil
		}

		ids := make([]types.PollID, len(current.ids)-offset)
		copy(ids, current.ids[offset:])
		result := Page{
			Number:    number,
			IDs:       ids,
			ByteWidth: current.width,
			Sealed:    len(current.ids) == pageSize,
			Next:      position + Cursor(len(ids)),
		}

		var next pagination.PageToken
		if number+1 < len(snapshot) {
			next = result.Next
		}
		return []pagination.Entity{result}, next, nil
	}
	return pagination.NewIterator(cursor, fetch), nil
}

type locationPages struct {
	all        *Pages
	categories map[types.CategoryID]*Pages
}

// Lists holds the pending pages of every location and of every
// location+category pair of one future period bucket
type Lists struct {
	pageSize  int
	locations map[types.LocationID]*locationPages
}

// NewLists creates empty lists with pages of pageSize ids
func NewLists(pageSize int) *Lists {
	return &Lists{
		pageSize:  pageSize,
		locations: make(map[types.LocationID]*locationPages),
	}
}

// Append adds id to the list of location and, unless category is NoCategory,
// to the list of the location+category pair
func (l *Lists) Append(location types.LocationID, category types.CategoryID, id types.PollID) {
	lp, ok := l.locations[location]
	if !ok {
		lp = &locationPages{
			all:        NewPages(l.pageSize),
			categories: make(map[types.CategoryID]*Pages),
		}
		l.locations[location] = lp
	}
	lp.all.Append(id)
	if category == types.NoCategory {
		return
	}
	cp, ok := lp.categories[category]
	if !ok {
		cp = NewPages(l.pageSize)
		lp.categories[category] = cp
	}
	cp.Append(id)
}

// Pages returns the list of location, or of the location+category pair
// when category is not NoCategory
func (l *Lists) Pages(location types.LocationID, category types.CategoryID) (*Pages, bool) {
	lp, ok := l.locations[location]
	if !ok {
		return nil, false
	}
	if category == types.NoCategory {
		return lp.all, true
	}
	cp, ok := lp.categories[category]
	return cp, ok
}
