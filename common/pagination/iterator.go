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

type iterator struct {
	page        Page
	entityIndex int

	nextEntity Entity
	nextError  error

	fetchFn FetchFn
}

// NewIterator constructs a new Iterator.
// Pages are fetched lazily, the first one when the iterator is built.
func NewIterator(startingPageToken PageToken, fetchFn FetchFn) Iterator {
	itr := &iterator{
		page:    Page{PageToken: startingPageToken},
		fetchFn: fetchFn,
	}
	itr.advance(true)
	return itr
}

// Next returns the next Entity or error.
// Returning nil, nil is valid if that is what the provided fetch function provided.
func (i *iterator) Next() (Entity, error) {
	currEntity := i.nextEntity
	currError := i.nextError
	i.advance(false)
	return currEntity, currError
}

// HasNext returns true if next invocation of Next will return on-empty entity and nil error.
func (i *iterator) HasNext() bool {
	return i.nextError == nil
}

func (i *iterator) advance(firstPage bool) {
	if i.nextError != nil {
		return
	}
	if i.entityIndex < len(i.page.Entities) {
		i.consume()
		return
	}
	if !firstPage && i.page.PageToken == nil {
		i.nextEntity = nil
		i.nextError = ErrIteratorFinished
		return
	}
	for firstPage || i.page.PageToken != nil {
		firstPage = false
		entities, token, err := i.fetchFn(i.page.PageToken)
		if err != nil {
			i.nextEntity = nil
			i.nextError = err
			return
		}
		i.page = Page{PageToken: token, Entities: entities}
		i.entityIndex = 0
		if len(entities) > 0 {
			i.consume()
			return
		}
	}
	i.nextEntity = nil
	i.nextError = ErrIteratorFinished
}

func (i *iterator) consume() {
	i.nextEntity = i.page.Entities[i.entityIndex]
	i.nextError = nil
	i.entityIndex++
}
