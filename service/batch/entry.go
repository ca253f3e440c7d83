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

package batch

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/votecube/pollcache/common/future"
)

type (
	// Entry is one parked request of a batch and its output slot
	Entry[In, Out any] struct {
		ID         uuid.UUID
		Input      In
		EnqueuedAt time.Time

		mu       sync.Mutex
		filled   bool
		output   Out
		err      error
		settable future.Settable
	}

	resolution[Out any] struct {
		output Out
		err    error
	}
)

// Complete fills the output slot of the entry. Only the first call counts,
// it returns false when the entry was already complete.
func (e *Entry[In, Out]) Complete(output Out, err error) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.filled {
		return false
	}
	e.filled = true
	e.output = output
	e.err = err
	return true
}

// IsComplete returns true once the output slot is filled
func (e *Entry[In, Out]) IsComplete() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.filled
}

// Result returns the content of the output slot
func (e *Entry[In, Out]) Result() (Out, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.output, e.err
}

// resume hands the output slot to the waiting caller
func (e *Entry[In, Out]) resume() {
	output, err := e.Result()
	e.settable.Set(resolution[Out]{output: output, err: err}, nil)
}
