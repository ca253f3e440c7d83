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

package future

import (
	"context"
	"errors"
	"fmt"
	"reflect"
)

type (
	// Future is the read side of a value that becomes available once
	Future interface {
		// Get blocks until the value is set or ctx is done, then copies the value into valuePtr.
		// valuePtr may be nil when only the error matters.
		Get(ctx context.Context, valuePtr interface{}) error
		IsReady() bool
	}

	// Settable is the write side of a Future; Set may only be called once
	Settable interface {
		Set(value interface{}, err error)
	}

	futureImpl struct {
		value   interface{}
		err     error
		readyCh chan struct{}
	}
)

var _ Future = (*futureImpl)(nil)
var _ Settable = (*futureImpl)(nil)

// NewFuture creates a new future and the settable completing it
func NewFuture() (Future, Settable) {
	future := &futureImpl{
		readyCh: make(chan struct{}),
	}
	return future, future
}

func (f *futureImpl) Get(ctx context.Context, valuePtr interface{}) error {
	// a value that is already set wins over a done context
	if !f.IsReady() {
		select {
		case <-f.readyCh:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if f.err != nil {
		return f.err
	}
	if valuePtr == nil {
		return nil
	}

	rv := reflect.ValueOf(valuePtr)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return errors.New("valuePtr parameter is not a non-nil pointer")
	}
	target := rv.Elem()
	fv := reflect.ValueOf(f.value)
	if !fv.IsValid() {
		target.Set(reflect.Zero(target.Type()))
		return nil
	}
	if !fv.Type().AssignableTo(target.Type()) {
		return fmt.Errorf("future value of type %v is not assignable to %v", fv.Type(), target.Type())
	}
	target.Set(fv)
	return nil
}

func (f *futureImpl) IsReady() bool {
	select {
	case <-f.readyCh:
		return true
	default:
		return false
	}
}

func (f *futureImpl) Set(value interface{}, err error) {
	if f.IsReady() {
		panic("future has already been set")
	}
	f.value = value
	f.err = err
	close(f.readyCh)
}
