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

// Package batch coalesces concurrent requests into periodic batches.
// Callers are validated at intake, parked until the next drain, and resumed
// in enqueue order once the batch has been aggregated.
package batch

import (
	"context"
	"fmt"

	"github.com/votecube/pollcache/common"
)

type (
	// Validator checks a request at intake. A non nil error rejects the request:
	// the returned Out is handed back to the caller at once and nothing is enqueued.
	Validator[Req, In, Out any] interface {
		Validate(ctx context.Context, request Req) (In, Out, error)
	}

	// Aggregator applies one detached batch. It fills entries with Complete.
	// An error fails every entry it left unfilled, other entries keep their result.
	Aggregator[In, Out any] interface {
		Aggregate(ctx context.Context, batch []*Entry[In, Out]) error
	}

	// ValidatorFunc adapts a function to Validator
	ValidatorFunc[Req, In, Out any] func(ctx context.Context, request Req) (In, Out, error)

	// AggregatorFunc adapts a function to Aggregator
	AggregatorFunc[In, Out any] func(ctx context.Context, batch []*Entry[In, Out]) error

	// Resolver turns a request into its result
	Resolver[Req, Out any] interface {
		Resolve(ctx context.Context, request Req) (Out, error)
	}

	// Dispatcher is a Resolver that batches valid requests behind a periodic drain
	Dispatcher[Req, In, Out any] interface {
		common.Daemon
		Resolver[Req, Out]
		// State reports what the dispatcher is doing right now
		State() State
	}

	// State of the dispatcher buffer
	State int32
)

const (
	// StateIdle means the buffer is empty
	StateIdle State = iota
	// StateAccumulating means the buffer holds entries waiting for the next drain
	StateAccumulating
	// StateDraining means a detached batch is being aggregated
	StateDraining
)

// Validate calls f(ctx, request)
func (f ValidatorFunc[Req, In, Out]) Validate(ctx context.Context, request Req) (In, Out, error) {
	return f(ctx, request)
}

// Aggregate calls f(ctx, batch)
func (f AggregatorFunc[In, Out]) Aggregate(ctx context.Context, batch []*Entry[In, Out]) error {
	return f(ctx, batch)
}

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateAccumulating:
		return "Accumulating"
	case StateDraining:
		return "Draining"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}
