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

package errors

import (
	"errors"
	"fmt"

	"github.com/votecube/pollcache/common/types"
)

var (
	// ErrDispatcherStopped is returned to callers enqueuing after the dispatcher was stopped
	ErrDispatcherStopped = errors.New("dispatcher is stopped")

	_ error = (*ValidationRejectedError)(nil)
	_ error = (*UnknownPollError)(nil)
	_ error = (*UnknownLocationError)(nil)
	_ error = (*UnknownCategoryError)(nil)
	_ error = (*RotationInProgressError)(nil)
	_ error = (*AggregationFailureError)(nil)
	_ error = (*InvalidDirectionError)(nil)
	_ error = (*DuplicatePollError)(nil)
	_ error = (*InvalidArgumentError)(nil)
)

type (
	// ValidationRejectedError is returned at intake, the request never reached the cache
	ValidationRejectedError struct {
		Reason string
	}

	// UnknownPollError means the poll is not in any active bucket of the timezone,
	// either it never existed or its period rotated out
	UnknownPollError struct {
		Timezone types.TimezoneID
		PollID   types.PollID
	}

	// UnknownLocationError means the location has no entry in the period bucket
	UnknownLocationError struct {
		Timezone   types.TimezoneID
		Period     types.Period
		LocationID types.LocationID
	}

	// UnknownCategoryError means the category has no entry in the period bucket
	UnknownCategoryError struct {
		Timezone   types.TimezoneID
		Period     types.Period
		LocationID types.LocationID
		CategoryID types.CategoryID
	}

	// RotationInProgressError is advisory: the timezone is swapping its period buckets
	RotationInProgressError struct {
		Timezone types.TimezoneID
	}

	// AggregationFailureError is the result of an entry whose batch could not produce a result for it
	AggregationFailureError struct {
		Reason    string
		Retryable bool
		Cause     error
	}

	// InvalidDirectionError means the vote direction does not exist on the poll
	InvalidDirectionError struct {
		PollID         types.PollID
		Direction      types.Direction
		Dimensionality types.Dimensionality
	}

	// DuplicatePollError means a poll id was registered twice in one bucket
	DuplicatePollError struct {
		PollID types.PollID
	}

	// InvalidArgumentError is returned by cache queries addressed outside the known space
	InvalidArgumentError struct {
		Message string
	}
)

// NewValidationRejectedError creates a ValidationRejectedError
func NewValidationRejectedError(format string, args ...interface{}) *ValidationRejectedError {
	return &ValidationRejectedError{Reason: fmt.Sprintf(format, args...)}
}

func (e *ValidationRejectedError) Error() string {
	return fmt.Sprintf("request rejected: %s", e.Reason)
}

// NewUnknownPollError creates an UnknownPollError
func NewUnknownPollError(tz types.TimezoneID, id types.PollID) *UnknownPollError {
	return &UnknownPollError{Timezone: tz, PollID: id}
}

func (e *UnknownPollError) Error() string {
	return fmt.Sprintf("unknown poll: Timezone: %v, PollID: %v", e.Timezone, e.PollID)
}

// NewUnknownLocationError creates an UnknownLocationError
func NewUnknownLocationError(tz types.TimezoneID, period types.Period, id types.LocationID) *UnknownLocationError {
	return &UnknownLocationError{Timezone: tz, Period: period, LocationID: id}
}

func (e *UnknownLocationError) Error() string {
	return fmt.Sprintf("unknown location: Timezone: %v, Period: %v, LocationID: %v", e.Timezone, e.Period, e.LocationID)
}

// NewUnknownCategoryError creates an UnknownCategoryError
func NewUnknownCategoryError(tz types.TimezoneID, period types.Period, location types.LocationID, category types.CategoryID) *UnknownCategoryError {
	return &UnknownCategoryError{Timezone: tz, Period: period, LocationID: location, CategoryID: category}
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("unknown category: Timezone: %v, Period: %v, LocationID: %v, CategoryID: %v",
		e.Timezone, e.Period, e.LocationID, e.CategoryID)
}

// NewRotationInProgressError creates a RotationInProgressError
func NewRotationInProgressError(tz types.TimezoneID) *RotationInProgressError {
	return &RotationInProgressError{Timezone: tz}
}

func (e *RotationInProgressError) Error() string {
	return fmt.Sprintf("rotation in progress: Timezone: %v", e.Timezone)
}

// NewAggregationFailureError creates an AggregationFailureError
func NewAggregationFailureError(reason string, retryable bool, cause error) *AggregationFailureError {
	return &AggregationFailureError{Reason: reason, Retryable: retryable, Cause: cause}
}

func (e *AggregationFailureError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("aggregation failed: %s", e.Reason)
	}
	return fmt.Sprintf("aggregation failed: %s: %v", e.Reason, e.Cause)
}

func (e *AggregationFailureError) Unwrap() error {
	return e.Cause
}

// NewInvalidDirectionError creates an InvalidDirectionError
func NewInvalidDirectionError(id types.PollID, direction types.Direction, dim types.Dimensionality) *InvalidDirectionError {
	return &InvalidDirectionError{PollID: id, Direction: direction, Dimensionality: dim}
}

func (e *InvalidDirectionError) Error() string {
	return fmt.Sprintf("invalid direction: PollID: %v, Direction: %v, Dimensionality: %v", e.PollID, e.Direction, e.Dimensionality)
}

// NewDuplicatePollError creates a DuplicatePollError
func NewDuplicatePollError(id types.PollID) *DuplicatePollError {
	return &DuplicatePollError{PollID: id}
}

func (e *DuplicatePollError) Error() string {
	return fmt.Sprintf("duplicate poll: PollID: %v", e.PollID)
}

// NewInvalidArgumentError creates an InvalidArgumentError
func NewInvalidArgumentError(format string, args ...interface{}) *InvalidArgumentError {
	return &InvalidArgumentError{Message: fmt.Sprintf(format, args...)}
}

func (e *InvalidArgumentError) Error() string {
	return e.Message
}
