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

import "errors"

// IsValidationRejectedErrorType checks if the error is a ValidationRejectedError
func IsValidationRejectedErrorType(err error) bool {
	var e *ValidationRejectedError
	return errors.As(err, &e)
}

// IsNotFoundErrorType checks if the error reports an id missing from the active buckets.
// Unknown and rotated out cannot be told apart.
func IsNotFoundErrorType(err error) bool {
	var (
		poll     *UnknownPollError
		location *UnknownLocationError
		category *UnknownCategoryError
	)
	return errors.As(err, &poll) || errors.As(err, &location) || errors.As(err, &category)
}

// IsRotationInProgressErrorType checks if the error is a RotationInProgressError
func IsRotationInProgressErrorType(err error) bool {
	var e *RotationInProgressError
	return errors.As(err, &e)
}

// IsRetryable checks if the request may succeed when submitted again
func IsRetryable(err error) bool {
	var e *AggregationFailureError
	if errors.As(err, &e) {
		return e.Retryable
	}
	return IsRotationInProgressErrorType(err)
}

// IsBadRequestErrorType checks if the error was caused by the request itself
func IsBadRequestErrorType(err error) bool {
	var (
		rejected  *ValidationRejectedError
		direction *InvalidDirectionError
		argument  *InvalidArgumentError
		duplicate *DuplicatePollError
	)
	return errors.As(err, &rejected) || errors.As(err, &direction) || errors.As(err, &argument) || errors.As(err, &duplicate)
}
