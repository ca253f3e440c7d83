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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/votecube/pollcache/common/types"
)

func TestValidationRejectedErrorType(t *testing.T) {
	assert.False(t, IsValidationRejectedErrorType(errors.New("a random error")))
	assert.True(t, IsValidationRejectedErrorType(NewValidationRejectedError("weight %d", 0)))
	assert.Equal(t, "request rejected: weight 0", NewValidationRejectedError("weight %d", 0).Error())
}

func TestNotFoundErrorType(t *testing.T) {
	assert.False(t, IsNotFoundErrorType(errors.New("a random error")))
	assert.True(t, IsNotFoundErrorType(NewUnknownPollError(types.TimezoneUTC, 1)))
	assert.True(t, IsNotFoundErrorType(NewUnknownLocationError(types.TimezoneUTC, types.PeriodToday, 1)))
	assert.True(t, IsNotFoundErrorType(fmt.Errorf("wrapped: %w", NewUnknownCategoryError(types.TimezoneGlobal, types.PeriodLastMonth, 0, 3))))
}

func TestIsRetryable(t *testing.T) {
	assert.False(t, IsRetryable(errors.New("a random error")))
	assert.False(t, IsRetryable(NewAggregationFailureError("no result", false, nil)))
	assert.True(t, IsRetryable(NewAggregationFailureError("batch failed", true, errors.New("boom"))))
	assert.True(t, IsRetryable(NewRotationInProgressError(types.TimezoneUTCPlus0100)))
}

func TestAggregationFailureUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := NewAggregationFailureError("batch failed", true, cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "aggregation failed: batch failed: boom", err.Error())
	assert.Equal(t, "aggregation failed: no result", NewAggregationFailureError("no result", false, nil).Error())
}

func TestBadRequestErrorType(t *testing.T) {
	assert.False(t, IsBadRequestErrorType(NewUnknownPollError(types.TimezoneUTC, 1)))
	assert.True(t, IsBadRequestErrorType(NewInvalidDirectionError(1, 5, types.OneD)))
	assert.True(t, IsBadRequestErrorType(NewInvalidArgumentError("bad timezone %d", 99)))
	assert.True(t, IsBadRequestErrorType(NewDuplicatePollError(4)))
}
