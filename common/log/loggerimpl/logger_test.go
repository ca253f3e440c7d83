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

package loggerimpl

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/votecube/pollcache/common/log/tag"
	"github.com/votecube/pollcache/common/types"
)

func newObservedLogger(opts ...Option) (*observer.ObservedLogs, *loggerImpl) {
	core, obs := observer.New(zapcore.DebugLevel)
	return obs, NewLogger(zap.New(core), opts...).(*loggerImpl)
}

func TestDefaultLogger(t *testing.T) {
	obs, logger := newObservedLogger()

	logger.Info("test info", tag.Timezone(types.TimezoneUTCPlus0545), tag.PollID(42))

	entries := obs.TakeAll()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "test info", entries[0].Message)
	assert.Equal(t, "UTC+05:45", fields["timezone"])
	assert.Equal(t, uint64(42), fields["poll-id"])
	assert.Contains(t, fields[tag.LoggingCallAtKey], "logger_test.go")
}

func TestEmptyMessage(t *testing.T) {
	obs, logger := newObservedLogger()

	logger.Warn("")

	entries := obs.TakeAll()
	require.Len(t, entries, 1)
	assert.Equal(t, defaultMsgForEmpty, entries[0].Message)
}

func TestNilErrorIsDropped(t *testing.T) {
	obs, logger := newObservedLogger()

	logger.Error("failed", tag.Error(nil))
	logger.Error("failed", tag.Error(errors.New("boom")))

	entries := obs.TakeAll()
	require.Len(t, entries, 2)
	assert.NotContains(t, entries[0].ContextMap(), "error")
	assert.Equal(t, "boom", entries[1].ContextMap()["error"])
}

func TestWithTags(t *testing.T) {
	obs, logger := newObservedLogger()

	withLogger := logger.WithTags(tag.Component(tag.ComponentCache))
	withLogger.Debug("rotated", tag.Period(types.PeriodYesterday))

	entries := obs.TakeAll()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "poll-cache", fields["component"])
	assert.Equal(t, "yesterday", fields["period"])
	assert.Contains(t, fields[tag.LoggingCallAtKey], "logger_test.go")
}

func TestSampleInfo(t *testing.T) {
	obs, logger := newObservedLogger(WithSampleFunc(func(rate int) bool { return rate == 1 }))

	logger.SampleInfo("kept", 1)
	logger.SampleInfo("dropped", 100)

	entries := obs.TakeAll()
	require.Len(t, entries, 1)
	assert.Equal(t, "kept", entries[0].Message)
}
