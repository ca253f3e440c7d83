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

package testlogger

import (
	"fmt"
	"slices"
	"strings"

	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/votecube/pollcache/common/log"
	"github.com/votecube/pollcache/common/log/loggerimpl"
)

// TestingT is the subset of testing.TB the test loggers need
type TestingT interface {
	zaptest.TestingT
	Cleanup(func())
}

// New returns a logger writing to the test output, with sampling disabled
func New(t TestingT) log.Logger {
	return loggerimpl.NewLogger(NewZap(t), loggerimpl.WithSampleFunc(func(int) bool { return true }))
}

// NewZap returns a zap logger writing to the test output.
// Daemons may still log from background goroutines after a test returns
// (a drain finishing during Stop, for instance); once the test is complete
// such entries go to stderr instead of racing on the finished test.
func NewZap(t TestingT) *zap.Logger {
	logAfterComplete, err := zap.NewDevelopment()
	require.NoError(t, err, "could not build a fallback zap logger")
	core := &fallbackTestCore{
		t:         t,
		fallback:  logAfterComplete.Core(),
		testing:   zaptest.NewLogger(t).Core(),
		completed: atomic.NewBool(false),
	}
	t.Cleanup(core.UseFallback)
	return zap.New(core)
}

// NewObserved returns a test logger plus the entries it recorded, for log assertions
func NewObserved(t TestingT) (log.Logger, *observer.ObservedLogs) {
	obsCore, obs := observer.New(zapcore.DebugLevel)
	z := NewZap(t).WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return zapcore.NewTee(core, obsCore)
	}))
	return loggerimpl.NewLogger(z, loggerimpl.WithSampleFunc(func(int) bool { return true })), obs
}

type fallbackTestCore struct {
	t         TestingT
	fallback  zapcore.Core
	testing   zapcore.Core
	completed *atomic.Bool
}

var _ zapcore.Core = (*fallbackTestCore)(nil)

// UseFallback switches all writes to the fallback core
func (f *fallbackTestCore) UseFallback() {
	f.completed.Store(true)
}

func (f *fallbackTestCore) Enabled(level zapcore.Level) bool {
	if f.completed.Load() {
		return f.fallback.Enabled(level)
	}
	return f.testing.Enabled(level)
}

func (f *fallbackTestCore) With(fields []zapcore.Field) zapcore.Core {
	// the derived core shares the completed flag so it also switches over
	return &fallbackTestCore{
		t:         f.t,
		fallback:  f.fallback.With(fields),
		testing:   f.testing.With(fields),
		completed: f.completed,
	}
}

func (f *fallbackTestCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if f.fallback.Enabled(entry.Level) {
		return checked.AddCore(entry, f)
	}
	return checked
}

func (f *fallbackTestCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	if !f.completed.Load() {
		return f.testing.Write(entry, fields)
	}
	entry.Message = fmt.Sprintf("logged after %q completed: %v", f.t.Name(), entry.Message)
	hasStack := slices.ContainsFunc(fields, func(field zapcore.Field) bool {
		return strings.Contains(strings.ToLower(field.Key), "stack")
	})
	if !hasStack {
		fields = append(fields, zap.Stack("log_stack"))
	}
	return f.fallback.Write(entry, fields)
}

func (f *fallbackTestCore) Sync() error {
	if f.completed.Load() {
		return f.fallback.Sync()
	}
	return f.testing.Sync()
}
