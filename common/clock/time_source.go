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

package clock

import (
	"time"

	"github.com/jonboulle/clockwork"
)

type (
	// TimeSource provides the current time and timers, so that time dependent
	// code can be driven by a fake clock in tests
	TimeSource interface {
		After(d time.Duration) <-chan time.Time
		AfterFunc(d time.Duration, f func()) Timer
		Now() time.Time
		Since(t time.Time) time.Duration
		NewTicker(d time.Duration) Ticker
		NewTimer(d time.Duration) Timer
	}

	// MockedTimeSource is a TimeSource whose time only moves when advanced
	MockedTimeSource interface {
		TimeSource
		// BlockUntil blocks until the given number of timers, tickers or sleepers are waiting on the clock
		BlockUntil(waiters int)
		// Advance moves the clock forward, firing everything that became due
		Advance(d time.Duration)
	}

	// Ticker is the ticker handed out by a TimeSource, read it with Chan()
	Ticker = clockwork.Ticker
	// Timer is the timer handed out by a TimeSource, read it with Chan()
	Timer = clockwork.Timer

	clock struct {
		clockwork.Clock
	}

	fakeClock struct {
		clockwork.FakeClock
	}
)

// NewRealTimeSource returns a TimeSource backed by the wall clock
func NewRealTimeSource() TimeSource {
	return &clock{Clock: clockwork.NewRealClock()}
}

// NewMockedTimeSource returns a fake TimeSource starting at an arbitrary fixed time
func NewMockedTimeSource() MockedTimeSource {
	return &fakeClock{FakeClock: clockwork.NewFakeClock()}
}

// NewMockedTimeSourceAt returns a fake TimeSource starting at t
func NewMockedTimeSourceAt(t time.Time) MockedTimeSource {
	return &fakeClock{FakeClock: clockwork.NewFakeClockAt(t)}
}
