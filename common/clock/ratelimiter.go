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
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type (
	// Ratelimiter is a token bucket whose notion of "now" comes from a TimeSource,
	// so intake limits can be tested with a fake clock.
	Ratelimiter interface {
		Allow() bool
		Burst() int
		Limit() rate.Limit
		SetLimit(newLimit rate.Limit)
		Tokens() float64
	}

	ratelimiter struct {
		timesource TimeSource
		mut        sync.Mutex
		// never rewinds, rate.Limiter misbehaves when time goes backwards
		latestNow time.Time
		limiter   *rate.Limiter
	}
)

var _ Ratelimiter = (*ratelimiter)(nil)

// NewRatelimiter returns a Ratelimiter on the wall clock
func NewRatelimiter(lim rate.Limit, burst int) Ratelimiter {
	return NewMockRatelimiter(NewRealTimeSource(), lim, burst)
}

// NewMockRatelimiter returns a Ratelimiter driven by ts
func NewMockRatelimiter(ts TimeSource, lim rate.Limit, burst int) Ratelimiter {
	return &ratelimiter{
		timesource: ts,
		limiter:    rate.NewLimiter(lim, burst),
	}
}

func (r *ratelimiter) lockNow() (time.Time, func()) {
	r.mut.Lock()
	now := r.timesource.Now()
	if now.Before(r.latestNow) {
		now = r.latestNow
	}
	r.latestNow = now
	return now, r.mut.Unlock
}

func (r *ratelimiter) Allow() bool {
	now, unlock := r.lockNow()
	defer unlock()
	return r.limiter.AllowN(now, 1)
}

func (r *ratelimiter) Burst() int {
	return r.limiter.Burst()
}

func (r *ratelimiter) Limit() rate.Limit {
	return r.limiter.Limit()
}

func (r *ratelimiter) SetLimit(newLimit rate.Limit) {
	now, unlock := r.lockNow()
	defer unlock()
	r.limiter.SetLimitAt(now, newLimit)
}

func (r *ratelimiter) Tokens() float64 {
	now, unlock := r.lockNow()
	defer unlock()
	return r.limiter.TokensAt(now)
}
