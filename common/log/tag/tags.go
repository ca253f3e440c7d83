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

package tag

import (
	"time"

	"github.com/votecube/pollcache/common/types"
)

// All logging tags are defined in this file.
// To help finding available tags, we recommend that all tags to be categorized and placed in the corresponding section.
// We currently have those categories:
//   0. Common tags that can't be categorized(or belong to more than one)
//   1. Poll cache: tags describing polls, periods and timezones
//   2. Dispatcher: tags of the batching pipeline
//   3. System: tags for internal components and processes

///////////////////  Common tags defined here ///////////////////

// Error returns tag for Error
func Error(err error) Tag {
	return newErrorTag("error", err)
}

// Timestamp returns tag for Timestamp
func Timestamp(timestamp time.Time) Tag {
	return newTimeTag("timestamp", timestamp)
}

// Key returns tag for Key
func Key(k string) Tag {
	return newStringTag("key", k)
}

// Value returns tag for Value
func Value(v interface{}) Tag {
	return newObjectTag("value", v)
}

// Name returns tag for Name
func Name(name string) Tag {
	return newStringTag("name", name)
}

// Counter returns tag for Counter
func Counter(c int) Tag {
	return newInt("counter", c)
}

// Number returns tag for Number
func Number(n int64) Tag {
	return newInt64("number", n)
}

// Reason returns tag for Reason
func Reason(reason string) Tag {
	return newStringTag("reason", reason)
}

///////////////////  Poll cache tags defined here ///////////////////

// Timezone returns tag for Timezone
func Timezone(tz types.TimezoneID) Tag {
	return newStringTag("timezone", tz.String())
}

// PollID returns tag for PollID
func PollID(id types.PollID) Tag {
	return newUint64("poll-id", uint64(id))
}

// LocationID returns tag for LocationID
func LocationID(id types.LocationID) Tag {
	return newUint64("location-id", uint64(id))
}

// CategoryID returns tag for CategoryID
func CategoryID(id types.CategoryID) Tag {
	return newUint64("category-id", uint64(id))
}

// Period returns tag for Period
func Period(p types.Period) Tag {
	return newStringTag("period", p.String())
}

// FuturePeriod returns tag for FuturePeriod
func FuturePeriod(p types.FuturePeriod) Tag {
	return newStringTag("future-period", p.String())
}

// Granularity returns tag for Granularity
func Granularity(g types.Granularity) Tag {
	return newStringTag("granularity", g.String())
}

// PeriodIDs returns tag for the full set of period ids of a timezone
func PeriodIDs(ids types.CachePeriodIDs) Tag {
	return newObjectTag("period-ids", ids)
}

// PreviousPeriodIDs returns tag for the period ids replaced by a rotation
func PreviousPeriodIDs(ids types.CachePeriodIDs) Tag {
	return newObjectTag("previous-period-ids", ids)
}

// Dimensionality returns tag for Dimensionality
func Dimensionality(d types.Dimensionality) Tag {
	return newStringTag("dimensionality", d.String())
}

// PromotedPolls returns tag for the number of future polls activated by a rotation
func PromotedPolls(n int) Tag {
	return newInt("promoted-polls", n)
}

///////////////////  Dispatcher tags defined here ///////////////////

// BatchSize returns tag for BatchSize
func BatchSize(size int) Tag {
	return newInt("batch-size", size)
}

// EntryID returns tag for the id of one batched entry
func EntryID(id string) Tag {
	return newStringTag("entry-id", id)
}

// Unfilled returns tag for the number of entries left without a result
func Unfilled(n int) Tag {
	return newInt("unfilled", n)
}

// Latency returns tag for Latency
func Latency(d time.Duration) Tag {
	return newDurationTag("latency", d)
}

///////////////////  System tags defined here ///////////////////

// Component returns tag for Component
func Component(c component) Tag {
	return newStringTag("component", string(c))
}

// Lifecycle returns tag for Lifecycle
func Lifecycle(l lifecycle) Tag {
	return newStringTag("lifecycle", string(l))
}

// Service returns tag for Service
func Service(name string) Tag {
	return newStringTag("service", name)
}

// Address returns tag for Address
func Address(addr string) Tag {
	return newStringTag("address", addr)
}

// Env returns tag for Env
func Env(env string) Tag {
	return newStringTag("env", env)
}

// Zone returns tag for Zone
func Zone(zone string) Tag {
	return newStringTag("zone", zone)
}

// ConfigDir returns tag for ConfigDir
func ConfigDir(dir string) Tag {
	return newStringTag("config-dir", dir)
}

// Rotating returns tag for the rotation flag of a timezone
func Rotating(b bool) Tag {
	return newBoolTag("rotating", b)
}

// Interval returns tag for Interval
func Interval(d time.Duration) Tag {
	return newDurationTag("interval", d)
}
