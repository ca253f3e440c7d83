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

package metrics

import "github.com/votecube/pollcache/common/types"

const (
	operation   = "operation"
	timezone    = "timezone"
	period      = "period"
	granularity = "granularity"
	endpoint    = "endpoint"
)

type (
	// Tag is a key/value pair attached to a Scope
	Tag interface {
		Key() string
		Value() string
	}

	simpleMetric struct {
		key   string
		value string
	}
)

func (s simpleMetric) Key() string   { return s.key }
func (s simpleMetric) Value() string { return s.value }

// TimezoneTag returns a new timezone tag
func TimezoneTag(tz types.TimezoneID) Tag {
	return simpleMetric{key: timezone, value: tz.String()}
}

// PeriodTag returns a new period tag
func PeriodTag(p types.Period) Tag {
	return simpleMetric{key: period, value: p.String()}
}

// GranularityTag returns a new granularity tag
func GranularityTag(g types.Granularity) Tag {
	return simpleMetric{key: granularity, value: g.String()}
}

// OperationTag returns a new operation tag
func OperationTag(value string) Tag {
	return simpleMetric{key: operation, value: value}
}
