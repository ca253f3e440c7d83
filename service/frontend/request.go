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

package frontend

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/valyala/fastjson"

	"github.com/votecube/pollcache/common/types"
	"github.com/votecube/pollcache/service/cache"
	"github.com/votecube/pollcache/service/cache/pending"
)

var parserPool fastjson.ParserPool

// parseCreatePoll reads
// {"timezone": 14, "dimensionality": 2, "granularity": "day", "future": "tomorrow", "locationId": 1, "categoryId": 7}
// where future and categoryId are optional
func parseCreatePoll(body []byte) (*cache.CreatePollRequest, error) {
	parser := parserPool.Get()
	defer parserPool.Put(parser)

	v, err := parser.ParseBytes(body)
	if err != nil {
		return nil, err
	}

	request := &cache.CreatePollRequest{}
	if request.Timezone, err = requiredTimezone(v); err != nil {
		return nil, err
	}

	dim, err := requiredUint(v, "dimensionality", uint64(types.ThreeD))
	if err != nil {
		return nil, err
	}
	request.Dimensionality = types.Dimensionality(dim)

	granularity, err := requiredString(v, "granularity")
	if err != nil {
		return nil, err
	}
	if request.Granularity, err = parseGranularity(granularity); err != nil {
		return nil, err
	}

	if v.Exists("future") {
		name, err := requiredString(v, "future")
		if err != nil {
			return nil, err
		}
		future, err := types.ParseFuturePeriod(name)
		if err != nil {
			return nil, err
		}
		request.Future = &future
	}

	location, err := requiredUint(v, "locationId", 0)
	if err != nil {
		return nil, err
	}
	request.LocationID = types.LocationID(location)

	if v.Exists("categoryId") {
		category, err := requiredUint(v, "categoryId", 0)
		if err != nil {
			return nil, err
		}
		request.CategoryID = types.CategoryID(category)
	}
	return request, nil
}

// parseVote reads {"timezone": 14, "pollId": 3, "direction": 1, "weight": 10}
func parseVote(body []byte) (*cache.VoteRequest, error) {
	parser := parserPool.Get()
	defer parserPool.Put(parser)

	v, err := parser.ParseBytes(body)
	if err != nil {
		return nil, err
	}

	tz, err := requiredTimezone(v)
	if err != nil {
		return nil, err
	}
	poll, err := requiredUint(v, "pollId", 0)
	if err != nil {
		return nil, err
	}
	direction, err := requiredUint(v, "direction", 255)
	if err != nil {
		return nil, err
	}
	weight, err := requiredUint(v, "weight", 1<<32-1)
	if err != nil {
		return nil, err
	}
	return &cache.VoteRequest{
		Timezone:  tz,
		PollID:    types.PollID(poll),
		Direction: types.Direction(direction),
		Weight:    uint32(weight),
	}, nil
}

// requiredUint reads a non negative integer field, bounded by max unless max is zero
func requiredUint(v *fastjson.Value, key string, max uint64) (uint64, error) {
	field := v.Get(key)
	if field == nil {
		return 0, fmt.Errorf("%s is required", key)
	}
	n, err := field.Uint64()
	if err != nil {
		return 0, fmt.Errorf("%s: %v", key, err)
	}
	if max > 0 && n > max {
		return 0, fmt.Errorf("%s must not exceed %d, got %d", key, max, n)
	}
	return n, nil
}

// requiredTimezone reads a partition id. Whether the global partition is allowed is up to the caller.
func requiredTimezone(v *fastjson.Value) (types.TimezoneID, error) {
	n, err := requiredUint(v, "timezone", 0)
	if err != nil {
		return 0, err
	}
	if n > uint64(types.TimezoneGlobal) || !types.TimezoneID(n).IsValid() {
		return 0, fmt.Errorf("invalid timezone %d", n)
	}
	return types.TimezoneID(n), nil
}

func requiredString(v *fastjson.Value, key string) (string, error) {
	field := v.Get(key)
	if field == nil {
		return "", fmt.Errorf("%s is required", key)
	}
	s, err := field.StringBytes()
	if err != nil {
		return "", fmt.Errorf("%s: %v", key, err)
	}
	return string(s), nil
}

func parseGranularity(name string) (types.Granularity, error) {
	for g := types.Granularity(0); g < types.NumGranularities; g++ {
		if g.String() == name {
			return g, nil
		}
	}
	return 0, fmt.Errorf("unknown granularity %q", name)
}

// query parameters

func queryTimezone(q url.Values, allowGlobal bool) (types.TimezoneID, error) {
	raw := q.Get("tz")
	if allowGlobal && raw == types.TimezoneGlobal.String() {
		return types.TimezoneGlobal, nil
	}
	n, err := strconv.ParseUint(raw, 10, 8)
	if err != nil || int(n) >= types.NumTimezones {
		return 0, fmt.Errorf("invalid tz %q", raw)
	}
	return types.TimezoneID(n), nil
}

func queryPeriod(q url.Values) (types.Period, error) {
	raw := q.Get("period")
	if raw == "" {
		return types.PeriodToday, nil
	}
	return types.ParsePeriod(raw)
}

func queryUint(q url.Values, key string, required bool) (uint64, error) {
	raw := q.Get(key)
	if raw == "" {
		if required {
			return 0, fmt.Errorf("%s is required", key)
		}
		return 0, nil
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", key, raw)
	}
	return n, nil
}

func queryLimit(q url.Values, max int) (int, error) {
	n, err := queryUint(q, "n", false)
	if err != nil {
		return 0, err
	}
	if n == 0 || n > uint64(max) {
		return max, nil
	}
	return int(n), nil
}

func queryCursor(q url.Values) (pending.Cursor, error) {
	n, err := queryUint(q, "cursor", false)
	return pending.Cursor(n), err
}
