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

	"github.com/votecube/pollcache/common/types"
)

const secondsPerDay = 24 * 60 * 60

// 1970-01-01 was a Thursday, the first Monday-based week starts three days earlier
const epochWeekdayOffset = 3

// DayIDAt returns the day containing t on the wall clock of tz
func DayIDAt(tz types.TimezoneID, t time.Time) types.DayID {
	y, m, d := t.In(tz.Location()).Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix()
	return types.DayID(floorDiv(midnight, secondsPerDay))
}

// WeekIDOf returns the Monday-based week containing day
func WeekIDOf(day types.DayID) types.WeekID {
	return types.WeekID(floorDiv(int64(day)+epochWeekdayOffset, 7))
}

// MonthIDAt returns the month containing t on the wall clock of tz
func MonthIDAt(tz types.TimezoneID, t time.Time) types.MonthID {
	y, m, _ := t.In(tz.Location()).Date()
	return types.MonthID((y-1970)*12 + int(m) - 1)
}

// PeriodIDsAt returns the full set of period ids a timezone keeps warm at instant t.
// The global partition follows UTC.
func PeriodIDsAt(tz types.TimezoneID, t time.Time) types.CachePeriodIDs {
	today := DayIDAt(tz, t)
	week := WeekIDOf(today)
	month := MonthIDAt(tz, t)
	return types.CachePeriodIDs{
		DayBeforeYesterday: today - 2,
		Yesterday:          today - 1,
		Today:              today,
		Tomorrow:           today + 1,
		DayAfterTomorrow:   today + 2,
		LastWeek:           week - 1,
		ThisWeek:           week,
		NextWeek:           week + 1,
		LastMonth:          month - 1,
		ThisMonth:          month,
		NextMonth:          month + 1,
	}
}

// CurrentPeriodIDs returns PeriodIDsAt for the current time of the source
func CurrentPeriodIDs(ts TimeSource, tz types.TimezoneID) types.CachePeriodIDs {
	return PeriodIDsAt(tz, ts.Now())
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
