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

package types

import "fmt"

// Granularity is the calendar unit a poll runs for
type Granularity uint8

const (
	// GranularityDay polls run for one day
	GranularityDay Granularity = iota
	// GranularityWeek polls run for one week
	GranularityWeek
	// GranularityMonth polls run for one month
	GranularityMonth

	NumGranularities = 3
)

func (g Granularity) String() string {
	switch g {
	case GranularityDay:
		return "day"
	case GranularityWeek:
		return "week"
	case GranularityMonth:
		return "month"
	}
	return fmt.Sprintf("Granularity(%d)", uint8(g))
}

// IsValid returns true for day, week and month
func (g Granularity) IsValid() bool {
	return g < NumGranularities
}

// ActivePeriod returns the ranked period in which polls of this granularity take votes
func (g Granularity) ActivePeriod() Period {
	switch g {
	case GranularityWeek:
		return PeriodThisWeek
	case GranularityMonth:
		return PeriodThisMonth
	default:
		return PeriodToday
	}
}

// Period is one of the ranked (current or past) period buckets kept per timezone
type Period uint8

const (
	PeriodToday Period = iota
	PeriodYesterday
	PeriodDayBeforeYesterday
	PeriodThisWeek
	PeriodLastWeek
	PeriodThisMonth
	PeriodLastMonth

	NumPeriods = 7
)

var periodNames = [NumPeriods]string{
	"today", "yesterday", "day-before-yesterday", "this-week", "last-week", "this-month", "last-month",
}

func (p Period) String() string {
	if !p.IsValid() {
		return fmt.Sprintf("Period(%d)", uint8(p))
	}
	return periodNames[p]
}

// IsValid returns true for the seven ranked periods
func (p Period) IsValid() bool {
	return p < NumPeriods
}

// Granularity returns the calendar unit of the period
func (p Period) Granularity() Granularity {
	switch p {
	case PeriodThisWeek, PeriodLastWeek:
		return GranularityWeek
	case PeriodThisMonth, PeriodLastMonth:
		return GranularityMonth
	default:
		return GranularityDay
	}
}

// ParsePeriod converts the String form back into a Period
func ParsePeriod(name string) (Period, error) {
	for p, n := range periodNames {
		if n == name {
			return Period(p), nil
		}
	}
	return 0, fmt.Errorf("unknown period %q", name)
}

// FuturePeriod is one of the upcoming period buckets that only collect newly created polls
type FuturePeriod uint8

const (
	FutureTomorrow FuturePeriod = iota
	FutureDayAfterTomorrow
	FutureNextWeek
	FutureNextMonth

	NumFuturePeriods = 4
)

var futurePeriodNames = [NumFuturePeriods]string{
	"tomorrow", "day-after-tomorrow", "next-week", "next-month",
}

func (p FuturePeriod) String() string {
	if !p.IsValid() {
		return fmt.Sprintf("FuturePeriod(%d)", uint8(p))
	}
	return futurePeriodNames[p]
}

// IsValid returns true for the four future periods
func (p FuturePeriod) IsValid() bool {
	return p < NumFuturePeriods
}

// Granularity returns the calendar unit of the future period
func (p FuturePeriod) Granularity() Granularity {
	switch p {
	case FutureNextWeek:
		return GranularityWeek
	case FutureNextMonth:
		return GranularityMonth
	default:
		return GranularityDay
	}
}

// ParseFuturePeriod converts the String form back into a FuturePeriod
func ParseFuturePeriod(name string) (FuturePeriod, error) {
	for p, n := range futurePeriodNames {
		if n == name {
			return FuturePeriod(p), nil
		}
	}
	return 0, fmt.Errorf("unknown future period %q", name)
}

// CachePeriodIDs holds the ids of every period currently kept warm for one timezone
// (or for the global partition)
type CachePeriodIDs struct {
	DayBeforeYesterday DayID
	Yesterday          DayID
	Today              DayID
	Tomorrow           DayID
	DayAfterTomorrow   DayID
	LastWeek           WeekID
	ThisWeek           WeekID
	NextWeek           WeekID
	LastMonth          MonthID
	ThisMonth          MonthID
	NextMonth          MonthID
}

// PeriodKey names one concrete calendar period regardless of its position relative to now
type PeriodKey struct {
	Granularity Granularity
	ID          int32
}

// Key returns the concrete calendar period currently sitting in ranked position p
func (ids CachePeriodIDs) Key(p Period) PeriodKey {
	switch p {
	case PeriodToday:
		return PeriodKey{GranularityDay, int32(ids.Today)}
	case PeriodYesterday:
		return PeriodKey{GranularityDay, int32(ids.Yesterday)}
	case PeriodDayBeforeYesterday:
		return PeriodKey{GranularityDay, int32(ids.DayBeforeYesterday)}
	case PeriodThisWeek:
		return PeriodKey{GranularityWeek, int32(ids.ThisWeek)}
	case PeriodLastWeek:
		return PeriodKey{GranularityWeek, int32(ids.LastWeek)}
	case PeriodThisMonth:
		return PeriodKey{GranularityMonth, int32(ids.ThisMonth)}
	case PeriodLastMonth:
		return PeriodKey{GranularityMonth, int32(ids.LastMonth)}
	}
	panic(fmt.Sprintf("unknown period %d", p))
}

// FutureKey returns the concrete calendar period currently sitting in future position p
func (ids CachePeriodIDs) FutureKey(p FuturePeriod) PeriodKey {
	switch p {
	case FutureTomorrow:
		return PeriodKey{GranularityDay, int32(ids.Tomorrow)}
	case FutureDayAfterTomorrow:
		return PeriodKey{GranularityDay, int32(ids.DayAfterTomorrow)}
	case FutureNextWeek:
		return PeriodKey{GranularityWeek, int32(ids.NextWeek)}
	case FutureNextMonth:
		return PeriodKey{GranularityMonth, int32(ids.NextMonth)}
	}
	panic(fmt.Sprintf("unknown future period %d", p))
}
