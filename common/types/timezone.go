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

import (
	"fmt"
	"time"
)

// TimezoneID addresses one of the fixed UTC offsets the cache partitions by.
// Day, week and month boundaries are local to each of them.
type TimezoneID uint8

// the 38 UTC offsets in use, west to east
const (
	TimezoneUTCMinus1200 TimezoneID = iota
	TimezoneUTCMinus1100
	TimezoneUTCMinus1000
	TimezoneUTCMinus0930
	TimezoneUTCMinus0900
	TimezoneUTCMinus0800
	TimezoneUTCMinus0700
	TimezoneUTCMinus0600
	TimezoneUTCMinus0500
	TimezoneUTCMinus0400
	TimezoneUTCMinus0330
	TimezoneUTCMinus0300
	TimezoneUTCMinus0200
	TimezoneUTCMinus0100
	TimezoneUTC
	TimezoneUTCPlus0100
	TimezoneUTCPlus0200
	TimezoneUTCPlus0300
	TimezoneUTCPlus0330
	TimezoneUTCPlus0400
	TimezoneUTCPlus0430
	TimezoneUTCPlus0500
	TimezoneUTCPlus0530
	TimezoneUTCPlus0545
	TimezoneUTCPlus0600
	TimezoneUTCPlus0630
	TimezoneUTCPlus0700
	TimezoneUTCPlus0800
	TimezoneUTCPlus0845
	TimezoneUTCPlus0900
	TimezoneUTCPlus0930
	TimezoneUTCPlus1000
	TimezoneUTCPlus1030
	TimezoneUTCPlus1100
	TimezoneUTCPlus1200
	TimezoneUTCPlus1245
	TimezoneUTCPlus1300
	TimezoneUTCPlus1400

	// TimezoneGlobal is the cross-timezone partition used for global category rankings.
	// Its calendar follows UTC.
	TimezoneGlobal
)

const (
	// NumTimezones is the number of real timezones
	NumTimezones = int(TimezoneGlobal)
	// NumTimezonesWithGlobal also counts the global category partition
	NumTimezonesWithGlobal = NumTimezones + 1
)

// offsets in minutes east of UTC, indexed by TimezoneID
var timezoneOffsets = [NumTimezonesWithGlobal]int{
	-12 * 60, -11 * 60, -10 * 60, -(9*60 + 30), -9 * 60, -8 * 60, -7 * 60, -6 * 60,
	-5 * 60, -4 * 60, -(3*60 + 30), -3 * 60, -2 * 60, -1 * 60, 0, 1 * 60,
	2 * 60, 3 * 60, 3*60 + 30, 4 * 60, 4*60 + 30, 5 * 60, 5*60 + 30, 5*60 + 45,
	6 * 60, 6*60 + 30, 7 * 60, 8 * 60, 8*60 + 45, 9 * 60, 9*60 + 30, 10 * 60,
	10*60 + 30, 11 * 60, 12 * 60, 12*60 + 45, 13 * 60, 14 * 60,
	0, // global
}

// AllTimezones returns every partition, west to east, with the global partition last
func AllTimezones() []TimezoneID {
	zones := make([]TimezoneID, 0, NumTimezonesWithGlobal)
	for tz := TimezoneID(0); int(tz) < NumTimezonesWithGlobal; tz++ {
		zones = append(zones, tz)
	}
	return zones
}

// IsValid returns true for real timezones and the global partition
func (tz TimezoneID) IsValid() bool {
	return int(tz) < NumTimezonesWithGlobal
}

// IsGlobal returns true for the cross-timezone partition
func (tz TimezoneID) IsGlobal() bool {
	return tz == TimezoneGlobal
}

// Offset returns the fixed offset of the timezone east of UTC
func (tz TimezoneID) Offset() time.Duration {
	return time.Duration(timezoneOffsets[tz]) * time.Minute
}

// Location returns a fixed time.Location for wall clock computations
func (tz TimezoneID) Location() *time.Location {
	return time.FixedZone(tz.String(), int(tz.Offset()/time.Second))
}

func (tz TimezoneID) String() string {
	if !tz.IsValid() {
		return fmt.Sprintf("Timezone(%d)", uint8(tz))
	}
	if tz.IsGlobal() {
		return "global"
	}
	minutes := timezoneOffsets[tz]
	sign := '+'
	if minutes < 0 {
		sign = '-'
		minutes = -minutes
	}
	return fmt.Sprintf("UTC%c%02d:%02d", sign, minutes/60, minutes%60)
}
