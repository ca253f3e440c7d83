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

package pending

import (
	"encoding/binary"
	"math/bits"

	"github.com/votecube/pollcache/common/types"
)

// MaxByteWidth is the width of an unconstrained poll id
const MaxByteWidth = 8

// ByteWidth returns the minimum number of bytes, at least one, that encodes id
func ByteWidth(id types.PollID) uint8 {
	width := (bits.Len64(uint64(id)) + 7) / 8
	if width == 0 {
		return 1
	}
	return uint8(width)
}

// EncodePage writes the page as its width byte followed by every id,
// big endian, truncated to that width
func EncodePage(page Page) []byte {
	width := int(page.ByteWidth)
	if width < 1 || width > MaxByteWidth {
		width = MaxByteWidth
	}
	out := make([]byte, 1+width*len(page.IDs))
	out[0] = byte(width)
	var scratch [MaxByteWidth]byte
	for i, id := range page.IDs {
		binary.BigEndian.PutUint64(scratch[:], uint64(id))
		copy(out[1+i*width:], scratch[MaxByteWidth-width:])
	}
	return out
}

// DecodePage reverses EncodePage
func DecodePage(data []byte) ([]types.PollID, bool) {
	if len(data) == 0 {
		return nil, false
	}
	width := int(data[0])
	if width < 1 || width > MaxByteWidth || (len(data)-1)%width != 0 {
		return nil, false
	}
	ids := make([]types.PollID, 0, (len(data)-1)/width)
	var scratch [MaxByteWidth]byte
	for offset := 1; offset < len(data); offset += width {
		scratch = [MaxByteWidth]byte{}
		copy(scratch[MaxByteWidth-width:], data[offset:offset+width])
		ids = append(ids, types.PollID(binary.BigEndian.Uint64(scratch[:])))
	}
	return ids, true
}
