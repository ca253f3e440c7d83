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

// Package ranking maintains bounded leaderboards of vote counts, one per dense row.
package ranking

import "github.com/votecube/pollcache/common/types"

type (
	// Row is any dense index type addressing a leaderboard
	Row interface {
		~uint32
	}

	// Table is a set of leaderboards addressed by dense row index.
	// Each leaderboard keeps at most capacity records ordered by
	// descending count, ties by ascending poll id.
	Table[R Row] struct {
		capacity int
		rows     [][]types.VoteCount
	}

	// Nested is a set of Tables addressed by an outer row,
	// used for the category leaderboards within each location
	Nested[R Row, C Row] struct {
		capacity int
		rows     []*Table[C]
	}
)

// NewTable creates a Table of leaderboards holding at most capacity records each
func NewTable[R Row](capacity int) *Table[R] {
	return &Table[R]{capacity: capacity}
}

// Grow makes sure rows [0, rows) exist
func (t *Table[R]) Grow(rows int) {
	for len(t.rows) < rows {
		t.rows = append(t.rows, nil)
	}
}

// Rows returns the number of reserved rows
func (t *Table[R]) Rows() int {
	return len(t.rows)
}

// Update places vc on the leaderboard of row, replacing the previous record of the same poll.
// A record that ranks below the tail of a full leaderboard is dropped.
// It returns whether vc is on the leaderboard after the update.
func (t *Table[R]) Update(row R, vc types.VoteCount) bool {
	t.Grow(int(row) + 1)
	board := t.rows[row]
	if board == nil {
		board = make([]types.VoteCount, 0, t.capacity)
	}

	pos := -1
	for i := range board {
		if board[i].PollID == vc.PollID {
			pos = i
			break
		}
	}

	switch {
	case pos >= 0:
		board[pos] = vc
	case len(board) < t.capacity:
		board = append(board, vc)
		pos = len(board) - 1
	case len(board) > 0 && vc.RanksBefore(board[len(board)-1]):
		pos = len(board) - 1
		board[pos] = vc
	default:
		t.rows[row] = board
		return false
	}

	for pos > 0 && board[pos].RanksBefore(board[pos-1]) {
		board[pos], board[pos-1] = board[pos-1], board[pos]
		pos--
	}
	for pos < len(board)-1 && board[pos+1].RanksBefore(board[pos]) {
		board[pos], board[pos+1] = board[pos+1], board[pos]
		pos++
	}
	t.rows[row] = board
	return true
}

// TopN returns a copy of the first n records of the leaderboard of row
func (t *Table[R]) TopN(row R, n int) []types.VoteCount {
	if int(row) >= len(t.rows) || n <= 0 {
		return []types.VoteCount{}
	}
	board := t.rows[row]
	if n > len(board) {
		n = len(board)
	}
	top := make([]types.VoteCount, n)
	copy(top, board[:n])
	return top
}

// Clear empties the leaderboard of row
func (t *Table[R]) Clear(row R) {
	if int(row) < len(t.rows) {
		t.rows[row] = nil
	}
}

// NewNested creates a Nested table whose leaderboards hold at most capacity records
func NewNested[R Row, C Row](capacity int) *Nested[R, C] {
	return &Nested[R, C]{capacity: capacity}
}

// Grow makes sure outer rows [0, rows) exist
func (n *Nested[R, C]) Grow(rows int) {
	for len(n.rows) < rows {
		n.rows = append(n.rows, NewTable[C](n.capacity))
	}
}

// Rows returns the number of reserved outer rows
func (n *Nested[R, C]) Rows() int {
	return len(n.rows)
}

// Row returns the table of the outer row, reserving it if needed
func (n *Nested[R, C]) Row(row R) *Table[C] {
	n.Grow(int(row) + 1)
	return n.rows[row]
}

// Update places vc on the leaderboard at (row, column)
func (n *Nested[R, C]) Update(row R, column C, vc types.VoteCount) bool {
	return n.Row(row).Update(column, vc)
}

// TopN returns a copy of the first count records of the leaderboard at (row, column)
func (n *Nested[R, C]) TopN(row R, column C, count int) []types.VoteCount {
	if int(row) >= len(n.rows) {
		return []types.VoteCount{}
	}
	return n.rows[row].TopN(column, count)
}
