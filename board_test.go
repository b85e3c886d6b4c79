package main

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testItems() [boardArea]string {
	var items [boardArea]string
	for i := range items {
		items[i] = fmt.Sprintf("prompt %02d", i)
	}
	return items
}

func marksFrom(cells ...[2]int) [boardSize][boardSize]bool {
	var marks [boardSize][boardSize]bool
	for _, cell := range cells {
		marks[cell[0]][cell[1]] = true
	}
	return marks
}

func fullRow(r int) [][2]int {
	cells := make([][2]int, 0, boardSize)
	for c := 0; c < boardSize; c++ {
		cells = append(cells, [2]int{r, c})
	}
	return cells
}

func fullCol(c int) [][2]int {
	cells := make([][2]int, 0, boardSize)
	for r := 0; r < boardSize; r++ {
		cells = append(cells, [2]int{r, c})
	}
	return cells
}

func TestGenerateBoardIsPermutation(t *testing.T) {
	items := testItems()

	for i := 0; i < 20; i++ {
		board := generateBoard(items)

		got := make([]string, 0, boardArea)
		for r := 0; r < boardSize; r++ {
			for c := 0; c < boardSize; c++ {
				got = append(got, board[r][c])
			}
		}

		require.ElementsMatch(t, items[:], got)
	}
}

func TestGenerateBoardsAreIndependent(t *testing.T) {
	items := testItems()

	// A shuffle collision across two boards is possible but has
	// probability 1/25!, so distinct boards are a safe expectation.
	first := generateBoard(items)
	second := generateBoard(items)

	assert.NotEqual(t, first, second)
}

func TestCountLines(t *testing.T) {
	full := [boardSize][boardSize]bool{}
	for r := range full {
		for c := range full[r] {
			full[r][c] = true
		}
	}

	cases := []struct {
		name  string
		marks [boardSize][boardSize]bool
		want  int
	}{
		{
			name:  "empty grid",
			marks: marksFrom(),
			want:  0,
		},
		{
			name:  "partial row",
			marks: marksFrom([2]int{0, 0}, [2]int{0, 1}, [2]int{0, 2}, [2]int{0, 3}),
			want:  0,
		},
		{
			name:  "single row",
			marks: marksFrom(fullRow(2)...),
			want:  1,
		},
		{
			name:  "single column",
			marks: marksFrom(fullCol(4)...),
			want:  1,
		},
		{
			name: "main diagonal",
			marks: marksFrom([2]int{0, 0}, [2]int{1, 1}, [2]int{2, 2},
				[2]int{3, 3}, [2]int{4, 4}),
			want: 1,
		},
		{
			name: "anti diagonal",
			marks: marksFrom([2]int{0, 4}, [2]int{1, 3}, [2]int{2, 2},
				[2]int{3, 1}, [2]int{4, 0}),
			want: 1,
		},
		{
			name:  "crossing row and column",
			marks: marksFrom(append(fullRow(1), fullCol(3)...)...),
			want:  2,
		},
		{
			name:  "full grid scores all twelve lines",
			marks: full,
			want:  12,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := countLines(tc.marks)
			assert.Equal(t, tc.want, got)
			assert.GreaterOrEqual(t, got, 0)
			assert.LessOrEqual(t, got, 12)
		})
	}
}

func TestCountLinesIsHistoryIndependent(t *testing.T) {
	marks := marksFrom(fullRow(0)...)

	before := countLines(marks)

	// Toggle an unrelated cell on and back off.
	marks[3][3] = true
	marks[3][3] = false

	assert.Equal(t, before, countLines(marks))
}
