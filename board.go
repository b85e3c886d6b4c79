package main

import (
	"math/rand/v2"
)

const (
	boardSize = 5
	boardArea = boardSize * boardSize
)

// generateBoard shuffles a copy of the 25 room items and lays them out
// row-major. The source array is never mutated, so every player draws
// from the same item set but gets an independent permutation.
func generateBoard(items [boardArea]string) [boardSize][boardSize]string {
	shuffled := items
	rand.Shuffle(boardArea, func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	var board [boardSize][boardSize]string
	for i, item := range shuffled {
		board[i/boardSize][i%boardSize] = item
	}
	return board
}

// countLines returns the number of completed lines in a mark grid:
// 5 rows + 5 columns + 2 diagonals, so always in [0,12]. It recomputes
// from scratch on every call rather than tracking deltas.
func countLines(marks [boardSize][boardSize]bool) int {
	lines := 0

	for r := 0; r < boardSize; r++ {
		full := true
		for c := 0; c < boardSize; c++ {
			if !marks[r][c] {
				full = false
				break
			}
		}
		if full {
			lines++
		}
	}

	for c := 0; c < boardSize; c++ {
		full := true
		for r := 0; r < boardSize; r++ {
			if !marks[r][c] {
				full = false
				break
			}
		}
		if full {
			lines++
		}
	}

	main, anti := true, true
	for i := 0; i < boardSize; i++ {
		if !marks[i][i] {
			main = false
		}
		if !marks[i][boardSize-1-i] {
			anti = false
		}
	}
	if main {
		lines++
	}
	if anti {
		lines++
	}

	return lines
}
