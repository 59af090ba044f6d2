package main

import (
	"github.com/brensch/neonsnake/game"
	"github.com/brensch/neonsnake/rules"
)

var allDirections = []game.Direction{game.Up, game.Down, game.Left, game.Right}

// wrapDist is the shortest distance between a and b on a ring of size n.
func wrapDist(a, b, n int) int {
	d := a - b
	if d < 0 {
		d = -d
	}
	if n-d < d {
		return n - d
	}
	return d
}

// choose picks the safe move that gets closest to the food, preferring the
// current heading on ties. When no move is safe it keeps the current heading.
func choose(s rules.Snapshot) game.Direction {
	grid := game.Grid{Size: s.GridSize}
	snake := game.Snake{Body: s.Snake}

	best := s.Direction
	bestDist := -1
	for _, d := range allDirections {
		if d == s.Direction.Opposite() {
			continue
		}
		next := snake.PeekNextHead(d, grid)
		if snake.SelfCollision(next) {
			continue
		}
		dist := wrapDist(next.X, s.Food.X, s.GridSize) + wrapDist(next.Y, s.Food.Y, s.GridSize)
		if bestDist < 0 || dist < bestDist || (dist == bestDist && d == s.Direction) {
			best, bestDist = d, dist
		}
	}
	return best
}
