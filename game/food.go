// food.go implements food placement for Neon Snake.

package game

import (
	"math/rand"
)

// FoodSpawner picks a uniformly random free cell for the next food item.
//
// Free cells are enumerated rather than sampled with retries, so Spawn always
// terminates, even when the snake covers nearly the whole board.
type FoodSpawner struct {
	grid  Grid
	rng   *rand.Rand
	calls uint64
}

// NewFoodSpawner returns a spawner for grid. If rng is nil we use
// deterministic pseudo-random logic so headless runs are reproducible.
func NewFoodSpawner(grid Grid, rng *rand.Rand) *FoodSpawner {
	return &FoodSpawner{grid: grid, rng: rng}
}

// Spawn returns a cell not occupied by snake. It returns false when the board
// is full.
func (f *FoodSpawner) Spawn(snake *Snake) (Point, bool) {
	occupied := make(map[Point]struct{}, snake.Len())
	for _, p := range snake.Body {
		occupied[p] = struct{}{}
	}

	free := make([]Point, 0, f.grid.Cells()-len(occupied))
	for y := 0; y < f.grid.Size; y++ {
		for x := 0; x < f.grid.Size; x++ {
			p := Point{X: x, Y: y}
			if _, ok := occupied[p]; !ok {
				free = append(free, p)
			}
		}
	}
	if len(free) == 0 {
		return Point{}, false
	}

	f.calls++
	var idx int
	if f.rng != nil {
		idx = f.rng.Intn(len(free))
	} else {
		idx = int(deterministicU64Fast(f.calls, uint64(len(free))) % uint64(len(free)))
	}
	return free[idx], true
}

// deterministicU64Fast is a simple deterministic hasher for reproducibility.
func deterministicU64Fast(a, b uint64) uint64 {
	// Variant of splitmix64
	x := a*0x9e3779b97f4a7c15 + b
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
