package game

import (
	"math/rand"
	"testing"
)

func TestSpawn_NeverOnSnake(t *testing.T) {
	grid := Grid{Size: 15}
	rng := rand.New(rand.NewSource(1))
	spawner := NewFoodSpawner(grid, rng)
	s := NewSnake(Point{X: 4, Y: 7}, 3)

	for i := 0; i < 500; i++ {
		p, ok := spawner.Spawn(&s)
		if !ok {
			t.Fatalf("spawn %d: board reported full", i)
		}
		if !grid.Contains(p) {
			t.Fatalf("spawn %d: %v off board", i, p)
		}
		if s.Occupies(p) {
			t.Fatalf("spawn %d: food %v on snake\n%s", i, p, dumpBoard(grid, s, &p))
		}
	}
}

func TestSpawn_LastFreeCell(t *testing.T) {
	grid := Grid{Size: 3}
	s := Snake{}
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			if x == 2 && y == 1 {
				continue
			}
			s.Body = append(s.Body, Point{X: x, Y: y})
		}
	}
	spawner := NewFoodSpawner(grid, rand.New(rand.NewSource(7)))
	for i := 0; i < 20; i++ {
		p, ok := spawner.Spawn(&s)
		if !ok || p != (Point{X: 2, Y: 1}) {
			t.Fatalf("spawn=%v,%v want=(2,1),true", p, ok)
		}
	}
}

func TestSpawn_FullBoard(t *testing.T) {
	grid := Grid{Size: 2}
	s := Snake{Body: []Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}}
	if _, ok := NewFoodSpawner(grid, nil).Spawn(&s); ok {
		t.Fatalf("expected full board to report no free cell")
	}
}

func TestSpawn_DeterministicWithoutRNG(t *testing.T) {
	grid := Grid{Size: 15}
	s := NewSnake(Point{X: 4, Y: 7}, 3)
	a := NewFoodSpawner(grid, nil)
	b := NewFoodSpawner(grid, nil)
	for i := 0; i < 10; i++ {
		pa, _ := a.Spawn(&s)
		pb, _ := b.Spawn(&s)
		if pa != pb {
			t.Fatalf("spawn %d: %v != %v", i, pa, pb)
		}
		if s.Occupies(pa) {
			t.Fatalf("spawn %d: food %v on snake", i, pa)
		}
	}
}

func TestSpawn_CoversEveryFreeCell(t *testing.T) {
	grid := Grid{Size: 4}
	s := NewSnake(Point{X: 2, Y: 0}, 3)
	spawner := NewFoodSpawner(grid, rand.New(rand.NewSource(42)))

	seen := make(map[Point]bool)
	for i := 0; i < 2000; i++ {
		p, _ := spawner.Spawn(&s)
		seen[p] = true
	}
	if want := grid.Cells() - s.Len(); len(seen) != want {
		t.Fatalf("distinct cells=%d want=%d", len(seen), want)
	}
}
