package rules

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/brensch/neonsnake/game"
)

// Engine is the single-player state machine.
//
// It is not safe for concurrent use: exactly one goroutine (the session loop)
// owns an Engine and calls its methods. Commands that make no sense in the
// current phase are silent no-ops.
type Engine struct {
	cfg     Config
	grid    game.Grid
	spawner *game.FoodSpawner

	phase   Phase
	snake   game.Snake
	food    game.Point
	dir     game.Direction
	pending game.Direction

	score     int
	highScore int
	foodEaten int
	level     int
	interval  time.Duration
}

// NewEngine validates cfg and returns an Idle engine with a fresh board laid
// out. A nil rng makes food placement deterministic.
func NewEngine(cfg Config, rng *rand.Rand) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	grid := game.Grid{Size: cfg.GridSize}
	e := &Engine{
		cfg:     cfg,
		grid:    grid,
		spawner: game.NewFoodSpawner(grid, rng),
	}
	e.resetBoard()
	return e, nil
}

func (e *Engine) Config() Config {
	return e.cfg
}

func (e *Engine) Phase() Phase {
	return e.phase
}

// Interval is the current delay between ticks.
func (e *Engine) Interval() time.Duration {
	return e.interval
}

func (e *Engine) HighScore() int {
	return e.highScore
}

// SetHighScore seeds the persisted best score. Negative values count as 0.
func (e *Engine) SetHighScore(n int) {
	if n < 0 {
		n = 0
	}
	e.highScore = n
}

// StartPosition returns the head of a fresh snake: on the middle row, a
// quarter of the way in from the left edge.
func StartPosition(gridSize int) game.Point {
	return game.Point{X: gridSize/4 + 1, Y: gridSize / 2}
}

// resetBoard lays out a fresh board without touching phase or high score.
func (e *Engine) resetBoard() {
	e.snake = game.NewSnake(StartPosition(e.cfg.GridSize), InitialLength)
	e.dir = game.Right
	e.pending = game.Right
	e.score = 0
	e.foodEaten = 0
	e.level = 1
	e.interval = e.cfg.InitialInterval
	if food, ok := e.spawner.Spawn(&e.snake); ok {
		e.food = food
	}
}

// Start begins a new game from Idle or GameOver. It reports whether the
// command was accepted.
func (e *Engine) Start() bool {
	if e.phase != PhaseIdle && e.phase != PhaseGameOver {
		return false
	}
	e.resetBoard()
	e.phase = PhaseRunning
	return true
}

// Reset discards the current game, whatever its phase, and starts a new one.
func (e *Engine) Reset() {
	e.resetBoard()
	e.phase = PhaseRunning
}

// ReturnToMenu abandons the current game and goes back to Idle.
func (e *Engine) ReturnToMenu() {
	e.resetBoard()
	e.phase = PhaseIdle
}

// TogglePause flips between Running and Paused.
func (e *Engine) TogglePause() bool {
	switch e.phase {
	case PhaseRunning:
		e.phase = PhasePaused
		return true
	case PhasePaused:
		e.phase = PhaseRunning
		return true
	}
	return false
}

func (e *Engine) Pause() bool {
	if e.phase != PhaseRunning {
		return false
	}
	e.phase = PhasePaused
	return true
}

// Resume continues a paused game at the current interval.
func (e *Engine) Resume() bool {
	if e.phase != PhasePaused {
		return false
	}
	e.phase = PhaseRunning
	return true
}

// SetIntendedDirection records d for the next tick. It is ignored unless the
// game is running and unpaused, and when d would reverse the snake into its
// own neck. The last accepted call before a tick wins.
func (e *Engine) SetIntendedDirection(d game.Direction) bool {
	if e.phase != PhaseRunning || !d.Valid() {
		return false
	}
	if d == e.dir.Opposite() {
		return false
	}
	e.pending = d
	return true
}

// Tick advances the game by one cell. ok is false when the engine is not
// running, in which case nothing changes.
func (e *Engine) Tick() (Event, bool) {
	if e.phase != PhaseRunning {
		return Event{}, false
	}

	e.dir = e.pending
	newHead := e.snake.PeekNextHead(e.dir, e.grid)

	if e.snake.SelfCollision(newHead) {
		e.phase = PhaseGameOver
		return Event{
			Kind:     EventGameOver,
			Snapshot: e.Snapshot(),
			Summary: Summary{
				Score:     e.score,
				Length:    e.snake.Len(),
				FoodEaten: e.foodEaten,
			},
		}, true
	}

	grew := newHead == e.food
	e.snake.Advance(newHead, grew)

	ev := Event{Kind: EventTick, Grew: grew}
	if grew {
		ev.LevelUp, ev.NewHighScore = e.eat()
	}
	ev.Snapshot = e.Snapshot()
	return ev, true
}

// Snapshot copies the current state for rendering.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Phase:     e.phase,
		GridSize:  e.cfg.GridSize,
		Snake:     e.snake.Clone().Body,
		Food:      e.food,
		Direction: e.dir,
		Score:     e.score,
		HighScore: e.highScore,
		Interval:  e.interval,
		FoodEaten: e.foodEaten,
		Level:     e.level,
	}
}
