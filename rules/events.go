package rules

import (
	"time"

	"github.com/brensch/neonsnake/game"
)

// Phase is the engine's lifecycle state.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseRunning
	PhasePaused
	PhaseGameOver
)

var phaseNames = [...]string{"idle", "running", "paused", "gameover"}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "unknown"
}

// Sound is a cue for the audio collaborator.
type Sound uint8

const (
	SoundMove Sound = iota
	SoundEat
	SoundGameOver
)

var soundNames = [...]string{"move", "eat", "gameover"}

func (s Sound) String() string {
	if int(s) < len(soundNames) {
		return soundNames[s]
	}
	return "unknown"
}

// Snapshot is a read-only copy of everything a renderer needs.
type Snapshot struct {
	Phase     Phase
	GridSize  int
	Snake     []game.Point
	Food      game.Point
	Direction game.Direction
	Score     int
	HighScore int
	Interval  time.Duration
	FoodEaten int
	Level     int
}

// Length is the current number of segments.
func (s Snapshot) Length() int {
	return len(s.Snake)
}

func (s Snapshot) Running() bool {
	return s.Phase == PhaseRunning || s.Phase == PhasePaused
}

func (s Snapshot) Paused() bool {
	return s.Phase == PhasePaused
}

// EventKind distinguishes a normal step from the final one.
type EventKind uint8

const (
	EventTick EventKind = iota
	EventGameOver
)

// Summary carries the final stats shown on the game-over screen.
type Summary struct {
	Score     int
	Length    int
	FoodEaten int
}

// Event is what a single Tick produced.
type Event struct {
	Kind     EventKind
	Snapshot Snapshot

	Grew         bool
	LevelUp      bool
	NewHighScore bool

	// Set only for EventGameOver.
	Summary Summary
}
