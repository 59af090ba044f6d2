package rules

import (
	"fmt"
	"time"
)

// Config holds the tunable numbers of a session.
//
// Defaults match the original browser game: a 15x15 board, 200ms ticks that
// speed up by 10ms every 5 food down to 80ms, 10 points per food.
type Config struct {
	GridSize          int           `yaml:"grid_size"`
	InitialInterval   time.Duration `yaml:"initial_interval"`
	MinInterval       time.Duration `yaml:"min_interval"`
	IntervalDecrement time.Duration `yaml:"interval_decrement"`
	PointsPerFood     int           `yaml:"points_per_food"`
	FoodPerLevel      int           `yaml:"food_per_level"`
}

// InitialLength is the number of segments a fresh snake starts with.
const InitialLength = 3

// DefaultConfig returns the reference tuning.
func DefaultConfig() Config {
	return Config{
		GridSize:          15,
		InitialInterval:   200 * time.Millisecond,
		MinInterval:       80 * time.Millisecond,
		IntervalDecrement: 10 * time.Millisecond,
		PointsPerFood:     10,
		FoodPerLevel:      5,
	}
}

// Validate reports the first problem with c.
func (c Config) Validate() error {
	// The starting snake needs room for three segments plus a free cell on its row.
	if c.GridSize < InitialLength+2 {
		return fmt.Errorf("grid size %d too small (min %d)", c.GridSize, InitialLength+2)
	}
	if c.MinInterval <= 0 {
		return fmt.Errorf("min interval must be positive, got %s", c.MinInterval)
	}
	if c.InitialInterval < c.MinInterval {
		return fmt.Errorf("initial interval %s below min interval %s", c.InitialInterval, c.MinInterval)
	}
	if c.IntervalDecrement < 0 {
		return fmt.Errorf("interval decrement must not be negative, got %s", c.IntervalDecrement)
	}
	if c.PointsPerFood <= 0 {
		return fmt.Errorf("points per food must be positive, got %d", c.PointsPerFood)
	}
	if c.FoodPerLevel <= 0 {
		return fmt.Errorf("food per level must be positive, got %d", c.FoodPerLevel)
	}
	return nil
}
