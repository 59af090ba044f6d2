package rules

import "time"

// eat applies the consequences of the head landing on food: score, milestone
// speed-up and level, high score, and a new food item.
//
// Every FoodPerLevel-th food is a milestone: the tick interval shrinks by
// IntervalDecrement (never below MinInterval) and the level is recomputed as
// 1 + foodEaten/FoodPerLevel.
func (e *Engine) eat() (levelUp, newHighScore bool) {
	e.foodEaten++
	e.score += e.cfg.PointsPerFood

	if e.foodEaten%e.cfg.FoodPerLevel == 0 {
		e.interval = nextInterval(e.interval, e.cfg)
		e.level = e.foodEaten/e.cfg.FoodPerLevel + 1
		levelUp = true
	}

	if e.score > e.highScore {
		e.highScore = e.score
		newHighScore = true
	}

	// A full board leaves the old food under the head; the snake has nowhere
	// left to grow so it simply keeps moving.
	if food, ok := e.spawner.Spawn(&e.snake); ok {
		e.food = food
	}
	return levelUp, newHighScore
}

func nextInterval(cur time.Duration, cfg Config) time.Duration {
	next := cur - cfg.IntervalDecrement
	if next < cfg.MinInterval {
		return cfg.MinInterval
	}
	return next
}
