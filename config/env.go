package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/brensch/neonsnake/logging"
	"github.com/brensch/neonsnake/store"
)

// EnvPrefix is prepended to every variable name read by applyEnv.
const EnvPrefix = "NEONSNAKE_"

// applyEnv overlays NEONSNAKE_* variables. Unparsable values leave the
// current setting alone.
func (c *Config) applyEnv() {
	c.Game.GridSize = getEnvIntOrDefault("GRID_SIZE", c.Game.GridSize)
	c.Game.InitialInterval = getEnvDurationOrDefault("INITIAL_INTERVAL", c.Game.InitialInterval)
	c.Game.MinInterval = getEnvDurationOrDefault("MIN_INTERVAL", c.Game.MinInterval)
	c.Game.IntervalDecrement = getEnvDurationOrDefault("INTERVAL_DECREMENT", c.Game.IntervalDecrement)
	c.Game.PointsPerFood = getEnvIntOrDefault("POINTS_PER_FOOD", c.Game.PointsPerFood)
	c.Game.FoodPerLevel = getEnvIntOrDefault("FOOD_PER_LEVEL", c.Game.FoodPerLevel)

	c.UI = getEnvOrDefault("UI", c.UI)
	c.Listen = getEnvOrDefault("LISTEN", c.Listen)
	c.Store.Kind = store.Kind(getEnvOrDefault("STORE", string(c.Store.Kind)))
	c.Store.Path = getEnvOrDefault("STORE_PATH", c.Store.Path)
	c.Store.Key = getEnvOrDefault("STORE_KEY", c.Store.Key)
	c.Log.Level = getEnvOrDefault("LOG_LEVEL", c.Log.Level)
	c.Log.Format = logging.Format(getEnvOrDefault("LOG_FORMAT", string(c.Log.Format)))
	c.Log.File = getEnvOrDefault("LOG_FILE", c.Log.File)
	c.Sound = getEnvBoolOrDefault("SOUND", c.Sound)
	c.Volume = getEnvFloatOrDefault("VOLUME", c.Volume)
	c.Seed = int64(getEnvIntOrDefault("SEED", int(c.Seed)))
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvIntOrDefault(key string, defaultVal int) int {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		var i int
		if _, err := fmt.Sscanf(val, "%d", &i); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloatOrDefault(key string, defaultVal float64) float64 {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDurationOrDefault(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

func getEnvBoolOrDefault(key string, defaultVal bool) bool {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}
