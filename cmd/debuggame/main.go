package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/brensch/neonsnake/game"
	"github.com/brensch/neonsnake/logging"
	"github.com/brensch/neonsnake/rules"
)

func main() {
	def := rules.DefaultConfig()
	grid := flag.Int("grid", def.GridSize, "Board width and height in cells")
	seed := flag.Int64("seed", 1, "Food placement seed")
	maxTicks := flag.Int("max-ticks", 2000, "Stop after this many ticks even if still alive")
	delay := flag.Duration("delay", 0, "Sleep between ticks; -1 uses the game's own interval")
	quiet := flag.Bool("quiet", false, "Only print the summary")
	logLevel := flag.String("log-level", "info", "debug, info, warn or error")
	flag.Parse()

	level, err := logging.ParseLevel(*logLevel)
	if err != nil {
		log.Fatalf("Invalid log level: %v", err)
	}
	logger, err := logging.New(os.Stderr, logging.Options{Format: logging.FormatText, Level: level})
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}

	cfg := def
	cfg.GridSize = *grid
	engine, err := rules.NewEngine(cfg, rand.New(rand.NewSource(*seed)))
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}
	engine.Start()

	logger.Info("autopilot run", "grid", cfg.GridSize, "seed", *seed, "max_ticks", *maxTicks)

	var (
		ticks  int
		levels int
		last   rules.Event
	)
	for ticks < *maxTicks {
		snap := engine.Snapshot()
		engine.SetIntendedDirection(choose(snap))

		ev, ok := engine.Tick()
		if !ok {
			break
		}
		ticks++
		last = ev
		if ev.LevelUp {
			levels++
			logger.Debug("level up", "tick", ticks, "level", ev.Snapshot.Level, "interval", ev.Snapshot.Interval)
		}
		if !*quiet {
			fmt.Printf("tick %4d | score %4d | len %3d | lvl %2d | %s\n", ticks, ev.Snapshot.Score, ev.Snapshot.Length(), ev.Snapshot.Level, ev.Snapshot.Direction)
			fmt.Println(drawBoard(ev.Snapshot))
		}
		if ev.Kind == rules.EventGameOver {
			break
		}
		switch {
		case *delay > 0:
			time.Sleep(*delay)
		case *delay < 0:
			time.Sleep(engine.Interval())
		}
	}

	final := engine.Snapshot()
	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════")
	if last.Kind == rules.EventGameOver {
		fmt.Printf("  Game over after %d ticks\n", ticks)
		fmt.Printf("  Score %d  Length %d  Food %d\n", last.Summary.Score, last.Summary.Length, last.Summary.FoodEaten)
	} else {
		fmt.Printf("  Stopped alive after %d ticks\n", ticks)
		fmt.Printf("  Score %d  Length %d  Food %d\n", final.Score, final.Length(), final.FoodEaten)
	}
	fmt.Printf("  Level %d  Interval %s  Level-ups %d\n", final.Level, final.Interval, levels)
	fmt.Println("═══════════════════════════════════════════════════════════════")
}

// drawBoard renders H for the head, S for the body and F for food.
func drawBoard(s rules.Snapshot) string {
	cells := make([][]byte, s.GridSize)
	for y := range cells {
		cells[y] = []byte(strings.Repeat(".", s.GridSize))
	}
	set := func(p game.Point, c byte) {
		if p.Y >= 0 && p.Y < s.GridSize && p.X >= 0 && p.X < s.GridSize {
			cells[p.Y][p.X] = c
		}
	}
	set(s.Food, 'F')
	for i := len(s.Snake) - 1; i >= 0; i-- {
		if i == 0 {
			set(s.Snake[i], 'H')
		} else {
			set(s.Snake[i], 'S')
		}
	}
	var b strings.Builder
	for y, row := range cells {
		b.Write(row)
		if y < len(cells)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
