package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/brensch/neonsnake/audio"
	"github.com/brensch/neonsnake/config"
	"github.com/brensch/neonsnake/logging"
	"github.com/brensch/neonsnake/rules"
	"github.com/brensch/neonsnake/session"
	"github.com/brensch/neonsnake/store"
	"github.com/brensch/neonsnake/tui"
	"github.com/brensch/neonsnake/web"
)

// defaultTUILog keeps log lines off the alt screen when no file is given.
const defaultTUILog = "neonsnake.log"

func main() {
	def := config.Default()
	configPath := flag.String("config", "", "Path to a YAML config file")
	ui := flag.String("ui", def.UI, "Front end: tui or web")
	listen := flag.String("listen", def.Listen, "Listen address for the web ui")
	storeKind := flag.String("store", string(def.Store.Kind), "High score store: sqlite, file or memory")
	storePath := flag.String("store-path", def.Store.Path, "Path of the sqlite database or score file")
	grid := flag.Int("grid", def.Game.GridSize, "Board width and height in cells")
	sound := flag.Bool("sound", def.Sound, "Play sound cues")
	seed := flag.Int64("seed", def.Seed, "Food placement seed (0 = random)")
	logLevel := flag.String("log-level", def.Log.Level, "debug, info, warn or error")
	logFormat := flag.String("log-format", string(def.Log.Format), "pretty, json or text")
	logFile := flag.String("log-file", def.Log.File, "Write logs to this file instead of stderr")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Only flags given on the command line override the file and environment.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "ui":
			cfg.UI = *ui
		case "listen":
			cfg.Listen = *listen
		case "store":
			cfg.Store.Kind = store.Kind(*storeKind)
		case "store-path":
			cfg.Store.Path = *storePath
		case "grid":
			cfg.Game.GridSize = *grid
		case "sound":
			cfg.Sound = *sound
		case "seed":
			cfg.Seed = *seed
		case "log-level":
			cfg.Log.Level = *logLevel
		case "log-format":
			cfg.Log.Format = logging.Format(*logFormat)
		case "log-file":
			cfg.Log.File = *logFile
		}
	})
	if cfg.UI == config.UITerminal && cfg.Log.File == "" {
		cfg.Log.File = defaultTUILog
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger, closeLog, err := newLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer closeLog()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("exiting", "err", err)
		closeLog()
		log.Fatalf("neonsnake: %v", err)
	}
}

func newLogger(cfg config.Log) (*slog.Logger, func(), error) {
	level, err := logging.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}
	var w io.Writer = os.Stderr
	closeFn := func() {}
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
		closeFn = func() { _ = f.Close() }
	}
	logger, err := logging.New(w, logging.Options{Format: cfg.Format, Level: level})
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return logger, closeFn, nil
}

func newRand(seed int64) func() *rand.Rand {
	if seed != 0 {
		return func() *rand.Rand { return rand.New(rand.NewSource(seed)) }
	}
	return func() *rand.Rand { return rand.New(rand.NewSource(time.Now().UnixNano())) }
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	scores, err := store.Open(cfg.Store.Kind, cfg.Store.Path, cfg.Store.Key)
	if err != nil {
		return fmt.Errorf("open high score store: %w", err)
	}
	defer scores.Close()

	logger.Info("starting neonsnake",
		"ui", cfg.UI,
		"grid", cfg.Game.GridSize,
		"store", cfg.Store.Kind,
		"store_path", cfg.Store.Path,
		"seed", cfg.Seed,
	)

	switch cfg.UI {
	case config.UIWeb:
		return runWeb(ctx, cfg, scores, logger)
	default:
		return runTerminal(ctx, cfg, scores, logger)
	}
}

func runTerminal(ctx context.Context, cfg config.Config, scores store.HighScores, logger *slog.Logger) error {
	engine, err := rules.NewEngine(cfg.Game, newRand(cfg.Seed)())
	if err != nil {
		return err
	}

	player := audio.NewPlayer(audio.Options{Muted: !cfg.Sound, Volume: cfg.Volume, Logger: logger})
	defer player.Close()

	frames := tui.NewFrames()
	sess := session.New(engine, session.Options{
		Renderer:   frames,
		HighScores: scores,
		Sound:      player,
		Logger:     logger,
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		_ = sess.Run(ctx)
	}()

	err = tui.Run(ctx, sess, frames, tui.Options{SoundOn: player.Enabled(), AltScreen: true})
	cancel()
	<-sess.Done()
	return err
}

func runWeb(ctx context.Context, cfg config.Config, scores store.HighScores, logger *slog.Logger) error {
	srv, err := web.NewServer(web.Options{
		Game:       cfg.Game,
		HighScores: scores,
		Logger:     logger,
		NewRand:    newRand(cfg.Seed),
	})
	if err != nil {
		return err
	}
	defer srv.Close()
	return web.Serve(ctx, cfg.Listen, srv.Handler(), logger)
}
