// Package session runs one game: it owns a rules.Engine on a single
// goroutine, feeds it commands from input adapters and ticks from the
// scheduler, and notifies the renderer, the high-score store and the audio
// player of what happened.
package session

import (
	"context"
	"errors"
	"log/slog"

	"github.com/brensch/neonsnake/game"
	"github.com/brensch/neonsnake/rules"
)

// Renderer draws a snapshot. It is called once per tick and after every
// command that changed the state.
type Renderer interface {
	Render(rules.Snapshot)
}

// HighScores persists the single best score.
type HighScores interface {
	Load(ctx context.Context) (int, bool, error)
	Save(ctx context.Context, score int) error
}

// SoundPlayer plays cues on a best-effort basis.
type SoundPlayer interface {
	Play(rules.Sound)
}

// Muter is implemented by sound players that can be silenced.
type Muter interface {
	ToggleMute() bool
}

// CommandKind enumerates what input adapters can ask for.
type CommandKind uint8

const (
	CmdStart CommandKind = iota
	CmdReset
	CmdTogglePause
	CmdDirection
	CmdReturnToMenu
	CmdToggleSound
)

// Command is one input request.
type Command struct {
	Kind      CommandKind
	Direction game.Direction
}

func Start() Command        { return Command{Kind: CmdStart} }
func Reset() Command        { return Command{Kind: CmdReset} }
func TogglePause() Command  { return Command{Kind: CmdTogglePause} }
func ReturnToMenu() Command { return Command{Kind: CmdReturnToMenu} }
func ToggleSound() Command  { return Command{Kind: CmdToggleSound} }

func Turn(d game.Direction) Command {
	return Command{Kind: CmdDirection, Direction: d}
}

// ErrClosed is returned by Send once the session has stopped.
var ErrClosed = errors.New("session closed")

// Options wires the collaborators. Every field is optional.
type Options struct {
	Renderer   Renderer
	HighScores HighScores
	Sound      SoundPlayer
	Logger     *slog.Logger

	// AfterFunc overrides the timer source, for tests.
	AfterFunc AfterFunc
}

type nopRenderer struct{}

func (nopRenderer) Render(rules.Snapshot) {}

type nopSound struct{}

func (nopSound) Play(rules.Sound) {}

// Session serialises every access to its engine onto the Run goroutine.
type Session struct {
	engine *rules.Engine
	sched  *Scheduler

	renderer Renderer
	scores   HighScores
	sound    SoundPlayer
	log      *slog.Logger

	cmds chan Command
	done chan struct{}
}

func New(engine *rules.Engine, opts Options) *Session {
	s := &Session{
		engine:   engine,
		sched:    NewScheduler(opts.AfterFunc),
		renderer: opts.Renderer,
		scores:   opts.HighScores,
		sound:    opts.Sound,
		log:      opts.Logger,
		cmds:     make(chan Command, 16),
		done:     make(chan struct{}),
	}
	if s.renderer == nil {
		s.renderer = nopRenderer{}
	}
	if s.sound == nil {
		s.sound = nopSound{}
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	return s
}

// Send queues cmd for the session goroutine.
func (s *Session) Send(ctx context.Context, cmd Command) error {
	select {
	case s.cmds <- cmd:
		return nil
	case <-s.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done is closed when Run returns.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Run drives the game until ctx is canceled. It loads the stored high score,
// renders the initial board and then processes commands and ticks one at a
// time.
func (s *Session) Run(ctx context.Context) error {
	defer close(s.done)
	defer s.sched.Cancel()

	s.loadHighScore(ctx)
	s.renderer.Render(s.engine.Snapshot())

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case cmd := <-s.cmds:
			s.handle(cmd)
		case gen := <-s.sched.C():
			// Input that arrived before the timer counts for this tick.
			s.drainCommands()
			if s.sched.Fired(gen) {
				s.tick(ctx)
				s.reschedule(false)
			}
		}
	}
}

func (s *Session) handle(cmd Command) {
	if s.apply(cmd) {
		s.renderer.Render(s.engine.Snapshot())
	}
	s.reschedule(false)
}

func (s *Session) drainCommands() {
	for {
		select {
		case cmd := <-s.cmds:
			s.handle(cmd)
		default:
			return
		}
	}
}

func (s *Session) loadHighScore(ctx context.Context) {
	if s.scores == nil {
		return
	}
	n, ok, err := s.scores.Load(ctx)
	if err != nil {
		s.log.Warn("high score unavailable, starting from 0", "err", err)
		return
	}
	if ok {
		s.engine.SetHighScore(n)
		s.log.Debug("high score loaded", "high_score", n)
	}
}

// apply runs one command and reports whether the state changed.
func (s *Session) apply(cmd Command) bool {
	switch cmd.Kind {
	case CmdStart:
		if !s.engine.Start() {
			return false
		}
		s.log.Info("game started", "interval", s.engine.Interval())
		s.reschedule(true)
		return true
	case CmdReset:
		s.engine.Reset()
		s.log.Info("game reset")
		s.reschedule(true)
		return true
	case CmdTogglePause:
		if !s.engine.TogglePause() {
			return false
		}
		s.log.Debug("pause toggled", "phase", s.engine.Phase())
		return true
	case CmdDirection:
		if !s.engine.SetIntendedDirection(cmd.Direction) {
			return false
		}
		s.sound.Play(rules.SoundMove)
		// Pending direction is not visible until the next tick.
		return false
	case CmdReturnToMenu:
		s.engine.ReturnToMenu()
		s.log.Info("returned to menu")
		return true
	case CmdToggleSound:
		if m, ok := s.sound.(Muter); ok {
			on := m.ToggleMute()
			s.log.Debug("sound toggled", "enabled", on)
		}
		return false
	}
	return false
}

func (s *Session) tick(ctx context.Context) {
	ev, ok := s.engine.Tick()
	if !ok {
		return
	}

	switch ev.Kind {
	case rules.EventGameOver:
		s.sound.Play(rules.SoundGameOver)
		s.log.Info("game over",
			"score", ev.Summary.Score,
			"length", ev.Summary.Length,
			"food", ev.Summary.FoodEaten,
		)
	case rules.EventTick:
		if ev.Grew {
			s.sound.Play(rules.SoundEat)
		}
		if ev.LevelUp {
			s.log.Debug("level up", "level", ev.Snapshot.Level, "interval", ev.Snapshot.Interval)
		}
		if ev.NewHighScore {
			s.saveHighScore(ctx, ev.Snapshot.HighScore)
		}
	}
	s.renderer.Render(ev.Snapshot)
}

func (s *Session) saveHighScore(ctx context.Context, n int) {
	if s.scores == nil {
		return
	}
	if err := s.scores.Save(ctx, n); err != nil {
		s.log.Warn("failed to save high score", "high_score", n, "err", err)
	}
}

// reschedule keeps exactly one tick armed while the engine is running and
// none otherwise. restart forces a fresh wait even if one is already armed.
func (s *Session) reschedule(restart bool) {
	if s.engine.Phase() != rules.PhaseRunning {
		s.sched.Cancel()
		return
	}
	if restart || !s.sched.Armed() {
		s.sched.Arm(s.engine.Interval())
	}
}
