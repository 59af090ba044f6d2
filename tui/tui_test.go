package tui

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/brensch/neonsnake/game"
	"github.com/brensch/neonsnake/rules"
	"github.com/brensch/neonsnake/session"
)

type recordingSender struct {
	mu   sync.Mutex
	cmds []session.Command
	err  error
}

func (r *recordingSender) Send(_ context.Context, cmd session.Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cmds = append(r.cmds, cmd)
	return r.err
}

func snapshot(phase rules.Phase) rules.Snapshot {
	return rules.Snapshot{
		Phase:     phase,
		GridSize:  6,
		Snake:     []game.Point{{X: 2, Y: 3}, {X: 1, Y: 3}, {X: 0, Y: 3}},
		Food:      game.Point{X: 4, Y: 1},
		Direction: game.Right,
		Score:     30,
		HighScore: 90,
		Interval:  200 * time.Millisecond,
		FoodEaten: 3,
		Level:     1,
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestKeyCommand(t *testing.T) {
	cases := []struct {
		key   string
		phase rules.Phase
		want  session.Command
	}{
		{"up", rules.PhaseRunning, session.Turn(game.Up)},
		{"w", rules.PhaseRunning, session.Turn(game.Up)},
		{"S", rules.PhaseRunning, session.Turn(game.Down)},
		{"left", rules.PhaseRunning, session.Turn(game.Left)},
		{"d", rules.PhaseRunning, session.Turn(game.Right)},
		{" ", rules.PhaseIdle, session.Start()},
		{" ", rules.PhaseGameOver, session.Start()},
		{" ", rules.PhaseRunning, session.TogglePause()},
		{" ", rules.PhasePaused, session.TogglePause()},
		{"r", rules.PhasePaused, session.Reset()},
		{"m", rules.PhaseRunning, session.ReturnToMenu()},
		{"n", rules.PhaseIdle, session.ToggleSound()},
	}
	for _, tc := range cases {
		got, ok := keyCommand(tc.key, tc.phase)
		if !ok || got != tc.want {
			t.Fatalf("key %q in %s: got %+v,%v want %+v", tc.key, tc.phase, got, ok, tc.want)
		}
	}
	if _, ok := keyCommand("x", rules.PhaseRunning); ok {
		t.Fatalf("unbound key produced a command")
	}
}

func TestModel_KeySendsCommand(t *testing.T) {
	sender := &recordingSender{}
	m := newModel(context.Background(), sender, nil, true)
	next, _ := m.Update(frameMsg(snapshot(rules.PhaseIdle)))
	m = next.(model)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeySpace})
	if cmd == nil {
		t.Fatalf("space produced no command")
	}
	if msg := cmd(); msg != nil {
		t.Fatalf("send returned %v", msg)
	}
	if len(sender.cmds) != 1 || sender.cmds[0] != session.Start() {
		t.Fatalf("sent %+v want start", sender.cmds)
	}

	m = next.(model)
	next, cmd = m.Update(runes("n"))
	cmd()
	if next.(model).soundOn {
		t.Fatalf("sound label not toggled")
	}
}

func TestModel_QuitKeys(t *testing.T) {
	m := newModel(context.Background(), &recordingSender{}, nil, false)
	for _, k := range []tea.KeyMsg{runes("q"), {Type: tea.KeyCtrlC}} {
		_, cmd := m.Update(k)
		if cmd == nil {
			t.Fatalf("%s did not quit", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Fatalf("%s did not quit", k)
		}
	}
}

func TestModel_ClosedSessionQuits(t *testing.T) {
	m := newModel(context.Background(), &recordingSender{err: session.ErrClosed}, nil, false)
	m.snap = snapshot(rules.PhaseRunning)
	_, cmd := m.Update(runes("w"))
	msg := cmd()
	_, quit := m.Update(msg)
	if quit == nil {
		t.Fatalf("closed session did not quit")
	}
	if _, ok := quit().(tea.QuitMsg); !ok {
		t.Fatalf("closed session did not quit")
	}
}

func TestModel_FrameUpdatesView(t *testing.T) {
	frames := NewFrames()
	m := newModel(context.Background(), &recordingSender{}, frames.C(), false)
	if !strings.Contains(m.View(), "loading") {
		t.Fatalf("view before first frame: %q", m.View())
	}

	frames.Render(snapshot(rules.PhaseGameOver))
	msg := m.Init()()
	next, cmd := m.Update(msg)
	if cmd == nil {
		t.Fatalf("model stopped listening for frames")
	}
	view := next.(model).View()
	for _, want := range []string{"GAME OVER", "score", "30", "90", "length", headCell, "◆"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
	if strings.Count(view, bodyCell) != 2 {
		t.Fatalf("expected 2 body cells:\n%s", view)
	}
}

func TestRenderBanner(t *testing.T) {
	if !strings.Contains(renderBanner(snapshot(rules.PhasePaused)), "PAUSED") {
		t.Fatalf("pause banner missing")
	}
	if !strings.Contains(renderBanner(snapshot(rules.PhaseIdle)), "start") {
		t.Fatalf("menu banner missing")
	}
	if renderBanner(snapshot(rules.PhaseRunning)) != "" {
		t.Fatalf("banner while running")
	}
}

func TestFrames_LatestWins(t *testing.T) {
	f := NewFrames()
	for i := 1; i <= 5; i++ {
		s := snapshot(rules.PhaseRunning)
		s.Score = i * 10
		f.Render(s)
	}
	select {
	case s := <-f.C():
		if s.Score != 50 {
			t.Fatalf("score=%d want latest 50", s.Score)
		}
	default:
		t.Fatalf("no frame buffered")
	}
	select {
	case s := <-f.C():
		t.Fatalf("stale frame left behind: %+v", s)
	default:
	}
}
