// Package tui is the terminal front end: a bubbletea program that draws
// session snapshots and turns key presses into session commands.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/brensch/neonsnake/game"
	"github.com/brensch/neonsnake/rules"
	"github.com/brensch/neonsnake/session"
)

// Sender accepts commands for the running session.
type Sender interface {
	Send(ctx context.Context, cmd session.Command) error
}

type frameMsg rules.Snapshot

type sendErrMsg struct{ err error }

type model struct {
	ctx     context.Context
	sender  Sender
	frames  <-chan rules.Snapshot
	snap    rules.Snapshot
	ready   bool
	soundOn bool
	err     error
}

func newModel(ctx context.Context, sender Sender, frames <-chan rules.Snapshot, soundOn bool) model {
	return model{
		ctx:     ctx,
		sender:  sender,
		frames:  frames,
		soundOn: soundOn,
	}
}

func (m model) Init() tea.Cmd {
	return waitForFrame(m.frames)
}

func waitForFrame(frames <-chan rules.Snapshot) tea.Cmd {
	return func() tea.Msg {
		return frameMsg(<-frames)
	}
}

func (m model) send(cmd session.Command) tea.Cmd {
	return func() tea.Msg {
		if err := m.sender.Send(m.ctx, cmd); err != nil {
			return sendErrMsg{err: err}
		}
		return nil
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		key := msg.String()
		if key == "q" || key == "ctrl+c" || key == "esc" {
			return m, tea.Quit
		}
		cmd, ok := keyCommand(key, m.snap.Phase)
		if !ok {
			return m, nil
		}
		if cmd.Kind == session.CmdToggleSound {
			m.soundOn = !m.soundOn
		}
		return m, m.send(cmd)
	case frameMsg:
		m.snap = rules.Snapshot(msg)
		m.ready = true
		return m, waitForFrame(m.frames)
	case sendErrMsg:
		if errors.Is(msg.err, session.ErrClosed) || errors.Is(msg.err, context.Canceled) {
			return m, tea.Quit
		}
		m.err = msg.err
	}
	return m, nil
}

// keyCommand maps a key to a session command. phase decides what space does.
func keyCommand(key string, phase rules.Phase) (session.Command, bool) {
	switch strings.ToLower(key) {
	case "up", "w", "k":
		return session.Turn(game.Up), true
	case "down", "s", "j":
		return session.Turn(game.Down), true
	case "left", "a", "h":
		return session.Turn(game.Left), true
	case "right", "d", "l":
		return session.Turn(game.Right), true
	case " ", "space":
		if phase == rules.PhaseIdle || phase == rules.PhaseGameOver {
			return session.Start(), true
		}
		return session.TogglePause(), true
	case "enter":
		return session.Start(), true
	case "p":
		return session.TogglePause(), true
	case "r":
		return session.Reset(), true
	case "m":
		return session.ReturnToMenu(), true
	case "n":
		return session.ToggleSound(), true
	}
	return session.Command{}, false
}

func (m model) View() string {
	if !m.ready {
		return "loading...\n"
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("N E O N   S N A K E"))
	b.WriteString("\n\n")
	b.WriteString(renderBoard(m.snap))
	b.WriteString("\n")
	b.WriteString(renderStats(m.snap))
	b.WriteString("\n\n")
	b.WriteString(renderBanner(m.snap))
	b.WriteString("\n")

	sound := "off"
	if m.soundOn {
		sound = "on"
	}
	b.WriteString(helpStyle.Render(fmt.Sprintf("arrows/wasd steer  space pause  r reset  m menu  n sound (%s)  q quit", sound)))
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(warnStyle.Render("error: " + m.err.Error()))
		b.WriteString("\n")
	}
	return b.String()
}
