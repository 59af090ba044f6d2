package tui

import "github.com/brensch/neonsnake/rules"

// Frames is a session.Renderer that hands snapshots to the bubbletea model.
// Only the newest undelivered snapshot is kept, so a slow terminal drops
// frames instead of stalling the game.
type Frames struct {
	ch chan rules.Snapshot
}

func NewFrames() *Frames {
	return &Frames{ch: make(chan rules.Snapshot, 1)}
}

// Render must only be called from one goroutine (the session's).
func (f *Frames) Render(s rules.Snapshot) {
	for {
		select {
		case f.ch <- s:
			return
		default:
		}
		select {
		case <-f.ch:
		default:
		}
	}
}

func (f *Frames) C() <-chan rules.Snapshot {
	return f.ch
}
