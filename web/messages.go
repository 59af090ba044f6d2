package web

import (
	"github.com/brensch/neonsnake/game"
	"github.com/brensch/neonsnake/rules"
	"github.com/brensch/neonsnake/session"
)

// clientMessage is what the page sends over the socket.
type clientMessage struct {
	Type      string `json:"type"`
	Direction string `json:"direction,omitempty"`
}

type serverMessage struct {
	Type  string     `json:"type"`
	State *stateView `json:"state,omitempty"`
	Sound string     `json:"sound,omitempty"`
}

type point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type stateView struct {
	Phase      string  `json:"phase"`
	GridSize   int     `json:"grid_size"`
	Snake      []point `json:"snake"`
	Food       point   `json:"food"`
	Direction  string  `json:"direction"`
	Score      int     `json:"score"`
	HighScore  int     `json:"high_score"`
	IntervalMs int64   `json:"interval_ms"`
	FoodEaten  int     `json:"food_eaten"`
	Level      int     `json:"level"`
	Length     int     `json:"length"`
	SoundOn    bool    `json:"sound_on"`
}

type highScoreResponse struct {
	HighScore int `json:"high_score"`
}

func toPoint(p game.Point) point {
	return point{X: p.X, Y: p.Y}
}

func snapshotToView(s rules.Snapshot, soundOn bool) *stateView {
	body := make([]point, 0, len(s.Snake))
	for _, p := range s.Snake {
		body = append(body, toPoint(p))
	}
	return &stateView{
		Phase:      s.Phase.String(),
		GridSize:   s.GridSize,
		Snake:      body,
		Food:       toPoint(s.Food),
		Direction:  s.Direction.String(),
		Score:      s.Score,
		HighScore:  s.HighScore,
		IntervalMs: s.Interval.Milliseconds(),
		FoodEaten:  s.FoodEaten,
		Level:      s.Level,
		Length:     s.Length(),
		SoundOn:    soundOn,
	}
}

// toCommand decodes a client message. Unknown types and directions are
// rejected.
func toCommand(m clientMessage) (session.Command, bool) {
	switch m.Type {
	case "start":
		return session.Start(), true
	case "reset":
		return session.Reset(), true
	case "pause":
		return session.TogglePause(), true
	case "menu":
		return session.ReturnToMenu(), true
	case "sound":
		return session.ToggleSound(), true
	case "direction":
		d, ok := game.ParseDirection(m.Direction)
		if !ok {
			return session.Command{}, false
		}
		return session.Turn(d), true
	}
	return session.Command{}, false
}
