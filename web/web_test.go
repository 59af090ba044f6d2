package web

import (
	"context"
	"encoding/json"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/brensch/neonsnake/game"
	"github.com/brensch/neonsnake/logging"
	"github.com/brensch/neonsnake/rules"
	"github.com/brensch/neonsnake/session"
	"github.com/brensch/neonsnake/store"
)

// stoppedTimer never fires, so the only state changes are the ones a test
// asks for.
type stoppedTimer struct{}

func (stoppedTimer) Stop() bool { return true }

func neverFire(time.Duration, func()) session.Timer { return stoppedTimer{} }

func newTestServer(t *testing.T, scores store.HighScores) (*Server, *httptest.Server) {
	t.Helper()
	srv, err := NewServer(Options{
		Game:       rules.DefaultConfig(),
		HighScores: scores,
		Logger:     logging.Discard(),
		NewRand:    func() *rand.Rand { return rand.New(rand.NewSource(1)) },
		AfterFunc:  neverFire,
	})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		srv.Close()
		ts.Close()
	})
	return srv, ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { ws.Close() })
	return ws
}

func readMessage(t *testing.T, ws *websocket.Conn) serverMessage {
	t.Helper()
	_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	var m serverMessage
	if err := ws.ReadJSON(&m); err != nil {
		t.Fatalf("read: %v", err)
	}
	return m
}

func readState(t *testing.T, ws *websocket.Conn) *stateView {
	t.Helper()
	for {
		m := readMessage(t, ws)
		if m.Type == "state" {
			return m.State
		}
	}
}

func TestIndexServed(t *testing.T) {
	_, ts := newTestServer(t, store.NewMemory())
	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "NEON SNAKE") {
		t.Fatalf("status=%d body=%.80q", resp.StatusCode, body)
	}
	// Touch play needs on-screen steering, and the page offers a theme switch.
	for _, want := range []string{
		`data-dir="up"`, `data-dir="down"`, `data-dir="left"`, `data-dir="right"`,
		`type: "direction", direction: b.dataset.dir`, `id="theme-btn"`,
	} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("page missing %q", want)
		}
	}
}

func TestHighScoreEndpoint(t *testing.T) {
	scores := store.NewMemory()
	_, ts := newTestServer(t, scores)

	get := func() int {
		resp, err := http.Get(ts.URL + "/api/highscore")
		if err != nil {
			t.Fatalf("GET: %v", err)
		}
		defer resp.Body.Close()
		var hs highScoreResponse
		if err := json.NewDecoder(resp.Body).Decode(&hs); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return hs.HighScore
	}

	if got := get(); got != 0 {
		t.Fatalf("empty store high=%d", got)
	}
	if err := scores.Save(context.Background(), 70); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if got := get(); got != 70 {
		t.Fatalf("high=%d want 70", got)
	}

	resp, err := http.Post(ts.URL+"/api/highscore", "application/json", nil)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("POST status=%d", resp.StatusCode)
	}
}

func TestSocket_InitialStateAndCommands(t *testing.T) {
	scores := store.NewMemory()
	_ = scores.Save(context.Background(), 40)
	_, ts := newTestServer(t, scores)
	ws := dial(t, ts)

	first := readState(t, ws)
	if first.Phase != "idle" || first.GridSize != 15 || first.Length != 3 || first.HighScore != 40 {
		t.Fatalf("initial state: %+v", first)
	}
	if first.Snake[0] != (point{X: 4, Y: 7}) || first.IntervalMs != 200 || !first.SoundOn {
		t.Fatalf("initial state: %+v", first)
	}

	if err := ws.WriteJSON(clientMessage{Type: "start"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if s := readState(t, ws); s.Phase != "running" {
		t.Fatalf("after start phase=%s", s.Phase)
	}

	// Garbage and unknown messages are ignored without closing the socket.
	_ = ws.WriteMessage(websocket.TextMessage, []byte("{not json"))
	_ = ws.WriteJSON(clientMessage{Type: "fly"})
	_ = ws.WriteJSON(clientMessage{Type: "direction", Direction: "sideways"})

	if err := ws.WriteJSON(clientMessage{Type: "direction", Direction: "up"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if m := readMessage(t, ws); m.Type != "sound" || m.Sound != "move" {
		t.Fatalf("accepted turn produced %+v", m)
	}

	_ = ws.WriteJSON(clientMessage{Type: "pause"})
	if s := readState(t, ws); s.Phase != "paused" {
		t.Fatalf("after pause phase=%s", s.Phase)
	}
	_ = ws.WriteJSON(clientMessage{Type: "menu"})
	if s := readState(t, ws); s.Phase != "idle" {
		t.Fatalf("after menu phase=%s", s.Phase)
	}
}

func TestSocket_SoundToggle(t *testing.T) {
	_, ts := newTestServer(t, store.NewMemory())
	ws := dial(t, ts)
	readState(t, ws)

	_ = ws.WriteJSON(clientMessage{Type: "sound"})
	if s := readState(t, ws); s.SoundOn {
		t.Fatalf("sound still on after toggle")
	}

	_ = ws.WriteJSON(clientMessage{Type: "start"})
	readState(t, ws)
	_ = ws.WriteJSON(clientMessage{Type: "direction", Direction: "down"})
	_ = ws.WriteJSON(clientMessage{Type: "pause"})
	// A muted connection gets no move cue before the pause state.
	if m := readMessage(t, ws); m.Type != "state" || m.State.Phase != "paused" {
		t.Fatalf("muted connection got %+v", m)
	}
}

func TestSocket_IndependentSessions(t *testing.T) {
	_, ts := newTestServer(t, store.NewMemory())
	a := dial(t, ts)
	b := dial(t, ts)
	readState(t, a)
	readState(t, b)

	_ = a.WriteJSON(clientMessage{Type: "start"})
	if s := readState(t, a); s.Phase != "running" {
		t.Fatalf("a phase=%s", s.Phase)
	}
	_ = b.WriteJSON(clientMessage{Type: "pause"})
	_ = b.WriteJSON(clientMessage{Type: "menu"})
	if s := readState(t, b); s.Phase != "idle" {
		t.Fatalf("b affected by a: phase=%s", s.Phase)
	}
}

func TestServerCloseEndsConnections(t *testing.T) {
	srv, ts := newTestServer(t, store.NewMemory())
	ws := dial(t, ts)
	readState(t, ws)

	srv.Close()
	_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := ws.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseGoingAway) {
		t.Fatalf("read after Close: %v", err)
	}
}

func TestToCommand(t *testing.T) {
	cases := []struct {
		in   clientMessage
		want session.Command
		ok   bool
	}{
		{clientMessage{Type: "start"}, session.Start(), true},
		{clientMessage{Type: "reset"}, session.Reset(), true},
		{clientMessage{Type: "pause"}, session.TogglePause(), true},
		{clientMessage{Type: "menu"}, session.ReturnToMenu(), true},
		{clientMessage{Type: "sound"}, session.ToggleSound(), true},
		{clientMessage{Type: "direction", Direction: "left"}, session.Turn(game.Left), true},
		{clientMessage{Type: "direction", Direction: "LEFT"}, session.Command{}, false},
		{clientMessage{Type: ""}, session.Command{}, false},
	}
	for _, tc := range cases {
		got, ok := toCommand(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("toCommand(%+v)=%+v,%v want %+v,%v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}
