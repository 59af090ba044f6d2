package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/brensch/neonsnake/rules"
	"github.com/brensch/neonsnake/session"
)

const maxMessageSize = 512

// conn adapts one websocket to a session. It is the session's Renderer and
// SoundPlayer; all socket writes happen on the writer goroutine.
type conn struct {
	ws           *websocket.Conn
	log          *slog.Logger
	writeTimeout time.Duration
	out          chan []byte

	soundOn atomic.Bool

	mu   sync.Mutex
	last *rules.Snapshot
}

func newConn(ws *websocket.Conn, log *slog.Logger, writeTimeout time.Duration) *conn {
	c := &conn{
		ws:           ws,
		log:          log,
		writeTimeout: writeTimeout,
		out:          make(chan []byte, 64),
	}
	c.soundOn.Store(true)
	return c
}

func (c *conn) Render(s rules.Snapshot) {
	c.mu.Lock()
	c.last = &s
	c.mu.Unlock()
	c.enqueue(serverMessage{Type: "state", State: snapshotToView(s, c.soundOn.Load())})
}

func (c *conn) Play(s rules.Sound) {
	if !c.soundOn.Load() {
		return
	}
	c.enqueue(serverMessage{Type: "sound", Sound: s.String()})
}

// ToggleMute flips the browser's sound and re-sends the last state so the
// page can update its label.
func (c *conn) ToggleMute() bool {
	on := !c.soundOn.Load()
	c.soundOn.Store(on)

	c.mu.Lock()
	last := c.last
	c.mu.Unlock()
	if last != nil {
		c.enqueue(serverMessage{Type: "state", State: snapshotToView(*last, on)})
	}
	return on
}

func (c *conn) enqueue(m serverMessage) {
	b, err := json.Marshal(m)
	if err != nil {
		c.log.Error("failed to encode message", "type", m.Type, "err", err)
		return
	}
	select {
	case c.out <- b:
	default:
		c.log.Debug("client too slow, dropping message", "type", m.Type)
	}
}

// serve runs the session, the writer and the reader until the client goes
// away or ctx is canceled.
func (c *conn) serve(ctx context.Context, sess *session.Session) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		if err := sess.Run(ctx); err != nil && ctx.Err() == nil {
			c.log.Warn("session ended", "err", err)
		}
	}()

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		c.writeLoop(ctx)
		cancel()
	}()

	c.readLoop(ctx, sess)
	cancel()
	<-sess.Done()
	<-writerDone
}

func (c *conn) readLoop(ctx context.Context, sess *session.Session) {
	c.ws.SetReadLimit(maxMessageSize)
	for {
		_, raw, err := c.ws.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) && ctx.Err() == nil {
				c.log.Debug("read error", "err", err)
			}
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.log.Debug("failed to parse message", "err", err)
			continue
		}
		cmd, ok := toCommand(msg)
		if !ok {
			c.log.Debug("ignoring message", "type", msg.Type, "direction", msg.Direction)
			continue
		}
		if err := sess.Send(ctx, cmd); err != nil {
			return
		}
	}
}

func (c *conn) writeLoop(ctx context.Context) {
	defer c.ws.Close()
	for {
		select {
		case <-ctx.Done():
			_ = c.ws.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server closing"),
				time.Now().Add(time.Second))
			return
		case b := <-c.out:
			_ = c.ws.SetWriteDeadline(time.Now().Add(c.writeTimeout))
			if err := c.ws.WriteMessage(websocket.TextMessage, b); err != nil {
				c.log.Debug("write error", "err", err)
				return
			}
		}
	}
}
