// Package web serves the browser front end: an embedded page, a high-score
// endpoint and one game session per websocket connection.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math/rand"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/brensch/neonsnake/rules"
	"github.com/brensch/neonsnake/session"
)

//go:embed static
var staticFiles embed.FS

type Options struct {
	Game       rules.Config
	HighScores session.HighScores
	Logger     *slog.Logger
	// NewRand seeds the food spawner of each new connection. Nil uses the
	// clock.
	NewRand func() *rand.Rand
	// AfterFunc overrides the tick timer, for tests.
	AfterFunc session.AfterFunc
	// WriteTimeout bounds each websocket write. Zero means 5s.
	WriteTimeout time.Duration
}

// Server holds what every connection shares.
type Server struct {
	opts     Options
	log      *slog.Logger
	upgrader websocket.Upgrader
	static   http.Handler

	// ctx outlives individual requests; Close cancels it to end every
	// hijacked websocket connection.
	ctx    context.Context
	cancel context.CancelFunc
}

func NewServer(opts Options) (*Server, error) {
	if err := opts.Game.Validate(); err != nil {
		return nil, fmt.Errorf("invalid game config: %w", err)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.NewRand == nil {
		opts.NewRand = func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		}
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 5 * time.Second
	}
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return nil, fmt.Errorf("static files: %w", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		ctx:    ctx,
		cancel: cancel,
		opts:   opts,
		log:    opts.Logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
		static: http.FileServer(http.FS(sub)),
	}, nil
}

// Close ends every open game connection.
func (s *Server) Close() {
	s.cancel()
}

// RegisterRoutes sets up the page, the API and the socket on mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("/", s.static)
	mux.HandleFunc("/api/highscore", s.handleHighScore)
	mux.HandleFunc("/ws", s.handleWS)
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return mux
}

func withCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	_ = enc.Encode(v)
}

func (s *Server) handleHighScore(w http.ResponseWriter, r *http.Request) {
	withCORS(w)
	if r.Method == http.MethodOptions {
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	resp := highScoreResponse{}
	if s.opts.HighScores != nil {
		n, ok, err := s.opts.HighScores.Load(r.Context())
		if err != nil {
			s.log.Warn("high score unavailable", "err", err)
		} else if ok {
			resp.HighScore = n
		}
	}
	writeJSON(w, resp)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		s.log.Debug("websocket upgrade failed", "err", err)
		return
	}

	engine, err := rules.NewEngine(s.opts.Game, s.opts.NewRand())
	if err != nil {
		s.log.Error("failed to create engine", "err", err)
		ws.Close()
		return
	}

	log := s.log.With("remote", r.RemoteAddr)
	c := newConn(ws, log, s.opts.WriteTimeout)
	sess := session.New(engine, session.Options{
		Renderer:   c,
		HighScores: s.opts.HighScores,
		Sound:      c,
		Logger:     log,
		AfterFunc:  s.opts.AfterFunc,
	})

	log.Info("player connected")
	c.serve(s.ctx, sess)
	log.Info("player disconnected")
}

// Serve runs handler on addr until ctx is canceled, then shuts down
// gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler, log *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("web ui listening", "addr", "http://"+addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("listen %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
