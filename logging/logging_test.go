package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	return m
}

func TestPrettyJSON_FieldsAndOrder(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewPrettyJSONHandler(&buf, nil))

	log.Info("game over", "score", 120, "length", 15, "interval", 150*time.Millisecond, "err", errors.New("boom"))

	out := buf.String()
	if !strings.HasSuffix(out, "}\n") || !strings.Contains(out, "\n  \"msg\": \"game over\"") {
		t.Fatalf("unexpected layout:\n%s", out)
	}
	order := []string{`"time"`, `"level"`, `"msg"`, `"score"`, `"length"`, `"interval"`, `"err"`}
	last := -1
	for _, k := range order {
		idx := strings.Index(out, k)
		if idx <= last {
			t.Fatalf("key %s out of order:\n%s", k, out)
		}
		last = idx
	}

	m := decode(t, &buf)
	if m["level"] != "INFO" || m["score"] != float64(120) || m["interval"] != "150ms" || m["err"] != "boom" {
		t.Fatalf("unexpected payload: %v", m)
	}
}

func TestPrettyJSON_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewPrettyJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
	log.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("info logged at warn level: %s", buf.String())
	}
	log.Warn("shown")
	if decode(t, &buf)["msg"] != "shown" {
		t.Fatalf("warn not logged")
	}
}

func TestPrettyJSON_GroupsAndBoundAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewPrettyJSONHandler(&buf, nil)).
		With("session", "abc").
		WithGroup("game").
		With("grid", 15)

	log.Info("tick", "score", 30, slog.Group("head", "x", 4, "y", 7))

	m := decode(t, &buf)
	if m["session"] != "abc" {
		t.Fatalf("outer attr misplaced: %v", m)
	}
	game, ok := m["game"].(map[string]any)
	if !ok {
		t.Fatalf("missing game group: %v", m)
	}
	if game["grid"] != float64(15) || game["score"] != float64(30) {
		t.Fatalf("group contents: %v", game)
	}
	head, ok := game["head"].(map[string]any)
	if !ok || head["x"] != float64(4) || head["y"] != float64(7) {
		t.Fatalf("nested group: %v", game["head"])
	}
}

func TestPrettyJSON_Source(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewPrettyJSONHandler(&buf, &slog.HandlerOptions{AddSource: true}))
	log.Info("where")
	src, _ := decode(t, &buf)["source"].(string)
	if !strings.HasPrefix(src, "logging_test.go:") {
		t.Fatalf("source=%q", src)
	}
}

func TestNew_Formats(t *testing.T) {
	for _, f := range []Format{FormatPretty, FormatJSON, FormatText} {
		var buf bytes.Buffer
		log, err := New(&buf, Options{Format: f, Level: slog.LevelDebug})
		if err != nil {
			t.Fatalf("New(%s): %v", f, err)
		}
		log.Debug("hello", "k", "v")
		if !strings.Contains(buf.String(), "hello") {
			t.Fatalf("%s: nothing written", f)
		}
	}
	if _, err := New(&bytes.Buffer{}, Options{Format: "xml"}); err == nil {
		t.Fatalf("unknown format accepted")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"warning": slog.LevelWarn,
		" error ": slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Fatalf("ParseLevel(%q)=%v,%v want %v", in, got, err, want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("bad level accepted")
	}
}
