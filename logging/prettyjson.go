package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"
)

// PrettyJSONHandler writes one indented JSON object per record.
//
// Fields keep the order they were logged in: time, level, msg and source
// first, then handler attrs, then record attrs. Groups nest as objects.
// Not built for throughput.
type PrettyJSONHandler struct {
	w         io.Writer
	mu        *sync.Mutex
	level     slog.Leveler
	addSource bool

	bound  []boundAttr
	groups []string
}

// boundAttr is an attr added through WithAttrs, kept with the groups that
// were open at the time.
type boundAttr struct {
	groups []string
	attr   slog.Attr
}

func NewPrettyJSONHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyJSONHandler {
	var level slog.Leveler = slog.LevelInfo
	addSource := false
	if opts != nil {
		if opts.Level != nil {
			level = opts.Level
		}
		addSource = opts.AddSource
	}
	return &PrettyJSONHandler{
		w:         w,
		mu:        &sync.Mutex{},
		level:     level,
		addSource: addSource,
	}
}

func (h *PrettyJSONHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *PrettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	when := r.Time
	if when.IsZero() {
		when = time.Now()
	}

	root := &object{}
	root.set("time", when.Format(time.RFC3339Nano))
	root.set("level", r.Level.String())
	root.set("msg", r.Message)
	if h.addSource {
		if src := sourceFromPC(r.PC); src != "" {
			root.set("source", src)
		}
	}

	for _, b := range h.bound {
		root.at(b.groups).add(b.attr)
	}
	if r.NumAttrs() > 0 {
		dst := root.at(h.groups)
		r.Attrs(func(a slog.Attr) bool {
			dst.add(a)
			return true
		})
	}

	var buf bytes.Buffer
	root.write(&buf, 0)
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf.Bytes())
	return err
}

func (h *PrettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	clone := *h
	clone.bound = append([]boundAttr(nil), h.bound...)
	for _, a := range attrs {
		clone.bound = append(clone.bound, boundAttr{groups: h.groups, attr: a})
	}
	return &clone
}

func (h *PrettyJSONHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(append([]string(nil), h.groups...), name)
	return &clone
}

type field struct {
	key string
	val any
}

// object is an insertion-ordered JSON object. Repeated keys overwrite in
// place.
type object struct {
	fields []field
}

func (o *object) set(key string, val any) {
	for i := range o.fields {
		if o.fields[i].key == key {
			o.fields[i].val = val
			return
		}
	}
	o.fields = append(o.fields, field{key: key, val: val})
}

func (o *object) child(key string) *object {
	for _, f := range o.fields {
		if f.key == key {
			if c, ok := f.val.(*object); ok {
				return c
			}
		}
	}
	c := &object{}
	o.set(key, c)
	return c
}

func (o *object) at(path []string) *object {
	dst := o
	for _, g := range path {
		dst = dst.child(g)
	}
	return dst
}

func (o *object) add(a slog.Attr) {
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		attrs := v.Group()
		if len(attrs) == 0 {
			return
		}
		dst := o
		if a.Key != "" {
			dst = o.child(a.Key)
		}
		for _, ga := range attrs {
			dst.add(ga)
		}
		return
	}
	if a.Key == "" {
		return
	}
	o.set(a.Key, valueToAny(v))
}

func (o *object) write(buf *bytes.Buffer, depth int) {
	if len(o.fields) == 0 {
		buf.WriteString("{}")
		return
	}
	buf.WriteString("{\n")
	indent := strings.Repeat("  ", depth+1)
	for i, f := range o.fields {
		buf.WriteString(indent)
		buf.WriteString(strconv.Quote(f.key))
		buf.WriteString(": ")
		if c, ok := f.val.(*object); ok {
			c.write(buf, depth+1)
		} else {
			writeValue(buf, f.val, indent)
		}
		if i < len(o.fields)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString(strings.Repeat("  ", depth))
	buf.WriteByte('}')
}

func writeValue(buf *bytes.Buffer, v any, indent string) {
	b, err := json.MarshalIndent(v, indent, "  ")
	if err != nil {
		// Never drop a line over one bad value.
		b, _ = json.Marshal(err.Error())
	}
	buf.Write(b)
}

func valueToAny(v slog.Value) any {
	switch v.Kind() {
	case slog.KindString:
		return v.String()
	case slog.KindInt64:
		return v.Int64()
	case slog.KindUint64:
		return v.Uint64()
	case slog.KindFloat64:
		return v.Float64()
	case slog.KindBool:
		return v.Bool()
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return v.Time().Format(time.RFC3339Nano)
	case slog.KindAny:
		a := v.Any()
		if err, ok := a.(error); ok {
			return err.Error()
		}
		if s, ok := a.(interface{ String() string }); ok {
			return s.String()
		}
		return a
	default:
		return v.String()
	}
}

func sourceFromPC(pc uintptr) string {
	if pc == 0 {
		return ""
	}
	frames := runtime.CallersFrames([]uintptr{pc})
	f, _ := frames.Next()
	if f.File == "" {
		return ""
	}
	file := f.File
	if idx := strings.LastIndexByte(file, '/'); idx >= 0 {
		file = file[idx+1:]
	}
	return file + ":" + strconv.Itoa(f.Line)
}
