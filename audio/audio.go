// Package audio synthesises the game's sound cues and plays them through the
// system speaker.
package audio

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/brensch/neonsnake/rules"
)

const sampleRate = beep.SampleRate(44100)

// note is one segment of a cue. A zero frequency is a rest.
type note struct {
	freq float64
	dur  time.Duration
}

var cues = map[rules.Sound][]note{
	rules.SoundMove: {{freq: 520, dur: 25 * time.Millisecond}},
	rules.SoundEat: {
		{freq: 660, dur: 50 * time.Millisecond},
		{freq: 990, dur: 70 * time.Millisecond},
	},
	rules.SoundGameOver: {
		{freq: 392, dur: 140 * time.Millisecond},
		{freq: 0, dur: 30 * time.Millisecond},
		{freq: 311, dur: 140 * time.Millisecond},
		{freq: 0, dur: 30 * time.Millisecond},
		{freq: 233, dur: 320 * time.Millisecond},
	},
}

// Cue builds the streamer for s at rate sr.
func Cue(s rules.Sound, sr beep.SampleRate) (beep.Streamer, error) {
	notes, ok := cues[s]
	if !ok {
		return nil, fmt.Errorf("no cue for sound %d", s)
	}
	parts := make([]beep.Streamer, 0, len(notes))
	for _, n := range notes {
		samples := sr.N(n.dur)
		if n.freq == 0 {
			parts = append(parts, beep.Silence(samples))
			continue
		}
		tone, err := generators.SineTone(sr, n.freq)
		if err != nil {
			return nil, fmt.Errorf("tone %.0fHz: %w", n.freq, err)
		}
		parts = append(parts, fade(beep.Take(samples, tone), samples, sr.N(5*time.Millisecond)))
	}
	return beep.Seq(parts...), nil
}

// fade ramps the first and last edge samples to avoid clicks.
func fade(s beep.Streamer, total, edge int) beep.Streamer {
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		n, ok := s.Stream(samples)
		for i := 0; i < n; i++ {
			g := 1.0
			if edge > 0 {
				if pos < edge {
					g = float64(pos) / float64(edge)
				} else if rem := total - pos; rem < edge {
					g = float64(rem) / float64(edge)
				}
			}
			samples[i][0] *= g
			samples[i][1] *= g
			pos++
		}
		return n, ok
	})
}

func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

type Options struct {
	// Muted starts the player silenced; ToggleMute can still turn it on.
	Muted bool
	// Volume is a linear gain in (0, 1]. Zero means 0.3.
	Volume float64
	Logger *slog.Logger
}

// Player plays cues on a best-effort basis. If the speaker cannot be opened
// the player stays silent and Play is a no-op.
type Player struct {
	mu     sync.Mutex
	mixer  *beep.Mixer
	ready  bool
	volume float64
	muted  atomic.Bool
	log    *slog.Logger
}

var (
	speakerOnce sync.Once
	speakerErr  error
)

func newPlayer(opts Options) *Player {
	p := &Player{
		mixer:  &beep.Mixer{},
		volume: opts.Volume,
		log:    opts.Logger,
	}
	if p.volume <= 0 {
		p.volume = 0.3
	}
	if p.log == nil {
		p.log = slog.Default()
	}
	p.muted.Store(opts.Muted)
	return p
}

// NewPlayer opens the speaker. Audio problems are logged and never returned;
// the player is silent from then on.
func NewPlayer(opts Options) *Player {
	p := newPlayer(opts)
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(sampleRate, sampleRate.N(time.Second/10))
	})
	if speakerErr != nil {
		p.log.Warn("audio unavailable, sound disabled", "err", speakerErr)
		p.muted.Store(true)
		return p
	}
	speaker.Play(p.mixer)
	p.ready = true
	return p
}

// Silent returns a player that never touches the speaker.
func Silent() *Player {
	return newPlayer(Options{Muted: true})
}

// Enabled reports whether cues are audible.
func (p *Player) Enabled() bool {
	return p.ready && !p.muted.Load()
}

// ToggleMute flips mute and returns whether sound is now on. A player without
// a speaker stays off.
func (p *Player) ToggleMute() bool {
	if !p.ready {
		return false
	}
	for {
		old := p.muted.Load()
		if p.muted.CompareAndSwap(old, !old) {
			return old
		}
	}
}

func (p *Player) Play(s rules.Sound) {
	if !p.Enabled() {
		return
	}
	cue, err := Cue(s, sampleRate)
	if err != nil {
		p.log.Debug("sound skipped", "sound", s, "err", err)
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	speaker.Lock()
	p.mixer.Add(withVolume(cue, p.volume))
	speaker.Unlock()
}

// Close stops anything still playing.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.ready {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	p.muted.Store(true)
}
