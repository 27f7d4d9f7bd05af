package demo

import (
	"math"

	"github.com/younwookim/arcamini/internal/application/scene"
	"github.com/younwookim/arcamini/internal/domain/resource"
)

// ToneRate is the sample rate tones are generated at
const ToneRate = 44100

type toneKey struct {
	freq       int
	durationMs int
	timbre     int // duty cycle in percent
}

// Note is a tone scheduled relative to the previous note. Zero fields
// repeat the previous note's value.
type Note struct {
	Freq     float64
	Duration float64
	Vol      float32
	Timbre   float64
	Pan      float32
	Delay    float64
}

type pending struct {
	note Note
	wait float64
}

// Beeper plays square wave tones, generating each distinct tone once.
type Beeper struct {
	env     *scene.Env
	sources *resource.Cache[toneKey]
	pending []pending
}

// NewBeeper creates a beeper playing through env
func NewBeeper(env *scene.Env) *Beeper {
	return &Beeper{env: env, sources: resource.NewCache[toneKey]()}
}

// Beep plays a tone now and returns its track id, 0 when nothing played
func (b *Beeper) Beep(freq, duration float64, vol float32, timbre float64, pan float32) uint32 {
	if b.env.Audio == nil || b.env.Resources == nil || freq <= 0 || duration <= 0 {
		return 0
	}
	key := toneKey{freq: int(freq), durationMs: int(duration * 1000), timbre: int(timbre * 100)}
	src := b.sources.Get(key, func() resource.Handle {
		return b.env.Resources.CreateAudio(squareWave(freq, duration, timbre), 1)
	})
	if !src.Valid() {
		return 0
	}
	return b.env.Audio.Replay(src, vol, pan, 0)
}

// Play schedules a melody. Notes without frequency, duration or volume are
// skipped but still advance time.
func (b *Beeper) Play(notes ...Note) {
	var prev Note
	prev.Timbre = 0.5
	at := 0.0
	for _, n := range notes {
		if n.Freq == 0 {
			n.Freq = prev.Freq
		}
		if n.Duration == 0 {
			n.Duration = prev.Duration
		}
		if n.Vol == 0 {
			n.Vol = prev.Vol
		}
		if n.Timbre == 0 {
			n.Timbre = prev.Timbre
		}
		at += n.Delay
		if n.Freq > 0 && n.Duration > 0 && n.Vol > 0 {
			b.pending = append(b.pending, pending{note: n, wait: at})
		}
		at += n.Duration
		prev = n
	}
}

// Update plays scheduled notes that are due
func (b *Beeper) Update(dt float64) {
	kept := b.pending[:0]
	for _, p := range b.pending {
		p.wait -= dt
		if p.wait <= 0 {
			b.Beep(p.note.Freq, p.note.Duration, p.note.Vol, p.note.Timbre, p.note.Pan)
			continue
		}
		kept = append(kept, p)
	}
	b.pending = kept
}

// Pending returns the number of scheduled notes
func (b *Beeper) Pending() int {
	return len(b.pending)
}

// squareWave generates a mono square wave; timbre is the duty cycle
func squareWave(freq, duration, timbre float64) []float32 {
	period := int(ToneRate / freq)
	if period < 1 {
		period = 1
	}
	high := int(timbre * float64(period))
	samples := make([]float32, int(math.Round(duration*ToneRate)))
	for i := range samples {
		if i%period < high {
			samples[i] = 1
		} else {
			samples[i] = -1
		}
	}
	return samples
}
