package ebitenhost

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"log"
	"math"
	"path"
	"strings"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"

	"github.com/younwookim/arcamini/internal/domain/resource"
)

// sampleEntry is decoded audio as interleaved stereo frames in [-1, 1]
type sampleEntry struct {
	frames []float32
	mono   bool
}

// LoadAudio implements resource.Backend. The format follows the file
// extension: .wav, .ogg or .mp3.
func (h *Host) LoadAudio(name string) (resource.Handle, error) {
	data, err := h.read(name)
	if err != nil {
		return resource.Invalid, err
	}
	pcm, err := decodeAudio(name, data, h.mixer.sampleRate)
	if err != nil {
		return resource.Invalid, err
	}
	return h.add(&sampleEntry{frames: pcm16ToFloat(pcm)}), nil
}

// CreateAudio implements resource.Backend. samples are at the output sample
// rate, interleaved when channels is 2.
func (h *Host) CreateAudio(samples []float32, channels int) (resource.Handle, error) {
	switch channels {
	case 1:
		frames := make([]float32, 0, 2*len(samples))
		for _, s := range samples {
			frames = append(frames, s, s)
		}
		return h.add(&sampleEntry{frames: frames, mono: true}), nil
	case 2:
		return h.add(&sampleEntry{frames: append([]float32(nil), samples[:len(samples)&^1]...)}), nil
	default:
		return resource.Invalid, fmt.Errorf("unsupported channel count %d", channels)
	}
}

func decodeAudio(name string, data []byte, sampleRate int) ([]byte, error) {
	var (
		stream io.Reader
		err    error
	)
	src := bytes.NewReader(data)
	switch strings.ToLower(path.Ext(name)) {
	case ".wav":
		stream, err = wav.DecodeWithSampleRate(sampleRate, src)
	case ".ogg":
		stream, err = vorbis.DecodeWithSampleRate(sampleRate, src)
	case ".mp3":
		stream, err = mp3.DecodeWithSampleRate(sampleRate, src)
	default:
		return nil, fmt.Errorf("unsupported audio format %s", name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", name, err)
	}
	pcm, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return pcm, nil
}

type track struct {
	player *audio.Player
	fade   *fade
}

// mixer plays samples on an audio context created on first use.
type mixer struct {
	sampleRate int
	ctx        *audio.Context

	tracks    map[uint32]*track
	nextTrack uint32
}

func newMixer(sampleRate int) *mixer {
	return &mixer{sampleRate: sampleRate, tracks: make(map[uint32]*track)}
}

func (m *mixer) context() *audio.Context {
	if m.ctx == nil {
		m.ctx = audio.NewContext(m.sampleRate)
	}
	return m.ctx
}

// replay starts a sample. Balance and detune only apply to mono samples.
func (m *mixer) replay(s *sampleEntry, volume, balance, detune float32) uint32 {
	frames := s.frames
	if s.mono {
		if detune != 0 {
			frames = resample(frames, math.Pow(2, float64(detune)/12))
		}
		frames = pan(frames, balance)
	}

	p := m.context().NewPlayerFromBytes(floatToPCM16(frames))
	p.SetVolume(float64(volume))
	p.Play()

	m.nextTrack++
	m.tracks[m.nextTrack] = &track{player: p}
	return m.nextTrack
}

func (m *mixer) setVolume(id uint32, volume, seconds float32) {
	t, ok := m.tracks[id]
	if !ok {
		return
	}
	if seconds <= 0 {
		t.fade = nil
		t.player.SetVolume(float64(volume))
		return
	}
	t.fade = newFade(t.player.Volume(), float64(volume), float64(seconds))
}

func (m *mixer) tick(dt float64) {
	for id, t := range m.tracks {
		if t.fade != nil {
			t.player.SetVolume(t.fade.step(dt))
			if t.fade.done() {
				t.fade = nil
			}
		}
		if !t.player.IsPlaying() {
			if err := t.player.Close(); err != nil {
				log.Printf("[audio] track %d: %v", id, err)
			}
			delete(m.tracks, id)
		}
	}
}

// fade moves a volume linearly over a duration
type fade struct {
	from, to float64
	duration float64
	elapsed  float64
}

func newFade(from, to, duration float64) *fade {
	return &fade{from: from, to: to, duration: duration}
}

func (f *fade) step(dt float64) float64 {
	f.elapsed = math.Min(f.elapsed+dt, f.duration)
	return f.from + (f.to-f.from)*f.elapsed/f.duration
}

func (f *fade) done() bool {
	return f.elapsed >= f.duration
}

// pan scales the left and right channels of stereo frames; -1 is full left
func pan(frames []float32, balance float32) []float32 {
	if balance == 0 {
		return frames
	}
	balance = float32(math.Max(-1, math.Min(1, float64(balance))))
	left, right := float32(1), float32(1)
	if balance > 0 {
		left = 1 - balance
	} else {
		right = 1 + balance
	}
	out := make([]float32, len(frames))
	for i := 0; i+1 < len(frames); i += 2 {
		out[i] = frames[i] * left
		out[i+1] = frames[i+1] * right
	}
	return out
}

// resample changes the playback rate of stereo frames by linear interpolation
func resample(frames []float32, rate float64) []float32 {
	n := len(frames) / 2
	if n == 0 || rate <= 0 {
		return frames
	}
	outN := int(float64(n) / rate)
	out := make([]float32, 0, 2*outN)
	for i := 0; i < outN; i++ {
		pos := float64(i) * rate
		j := int(pos)
		frac := float32(pos - float64(j))
		k := min(j+1, n-1)
		for c := 0; c < 2; c++ {
			a, b := frames[2*j+c], frames[2*k+c]
			out = append(out, a+(b-a)*frac)
		}
	}
	return out
}

// floatToPCM16 encodes samples as signed 16-bit little endian, clipping to [-1, 1]
func floatToPCM16(samples []float32) []byte {
	out := make([]byte, 0, 2*len(samples))
	for _, s := range samples {
		v := math.Max(-1, math.Min(1, float64(s)))
		out = binary.LittleEndian.AppendUint16(out, uint16(int16(math.Round(v*math.MaxInt16))))
	}
	return out
}

func pcm16ToFloat(pcm []byte) []float32 {
	out := make([]float32, len(pcm)/2)
	for i := range out {
		out[i] = float32(int16(binary.LittleEndian.Uint16(pcm[2*i:]))) / math.MaxInt16
	}
	return out
}
