package ebitenhost

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloatToPCM16(t *testing.T) {
	pcm := floatToPCM16([]float32{0, 1, -1, 2})

	require.Len(t, pcm, 8)
	assert.Equal(t, []byte{0x00, 0x00}, pcm[0:2])
	assert.Equal(t, []byte{0xFF, 0x7F}, pcm[2:4])
	assert.Equal(t, []byte{0x01, 0x80}, pcm[4:6])
	assert.Equal(t, []byte{0xFF, 0x7F}, pcm[6:8], "clipped")

	back := pcm16ToFloat(pcm)
	assert.InDeltaSlice(t, []float32{0, 1, -1, 1}, back, 1e-4)
}

func TestPan(t *testing.T) {
	frames := []float32{1, 1, 0.5, 0.5}

	assert.Equal(t, frames, pan(frames, 0))
	assert.Equal(t, []float32{1, 0, 0.5, 0}, pan(frames, -1))
	assert.InDeltaSlice(t, []float32{0.5, 1, 0.25, 0.5}, pan(frames, 0.5), 1e-6)
	assert.Equal(t, []float32{0, 1, 0, 0.5}, pan(frames, 3), "clamped")
}

func TestResample(t *testing.T) {
	frames := []float32{0, 0, 1, 1, 2, 2, 3, 3}

	up := resample(frames, 2)
	assert.Equal(t, []float32{0, 0, 2, 2}, up)

	down := resample(frames, 0.5)
	require.Len(t, down, 16)
	assert.InDelta(t, 0.5, down[2], 1e-6)
	assert.InDelta(t, 3, down[14], 1e-6, "last frame holds")
}

func TestFade(t *testing.T) {
	f := newFade(1, 0, 2)

	assert.InDelta(t, 0.75, f.step(0.5), 1e-9)
	assert.False(t, f.done())
	assert.InDelta(t, 0.25, f.step(1), 1e-9)
	assert.InDelta(t, 0, f.step(5), 1e-9)
	assert.True(t, f.done())
}

func TestMixer_SetVolumeUnknownTrack(t *testing.T) {
	m := newMixer(44100)
	m.setVolume(7, 0.5, 1)
	m.tick(1)
	assert.Empty(t, m.tracks)
}

func TestCreateAudio_Channels(t *testing.T) {
	h := &Host{mixer: newMixer(44100)}

	mono, err := h.CreateAudio([]float32{0.1, 0.2}, 1)
	require.NoError(t, err)
	s, ok := entry[*sampleEntry](h, mono)
	require.True(t, ok)
	assert.True(t, s.mono)
	assert.Equal(t, []float32{0.1, 0.1, 0.2, 0.2}, s.frames)

	stereo, err := h.CreateAudio([]float32{0.1, 0.2, 0.3}, 2)
	require.NoError(t, err)
	s, _ = entry[*sampleEntry](h, stereo)
	assert.Equal(t, []float32{0.1, 0.2}, s.frames, "trailing half frame dropped")

	_, err = h.CreateAudio(nil, 4)
	assert.Error(t, err)
}
