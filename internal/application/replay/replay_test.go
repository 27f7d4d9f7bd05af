package replay

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younwookim/arcamini/internal/application/scene"
)

func TestReplayer_Next(t *testing.T) {
	data := ReplayData{
		Version: Version,
		Script:  "snake",
		Frames: []FrameInput{
			{F: 0, DT: 0.016, Events: []Event{{Kind: scene.EventAxis, Device: 1, ID: 0, Value: -1}}},
			{F: 1, DT: 0.017},
		},
	}
	replayer := NewReplayer(data)

	dt, events, ok := replayer.Next()
	require.True(t, ok)
	assert.Equal(t, 0.016, dt)
	assert.Equal(t, []scene.Event{{Kind: scene.EventAxis, Device: 1, ID: 0, Value: -1}}, events)

	dt, events, ok = replayer.Next()
	require.True(t, ok)
	assert.Equal(t, 0.017, dt)
	assert.Empty(t, events)

	// End of frames
	_, _, ok = replayer.Next()
	assert.False(t, ok)
}

func TestReplayer_CurrentFrame(t *testing.T) {
	replayer := NewReplayer(CreateTestReplayData("menu", 5))

	assert.Equal(t, 0, replayer.CurrentFrame())

	replayer.Next()
	assert.Equal(t, 1, replayer.CurrentFrame())

	replayer.Next()
	replayer.Next()
	assert.Equal(t, 3, replayer.CurrentFrame())
	assert.Equal(t, 5, replayer.TotalFrames())
}

func TestReplayer_Reset(t *testing.T) {
	replayer := NewReplayer(CreateTestReplayData("menu", 2))

	replayer.Next()
	replayer.Next()
	_, _, ok := replayer.Next()
	assert.False(t, ok)

	replayer.Reset()
	assert.Equal(t, 0, replayer.CurrentFrame())

	_, events, ok := replayer.Next()
	assert.True(t, ok)
	assert.Len(t, events, 1, "first frame replays its button press")
}

func TestRecorder_RecordAndStop(t *testing.T) {
	rec := NewRecorder("snake", []string{"level2"})
	assert.True(t, rec.IsRecording())

	rec.RecordFrame(0.016, []scene.Event{{Kind: scene.EventButton, Device: 0, ID: 7, Value: 1}})
	rec.RecordFrame(0.016, nil)
	rec.Stop()
	rec.RecordFrame(0.016, nil)

	assert.False(t, rec.IsRecording())
	assert.Equal(t, 2, rec.FrameCount())

	data := rec.Data()
	assert.Equal(t, Version, data.Version)
	assert.Equal(t, "snake", data.Script)
	assert.Equal(t, []string{"level2"}, data.Args)
	assert.Equal(t, 1, data.Frames[1].F)
	assert.Equal(t, 7, data.Frames[0].Events[0].ID)
}

func TestRecorder_SaveAndLoad(t *testing.T) {
	rec := NewRecorder("menu", nil)
	rec.RecordFrame(0.02, []scene.Event{{Kind: scene.EventAxis, Device: 2, ID: 1, Value: 0.5, Value2: 0.25}})

	name := filepath.Join(t.TempDir(), GenerateFilename())
	require.NoError(t, rec.Save(name))

	loaded, err := LoadReplay(name)
	require.NoError(t, err)
	assert.Equal(t, "menu", loaded.Script)

	_, events, ok := NewReplayer(*loaded).Next()
	require.True(t, ok)
	assert.Equal(t, scene.Event{Kind: scene.EventAxis, Device: 2, ID: 1, Value: 0.5, Value2: 0.25}, events[0])
}

func TestRecorder_StorageSnapshot(t *testing.T) {
	rec := NewRecorder("snake", nil)
	rec.SetStorage(map[string]string{"snake.highscore": "12"})
	rec.RecordFrame(0.016, nil)

	name := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, rec.Save(name))
	loaded, err := LoadReplay(name)
	require.NoError(t, err)

	r := NewReplayer(*loaded)
	script, args := r.Script()
	assert.Equal(t, "snake", script)
	assert.Empty(t, args)
	assert.Equal(t, map[string]string{"snake.highscore": "12"}, r.Storage())
}

func TestRecorder_SaveEmpty(t *testing.T) {
	rec := NewRecorder("menu", nil)
	assert.Error(t, rec.Save(filepath.Join(t.TempDir(), "empty.json")))
}

func TestLoadReplay_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadReplay(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o644))
	_, err = LoadReplay(bad)
	assert.Error(t, err)

	old := filepath.Join(dir, "old.json")
	require.NoError(t, os.WriteFile(old, []byte(`{"version":"1.0","frames":[]}`), 0o644))
	_, err = LoadReplay(old)
	assert.ErrorContains(t, err, "unsupported replay version")
}
