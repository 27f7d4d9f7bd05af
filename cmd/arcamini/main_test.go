package main

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younwookim/arcamini/internal/application/demo"
	"github.com/younwookim/arcamini/internal/application/replay"
	"github.com/younwookim/arcamini/internal/application/scene"
	"github.com/younwookim/arcamini/internal/infrastructure/archive"
	"github.com/younwookim/arcamini/internal/infrastructure/config"
)

func TestParseFlags(t *testing.T) {
	opts, err := parseFlags([]string{"-w", "800", "-debug", "-scene", "snake", "games.zip", "level2", "hard"})
	require.NoError(t, err)

	assert.Equal(t, 800, opts.width)
	assert.True(t, opts.debug)
	assert.Equal(t, "snake", opts.scene)
	assert.Equal(t, "games.zip", opts.archive)
	assert.Equal(t, []string{"level2", "hard"}, opts.args)
}

func TestParseFlags_Unknown(t *testing.T) {
	_, err := parseFlags([]string{"-nope"})
	assert.Error(t, err)
}

func TestLoadConfig_EmbeddedWithOverrides(t *testing.T) {
	cfg, err := loadConfig(&options{width: 320, fullscreen: true})
	require.NoError(t, err)

	assert.Equal(t, 320, cfg.Window.Width)
	assert.Equal(t, 480, cfg.Window.Height)
	assert.True(t, cfg.Window.Fullscreen)
	assert.Equal(t, "arcamini", cfg.Storage.AppName)
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"window":{"width":1024,"height":768}}`), 0o644))

	cfg, err := loadConfig(&options{configPath: path})
	require.NoError(t, err)
	assert.Equal(t, 1024, cfg.Window.Width)
	assert.Equal(t, 60, cfg.Window.TPS, "unset values keep defaults")

	_, err = loadConfig(&options{configPath: filepath.Join(t.TempDir(), "missing.json")})
	assert.Error(t, err)
}

func TestInitialScene(t *testing.T) {
	arc := archive.FromFS("mem", fstest.MapFS{startFile: {Data: []byte("snake\n")}})

	assert.Equal(t, "stress", initialScene(&options{scene: "stress"}, arc))
	assert.Equal(t, "snake", initialScene(&options{}, arc))
	assert.Equal(t, demo.MenuScene, initialScene(&options{}, nil))
	assert.Equal(t, demo.MenuScene, initialScene(&options{}, archive.FromFS("empty", fstest.MapFS{})))
}

func TestReplaySession(t *testing.T) {
	rec := replay.NewRecorder(demo.MenuScene, nil)
	rec.RecordFrame(1.0/60, nil)
	rec.RecordFrame(1.0/60, []scene.Event{{Kind: scene.EventAxis, Device: 0, ID: 1, Value: 1}})
	rec.RecordFrame(1.0/60, []scene.Event{{Kind: scene.EventAxis, Device: 0, ID: 1, Value: 0}})
	rec.RecordFrame(1.0/60, []scene.Event{{Kind: scene.EventButton, Device: 0, ID: 0, Value: 1}})
	rec.RecordFrame(1.0/60, nil)

	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, rec.Save(path))
	data, err := replay.LoadReplay(path)
	require.NoError(t, err)

	res, err := replaySession(config.Default(), nil, demo.Register(scene.NewRegistry()), data, nil)
	require.NoError(t, err)

	assert.Equal(t, 5, res.frames)
	assert.Equal(t, 5, res.total)
	assert.Equal(t, 5, res.batches)
	assert.Greater(t, res.ops, 0)
	assert.Equal(t, 0, res.invalid)
	assert.Greater(t, res.byOp["DRAWIMAGE"], 0)
}

func TestReplaySession_SeedsStorage(t *testing.T) {
	data := replay.CreateTestReplayData(demo.MenuScene, 2)
	data.Frames[0].Events = nil
	data.Storage = map[string]string{demo.HighScoreKey: "42"}

	res, err := replaySession(config.Default(), nil, demo.Register(scene.NewRegistry()), &data, nil)
	require.NoError(t, err)

	assert.Contains(t, res.texts, "best 42")
}

func TestReplaySession_UnknownScene(t *testing.T) {
	data := replay.CreateTestReplayData("nothing-here", 3)

	_, err := replaySession(config.Default(), nil, demo.Register(scene.NewRegistry()), &data, nil)
	assert.Error(t, err)
}

func TestReplaySession_MenuExit(t *testing.T) {
	data := replay.CreateTestReplayData(demo.MenuScene, 1)
	data.Frames = append(data.Frames,
		replay.FrameInput{F: 1, DT: 1.0 / 60, Events: []replay.Event{{Kind: scene.EventButton, ID: 7, Value: 1}}},
		replay.FrameInput{F: 2, DT: 1.0 / 60},
	)
	data.Frames[0].Events = nil

	res, err := replaySession(config.Default(), nil, demo.Register(scene.NewRegistry()), &data, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, res.frames, "stops when the menu exits")
	assert.Equal(t, 1, res.batches)
}
