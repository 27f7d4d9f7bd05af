package config

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_LoadRuntime(t *testing.T) {
	loader := NewLoader("../../../cmd/arcamini/configs")

	cfg, err := loader.LoadRuntime()
	require.NoError(t, err)

	assert.Equal(t, 640, cfg.Window.Width)
	assert.Equal(t, 480, cfg.Window.Height)
	assert.Equal(t, 60, cfg.Window.TPS)
	assert.Equal(t, 44100, cfg.Audio.SampleRate)
	assert.Equal(t, "arcamini", cfg.Storage.AppName)
	assert.True(t, cfg.Input.CloseOnButton)
}

func TestLoader_MissingFileYieldsDefaults(t *testing.T) {
	loader := NewFSLoader(fstest.MapFS{}, "")

	cfg, err := loader.LoadRuntime()
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
}

func TestLoader_PartialOverride(t *testing.T) {
	fsys := fstest.MapFS{
		"runtime.json": {Data: []byte(`{"window": {"width": 320, "height": 240, "tps": 30}, "debug": true}`)},
	}
	loader := NewFSLoader(fsys, "")

	cfg, err := loader.LoadRuntime()
	require.NoError(t, err)

	assert.Equal(t, 320, cfg.Window.Width)
	assert.Equal(t, 30, cfg.Window.TPS)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 44100, cfg.Audio.SampleRate, "untouched sections keep defaults")
}

func TestLoader_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad json", `{"window": `},
		{"zero width", `{"window": {"width": 0}}`},
		{"zero tps", `{"window": {"tps": 0}}`},
		{"no app name", `{"storage": {"appName": ""}}`},
		{"zero sample rate", `{"audio": {"sampleRate": 0}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := NewFSLoader(fstest.MapFS{"runtime.json": {Data: []byte(tt.data)}}, "")
			_, err := loader.LoadRuntime()
			assert.Error(t, err)
		})
	}
}
