package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Loader loads runtime configuration from JSON files using fs.FS interface
type Loader struct {
	fsys     fs.FS
	basePath string
}

// NewLoader creates a new config loader from filesystem path
func NewLoader(basePath string) *Loader {
	return &Loader{
		fsys:     os.DirFS(basePath),
		basePath: basePath,
	}
}

// NewFSLoader creates a new config loader from fs.FS
func NewFSLoader(fsys fs.FS, basePath string) *Loader {
	return &Loader{
		fsys:     fsys,
		basePath: basePath,
	}
}

// LoadRuntime loads runtime.json over the defaults. A missing file yields
// the defaults.
func (l *Loader) LoadRuntime() (*RuntimeConfig, error) {
	return l.Load("runtime.json")
}

// Load loads a runtime config file by name over the defaults
func (l *Loader) Load(name string) (*RuntimeConfig, error) {
	cfg := Default()

	data, err := fs.ReadFile(l.fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", name, err)
	}

	return cfg, nil
}

// Validate checks value ranges
func (c *RuntimeConfig) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if c.Window.TPS <= 0 {
		return fmt.Errorf("tps %d must be positive", c.Window.TPS)
	}
	if c.Audio.SampleRate <= 0 {
		return fmt.Errorf("sample rate %d must be positive", c.Audio.SampleRate)
	}
	if c.Storage.AppName == "" {
		return errors.New("storage app name is empty")
	}
	return nil
}
