// Package ebitenhost is the native runtime backend built on Ebitengine. It
// executes drawing batches on the frame's screen image and implements the
// resource, window and audio services scenes use.
package ebitenhost

import (
	"bytes"
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/younwookim/arcamini/internal/domain/gfx"
	"github.com/younwookim/arcamini/internal/domain/resource"
	"github.com/younwookim/arcamini/internal/infrastructure/config"
)

// DefaultFontSize is the size of the built-in font, handle 0
const DefaultFontSize = 16

// Files reads named resources, e.g. an archive.
type Files interface {
	ReadFile(name string) ([]byte, error)
}

// Host owns every native resource and the frame being drawn.
//
// Images, fonts and audio samples share one handle space. All methods must
// be called from the game loop goroutine.
type Host struct {
	files  Files
	width  int
	height int
	clear  uint32

	entries []any

	renderer *renderer
	mixer    *mixer
}

// New creates a host reading resources from files.
func New(cfg config.RuntimeConfig, files Files) (*Host, error) {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("failed to load default font: %w", err)
	}

	h := &Host{
		files:  files,
		width:  cfg.Window.Width,
		height: cfg.Window.Height,
		clear:  cfg.Window.ClearColor,
		mixer:  newMixer(cfg.Audio.SampleRate),
	}
	h.entries = append(h.entries, &fontEntry{face: &text.GoTextFace{Source: src, Size: DefaultFontSize}})
	h.renderer = &renderer{host: h}
	return h, nil
}

// BeginFrame sets the image batches are drawn to and clears it
func (h *Host) BeginFrame(screen *ebiten.Image) {
	screen.Fill(unpackColor(h.clear))
	h.renderer.begin(screen)
}

// ExecuteBatch implements gfx.BatchExecutor. A malformed batch is drawn up to
// the bad record and then dropped.
func (h *Host) ExecuteBatch(ops, strings []byte) {
	if h.renderer.screen == nil {
		return
	}
	if err := gfx.Walk(ops, strings, h.renderer); err != nil {
		log.Printf("[gfx] %v", err)
	}
}

// Tick advances audio fades by dt seconds and releases finished tracks
func (h *Host) Tick(dt float64) {
	h.mixer.tick(dt)
}

// Width implements scene.Window
func (h *Host) Width() int { return h.width }

// Height implements scene.Window
func (h *Host) Height() int { return h.height }

// SetClearColor implements scene.Window
func (h *Host) SetClearColor(rgba uint32) { h.clear = rgba }

// Replay implements scene.Audio
func (h *Host) Replay(sample resource.Handle, volume, balance, detune float32) uint32 {
	s, ok := entry[*sampleEntry](h, sample)
	if !ok {
		log.Printf("[audio] handle %d is not a sample", sample)
		return 0
	}
	return h.mixer.replay(s, volume, balance, detune)
}

// SetVolume implements scene.Audio
func (h *Host) SetVolume(track uint32, volume, fade float32) {
	h.mixer.setVolume(track, volume, fade)
}

func (h *Host) add(e any) resource.Handle {
	h.entries = append(h.entries, e)
	return resource.Handle(len(h.entries) - 1)
}

func (h *Host) read(name string) ([]byte, error) {
	if h.files == nil {
		return nil, fmt.Errorf("no resource files to read %s from", name)
	}
	return h.files.ReadFile(name)
}

func entry[T any](h *Host, handle resource.Handle) (T, bool) {
	var zero T
	if !handle.Valid() || int(handle) >= len(h.entries) {
		return zero, false
	}
	e, ok := h.entries[handle].(T)
	return e, ok
}
