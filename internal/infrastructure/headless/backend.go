// Package headless implements the runtime backends without a window. Every
// batch is decoded and validated, resources are bookkeeping entries and
// audio is silent. It powers replays and tests.
package headless

import (
	"fmt"
	"log"

	"github.com/younwookim/arcamini/internal/domain/gfx"
	"github.com/younwookim/arcamini/internal/domain/resource"
)

// Kind is the type of a headless resource
type Kind string

const (
	KindImage    Kind = "image"
	KindVector   Kind = "vector"
	KindTileGrid Kind = "tilegrid"
	KindAudio    Kind = "audio"
	KindFont     Kind = "font"
)

// Resource describes a created resource
type Resource struct {
	Kind Kind
	Name string
}

// Files answers whether a named resource exists, e.g. an archive.
type Files interface {
	Exists(name string) bool
}

// Stats summarizes the batches executed so far
type Stats struct {
	Batches int
	Ops     map[gfx.Opcode]int
	Texts   []string
	Invalid int
}

// Backend is a window-less runtime backend.
type Backend struct {
	files  Files
	width  int
	height int
	clear  uint32

	resources []Resource
	tracks    map[uint32]float32
	nextTrack uint32

	stats   Stats
	lastErr error
}

// New creates a backend with the given window size. files may be nil, in
// which case every named resource is assumed to exist.
func New(width, height int, files Files) *Backend {
	b := &Backend{
		files:  files,
		width:  width,
		height: height,
		clear:  0x000000FF,
		tracks: make(map[uint32]float32),
		stats:  Stats{Ops: make(map[gfx.Opcode]int)},
	}
	// handle 0 is the built-in font
	b.resources = append(b.resources, Resource{Kind: KindFont, Name: "default"})
	return b
}

// ExecuteBatch validates a batch and updates the statistics.
func (b *Backend) ExecuteBatch(ops, strings []byte) {
	decoded, err := gfx.Decode(ops, strings)
	b.stats.Batches++
	if err != nil {
		b.stats.Invalid++
		b.lastErr = err
		log.Printf("[headless] batch %d: %v", b.stats.Batches, err)
	}
	for _, op := range decoded {
		b.stats.Ops[op.Code]++
		if op.Code == gfx.OpFillText {
			b.stats.Texts = append(b.stats.Texts, op.Text)
		}
	}
}

// Stats returns the batch statistics
func (b *Backend) Stats() Stats {
	return b.stats
}

// Err returns the last batch validation error
func (b *Backend) Err() error {
	return b.lastErr
}

// Resource returns the description of a handle
func (b *Backend) Resource(h resource.Handle) (Resource, bool) {
	if !h.Valid() || int(h) >= len(b.resources) {
		return Resource{}, false
	}
	return b.resources[h], true
}

// Resources returns the number of resources created, the default font included
func (b *Backend) Resources() int {
	return len(b.resources)
}

func (b *Backend) add(kind Kind, name string) resource.Handle {
	b.resources = append(b.resources, Resource{Kind: kind, Name: name})
	return resource.Handle(len(b.resources) - 1)
}

func (b *Backend) named(kind Kind, name, label string) (resource.Handle, error) {
	if b.files != nil && !b.files.Exists(name) {
		return resource.Invalid, fmt.Errorf("%s %q not found", kind, name)
	}
	return b.add(kind, label), nil
}

// LoadImage implements resource.Backend
func (b *Backend) LoadImage(name string, _, _, _ float32, _ resource.Filter) (resource.Handle, error) {
	return b.named(KindImage, name, name)
}

// CreateImage implements resource.Backend
func (b *Backend) CreateImage(pixels []byte, width, height int, _, _ float32, _ resource.Filter) (resource.Handle, error) {
	if width <= 0 || height <= 0 || len(pixels) < width*height*4 {
		return resource.Invalid, fmt.Errorf("invalid image data %dx%d (%d bytes)", width, height, len(pixels))
	}
	return b.add(KindImage, fmt.Sprintf("%dx%d", width, height)), nil
}

// CreateVectorImage implements resource.Backend
func (b *Backend) CreateVectorImage(markup string, _, _, _ float32) (resource.Handle, error) {
	if markup == "" {
		return resource.Invalid, fmt.Errorf("empty svg markup")
	}
	return b.add(KindVector, ""), nil
}

// TileGrid implements resource.Backend. Tiles get consecutive handles in
// row-major order.
func (b *Backend) TileGrid(parent resource.Handle, tilesX, tilesY, _ uint16) (resource.Handle, error) {
	r, ok := b.Resource(parent)
	if !ok || (r.Kind != KindImage && r.Kind != KindVector) {
		return resource.Invalid, fmt.Errorf("tile grid parent %d is not an image", parent)
	}
	if tilesX == 0 || tilesY == 0 {
		return resource.Invalid, fmt.Errorf("tile grid %dx%d is empty", tilesX, tilesY)
	}
	first := resource.Handle(len(b.resources))
	for i := 0; i < int(tilesX)*int(tilesY); i++ {
		b.add(KindTileGrid, fmt.Sprintf("%s#%d", r.Name, i))
	}
	return first, nil
}

// LoadAudio implements resource.Backend
func (b *Backend) LoadAudio(name string) (resource.Handle, error) {
	return b.named(KindAudio, name, name)
}

// CreateAudio implements resource.Backend
func (b *Backend) CreateAudio(samples []float32, channels int) (resource.Handle, error) {
	if channels != 1 && channels != 2 {
		return resource.Invalid, fmt.Errorf("unsupported channel count %d", channels)
	}
	return b.add(KindAudio, fmt.Sprintf("pcm%d", len(samples))), nil
}

// LoadFont implements resource.Backend
func (b *Backend) LoadFont(name string, size int) (resource.Handle, error) {
	if name == "" {
		// built-in font at another size
		return b.add(KindFont, fmt.Sprintf("default@%d", size)), nil
	}
	return b.named(KindFont, name, fmt.Sprintf("%s@%d", name, size))
}

// Width implements scene.Window
func (b *Backend) Width() int { return b.width }

// Height implements scene.Window
func (b *Backend) Height() int { return b.height }

// SetClearColor implements scene.Window
func (b *Backend) SetClearColor(rgba uint32) { b.clear = rgba }

// ClearColor returns the last clear color set
func (b *Backend) ClearColor() uint32 { return b.clear }

// Replay implements scene.Audio. Tracks are numbered from 1.
func (b *Backend) Replay(sample resource.Handle, volume, _, _ float32) uint32 {
	if r, ok := b.Resource(sample); !ok || r.Kind != KindAudio {
		return 0
	}
	b.nextTrack++
	b.tracks[b.nextTrack] = volume
	return b.nextTrack
}

// SetVolume implements scene.Audio. Fades complete immediately.
func (b *Backend) SetVolume(track uint32, volume, _ float32) {
	if _, ok := b.tracks[track]; ok {
		b.tracks[track] = volume
	}
}

// Volume returns the volume of a track
func (b *Backend) Volume(track uint32) (float32, bool) {
	v, ok := b.tracks[track]
	return v, ok
}
