package resource

import "log"

// Filter selects how an image is sampled when scaled or rotated.
// The value is passed through to the backend unchanged.
type Filter int

const (
	FilterNearest Filter = 0
	FilterLinear  Filter = 1
)

// Backend is the native resource subsystem.
type Backend interface {
	LoadImage(name string, scale, centerX, centerY float32, filter Filter) (Handle, error)
	CreateImage(pixels []byte, width, height int, centerX, centerY float32, filter Filter) (Handle, error)
	CreateVectorImage(markup string, scale, centerX, centerY float32) (Handle, error)
	TileGrid(parent Handle, tilesX, tilesY, border uint16) (Handle, error)
	LoadAudio(name string) (Handle, error)
	CreateAudio(samples []float32, channels int) (Handle, error)
	LoadFont(name string, size int) (Handle, error)
}

type imageKey struct {
	name             string
	scale            float32
	centerX, centerY float32
	filter           Filter
}

type vectorKey struct {
	markup           string
	scale            float32
	centerX, centerY float32
}

type tileGridKey struct {
	parent                 Handle
	tilesX, tilesY, border uint16
}

type fontKey struct {
	name string
	size int
}

// Manager is the scene-facing resource API. Named and parameterized
// resources are loaded once per distinct parameter set; created resources
// are passed straight to the backend.
type Manager struct {
	backend Backend

	images    *Cache[imageKey]
	vectors   *Cache[vectorKey]
	tileGrids *Cache[tileGridKey]
	audio     *Cache[string]
	fonts     *Cache[fontKey]
}

// NewManager creates a manager over a backend
func NewManager(backend Backend) *Manager {
	return &Manager{
		backend:   backend,
		images:    NewCache[imageKey](),
		vectors:   NewCache[vectorKey](),
		tileGrids: NewCache[tileGridKey](),
		audio:     NewCache[string](),
		fonts:     NewCache[fontKey](),
	}
}

// Image returns the handle of an image file from the resource set.
// scale only matters for vector images; center is relative to the image size.
func (m *Manager) Image(name string, scale, centerX, centerY float32, filter Filter) Handle {
	key := imageKey{name: name, scale: scale, centerX: centerX, centerY: centerY, filter: filter}
	return m.images.Get(key, func() Handle {
		return checked("image "+name, func() (Handle, error) {
			return m.backend.LoadImage(name, scale, centerX, centerY, filter)
		})
	})
}

// VectorImage returns the handle of an image rasterized from SVG markup.
func (m *Manager) VectorImage(markup string, scale, centerX, centerY float32) Handle {
	key := vectorKey{markup: markup, scale: scale, centerX: centerX, centerY: centerY}
	return m.vectors.Get(key, func() Handle {
		return checked("vector image", func() (Handle, error) {
			return m.backend.CreateVectorImage(markup, scale, centerX, centerY)
		})
	})
}

// TileGrid splits parent into tilesX*tilesY sub-images and returns the
// handle of the first one. Tiles are numbered consecutively row by row.
func (m *Manager) TileGrid(parent Handle, tilesX, tilesY, border uint16) Handle {
	key := tileGridKey{parent: parent, tilesX: tilesX, tilesY: tilesY, border: border}
	return m.tileGrids.Get(key, func() Handle {
		return checked("tile grid", func() (Handle, error) {
			return m.backend.TileGrid(parent, tilesX, tilesY, border)
		})
	})
}

// Audio returns the handle of an audio file from the resource set.
func (m *Manager) Audio(name string) Handle {
	return m.audio.Get(name, func() Handle {
		return checked("audio "+name, func() (Handle, error) {
			return m.backend.LoadAudio(name)
		})
	})
}

// Font returns the handle of a font file from the resource set at a size.
func (m *Manager) Font(name string, size int) Handle {
	return m.fonts.Get(fontKey{name: name, size: size}, func() Handle {
		return checked("font "+name, func() (Handle, error) {
			return m.backend.LoadFont(name, size)
		})
	})
}

// CreateImage uploads RGBA pixel data. Every call creates a new resource.
func (m *Manager) CreateImage(pixels []byte, width, height int, centerX, centerY float32, filter Filter) Handle {
	return checked("created image", func() (Handle, error) {
		return m.backend.CreateImage(pixels, width, height, centerX, centerY, filter)
	})
}

// CreateAudio uploads PCM samples in [-1, 1], interleaved when channels is
// 2. Every call creates a new resource.
func (m *Manager) CreateAudio(samples []float32, channels int) Handle {
	return checked("created audio", func() (Handle, error) {
		return m.backend.CreateAudio(samples, channels)
	})
}

func checked(what string, load func() (Handle, error)) Handle {
	h, err := load()
	if err != nil {
		log.Printf("[resource] failed to load %s: %v", what, err)
		return Invalid
	}
	return h
}
