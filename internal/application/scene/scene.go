// Package scene defines game scenes and the controller that drives them.
//
// A scene is any Go value. It takes part in the game loop by implementing
// some of the capability interfaces below; capabilities it lacks are
// treated as no-ops. Exactly one scene is current at a time and scenes are
// switched by name through a Provider.
package scene

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/younwookim/arcamini/internal/domain/gfx"
	"github.com/younwookim/arcamini/internal/domain/resource"
)

// Scene is a unit of game logic.
type Scene any

// Enterer is called once each time the scene becomes current, before its
// first update. args are forwarded from SwitchScene.
type Enterer interface {
	Enter(args []string) error
}

// InputHandler receives input events. Zero or more events are delivered
// before each update.
type InputHandler interface {
	Input(ev Event) error
}

// Updater advances the scene by dt seconds. Returning false ends the game.
type Updater interface {
	Update(dt float64) (bool, error)
}

// Drawer fills the frame's drawing batch.
type Drawer interface {
	Draw(ctx *gfx.Context) error
}

// Leaver is called when the scene stops being current, including at
// shutdown.
type Leaver interface {
	Leave() error
}

// EventKind names the source of an input event
type EventKind string

const (
	EventAxis   EventKind = "axis"
	EventButton EventKind = "button"
)

// Event is one input event from a controller, gamepad or keyboard.
type Event struct {
	Kind   EventKind
	Device int
	ID     int
	Value  float32
	Value2 float32
}

// String formats the event for logs
func (e Event) String() string {
	return fmt.Sprintf("%s(%d, %d, %g, %g)", e.Kind, e.Device, e.ID, e.Value, e.Value2)
}

// Window is the scene-facing window API.
type Window interface {
	Width() int
	Height() int
	SetClearColor(rgba uint32)
}

// Audio is the scene-facing playback API.
type Audio interface {
	// Replay starts playing a sample and returns its track id.
	Replay(sample resource.Handle, volume, balance, detune float32) uint32
	// SetVolume changes a track's volume over fade seconds.
	SetVolume(track uint32, volume, fade float32)
}

// Storage is the persistent key-value store.
type Storage interface {
	Get(key string) string
	Set(key, value string)
}

// Switcher changes the current scene.
type Switcher interface {
	SwitchScene(name string, args ...string)
}

// Env is everything a scene may use from the runtime.
type Env struct {
	Window    Window
	Audio     Audio
	Resources *resource.Manager
	Storage   Storage
	Scenes    Switcher
}

// Factory creates a scene instance.
type Factory func(env *Env) Scene

// Provider resolves a scene name to the code that creates it.
type Provider interface {
	Resolve(name string) (Factory, error)
}

// Registry is a Provider backed by a map of named factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under name. A file extension in name is ignored.
func (r *Registry) Register(name string, f Factory) *Registry {
	r.factories[Normalize(name)] = f
	return r
}

// Resolve implements Provider
func (r *Registry) Resolve(name string) (Factory, error) {
	f, ok := r.factories[Normalize(name)]
	if !ok {
		return nil, fmt.Errorf("scene %q not found", name)
	}
	return f, nil
}

// Names returns the registered scene names in sorted order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Normalize maps a scene reference to its registry name: the base name
// without directory or extension, so "games/snake.py" resolves "snake".
func Normalize(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == "/" {
		return ""
	}
	return strings.TrimSuffix(base, path.Ext(base))
}
