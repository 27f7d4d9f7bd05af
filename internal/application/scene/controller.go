package scene

import (
	"log"

	"github.com/pkg/errors"
	"github.com/ttacon/chalk"

	"github.com/younwookim/arcamini/internal/application/state"
	"github.com/younwookim/arcamini/internal/domain/gfx"
)

// Controller owns the current scene and drives its callbacks.
//
// Every callback invocation is contained: a returned error or a panic is
// logged and turns into a stop request, and never reaches the frame loop.
// Once stopped, Input, Update and Draw do nothing; Shutdown runs the last
// Leave. All methods must be called from the frame loop goroutine.
type Controller struct {
	provider Provider
	exec     gfx.BatchExecutor
	env      *Env
	gfx      *gfx.Context

	loaded map[string]Scene

	current     Scene
	currentName string

	// callback slots bound to the current scene
	input  func(Event) error
	update func(float64) (bool, error)
	draw   func(*gfx.Context) error
	leave  func() error

	running bool
}

// NewController creates a controller with no current scene. env is handed
// to every scene factory; its Scenes field is set to the controller.
func NewController(provider Provider, exec gfx.BatchExecutor, env *Env) *Controller {
	if env == nil {
		env = &Env{}
	}
	c := &Controller{
		provider: provider,
		exec:     exec,
		env:      env,
		gfx:      gfx.NewContext(),
		loaded:   make(map[string]Scene),
		running:  true,
	}
	env.Scenes = c
	return c
}

// SwitchScene makes the scene called name current.
//
// The current scene's Leave runs first. An empty name ends the game. A
// scene is created once per name and reused when switched to again; its
// Enter receives args every time it becomes current.
func (c *Controller) SwitchScene(name string, args ...string) {
	c.leaveCurrent()

	if name == "" {
		c.Stop()
		return
	}

	key := Normalize(name)
	next, ok := c.loaded[key]
	if !ok {
		factory, err := c.provider.Resolve(name)
		if err != nil {
			c.fail("resolve "+name, errors.WithStack(err))
			return
		}
		if !c.guard(key, "load", func() error {
			next = factory(c.env)
			if next == nil {
				return errors.Errorf("factory returned no scene")
			}
			return nil
		}) {
			return
		}
		c.loaded[key] = next
	}

	c.bind(key, next)
	log.Printf("[scene] switched to %q %v", key, args)

	if enter, ok := next.(Enterer); ok {
		if args == nil {
			args = []string{}
		}
		c.guard(key, "enter", func() error { return enter.Enter(args) })
	}
}

// Input delivers one event to the current scene.
func (c *Controller) Input(ev Event) {
	if !c.running || c.input == nil {
		return
	}
	c.guard(c.currentName, "input", func() error { return c.input(ev) })
}

// Update advances the current scene by dt seconds and reports whether the
// game keeps running. A scene without Update keeps running.
func (c *Controller) Update(dt float64) bool {
	if !c.running {
		return false
	}
	// no Update capability is not a stop request; only a false result or a
	// failure ends the game
	if c.update == nil {
		return true
	}
	cont := true
	ok := c.guard(c.currentName, "update", func() error {
		var err error
		cont, err = c.update(dt)
		return err
	})
	if ok && !cont {
		log.Printf("[scene] %q requested stop", c.currentName)
		c.Stop()
	}
	return c.running
}

// Draw runs the current scene's draw callback and flushes the batch it
// produced, even when the callback failed halfway.
func (c *Controller) Draw() {
	if !c.running {
		return
	}
	if c.draw != nil {
		c.guard(c.currentName, "draw", func() error { return c.draw(c.gfx) })
	}
	c.gfx.Flush(c.exec)
}

// Shutdown stops the controller and runs the current scene's Leave. It
// runs Leave at most once no matter how often it is called.
func (c *Controller) Shutdown() {
	c.leaveCurrent()
	c.running = false
}

// Stop sets the stop flag. The current scene stays bound until Shutdown.
func (c *Controller) Stop() {
	c.running = false
}

// Running reports whether the stop flag is still clear
func (c *Controller) Running() bool {
	return c.running
}

// State reports whether a scene is current
func (c *Controller) State() state.Lifecycle {
	if c.current == nil {
		return state.NoScene
	}
	return state.SceneActive
}

// Current returns the current scene and its name
func (c *Controller) Current() (Scene, string) {
	return c.current, c.currentName
}

// Gfx returns the drawing context flushed after every draw
func (c *Controller) Gfx() *gfx.Context {
	return c.gfx
}

func (c *Controller) bind(name string, s Scene) {
	c.current = s
	c.currentName = name
	c.input, c.update, c.draw, c.leave = nil, nil, nil, nil
	if h, ok := s.(InputHandler); ok {
		c.input = h.Input
	}
	if u, ok := s.(Updater); ok {
		c.update = u.Update
	}
	if d, ok := s.(Drawer); ok {
		c.draw = d.Draw
	}
	if l, ok := s.(Leaver); ok {
		c.leave = l.Leave
	}
}

// leaveCurrent unbinds the current scene, calling its Leave first.
func (c *Controller) leaveCurrent() {
	leave, name := c.leave, c.currentName
	c.current, c.currentName = nil, ""
	c.input, c.update, c.draw, c.leave = nil, nil, nil, nil
	if leave != nil {
		c.guard(name, "leave", leave)
	}
}

// guard runs fn and converts a returned error or a panic into a stop
// request. It reports whether fn completed normally.
func (c *Controller) guard(name, phase string, fn func() error) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			c.fail(name+" "+phase, errors.Errorf("panic: %v", r))
			ok = false
		}
	}()
	if err := fn(); err != nil {
		c.fail(name+" "+phase, errors.WithStack(err))
		return false
	}
	return true
}

func (c *Controller) fail(what string, err error) {
	log.Printf("%s[scene] %s failed: %+v%s", chalk.Red, what, err, chalk.Reset)
	c.running = false
}
