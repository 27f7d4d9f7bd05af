// Package game runs the scene controller inside the Ebitengine game loop.
package game

import (
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/younwookim/arcamini/internal/application/replay"
	"github.com/younwookim/arcamini/internal/application/scene"
)

// EventSource produces the input events of one frame
type EventSource interface {
	Poll() []scene.Event
	CloseRequested() bool
}

// Frame is the native side of a frame: drawing target and audio clock
type Frame interface {
	BeginFrame(screen *ebiten.Image)
	Tick(dt float64)
}

// Game implements ebiten.Game. Each tick delivers input events, then
// updates the current scene; each draw clears the screen and flushes the
// scene's batch.
type Game struct {
	ctrl     *scene.Controller
	frame    Frame
	events   EventSource
	recorder *replay.Recorder

	screenW int
	screenH int
	dt      float64
	debug   bool

	// set by Update, cleared by Draw
	updated bool
}

// New creates a game driving ctrl. The initial scene must already be
// switched to.
func New(ctrl *scene.Controller, frame Frame, events EventSource, screenW, screenH int) *Game {
	return &Game{
		ctrl:    ctrl,
		frame:   frame,
		events:  events,
		screenW: screenW,
		screenH: screenH,
		dt:      1.0 / 60.0, // Default to 60 FPS
	}
}

// Update runs one frame of game logic.
// Implements ebiten.Game interface.
func (g *Game) Update() error {
	events := g.events.Poll()
	if g.recorder != nil {
		g.recorder.RecordFrame(g.dt, events)
	}

	if !Step(g.ctrl, g.dt, events) || g.events.CloseRequested() {
		g.Shutdown()
		return ebiten.Termination
	}
	g.frame.Tick(g.dt)
	g.updated = true
	return nil
}

// Draw renders the current scene once per Update. Extra draws between two
// updates leave the screen untouched, which needs the screen not to be
// cleared every frame.
// Implements ebiten.Game interface.
func (g *Game) Draw(screen *ebiten.Image) {
	if !g.updated {
		return
	}
	g.updated = false
	g.frame.BeginFrame(screen)
	g.ctrl.Draw()

	if g.debug {
		_, name := g.ctrl.Current()
		ebitenutil.DebugPrint(screen, fmt.Sprintf("%s\nTPS %.1f FPS %.1f", name, ebiten.ActualTPS(), ebiten.ActualFPS()))
	}
}

// Layout returns the game's logical screen dimensions.
// Implements ebiten.Game interface.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.screenW, g.screenH
}

// Shutdown leaves the current scene. It is safe to call more than once, so
// it also runs after the window was closed.
func (g *Game) Shutdown() {
	g.ctrl.Shutdown()
	if g.recorder != nil && g.recorder.IsRecording() {
		g.recorder.Stop()
		log.Printf("[game] recorded %d frames", g.recorder.FrameCount())
	}
}

// SetDT sets the delta time used for updates.
// Useful for testing or custom frame rates.
func (g *Game) SetDT(dt float64) {
	g.dt = dt
}

// SetRecorder records every frame's input to rec
func (g *Game) SetRecorder(rec *replay.Recorder) {
	g.recorder = rec
}

// SetDebug toggles the debug overlay
func (g *Game) SetDebug(debug bool) {
	g.debug = debug
}

// Step delivers events to the current scene, then updates it by dt. It
// reports whether the game keeps running.
func Step(ctrl *scene.Controller, dt float64, events []scene.Event) bool {
	for _, ev := range events {
		ctrl.Input(ev)
	}
	return ctrl.Update(dt)
}
