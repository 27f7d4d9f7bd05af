// Package input turns keyboard and gamepad state into scene input events.
package input

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/younwookim/arcamini/internal/application/scene"
	"github.com/younwookim/arcamini/internal/infrastructure/config"
)

// Source reads raw device state once per frame
type Source interface {
	KeyJustPressed(k ebiten.Key) bool
	KeyJustReleased(k ebiten.Key) bool
	Gamepads() []ebiten.GamepadID
	GamepadAxis(id ebiten.GamepadID, axis ebiten.StandardGamepadAxis) float64
	GamepadButton(id ebiten.GamepadID, b ebiten.StandardGamepadButton) bool
}

// Buttons requesting close when held together on one device
const (
	ButtonSelect = 6
	ButtonStart  = 7
)

type keyBinding struct {
	key    ebiten.Key
	kind   scene.EventKind
	player int // 0 arrows, 1 WASD
	id     int
	value  float32
}

// keyboard layout: device numGamepads for arrows, numGamepads+1 for WASD
var keyBindings = []keyBinding{
	{ebiten.KeyArrowLeft, scene.EventAxis, 0, 0, -1},
	{ebiten.KeyArrowRight, scene.EventAxis, 0, 0, 1},
	{ebiten.KeyArrowUp, scene.EventAxis, 0, 1, -1},
	{ebiten.KeyArrowDown, scene.EventAxis, 0, 1, 1},
	{ebiten.KeyEnter, scene.EventButton, 0, 0, 1},
	{ebiten.KeyBackspace, scene.EventButton, 0, 1, 1},
	{ebiten.KeyAltRight, scene.EventButton, 0, 2, 1},
	{ebiten.KeyControlRight, scene.EventButton, 0, 3, 1},
	{ebiten.KeyTab, scene.EventButton, 0, ButtonSelect, 1},
	{ebiten.KeyEscape, scene.EventButton, 0, ButtonStart, 1},

	{ebiten.KeyA, scene.EventAxis, 1, 0, -1},
	{ebiten.KeyD, scene.EventAxis, 1, 0, 1},
	{ebiten.KeyW, scene.EventAxis, 1, 1, -1},
	{ebiten.KeyS, scene.EventAxis, 1, 1, 1},
	{ebiten.KeyDigit1, scene.EventButton, 1, 0, 1},
	{ebiten.KeyDigit2, scene.EventButton, 1, 1, 1},
	{ebiten.KeyDigit3, scene.EventButton, 1, 2, 1},
	{ebiten.KeyDigit4, scene.EventButton, 1, 3, 1},
}

var gamepadAxes = []ebiten.StandardGamepadAxis{
	ebiten.StandardGamepadAxisLeftStickHorizontal,
	ebiten.StandardGamepadAxisLeftStickVertical,
	ebiten.StandardGamepadAxisRightStickHorizontal,
	ebiten.StandardGamepadAxisRightStickVertical,
}

// button ids follow the common controller order; 6 and 7 are select and start
var gamepadButtons = []ebiten.StandardGamepadButton{
	ebiten.StandardGamepadButtonRightBottom,
	ebiten.StandardGamepadButtonRightRight,
	ebiten.StandardGamepadButtonRightLeft,
	ebiten.StandardGamepadButtonRightTop,
	ebiten.StandardGamepadButtonFrontTopLeft,
	ebiten.StandardGamepadButtonFrontTopRight,
	ebiten.StandardGamepadButtonCenterLeft,
	ebiten.StandardGamepadButtonCenterRight,
	ebiten.StandardGamepadButtonLeftTop,
	ebiten.StandardGamepadButtonLeftBottom,
	ebiten.StandardGamepadButtonLeftLeft,
	ebiten.StandardGamepadButtonLeftRight,
}

type padState struct {
	axes    [4]float32
	buttons [12]bool
}

type buttonKey struct {
	device, id int
}

// Poller produces the events of one frame. It remembers the previous
// gamepad state to report changes only.
type Poller struct {
	src           Source
	deadZone      float32
	closeOnButton bool

	pads map[ebiten.GamepadID]*padState
	held map[buttonKey]bool

	closeRequested bool
}

// NewPoller creates a poller reading src
func NewPoller(src Source, cfg config.InputConfig) *Poller {
	return &Poller{
		src:           src,
		deadZone:      float32(cfg.AxisDeadZone),
		closeOnButton: cfg.CloseOnButton,
		pads:          make(map[ebiten.GamepadID]*padState),
		held:          make(map[buttonKey]bool),
	}
}

// Poll returns the events since the previous call: keyboard first, then
// gamepads in connection order.
func (p *Poller) Poll() []scene.Event {
	ids := p.src.Gamepads()
	var events []scene.Event

	for _, b := range keyBindings {
		device := len(ids) + b.player
		switch {
		case p.src.KeyJustPressed(b.key):
			events = append(events, scene.Event{Kind: b.kind, Device: device, ID: b.id, Value: b.value})
		case p.src.KeyJustReleased(b.key):
			events = append(events, scene.Event{Kind: b.kind, Device: device, ID: b.id})
		}
	}

	connected := make(map[ebiten.GamepadID]bool, len(ids))
	for device, id := range ids {
		connected[id] = true
		events = p.pollGamepad(events, device, id)
	}
	for id := range p.pads {
		if !connected[id] {
			delete(p.pads, id)
		}
	}

	for _, ev := range events {
		if ev.Kind == scene.EventButton {
			p.held[buttonKey{ev.Device, ev.ID}] = ev.Value != 0
		}
	}
	if p.closeOnButton {
		for k, down := range p.held {
			if down && k.id == ButtonSelect && p.held[buttonKey{k.device, ButtonStart}] {
				p.closeRequested = true
			}
		}
	}
	return events
}

// CloseRequested reports whether select and start were held together
func (p *Poller) CloseRequested() bool {
	return p.closeRequested
}

func (p *Poller) pollGamepad(events []scene.Event, device int, id ebiten.GamepadID) []scene.Event {
	st, ok := p.pads[id]
	if !ok {
		st = &padState{}
		p.pads[id] = st
	}

	for i, axis := range gamepadAxes {
		v := float32(p.src.GamepadAxis(id, axis))
		if float32(math.Abs(float64(v))) < p.deadZone {
			v = 0
		}
		last := st.axes[i]
		if float32(math.Abs(float64(v-last))) > p.deadZone || (v == 0 && last != 0) {
			st.axes[i] = v
			events = append(events, scene.Event{Kind: scene.EventAxis, Device: device, ID: i, Value: v})
		}
	}

	for i, b := range gamepadButtons {
		down := p.src.GamepadButton(id, b)
		if down == st.buttons[i] {
			continue
		}
		st.buttons[i] = down
		var v float32
		if down {
			v = 1
		}
		events = append(events, scene.Event{Kind: scene.EventButton, Device: device, ID: i, Value: v})
	}
	return events
}
