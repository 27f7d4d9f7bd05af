package input

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// EbitenSource reads devices through Ebitengine. Only gamepads with a
// standard layout are reported.
type EbitenSource struct {
	ids []ebiten.GamepadID
}

// KeyJustPressed implements Source
func (s *EbitenSource) KeyJustPressed(k ebiten.Key) bool {
	return inpututil.IsKeyJustPressed(k)
}

// KeyJustReleased implements Source
func (s *EbitenSource) KeyJustReleased(k ebiten.Key) bool {
	return inpututil.IsKeyJustReleased(k)
}

// Gamepads implements Source
func (s *EbitenSource) Gamepads() []ebiten.GamepadID {
	s.ids = s.ids[:0]
	for _, id := range ebiten.AppendGamepadIDs(nil) {
		if ebiten.IsStandardGamepadLayoutAvailable(id) {
			s.ids = append(s.ids, id)
		}
	}
	return s.ids
}

// GamepadAxis implements Source
func (s *EbitenSource) GamepadAxis(id ebiten.GamepadID, axis ebiten.StandardGamepadAxis) float64 {
	return ebiten.StandardGamepadAxisValue(id, axis)
}

// GamepadButton implements Source
func (s *EbitenSource) GamepadButton(id ebiten.GamepadID, b ebiten.StandardGamepadButton) bool {
	return ebiten.IsStandardGamepadButtonPressed(id, b)
}
