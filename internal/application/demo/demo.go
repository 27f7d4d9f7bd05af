// Package demo contains the built-in scenes: a title menu, a snake game and
// a drawing stress test.
package demo

import (
	"github.com/younwookim/arcamini/internal/application/scene"
)

// Scene names
const (
	MenuScene   = "menu"
	SnakeScene  = "snake"
	StressScene = "stress"
)

// HighScoreKey is the storage key of the best snake score
const HighScoreKey = "snake.highscore"

// Button ids shared by the demos
const (
	buttonA     = 0
	buttonStart = 7
)

// Register adds the demo scenes to r
func Register(r *scene.Registry) *scene.Registry {
	return r.Register(MenuScene, NewMenu).
		Register(SnakeScene, NewSnake).
		Register(StressScene, NewStress)
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
