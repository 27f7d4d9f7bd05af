package game

import (
	"github.com/younwookim/arcamini/internal/application/replay"
	"github.com/younwookim/arcamini/internal/application/scene"
)

// Replay runs a recorded session without a window: for every recorded frame
// it steps and draws the controller. progress, when set, is called after
// every frame. It returns the number of frames played and shuts the
// controller down.
func Replay(ctrl *scene.Controller, r *replay.Replayer, progress func(played int)) int {
	defer ctrl.Shutdown()

	played := 0
	for {
		dt, events, ok := r.Next()
		if !ok {
			return played
		}
		played++
		if !Step(ctrl, dt, events) {
			return played
		}
		ctrl.Draw()
		if progress != nil {
			progress(played)
		}
	}
}
