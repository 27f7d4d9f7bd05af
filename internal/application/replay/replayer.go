package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/younwookim/arcamini/internal/application/scene"
)

// Replayer handles input playback from recorded data
type Replayer struct {
	data  ReplayData
	frame int
}

// NewReplayer creates a new replayer from replay data
func NewReplayer(data ReplayData) *Replayer {
	return &Replayer{data: data}
}

// LoadReplay loads replay data from a file
func LoadReplay(filename string) (*ReplayData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var data ReplayData
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode replay: %w", err)
	}
	if data.Version != Version {
		return nil, fmt.Errorf("unsupported replay version %q", data.Version)
	}

	return &data, nil
}

// Next returns the time step and events of the next frame and advances
func (r *Replayer) Next() (float64, []scene.Event, bool) {
	if r.frame >= len(r.data.Frames) {
		return 0, nil, false
	}

	fi := r.data.Frames[r.frame]
	r.frame++

	events := make([]scene.Event, 0, len(fi.Events))
	for _, ev := range fi.Events {
		events = append(events, ev.Scene())
	}
	return fi.DT, events, true
}

// CurrentFrame returns the current frame number
func (r *Replayer) CurrentFrame() int {
	return r.frame
}

// TotalFrames returns the total number of frames
func (r *Replayer) TotalFrames() int {
	return len(r.data.Frames)
}

// Script returns the scene the session started with and its arguments
func (r *Replayer) Script() (string, []string) {
	return r.data.Script, r.data.Args
}

// Storage returns the stored data the session started from
func (r *Replayer) Storage() map[string]string {
	return r.data.Storage
}

// Reset resets the replayer to the beginning
func (r *Replayer) Reset() {
	r.frame = 0
}

// CreateTestReplayData creates replay data for testing: frames at 60fps with
// one button press on the first frame
func CreateTestReplayData(script string, frames int) ReplayData {
	data := ReplayData{
		Version:   Version,
		Script:    script,
		StartTime: "2024-01-01T00:00:00Z",
		Frames:    make([]FrameInput, frames),
	}

	for i := 0; i < frames; i++ {
		data.Frames[i] = FrameInput{F: i, DT: 1.0 / 60.0}
	}
	if frames > 0 {
		data.Frames[0].Events = []Event{{Kind: scene.EventButton, Device: 0, ID: 0, Value: 1}}
	}

	return data
}
