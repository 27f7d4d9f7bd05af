package replay

import "github.com/younwookim/arcamini/internal/application/scene"

// Version of the replay file format
const Version = "2.0"

// Event is one recorded input event
type Event struct {
	Kind   scene.EventKind `json:"k"`
	Device int             `json:"d"`
	ID     int             `json:"i"`
	Value  float32         `json:"v"`
	Value2 float32         `json:"v2,omitempty"`
}

// FrameInput records the input events and time step of a single frame
type FrameInput struct {
	F      int     `json:"f"`  // Frame number
	DT     float64 `json:"dt"` // Seconds since the previous frame
	Events []Event `json:"events,omitempty"`
}

// ReplayData contains all data needed to replay a game session
type ReplayData struct {
	Version   string       `json:"version"`
	Script    string       `json:"script"`
	Args      []string     `json:"args,omitempty"`
	StartTime string       `json:"startTime"`
	// Storage is the scene's stored data when recording started
	Storage map[string]string `json:"storage,omitempty"`
	Frames  []FrameInput      `json:"frames"`
}

func fromScene(ev scene.Event) Event {
	return Event{Kind: ev.Kind, Device: ev.Device, ID: ev.ID, Value: ev.Value, Value2: ev.Value2}
}

// Scene converts a recorded event back to a scene event
func (e Event) Scene() scene.Event {
	return scene.Event{Kind: e.Kind, Device: e.Device, ID: e.ID, Value: e.Value, Value2: e.Value2}
}
