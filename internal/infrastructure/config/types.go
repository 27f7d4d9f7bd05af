package config

// RuntimeConfig is the root config for runtime.json
type RuntimeConfig struct {
	Window  WindowConfig  `json:"window"`
	Audio   AudioConfig   `json:"audio"`
	Storage StorageConfig `json:"storage"`
	Input   InputConfig   `json:"input"`
	Debug   bool          `json:"debug"`
}

type WindowConfig struct {
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Fullscreen bool   `json:"fullscreen"`
	VSync      bool   `json:"vsync"`
	TPS        int    `json:"tps"`
	ClearColor uint32 `json:"clearColor"` // 0xRRGGBBAA
	ShowCursor bool   `json:"showCursor"`
}

type AudioConfig struct {
	SampleRate int `json:"sampleRate"`
}

type StorageConfig struct {
	AppName string `json:"appName"`
	Dir     string `json:"dir,omitempty"` // defaults to the user config directory
}

type InputConfig struct {
	AxisDeadZone  float64 `json:"axisDeadZone"`
	CloseOnButton bool    `json:"closeOnButton67"`
}

// Default returns the configuration used when no runtime.json is present
func Default() *RuntimeConfig {
	return &RuntimeConfig{
		Window: WindowConfig{
			Width:      640,
			Height:     480,
			VSync:      true,
			TPS:        60,
			ClearColor: 0x000000FF,
		},
		Audio:   AudioConfig{SampleRate: 44100},
		Storage: StorageConfig{AppName: "arcamini"},
		Input: InputConfig{
			AxisDeadZone:  0.1,
			CloseOnButton: true,
		},
	}
}
