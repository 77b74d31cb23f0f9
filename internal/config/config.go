package config

import (
	"fmt"

	"github.com/ivlev/tourcam/internal/camera"
)

// Transport names accepted by Config.Transport.
const (
	TransportGuide  = "guide"
	TransportGemini = "gemini"
)

type Config struct {
	WaypointsPath string
	Transport     string
	GuideStyle    string
	Model         string
	APIKey        string
	Structured    bool
	FPS           int
	Damping       float64
	Threshold     float64
	MaxTicks      int
	HistoryLimit  int
	TrailLimit    int
	ScriptPath    string
	ReplayPath    string
	LogPath       string
	PreviewPath   string
	PreviewWidth  int
	PreviewHeight int
	ShowStats     bool
	BuildVersion  string
}

// Tuning returns the camera tuning described by the config.
func (c *Config) Tuning() camera.Tuning {
	return camera.Tuning{
		Damping:   c.Damping,
		Threshold: c.Threshold,
		MaxTicks:  c.MaxTicks,
	}
}

// Headless reports whether the run is driven by a file instead of the terminal.
func (c *Config) Headless() bool {
	return c.ScriptPath != "" || c.ReplayPath != ""
}

// Validate checks the settings that cannot be corrected later.
func (c *Config) Validate() error {
	if c.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", c.FPS)
	}
	switch c.Transport {
	case TransportGuide:
	case TransportGemini:
		if c.APIKey == "" && c.ReplayPath == "" {
			return fmt.Errorf("gemini transport needs an API key")
		}
	default:
		return fmt.Errorf("unknown transport: %s", c.Transport)
	}
	if c.ScriptPath != "" && c.ReplayPath != "" {
		return fmt.Errorf("script and replay are mutually exclusive")
	}
	if c.PreviewPath != "" && (c.PreviewWidth <= 0 || c.PreviewHeight <= 0) {
		return fmt.Errorf("preview size must be positive, got %dx%d", c.PreviewWidth, c.PreviewHeight)
	}
	return c.Tuning().Validate()
}
