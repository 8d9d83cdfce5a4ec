// Package config handles viewer and burn configuration loading.
package config

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"

	"github.com/Faultbox/xburn/pkg/gcode"
	"github.com/Faultbox/xburn/pkg/mesh"
	"github.com/Faultbox/xburn/pkg/toolpath"
)

// Config holds all application settings.
type Config struct {
	Machine MachineConfig   `yaml:"machine"`
	Burn    toolpath.Config `yaml:"burn"`
	Gcode   GcodeConfig     `yaml:"gcode"`
	Viewer  ViewerConfig    `yaml:"viewer"`
	Logging LoggingConfig   `yaml:"logging"`
}

// MachineConfig describes the laser bed.
type MachineConfig struct {
	PlatformWidth float64 `yaml:"platform_width"` // mm along X
	PlatformDepth float64 `yaml:"platform_depth"` // mm along Y
	RapidRate     float64 `yaml:"rapid_rate"`     // mm/min, for time estimates
}

// Platform returns the bed as a mesh platform.
func (m MachineConfig) Platform() mesh.Platform {
	return mesh.Platform{Width: m.PlatformWidth, Depth: m.PlatformDepth}
}

// GcodeConfig controls reading and writing G-code files.
type GcodeConfig struct {
	Precision     int      `yaml:"precision"` // decimals on X/Y/Z
	Strict        bool     `yaml:"strict"`
	LaserOnCodes  []string `yaml:"laser_on_codes"`
	LaserOffCodes []string `yaml:"laser_off_codes"`
}

// ParseOptions converts the section into parser options.
func (g GcodeConfig) ParseOptions() gcode.ParseOptions {
	return gcode.ParseOptions{
		Strict:        g.Strict,
		LaserOnCodes:  g.LaserOnCodes,
		LaserOffCodes: g.LaserOffCodes,
	}
}

// ViewerConfig holds window and view settings.
type ViewerConfig struct {
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
	FPSLimit   int    `yaml:"fps_limit"`
	Mode       string `yaml:"mode"` // "3d" or "2d"
	Ortho      bool   `yaml:"ortho"`
	ShowGrid   bool   `yaml:"show_grid"`
	ShowFPS    bool   `yaml:"show_fps"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	p := mesh.DefaultPlatform()
	return &Config{
		Machine: MachineConfig{
			PlatformWidth: p.Width,
			PlatformDepth: p.Depth,
			RapidRate:     3000,
		},
		Burn: toolpath.DefaultConfig(),
		Gcode: GcodeConfig{
			Precision:     gcode.DefaultPrecision,
			LaserOnCodes:  []string{"M3", "M4"},
			LaserOffCodes: []string{"M5"},
		},
		Viewer: ViewerConfig{
			Width:    1280,
			Height:   720,
			VSync:    true,
			Mode:     "3d",
			ShowGrid: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var err error
	if c.Machine.PlatformWidth <= 0 || c.Machine.PlatformDepth <= 0 {
		err = multierr.Append(err, fmt.Errorf("platform must be positive, got %vx%v",
			c.Machine.PlatformWidth, c.Machine.PlatformDepth))
	}
	if c.Machine.RapidRate <= 0 {
		err = multierr.Append(err, fmt.Errorf("rapid rate must be positive, got %v", c.Machine.RapidRate))
	}
	err = multierr.Append(err, c.Burn.Validate())
	if c.Gcode.Precision < 0 || c.Gcode.Precision > 6 {
		err = multierr.Append(err, fmt.Errorf("gcode precision must be in [0, 6], got %d", c.Gcode.Precision))
	}
	if c.Viewer.Width <= 0 || c.Viewer.Height <= 0 {
		err = multierr.Append(err, fmt.Errorf("window size must be positive, got %dx%d",
			c.Viewer.Width, c.Viewer.Height))
	}
	switch strings.ToLower(c.Viewer.Mode) {
	case "2d", "3d":
	default:
		err = multierr.Append(err, fmt.Errorf("viewer mode must be 2d or 3d, got %q", c.Viewer.Mode))
	}
	return err
}
