package toolpath

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/Faultbox/xburn/pkg/math"
)

// ErrInvalidConfig is wrapped by every Config validation failure.
var ErrInvalidConfig = errors.New("invalid burn config")

// Mode selects how a mesh is flattened into 2D edges.
type Mode string

// Projection modes.
const (
	// ModeSilhouette drops Z and keeps the outline of the upward-facing
	// surface.
	ModeSilhouette Mode = "silhouette"
	// ModeSlice cuts the mesh with the plane z = SliceZ.
	ModeSlice Mode = "slice"
)

// MaxPower is the largest spindle/laser value accepted (GRBL $30 default).
const MaxPower = 1000

// Config holds burn parameters.
type Config struct {
	FeedRate   float64 `yaml:"feed_rate"`   // burn speed, mm/min
	TravelRate float64 `yaml:"travel_rate"` // rapid speed, mm/min; 0 leaves F off rapids
	Power      float64 `yaml:"power"`       // S value while burning
	PassCount  int     `yaml:"pass_count"`
	StepOver   float64 `yaml:"step_over"` // mm between passes, used when PassCount > 1

	LaserOnCode  string `yaml:"laser_on_code"`
	LaserOffCode string `yaml:"laser_off_code"`

	Tolerance float64 `yaml:"tolerance"` // endpoint weld distance, mm
	Mode      Mode    `yaml:"mode"`
	SliceZ    float64 `yaml:"slice_z"`

	// Origin is where the head starts; path ordering begins here.
	Origin math.Vec2 `yaml:"-"`
	// Header prefixes the program with a comment and G21/G90.
	Header bool `yaml:"header"`
}

// DefaultConfig returns settings for an 8-bit PWM diode laser on GRBL.
func DefaultConfig() Config {
	return Config{
		FeedRate:     600,
		TravelRate:   3000,
		Power:        255,
		PassCount:    1,
		StepOver:     0.2,
		LaserOnCode:  "M3",
		LaserOffCode: "M5",
		Tolerance:    0.01,
		Mode:         ModeSilhouette,
		Header:       true,
	}
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var err error
	bad := func(format string, args ...any) {
		err = multierr.Append(err, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}
	if c.FeedRate <= 0 {
		bad("feed rate must be positive, got %v", c.FeedRate)
	}
	if c.TravelRate < 0 {
		bad("travel rate must not be negative, got %v", c.TravelRate)
	}
	if c.Power <= 0 || c.Power > MaxPower {
		bad("power must be in (0, %d], got %v", MaxPower, c.Power)
	}
	if c.PassCount < 1 {
		bad("pass count must be at least 1, got %d", c.PassCount)
	}
	if c.PassCount > 1 && c.StepOver <= 0 {
		bad("step over must be positive with %d passes, got %v", c.PassCount, c.StepOver)
	}
	if c.LaserOnCode == "" || c.LaserOffCode == "" {
		bad("laser on/off codes must be set")
	}
	if c.Tolerance <= 0 {
		bad("tolerance must be positive, got %v", c.Tolerance)
	}
	if c.Mode != ModeSilhouette && c.Mode != ModeSlice {
		bad("unknown mode %q", c.Mode)
	}
	return err
}
