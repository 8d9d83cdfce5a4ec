package mesh

import "github.com/Faultbox/xburn/pkg/math"

// Default work area in millimetres.
const (
	DefaultPlatformWidth = 120.0
	DefaultPlatformDepth = 100.0
)

// Platform is the machine work area. It spans [0, Width] x [0, Depth] on
// the z = 0 plane with the origin at the machine home corner.
type Platform struct {
	Width float64
	Depth float64
}

// DefaultPlatform returns the default work area.
func DefaultPlatform() Platform {
	return Platform{Width: DefaultPlatformWidth, Depth: DefaultPlatformDepth}
}

// Center returns the middle of the work area.
func (p Platform) Center() math.Vec3 {
	return math.Vec3{X: p.Width / 2, Y: p.Depth / 2}
}

// Contains reports whether b lies within the work area footprint.
func (p Platform) Contains(b math.Box) bool {
	return b.Min.X >= 0 && b.Min.Y >= 0 && b.Max.X <= p.Width && b.Max.Y <= p.Depth
}
