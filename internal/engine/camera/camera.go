// Package camera provides the viewer's 2D and 3D cameras.
package camera

import (
	gomath "math"

	"github.com/Faultbox/xburn/pkg/math"
	"github.com/Faultbox/xburn/pkg/picking"
)

// Zoom limits and steps shared by both modes.
const (
	ZoomMin     = 0.1
	ZoomMax     = 1000.0
	ZoomInStep  = 1.2
	ZoomOutStep = 0.83
)

const (
	fovY         = 80.0 // degrees
	near3D       = 0.1
	far3D        = 9000.0
	farOrtho     = 9000.0
	near2D       = -100.0
	far2D        = 100.0
	panFactor2D  = 4.0
	zoomOrthoAdj = 4.5
)

// Mode selects the view.
type Mode int

const (
	// Mode3D is the orbiting perspective (or orthographic) view.
	Mode3D Mode = iota
	// Mode2D is a flat top-down view of the platform.
	Mode2D
)

func (m Mode) String() string {
	if m == Mode2D {
		return "2d"
	}
	return "3d"
}

// ParseMode accepts "2d" or "3d"; anything else is 3D.
func ParseMode(s string) Mode {
	if s == "2d" || s == "2D" {
		return Mode2D
	}
	return Mode3D
}

// Preset is a fixed 3D viewing direction.
type Preset int

// View presets.
const (
	Front Preset = iota
	Back
	Left
	Right
	Top
	Bottom
)

var presetAngles = map[Preset][2]float64{ // azimuth, elevation in degrees
	Front:  {0, 0},
	Back:   {180, 0},
	Left:   {90, 0},
	Right:  {-90, 0},
	Top:    {0, -90},
	Bottom: {0, 90},
}

// View3D is the state of the 3D camera. Y is the distance from the eye to
// the target along the view axis; X and Z pan across it.
type View3D struct {
	X, Y, Z   float64
	Zoom      float64
	Azimuth   float64 // degrees about world Z
	Elevation float64 // degrees; negative looks down on the platform
	Ortho     bool
}

// View2D is the state of the top-down camera, in screen pixels.
type View2D struct {
	X, Y    float64
	Zoom    float64 // pixels per mm
	Azimuth float64 // degrees
}

func initial3D() View3D {
	return View3D{Y: 180, Z: -20, Zoom: 1, Elevation: -20}
}

func initial2D() View2D {
	return View2D{Zoom: 5}
}

// Camera holds both views and which one is active. Target is the world
// point both views centre on, normally the platform centre.
type Camera struct {
	Mode   Mode
	Target math.Vec3
	View3D View3D
	View2D View2D
}

// New returns a camera in its initial 3D state.
func New() *Camera {
	return &Camera{View3D: initial3D(), View2D: initial2D()}
}

// Reset restores the active view to its initial state. The other view and
// the ortho setting are kept.
func (c *Camera) Reset() {
	switch c.Mode {
	case Mode2D:
		c.View2D = initial2D()
	default:
		ortho := c.View3D.Ortho
		c.View3D = initial3D()
		c.View3D.Ortho = ortho
	}
}

// SetMode switches views.
func (c *Camera) SetMode(m Mode) {
	c.Mode = m
}

// ToggleMode flips between 2D and 3D.
func (c *Camera) ToggleMode() {
	if c.Mode == Mode2D {
		c.Mode = Mode3D
	} else {
		c.Mode = Mode2D
	}
}

// SetOrtho switches the 3D view between orthographic and perspective.
func (c *Camera) SetOrtho(on bool) {
	c.View3D.Ortho = on
}

// SetPreset points the 3D view along a fixed direction and switches to 3D.
func (c *Camera) SetPreset(p Preset) {
	a, ok := presetAngles[p]
	if !ok {
		return
	}
	c.Mode = Mode3D
	c.View3D.Azimuth, c.View3D.Elevation = a[0], a[1]
}

func (c *Camera) zoomRef() *float64 {
	if c.Mode == Mode2D {
		return &c.View2D.Zoom
	}
	return &c.View3D.Zoom
}

// Zoom is one discrete step: in for positive delta, out for negative.
func (c *Camera) Zoom(delta float64) {
	z := c.zoomRef()
	switch {
	case delta > 0:
		*z = gomath.Min(*z*ZoomInStep, ZoomMax)
	case delta < 0:
		*z = gomath.Max(*z*ZoomOutStep, ZoomMin)
	}
}

// ZoomLevel returns the active view's zoom factor.
func (c *Camera) ZoomLevel() float64 {
	return *c.zoomRef()
}

// Rotate turns the view by pointer deltas. In 2D only dx applies.
func (c *Camera) Rotate(dx, dy float64) {
	if c.Mode == Mode2D {
		c.View2D.Azimuth += dx
		return
	}
	c.View3D.Azimuth += dx
	c.View3D.Elevation -= dy
}

// Pan moves the view by pointer deltas. 3D pans shrink as zoom grows so the
// model tracks the pointer.
func (c *Camera) Pan(dx, dy float64) {
	if c.Mode == Mode2D {
		c.View2D.X += dx * panFactor2D
		c.View2D.Y -= dy * panFactor2D
		return
	}
	c.View3D.X += dx / c.View3D.Zoom
	c.View3D.Z -= dy / c.View3D.Zoom
}

// Offset dollies the 3D eye along the view axis; positive moves closer.
// The eye never passes the target. 2D has no depth and ignores it.
func (c *Camera) Offset(delta float64) {
	if c.Mode == Mode2D {
		return
	}
	c.View3D.Y = gomath.Max(c.View3D.Y-delta, near3D)
}

// Matrix returns the world-to-eye transform.
func (c *Camera) Matrix() math.Mat4 {
	center := math.Translate(-c.Target.X, -c.Target.Y, -c.Target.Z)
	if c.Mode == Mode2D {
		v := c.View2D
		m := math.Translate(v.X, v.Y, 0)
		m = m.Mul(math.RotateZ(math.Radians(v.Azimuth)))
		m = m.Mul(math.Scale(v.Zoom, v.Zoom, v.Zoom))
		return m.Mul(center)
	}

	v := c.View3D
	f := v.Zoom
	if v.Ortho {
		// distance has no effect on apparent size without perspective
		f *= zoomOrthoAdj
	}
	m := math.RotateX(math.Radians(-90)) // Z up
	m = m.Mul(math.Translate(0, v.Y, 0))
	m = m.Mul(math.Scale(f, f, f))
	m = m.Mul(math.Translate(v.X, 0, v.Z))
	m = m.Mul(math.RotateX(math.Radians(-v.Elevation)))
	m = m.Mul(math.RotateZ(math.Radians(v.Azimuth)))
	return m.Mul(center)
}

// Projection returns the eye-to-clip transform for a viewport in pixels.
func (c *Camera) Projection(width, height int) math.Mat4 {
	w, h := float64(max(width, 1)), float64(max(height, 1))
	switch {
	case c.Mode == Mode2D:
		return math.Ortho(-w/2, w/2, -h/2, h/2, near2D, far2D)
	case c.View3D.Ortho:
		return math.Ortho(-w/2, w/2, -h/2, h/2, -farOrtho, farOrtho)
	default:
		return math.Perspective(math.Radians(fovY), w/h, near3D, far3D)
	}
}

// ViewProjection returns Projection * Matrix.
func (c *Camera) ViewProjection(width, height int) math.Mat4 {
	return c.Projection(width, height).Mul(c.Matrix())
}

// Ray returns the world-space pick ray under a pixel, with y counted from
// the top of the viewport.
func (c *Camera) Ray(x, y float64, width, height int) (picking.Ray, error) {
	inv, err := c.ViewProjection(width, height).Inverse()
	if err != nil {
		return picking.Ray{}, err
	}
	return picking.ScreenToRay(x, y, float64(width), float64(height), inv), nil
}
