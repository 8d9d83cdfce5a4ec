package camera

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/xburn/pkg/math"
)

const eps = 1e-9

func TestNewCamera(t *testing.T) {
	c := New()
	assert.Equal(t, Mode3D, c.Mode)
	assert.Equal(t, View3D{Y: 180, Z: -20, Zoom: 1, Elevation: -20}, c.View3D)
	assert.Equal(t, 5.0, c.View2D.Zoom)
}

func TestZoomStepsAndClamps(t *testing.T) {
	c := New()
	c.Zoom(1)
	assert.InDelta(t, 1.2, c.ZoomLevel(), eps)
	c.Zoom(-1)
	assert.InDelta(t, 1.2*0.83, c.ZoomLevel(), eps)
	c.Zoom(0)
	assert.InDelta(t, 1.2*0.83, c.ZoomLevel(), eps)

	for range 100 {
		c.Zoom(1)
	}
	assert.Equal(t, ZoomMax, c.ZoomLevel())
	for range 200 {
		c.Zoom(-1)
	}
	assert.Equal(t, ZoomMin, c.ZoomLevel())

	// each mode keeps its own zoom
	c.SetMode(Mode2D)
	assert.Equal(t, 5.0, c.ZoomLevel())
}

func TestPan(t *testing.T) {
	c := New()
	c.View3D.Zoom = 2
	c.Pan(10, 4)
	assert.InDelta(t, 5, c.View3D.X, eps)
	assert.InDelta(t, -22, c.View3D.Z, eps)

	c.SetMode(Mode2D)
	c.Pan(10, 4)
	assert.InDelta(t, 40, c.View2D.X, eps)
	assert.InDelta(t, -16, c.View2D.Y, eps)
}

func TestRotate(t *testing.T) {
	c := New()
	c.Rotate(30, 10)
	assert.InDelta(t, 30, c.View3D.Azimuth, eps)
	assert.InDelta(t, -30, c.View3D.Elevation, eps)

	c.ToggleMode()
	c.Rotate(15, 99)
	assert.InDelta(t, 15, c.View2D.Azimuth, eps)
	assert.InDelta(t, 30, c.View3D.Azimuth, eps)
}

func TestOffset(t *testing.T) {
	c := New()
	c.Offset(30)
	assert.InDelta(t, 150, c.View3D.Y, eps)
	c.Offset(1000)
	assert.InDelta(t, near3D, c.View3D.Y, eps)

	c.SetMode(Mode2D)
	before := *c
	c.Offset(10)
	assert.Equal(t, before, *c)
}

func TestResetKeepsOrtho(t *testing.T) {
	c := New()
	c.SetOrtho(true)
	c.Rotate(40, 40)
	c.Zoom(1)
	c.Reset()
	assert.True(t, c.View3D.Ortho)
	assert.Equal(t, 1.0, c.View3D.Zoom)
	assert.Equal(t, -20.0, c.View3D.Elevation)
}

func TestPresets(t *testing.T) {
	c := New()
	c.SetMode(Mode2D)

	c.SetPreset(Top)
	assert.Equal(t, Mode3D, c.Mode)
	// world up faces the eye
	up := c.Matrix().TransformVector(math.UnitZ)
	assert.True(t, up.ApproxEqual(math.Vec3{Z: 1}, eps), "got %v", up)

	c.SetPreset(Front)
	into := c.Matrix().TransformVector(math.UnitY)
	assert.True(t, into.ApproxEqual(math.Vec3{Z: -1}, eps), "got %v", into)
	up = c.Matrix().TransformVector(math.UnitZ)
	assert.True(t, up.ApproxEqual(math.Vec3{Y: 1}, eps), "got %v", up)

	c.SetPreset(Left)
	// the -X side faces the eye
	toward := c.Matrix().TransformVector(math.UnitX.Scale(-1))
	assert.True(t, toward.ApproxEqual(math.Vec3{Z: 1}, eps), "got %v", toward)
}

func TestTargetCentred(t *testing.T) {
	c := New()
	c.Target = math.Vec3{X: 60, Y: 50}
	c.SetPreset(Front)
	// the initial Z pan of -20 drops the target below centre
	p := c.Matrix().TransformPoint(c.Target)
	assert.True(t, p.ApproxEqual(math.Vec3{Y: -20, Z: -180}, 1e-9), "got %v", p)

	c.SetMode(Mode2D)
	c.View2D.X, c.View2D.Y = 7, -3
	p = c.Matrix().TransformPoint(c.Target)
	assert.True(t, p.ApproxEqual(math.Vec3{X: 7, Y: -3}, 1e-9), "got %v", p)

	// one mm is Zoom pixels
	p = c.Matrix().TransformPoint(c.Target.Add(math.UnitX))
	assert.InDelta(t, 12, p.X, 1e-9)
}

func TestOrthoZoomAdjust(t *testing.T) {
	c := New()
	c.SetPreset(Front)
	persp := c.Matrix().TransformVector(math.UnitX)
	c.SetOrtho(true)
	ortho := c.Matrix().TransformVector(math.UnitX)
	assert.InDelta(t, persp.X*zoomOrthoAdj, ortho.X, eps)
}

func TestRayThroughCentre(t *testing.T) {
	c := New()
	c.Target = math.Vec3{X: 60, Y: 50}
	c.SetPreset(Front)

	r, err := c.Ray(400, 300, 800, 600)
	require.NoError(t, err)
	assert.True(t, r.Direction.ApproxEqual(math.UnitY, 1e-6), "got %v", r.Direction)
	assert.InDelta(t, 60, r.Origin.X, 1e-6)
	assert.InDelta(t, 20, r.Origin.Z, 1e-6)

	c.SetOrtho(true)
	r, err = c.Ray(400, 300, 800, 600)
	require.NoError(t, err)
	assert.True(t, r.Direction.ApproxEqual(math.UnitY, 1e-6), "got %v", r.Direction)
}

func TestParseMode(t *testing.T) {
	assert.Equal(t, Mode2D, ParseMode("2d"))
	assert.Equal(t, Mode3D, ParseMode("3d"))
	assert.Equal(t, Mode3D, ParseMode(""))
	assert.Equal(t, "2d", Mode2D.String())
}
