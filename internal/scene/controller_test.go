package scene

import (
	gomath "math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/xburn/internal/engine/camera"
	"github.com/Faultbox/xburn/pkg/math"
	"github.com/Faultbox/xburn/pkg/mesh"
)

func controllerWithBox(t *testing.T) (*Controller, *Scene, ObjectID) {
	t.Helper()
	s := newScene()
	id := s.AddMesh(mesh.NewBox("box", math.Vec3{X: 10, Y: 10, Z: 10}))
	return NewController(s, nil), s, id
}

func TestPressReleaseIsNoOp(t *testing.T) {
	for _, target := range []Target{TargetCamera, TargetObject} {
		c, s, id := controllerWithBox(t)
		c.Target = target
		obj, _ := s.Get(id)
		cam := *s.Camera()
		tr := obj.Mesh.Transform()

		for _, b := range []Button{ButtonLeft, ButtonRight, ButtonMiddle, ButtonX1} {
			c.Press(b)
			assert.NotEqual(t, Idle, c.Mode())
			c.Release(b)
			assert.Equal(t, Idle, c.Mode())
		}
		require.NoError(t, c.Motion(0, 0))

		assert.Equal(t, cam, *s.Camera())
		assert.Equal(t, tr, obj.Mesh.Transform())
	}
}

func TestHeldButtonStack(t *testing.T) {
	c, _, _ := controllerWithBox(t)

	c.Press(ButtonLeft)
	assert.Equal(t, Rotating, c.Mode())
	c.Press(ButtonRight)
	assert.Equal(t, Panning, c.Mode())
	c.Press(ButtonRight) // repeat press is ignored
	c.Release(ButtonRight)
	assert.Equal(t, Rotating, c.Mode())
	c.Release(ButtonLeft)
	assert.Equal(t, Idle, c.Mode())

	// out-of-order release keeps the newer button
	c.Press(ButtonLeft)
	c.Press(ButtonMiddle)
	c.Release(ButtonLeft)
	assert.Equal(t, Zooming, c.Mode())
	c.Release(ButtonMiddle)
	assert.Equal(t, Idle, c.Mode())

	// releasing a button never pressed changes nothing
	c.Press(ButtonX1)
	c.Release(ButtonLeft)
	assert.Equal(t, Offsetting, c.Mode())

	c.Cancel()
	assert.Equal(t, Idle, c.Mode())
}

func TestUnboundButtonIgnored(t *testing.T) {
	c, _, _ := controllerWithBox(t)
	c.Press(ButtonX2)
	assert.Equal(t, Idle, c.Mode())

	custom := NewController(newScene(), Bindings{ButtonRight: Rotating})
	custom.Press(ButtonLeft)
	assert.Equal(t, Idle, custom.Mode())
	custom.Press(ButtonRight)
	assert.Equal(t, Rotating, custom.Mode())
}

func TestMotionWhileIdle(t *testing.T) {
	c, s, _ := controllerWithBox(t)
	cam := *s.Camera()
	require.NoError(t, c.Motion(15, -7))
	assert.Equal(t, cam, *s.Camera())
}

func TestDragCamera(t *testing.T) {
	c, s, _ := controllerWithBox(t)
	cam := s.Camera()

	c.Press(ButtonLeft)
	require.NoError(t, c.Motion(10, 5))
	c.Release(ButtonLeft)
	assert.InDelta(t, 10, cam.View3D.Azimuth, 1e-9)
	assert.InDelta(t, -25, cam.View3D.Elevation, 1e-9)

	c.Press(ButtonRight)
	require.NoError(t, c.Motion(3, 0))
	c.Release(ButtonRight)
	assert.InDelta(t, 3, cam.View3D.X, 1e-9)

	c.Press(ButtonX1)
	require.NoError(t, c.Motion(0, 30))
	c.Release(ButtonX1)
	assert.InDelta(t, 150, cam.View3D.Y, 1e-9)

	// 25 px up is two whole zoom steps
	c.Press(ButtonMiddle)
	require.NoError(t, c.Motion(0, -12))
	require.NoError(t, c.Motion(0, -13))
	c.Release(ButtonMiddle)
	assert.InDelta(t, 1.44, cam.ZoomLevel(), 1e-9)
}

func TestDragObject(t *testing.T) {
	c, s, id := controllerWithBox(t)
	c.ToggleTarget()
	require.Equal(t, TargetObject, c.Target)
	obj, _ := s.Get(id)
	cam := *s.Camera()

	c.Press(ButtonLeft)
	require.NoError(t, c.Motion(180, 0)) // 90 degrees about Z
	c.Release(ButtonLeft)
	p := obj.Mesh.Matrix().TransformPoint(math.UnitX)
	assert.True(t, p.ApproxEqual(math.UnitY, 1e-9), "got %v", p)
	assert.Equal(t, cam, *s.Camera())

	c.Press(ButtonMiddle)
	require.NoError(t, c.Motion(0, -100))
	assert.InDelta(t, 10*gomath.Exp(0.5), obj.Mesh.BoundingBox().Depth(), 1e-9)
	c.Release(ButtonMiddle)
}

func TestLongZoomDragKeepsObjectScalePositive(t *testing.T) {
	c, s, id := controllerWithBox(t)
	c.ToggleTarget()
	obj, _ := s.Get(id)

	c.Press(ButtonMiddle)
	require.NoError(t, c.Motion(0, 300))
	require.NoError(t, c.Motion(0, 500))
	c.Release(ButtonMiddle)

	scale := obj.Mesh.Transform().Scale
	assert.Greater(t, scale.X, 0.0)
	assert.Greater(t, scale.Y, 0.0)
	assert.Greater(t, scale.Z, 0.0)
	assert.InDelta(t, 10*gomath.Exp(-4), obj.Mesh.BoundingBox().Width(), 1e-9)
}

func TestObjectTargetFallsBackToCamera(t *testing.T) {
	c, s, _ := controllerWithBox(t)
	s.AddDocument("path", nil)
	c.Target = TargetObject

	c.Press(ButtonLeft)
	require.NoError(t, c.Motion(20, 0))
	assert.InDelta(t, 20, s.Camera().View3D.Azimuth, 1e-9)
}

func TestScrollZoomsInAnyMode(t *testing.T) {
	c, s, _ := controllerWithBox(t)
	c.Scroll(1)
	assert.InDelta(t, 1.2, s.Camera().ZoomLevel(), 1e-9)

	c.Press(ButtonLeft)
	c.Scroll(-1)
	assert.InDelta(t, 1.2*0.83, s.Camera().ZoomLevel(), 1e-9)
	assert.Equal(t, Rotating, c.Mode())
}

func TestViewCommands(t *testing.T) {
	c, s, _ := controllerWithBox(t)
	cam := s.Camera()

	c.ViewPreset(camera.Top)
	assert.Equal(t, -90.0, cam.View3D.Elevation)

	c.ToggleOrtho()
	assert.True(t, cam.View3D.Ortho)

	c.ToggleMode()
	assert.Equal(t, camera.Mode2D, cam.Mode)
	c.ToggleMode()

	c.ResetView()
	assert.Equal(t, -20.0, cam.View3D.Elevation)
	assert.True(t, cam.View3D.Ortho)
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "offsetting", Offsetting.String())
	assert.Equal(t, "unknown", Mode(42).String())
}
