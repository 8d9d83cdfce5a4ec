package scene

import (
	gomath "math"
	"slices"

	"github.com/Faultbox/xburn/internal/engine/camera"
	"github.com/Faultbox/xburn/pkg/math"
)

// Mode is the interaction state of a drag.
type Mode int

const (
	Idle Mode = iota
	Rotating
	Panning
	Zooming
	Offsetting
)

var modeNames = [...]string{"idle", "rotating", "panning", "zooming", "offsetting"}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "unknown"
}

// Button is a pointer button.
type Button int

const (
	ButtonLeft Button = iota
	ButtonMiddle
	ButtonRight
	ButtonX1
	ButtonX2
)

// Bindings maps buttons to the mode they start.
type Bindings map[Button]Mode

// DefaultBindings: left rotates, right pans, middle zooms, the first side
// button offsets.
func DefaultBindings() Bindings {
	return Bindings{
		ButtonLeft:   Rotating,
		ButtonRight:  Panning,
		ButtonMiddle: Zooming,
		ButtonX1:     Offsetting,
	}
}

// Target selects what rotating and zooming drags act on.
type Target int

const (
	TargetCamera Target = iota
	TargetObject
)

// Controller turns pointer input into camera and object changes. Several
// buttons may be held; the most recently pressed one still held decides
// the mode.
type Controller struct {
	scene    *Scene
	bindings Bindings
	held     []Button
	mode     Mode
	zoomAcc  float64 // drag pixels not yet turned into zoom steps

	Target Target
	// RotateSpeed is degrees of object rotation per pixel of drag.
	RotateSpeed float64
	// ScaleSpeed is the exponential scale rate per pixel of zoom drag; a drag
	// of 1/ScaleSpeed pixels scales by e. Dragging up grows the object.
	ScaleSpeed float64
	// ZoomDragStep is the pixels of vertical drag per zoom step.
	ZoomDragStep float64
}

// NewController binds a controller to a scene. A nil bindings map uses
// DefaultBindings.
func NewController(s *Scene, b Bindings) *Controller {
	if b == nil {
		b = DefaultBindings()
	}
	return &Controller{
		scene:        s,
		bindings:     b,
		RotateSpeed:  0.5,
		ScaleSpeed:   0.005,
		ZoomDragStep: 10,
	}
}

// Mode returns the current interaction state.
func (c *Controller) Mode() Mode { return c.mode }

// Press starts the mode bound to b. Unbound buttons are ignored.
func (c *Controller) Press(b Button) {
	m, ok := c.bindings[b]
	if !ok || slices.Contains(c.held, b) {
		return
	}
	c.held = append(c.held, b)
	c.mode = m
	c.zoomAcc = 0
}

// Release ends b and falls back to the mode of the latest button still
// held, or Idle.
func (c *Controller) Release(b Button) {
	i := slices.Index(c.held, b)
	if i < 0 {
		return
	}
	c.held = slices.Delete(c.held, i, i+1)
	c.mode = Idle
	if n := len(c.held); n > 0 {
		c.mode = c.bindings[c.held[n-1]]
	}
}

// Cancel drops all held buttons, e.g. when the window loses focus.
func (c *Controller) Cancel() {
	c.held = c.held[:0]
	c.mode = Idle
}

// Motion applies a pointer movement in pixels. It does nothing while Idle.
// An error means an object operation was rejected and its transform kept.
func (c *Controller) Motion(dx, dy float64) error {
	if dx == 0 && dy == 0 {
		return nil
	}
	cam := c.scene.Camera()
	obj, hasObj := c.objectTarget()

	switch c.mode {
	case Rotating:
		if hasObj {
			if err := c.scene.RotateObject(obj, math.UnitZ, dx*c.RotateSpeed); err != nil {
				return err
			}
			return c.scene.RotateObject(obj, math.UnitX, dy*c.RotateSpeed)
		}
		cam.Rotate(dx, dy)
	case Panning:
		cam.Pan(dx, dy)
	case Zooming:
		if hasObj {
			return c.scene.ScaleObject(obj, gomath.Exp(-dy*c.ScaleSpeed))
		}
		if c.ZoomDragStep <= 0 {
			return nil
		}
		c.zoomAcc -= dy
		for ; c.zoomAcc >= c.ZoomDragStep; c.zoomAcc -= c.ZoomDragStep {
			cam.Zoom(1)
		}
		for ; c.zoomAcc <= -c.ZoomDragStep; c.zoomAcc += c.ZoomDragStep {
			cam.Zoom(-1)
		}
	case Offsetting:
		cam.Offset(dy)
	}
	return nil
}

func (c *Controller) objectTarget() (ObjectID, bool) {
	if c.Target != TargetObject {
		return "", false
	}
	obj, ok := c.scene.Active()
	if !ok || obj.Kind != KindMesh {
		return "", false
	}
	return obj.ID, true
}

// Scroll zooms the camera one step per notch, in any mode.
func (c *Controller) Scroll(dy float64) {
	c.scene.Camera().Zoom(dy)
}

// ToggleTarget switches drags between the camera and the active object.
func (c *Controller) ToggleTarget() {
	if c.Target == TargetCamera {
		c.Target = TargetObject
	} else {
		c.Target = TargetCamera
	}
}

// ViewPreset points the camera along a preset direction.
func (c *Controller) ViewPreset(p camera.Preset) {
	c.scene.Camera().SetPreset(p)
}

// ResetView restores the camera.
func (c *Controller) ResetView() {
	c.scene.Camera().Reset()
}

// ToggleMode flips between the 2D and 3D views.
func (c *Controller) ToggleMode() {
	c.scene.Camera().ToggleMode()
}

// ToggleOrtho flips the 3D projection.
func (c *Controller) ToggleOrtho() {
	cam := c.scene.Camera()
	cam.SetOrtho(!cam.View3D.Ortho)
}
