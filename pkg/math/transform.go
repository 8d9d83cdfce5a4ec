package math

import "errors"

// ErrDegenerateScale is returned when a scale factor is not positive or not
// finite.
var ErrDegenerateScale = errors.New("degenerate scale")

// Transform is an affine transform kept as independent translation,
// rotation and non-uniform scale. The composed matrix is always T * R * S,
// so a point is scaled, then rotated, then translated.
//
// Transform is a value: every update returns a new Transform and leaves the
// receiver untouched.
type Transform struct {
	Translation Vec3
	Rotation    Quat
	Scale       Vec3
}

// IdentityTransform returns the transform that changes nothing.
func IdentityTransform() Transform {
	return Transform{
		Rotation: QuatIdentity(),
		Scale:    Vec3{1, 1, 1},
	}
}

// Matrix returns T * R * S.
func (t Transform) Matrix() Mat4 {
	s := Scale(t.Scale.X, t.Scale.Y, t.Scale.Z)
	r := t.Rotation.ToMat4()
	tr := Translate(t.Translation.X, t.Translation.Y, t.Translation.Z)
	// rotation after scale, translation last
	return Compose(tr, Compose(r, s))
}

// Rotated returns t with an extra rotation of deg degrees about a world
// axis through the object's origin. A zero axis leaves t unchanged.
func (t Transform) Rotated(axis Vec3, deg float64) Transform {
	if axis.Length() == 0 || deg == 0 {
		return t
	}
	q := QuatFromAxisAngle(axis, Radians(deg))
	// new rotation applies after the existing one
	t.Rotation = q.Mul(t.Rotation).Normalize()
	return t
}

// WithRotation returns t with its rotation replaced.
func (t Transform) WithRotation(q Quat) Transform {
	t.Rotation = q.Normalize()
	return t
}

// Scaled multiplies the scale component-wise by f. Every factor must be
// positive; a mirrored scale would turn the mesh inside out.
func (t Transform) Scaled(f Vec3) (Transform, error) {
	if f.X <= 0 || f.Y <= 0 || f.Z <= 0 || !f.IsFinite() {
		return t, ErrDegenerateScale
	}
	t.Scale = t.Scale.Mul(f)
	return t, nil
}

// Translated returns t moved by delta.
func (t Transform) Translated(delta Vec3) Transform {
	t.Translation = t.Translation.Add(delta)
	return t
}

// Inverse returns the inverse matrix, or ErrDegenerateTransform when a
// scale factor is zero.
func (t Transform) Inverse() (Mat4, error) {
	if t.Scale.X == 0 || t.Scale.Y == 0 || t.Scale.Z == 0 {
		return Mat4{}, ErrDegenerateTransform
	}
	return t.Matrix().Inverse()
}
