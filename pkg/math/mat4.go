package math

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrDegenerateTransform is returned when a matrix has no inverse.
var ErrDegenerateTransform = errors.New("degenerate transform")

// singularEpsilon bounds |det| below which a matrix is treated as singular.
const singularEpsilon = 1e-12

// Mat4 is a 4x4 matrix in column-major order (OpenGL compatible), with the
// same memory layout as mgl64.Mat4.
// Layout: [m0 m4 m8  m12]
//
//	[m1 m5 m9  m13]
//	[m2 m6 m10 m14]
//	[m3 m7 m11 m15]
type Mat4 [16]float64

// Mat3 is the column-major linear part of an affine transform.
type Mat3 [9]float64

// Identity returns an identity matrix.
func Identity() Mat4 {
	return Mat4(mgl64.Ident4())
}

// Perspective returns a perspective projection matrix.
// fovY is in radians, aspect is width/height.
func Perspective(fovY, aspect, near, far float64) Mat4 {
	return Mat4(mgl64.Perspective(fovY, aspect, near, far))
}

// Ortho returns an orthographic projection matrix.
func Ortho(left, right, bottom, top, near, far float64) Mat4 {
	return Mat4(mgl64.Ortho(left, right, bottom, top, near, far))
}

// LookAt returns a view matrix looking from eye to center with up direction.
func LookAt(eye, center, up Vec3) Mat4 {
	return Mat4(mgl64.LookAtV(eye.mgl(), center.mgl(), up.mgl()))
}

// Translate returns a translation matrix.
func Translate(x, y, z float64) Mat4 {
	return Mat4(mgl64.Translate3D(x, y, z))
}

// Scale returns a scale matrix.
func Scale(x, y, z float64) Mat4 {
	return Mat4(mgl64.Scale3D(x, y, z))
}

// RotateX returns a rotation matrix around the X axis. angle is in radians.
func RotateX(angle float64) Mat4 {
	return Mat4(mgl64.HomogRotate3DX(angle))
}

// RotateY returns a rotation matrix around the Y axis. angle is in radians.
func RotateY(angle float64) Mat4 {
	return Mat4(mgl64.HomogRotate3DY(angle))
}

// RotateZ returns a rotation matrix around the Z axis. angle is in radians.
func RotateZ(angle float64) Mat4 {
	return Mat4(mgl64.HomogRotate3DZ(angle))
}

// RotateAxis creates a rotation matrix around an arbitrary axis.
// angle is in radians; a zero axis yields the identity.
func RotateAxis(axis Vec3, angle float64) Mat4 {
	n := axis.Normalize()
	if n == (Vec3{}) {
		return Identity()
	}
	return Mat4(mgl64.HomogRotate3D(angle, n.mgl()))
}

// Mul multiplies this matrix by another (m * other).
func (m Mat4) Mul(other Mat4) Mat4 {
	return Mat4(mgl64.Mat4(m).Mul4(mgl64.Mat4(other)))
}

// Compose returns a*b: the transform that applies b first, then a.
func Compose(a, b Mat4) Mat4 {
	return a.Mul(b)
}

// TransformPoint applies the full affine transform, translation included.
func (m Mat4) TransformPoint(p Vec3) Vec3 {
	x := m[0]*p.X + m[4]*p.Y + m[8]*p.Z + m[12]
	y := m[1]*p.X + m[5]*p.Y + m[9]*p.Z + m[13]
	z := m[2]*p.X + m[6]*p.Y + m[10]*p.Z + m[14]
	w := m[3]*p.X + m[7]*p.Y + m[11]*p.Z + m[15]
	if w != 0 && w != 1 {
		return Vec3{x / w, y / w, z / w}
	}
	return Vec3{x, y, z}
}

// TransformVector applies only the linear part (no translation).
func (m Mat4) TransformVector(d Vec3) Vec3 {
	return Vec3{
		m[0]*d.X + m[4]*d.Y + m[8]*d.Z,
		m[1]*d.X + m[5]*d.Y + m[9]*d.Z,
		m[2]*d.X + m[6]*d.Y + m[10]*d.Z,
	}
}

// Linear returns the upper-left 3x3 portion of the matrix.
func (m Mat4) Linear() Mat3 {
	return Mat3(mgl64.Mat4(m).Mat3())
}

// NormalMatrix returns the inverse-transpose of the linear part, which keeps
// normals perpendicular to surfaces under non-uniform scale.
func (m Mat4) NormalMatrix() (Mat3, error) {
	l := mgl64.Mat4(m).Mat3()
	if abs(l.Det()) < singularEpsilon {
		return Mat3{}, ErrDegenerateTransform
	}
	return Mat3(l.Inv().Transpose()), nil
}

// TransformNormal maps a surface normal through m and renormalizes it.
// A singular m yields the zero vector.
func (m Mat4) TransformNormal(n Vec3) Vec3 {
	nm, err := m.NormalMatrix()
	if err != nil {
		return Vec3{}
	}
	return nm.Apply(n).Normalize()
}

// Apply multiplies the 3x3 matrix by v.
func (m Mat3) Apply(v Vec3) Vec3 {
	return fromMgl(mgl64.Mat3(m).Mul3x1(v.mgl()))
}

// Det returns the determinant.
func (m Mat4) Det() float64 {
	return mgl64.Mat4(m).Det()
}

// Inverse returns the inverse of the matrix, or ErrDegenerateTransform when
// it is singular.
func (m Mat4) Inverse() (Mat4, error) {
	g := mgl64.Mat4(m)
	if abs(g.Det()) < singularEpsilon {
		return Mat4{}, ErrDegenerateTransform
	}
	return Mat4(g.Inv()), nil
}

// ApproxEqual compares element-wise within eps.
func (m Mat4) ApproxEqual(other Mat4, eps float64) bool {
	return mgl64.Mat4(m).ApproxEqualThreshold(mgl64.Mat4(other), eps)
}

// Float32 converts to float32 for OpenGL uniform upload.
func (m Mat4) Float32() [16]float32 {
	var out [16]float32
	for i, v := range m {
		out[i] = float32(v)
	}
	return out
}

// Vec4 is a 4-component vector.
type Vec4 [4]float64

// MulVec4 multiplies the matrix by a Vec4.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4(mgl64.Mat4(m).Mul4x1(mgl64.Vec4(v)))
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
