package math

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Quat represents a quaternion for 3D rotations.
// Components are stored as X, Y, Z, W where W is the scalar part.
type Quat struct {
	X, Y, Z, W float64
}

// QuatIdentity returns an identity quaternion (no rotation).
func QuatIdentity() Quat {
	return Quat{W: 1}
}

// QuatFromAxisAngle creates a quaternion from axis-angle rotation.
// angle is in radians. A zero axis gives the identity.
func QuatFromAxisAngle(axis Vec3, angle float64) Quat {
	n := axis.Normalize()
	if n == (Vec3{}) {
		return QuatIdentity()
	}
	return quatFromMgl(mgl64.QuatRotate(angle, n.mgl()))
}

// QuatFromEuler builds a rotation applying X, then Y, then Z (degrees).
func QuatFromEuler(xDeg, yDeg, zDeg float64) Quat {
	qx := QuatFromAxisAngle(UnitX, Radians(xDeg))
	qy := QuatFromAxisAngle(UnitY, Radians(yDeg))
	qz := QuatFromAxisAngle(UnitZ, Radians(zDeg))
	return qz.Mul(qy).Mul(qx)
}

// Normalize returns a normalized quaternion. A near-zero quaternion
// normalizes to the identity.
func (q Quat) Normalize() Quat {
	g := q.mgl()
	if g.Len() < 1e-9 {
		return QuatIdentity()
	}
	return quatFromMgl(g.Normalize())
}

// Dot returns the dot product of two quaternions.
func (q Quat) Dot(other Quat) float64 {
	return q.mgl().Dot(other.mgl())
}

// Mul multiplies two quaternions: q.Mul(o) rotates by o first, then q.
func (q Quat) Mul(other Quat) Quat {
	return quatFromMgl(q.mgl().Mul(other.mgl()))
}

// Conjugate returns the inverse rotation of a unit quaternion.
func (q Quat) Conjugate() Quat {
	return Quat{-q.X, -q.Y, -q.Z, q.W}
}

// Rotate applies the rotation to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	return fromMgl(q.Normalize().mgl().Rotate(v.mgl()))
}

// Slerp performs spherical linear interpolation. t should be in [0, 1].
func (q Quat) Slerp(other Quat, t float64) Quat {
	return quatFromMgl(mgl64.QuatSlerp(q.mgl(), other.mgl(), t))
}

// ToMat4 converts the quaternion to a 4x4 rotation matrix.
func (q Quat) ToMat4() Mat4 {
	return Mat4(q.Normalize().mgl().Mat4())
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

func (q Quat) mgl() mgl64.Quat {
	return mgl64.Quat{W: q.W, V: mgl64.Vec3{q.X, q.Y, q.Z}}
}

func quatFromMgl(g mgl64.Quat) Quat {
	return Quat{X: g.V[0], Y: g.V[1], Z: g.V[2], W: g.W}
}
