// Package mesh holds triangle meshes loaded from STL files together with
// the transform that places each one on the platform.
package mesh

import (
	"fmt"
	"iter"
	gomath "math"

	"github.com/Faultbox/xburn/pkg/math"
	"github.com/Faultbox/xburn/pkg/picking"
)

// ErrDegenerateScale is returned by scale operations with a zero or negative
// factor.
var ErrDegenerateScale = math.ErrDegenerateScale

// Mesh is a triangle list in local coordinates plus one Transform. Vertices
// are never edited after load; every change goes through the transform.
type Mesh struct {
	Name   string
	Format Format

	local     []Triangle
	localBox  math.Box
	transform math.Transform

	worldBox   math.Box
	worldValid bool
}

// New builds a mesh from local-space triangles.
func New(name string, tris []Triangle) *Mesh {
	return newMesh(name, FormatUnknown, tris)
}

func newMesh(name string, format Format, tris []Triangle) *Mesh {
	m := &Mesh{
		Name:      name,
		Format:    format,
		local:     tris,
		localBox:  math.EmptyBox(),
		transform: math.IdentityTransform(),
	}
	for _, t := range tris {
		for _, v := range t.V {
			m.localBox = m.localBox.Extend(v)
		}
	}
	return m
}

// Clone returns a deep copy, used to snapshot a mesh before handing it to
// another goroutine.
func (m *Mesh) Clone() *Mesh {
	c := *m
	c.local = make([]Triangle, len(m.local))
	copy(c.local, m.local)
	return &c
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.local)
}

// Transform returns the current transform.
func (m *Mesh) Transform() math.Transform {
	return m.transform
}

// Matrix returns the local-to-world matrix.
func (m *Mesh) Matrix() math.Mat4 {
	return m.transform.Matrix()
}

func (m *Mesh) setTransform(t math.Transform) {
	m.transform = t
	m.worldValid = false
}

// Rotate adds a rotation of deg degrees about a world axis through the
// mesh origin. A zero axis does nothing.
func (m *Mesh) Rotate(axis math.Vec3, deg float64) {
	m.setTransform(m.transform.Rotated(axis, deg))
}

// SetRotation replaces the rotation with X, then Y, then Z angles in degrees.
func (m *Mesh) SetRotation(xDeg, yDeg, zDeg float64) {
	m.setTransform(m.transform.WithRotation(math.QuatFromEuler(xDeg, yDeg, zDeg)))
}

// Scale scales uniformly by f. A zero or negative factor fails with
// ErrDegenerateScale and leaves the transform unchanged.
func (m *Mesh) Scale(f float64) error {
	return m.ScaleNonUniform(math.Vec3{X: f, Y: f, Z: f})
}

// ScaleNonUniform scales each local axis independently.
func (m *Mesh) ScaleNonUniform(f math.Vec3) error {
	t, err := m.transform.Scaled(f)
	if err != nil {
		return fmt.Errorf("scale by %v: %w", f, err)
	}
	m.setTransform(t)
	return nil
}

// Translate moves the mesh by delta.
func (m *Mesh) Translate(delta math.Vec3) {
	m.setTransform(m.transform.Translated(delta))
}

// ResetTransform returns the mesh to its loaded placement.
func (m *Mesh) ResetTransform() {
	m.setTransform(math.IdentityTransform())
}

// LocalBounds returns the bounding box of the untransformed vertices.
func (m *Mesh) LocalBounds() math.Box {
	return m.localBox
}

// BoundingBox returns the world-space bounding box. It is cached and
// recomputed after any transform change.
func (m *Mesh) BoundingBox() math.Box {
	if m.worldValid {
		return m.worldBox
	}
	mat := m.Matrix()
	b := math.EmptyBox()
	for _, t := range m.local {
		for _, v := range t.V {
			b = b.Extend(mat.TransformPoint(v))
		}
	}
	m.worldBox, m.worldValid = b, true
	return b
}

// ScaleToFit applies one uniform scale so the largest bounding dimension
// matches the platform's smaller side.
func (m *Mesh) ScaleToFit(p Platform) error {
	size := m.BoundingBox().Size()
	largest := gomath.Max(size.X, gomath.Max(size.Y, size.Z))
	target := gomath.Min(p.Width, p.Depth)
	if largest == 0 || target <= 0 {
		return fmt.Errorf("scale to fit %vx%v: %w", p.Width, p.Depth, ErrDegenerateScale)
	}
	return m.Scale(target / largest)
}

// SetDimension scales uniformly so the bounding box extent along axis
// (0=X, 1=Y, 2=Z) equals value.
func (m *Mesh) SetDimension(axis int, value float64) error {
	cur := m.BoundingBox().Size().Component(axis)
	if cur == 0 || value <= 0 {
		return fmt.Errorf("set dimension %d to %v: %w", axis, value, ErrDegenerateScale)
	}
	return m.Scale(value / cur)
}

// CenterOn moves the mesh so its footprint is centred on the platform and
// its lowest point rests on z = 0.
func (m *Mesh) CenterOn(p Platform) {
	b := m.BoundingBox()
	c := b.Center()
	target := p.Center()
	m.Translate(math.Vec3{X: target.X - c.X, Y: target.Y - c.Y, Z: -b.Min.Z})
}

// Triangles yields world-space triangles. The sequence may be ranged over
// any number of times.
func (m *Mesh) Triangles() iter.Seq[Triangle] {
	mat := m.Matrix()
	return func(yield func(Triangle) bool) {
		for _, t := range m.local {
			if !yield(t.Transform(mat)) {
				return
			}
		}
	}
}

// FaceNormals yields world-space normals in triangle order, transformed
// with the inverse-transpose of the mesh matrix.
func (m *Mesh) FaceNormals() iter.Seq[math.Vec3] {
	mat := m.Matrix()
	nm, err := mat.NormalMatrix()
	return func(yield func(math.Vec3) bool) {
		for _, t := range m.local {
			n := math.Vec3{}
			if err == nil {
				n = nm.Apply(t.Normal()).Normalize()
			}
			if !yield(n) {
				return
			}
		}
	}
}

// Pick returns the distance to the nearest triangle hit by r.
func (m *Mesh) Pick(r picking.Ray) (float64, bool) {
	if _, hit := r.IntersectBox(m.BoundingBox()); !hit {
		return 0, false
	}
	best, found := gomath.Inf(1), false
	for t := range m.Triangles() {
		if d, ok := r.IntersectTriangle(t.V[0], t.V[1], t.V[2]); ok && d < best {
			best, found = d, true
		}
	}
	return best, found
}
