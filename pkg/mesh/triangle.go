package mesh

import "github.com/Faultbox/xburn/pkg/math"

// Triangle is three vertices in counter-clockwise order. The normal is
// derived from the winding and never stored.
type Triangle struct {
	V [3]math.Vec3
}

// Normal returns the unit face normal, or zero for a degenerate triangle.
func (t Triangle) Normal() math.Vec3 {
	return t.V[1].Sub(t.V[0]).Cross(t.V[2].Sub(t.V[0])).Normalize()
}

// Area returns the triangle area.
func (t Triangle) Area() float64 {
	return t.V[1].Sub(t.V[0]).Cross(t.V[2].Sub(t.V[0])).Length() / 2
}

// IsFinite reports whether every coordinate is finite.
func (t Triangle) IsFinite() bool {
	return t.V[0].IsFinite() && t.V[1].IsFinite() && t.V[2].IsFinite()
}

// Transform maps all three vertices through m.
func (t Triangle) Transform(m math.Mat4) Triangle {
	return Triangle{V: [3]math.Vec3{
		m.TransformPoint(t.V[0]),
		m.TransformPoint(t.V[1]),
		m.TransformPoint(t.V[2]),
	}}
}
