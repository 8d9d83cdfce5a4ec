package mesh

import "github.com/Faultbox/xburn/pkg/math"

// NewBox returns a closed box mesh spanning [0, size] on each axis, with
// outward-facing counter-clockwise triangles.
func NewBox(name string, size math.Vec3) *Mesh {
	c := math.Box{Max: size}.Corners()
	// corner indices: 0-3 bottom (z=min), 4-7 top, both counter-clockwise from +Z
	quads := [6][4]int{
		{0, 3, 2, 1}, // bottom, facing -Z
		{4, 5, 6, 7}, // top
		{0, 1, 5, 4}, // front, -Y
		{2, 3, 7, 6}, // back, +Y
		{1, 2, 6, 5}, // right, +X
		{3, 0, 4, 7}, // left, -X
	}
	tris := make([]Triangle, 0, 12)
	for _, q := range quads {
		tris = append(tris,
			Triangle{V: [3]math.Vec3{c[q[0]], c[q[1]], c[q[2]]}},
			Triangle{V: [3]math.Vec3{c[q[0]], c[q[2]], c[q[3]]}},
		)
	}
	return New(name, tris)
}
