package toolpath

import (
	"fmt"
	gomath "math"

	"github.com/Faultbox/xburn/pkg/math"
	"github.com/Faultbox/xburn/pkg/mesh"
)

// Project flattens the world-space mesh into 2D edges according to
// cfg.Mode. The mesh is only read.
func Project(m *mesh.Mesh, cfg Config) ([]Segment, error) {
	if m == nil || m.TriangleCount() == 0 {
		return nil, fmt.Errorf("%w: empty mesh", ErrDegenerateGeometry)
	}
	var segs []Segment
	switch cfg.Mode {
	case ModeSlice:
		segs = slice(m, cfg.SliceZ, cfg.Tolerance)
	default:
		segs = silhouette(m, cfg.Tolerance)
	}
	if len(segs) == 0 {
		return nil, fmt.Errorf("%w: %s of %q produced no edges", ErrDegenerateGeometry, cfg.Mode, m.Name)
	}
	return segs, nil
}

// silhouette returns the boundary of the upward-facing triangles seen from
// above: every edge used by exactly one such triangle. Interior edges are
// shared by two and cancel. For meshes whose top surface overlaps itself in
// plan view this yields extra edges that may not close.
func silhouette(m *mesh.Mesh, tol float64) []Segment {
	var tris [][3]math.Vec2
	for t := range m.Triangles() {
		if t.Normal().Z > 1e-9 {
			tris = append(tris, [3]math.Vec2{t.V[0].XY(), t.V[1].XY(), t.V[2].XY()})
		}
	}
	return boundaryEdges(tris, tol)
}

// boundaryEdges keeps the edges that occur once across tris, in first-seen
// order, after welding vertices within tol.
func boundaryEdges(tris [][3]math.Vec2, tol float64) []Segment {
	w := newWelder(tol)
	type occurrence struct {
		seg   Segment
		count int
	}
	var order [][2]int
	seen := make(map[[2]int]*occurrence)
	for _, t := range tris {
		for i := range 3 {
			a, b := t[i], t[(i+1)%3]
			u, v := w.id(a), w.id(b)
			if u == v {
				continue
			}
			key := [2]int{min(u, v), max(u, v)}
			if o, ok := seen[key]; ok {
				o.count++
				continue
			}
			seen[key] = &occurrence{seg: Segment{A: a, B: b}, count: 1}
			order = append(order, key)
		}
	}
	var out []Segment
	for _, k := range order {
		if o := seen[k]; o.count == 1 {
			out = append(out, o.seg)
		}
	}
	return out
}

// slice intersects the mesh with z = z0. Faces lying in the plane
// contribute their outline. A vertex exactly on the plane counts as above
// it, so an edge through a vertex is produced once.
func slice(m *mesh.Mesh, z0, tol float64) []Segment {
	var segs []Segment
	var caps [][3]math.Vec2
	for t := range m.Triangles() {
		var d [3]float64
		onPlane := true
		for i, v := range t.V {
			d[i] = v.Z - z0
			if gomath.Abs(d[i]) > tol {
				onPlane = false
			}
		}
		if onPlane {
			if t.Area() > 0 {
				caps = append(caps, [3]math.Vec2{t.V[0].XY(), t.V[1].XY(), t.V[2].XY()})
			}
			continue
		}
		var pts []math.Vec2
		for i := range 3 {
			j := (i + 1) % 3
			if (d[i] >= 0) != (d[j] >= 0) {
				s := d[i] / (d[i] - d[j])
				p := t.V[i].Add(t.V[j].Sub(t.V[i]).Scale(s))
				pts = append(pts, p.XY())
			}
		}
		if len(pts) == 2 {
			segs = append(segs, Segment{A: pts[0], B: pts[1]})
		}
	}
	return append(segs, boundaryEdges(caps, tol)...)
}
