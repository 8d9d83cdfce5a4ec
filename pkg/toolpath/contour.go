package toolpath

import (
	"context"
	"errors"
	"fmt"
	gomath "math"

	"github.com/Faultbox/xburn/pkg/math"
)

// Geometry errors.
var (
	ErrOpenContour        = errors.New("open contour")
	ErrDegenerateGeometry = errors.New("degenerate geometry")
)

// angleEpsilon is the turning-angle difference under which two candidate
// edges count as a tie.
const angleEpsilon = 1e-9

// Segment is an undirected 2D edge on the platform plane.
type Segment struct {
	A, B math.Vec2
}

// Contour is a closed polyline. The closing edge from the last vertex back
// to the first is implicit.
type Contour []math.Vec2

// Area returns the signed shoelace area; positive means counter-clockwise.
func (c Contour) Area() float64 {
	var a float64
	for i, p := range c {
		q := c[(i+1)%len(c)]
		a += p.Cross(q)
	}
	return a / 2
}

// Perimeter returns the closed length.
func (c Contour) Perimeter() float64 {
	var l float64
	for i, p := range c {
		l += p.Distance(c[(i+1)%len(c)])
	}
	return l
}

// Contains is an even-odd point-in-polygon test.
func (c Contour) Contains(p math.Vec2) bool {
	in := false
	for i, j := 0, len(c)-1; i < len(c); j, i = i, i+1 {
		a, b := c[i], c[j]
		if (a.Y > p.Y) != (b.Y > p.Y) &&
			p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			in = !in
		}
	}
	return in
}

// Nearest returns the index of the vertex closest to p and its distance.
// Ties go to the lower index.
func (c Contour) Nearest(p math.Vec2) (int, float64) {
	best, bestDist := 0, gomath.Inf(1)
	for i, v := range c {
		if d := v.Distance(p); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, bestDist
}

// StartAt returns the same loop beginning at vertex i.
func (c Contour) StartAt(i int) Contour {
	out := make(Contour, 0, len(c))
	out = append(out, c[i:]...)
	return append(out, c[:i]...)
}

// isThin reports whether every vertex lies within tol of the line through
// the first vertex and the vertex farthest from it.
func (c Contour) isThin(tol float64) bool {
	if len(c) < 3 {
		return true
	}
	far, maxD := 0, 0.0
	for i, v := range c {
		if d := v.Distance(c[0]); d > maxD {
			far, maxD = i, d
		}
	}
	if maxD <= tol {
		return true
	}
	dir := c[far].Sub(c[0]).Normalize()
	for _, v := range c {
		if gomath.Abs(dir.Cross(v.Sub(c[0]))) > tol {
			return false
		}
	}
	return true
}

type edge struct {
	u, v int
}

func (e edge) other(x int) int {
	if e.u == x {
		return e.v
	}
	return e.u
}

// ExtractContours stitches segments into closed contours. See
// extractContours.
func ExtractContours(segs []Segment, tol float64) ([]Contour, error) {
	return extractContours(context.Background(), segs, tol)
}

// extractContours welds endpoints within tol, drops zero-length and
// duplicate edges, and walks the remaining edges by shared endpoints. At a
// vertex with several unused edges the walk takes the one with the smallest
// turning angle relative to the incoming direction; exact ties go to the
// edge that came first in segs. Collinear interior vertices are removed
// from each finished loop. ctx is checked before each new contour.
func extractContours(ctx context.Context, segs []Segment, tol float64) ([]Contour, error) {
	if tol <= 0 {
		return nil, fmt.Errorf("%w: tolerance must be positive", ErrInvalidConfig)
	}
	w := newWelder(tol)
	var edges []edge
	seen := make(map[[2]int]bool)
	for _, s := range segs {
		u, v := w.id(s.A), w.id(s.B)
		if u == v {
			continue
		}
		key := [2]int{min(u, v), max(u, v)}
		if seen[key] {
			continue
		}
		seen[key] = true
		edges = append(edges, edge{u, v})
	}
	if len(edges) == 0 {
		return nil, fmt.Errorf("%w: no edges to trace", ErrDegenerateGeometry)
	}

	adj := make([][]int, len(w.pts))
	for i, e := range edges {
		adj[e.u] = append(adj[e.u], i)
		adj[e.v] = append(adj[e.v], i)
	}

	used := make([]bool, len(edges))
	var contours []Contour
	for si, first := range edges {
		if used[si] {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		used[si] = true
		start, prev, cur := first.u, first.u, first.v
		loop := []int{start}
		for cur != start {
			loop = append(loop, cur)
			next := pickNext(w.pts, adj[cur], edges, used, prev, cur)
			if next < 0 {
				if w.pts[cur].Distance(w.pts[start]) <= tol {
					break
				}
				p := w.pts[cur]
				return nil, fmt.Errorf("%w: dead end at (%.3f, %.3f)", ErrOpenContour, p.X, p.Y)
			}
			used[next] = true
			prev, cur = cur, edges[next].other(cur)
		}

		c := make(Contour, len(loop))
		for i, id := range loop {
			c[i] = w.pts[id]
		}
		c = simplify(c)
		if c.isThin(tol) {
			return nil, fmt.Errorf("%w: contour through (%.3f, %.3f) has no area",
				ErrDegenerateGeometry, w.pts[start].X, w.pts[start].Y)
		}
		contours = append(contours, c)
	}
	return contours, nil
}

// pickNext returns the unused edge at cur that turns least relative to the
// direction prev->cur, or -1. cand is in ascending edge order, so the first
// of several equal candidates wins.
func pickNext(pts []math.Vec2, cand []int, edges []edge, used []bool, prev, cur int) int {
	in := pts[cur].Sub(pts[prev])
	best, bestAngle := -1, gomath.Inf(1)
	for _, ei := range cand {
		if used[ei] {
			continue
		}
		out := pts[edges[ei].other(cur)].Sub(pts[cur])
		a := turningAngle(in, out)
		if a < bestAngle-angleEpsilon {
			best, bestAngle = ei, a
		}
	}
	return best
}

// turningAngle is the absolute angle in [0, pi] between two directions.
func turningAngle(in, out math.Vec2) float64 {
	return gomath.Abs(gomath.Atan2(in.Cross(out), in.Dot(out)))
}

// normalize drops closing vertices within tol of the first, so a polyline
// written out explicitly closed becomes an implicit ring, then simplifies.
func normalize(c Contour, tol float64) Contour {
	for len(c) > 1 && c[len(c)-1].Sub(c[0]).Length() <= tol {
		c = c[:len(c)-1]
	}
	return simplify(c)
}

// simplify drops repeated vertices and collinear interior vertices.
func simplify(c Contour) Contour {
	const eps = 1e-9
	out := append(Contour(nil), c...)
	for changed := true; changed && len(out) >= 3; {
		changed = false
		for i := 0; i < len(out) && len(out) >= 3; i++ {
			prev := out[(i+len(out)-1)%len(out)]
			next := out[(i+1)%len(out)]
			a := out[i].Sub(prev)
			b := next.Sub(out[i])
			la, lb := a.Length(), b.Length()
			if la == 0 || lb == 0 ||
				gomath.Abs(a.Cross(b)) <= eps*la*lb && a.Dot(b) > 0 {
				out = append(out[:i], out[i+1:]...)
				changed = true
				i--
			}
		}
	}
	return out
}
