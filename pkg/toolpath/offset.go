package toolpath

import (
	gomath "math"

	"github.com/Faultbox/xburn/pkg/math"
)

// Offset moves every edge of c by delta along its normal: positive delta
// goes toward the interior, negative away from it. Each new vertex is the
// intersection of its two neighbouring offset edges; parallel neighbours
// reuse the offset vertex. ok is false when the result collapsed, meaning
// some edge reversed direction or the ring lost its area.
func (c Contour) Offset(delta float64) (Contour, bool) {
	n := len(c)
	if n < 3 {
		return nil, false
	}
	area := c.Area()
	if gomath.Abs(area) < 1e-12 {
		return nil, false
	}

	dirs := make([]math.Vec2, n)
	norms := make([]math.Vec2, n)
	for i := range c {
		e := c[(i+1)%n].Sub(c[i])
		dirs[i] = e
		inward := e.Normalize().Perp() // left of a counter-clockwise edge
		if area < 0 {
			inward = inward.Scale(-1)
		}
		norms[i] = inward
	}

	out := make(Contour, n)
	for i := range c {
		prev := (i + n - 1) % n
		q0 := c[prev].Add(norms[prev].Scale(delta))
		q1 := c[i].Add(norms[i].Scale(delta))
		e0, e1 := dirs[prev], dirs[i]

		denom := e0.Cross(e1)
		if gomath.Abs(denom) < 1e-12 {
			out[i] = q1
			continue
		}
		t := -q0.Sub(q1).Cross(e1) / denom
		out[i] = q0.Add(e0.Scale(t))
	}

	for i := range out {
		e := out[(i+1)%n].Sub(out[i])
		if e.Dot(dirs[i]) <= 0 {
			return nil, false
		}
	}
	na := out.Area()
	if na*area <= 0 || gomath.Abs(na) < 1e-12 {
		return nil, false
	}
	return out, true
}

// depth counts how many other contours enclose c. Even depth is an outer
// boundary, odd depth a hole.
func depth(all []Contour, i int) int {
	d := 0
	p := all[i][0]
	for j, o := range all {
		if j != i && o.Contains(p) {
			d++
		}
	}
	return d
}

// passes returns the rings burned for contour i: the contour itself, then
// PassCount-1 copies offset by multiples of StepOver into the material.
// Offsetting stops at the first ring that collapses.
func passes(all []Contour, i int, cfg Config) []Contour {
	rings := []Contour{all[i]}
	if cfg.PassCount <= 1 {
		return rings
	}
	sign := 1.0
	if depth(all, i)%2 == 1 {
		sign = -1 // holes grow outward into the surrounding material
	}
	for k := 1; k < cfg.PassCount; k++ {
		r, ok := all[i].Offset(sign * float64(k) * cfg.StepOver)
		if !ok {
			break
		}
		rings = append(rings, r)
	}
	return rings
}
