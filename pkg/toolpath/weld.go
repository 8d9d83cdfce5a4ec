package toolpath

import (
	gomath "math"

	"github.com/Faultbox/xburn/pkg/math"
)

// welder merges points closer than tol into one vertex id. Points are
// bucketed in a grid of tol-sized cells, so a lookup checks 9 cells.
// Earlier points win, which keeps ids stable for a given input order.
type welder struct {
	tol   float64
	cells map[[2]int64][]int
	pts   []math.Vec2
}

func newWelder(tol float64) *welder {
	return &welder{tol: tol, cells: make(map[[2]int64][]int)}
}

func (w *welder) cell(p math.Vec2) [2]int64 {
	return [2]int64{int64(gomath.Floor(p.X / w.tol)), int64(gomath.Floor(p.Y / w.tol))}
}

func (w *welder) id(p math.Vec2) int {
	c := w.cell(p)
	best, bestDist := -1, gomath.Inf(1)
	for dx := int64(-1); dx <= 1; dx++ {
		for dy := int64(-1); dy <= 1; dy++ {
			for _, id := range w.cells[[2]int64{c[0] + dx, c[1] + dy}] {
				d := w.pts[id].Distance(p)
				if d <= w.tol && (d < bestDist || d == bestDist && id < best) {
					best, bestDist = id, d
				}
			}
		}
	}
	if best >= 0 {
		return best
	}
	id := len(w.pts)
	w.pts = append(w.pts, p)
	w.cells[c] = append(w.cells[c], id)
	return id
}
