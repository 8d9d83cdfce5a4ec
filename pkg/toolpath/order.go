package toolpath

import (
	gomath "math"

	"github.com/Faultbox/xburn/pkg/math"
)

// OrderContours sorts contours greedily: from the current position, visit
// the unvisited contour with the nearest vertex next, starting it at that
// vertex. Closed loops end where they start, so that vertex becomes the new
// position. This is a nearest-neighbour heuristic and makes no claim of an
// optimal tour. Ties go to the earlier contour.
func OrderContours(contours []Contour, from math.Vec2) []Contour {
	out := make([]Contour, 0, len(contours))
	visited := make([]bool, len(contours))
	pos := from
	for range contours {
		best, bestVertex, bestDist := -1, 0, gomath.Inf(1)
		for i, c := range contours {
			if visited[i] {
				continue
			}
			v, d := c.Nearest(pos)
			if d < bestDist {
				best, bestVertex, bestDist = i, v, d
			}
		}
		visited[best] = true
		c := contours[best].StartAt(bestVertex)
		out = append(out, c)
		pos = c[0]
	}
	return out
}

// TravelDistance sums the rapid moves needed to burn contours in order,
// starting at from.
func TravelDistance(contours []Contour, from math.Vec2) float64 {
	var d float64
	pos := from
	for _, c := range contours {
		d += pos.Distance(c[0])
		pos = c[0]
	}
	return d
}
