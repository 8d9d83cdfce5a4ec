// Package overlay builds line geometry drawn on top of the scene: the
// platform grid, selection boxes and the axis gizmo.
package overlay

import (
	gomath "math"

	"github.com/Faultbox/xburn/pkg/math"
	"github.com/Faultbox/xburn/pkg/mesh"
)

// Vertex is a coloured point, laid out for a GL_LINES or GL_TRIANGLES
// buffer as [x, y, z, r, g, b].
type Vertex struct {
	X, Y, Z float32
	R, G, B float32
}

// VertexSize is the byte size of one Vertex.
const VertexSize = 6 * 4

// Color is an RGB triple in [0, 1].
type Color [3]float32

// Overlay colours.
var (
	GridColor   = Color{0.35, 0.35, 0.4}
	GridMajor   = Color{0.55, 0.55, 0.6}
	SelectColor = Color{1.0, 0.8, 0.2}
	OffBedColor = Color{1.0, 0.3, 0.3}
	AxisXColor  = Color{0.9, 0.2, 0.2}
	AxisYColor  = Color{0.2, 0.9, 0.2}
	AxisZColor  = Color{0.2, 0.4, 1.0}
)

// SelectPadding is how far a selection box sits outside its object.
const SelectPadding = 1.0

// V makes a vertex from a world point.
func V(p math.Vec3, c Color) Vertex {
	f := p.Float32()
	return Vertex{f[0], f[1], f[2], c[0], c[1], c[2]}
}

// Line appends one segment.
func Line(dst []Vertex, a, b math.Vec3, c Color) []Vertex {
	return append(dst, V(a, c), V(b, c))
}

// PlatformGrid draws the bed at z = 0 with a line every step mm and a
// brighter line every major steps. The outline is always drawn.
func PlatformGrid(p mesh.Platform, step float64, major int) []Vertex {
	if step <= 0 {
		step = 10
	}
	if major <= 0 {
		major = 5
	}
	var out []Vertex
	nx := int(gomath.Floor(p.Width / step))
	for i := 0; i <= nx; i++ {
		x := float64(i) * step
		c := GridColor
		if i%major == 0 {
			c = GridMajor
		}
		out = Line(out, math.Vec3{X: x}, math.Vec3{X: x, Y: p.Depth}, c)
	}
	ny := int(gomath.Floor(p.Depth / step))
	for j := 0; j <= ny; j++ {
		y := float64(j) * step
		c := GridColor
		if j%major == 0 {
			c = GridMajor
		}
		out = Line(out, math.Vec3{Y: y}, math.Vec3{X: p.Width, Y: y}, c)
	}
	// far edges when the size is not a multiple of step
	if float64(nx)*step < p.Width {
		out = Line(out, math.Vec3{X: p.Width}, math.Vec3{X: p.Width, Y: p.Depth}, GridMajor)
	}
	if float64(ny)*step < p.Depth {
		out = Line(out, math.Vec3{Y: p.Depth}, math.Vec3{X: p.Width, Y: p.Depth}, GridMajor)
	}
	return out
}

// boxEdges indexes Box.Corners: bottom ring, top ring, verticals.
var boxEdges = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0},
	{4, 5}, {5, 6}, {6, 7}, {7, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// BoxWireframe draws the 12 edges of b grown by padding on every side.
// An empty box draws nothing.
func BoxWireframe(b math.Box, padding float64, c Color) []Vertex {
	if b.IsEmpty() {
		return nil
	}
	pad := math.Vec3{X: padding, Y: padding, Z: padding}
	grown := math.Box{Min: b.Min.Sub(pad), Max: b.Max.Add(pad)}
	corners := grown.Corners()
	out := make([]Vertex, 0, 24)
	for _, e := range boxEdges {
		out = Line(out, corners[e[0]], corners[e[1]], c)
	}
	return out
}

// Axes draws the X, Y and Z axes from origin.
func Axes(origin math.Vec3, length float64) []Vertex {
	var out []Vertex
	out = Line(out, origin, origin.Add(math.UnitX.Scale(length)), AxisXColor)
	out = Line(out, origin, origin.Add(math.UnitY.Scale(length)), AxisYColor)
	out = Line(out, origin, origin.Add(math.UnitZ.Scale(length)), AxisZColor)
	return out
}
