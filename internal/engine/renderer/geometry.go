package renderer

import (
	gomath "math"

	"github.com/Faultbox/xburn/internal/engine/overlay"
	"github.com/Faultbox/xburn/internal/scene"
	"github.com/Faultbox/xburn/pkg/gcode"
	"github.com/Faultbox/xburn/pkg/math"
)

// Shading and path colours.
var (
	MeshColor   = overlay.Color{0.62, 0.66, 0.72}
	ActiveColor = overlay.Color{0.45, 0.65, 0.95}
	BurnColor   = overlay.Color{0.95, 0.2, 0.15}
	TravelColor = overlay.Color{0.55, 0.55, 0.55}
	FeedColor   = overlay.Color{0.2, 0.7, 0.9}
)

// LightDir is the world-space direction towards the key light.
var LightDir = math.Vec3{X: 0.3, Y: -0.5, Z: 0.8}.Normalize()

const ambient = 0.35

// shade scales c by a Lambert term for normal n.
func shade(c overlay.Color, n math.Vec3) overlay.Color {
	k := float32(ambient + (1-ambient)*gomath.Max(0, n.Dot(LightDir)))
	return overlay.Color{c[0] * k, c[1] * k, c[2] * k}
}

// MeshVertices flattens a mesh into flat-shaded triangles.
func MeshVertices(v scene.MeshView) []overlay.Vertex {
	base := MeshColor
	if v.Active {
		base = ActiveColor
	}
	out := make([]overlay.Vertex, 0, len(v.Triangles)*3)
	for i, t := range v.Triangles {
		n := t.Normal()
		if i < len(v.Normals) {
			n = v.Normals[i]
		}
		c := shade(base, n)
		for _, p := range t.V {
			out = append(out, overlay.V(p, c))
		}
	}
	return out
}

// PathVertices draws every segment of a toolpath as a line. Burning
// moves are red, unlit feeds blue and rapids grey.
func PathVertices(v scene.PathView) []overlay.Vertex {
	out := make([]overlay.Vertex, 0, len(v.Segments)*2)
	for _, s := range v.Segments {
		c := TravelColor
		switch {
		case s.Burning:
			c = BurnColor
		case s.Kind == gcode.LinearMove:
			c = FeedColor
		}
		out = overlay.Line(out, s.From, s.To, c)
	}
	return out
}

// Frame is the CPU-side geometry of one snapshot.
type Frame struct {
	Triangles []overlay.Vertex
	Lines     []overlay.Vertex
}

// BuildFrame converts a snapshot into vertex lists.
func BuildFrame(snap scene.Snapshot, showGrid bool) Frame {
	var f Frame
	if showGrid {
		f.Lines = append(f.Lines, overlay.PlatformGrid(snap.Platform, 10, 5)...)
		f.Lines = append(f.Lines, overlay.Axes(math.Vec3{}, 15)...)
	}
	for _, m := range snap.Meshes {
		f.Triangles = append(f.Triangles, MeshVertices(m)...)
		switch {
		case !m.OnBed:
			f.Lines = append(f.Lines, overlay.BoxWireframe(m.Bounds, overlay.SelectPadding, overlay.OffBedColor)...)
		case m.Active:
			f.Lines = append(f.Lines, overlay.BoxWireframe(m.Bounds, overlay.SelectPadding, overlay.SelectColor)...)
		}
	}
	for _, p := range snap.Paths {
		f.Lines = append(f.Lines, PathVertices(p)...)
		if p.Active {
			f.Lines = append(f.Lines, overlay.BoxWireframe(p.Bounds, overlay.SelectPadding, overlay.SelectColor)...)
		}
	}
	return f
}
