package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/xburn/internal/engine/overlay"
	"github.com/Faultbox/xburn/internal/scene"
	"github.com/Faultbox/xburn/pkg/gcode"
	"github.com/Faultbox/xburn/pkg/math"
	"github.com/Faultbox/xburn/pkg/mesh"
)

func flatTriangle() mesh.Triangle {
	return mesh.Triangle{V: [3]math.Vec3{{X: 0}, {X: 1}, {Y: 1}}}
}

func TestMeshVerticesShading(t *testing.T) {
	view := scene.MeshView{
		Triangles: []mesh.Triangle{flatTriangle()},
		Normals:   []math.Vec3{LightDir},
	}
	verts := MeshVertices(view)
	require.Len(t, verts, 3)
	assert.InDelta(t, MeshColor[0], verts[0].R, 1e-6)

	// facing away keeps only ambient
	view.Normals[0] = LightDir.Scale(-1)
	verts = MeshVertices(view)
	assert.InDelta(t, MeshColor[0]*ambient, verts[0].R, 1e-6)
}

func TestMeshVerticesActive(t *testing.T) {
	view := scene.MeshView{
		Triangles: []mesh.Triangle{flatTriangle()},
		Normals:   []math.Vec3{LightDir},
		Active:    true,
	}
	verts := MeshVertices(view)
	assert.InDelta(t, ActiveColor[2], verts[2].B, 1e-6)
}

func TestPathVerticesColors(t *testing.T) {
	view := scene.PathView{Segments: []gcode.Segment{
		{To: math.Vec3{X: 1}, Kind: gcode.RapidMove},
		{From: math.Vec3{X: 1}, To: math.Vec3{X: 2}, Kind: gcode.LinearMove, Burning: true},
		{From: math.Vec3{X: 2}, To: math.Vec3{X: 3}, Kind: gcode.LinearMove},
	}}
	verts := PathVertices(view)
	require.Len(t, verts, 6)
	assert.Equal(t, TravelColor[0], verts[0].R)
	assert.Equal(t, BurnColor[0], verts[2].R)
	assert.Equal(t, FeedColor[2], verts[4].B)
	assert.Equal(t, float32(3), verts[5].X)
}

func TestBuildFrame(t *testing.T) {
	s := scene.New(mesh.DefaultPlatform())
	s.AddMesh(mesh.NewBox("cube", math.Vec3{X: 10, Y: 10, Z: 10}))

	snap := s.Snapshot()
	withGrid := BuildFrame(snap, true)
	noGrid := BuildFrame(snap, false)

	assert.Len(t, withGrid.Triangles, 12*3)
	assert.Len(t, noGrid.Lines, 24, "only the selection box")
	grid := len(overlay.PlatformGrid(snap.Platform, 10, 5)) + 6
	assert.Len(t, withGrid.Lines, grid+24)
}

func TestBuildFrameOffBed(t *testing.T) {
	s := scene.New(mesh.DefaultPlatform())
	id := s.AddMesh(mesh.NewBox("cube", math.Vec3{X: 10, Y: 10, Z: 10}))
	require.NoError(t, s.TranslateObject(id, math.Vec3{X: 500}))

	frame := BuildFrame(s.Snapshot(), false)
	require.Len(t, frame.Lines, 24)
	assert.Equal(t, overlay.OffBedColor[1], frame.Lines[0].G)
}
