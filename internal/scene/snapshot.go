package scene

import (
	"slices"

	"github.com/Faultbox/xburn/internal/engine/camera"
	"github.com/Faultbox/xburn/pkg/gcode"
	"github.com/Faultbox/xburn/pkg/math"
	"github.com/Faultbox/xburn/pkg/mesh"
)

// MeshView is a mesh flattened to world space.
type MeshView struct {
	ID        ObjectID
	Name      string
	Triangles []mesh.Triangle
	Normals   []math.Vec3
	Bounds    math.Box
	Active    bool
	OnBed     bool // footprint inside the platform
}

// PathView is a toolpath flattened to segments.
type PathView struct {
	ID       ObjectID
	Name     string
	Segments []gcode.Segment
	Layers   []int
	Bounds   math.Box
	Active   bool
}

// Snapshot is everything a renderer needs for one frame. It shares no
// memory with the scene.
type Snapshot struct {
	Platform mesh.Platform
	Camera   camera.Camera
	Meshes   []MeshView
	Paths    []PathView
}

// Renderer draws snapshots.
type Renderer interface {
	Draw(Snapshot) error
}

// Snapshot copies the scene for rendering.
func (s *Scene) Snapshot() Snapshot {
	snap := Snapshot{
		Platform: s.platform,
		Camera:   *s.camera,
	}
	for _, obj := range s.Objects() {
		active := obj.ID == s.active
		switch obj.Kind {
		case KindMesh:
			b := obj.Mesh.BoundingBox()
			snap.Meshes = append(snap.Meshes, MeshView{
				ID:        obj.ID,
				Name:      obj.Mesh.Name,
				Triangles: slices.Collect(obj.Mesh.Triangles()),
				Normals:   slices.Collect(obj.Mesh.FaceNormals()),
				Bounds:    b,
				Active:    active,
				OnBed:     s.platform.Contains(b),
			})
		case KindToolpath:
			segs := obj.Doc.Segments()
			snap.Paths = append(snap.Paths, PathView{
				ID:       obj.ID,
				Name:     obj.Name,
				Segments: segs,
				Layers:   gcode.Layers(segs),
				Bounds:   obj.Doc.Bounds(),
				Active:   active,
			})
		}
	}
	return snap
}
