package scene

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/Faultbox/xburn/pkg/gcode"
	"github.com/Faultbox/xburn/pkg/math"
	"github.com/Faultbox/xburn/pkg/mesh"
	"github.com/Faultbox/xburn/pkg/toolpath"
)

// RotateObject turns a mesh about a world axis through its origin.
func (s *Scene) RotateObject(id ObjectID, axis math.Vec3, deg float64) error {
	m, err := s.meshOf(id)
	if err != nil {
		return err
	}
	m.Rotate(axis, deg)
	return nil
}

// SetObjectRotation replaces a mesh's rotation with Euler angles in degrees.
func (s *Scene) SetObjectRotation(id ObjectID, xDeg, yDeg, zDeg float64) error {
	m, err := s.meshOf(id)
	if err != nil {
		return err
	}
	m.SetRotation(xDeg, yDeg, zDeg)
	return nil
}

// ScaleObject multiplies a mesh's scale. A rejected factor keeps the
// current transform.
func (s *Scene) ScaleObject(id ObjectID, factor float64) error {
	m, err := s.meshOf(id)
	if err != nil {
		return err
	}
	return m.Scale(factor)
}

// SetObjectDimension scales a mesh uniformly so its extent along axis
// (0=X, 1=Y, 2=Z) is value mm.
func (s *Scene) SetObjectDimension(id ObjectID, axis int, value float64) error {
	m, err := s.meshOf(id)
	if err != nil {
		return err
	}
	return m.SetDimension(axis, value)
}

// TranslateObject moves a mesh.
func (s *Scene) TranslateObject(id ObjectID, delta math.Vec3) error {
	m, err := s.meshOf(id)
	if err != nil {
		return err
	}
	m.Translate(delta)
	return nil
}

// ScaleToFit scales a mesh so it fits the platform.
func (s *Scene) ScaleToFit(id ObjectID) error {
	m, err := s.meshOf(id)
	if err != nil {
		return err
	}
	return m.ScaleToFit(s.platform)
}

// CenterObject centres a mesh on the platform, resting on z = 0.
func (s *Scene) CenterObject(id ObjectID) error {
	m, err := s.meshOf(id)
	if err != nil {
		return err
	}
	m.CenterOn(s.platform)
	return nil
}

// ResetObject clears a mesh's transform.
func (s *Scene) ResetObject(id ObjectID) error {
	m, err := s.meshOf(id)
	if err != nil {
		return err
	}
	m.ResetTransform()
	return nil
}

// MeshSnapshot returns a private copy of a mesh for work outside the UI
// thread.
func (s *Scene) MeshSnapshot(id ObjectID) (*mesh.Mesh, error) {
	m, err := s.meshOf(id)
	if err != nil {
		return nil, err
	}
	return m.Clone(), nil
}

// BurnName is the object name given to a path generated from source.
func BurnName(source string) string {
	return source + " (burn)"
}

// GenerateBurnPath builds a burn program for a mesh and adds it as a new
// toolpath object. The scene changes only when generation succeeds.
func (s *Scene) GenerateBurnPath(ctx context.Context, id ObjectID, cfg toolpath.Config) (ObjectID, error) {
	m, err := s.MeshSnapshot(id)
	if err != nil {
		return "", err
	}
	doc, err := toolpath.Generate(ctx, m, cfg, toolpath.WithLogger(s.log.Named("toolpath")))
	if err != nil {
		s.log.Warn("burn path failed", zap.String("object", string(id)), zap.Error(err))
		return "", fmt.Errorf("burn %s: %w", m.Name, err)
	}
	return s.AddDocument(BurnName(m.Name), doc), nil
}

// MergeInto appends doc to an existing toolpath object.
func (s *Scene) MergeInto(target ObjectID, doc *gcode.Document) error {
	obj, err := s.Get(target)
	if err != nil {
		return err
	}
	if obj.Kind != KindToolpath {
		return fmt.Errorf("merge into %s: %w", target, ErrWrongKind)
	}
	obj.Doc = gcode.Merge(obj.Doc, doc)
	return nil
}

// SaveDocument writes a toolpath object as G-code.
func (s *Scene) SaveDocument(id ObjectID, w io.Writer, precision int) error {
	doc, err := s.docOf(id)
	if err != nil {
		return err
	}
	return doc.Write(w, precision)
}

// SaveMesh writes a mesh object as binary STL in world coordinates.
func (s *Scene) SaveMesh(id ObjectID, w io.Writer) error {
	m, err := s.meshOf(id)
	if err != nil {
		return err
	}
	return m.WriteBinary(w)
}

// Pick returns the nearest mesh under a viewport pixel.
func (s *Scene) Pick(x, y float64, width, height int) (ObjectID, bool) {
	r, err := s.camera.Ray(x, y, width, height)
	if err != nil {
		return "", false
	}
	var (
		best  ObjectID
		bestT float64
		found bool
	)
	for _, obj := range s.ObjectsOf(KindMesh) {
		if t, ok := obj.Mesh.Pick(r); ok && (!found || t < bestT) {
			best, bestT, found = obj.ID, t, true
		}
	}
	return best, found
}
