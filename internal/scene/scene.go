// Package scene holds the loaded meshes and toolpaths, the platform and the
// camera, and applies user operations to them. It never draws: renderers
// receive a Snapshot.
package scene

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/Faultbox/xburn/internal/engine/camera"
	"github.com/Faultbox/xburn/pkg/gcode"
	"github.com/Faultbox/xburn/pkg/mesh"
)

// Scene errors.
var (
	ErrUnknownObject   = errors.New("unknown object")
	ErrWrongKind       = errors.New("wrong object kind")
	ErrUnsupportedFile = errors.New("unsupported file type")
)

// ObjectID identifies an object for the lifetime of a scene.
type ObjectID string

// Kind tells meshes from toolpaths.
type Kind int

const (
	KindMesh Kind = iota
	KindToolpath
)

func (k Kind) String() string {
	if k == KindToolpath {
		return "toolpath"
	}
	return "mesh"
}

// Object is one loaded or generated item. Exactly one of Mesh and Doc is
// set, matching Kind.
type Object struct {
	ID     ObjectID
	Name   string
	Kind   Kind
	Source string // file the object came from, empty if generated

	Mesh *mesh.Mesh
	Doc  *gcode.Document
}

// Scene owns every object. It is not safe for concurrent use; background
// work should operate on copies obtained from MeshSnapshot.
type Scene struct {
	platform mesh.Platform
	camera   *camera.Camera

	objects map[ObjectID]*Object
	order   []ObjectID
	active  ObjectID

	parseOpts gcode.ParseOptions
	log       *zap.Logger
}

// Option configures a Scene.
type Option func(*Scene)

// WithLogger sets the scene logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Scene) {
		if l != nil {
			s.log = l
		}
	}
}

// WithParseOptions sets how G-code files are read.
func WithParseOptions(o gcode.ParseOptions) Option {
	return func(s *Scene) { s.parseOpts = o }
}

// New creates an empty scene on the given platform, with the camera
// centred on it.
func New(p mesh.Platform, opts ...Option) *Scene {
	s := &Scene{
		platform:  p,
		camera:    camera.New(),
		objects:   make(map[ObjectID]*Object),
		parseOpts: gcode.DefaultParseOptions(),
		log:       zap.NewNop(),
	}
	for _, o := range opts {
		o(s)
	}
	s.camera.Target = p.Center()
	return s
}

// Platform returns the bed size.
func (s *Scene) Platform() mesh.Platform { return s.platform }

// SetPlatform changes the bed size and recentres the camera on it.
func (s *Scene) SetPlatform(p mesh.Platform) {
	s.platform = p
	s.camera.Target = p.Center()
}

// Camera returns the scene camera.
func (s *Scene) Camera() *camera.Camera { return s.camera }

// Len returns the number of objects.
func (s *Scene) Len() int { return len(s.order) }

func (s *Scene) add(obj *Object) ObjectID {
	obj.ID = ObjectID(uuid.NewString())
	s.objects[obj.ID] = obj
	s.order = append(s.order, obj.ID)
	s.active = obj.ID
	s.log.Info("object added",
		zap.String("object", string(obj.ID)),
		zap.String("name", obj.Name),
		zap.Stringer("kind", obj.Kind))
	return obj.ID
}

// AddMesh registers a mesh and makes it active.
func (s *Scene) AddMesh(m *mesh.Mesh) ObjectID {
	return s.add(&Object{Name: m.Name, Kind: KindMesh, Mesh: m})
}

// AddDocument registers a toolpath and makes it active.
func (s *Scene) AddDocument(name string, doc *gcode.Document) ObjectID {
	return s.add(&Object{Name: name, Kind: KindToolpath, Doc: doc})
}

// kindOf classifies a file by extension.
func kindOf(name string) (Kind, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".stl":
		return KindMesh, nil
	case ".gcode", ".gco", ".nc", ".ngc", ".g":
		return KindToolpath, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedFile, filepath.Ext(name))
}

// Load decodes file contents by the extension of name and adds the result.
// On error the scene is unchanged.
func (s *Scene) Load(name string, data []byte) (ObjectID, error) {
	kind, err := kindOf(name)
	if err != nil {
		return "", err
	}
	base := filepath.Base(name)
	switch kind {
	case KindMesh:
		m, err := mesh.Load(data)
		if err != nil {
			return "", fmt.Errorf("load %s: %w", base, err)
		}
		if m.Name == "" {
			m.Name = strings.TrimSuffix(base, filepath.Ext(base))
		}
		return s.AddMesh(m), nil
	default:
		doc, err := gcode.ParseWith(string(data), s.parseOpts)
		if err != nil {
			return "", fmt.Errorf("load %s: %w", base, err)
		}
		return s.AddDocument(base, doc), nil
	}
}

// LoadFile reads and adds a file. On error the scene is unchanged.
func (s *Scene) LoadFile(path string) (ObjectID, error) {
	if _, err := kindOf(path); err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	id, err := s.Load(path, data)
	if err != nil {
		return "", err
	}
	s.objects[id].Source = path
	return id, nil
}

// Remove deletes an object. If it was active, the most recently added
// remaining object becomes active.
func (s *Scene) Remove(id ObjectID) error {
	if _, ok := s.objects[id]; !ok {
		return fmt.Errorf("remove %s: %w", id, ErrUnknownObject)
	}
	delete(s.objects, id)
	s.order = lo.Without(s.order, id)
	if s.active == id {
		s.active = ""
		if n := len(s.order); n > 0 {
			s.active = s.order[n-1]
		}
	}
	s.log.Info("object removed", zap.String("object", string(id)))
	return nil
}

// Get looks up an object.
func (s *Scene) Get(id ObjectID) (*Object, error) {
	obj, ok := s.objects[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, ErrUnknownObject)
	}
	return obj, nil
}

// Objects returns every object in insertion order.
func (s *Scene) Objects() []*Object {
	return lo.Map(s.order, func(id ObjectID, _ int) *Object {
		return s.objects[id]
	})
}

// ObjectsOf returns the objects of one kind in insertion order.
func (s *Scene) ObjectsOf(kind Kind) []*Object {
	return lo.Filter(s.Objects(), func(o *Object, _ int) bool {
		return o.Kind == kind
	})
}

// Active returns the selected object, if any.
func (s *Scene) Active() (*Object, bool) {
	obj, ok := s.objects[s.active]
	return obj, ok
}

// SetActive selects an object.
func (s *Scene) SetActive(id ObjectID) error {
	if _, ok := s.objects[id]; !ok {
		return fmt.Errorf("select %s: %w", id, ErrUnknownObject)
	}
	s.active = id
	return nil
}

// CycleActive selects the next object in insertion order, wrapping.
func (s *Scene) CycleActive() {
	if len(s.order) == 0 {
		return
	}
	i := lo.IndexOf(s.order, s.active)
	s.active = s.order[(i+1)%len(s.order)]
}

func (s *Scene) meshOf(id ObjectID) (*mesh.Mesh, error) {
	obj, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if obj.Kind != KindMesh {
		return nil, fmt.Errorf("%s is a %s: %w", id, obj.Kind, ErrWrongKind)
	}
	return obj.Mesh, nil
}

func (s *Scene) docOf(id ObjectID) (*gcode.Document, error) {
	obj, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if obj.Kind != KindToolpath {
		return nil, fmt.Errorf("%s is a %s: %w", id, obj.Kind, ErrWrongKind)
	}
	return obj.Doc, nil
}
