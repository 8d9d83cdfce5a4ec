package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Faultbox/xburn/internal/config"
	"github.com/Faultbox/xburn/internal/engine/camera"
	"github.com/Faultbox/xburn/internal/scene"
	"github.com/Faultbox/xburn/pkg/gcode"
	"github.com/Faultbox/xburn/pkg/toolpath"
)

var (
	// ErrNoActive is returned when an action needs an active object.
	ErrNoActive = errors.New("no active object")
	// ErrBusy is returned when a burn is already running.
	ErrBusy = errors.New("burn already running")
)

// clickSlop is how far, in pixels, a press may travel and still count
// as a click.
const clickSlop = 3

// burnResult is a finished background generation.
type burnResult struct {
	source string
	merge  scene.ObjectID
	doc    *gcode.Document
	err    error
}

// Workspace is the viewer state that does not touch the window: the
// scene, its controller and the background burn job.
type Workspace struct {
	Scene      *scene.Scene
	Controller *scene.Controller

	cfg     *config.Config
	log     *zap.Logger
	results chan burnResult
	cancel  context.CancelFunc

	pressX, pressY int
	dragged        bool
}

// NewWorkspace builds an empty scene from the configuration.
func NewWorkspace(cfg *config.Config, log *zap.Logger) *Workspace {
	if log == nil {
		log = zap.NewNop()
	}
	s := scene.New(cfg.Machine.Platform(),
		scene.WithLogger(log.Named("scene")),
		scene.WithParseOptions(cfg.Gcode.ParseOptions()),
	)
	cam := s.Camera()
	cam.SetMode(camera.ParseMode(cfg.Viewer.Mode))
	cam.SetOrtho(cfg.Viewer.Ortho)

	return &Workspace{
		Scene:      s,
		Controller: scene.NewController(s, nil),
		cfg:        cfg,
		log:        log,
		results:    make(chan burnResult, 1),
	}
}

// Open loads a mesh or G-code file into the scene.
func (w *Workspace) Open(path string) (scene.ObjectID, error) {
	id, err := w.Scene.LoadFile(path)
	if err != nil {
		w.log.Warn("open failed", zap.String("file", path), zap.Error(err))
		return "", err
	}
	w.log.Info("opened", zap.String("file", path), zap.String("object", string(id)))
	return id, nil
}

// Save writes the active object to path: toolpaths as G-code, meshes as
// binary STL.
func (w *Workspace) Save(path string) error {
	obj, ok := w.Scene.Active()
	if !ok {
		return ErrNoActive
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save %s: %w", filepath.Base(path), err)
	}
	switch obj.Kind {
	case scene.KindToolpath:
		err = w.Scene.SaveDocument(obj.ID, f, w.cfg.Gcode.Precision)
	default:
		err = w.Scene.SaveMesh(obj.ID, f)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("save %s: %w", filepath.Base(path), err)
	}
	w.log.Info("saved", zap.String("file", path), zap.Stringer("kind", obj.Kind))
	return nil
}

// SaveName suggests a file name for the active object.
func (w *Workspace) SaveName() string {
	obj, ok := w.Scene.Active()
	if !ok {
		return ""
	}
	base := obj.Name
	if obj.Source != "" {
		base = filepath.Base(obj.Source)
		base = base[:len(base)-len(filepath.Ext(base))]
	}
	if obj.Kind == scene.KindToolpath {
		return base + ".gcode"
	}
	return base + ".stl"
}

// Busy reports whether a burn is being generated.
func (w *Workspace) Busy() bool {
	return w.cancel != nil
}

// StartBurn generates a burn path for the active mesh in the
// background. With merge set the result is appended to the first
// toolpath in the scene instead of becoming a new object.
func (w *Workspace) StartBurn(ctx context.Context, merge bool) error {
	if w.Busy() {
		return ErrBusy
	}
	obj, ok := w.Scene.Active()
	if !ok {
		return ErrNoActive
	}
	m, err := w.Scene.MeshSnapshot(obj.ID)
	if err != nil {
		return err
	}
	var target scene.ObjectID
	if merge {
		if paths := w.Scene.ObjectsOf(scene.KindToolpath); len(paths) > 0 {
			target = paths[0].ID
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	cfg := w.cfg.Burn
	log := w.log.Named("toolpath")
	w.log.Info("burn started", zap.String("object", string(obj.ID)), zap.Bool("merge", target != ""))

	go func() {
		doc, err := toolpath.Generate(ctx, m, cfg, toolpath.WithLogger(log))
		w.results <- burnResult{source: m.Name, merge: target, doc: doc, err: err}
	}()
	return nil
}

// CancelBurn stops a running generation. The result still arrives
// through Poll, carrying the cancellation error.
func (w *Workspace) CancelBurn() {
	if w.cancel != nil {
		w.cancel()
	}
}

// Poll collects a finished burn without blocking. It returns the object
// that received the toolpath, or false when nothing finished.
func (w *Workspace) Poll() (scene.ObjectID, bool, error) {
	select {
	case r := <-w.results:
		w.CancelBurn()
		w.cancel = nil
		if r.err != nil {
			w.log.Warn("burn failed", zap.String("source", r.source), zap.Error(r.err))
			return "", true, fmt.Errorf("burn %s: %w", r.source, r.err)
		}
		if r.merge != "" {
			if err := w.Scene.MergeInto(r.merge, r.doc); err == nil {
				w.log.Info("burn merged", zap.String("object", string(r.merge)), zap.Int("commands", r.doc.Len()))
				return r.merge, true, nil
			}
		}
		id := w.Scene.AddDocument(scene.BurnName(r.source), r.doc)
		w.log.Info("burn finished", zap.String("object", string(id)), zap.Int("commands", r.doc.Len()))
		return id, true, nil
	default:
		return "", false, nil
	}
}

// Apply runs a scene action. Window actions are ignored here.
func (w *Workspace) Apply(a Action) error {
	if p, ok := a.Preset(); ok {
		w.Controller.ViewPreset(p)
		return nil
	}
	switch a {
	case ActionCancelBurn:
		w.CancelBurn()
	case ActionDelete:
		return w.withActive(w.Scene.Remove)
	case ActionCycle:
		w.Scene.CycleActive()
	case ActionScaleToFit:
		return w.withActive(w.Scene.ScaleToFit)
	case ActionCenter:
		return w.withActive(w.Scene.CenterObject)
	case ActionResetObject:
		return w.withActive(w.Scene.ResetObject)
	case ActionResetView:
		w.Controller.ResetView()
	case ActionToggleMode:
		w.Controller.ToggleMode()
	case ActionToggleOrtho:
		w.Controller.ToggleOrtho()
	case ActionToggleTarget:
		w.Controller.ToggleTarget()
	}
	return nil
}

func (w *Workspace) withActive(fn func(scene.ObjectID) error) error {
	obj, ok := w.Scene.Active()
	if !ok {
		return ErrNoActive
	}
	return fn(obj.ID)
}

// PointerDown remembers where a press started so a release close by
// selects instead of dragging.
func (w *Workspace) PointerDown(x, y int) {
	w.pressX, w.pressY = x, y
	w.dragged = false
}

// PointerMoved marks the current press as a drag once it leaves the
// click radius.
func (w *Workspace) PointerMoved(x, y int) {
	dx, dy := x-w.pressX, y-w.pressY
	if dx*dx+dy*dy > clickSlop*clickSlop {
		w.dragged = true
	}
}

// Click selects the mesh under the pointer on a release that did not
// drag. Viewport size is in the same units as x and y.
func (w *Workspace) Click(x, y, width, height int) (scene.ObjectID, bool) {
	if w.dragged {
		return "", false
	}
	id, ok := w.Scene.Pick(float64(x), float64(y), width, height)
	if ok {
		_ = w.Scene.SetActive(id)
	}
	return id, ok
}

// Close stops background work.
func (w *Workspace) Close() {
	w.CancelBurn()
}
