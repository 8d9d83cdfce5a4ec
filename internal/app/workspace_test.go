package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/xburn/internal/config"
	"github.com/Faultbox/xburn/internal/engine/camera"
	"github.com/Faultbox/xburn/internal/scene"
	"github.com/Faultbox/xburn/pkg/gcode"
	"github.com/Faultbox/xburn/pkg/math"
	"github.com/Faultbox/xburn/pkg/mesh"
)

func writeCube(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "cube.stl")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, mesh.NewBox("cube", math.Vec3{X: 20, Y: 20, Z: 20}).WriteBinary(f))
	return path
}

func waitBurn(t *testing.T, w *Workspace) (scene.ObjectID, error) {
	t.Helper()
	var (
		id  scene.ObjectID
		err error
	)
	require.Eventually(t, func() bool {
		var done bool
		id, done, err = w.Poll()
		return done
	}, 5*time.Second, 5*time.Millisecond)
	return id, err
}

func TestNewWorkspaceAppliesViewer(t *testing.T) {
	cfg := config.Default()
	cfg.Viewer.Mode = "2d"
	cfg.Viewer.Ortho = true
	cfg.Machine.PlatformWidth = 300

	w := NewWorkspace(cfg, nil)
	assert.Equal(t, camera.Mode2D, w.Scene.Camera().Mode)
	assert.True(t, w.Scene.Camera().View3D.Ortho)
	assert.Equal(t, 300.0, w.Scene.Platform().Width)
}

func TestOpenAndBurn(t *testing.T) {
	w := NewWorkspace(config.Default(), nil)
	meshID, err := w.Open(writeCube(t, t.TempDir()))
	require.NoError(t, err)

	require.NoError(t, w.StartBurn(context.Background(), false))
	assert.True(t, w.Busy())
	assert.ErrorIs(t, w.StartBurn(context.Background(), false), ErrBusy)

	id, err := waitBurn(t, w)
	require.NoError(t, err)
	assert.False(t, w.Busy())
	assert.Equal(t, 2, w.Scene.Len())

	obj, err := w.Scene.Get(id)
	require.NoError(t, err)
	assert.Equal(t, scene.KindToolpath, obj.Kind)
	assert.Equal(t, "cube (burn)", obj.Name)

	// the source mesh is untouched
	src, err := w.Scene.Get(meshID)
	require.NoError(t, err)
	assert.Equal(t, scene.KindMesh, src.Kind)
}

func TestBurnMerge(t *testing.T) {
	w := NewWorkspace(config.Default(), nil)
	meshID, err := w.Open(writeCube(t, t.TempDir()))
	require.NoError(t, err)

	require.NoError(t, w.StartBurn(context.Background(), true))
	first, err := waitBurn(t, w)
	require.NoError(t, err)
	doc, err := w.Scene.Get(first)
	require.NoError(t, err)
	n := doc.Doc.Len()

	require.NoError(t, w.Scene.SetActive(meshID))
	require.NoError(t, w.StartBurn(context.Background(), true))
	merged, err := waitBurn(t, w)
	require.NoError(t, err)

	assert.Equal(t, first, merged)
	assert.Equal(t, 2, w.Scene.Len())
	doc, err = w.Scene.Get(first)
	require.NoError(t, err)
	assert.Greater(t, doc.Doc.Len(), n)
}

func TestBurnCancelled(t *testing.T) {
	w := NewWorkspace(config.Default(), nil)
	_, err := w.Open(writeCube(t, t.TempDir()))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, w.StartBurn(ctx, false))

	_, err = waitBurn(t, w)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, w.Scene.Len())
}

func TestBurnNeedsMesh(t *testing.T) {
	w := NewWorkspace(config.Default(), nil)
	assert.ErrorIs(t, w.StartBurn(context.Background(), false), ErrNoActive)

	w.Scene.AddDocument("empty", gcode.NewDocument())
	assert.ErrorIs(t, w.StartBurn(context.Background(), false), scene.ErrWrongKind)
	assert.False(t, w.Busy())
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	w := NewWorkspace(config.Default(), nil)
	assert.ErrorIs(t, w.Save(filepath.Join(dir, "none.gcode")), ErrNoActive)

	meshID, err := w.Open(writeCube(t, dir))
	require.NoError(t, err)
	assert.Equal(t, "cube.stl", w.SaveName())

	stlPath := filepath.Join(dir, "out.stl")
	require.NoError(t, w.Save(stlPath))
	info, err := os.Stat(stlPath)
	require.NoError(t, err)
	assert.Equal(t, int64(84+12*50), info.Size())

	require.NoError(t, w.StartBurn(context.Background(), false))
	_, err = waitBurn(t, w)
	require.NoError(t, err)
	assert.Equal(t, "cube (burn).gcode", w.SaveName())

	gcPath := filepath.Join(dir, "out.gcode")
	require.NoError(t, w.Save(gcPath))
	data, err := os.ReadFile(gcPath)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "M3 S255"))

	require.NoError(t, w.Scene.SetActive(meshID))
	assert.Error(t, w.Save(filepath.Join(dir, "missing", "x.stl")))
}

func TestApply(t *testing.T) {
	w := NewWorkspace(config.Default(), nil)
	assert.ErrorIs(t, w.Apply(ActionScaleToFit), ErrNoActive)

	id := w.Scene.AddMesh(mesh.NewBox("cube", math.Vec3{X: 20, Y: 20, Z: 20}))
	require.NoError(t, w.Apply(ActionScaleToFit))
	obj, err := w.Scene.Get(id)
	require.NoError(t, err)
	assert.InDelta(t, 100, obj.Mesh.BoundingBox().Depth(), 1e-9)

	require.NoError(t, w.Apply(ActionResetObject))
	assert.InDelta(t, 20, obj.Mesh.BoundingBox().Depth(), 1e-9)

	require.NoError(t, w.Apply(ActionPresetTop))
	assert.Equal(t, -90.0, w.Scene.Camera().View3D.Elevation)

	require.NoError(t, w.Apply(ActionToggleMode))
	assert.Equal(t, camera.Mode2D, w.Scene.Camera().Mode)

	require.NoError(t, w.Apply(ActionToggleTarget))
	assert.Equal(t, scene.TargetObject, w.Controller.Target)

	require.NoError(t, w.Apply(ActionDelete))
	assert.Equal(t, 0, w.Scene.Len())

	require.NoError(t, w.Apply(ActionFullscreen), "window actions pass through")
}

func TestClickIgnoresDrag(t *testing.T) {
	w := NewWorkspace(config.Default(), nil)
	w.Scene.AddMesh(mesh.NewBox("cube", math.Vec3{X: 20, Y: 20, Z: 20}))

	w.PointerDown(100, 100)
	w.PointerMoved(110, 100)
	_, ok := w.Click(110, 100, 640, 480)
	assert.False(t, ok)

	empty := NewWorkspace(config.Default(), nil)
	empty.PointerDown(320, 240)
	empty.PointerMoved(321, 241)
	_, ok = empty.Click(321, 241, 640, 480)
	assert.False(t, ok, "nothing to pick")
}
