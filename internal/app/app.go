// Package app runs the interactive viewer: window, input and the render
// loop around a Workspace.
package app

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/xburn/internal/config"
	"github.com/Faultbox/xburn/internal/engine/capture"
	"github.com/Faultbox/xburn/internal/engine/input"
	"github.com/Faultbox/xburn/internal/engine/renderer"
	"github.com/Faultbox/xburn/internal/engine/window"
	"github.com/Faultbox/xburn/internal/logger"
	"github.com/Faultbox/xburn/internal/scene"
)

// App is the viewer instance.
type App struct {
	cfg      *config.Config
	running  bool
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	capture  *capture.Capture
	ws       *Workspace
	log      *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	pendingOpen chan string
	pendingSave chan string
	screenshot  bool
}

// New creates the window, GL renderer and an empty scene.
func New(cfg *config.Config) (*App, error) {
	log := logger.Named("app")
	log.Info("initializing viewer",
		zap.Int("width", cfg.Viewer.Width),
		zap.Int("height", cfg.Viewer.Height),
		zap.String("mode", cfg.Viewer.Mode),
	)

	a := &App{
		cfg:         cfg,
		log:         log,
		input:       input.New(),
		capture:     capture.New(filepath.Join(config.ConfigDir(), "screenshots"), "xburn"),
		ws:          NewWorkspace(cfg, logger.Log),
		pendingOpen: make(chan string, 4),
		pendingSave: make(chan string, 1),
	}
	a.ctx, a.cancel = context.WithCancel(context.Background())

	var err error
	a.window, err = window.New(cfg.Viewer)
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// the GL context must exist before the renderer
	dw, dh := a.window.DrawableSize()
	a.renderer, err = renderer.New(renderer.Config{
		Width:    dw,
		Height:   dh,
		ShowGrid: cfg.Viewer.ShowGrid,
	})
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	log.Info("viewer initialized")
	return a, nil
}

// Workspace exposes the scene state.
func (a *App) Workspace() *Workspace { return a.ws }

// Open loads a file and titles the window after it.
func (a *App) Open(path string) error {
	if _, err := a.ws.Open(path); err != nil {
		return err
	}
	a.window.SetTitle(path)
	return nil
}

// Run starts the main loop and returns when the window closes.
func (a *App) Run() error {
	a.running = true

	var frameTime time.Duration
	if a.cfg.Viewer.FPSLimit > 0 {
		frameTime = time.Second / time.Duration(a.cfg.Viewer.FPSLimit)
	}
	frameCount := 0
	fpsTimer := time.Now()

	a.log.Info("starting main loop")

	for a.running {
		start := time.Now()

		if a.input.Update() {
			a.running = false
			break
		}
		for _, ev := range a.input.Events() {
			a.handle(ev)
		}

		a.drainPending()
		if _, done, err := a.ws.Poll(); done && err != nil {
			a.log.Warn("burn path not added", zap.Error(err))
		}

		if err := a.renderer.Draw(a.ws.Scene.Snapshot()); err != nil {
			return fmt.Errorf("render error: %w", err)
		}
		if a.screenshot {
			a.screenshot = false
			a.saveScreenshot()
		}
		a.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			if a.cfg.Viewer.ShowFPS {
				a.log.Info("fps", zap.Int("count", frameCount))
			}
			frameCount = 0
			fpsTimer = time.Now()
		}
		if frameTime > 0 {
			if left := frameTime - time.Since(start); left > 0 {
				time.Sleep(left)
			}
		}
	}
	return nil
}

func (a *App) handle(ev input.Event) {
	switch ev.Type {
	case input.EventWindowResize:
		dw, dh := a.window.DrawableSize()
		a.renderer.Resize(dw, dh)
		return
	case input.EventDrop:
		if err := a.Open(ev.Path); err != nil {
			a.log.Warn("drop ignored", logger.File(ev.Path), zap.Error(err))
		}
		return
	case input.EventPointerDown:
		a.ws.PointerDown(ev.X, ev.Y)
	case input.EventPointerMove:
		a.ws.PointerMoved(ev.X, ev.Y)
	case input.EventPointerUp:
		if ev.Button == scene.ButtonLeft {
			w, h := a.window.Size()
			if id, ok := a.ws.Click(ev.X, ev.Y, w, h); ok {
				a.log.Debug("picked", logger.Object(string(id)))
			}
		}
	case input.EventKeyDown:
		a.act(KeyAction(ev))
		return
	}

	if _, err := input.Dispatch(a.ws.Controller, ev); err != nil {
		a.log.Debug("drag rejected", zap.Error(err))
	}
}

// act runs window-level actions itself and hands the rest to the
// workspace.
func (a *App) act(action Action) {
	if action == ActionNone {
		return
	}
	a.log.Debug("action", zap.Stringer("action", action))

	var err error
	switch action {
	case ActionQuit:
		a.running = false
	case ActionOpen:
		a.openDialog()
	case ActionSave:
		a.saveDialog()
	case ActionGenerate, ActionGenerateMerge:
		err = a.ws.StartBurn(a.ctx, action == ActionGenerateMerge)
	case ActionToggleGrid:
		a.renderer.SetShowGrid(!a.renderer.ShowGrid())
	case ActionFullscreen:
		a.window.ToggleFullscreen()
	case ActionScreenshot:
		a.screenshot = true
	default:
		err = a.ws.Apply(action)
	}
	if err != nil {
		a.log.Warn("action failed", zap.Stringer("action", action), zap.Error(err))
	}
}

func (a *App) drainPending() {
	for {
		select {
		case path := <-a.pendingOpen:
			if err := a.Open(path); err != nil {
				a.log.Warn("open failed", logger.File(path), zap.Error(err))
			}
		case path := <-a.pendingSave:
			if err := a.ws.Save(path); err != nil {
				a.log.Warn("save failed", logger.File(path), zap.Error(err))
			}
		default:
			return
		}
	}
}

func (a *App) saveScreenshot() {
	pixels, w, h := a.renderer.ReadPixels()
	name, err := a.capture.SavePixels(pixels, w, h)
	if err != nil {
		a.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	a.log.Info("screenshot saved", logger.File(name))
}

// Close stops background work and releases the window.
func (a *App) Close() {
	a.log.Info("closing viewer")
	a.cancel()
	a.ws.Close()
	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}
