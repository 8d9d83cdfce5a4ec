package app

import (
	"errors"

	"github.com/sqweek/dialog"
	"go.uber.org/zap"
)

// openDialog asks for a file off the main thread and queues the choice;
// SDL and GL calls stay on the main thread.
func (a *App) openDialog() {
	go func() {
		path, err := dialog.File().
			Filter("Models and toolpaths", "stl", "gcode", "gco", "nc", "ngc", "g").
			Filter("STL models", "stl").
			Filter("G-code", "gcode", "gco", "nc", "ngc", "g").
			Title("Open").
			Load()
		if err != nil {
			if !errors.Is(err, dialog.ErrCancelled) {
				a.log.Warn("open dialog failed", zap.Error(err))
			}
			return
		}
		a.pendingOpen <- path
	}()
}

// saveDialog asks where to save the active object.
func (a *App) saveDialog() {
	name := a.ws.SaveName()
	if name == "" {
		a.log.Info("nothing to save")
		return
	}
	go func() {
		path, err := dialog.File().
			Filter("G-code", "gcode", "nc").
			Filter("STL models", "stl").
			Title("Save").
			SetStartFile(name).
			Save()
		if err != nil {
			if !errors.Is(err, dialog.ErrCancelled) {
				a.log.Warn("save dialog failed", zap.Error(err))
			}
			return
		}
		a.pendingSave <- path
	}()
}
