package app

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/xburn/internal/engine/camera"
	"github.com/Faultbox/xburn/internal/engine/input"
)

// Action is a viewer command bound to a key.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionOpen
	ActionSave
	ActionGenerate
	ActionGenerateMerge
	ActionCancelBurn
	ActionDelete
	ActionCycle
	ActionScaleToFit
	ActionCenter
	ActionResetObject
	ActionResetView
	ActionToggleMode
	ActionToggleOrtho
	ActionToggleTarget
	ActionToggleGrid
	ActionFullscreen
	ActionScreenshot
	ActionPresetFront
	ActionPresetBack
	ActionPresetLeft
	ActionPresetRight
	ActionPresetTop
	ActionPresetBottom
)

var actionNames = map[Action]string{
	ActionNone:          "none",
	ActionQuit:          "quit",
	ActionOpen:          "open",
	ActionSave:          "save",
	ActionGenerate:      "generate",
	ActionGenerateMerge: "generate-merge",
	ActionCancelBurn:    "cancel-burn",
	ActionDelete:        "delete",
	ActionCycle:         "cycle",
	ActionScaleToFit:    "scale-to-fit",
	ActionCenter:        "center",
	ActionResetObject:   "reset-object",
	ActionResetView:     "reset-view",
	ActionToggleMode:    "toggle-mode",
	ActionToggleOrtho:   "toggle-ortho",
	ActionToggleTarget:  "toggle-target",
	ActionToggleGrid:    "toggle-grid",
	ActionFullscreen:    "fullscreen",
	ActionScreenshot:    "screenshot",
	ActionPresetFront:   "front",
	ActionPresetBack:    "back",
	ActionPresetLeft:    "left",
	ActionPresetRight:   "right",
	ActionPresetTop:     "top",
	ActionPresetBottom:  "bottom",
}

func (a Action) String() string {
	if s, ok := actionNames[a]; ok {
		return s
	}
	return "unknown"
}

// Preset returns the camera preset for a preset action.
func (a Action) Preset() (camera.Preset, bool) {
	switch a {
	case ActionPresetFront:
		return camera.Front, true
	case ActionPresetBack:
		return camera.Back, true
	case ActionPresetLeft:
		return camera.Left, true
	case ActionPresetRight:
		return camera.Right, true
	case ActionPresetTop:
		return camera.Top, true
	case ActionPresetBottom:
		return camera.Bottom, true
	}
	return 0, false
}

// Keymap binds unmodified keys to actions.
var Keymap = map[sdl.Keycode]Action{
	sdl.K_ESCAPE:    ActionCancelBurn,
	sdl.K_o:         ActionOpen,
	sdl.K_s:         ActionSave,
	sdl.K_g:         ActionGenerate,
	sdl.K_DELETE:    ActionDelete,
	sdl.K_BACKSPACE: ActionDelete,
	sdl.K_TAB:       ActionCycle,
	sdl.K_f:         ActionScaleToFit,
	sdl.K_c:         ActionCenter,
	sdl.K_r:         ActionResetView,
	sdl.K_m:         ActionToggleMode,
	sdl.K_p:         ActionToggleOrtho,
	sdl.K_t:         ActionToggleTarget,
	sdl.K_h:         ActionToggleGrid,
	sdl.K_F11:       ActionFullscreen,
	sdl.K_F12:       ActionScreenshot,
	sdl.K_1:         ActionPresetFront,
	sdl.K_2:         ActionPresetBack,
	sdl.K_3:         ActionPresetLeft,
	sdl.K_4:         ActionPresetRight,
	sdl.K_5:         ActionPresetTop,
	sdl.K_6:         ActionPresetBottom,
}

// KeyAction resolves a key press. Ctrl+Q quits, Ctrl+R resets the
// active object and Shift+G merges a new burn into the first toolpath.
// Auto-repeat only repeats view actions.
func KeyAction(ev input.Event) Action {
	if ev.Type != input.EventKeyDown {
		return ActionNone
	}
	var a Action
	switch {
	case ev.Ctrl() && ev.Key == sdl.K_q:
		a = ActionQuit
	case ev.Ctrl() && ev.Key == sdl.K_r:
		a = ActionResetObject
	case ev.Shift() && ev.Key == sdl.K_g:
		a = ActionGenerateMerge
	case ev.Ctrl():
		return ActionNone
	default:
		a = Keymap[ev.Key]
	}
	if ev.Repeat {
		if _, ok := a.Preset(); !ok && a != ActionCycle {
			return ActionNone
		}
	}
	return a
}
