// Package input translates SDL2 events into viewer events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/xburn/internal/scene"
)

// EventType identifies an Event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventFocusLost
	EventKeyDown
	EventKeyUp
	EventPointerMove
	EventPointerDown
	EventPointerUp
	EventScroll
	EventDrop
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Keycode
	Mod    sdl.Keymod
	Repeat bool
	Width  int
	Height int
	X, Y   int
	DX, DY float64 // relative motion or wheel delta
	Button scene.Button
	Path   string
}

// Ctrl reports whether either control key was held.
func (e Event) Ctrl() bool { return e.Mod&sdl.KMOD_CTRL != 0 }

// Shift reports whether either shift key was held.
func (e Event) Shift() bool { return e.Mod&sdl.KMOD_SHIFT != 0 }

// buttons maps SDL button indices to pointer buttons.
var buttons = map[uint8]scene.Button{
	sdl.BUTTON_LEFT:   scene.ButtonLeft,
	sdl.BUTTON_MIDDLE: scene.ButtonMiddle,
	sdl.BUTTON_RIGHT:  scene.ButtonRight,
	sdl.BUTTON_X1:     scene.ButtonX1,
	sdl.BUTTON_X2:     scene.ButtonX2,
}

// Translate converts one SDL event. Events the viewer does not use
// report false.
func Translate(event sdl.Event) (Event, bool) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return Event{Type: EventQuit}, true

	case *sdl.WindowEvent:
		switch e.Event {
		case sdl.WINDOWEVENT_RESIZED, sdl.WINDOWEVENT_SIZE_CHANGED:
			return Event{Type: EventWindowResize, Width: int(e.Data1), Height: int(e.Data2)}, true
		case sdl.WINDOWEVENT_FOCUS_LOST:
			return Event{Type: EventFocusLost}, true
		}

	case *sdl.KeyboardEvent:
		ev := Event{
			Key:    e.Keysym.Sym,
			Mod:    sdl.Keymod(e.Keysym.Mod),
			Repeat: e.Repeat != 0,
		}
		switch e.Type {
		case sdl.KEYDOWN:
			ev.Type = EventKeyDown
		case sdl.KEYUP:
			ev.Type = EventKeyUp
		default:
			return Event{}, false
		}
		return ev, true

	case *sdl.MouseMotionEvent:
		return Event{
			Type: EventPointerMove,
			X:    int(e.X),
			Y:    int(e.Y),
			DX:   float64(e.XRel),
			DY:   float64(e.YRel),
		}, true

	case *sdl.MouseButtonEvent:
		b, ok := buttons[e.Button]
		if !ok {
			return Event{}, false
		}
		ev := Event{X: int(e.X), Y: int(e.Y), Button: b}
		switch e.Type {
		case sdl.MOUSEBUTTONDOWN:
			ev.Type = EventPointerDown
		case sdl.MOUSEBUTTONUP:
			ev.Type = EventPointerUp
		default:
			return Event{}, false
		}
		return ev, true

	case *sdl.MouseWheelEvent:
		dy := float64(e.Y)
		if e.Direction == sdl.MOUSEWHEEL_FLIPPED {
			dy = -dy
		}
		if dy == 0 {
			return Event{}, false
		}
		return Event{Type: EventScroll, DY: dy}, true

	case *sdl.DropEvent:
		if e.Type == sdl.DROPFILE && e.File != "" {
			return Event{Type: EventDrop, Path: e.File}, true
		}
	}
	return Event{}, false
}

// Input handles all input processing.
type Input struct {
	events []Event
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
	}
}

// Update polls SDL events and converts them.
// Returns true if the viewer should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]
	quit := false
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if ev, ok := Translate(event); ok {
			i.events = append(i.events, ev)
			quit = quit || ev.Type == EventQuit
		}
	}
	return quit
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// Dispatch feeds pointer events to the controller and reports whether
// the event was consumed.
func Dispatch(c *scene.Controller, ev Event) (bool, error) {
	switch ev.Type {
	case EventPointerDown:
		c.Press(ev.Button)
	case EventPointerUp:
		c.Release(ev.Button)
	case EventPointerMove:
		if c.Mode() == scene.Idle {
			return false, nil
		}
		return true, c.Motion(ev.DX, ev.DY)
	case EventScroll:
		c.Scroll(ev.DY)
	case EventFocusLost:
		c.Cancel()
	default:
		return false, nil
	}
	return true, nil
}
