package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/xburn/internal/scene"
	"github.com/Faultbox/xburn/pkg/mesh"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name  string
		event sdl.Event
		want  Event
		ok    bool
	}{
		{"quit", &sdl.QuitEvent{Type: sdl.QUIT}, Event{Type: EventQuit}, true},
		{
			"resize",
			&sdl.WindowEvent{Type: sdl.WINDOWEVENT, Event: sdl.WINDOWEVENT_SIZE_CHANGED, Data1: 800, Data2: 600},
			Event{Type: EventWindowResize, Width: 800, Height: 600}, true,
		},
		{
			"focus lost",
			&sdl.WindowEvent{Type: sdl.WINDOWEVENT, Event: sdl.WINDOWEVENT_FOCUS_LOST},
			Event{Type: EventFocusLost}, true,
		},
		{"window moved", &sdl.WindowEvent{Type: sdl.WINDOWEVENT, Event: sdl.WINDOWEVENT_MOVED}, Event{}, false},
		{
			"key down with ctrl",
			&sdl.KeyboardEvent{Type: sdl.KEYDOWN, Keysym: sdl.Keysym{Sym: sdl.K_s, Mod: uint16(sdl.KMOD_LCTRL)}},
			Event{Type: EventKeyDown, Key: sdl.K_s, Mod: sdl.KMOD_LCTRL}, true,
		},
		{
			"key up repeat",
			&sdl.KeyboardEvent{Type: sdl.KEYUP, Repeat: 1, Keysym: sdl.Keysym{Sym: sdl.K_g}},
			Event{Type: EventKeyUp, Key: sdl.K_g, Repeat: true}, true,
		},
		{
			"motion",
			&sdl.MouseMotionEvent{Type: sdl.MOUSEMOTION, X: 10, Y: 20, XRel: 3, YRel: -4},
			Event{Type: EventPointerMove, X: 10, Y: 20, DX: 3, DY: -4}, true,
		},
		{
			"right down",
			&sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONDOWN, Button: sdl.BUTTON_RIGHT, X: 5, Y: 6},
			Event{Type: EventPointerDown, Button: scene.ButtonRight, X: 5, Y: 6}, true,
		},
		{
			"x1 up",
			&sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONUP, Button: sdl.BUTTON_X1},
			Event{Type: EventPointerUp, Button: scene.ButtonX1}, true,
		},
		{"unknown button", &sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONDOWN, Button: 9}, Event{}, false},
		{"wheel", &sdl.MouseWheelEvent{Type: sdl.MOUSEWHEEL, Y: 2}, Event{Type: EventScroll, DY: 2}, true},
		{
			"wheel flipped",
			&sdl.MouseWheelEvent{Type: sdl.MOUSEWHEEL, Y: 1, Direction: sdl.MOUSEWHEEL_FLIPPED},
			Event{Type: EventScroll, DY: -1}, true,
		},
		{"horizontal wheel", &sdl.MouseWheelEvent{Type: sdl.MOUSEWHEEL, X: 1}, Event{}, false},
		{
			"drop",
			&sdl.DropEvent{Type: sdl.DROPFILE, File: "/tmp/cube.stl"},
			Event{Type: EventDrop, Path: "/tmp/cube.stl"}, true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Translate(tt.event)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestModifiers(t *testing.T) {
	ev := Event{Mod: sdl.KMOD_RCTRL | sdl.KMOD_LSHIFT}
	assert.True(t, ev.Ctrl())
	assert.True(t, ev.Shift())
	assert.False(t, Event{}.Ctrl())
}

func TestDispatch(t *testing.T) {
	s := scene.New(mesh.DefaultPlatform())
	c := scene.NewController(s, nil)

	before := *s.Camera()
	handled, err := Dispatch(c, Event{Type: EventPointerMove, DX: 5, DY: 5})
	require.NoError(t, err)
	assert.False(t, handled, "motion without a held button")
	assert.Equal(t, before, *s.Camera())

	handled, err = Dispatch(c, Event{Type: EventPointerDown, Button: scene.ButtonRight})
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Equal(t, scene.Panning, c.Mode())

	handled, err = Dispatch(c, Event{Type: EventPointerMove, DX: 5, DY: 5})
	require.NoError(t, err)
	assert.True(t, handled)
	assert.NotEqual(t, before, *s.Camera())

	_, err = Dispatch(c, Event{Type: EventFocusLost})
	require.NoError(t, err)
	assert.Equal(t, scene.Idle, c.Mode())

	zoom := s.Camera().ZoomLevel()
	_, err = Dispatch(c, Event{Type: EventScroll, DY: 1})
	require.NoError(t, err)
	assert.Greater(t, s.Camera().ZoomLevel(), zoom)

	handled, err = Dispatch(c, Event{Type: EventKeyDown, Key: sdl.K_a})
	require.NoError(t, err)
	assert.False(t, handled)
}
