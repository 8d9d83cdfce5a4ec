// Package gcode models laser G-code programs as an ordered list of typed
// commands. It parses line-oriented G-code, tracks modal coordinates so
// every move carries an absolute target, and serializes back to text with
// fixed numeric precision and modal-coordinate elision.
package gcode

import (
	"fmt"

	"github.com/Faultbox/xburn/pkg/math"
)

// Kind is the command variant.
type Kind int

// Command kinds.
const (
	RapidMove Kind = iota
	LinearMove
	LaserOn
	LaserOff
	Comment
	Other
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case RapidMove:
		return "RapidMove"
	case LinearMove:
		return "LinearMove"
	case LaserOn:
		return "LaserOn"
	case LaserOff:
		return "LaserOff"
	case Comment:
		return "Comment"
	case Other:
		return "Other"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// IsMove reports whether k moves the tool.
func (k Kind) IsMove() bool {
	return k == RapidMove || k == LinearMove
}

// Axis is a bit set of coordinate axes.
type Axis uint8

// Axes.
const (
	AxisX Axis = 1 << iota
	AxisY
	AxisZ

	AxesXY  = AxisX | AxisY
	AxesXYZ = AxisX | AxisY | AxisZ
)

// Has reports whether all axes in o are set.
func (a Axis) Has(o Axis) bool {
	return a&o == o
}

var axisOrder = [3]struct {
	axis   Axis
	letter byte
}{
	{AxisX, 'X'},
	{AxisY, 'Y'},
	{AxisZ, 'Z'},
}

// CommentStyle records how a comment was delimited.
type CommentStyle int

// Comment delimiters.
const (
	Semicolon CommentStyle = iota // ; text
	Paren                         // (text)
)

// Command is one G-code line.
type Command struct {
	Kind Kind
	// Code is the command word as written, e.g. "G1" or "M3". An empty code
	// on a move continues the previous motion mode.
	Code string

	// Target is the absolute position after a move. Only the axes in Axes
	// are known; the rest are zero.
	Target math.Vec3
	Axes   Axis
	// Words holds the axes written on the source line.
	Words Axis
	// Relative marks moves parsed under G91; they serialize as deltas.
	Relative bool

	Feed     float64
	HasFeed  bool
	Power    float64
	HasPower bool

	// Comment is the comment text without delimiters, kept verbatim.
	Comment      string
	CommentStyle CommentStyle
	HasComment   bool

	// Raw is the verbatim source text of an Other line.
	Raw string

	// Line is the N word, when present.
	Line    int
	HasLine bool
}

// Rapid returns a G0 move to the given XY position.
func Rapid(p math.Vec2) Command {
	return Command{Kind: RapidMove, Code: "G0", Target: p.Vec3(0), Axes: AxesXY, Words: AxesXY}
}

// Linear returns a G1 move to the given XY position.
func Linear(p math.Vec2) Command {
	return Command{Kind: LinearMove, Code: "G1", Target: p.Vec3(0), Axes: AxesXY, Words: AxesXY}
}

// WithFeed returns c with a feed rate.
func (c Command) WithFeed(f float64) Command {
	c.Feed, c.HasFeed = f, true
	return c
}

// WithPower returns c with a laser power.
func (c Command) WithPower(s float64) Command {
	c.Power, c.HasPower = s, true
	return c
}

// Laser returns a laser-on command using code, e.g. M3 or M4.
func Laser(code string, power float64) Command {
	return Command{Kind: LaserOn, Code: code, Power: power, HasPower: true}
}

// LaserStop returns a laser-off command using code, usually M5.
func LaserStop(code string) Command {
	return Command{Kind: LaserOff, Code: code}
}

// Note returns a comment line.
func Note(text string) Command {
	return Command{Kind: Comment, Comment: " " + text, HasComment: true}
}

// Verbatim returns an Other line emitted exactly as given.
func Verbatim(raw string) Command {
	return Command{Kind: Other, Raw: raw}
}

// XY returns the target projected on the platform plane.
func (c Command) XY() math.Vec2 {
	return c.Target.XY()
}
