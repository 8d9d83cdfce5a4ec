package gcode

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/Faultbox/xburn/pkg/math"
)

// DefaultPrecision is the number of decimals written for coordinates.
const DefaultPrecision = 2

// Serialize renders doc as G-code text. See Document.Write.
func Serialize(doc *Document, precision int) string {
	var sb strings.Builder
	_ = doc.Write(&sb, precision)
	return sb.String()
}

// Write renders the document one command per line. Coordinates are written
// with exactly precision decimals (DefaultPrecision when negative). An axis
// whose formatted value matches the last one written is omitted, and so is
// a repeated feed rate. Other lines are written verbatim.
func (d *Document) Write(w io.Writer, precision int) error {
	if precision < 0 {
		precision = DefaultPrecision
	}
	bw := bufio.NewWriter(w)
	e := encoder{prec: precision}
	for _, c := range d.cmds {
		bw.WriteString(e.line(c))
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// encoder carries modal state across lines.
type encoder struct {
	prec int

	last [3]string // last written absolute coordinate per axis, "" if none
	pos  math.Vec3 // last absolute position
	feed string
}

func (e *encoder) line(c Command) string {
	if c.Kind == Other {
		e.verbatim(c.Raw)
		return c.Raw
	}

	var parts []string
	if c.HasLine {
		parts = append(parts, "N"+strconv.Itoa(c.Line))
	}
	if c.Code != "" {
		parts = append(parts, c.Code)
	}

	switch c.Kind {
	case RapidMove, LinearMove:
		parts = e.axes(parts, c)
		if c.HasFeed {
			if f := trimmed(c.Feed, e.prec); f != e.feed {
				parts = append(parts, "F"+f)
				e.feed = f
			}
		}
		if c.HasPower {
			parts = append(parts, "S"+trimmed(c.Power, e.prec))
		}
	case LaserOn:
		if c.HasPower {
			parts = append(parts, "S"+trimmed(c.Power, e.prec))
		}
	}

	out := strings.Join(parts, " ")
	if c.HasComment {
		if out != "" {
			out += " "
		}
		out += formatComment(c.Comment, c.CommentStyle)
	}
	return out
}

func (e *encoder) axes(parts []string, c Command) []string {
	if c.Relative {
		for i, a := range axisOrder {
			if !c.Words.Has(a.axis) {
				continue
			}
			delta := c.Target.Component(i) - e.pos.Component(i)
			parts = append(parts, string(a.letter)+fixed(delta, e.prec))
		}
		// later absolute moves elide against the position reached here
		for i, a := range axisOrder {
			if c.Axes.Has(a.axis) {
				e.last[i] = fixed(c.Target.Component(i), e.prec)
			}
		}
		e.pos = c.Target
		return parts
	}

	for i, a := range axisOrder {
		if !c.Axes.Has(a.axis) {
			continue
		}
		s := fixed(c.Target.Component(i), e.prec)
		if s == e.last[i] {
			continue
		}
		parts = append(parts, string(a.letter)+s)
		e.last[i] = s
	}
	e.pos = c.Target
	return parts
}

func (e *encoder) reset() {
	e.last = [3]string{}
}

// verbatim applies the position changes a setup line makes, matching the
// parser, so that later relative moves are written as the same deltas.
func (e *encoder) verbatim(raw string) {
	code, _, _, _, ok := splitComment(raw)
	if !ok {
		e.reset()
		return
	}
	words, err := tokenize(strings.TrimSpace(code))
	if err != nil {
		e.reset()
		return
	}
	if resetsModalState(words) {
		e.reset()
	}
	for _, w := range words {
		if w.letter != 'G' {
			continue
		}
		switch w.code() {
		case "G28":
			e.pos = math.Vec3{}
		case "G92":
			for _, a := range words {
				if a.letter == 'X' || a.letter == 'Y' || a.letter == 'Z' {
					_, i := axisOf(a.letter)
					setComponent(&e.pos, i, a.val)
				}
			}
		}
	}
}

// resetsModalState reports whether a verbatim line may move the machine or
// redefine its coordinates, after which every axis must be written again.
func resetsModalState(words []word) bool {
	for _, w := range words {
		if w.letter == 'G' {
			switch w.code() {
			case "G28", "G30", "G92", "G0", "G1":
				return true
			}
		}
	}
	return false
}

// fixed formats v with exactly prec decimals and no negative zero.
func fixed(v float64, prec int) string {
	r := math.Round(v, prec)
	if r == 0 {
		r = 0
	}
	return strconv.FormatFloat(r, 'f', prec, 64)
}

// trimmed formats v rounded to prec decimals without trailing zeros.
func trimmed(v float64, prec int) string {
	r := math.Round(v, prec)
	if r == 0 {
		r = 0
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
