package gcode

import (
	"time"

	"github.com/Faultbox/xburn/pkg/math"
)

// Segment is one straight tool movement.
type Segment struct {
	From, To math.Vec3
	Kind     Kind // RapidMove or LinearMove
	Burning  bool // laser on during a linear move
	Feed     float64
	Index    int // command index that produced the segment
}

// Length returns the segment length.
func (s Segment) Length() float64 {
	return s.From.Distance(s.To)
}

// Segments walks the program from the origin and returns every movement,
// tagged with whether the laser was burning. Zero-length moves are skipped.
func (d *Document) Segments() []Segment {
	var (
		out  []Segment
		pos  math.Vec3
		on   bool
		feed float64
	)
	for i, c := range d.cmds {
		switch c.Kind {
		case LaserOn:
			on = true
		case LaserOff:
			on = false
		case RapidMove, LinearMove:
			if c.HasFeed {
				feed = c.Feed
			}
			to := pos
			for j, a := range axisOrder {
				if c.Axes.Has(a.axis) {
					setComponent(&to, j, c.Target.Component(j))
				}
			}
			if to != pos {
				out = append(out, Segment{
					From:    pos,
					To:      to,
					Kind:    c.Kind,
					Burning: on && c.Kind == LinearMove,
					Feed:    feed,
					Index:   i,
				})
			}
			pos = to
		}
	}
	return out
}

// Layers returns the index into segs at which each Z level starts. The
// first entry is always 0 for a non-empty slice.
func Layers(segs []Segment) []int {
	var stops []int
	for i, s := range segs {
		if i == 0 || s.To.Z != segs[i-1].To.Z {
			stops = append(stops, i)
		}
	}
	return stops
}

// Bounds returns the box around every movement, or an empty box.
func (d *Document) Bounds() math.Box {
	b := math.EmptyBox()
	for _, s := range d.Segments() {
		b = b.Extend(s.From).Extend(s.To)
	}
	return b
}

// Stats summarises a program.
type Stats struct {
	Commands     int
	Moves        int
	BurnLength   float64 // mm travelled with the laser on
	TravelLength float64 // mm travelled with the laser off
	Duration     time.Duration
}

// Stats computes lengths and an estimated run time. Feeds are in mm/min;
// moves without a known feed are timed at rapidRate.
func (d *Document) Stats(rapidRate float64) Stats {
	st := Stats{Commands: len(d.cmds)}
	var minutes float64
	for _, s := range d.Segments() {
		st.Moves++
		l := s.Length()
		if s.Burning {
			st.BurnLength += l
		} else {
			st.TravelLength += l
		}
		rate := s.Feed
		if s.Kind == RapidMove || rate <= 0 {
			rate = rapidRate
		}
		if rate > 0 {
			minutes += l / rate
		}
	}
	st.Duration = time.Duration(minutes * float64(time.Minute))
	return st
}
