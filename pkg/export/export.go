// Package export writes burn outlines and programs to formats other tools
// read: SVG and DXF for contours, PNG previews for G-code.
package export

import (
	"errors"
	gomath "math"

	"github.com/Faultbox/xburn/pkg/math"
	"github.com/Faultbox/xburn/pkg/toolpath"
)

// ErrNothingToExport is returned for empty input.
var ErrNothingToExport = errors.New("nothing to export")

// Options controls raster and vector output size.
type Options struct {
	// PixelsPerMM scales millimetres to output units. SVG coordinates are
	// integers, so this is also the SVG resolution.
	PixelsPerMM float64
	// Margin is blank space around the drawing, in mm.
	Margin float64
	// StrokeWidth is the line width in mm.
	StrokeWidth float64
}

// DefaultOptions gives a 10 px/mm drawing with a 2 mm margin.
func DefaultOptions() Options {
	return Options{PixelsPerMM: 10, Margin: 2, StrokeWidth: 0.2}
}

func (o Options) normalized() Options {
	d := DefaultOptions()
	if o.PixelsPerMM <= 0 {
		o.PixelsPerMM = d.PixelsPerMM
	}
	if o.Margin < 0 {
		o.Margin = 0
	}
	if o.StrokeWidth <= 0 {
		o.StrokeWidth = d.StrokeWidth
	}
	return o
}

// frame maps platform millimetres to image coordinates with Y pointing
// down, so the platform origin lands in the bottom-left corner.
type frame struct {
	min    math.Vec2
	height float64 // drawing height in mm, margins included
	opts   Options
}

func newFrame(b math.Box, opts Options) frame {
	return frame{
		min:    math.Vec2{X: b.Min.X - opts.Margin, Y: b.Min.Y - opts.Margin},
		height: b.Depth() + 2*opts.Margin,
		opts:   opts,
	}
}

func (f frame) size(b math.Box) (w, h int) {
	w = int(gomath.Ceil((b.Width() + 2*f.opts.Margin) * f.opts.PixelsPerMM))
	h = int(gomath.Ceil(f.height * f.opts.PixelsPerMM))
	return max(w, 1), max(h, 1)
}

func (f frame) point(p math.Vec2) (x, y float64) {
	x = (p.X - f.min.X) * f.opts.PixelsPerMM
	y = (f.height - (p.Y - f.min.Y)) * f.opts.PixelsPerMM
	return x, y
}

func contourBounds(contours []toolpath.Contour) math.Box {
	b := math.EmptyBox()
	for _, c := range contours {
		for _, p := range c {
			b = b.Extend(p.Vec3(0))
		}
	}
	return b
}
