package export

import (
	"fmt"
	"io"
	gomath "math"

	svg "github.com/ajstarks/svgo"

	"github.com/Faultbox/xburn/pkg/toolpath"
)

// WriteSVG draws each contour as a closed polyline. The canvas is sized in
// millimetres and the view box in PixelsPerMM units.
func WriteSVG(w io.Writer, contours []toolpath.Contour, opts Options) error {
	if len(contours) == 0 {
		return ErrNothingToExport
	}
	opts = opts.normalized()
	b := contourBounds(contours)
	f := newFrame(b, opts)
	vw, vh := f.size(b)

	canvas := svg.New(w)
	canvas.StartviewUnit(
		int(gomath.Ceil(b.Width()+2*opts.Margin)), int(gomath.Ceil(f.height)), "mm",
		0, 0, vw, vh)
	style := fmt.Sprintf("fill:none;stroke:black;stroke-width:%d",
		max(1, int(gomath.Round(opts.StrokeWidth*opts.PixelsPerMM))))
	for _, c := range contours {
		xs := make([]int, 0, len(c)+1)
		ys := make([]int, 0, len(c)+1)
		for i := 0; i <= len(c); i++ {
			x, y := f.point(c[i%len(c)])
			xs = append(xs, int(gomath.Round(x)))
			ys = append(ys, int(gomath.Round(y)))
		}
		canvas.Polyline(xs, ys, style)
	}
	canvas.End()
	return nil
}
