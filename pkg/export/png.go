package export

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/llgcode/draw2d/draw2dimg"

	"github.com/Faultbox/xburn/pkg/gcode"
)

// Preview colours.
var (
	BurnColor   = color.RGBA{R: 220, G: 30, B: 30, A: 255}
	TravelColor = color.RGBA{R: 150, G: 150, B: 150, A: 255}
	background  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// Render rasterises the program's moves: burns in BurnColor, travel in
// TravelColor.
func Render(doc *gcode.Document, opts Options) (*image.RGBA, error) {
	segs := doc.Segments()
	if len(segs) == 0 {
		return nil, ErrNothingToExport
	}
	opts = opts.normalized()
	b := doc.Bounds()
	f := newFrame(b, opts)
	w, h := f.size(b)

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	gc := draw2dimg.NewGraphicContext(img)
	gc.SetFillColor(background)
	gc.Clear()
	gc.SetLineWidth(opts.StrokeWidth * opts.PixelsPerMM)

	// travel first so burns draw on top
	for _, burning := range []bool{false, true} {
		if burning {
			gc.SetStrokeColor(BurnColor)
		} else {
			gc.SetStrokeColor(TravelColor)
		}
		for _, s := range segs {
			if s.Burning != burning {
				continue
			}
			x0, y0 := f.point(s.From.XY())
			x1, y1 := f.point(s.To.XY())
			gc.MoveTo(x0, y0)
			gc.LineTo(x1, y1)
			gc.Stroke()
		}
	}
	return img, nil
}

// WritePNG encodes a preview of doc.
func WritePNG(w io.Writer, doc *gcode.Document, opts Options) error {
	img, err := Render(doc, opts)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// SavePNG writes a preview of doc to path.
func SavePNG(path string, doc *gcode.Document, opts Options) error {
	img, err := Render(doc, opts)
	if err != nil {
		return err
	}
	if err := draw2dimg.SaveToPngFile(path, img); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
