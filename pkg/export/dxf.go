package export

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"

	"github.com/Faultbox/xburn/pkg/toolpath"
)

// DXFLayer is the layer contour lines are written to.
const DXFLayer = "burn"

// WriteDXF saves contours as LINE entities in millimetres.
func WriteDXF(path string, contours []toolpath.Contour) error {
	if len(contours) == 0 {
		return ErrNothingToExport
	}
	d := dxf.NewDrawing()
	if _, err := d.AddLayer(DXFLayer, color.Red, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("add layer: %w", err)
	}
	for _, c := range contours {
		for i, a := range c {
			b := c[(i+1)%len(c)]
			if _, err := d.Line(a.X, a.Y, 0, b.X, b.Y, 0); err != nil {
				return fmt.Errorf("line %d: %w", i, err)
			}
		}
	}
	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
