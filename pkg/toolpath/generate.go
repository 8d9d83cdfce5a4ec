// Package toolpath turns meshes and 2D outlines into laser burn programs.
//
// Generation runs in fixed stages: project the mesh to 2D edges, stitch
// the edges into closed contours, order the contours to cut travel, expand
// each into its offset passes, and emit G-code. Every stage finishes before
// emission starts, so a failure never leaves a partial program behind.
package toolpath

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/xburn/pkg/gcode"
	"github.com/Faultbox/xburn/pkg/mesh"
)

// Option configures a generator run.
type Option func(*generator)

// WithLogger reports stage statistics at debug level.
func WithLogger(l *zap.Logger) Option {
	return func(g *generator) {
		if l != nil {
			g.log = l
		}
	}
}

type generator struct {
	log *zap.Logger
}

func newGenerator(opts []Option) *generator {
	g := &generator{log: zap.NewNop()}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Generate builds a burn program from a mesh. The mesh is not modified;
// callers running this off the UI thread should pass a Clone.
func Generate(ctx context.Context, m *mesh.Mesh, cfg Config, opts ...Option) (*gcode.Document, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	segs, err := Project(m, cfg)
	if err != nil {
		return nil, err
	}
	return GenerateFromSegments(ctx, segs, cfg, opts...)
}

// GenerateFromSegments builds a burn program from loose 2D edges.
func GenerateFromSegments(ctx context.Context, segs []Segment, cfg Config, opts ...Option) (*gcode.Document, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	contours, err := extractContours(ctx, segs, cfg.Tolerance)
	if err != nil {
		return nil, err
	}
	newGenerator(opts).log.Debug("contours extracted",
		zap.Int("segments", len(segs)),
		zap.Int("contours", len(contours)))
	return GenerateFromContours(ctx, contours, cfg, opts...)
}

// GenerateFromContours builds a burn program from closed outlines.
func GenerateFromContours(ctx context.Context, contours []Contour, cfg Config, opts ...Option) (*gcode.Document, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	g := newGenerator(opts)
	if len(contours) == 0 {
		return nil, fmt.Errorf("%w: nothing to burn", ErrDegenerateGeometry)
	}
	closed := make([]Contour, len(contours))
	for i, c := range contours {
		c = normalize(c, cfg.Tolerance)
		if len(c) < 3 || c.isThin(cfg.Tolerance) {
			return nil, fmt.Errorf("%w: contour %d has no area", ErrDegenerateGeometry, i)
		}
		closed[i] = c
	}

	ordered := OrderContours(closed, cfg.Origin)
	var rings []Contour
	pos := cfg.Origin
	for i := range ordered {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, r := range passes(ordered, i, cfg) {
			v, _ := r.Nearest(pos)
			r = r.StartAt(v)
			rings = append(rings, r)
			pos = r[0]
		}
	}

	doc := emit(rings, cfg)
	g.log.Debug("burn path generated",
		zap.Int("contours", len(ordered)),
		zap.Int("rings", len(rings)),
		zap.Int("commands", doc.Len()),
		zap.Float64("travel_mm", TravelDistance(rings, cfg.Origin)))
	return doc, nil
}

// emit writes one closed ring after another: rapid to the start, laser on,
// a linear move through each remaining vertex and back to the start, laser
// off.
func emit(rings []Contour, cfg Config) *gcode.Document {
	doc := gcode.NewDocument()
	if cfg.Header {
		doc.Append(
			gcode.Note(fmt.Sprintf("burn path: %d rings, F%g S%g", len(rings), cfg.FeedRate, cfg.Power)),
			gcode.Verbatim("G21"),
			gcode.Verbatim("G90"),
		)
	}
	doc.Append(gcode.LaserStop(cfg.LaserOffCode))
	for _, r := range rings {
		rapid := gcode.Rapid(r[0])
		if cfg.TravelRate > 0 {
			rapid = rapid.WithFeed(cfg.TravelRate)
		}
		doc.Append(rapid, gcode.Laser(cfg.LaserOnCode, cfg.Power))
		for i := 1; i <= len(r); i++ {
			mv := gcode.Linear(r[i%len(r)])
			if i == 1 {
				mv = mv.WithFeed(cfg.FeedRate)
			}
			doc.Append(mv)
		}
		doc.Append(gcode.LaserStop(cfg.LaserOffCode))
	}
	return doc
}
