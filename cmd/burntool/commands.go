package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/Faultbox/xburn/internal/config"
	"github.com/Faultbox/xburn/internal/logger"
	"github.com/Faultbox/xburn/pkg/export"
	"github.com/Faultbox/xburn/pkg/gcode"
	"github.com/Faultbox/xburn/pkg/mesh"
	"github.com/Faultbox/xburn/pkg/toolpath"
)

// commonFlags are accepted by every command.
type commonFlags struct {
	config  string
	machine string
	verbose bool
}

// load reads the configuration and sets up logging. Without -v only the
// configured log file receives output.
func (cf *commonFlags) load() (*config.Config, error) {
	cfg, err := config.LoadFrom(cf.config, cf.machine)
	if err != nil {
		return nil, err
	}
	level := cfg.Logging.Level
	if cf.verbose {
		level = "debug"
	}
	var fileCfg logger.FileConfig
	if cfg.Logging.LogFile != "" {
		fileCfg = logger.DefaultFileConfig(cfg.Logging.LogFile)
	}
	if err := logger.InitWithFileConfig(level, fileCfg, cf.verbose); err != nil {
		return nil, err
	}
	return cfg, nil
}

func isMesh(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".stl")
}

// openOutput returns stdout for "" or "-", else creates path.
func openOutput(path string, stdout io.Writer) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func writeDoc(path string, stdout io.Writer, doc *gcode.Document, precision int) error {
	w, closeFn, err := openOutput(path, stdout)
	if err != nil {
		return err
	}
	if err := doc.Write(w, precision); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

func cmdInfo(args []string, stdout, stderr io.Writer) error {
	fs, cf := newFlagSet("info", stderr)
	if err := parse(fs, args, 1, "info <file.stl|file.gcode>"); err != nil {
		return err
	}
	cfg, err := cf.load()
	if err != nil {
		return err
	}
	path := fs.Arg(0)

	if isMesh(path) {
		m, err := mesh.LoadFile(path)
		if err != nil {
			return err
		}
		printMeshInfo(stdout, path, m, cfg.Machine.Platform())
		return nil
	}

	doc, err := gcode.ParseFile(path, cfg.Gcode.ParseOptions())
	if err != nil {
		return err
	}
	printDocInfo(stdout, path, doc, cfg.Machine.RapidRate)
	return nil
}

func printMeshInfo(w io.Writer, path string, m *mesh.Mesh, p mesh.Platform) {
	b := m.BoundingBox()
	fits := "yes"
	if !p.Contains(b) {
		fits = "no"
	}
	fmt.Fprintf(w, "Mesh:      %s\n", path)
	fmt.Fprintf(w, "Name:      %s\n", m.Name)
	fmt.Fprintf(w, "Format:    %s\n", m.Format)
	fmt.Fprintf(w, "Triangles: %d\n", m.TriangleCount())
	fmt.Fprintf(w, "Size:      %.2f x %.2f x %.2f mm\n", b.Width(), b.Depth(), b.Height())
	fmt.Fprintf(w, "Fits bed:  %s (%g x %g mm)\n", fits, p.Width, p.Depth)
}

func printDocInfo(w io.Writer, path string, doc *gcode.Document, rapidRate float64) {
	st := doc.Stats(rapidRate)
	segs := doc.Segments()
	b := doc.Bounds()
	fmt.Fprintf(w, "Program:   %s\n", path)
	fmt.Fprintf(w, "Commands:  %d\n", st.Commands)
	fmt.Fprintf(w, "Moves:     %d (rapid %d, linear %d)\n", st.Moves, doc.Count(gcode.RapidMove), doc.Count(gcode.LinearMove))
	fmt.Fprintf(w, "Laser on:  %d\n", doc.Count(gcode.LaserOn))
	fmt.Fprintf(w, "Burn:      %.2f mm\n", st.BurnLength)
	fmt.Fprintf(w, "Travel:    %.2f mm\n", st.TravelLength)
	fmt.Fprintf(w, "Time:      %s\n", st.Duration.Round(time.Second))
	if len(segs) > 0 {
		fmt.Fprintf(w, "Bounds:    X %.2f..%.2f  Y %.2f..%.2f  Z %.2f..%.2f\n",
			b.Min.X, b.Max.X, b.Min.Y, b.Max.Y, b.Min.Z, b.Max.Z)
	}
	fmt.Fprintf(w, "Layers:    %d\n", len(gcode.Layers(segs)))
}

// burnFlags override the configured burn settings when set.
type burnFlags struct {
	feed, power, step, z float64
	passes               int
	mode                 string
	noHeader             bool
	fit, center          bool
}

func addBurnFlags(fs *flag.FlagSet) *burnFlags {
	bf := &burnFlags{}
	fs.Float64Var(&bf.feed, "feed", 0, "Burn feed rate, mm/min")
	fs.Float64Var(&bf.power, "power", 0, "Laser power (S value)")
	fs.IntVar(&bf.passes, "passes", 0, "Number of passes")
	fs.Float64Var(&bf.step, "step", 0, "Step-over between passes, mm")
	fs.StringVar(&bf.mode, "mode", "", "Projection: silhouette or slice")
	fs.Float64Var(&bf.z, "z", 0, "Slice height for -mode slice, mm")
	fs.BoolVar(&bf.noHeader, "no-header", false, "Omit the comment and G21/G90 header")
	fs.BoolVar(&bf.fit, "fit", false, "Scale the mesh to fit the platform")
	fs.BoolVar(&bf.center, "center", false, "Centre the mesh on the platform")
	return bf
}

// apply copies the flags the user set onto cfg.
func (bf *burnFlags) apply(fs *flag.FlagSet, cfg *toolpath.Config) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "feed":
			cfg.FeedRate = bf.feed
		case "power":
			cfg.Power = bf.power
		case "passes":
			cfg.PassCount = bf.passes
		case "step":
			cfg.StepOver = bf.step
		case "mode":
			cfg.Mode = toolpath.Mode(bf.mode)
		case "z":
			cfg.SliceZ = bf.z
		case "no-header":
			cfg.Header = !bf.noHeader
		}
	})
}

// placeMesh loads a mesh and applies -fit and -center.
func (bf *burnFlags) placeMesh(path string, p mesh.Platform) (*mesh.Mesh, error) {
	m, err := mesh.LoadFile(path)
	if err != nil {
		return nil, err
	}
	if bf.fit {
		if err := m.ScaleToFit(p); err != nil {
			return nil, err
		}
	}
	if bf.center {
		m.CenterOn(p)
	}
	return m, nil
}

func cmdBurn(args []string, stdout, stderr io.Writer) error {
	fs, cf := newFlagSet("burn", stderr)
	out := fs.String("o", "", "Output file (default stdout)")
	precision := fs.Int("precision", -1, "Decimal places (-1 = config)")
	bf := addBurnFlags(fs)
	if err := parse(fs, args, 1, "burn [options] <file.stl>"); err != nil {
		return err
	}
	cfg, err := cf.load()
	if err != nil {
		return err
	}
	bf.apply(fs, &cfg.Burn)
	if *precision >= 0 {
		cfg.Gcode.Precision = *precision
	}

	m, err := bf.placeMesh(fs.Arg(0), cfg.Machine.Platform())
	if err != nil {
		return err
	}
	log := logger.Named("burntool")
	doc, err := toolpath.Generate(context.Background(), m, cfg.Burn, toolpath.WithLogger(logger.Named("toolpath")))
	if err != nil {
		return fmt.Errorf("burn %s: %w", m.Name, err)
	}
	if !cfg.Machine.Platform().Contains(doc.Bounds()) {
		fmt.Fprintln(stderr, "Warning: toolpath leaves the platform")
	}
	log.Info("burn path generated", logger.File(fs.Arg(0)), zap.Int("commands", doc.Len()))
	return writeDoc(*out, stdout, doc, cfg.Gcode.Precision)
}

func cmdFmt(args []string, stdout, stderr io.Writer) error {
	fs, cf := newFlagSet("fmt", stderr)
	out := fs.String("o", "", "Output file (default stdout)")
	precision := fs.Int("precision", -1, "Decimal places (-1 = config)")
	strict := fs.Bool("strict", false, "Reject unsupported commands")
	if err := parse(fs, args, 1, "fmt [options] <file.gcode>"); err != nil {
		return err
	}
	cfg, err := cf.load()
	if err != nil {
		return err
	}
	if *precision >= 0 {
		cfg.Gcode.Precision = *precision
	}
	opts := cfg.Gcode.ParseOptions()
	opts.Strict = opts.Strict || *strict

	doc, err := gcode.ParseFile(fs.Arg(0), opts)
	if err != nil {
		return err
	}
	return writeDoc(*out, stdout, doc, cfg.Gcode.Precision)
}

func cmdMerge(args []string, stdout, stderr io.Writer) error {
	fs, cf := newFlagSet("merge", stderr)
	out := fs.String("o", "", "Output file (default stdout)")
	if err := parse(fs, args, 2, "merge [options] <a.gcode> <b.gcode>..."); err != nil {
		return err
	}
	cfg, err := cf.load()
	if err != nil {
		return err
	}

	docs := make([]*gcode.Document, 0, fs.NArg())
	for _, path := range fs.Args() {
		doc, err := gcode.ParseFile(path, cfg.Gcode.ParseOptions())
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		docs = append(docs, doc)
	}
	merged := lo.Reduce(docs[1:], func(acc *gcode.Document, d *gcode.Document, _ int) *gcode.Document {
		return gcode.Merge(acc, d)
	}, docs[0])
	logger.Named("burntool").Info("merged", zap.Int("files", len(docs)), zap.Int("commands", merged.Len()))
	return writeDoc(*out, stdout, merged, cfg.Gcode.Precision)
}

func cmdOutline(args []string, stdout, stderr io.Writer) error {
	fs, cf := newFlagSet("outline", stderr)
	out := fs.String("o", "", "Output file (default stdout; required for dxf)")
	format := fs.String("format", "svg", "Output format: svg, dxf or png")
	scale := fs.Float64("scale", 0, "Pixels per mm (0 = default)")
	bf := addBurnFlags(fs)
	if err := parse(fs, args, 1, "outline [options] <file.stl|file.gcode>"); err != nil {
		return err
	}
	cfg, err := cf.load()
	if err != nil {
		return err
	}
	bf.apply(fs, &cfg.Burn)
	opts := export.DefaultOptions()
	if *scale > 0 {
		opts.PixelsPerMM = *scale
	}

	path := fs.Arg(0)
	switch *format {
	case "png":
		doc, err := burnDoc(path, cfg, bf)
		if err != nil {
			return err
		}
		w, closeFn, err := openOutput(*out, stdout)
		if err != nil {
			return err
		}
		if err := export.WritePNG(w, doc, opts); err != nil {
			closeFn()
			return err
		}
		return closeFn()

	case "svg", "dxf":
		contours, err := outlineContours(path, cfg, bf)
		if err != nil {
			return err
		}
		if *format == "dxf" {
			if *out == "" || *out == "-" {
				return fmt.Errorf("dxf output needs -o <file.dxf>")
			}
			return export.WriteDXF(*out, contours)
		}
		w, closeFn, err := openOutput(*out, stdout)
		if err != nil {
			return err
		}
		if err := export.WriteSVG(w, contours, opts); err != nil {
			closeFn()
			return err
		}
		return closeFn()
	}
	return fmt.Errorf("unknown format %q", *format)
}

// burnDoc returns the toolpath for a G-code file, or generates one for
// a mesh.
func burnDoc(path string, cfg *config.Config, bf *burnFlags) (*gcode.Document, error) {
	if !isMesh(path) {
		return gcode.ParseFile(path, cfg.Gcode.ParseOptions())
	}
	m, err := bf.placeMesh(path, cfg.Machine.Platform())
	if err != nil {
		return nil, err
	}
	return toolpath.Generate(context.Background(), m, cfg.Burn)
}

// outlineContours projects a mesh, or recovers the burned rings of a
// G-code program.
func outlineContours(path string, cfg *config.Config, bf *burnFlags) ([]toolpath.Contour, error) {
	var segs []toolpath.Segment
	if isMesh(path) {
		m, err := bf.placeMesh(path, cfg.Machine.Platform())
		if err != nil {
			return nil, err
		}
		if segs, err = toolpath.Project(m, cfg.Burn); err != nil {
			return nil, err
		}
	} else {
		doc, err := gcode.ParseFile(path, cfg.Gcode.ParseOptions())
		if err != nil {
			return nil, err
		}
		burned := lo.Filter(doc.Segments(), func(s gcode.Segment, _ int) bool { return s.Burning })
		segs = lo.Map(burned, func(s gcode.Segment, _ int) toolpath.Segment {
			return toolpath.Segment{A: s.From.XY(), B: s.To.XY()}
		})
	}
	return toolpath.ExtractContours(segs, cfg.Burn.Tolerance)
}
