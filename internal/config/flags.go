package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagMachine    = flag.String("machine", "", "Path to machine INI file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
	flag2D         = flag.Bool("2d", false, "Start in the top-down 2D view")
	flagPrecision  = flag.Int("precision", -1, "Decimals written for G-code coordinates")
	flagStrict     = flag.Bool("strict", false, "Reject unsupported G-code commands")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// MachinePath returns the explicit machine file if provided via --machine.
func MachinePath() string {
	return *flagMachine
}

// File returns the positional file argument to open at start, if any.
func File() string {
	return flag.Arg(0)
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
		cfg.Viewer.ShowFPS = true
	}
	if *flagWindowed {
		cfg.Viewer.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Viewer.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Viewer.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Viewer.Height = *flagHeight
	}
	if *flag2D {
		cfg.Viewer.Mode = "2d"
	}
	if *flagPrecision >= 0 {
		cfg.Gcode.Precision = *flagPrecision
	}
	if *flagStrict {
		cfg.Gcode.Strict = true
	}
}
