package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/multierr"

	"github.com/Faultbox/xburn/pkg/toolpath"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Machine defaults
	if cfg.Machine.PlatformWidth != 120 {
		t.Errorf("expected platform width 120, got %v", cfg.Machine.PlatformWidth)
	}
	if cfg.Machine.PlatformDepth != 100 {
		t.Errorf("expected platform depth 100, got %v", cfg.Machine.PlatformDepth)
	}

	// Burn defaults
	if cfg.Burn.LaserOnCode != "M3" || cfg.Burn.LaserOffCode != "M5" {
		t.Errorf("expected M3/M5, got %s/%s", cfg.Burn.LaserOnCode, cfg.Burn.LaserOffCode)
	}
	if cfg.Burn.PassCount != 1 {
		t.Errorf("expected 1 pass, got %d", cfg.Burn.PassCount)
	}

	// G-code defaults
	if cfg.Gcode.Precision != 2 {
		t.Errorf("expected precision 2, got %d", cfg.Gcode.Precision)
	}
	if cfg.Gcode.Strict {
		t.Error("expected lenient parsing by default")
	}

	// Viewer defaults
	if cfg.Viewer.Width != 1280 || cfg.Viewer.Height != 720 {
		t.Errorf("expected 1280x720, got %dx%d", cfg.Viewer.Width, cfg.Viewer.Height)
	}
	if cfg.Viewer.Mode != "3d" {
		t.Errorf("expected 3d mode, got %s", cfg.Viewer.Mode)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
machine:
  platform_width: 300
  platform_depth: 200

burn:
  feed_rate: 1200
  power: 800
  pass_count: 3
  step_over: 0.5
  mode: slice
  slice_z: 1.5

gcode:
  precision: 3
  strict: true
  laser_on_codes: [M3]

viewer:
  width: 1920
  mode: 2d
  ortho: true

logging:
  level: "debug"
  log_file: "xburn.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Machine.PlatformWidth != 300 || cfg.Machine.PlatformDepth != 200 {
		t.Errorf("expected platform 300x200, got %vx%v", cfg.Machine.PlatformWidth, cfg.Machine.PlatformDepth)
	}
	if cfg.Machine.RapidRate != 3000 {
		t.Errorf("expected rapid rate kept at 3000, got %v", cfg.Machine.RapidRate)
	}

	if cfg.Burn.FeedRate != 1200 {
		t.Errorf("expected feed 1200, got %v", cfg.Burn.FeedRate)
	}
	if cfg.Burn.PassCount != 3 || cfg.Burn.StepOver != 0.5 {
		t.Errorf("expected 3 passes at 0.5, got %d at %v", cfg.Burn.PassCount, cfg.Burn.StepOver)
	}
	if cfg.Burn.Mode != toolpath.ModeSlice || cfg.Burn.SliceZ != 1.5 {
		t.Errorf("expected slice at 1.5, got %s at %v", cfg.Burn.Mode, cfg.Burn.SliceZ)
	}
	if cfg.Burn.TravelRate != 3000 {
		t.Errorf("expected travel rate kept at 3000, got %v", cfg.Burn.TravelRate)
	}

	if cfg.Gcode.Precision != 3 || !cfg.Gcode.Strict {
		t.Errorf("expected strict precision 3, got strict=%v precision=%d", cfg.Gcode.Strict, cfg.Gcode.Precision)
	}
	opts := cfg.Gcode.ParseOptions()
	if len(opts.LaserOnCodes) != 1 || opts.LaserOnCodes[0] != "M3" {
		t.Errorf("expected laser on codes [M3], got %v", opts.LaserOnCodes)
	}

	if cfg.Viewer.Width != 1920 || cfg.Viewer.Height != 720 {
		t.Errorf("expected 1920x720, got %dx%d", cfg.Viewer.Width, cfg.Viewer.Height)
	}
	if cfg.Viewer.Mode != "2d" || !cfg.Viewer.Ortho {
		t.Errorf("expected ortho 2d, got mode=%s ortho=%v", cfg.Viewer.Mode, cfg.Viewer.Ortho)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "xburn.log" {
		t.Errorf("expected log file 'xburn.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
viewer:
  width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestLoadMachine(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name    string
		content string
		wantW   float64
		wantD   float64
		wantErr bool
	}{
		{"both keys", "[machine]\nplatform_w = 300\nplatform_d = 250\n", 300, 250, false},
		{"width only", "[machine]\nplatform_w = 200\n", 200, 100, false},
		{"no section", "[other]\nplatform_w = 999\n", 120, 100, false},
		{"unparsable value", "[machine]\nplatform_w = wide\n", 120, 100, false},
		{"zero size", "[machine]\nplatform_d = 0\n", 120, 0, true},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(tmpDir, filepath.Base(t.Name())+".ini")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("case %d: write: %v", i, err)
			}

			cfg := Default()
			err := loadMachine(cfg, path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("expected error=%v, got %v", tt.wantErr, err)
			}
			if cfg.Machine.PlatformWidth != tt.wantW || cfg.Machine.PlatformDepth != tt.wantD {
				t.Errorf("expected %vx%v, got %vx%v", tt.wantW, tt.wantD,
					cfg.Machine.PlatformWidth, cfg.Machine.PlatformDepth)
			}
		})
	}
}

func TestLoadMachineMissing(t *testing.T) {
	cfg := Default()
	if err := loadMachine(cfg, "/nonexistent/xburn.ini"); err == nil {
		t.Error("expected error loading missing machine file, got nil")
	}
}

func TestSaveMachineRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", MachineFileName)

	cfg := Default()
	cfg.Machine.PlatformWidth = 410
	cfg.Machine.PlatformDepth = 390.5
	if err := cfg.SaveMachine(path); err != nil {
		t.Fatalf("save machine: %v", err)
	}

	loaded := Default()
	if err := loadMachine(loaded, path); err != nil {
		t.Fatalf("load machine: %v", err)
	}
	if loaded.Machine != cfg.Machine {
		t.Errorf("expected %+v, got %+v", cfg.Machine, loaded.Machine)
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Burn.Power = 500
	cfg.Viewer.Mode = "2d"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Burn.Power != 500 || loaded.Viewer.Mode != "2d" {
		t.Errorf("round trip lost values: power=%v mode=%s", loaded.Burn.Power, loaded.Viewer.Mode)
	}
}

func TestValidateAggregates(t *testing.T) {
	cfg := Default()
	cfg.Machine.PlatformWidth = -1
	cfg.Burn.FeedRate = 0
	cfg.Gcode.Precision = 9
	cfg.Viewer.Mode = "vr"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if n := len(multierr.Errors(err)); n != 4 {
		t.Errorf("expected 4 errors, got %d: %v", n, err)
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	// Actual path depends on OS
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}
	if path := findMachineFile(); path != "" {
		t.Errorf("expected empty path when no machine file exists, got %s", path)
	}

	if err := os.WriteFile(filepath.Join(tmpDir, "config.yaml"), []byte("viewer:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, MachineFileName), []byte("[machine]\n"), 0644); err != nil {
		t.Fatalf("failed to create machine file: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find config.yaml in current directory")
	}
	if path := findMachineFile(); path == "" {
		t.Errorf("expected to find %s in current directory", MachineFileName)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
				if !cfg.Viewer.ShowFPS {
					t.Error("expected show_fps to be enabled with debug flag")
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "fullscreen flag",
			setup: func() { *flagFullscreen = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Viewer.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() { *flagFullscreen = false },
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Viewer.Width != 2560 || cfg.Viewer.Height != 1440 {
					t.Errorf("expected 2560x1440, got %dx%d", cfg.Viewer.Width, cfg.Viewer.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
		{
			name:  "2d flag",
			setup: func() { *flag2D = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Viewer.Mode != "2d" {
					t.Errorf("expected 2d mode, got %s", cfg.Viewer.Mode)
				}
			},
			teardown: func() { *flag2D = false },
		},
		{
			name:  "precision zero",
			setup: func() { *flagPrecision = 0 },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Gcode.Precision != 0 {
					t.Errorf("expected precision 0, got %d", cfg.Gcode.Precision)
				}
			},
			teardown: func() { *flagPrecision = -1 },
		},
		{
			name:  "strict flag",
			setup: func() { *flagStrict = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Gcode.Strict {
					t.Error("expected strict parsing")
				}
			},
			teardown: func() { *flagStrict = false },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	machinePath := filepath.Join(tmpDir, "bed.ini")

	yamlContent := `
machine:
  platform_width: 150
  platform_depth: 150
viewer:
  width: 1600
  height: 900
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	if err := os.WriteFile(machinePath, []byte("[machine]\nplatform_w = 400\n"), 0644); err != nil {
		t.Fatalf("failed to write machine file: %v", err)
	}

	*flagConfig = configPath
	*flagMachine = machinePath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagMachine = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Width should be from flag (1920), not file (1600)
	if cfg.Viewer.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Viewer.Width)
	}
	if cfg.Viewer.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Viewer.Height)
	}

	// INI overrides YAML, and YAML fills what the INI leaves out
	if cfg.Machine.PlatformWidth != 400 {
		t.Errorf("expected platform width 400 from INI, got %v", cfg.Machine.PlatformWidth)
	}
	if cfg.Machine.PlatformDepth != 150 {
		t.Errorf("expected platform depth 150 from YAML, got %v", cfg.Machine.PlatformDepth)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	machinePath := filepath.Join(tmpDir, MachineFileName)
	if err := os.WriteFile(configPath, []byte("burn:\n  power: 0\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	if err := os.WriteFile(machinePath, []byte("[machine]\n"), 0644); err != nil {
		t.Fatalf("failed to write machine file: %v", err)
	}

	*flagConfig = configPath
	*flagMachine = machinePath
	defer func() {
		*flagConfig = ""
		*flagMachine = ""
	}()

	_, err := Load()
	if !errors.Is(err, toolpath.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestLoadFrom(t *testing.T) {
	cfg, err := LoadFrom("", "")
	if err != nil {
		t.Fatalf("LoadFrom with no files: %v", err)
	}
	if cfg.Machine.PlatformWidth != 120 || cfg.Machine.PlatformDepth != 100 {
		t.Errorf("expected default platform 120x100, got %vx%v", cfg.Machine.PlatformWidth, cfg.Machine.PlatformDepth)
	}

	machinePath := filepath.Join(t.TempDir(), MachineFileName)
	if err := os.WriteFile(machinePath, []byte("[machine]\nplatform_d = 80\n"), 0644); err != nil {
		t.Fatalf("failed to write machine file: %v", err)
	}
	cfg, err = LoadFrom("", machinePath)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Machine.PlatformDepth != 80 {
		t.Errorf("expected depth 80, got %v", cfg.Machine.PlatformDepth)
	}

	if _, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"), ""); err == nil {
		t.Error("expected error for missing config file")
	}
}
