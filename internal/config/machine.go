package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/ini.v1"
)

// MachineFileName is the machine description looked up next to the config.
const MachineFileName = "xburn.ini"

// findMachineFile looks for the machine INI in standard locations.
func findMachineFile() string {
	candidates := []string{
		"./" + MachineFileName,
		filepath.Join(ConfigDir(), MachineFileName),
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// loadMachine overlays the [machine] section of an INI file:
//
//	[machine]
//	platform_w = 300
//	platform_d = 200
//	rapid_rate = 6000
//
// Missing keys and unparsable values keep what cfg already holds.
func loadMachine(cfg *Config, path string) error {
	f, err := ini.Load(path)
	if err != nil {
		return err
	}
	sec := f.Section("machine")
	m := &cfg.Machine
	if sec.HasKey("platform_w") {
		m.PlatformWidth = sec.Key("platform_w").MustFloat64(m.PlatformWidth)
	}
	if sec.HasKey("platform_d") {
		m.PlatformDepth = sec.Key("platform_d").MustFloat64(m.PlatformDepth)
	}
	if sec.HasKey("rapid_rate") {
		m.RapidRate = sec.Key("rapid_rate").MustFloat64(m.RapidRate)
	}
	if m.PlatformWidth <= 0 || m.PlatformDepth <= 0 {
		return fmt.Errorf("platform size %vx%v is not positive", m.PlatformWidth, m.PlatformDepth)
	}
	return nil
}

// SaveMachine writes the machine section as INI.
func (c *Config) SaveMachine(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f := ini.Empty()
	sec := f.Section("machine")
	sec.Key("platform_w").SetValue(fmt.Sprint(c.Machine.PlatformWidth))
	sec.Key("platform_d").SetValue(fmt.Sprint(c.Machine.PlatformDepth))
	sec.Key("rapid_rate").SetValue(fmt.Sprint(c.Machine.RapidRate))
	return f.SaveTo(path)
}
