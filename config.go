package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"

	"koala64/disk"
	"koala64/emu/log"
	"koala64/hw"
	"koala64/show"
	"koala64/ui/shaders"
)

type Config struct {
	Drive DriveConfig `toml:"drive"`
	Show  ShowConfig  `toml:"show"`
	Video VideoConfig `toml:"video"`
	ROMs  ROMConfig   `toml:"roms"`
}

type DriveConfig struct {
	Device      uint8  `toml:"device"`
	Path        string `toml:"path"`         // directory or D64 image
	StatusQuirk bool   `toml:"status_quirk"` // failed loads report success
}

type ShowConfig struct {
	Layout     string   `toml:"layout"`
	Wait       duration `toml:"wait"` // 0 waits for a key
	ErrorColor hw.Color `toml:"error_color"`
	RetryDelay duration `toml:"retry_delay"`
	Capacity   int      `toml:"capacity"`
}

type VideoConfig struct {
	Scale  int    `toml:"scale"`
	Shader string `toml:"shader"`
}

// ROMConfig points to a directory holding the basic, kernal and chargen
// ROM dumps. The slideshow doesn't need them, they only show up in the
// rendered frame of text modes.
type ROMConfig struct {
	Dir string `toml:"dir"`
}

var defaultConfig = Config{
	Drive: DriveConfig{
		Device: disk.DefaultDevice,
		Path:   ".",
	},
	Show: ShowConfig{
		Layout:     show.LayoutLow.Name,
		ErrorColor: hw.Red,
		Capacity:   show.DefaultCapacity,
	},
	Video: VideoConfig{
		Scale:  2,
		Shader: shaders.DefaultName,
	},
}

const cfgFilename = "config.toml"

// ConfigPath returns the default configuration file path.
var ConfigPath = sync.OnceValue(func() string {
	cfgdir, err := os.UserConfigDir()
	if err != nil {
		log.ModConfig.WarnZ("no user config directory").Error("err", err).End()
		return cfgFilename
	}
	return filepath.Join(cfgdir, "koala64", cfgFilename)
})

// LoadConfig loads the configuration file at path over the default
// configuration. A missing file isn't an error.
func LoadConfig(path string) (Config, error) {
	cfg := defaultConfig
	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) {
		log.ModConfig.DebugZ("no config file").String("path", path).End()
		return defaultConfig, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		keys := make([]string, len(undec))
		for i, k := range undec {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the values of cfg, all problems are reported.
func (cfg *Config) Validate() error {
	var errs []error
	if cfg.Drive.Device < 8 || cfg.Drive.Device > 30 {
		errs = append(errs, fmt.Errorf("drive.device: %d not in [8, 30]", cfg.Drive.Device))
	}
	if _, err := show.LayoutByName(cfg.Show.Layout); err != nil {
		errs = append(errs, fmt.Errorf("show.layout: %w", err))
	}
	if cfg.Show.Wait.Duration < 0 {
		errs = append(errs, fmt.Errorf("show.wait: negative duration"))
	}
	if cfg.Show.RetryDelay.Duration < 0 {
		errs = append(errs, fmt.Errorf("show.retry_delay: negative duration"))
	}
	if cfg.Show.ErrorColor > hw.LightGrey {
		errs = append(errs, fmt.Errorf("show.error_color: invalid color %d", cfg.Show.ErrorColor))
	}
	if cfg.Show.Capacity <= 0 {
		errs = append(errs, fmt.Errorf("show.capacity: must be positive"))
	}
	if cfg.Video.Scale < 1 || cfg.Video.Scale > 8 {
		errs = append(errs, fmt.Errorf("video.scale: %d not in [1, 8]", cfg.Video.Scale))
	}
	if !slices.Contains(shaders.Names(), cfg.Video.Shader) {
		errs = append(errs, fmt.Errorf("video.shader: unknown shader %q", cfg.Video.Shader))
	}
	return errors.Join(errs...)
}

// WriteTo writes cfg in TOML format.
func (cfg Config) WriteTo(w io.Writer) (int64, error) {
	cw := &countWriter{w: w}
	err := toml.NewEncoder(cw).Encode(cfg)
	return cw.n, err
}

// SaveConfig writes cfg to path, creating the parent directories.
func SaveConfig(cfg Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := cfg.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

type countWriter struct {
	w io.Writer
	n int64
}

func (cw *countWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

// duration is a time.Duration written as a string ("1m30s") in TOML.
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}
