package editor

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/gamebase/engine/core"
	"github.com/spaghettifunk/gamebase/engine/serial"
)

const (
	InterfaceBasic    = "basic"
	InterfaceExtended = "extended"
)

// Settings is the editor configuration file.
type Settings struct {
	WorkingPath    string `toml:"working_path"`
	ImagesPath     string `toml:"images_path"`
	Interface      string `toml:"interface"`
	BackupsEnabled bool   `toml:"backups_enabled"`
	BackupsNum     int    `toml:"backups_num"`
	DefaultDesign  string `toml:"default_design"`
	// SaveEncoding is "current" or "legacy".
	SaveEncoding string `toml:"save_encoding"`
	Indent       int    `toml:"indent"`
	LogLevel     string `toml:"log_level"`
	Watch        bool   `toml:"watch"`
}

func DefaultSettings() Settings {
	return Settings{
		WorkingPath:    ".",
		ImagesPath:     "images",
		Interface:      InterfaceBasic,
		BackupsEnabled: true,
		BackupsNum:     3,
		SaveEncoding:   "current",
		Indent:         2,
		LogLevel:       "info",
	}
}

// LoadSettings reads path on top of the defaults. A missing file yields the
// defaults.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	buf, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		core.LogDebug("no settings at %s, using defaults", path)
		return s, nil
	}
	if err != nil {
		return s, errors.Wrapf(err, "can't read settings %s", path)
	}
	if err := toml.Unmarshal(buf, &s); err != nil {
		return DefaultSettings(), errors.Wrapf(err, "can't parse settings %s", path)
	}
	if err := s.validate(); err != nil {
		return DefaultSettings(), errors.Wrapf(err, "invalid settings %s", path)
	}
	return s, nil
}

func (s Settings) validate() error {
	if s.Interface != InterfaceBasic && s.Interface != InterfaceExtended {
		return errors.Newf("unknown interface %q", s.Interface)
	}
	if s.BackupsNum < 0 {
		return errors.Newf("backups_num must not be negative, got %d", s.BackupsNum)
	}
	if s.Indent < 0 {
		return errors.Newf("indent must not be negative, got %d", s.Indent)
	}
	_, err := s.Version()
	return err
}

func (s Settings) Save(path string) error {
	buf, err := toml.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "can't encode settings")
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "can't create %s", dir)
		}
	}
	return errors.Wrapf(os.WriteFile(path, buf, 0o644), "can't write settings %s", path)
}

// Version is the encoding designs are saved with.
func (s Settings) Version() (serial.Version, error) {
	return serial.ParseVersion(s.SaveEncoding)
}

func (s Settings) IsInterfaceExtended() bool {
	return s.Interface == InterfaceExtended
}

// Apply pushes the process wide parts of the settings.
func (s Settings) Apply() {
	core.SetLogLevel(core.ParseLogLevel(s.LogLevel))
}

// Resolve makes a relative path relative to the working path.
func (s Settings) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(s.WorkingPath, path)
}
