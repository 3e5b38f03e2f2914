// Package config loads and persists the INI-backed settings file at
// $HOME/.config/woodaudio/config.ini, mirroring
// original_source/src/config.rs's section layout and defaulting rules.
//
// Grounded on original_source/src/config.rs (section names, defaults,
// save-back semantics) and on the teacher's internal/config for the
// Load/Save/DefaultPath shape, adapted from the teacher's viper+YAML
// document to gopkg.in/ini.v1 and the INI sections spec §6 names — the
// on-disk format the original implementation actually used.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/ini.v1"

	"github.com/woodaudio/player/internal/platform"
)

// Tidal holds the persisted OAuth session. Only the backend collaborator
// writes refreshed tokens back; the core process reads these once at
// startup (spec §6).
type Tidal struct {
	TokenType    string
	AccessToken  string
	RefreshToken string
}

// Player holds playback tuning knobs exposed to the user.
type Player struct {
	BufferLimit   int
	SampleRate    int
	DefaultVolume float64
}

// GUI holds the external GUI collaborator's display preferences. Load reads
// them, but nothing in the core process acts on them, and Save does not
// write them back.
type GUI struct {
	DisplayCoverBackground bool
	DisplayCoverForeground bool
}

// ExporterFile toggles writing now-playing state to a local file.
type ExporterFile struct {
	Enabled bool
	Path    string
}

// ExporterFTP toggles serving/reading the cache over FTP.
type ExporterFTP struct {
	Enabled   bool
	Server    string
	Share     string
	Username  string
	Password  string
	CacheRead bool
}

// Config is the full persisted settings document.
type Config struct {
	path         string
	Tidal        Tidal
	Player       Player
	GUI          GUI
	ExporterFile ExporterFile
	ExporterFTP  ExporterFTP
}

// DefaultPath returns $HOME/.config/woodaudio/config.ini.
func DefaultPath() (string, error) {
	dir, err := platform.GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.ini"), nil
}

// Load reads path, defaulting every field whose section or key is absent
// — a missing file is not an error, matching original_source's
// Ini::load_from_file(...).unwrap_or_default().
func Load(path string) (*Config, error) {
	doc := ini.Empty()
	if _, err := os.Stat(path); err == nil {
		loaded, err := ini.Load(path)
		if err != nil {
			return nil, err
		}
		doc = loaded
	}

	c := &Config{path: path}

	tidal := doc.Section("Tidal")
	c.Tidal.TokenType = tidal.Key("token_type").MustString("Bearer")
	c.Tidal.AccessToken = tidal.Key("access_token").String()
	c.Tidal.RefreshToken = tidal.Key("refresh_token").String()

	player := doc.Section("Player")
	c.Player.BufferLimit = player.Key("buffer_limit").MustInt(3)
	c.Player.SampleRate = player.Key("sample_rate").MustInt(44100)
	c.Player.DefaultVolume = player.Key("default_volume").MustFloat64(1.0)

	gui := doc.Section("GUI")
	c.GUI.DisplayCoverBackground = gui.Key("display_cover_background").MustBool(true)
	c.GUI.DisplayCoverForeground = gui.Key("display_cover_foreground").MustBool(true)

	file := doc.Section("ExporterFile")
	c.ExporterFile.Enabled = file.Key("enabled").MustBool(false)
	c.ExporterFile.Path = file.Key("path").String()

	ftp := doc.Section("ExporterFTP")
	c.ExporterFTP.Enabled = ftp.Key("enabled").MustBool(false)
	c.ExporterFTP.Server = ftp.Key("server").String()
	c.ExporterFTP.Share = ftp.Key("share").String()
	c.ExporterFTP.Username = ftp.Key("username").String()
	c.ExporterFTP.Password = ftp.Key("password").String()
	c.ExporterFTP.CacheRead = ftp.Key("cache_read").MustBool(false)

	return c, nil
}

// Save writes back only the [Tidal] section's refreshed-token fields, per
// spec §6's "the core process reads at startup only" — the backend
// collaborator is the sole writer of this method, not the core pipeline.
func (c *Config) Save() error {
	doc := ini.Empty()
	tidal := doc.Section("Tidal")
	tidal.Key("token_type").SetValue(c.Tidal.TokenType)
	tidal.Key("access_token").SetValue(c.Tidal.AccessToken)
	tidal.Key("refresh_token").SetValue(c.Tidal.RefreshToken)
	return doc.SaveTo(c.path)
}
