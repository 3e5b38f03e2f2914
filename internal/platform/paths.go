// Package platform resolves the OS-specific directories woodaudio uses for
// cached audio and temporary files. Config resolution is deliberately not
// OS-specific: spec §6 pins the config file to a fixed path.
package platform

import (
	"os"
	"path/filepath"
	"runtime"
)

const (
	osWindows = "windows"
	osDarwin  = "darwin"
)

// GetConfigDir returns $HOME/.config/woodaudio on every platform, per
// spec §6's fixed persisted-state path.
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "woodaudio"), nil
}

// GetCacheDir returns the platform-specific cache directory used by the
// fetcher's optional on-disk Cache collaborator.
func GetCacheDir() (string, error) {
	switch runtime.GOOS {
	case osWindows:
		if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
			return filepath.Join(localAppData, "woodaudio", "cache"), nil
		}
		return filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Local", "woodaudio", "cache"), nil
	case osDarwin:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "Caches", "woodaudio"), nil
	default:
		if xdgCache := os.Getenv("XDG_CACHE_HOME"); xdgCache != "" {
			return filepath.Join(xdgCache, "woodaudio"), nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".cache", "woodaudio"), nil
	}
}

// GetTempDir returns a scratch directory for in-flight downloads, cleared
// on restart by the caller if desired.
func GetTempDir() (string, error) {
	cache, err := GetCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cache, "tmp"), nil
}
