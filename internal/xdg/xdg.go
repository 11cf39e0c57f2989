// Package xdg provides XDG Base Directory paths for QuillCMS.
package xdg

import (
	"os"
	"path/filepath"
)

const appName = "quillcms"

// ConfigDir returns the XDG config directory for quillcms.
// Checks XDG_CONFIG_HOME first, falls back to ~/.config.
func ConfigDir() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		base = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(base, appName)
}

// DataDir returns the XDG data directory for quillcms.
// Checks XDG_DATA_HOME first, falls back to ~/.local/share.
func DataDir() string {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		base = filepath.Join(os.Getenv("HOME"), ".local", "share")
	}
	return filepath.Join(base, appName)
}

// DefaultConfigFile returns the path of the default config file if it
// exists, or empty when absent.
func DefaultConfigFile() string {
	path := filepath.Join(ConfigDir(), "quillcms.yaml")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}
