// Package config provides configuration management for fusionctl.
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Paths holds platform-specific directory paths for fusionctl.
type Paths struct {
	// ConfigDir is the directory for configuration files.
	// macOS: ~/Library/Application Support/fusionctl
	// Linux: ~/.config/fusionctl (or XDG_CONFIG_HOME)
	ConfigDir string

	// DataDir holds the metadata database and an optional config.yaml.
	// All platforms: ~/.fusionctl
	DataDir string

	// VMDir is where VMware Fusion keeps its virtual machines.
	VMDir string
}

// GetPaths returns platform-aware paths for fusionctl.
func GetPaths() (*Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	p := &Paths{
		DataDir: filepath.Join(home, ".fusionctl"),
		VMDir:   filepath.Join(home, "Documents", "Virtual Machines.localized"),
	}

	switch runtime.GOOS {
	case "darwin":
		p.ConfigDir = filepath.Join(home, "Library", "Application Support", "fusionctl")
	default:
		if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
			p.ConfigDir = filepath.Join(xdgConfig, "fusionctl")
		} else {
			p.ConfigDir = filepath.Join(home, ".config", "fusionctl")
		}
	}

	return p, nil
}

// expandHome replaces a leading "~/" with the user's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
