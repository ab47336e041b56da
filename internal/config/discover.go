// internal/config/discover.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

// EnvConfig names the environment variable that overrides discovery.
const EnvConfig = "HARDBOUND_CONFIG"

// DefaultPath returns the XDG-compliant default config path.
// The environment is re-read on every call.
func DefaultPath() string {
	xdg.Reload()
	return filepath.Join(xdg.ConfigHome, "hardbound", "config.toml")
}

// Discover finds the config file using the standard search order.
// Search order:
//  1. HARDBOUND_CONFIG environment variable
//  2. ./config.toml (current directory)
//  3. $XDG_CONFIG_HOME/hardbound/config.toml
//  4. /etc/hardbound/config.toml
func Discover() (string, error) {
	if envPath := os.Getenv(EnvConfig); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return "", fmt.Errorf("%s=%s: %w", EnvConfig, envPath, err)
		}
		return envPath, nil
	}

	paths := []string{
		"./config.toml",
		DefaultPath(),
		"/etc/hardbound/config.toml",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", fmt.Errorf("%w, checked: %s", ErrNotFound, strings.Join(paths, ", "))
}
