// internal/config/validate.go
package config

import (
	"fmt"
	"os"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	if !validLogLevels[c.Log.Level] {
		errs = append(errs, fmt.Sprintf("log.level: must be one of debug, info, warn, error; got %q", c.Log.Level))
	}

	if c.Link.PathCap < 0 {
		errs = append(errs, fmt.Sprintf("link.path_cap: must be positive, got %d", c.Link.PathCap))
	}

	if _, err := parseMode(c.Ownership.FileMode); c.Ownership.FileMode != "" && err != nil {
		errs = append(errs, fmt.Sprintf("ownership.file_mode: %v", err))
	}
	if _, err := parseMode(c.Ownership.DirMode); c.Ownership.DirMode != "" && err != nil {
		errs = append(errs, fmt.Sprintf("ownership.dir_mode: %v", err))
	}

	for _, p := range []struct{ key, dir string }{
		{"paths.library", c.Paths.Library},
		{"paths.torrent", c.Paths.Torrent},
	} {
		if p.dir == "" {
			continue
		}
		if _, err := os.Stat(p.dir); os.IsNotExist(err) {
			errs = append(errs, fmt.Sprintf("%s: directory %q does not exist", p.key, p.dir))
		}
	}

	return errs
}
