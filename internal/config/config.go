// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
)

// Default values applied when a key is absent.
const (
	DefaultPathCap  = 180
	DefaultFileMode = "0644"
	DefaultDirMode  = "0755"
	DefaultLogLevel = "info"
)

// Config is the root configuration structure.
type Config struct {
	Paths     PathsConfig     `toml:"paths"`
	Link      LinkConfig      `toml:"link"`
	Ownership OwnershipConfig `toml:"ownership"`
	Log       LogConfig       `toml:"log"`
}

type PathsConfig struct {
	Library   string `toml:"library"`    // default source root for relative --src
	Torrent   string `toml:"torrent"`    // default destination root for RED mode
	HistoryDB string `toml:"history_db"` // run journal; "" disables
}

type LinkConfig struct {
	ZeroPad      bool     `toml:"zero_pad"`
	AlsoCover    bool     `toml:"also_cover"`
	Force        bool     `toml:"force"`
	Preflight    bool     `toml:"preflight"`
	PathCap      int      `toml:"path_cap"`
	ExcludeNames []string `toml:"exclude_names"`
	ExcludeExts  []string `toml:"exclude_exts"`
}

type OwnershipConfig struct {
	SetPermissions bool   `toml:"set_permissions"`
	FileMode       string `toml:"file_mode"`
	DirMode        string `toml:"dir_mode"`
	User           string `toml:"user"`
	Group          string `toml:"group"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns a configuration with every default applied, used when
// no config file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults(nil)
	return cfg
}

// Load reads, substitutes, parses and validates the configuration file.
// Unresolved variables and validation failures are returned together as
// a *ConfigError.
func Load(path string) (*Config, error) {
	cfg, missing, err := load(path)
	if err != nil {
		return nil, err
	}

	cerr := &ConfigError{Path: path, Missing: missing, Errors: cfg.Validate()}
	if cerr.HasErrors() {
		return nil, cerr
	}
	return cfg, nil
}

// LoadWithoutValidation parses the configuration without checking
// unresolved variables or field values.
func LoadWithoutValidation(path string) (*Config, error) {
	cfg, _, err := load(path)
	return cfg, err
}

func load(path string) (*Config, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading config: %w", err)
	}

	content, missing := substituteEnvVars(string(data))

	var cfg Config
	md, err := toml.Decode(content, &cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults(&md)
	return &cfg, missing, nil
}

func (c *Config) applyDefaults(md *toml.MetaData) {
	defined := func(key ...string) bool { return md != nil && md.IsDefined(key...) }

	if !defined("link", "zero_pad") {
		c.Link.ZeroPad = true
	}
	if !defined("link", "preflight") {
		c.Link.Preflight = true
	}
	if c.Link.PathCap == 0 {
		c.Link.PathCap = DefaultPathCap
	}
	if !defined("link", "exclude_names") {
		c.Link.ExcludeNames = []string{"cover.jpg", "metadata.json"}
	}
	if !defined("link", "exclude_exts") {
		c.Link.ExcludeExts = []string{".epub"}
	}
	if c.Ownership.FileMode == "" {
		c.Ownership.FileMode = DefaultFileMode
	}
	if c.Ownership.DirMode == "" {
		c.Ownership.DirMode = DefaultDirMode
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if !defined("paths", "history_db") {
		c.Paths.HistoryDB = DefaultHistoryPath()
	}
	c.Paths.Library = expandHome(c.Paths.Library)
	c.Paths.Torrent = expandHome(c.Paths.Torrent)
	c.Paths.HistoryDB = expandHome(c.Paths.HistoryDB)
}

// expandHome replaces a leading "~/" with the user's home directory.
func expandHome(p string) string {
	if !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[2:])
}

// Modes parses the octal file and directory modes.
func (o OwnershipConfig) Modes() (file, dir os.FileMode, err error) {
	f, err := parseMode(o.FileMode)
	if err != nil {
		return 0, 0, fmt.Errorf("ownership.file_mode: %w", err)
	}
	d, err := parseMode(o.DirMode)
	if err != nil {
		return 0, 0, fmt.Errorf("ownership.dir_mode: %w", err)
	}
	return f, d, nil
}

func parseMode(s string) (os.FileMode, error) {
	v, err := strconv.ParseUint(strings.TrimPrefix(s, "0o"), 8, 32)
	if err != nil || v > 0o7777 {
		return 0, fmt.Errorf("invalid octal mode %q", s)
	}
	return os.FileMode(v), nil
}

// DefaultHistoryPath returns the XDG data location of the run journal.
func DefaultHistoryPath() string {
	xdg.Reload()
	return filepath.Join(xdg.DataHome, "hardbound", "history.db")
}

// envVarPattern matches ${VAR}, ${VAR:-default} and ${VAR:?message}.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?:(:-|:\?)([^}]*))?\}`)

// substituteEnvVars replaces variable references with environment values.
// Unresolved references are left in place and reported in missing; a
// ${VAR:?message} reference reports "VAR: message".
func substituteEnvVars(content string) (string, []string) {
	var missing []string
	out := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		m := envVarPattern.FindStringSubmatch(match)
		name, op, arg := m[1], m[2], m[3]
		value, ok := os.LookupEnv(name)

		switch op {
		case ":-":
			if !ok || value == "" {
				return arg
			}
			return value
		case ":?":
			if !ok || value == "" {
				missing = append(missing, name+": "+arg)
				return match
			}
			return value
		}
		if !ok {
			missing = append(missing, name)
			return match
		}
		return value
	})
	return out, missing
}
