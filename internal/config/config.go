// Package config loads the project rule configuration from .swiftlint.toml.
package config

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/rbrovko/SwiftLint/internal/diag"
	"github.com/rbrovko/SwiftLint/internal/rule"
)

// FileName is the name of the configuration file.
const FileName = ".swiftlint.toml"

// ErrUnknownRule is returned when the configuration names a rule that is not
// registered.
var ErrUnknownRule = errors.New("unknown rule")

// Config is a decoded configuration file. The zero value enables every rule
// with its defaults and lints every discovered file.
type Config struct {
	// Path is the file the configuration was loaded from; empty for defaults.
	Path string
	// Root is the directory relative paths are resolved against.
	Root string

	Disabled []string
	Only     []string
	Rules    map[string]RuleConfig

	Included []string
	Excluded []string

	MaxDiagnostics int
}

// RuleConfig is the [rules.<id>] table.
type RuleConfig struct {
	Severity *diag.Severity `toml:"severity"`
	Enabled  *bool          `toml:"enabled"`
}

type fileConfig struct {
	Rules map[string]toml.Primitive `toml:"rules"`
	Paths pathsConfig               `toml:"paths"`
	Lint  lintConfig                `toml:"lint"`
}

type pathsConfig struct {
	Included []string `toml:"included"`
	Excluded []string `toml:"excluded"`
}

type lintConfig struct {
	MaxDiagnostics int `toml:"max_diagnostics"`
}

// Default returns the configuration used when no file is found.
func Default(root string) *Config {
	return &Config{Root: root, Rules: map[string]RuleConfig{}}
}

// Find walks up from startDir looking for FileName.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover loads the nearest configuration above startDir, or the defaults
// rooted at startDir when there is none.
func Discover(startDir string) (*Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		root, err := filepath.Abs(startDir)
		if err != nil {
			return nil, err
		}
		return Default(root), nil
	}
	return Load(path)
}

// Load decodes the configuration file at path. Unknown keys are errors.
func Load(path string) (*Config, error) {
	// #nosec G304 -- path is provided by the caller
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	cfg.Path = abs
	cfg.Root = filepath.Dir(abs)
	return cfg, nil
}

// Parse decodes configuration text.
func Parse(data []byte) (*Config, error) {
	var raw fileConfig
	meta, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	cfg := &Config{
		Rules:          make(map[string]RuleConfig, len(raw.Rules)),
		Included:       raw.Paths.Included,
		Excluded:       raw.Paths.Excluded,
		MaxDiagnostics: raw.Lint.MaxDiagnostics,
	}
	for key, prim := range raw.Rules {
		switch key {
		case "disabled":
			err = meta.PrimitiveDecode(prim, &cfg.Disabled)
		case "only":
			err = meta.PrimitiveDecode(prim, &cfg.Only)
		default:
			var rc RuleConfig
			err = meta.PrimitiveDecode(prim, &rc)
			cfg.Rules[key] = rc
		}
		if err != nil {
			return nil, fmt.Errorf("[rules].%s: %w", key, err)
		}
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	if cfg.MaxDiagnostics < 0 {
		return nil, fmt.Errorf("[lint].max_diagnostics must not be negative")
	}
	return cfg, nil
}

// Resolve turns the configuration into per-rule overrides for reg. Every
// rule ID the configuration mentions must be registered.
func (c *Config) Resolve(reg *rule.Registry) (rule.Configs, error) {
	check := func(where string, ids ...string) error {
		for _, id := range ids {
			if _, ok := reg.Lookup(id); !ok {
				return fmt.Errorf("%s: %w %q", where, ErrUnknownRule, id)
			}
		}
		return nil
	}
	if err := check("[rules].disabled", c.Disabled...); err != nil {
		return nil, err
	}
	if err := check("[rules].only", c.Only...); err != nil {
		return nil, err
	}
	for id := range c.Rules {
		if err := check("[rules."+id+"]", id); err != nil {
			return nil, err
		}
	}

	out := make(rule.Configs, len(reg.IDs()))
	for _, id := range reg.IDs() {
		var o rule.Override
		enabled := len(c.Only) == 0 || contains(c.Only, id)
		if contains(c.Disabled, id) {
			enabled = false
		}
		if rc, ok := c.Rules[id]; ok {
			o.Severity = rc.Severity
			if rc.Enabled != nil {
				enabled = *rc.Enabled
			}
		}
		o.Enabled = &enabled
		out[id] = o
	}
	return out, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Fingerprint identifies the effective configuration for cache keys.
func (c *Config) Fingerprint() (string, error) {
	canon := struct {
		Disabled       []string              `toml:"disabled"`
		Only           []string              `toml:"only"`
		Rules          map[string]RuleConfig `toml:"rules"`
		MaxDiagnostics int                   `toml:"max_diagnostics"`
	}{
		Disabled:       sorted(c.Disabled),
		Only:           sorted(c.Only),
		Rules:          c.Rules,
		MaxDiagnostics: c.MaxDiagnostics,
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(canon); err != nil {
		return "", fmt.Errorf("config fingerprint: %w", err)
	}
	sum := sha256.Sum256(buf.Bytes())
	return hex.EncodeToString(sum[:]), nil
}

func sorted(list []string) []string {
	out := append([]string(nil), list...)
	sort.Strings(out)
	return out
}
