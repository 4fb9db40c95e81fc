package rule

import (
	"github.com/rbrovko/SwiftLint/internal/diag"
)

// Config holds the adjustable parameters of one rule.
type Config struct {
	Severity diag.Severity
	Enabled  bool
}

// Override is a partial configuration; nil fields keep the default.
type Override struct {
	Severity *diag.Severity
	Enabled  *bool
}

// Configs maps rule IDs to overrides. The zero value configures every rule
// with its defaults.
type Configs map[string]Override

// Default returns the configuration implied by d alone.
func Default(d Description) Config {
	return Config{Severity: d.Severity, Enabled: true}
}

// For resolves the effective configuration of the rule described by d.
func (c Configs) For(d Description) Config {
	cfg := Default(d)
	if o, ok := c[d.ID]; ok {
		if o.Severity != nil {
			cfg.Severity = *o.Severity
		}
		if o.Enabled != nil {
			cfg.Enabled = *o.Enabled
		}
	}
	return cfg
}
