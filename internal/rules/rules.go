// Package rules holds the built-in rule instances.
package rules

import (
	"github.com/rbrovko/SwiftLint/internal/rule"
)

// Builtin returns a fresh instance of every built-in rule.
func Builtin() []rule.Rule {
	return []rule.Rule{
		ClosureParameterPosition{},
		VoidReturn{},
	}
}

// NewRegistry returns a registry of the built-in rules.
func NewRegistry() (*rule.Registry, error) {
	return rule.NewRegistry(Builtin()...)
}
