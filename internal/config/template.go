package config

import (
	"fmt"
	"strings"

	"github.com/rbrovko/SwiftLint/internal/rule"
)

// Template renders a commented default configuration listing every rule of
// reg.
func Template(reg *rule.Registry) string {
	var sb strings.Builder
	sb.WriteString("# swiftlint configuration\n\n")
	sb.WriteString("[rules]\n")
	sb.WriteString("# disabled = [\"void_return\"]\n")
	sb.WriteString("# only = []\n\n")
	for _, id := range reg.IDs() {
		r, _ := reg.Lookup(id)
		d := r.Description()
		fmt.Fprintf(&sb, "# %s\n", d.Summary)
		fmt.Fprintf(&sb, "[rules.%s]\n", id)
		fmt.Fprintf(&sb, "severity = %q\n", d.Severity.String())
		sb.WriteString("enabled = true\n\n")
	}
	sb.WriteString("[paths]\n")
	sb.WriteString("included = []\n")
	sb.WriteString("excluded = []\n\n")
	sb.WriteString("[lint]\n")
	sb.WriteString("max_diagnostics = 0\n")
	return sb.String()
}
