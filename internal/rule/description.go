package rule

import (
	"github.com/rbrovko/SwiftLint/internal/diag"
)

// Marker marks violation and correction locations in example corpora.
const Marker = "↓"

// CorrectionExample is a before/after pair. Before carries a Marker at each
// correction location.
type CorrectionExample struct {
	Before string `yaml:"before" json:"before"`
	After  string `yaml:"after" json:"after"`
}

// Description is the static identity of a rule together with its example
// corpora. The corpora are replayed by the test harness.
type Description struct {
	ID          string        `yaml:"id" json:"id"`
	Name        string        `yaml:"name" json:"name"`
	Summary     string        `yaml:"summary" json:"summary"`
	Kind        Kind          `yaml:"kind" json:"kind"`
	Severity    diag.Severity `yaml:"severity" json:"severity"`
	Correctable bool          `yaml:"correctable" json:"correctable"`

	NonTriggering []string            `yaml:"non_triggering,omitempty" json:"non_triggering,omitempty"`
	Triggering    []string            `yaml:"triggering,omitempty" json:"triggering,omitempty"`
	Corrections   []CorrectionExample `yaml:"corrections,omitempty" json:"corrections,omitempty"`
}
