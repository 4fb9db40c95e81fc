package trace

import (
	"fmt"
	"strings"
)

// Level selects how deep a run is recorded. Each level admits every scope
// up to and including its own depth.
type Level uint8

const (
	LevelOff    Level = iota // nothing is recorded
	LevelError               // reserved for failure dumps; spans are not recorded
	LevelPhase               // driver work only
	LevelDetail              // plus one span per file
	LevelDebug               // plus one span per rule and file
)

var levelNames = [...]string{
	LevelOff:    "off",
	LevelError:  "error",
	LevelPhase:  "phase",
	LevelDetail: "detail",
	LevelDebug:  "debug",
}

// deepest scope recorded at each level; zero records nothing
var levelDepth = [...]Scope{
	LevelPhase:  ScopeDriver,
	LevelDetail: ScopeFile,
	LevelDebug:  ScopeRule,
}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel accepts a level name in any case.
func ParseLevel(s string) (Level, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for l, n := range levelNames {
		if n == name {
			return Level(l), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames[:], "|"))
}

// ShouldEmit reports whether events of scope are recorded at level l.
func (l Level) ShouldEmit(scope Scope) bool {
	if int(l) >= len(levelDepth) {
		return false
	}
	depth := levelDepth[l]
	return depth != 0 && scope <= depth
}
