// Package directive scans comments for inline suppression commands:
//
//	// swiftlint:disable <rule>... | all
//	// swiftlint:enable <rule>... | all
//	// swiftlint:disable:next <rule>...
//	// swiftlint:disable:this <rule>...
//	// swiftlint:disable:previous <rule>...
//
// The enable form accepts the same modifiers. The result is a set of byte
// regions per rule in which violations are dropped and fixes are not applied.
package directive

import (
	"strings"

	"github.com/rbrovko/SwiftLint/internal/source"
)

const prefix = "swiftlint:"

// All matches every rule.
const All = "all"

// Action is disable or enable.
type Action uint8

const (
	Disable Action = iota
	Enable
)

func (a Action) String() string {
	if a == Enable {
		return "enable"
	}
	return "disable"
}

// Modifier restricts a command to a single line.
type Modifier uint8

const (
	ModNone Modifier = iota
	ModNext
	ModThis
	ModPrevious
)

// Command is one parsed directive.
type Command struct {
	Action   Action
	Modifier Modifier
	Rules    []string
	// Span covers the directive text inside the comment.
	Span source.Span
}

// Parse extracts the commands written in a comment. text is the comment
// source starting at offset start; one comment may hold several commands.
// Malformed commands are returned in bad.
func Parse(file source.FileID, start uint32, text string) (cmds []Command, bad []source.Span) {
	rest := text
	base := start
	for {
		i := strings.Index(rest, prefix)
		if i < 0 {
			return cmds, bad
		}
		cmdStart := base + uint32(i)
		body := rest[i+len(prefix):]
		end := commandEnd(body)
		cmdText := body[:end]
		sp := source.Span{File: file, Start: cmdStart, End: cmdStart + uint32(len(prefix)+end)}
		if cmd, ok := parseCommand(cmdText); ok {
			cmd.Span = sp
			cmds = append(cmds, cmd)
		} else {
			bad = append(bad, sp)
		}
		consumed := i + len(prefix) + end
		rest = rest[consumed:]
		base += uint32(consumed)
	}
}

// commandEnd returns the length of the command in body: up to the end of the
// line, the end of a block comment or the next command.
func commandEnd(body string) int {
	end := len(body)
	for _, stop := range []string{"\n", "*/", prefix} {
		if i := strings.Index(body, stop); i >= 0 && i < end {
			end = i
		}
	}
	return end
}

func parseCommand(text string) (Command, bool) {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return Command{}, false
	}
	head := strings.SplitN(fields[0], ":", 2)
	var cmd Command
	switch head[0] {
	case "disable":
		cmd.Action = Disable
	case "enable":
		cmd.Action = Enable
	default:
		return Command{}, false
	}
	if len(head) == 2 {
		switch head[1] {
		case "next":
			cmd.Modifier = ModNext
		case "this":
			cmd.Modifier = ModThis
		case "previous":
			cmd.Modifier = ModPrevious
		default:
			return Command{}, false
		}
	}
	for _, f := range fields[1:] {
		// a trailing free-form reason may follow the rule list
		if !isRuleID(f) {
			break
		}
		cmd.Rules = append(cmd.Rules, f)
	}
	if len(cmd.Rules) == 0 {
		return Command{}, false
	}
	return cmd, true
}

func isRuleID(s string) bool {
	for i := 0; i < len(s); i++ {
		b := s[i]
		if (b < 'a' || b > 'z') && (b < '0' || b > '9') && b != '_' {
			return false
		}
	}
	return s != ""
}
