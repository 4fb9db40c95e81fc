package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/rbrovko/SwiftLint/internal/driver"
)

const (
	defaultWidth = 80
	statusWidth  = 12
	minNameWidth = 20
	timeRounding = time.Millisecond
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	runningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
)

var stageLabels = map[driver.Stage]string{
	driver.StageLoad:  "loading",
	driver.StageTree:  "reading tree",
	driver.StageLint:  "linting",
	driver.StageFix:   "fixing",
	driver.StageWrite: "writing",
}

func stageLabel(stage driver.Stage) string { return stageLabels[stage] }

// label is the status column text of a row.
func (r fileRow) label() string {
	switch r.status {
	case driver.StatusWorking:
		return stageLabel(r.stage)
	case driver.StatusDone, driver.StatusError, driver.StatusQueued:
		return string(r.status)
	}
	return ""
}

func (r fileRow) style() lipgloss.Style {
	switch r.status {
	case driver.StatusDone:
		return doneStyle
	case driver.StatusError:
		return failedStyle
	case driver.StatusWorking:
		return runningStyle
	}
	return mutedStyle
}

func (m *progressModel) View() string {
	if len(m.rows) == 0 {
		return ""
	}
	var b strings.Builder

	header := m.title
	if m.phase != "" {
		header += " (" + m.phase + ")"
	}
	if m.closed {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}
	b.WriteString(titleStyle.Render(header) + "\n\n")

	nameWidth := max(m.width-statusWidth-4, minNameWidth)
	for _, r := range m.rows {
		status := r.style().Render(fmt.Sprintf("%*s", statusWidth, r.label()))
		line := "  " + status + " " + truncate(r.path, nameWidth)
		switch {
		case r.err != nil:
			line += failedStyle.Render(" " + r.err.Error())
		case r.elapsed != "":
			line += mutedStyle.Render(" " + r.elapsed)
		}
		b.WriteString(line + "\n")
	}

	finished, failed := m.counts()
	fmt.Fprintf(&b, "  %d/%d files", finished, len(m.rows))
	if failed > 0 {
		b.WriteString(failedStyle.Render(fmt.Sprintf(", %d failed", failed)))
	}
	b.WriteString("\n\n")
	if m.closed {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n")
	return b.String()
}

// truncate shortens value to at most width terminal cells, marking the cut
// with "..." when there is room for it.
func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
