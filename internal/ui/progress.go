package ui

import (
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rbrovko/SwiftLint/internal/driver"
)

// fileRow is one line of the progress list.
type fileRow struct {
	path    string
	stage   driver.Stage
	status  driver.Status
	err     error
	elapsed string
}

func (r fileRow) finished() bool {
	return r.status == driver.StatusDone || r.status == driver.StatusError
}

// share is the fraction of the row's work already behind it.
func (r fileRow) share() float64 {
	if r.finished() {
		return 1
	}
	return progressFromStage(r.stage)
}

type progressModel struct {
	title   string
	events  <-chan driver.Event
	spinner spinner.Model
	bar     progress.Model
	rows    []fileRow
	byPath  map[string]int
	phase   string // run-wide stage, shown next to the title
	width   int
	closed  bool
}

type driverMsg driver.Event
type streamClosedMsg struct{}

// NewProgressModel renders per-file lint or correction progress from a
// driver event stream. The program quits once events is closed.
func NewProgressModel(title string, files []string, events <-chan driver.Event) tea.Model {
	sp := spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(runningStyle))
	bar := progress.New(progress.WithDefaultGradient(), progress.WithWidth(defaultWidth-4))

	m := &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     bar,
		rows:    make([]fileRow, len(files)),
		byPath:  make(map[string]int, len(files)),
		width:   defaultWidth,
	}
	for i, f := range files {
		m.rows[i] = fileRow{path: f, stage: driver.StageLoad, status: driver.StatusQueued}
		m.byPath[f] = i
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

// next waits for the following driver event.
func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		if ev, ok := <-m.events; ok {
			return driverMsg(ev)
		}
		return streamClosedMsg{}
	}
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case driverMsg:
		return m, tea.Batch(m.applyEvent(driver.Event(msg)), m.next())
	case streamClosedMsg:
		m.closed = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.closed {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

// applyEvent records ev and returns the command animating the bar.
// Events for files outside the batch are ignored.
func (m *progressModel) applyEvent(ev driver.Event) tea.Cmd {
	if ev.File == "" {
		if ev.Status == driver.StatusWorking {
			m.phase = stageLabel(ev.Stage)
		}
		return nil
	}
	i, ok := m.byPath[ev.File]
	if !ok {
		return nil
	}
	row := &m.rows[i]
	row.stage, row.status = ev.Stage, ev.Status
	if ev.Err != nil {
		row.err = ev.Err
	}
	if row.finished() && ev.Elapsed > 0 {
		row.elapsed = ev.Elapsed.Round(timeRounding).String()
	}
	return m.bar.SetPercent(m.fraction())
}

func (m *progressModel) fraction() float64 {
	if len(m.rows) == 0 {
		return 0
	}
	var sum float64
	for _, r := range m.rows {
		sum += r.share()
	}
	return sum / float64(len(m.rows))
}

func (m *progressModel) counts() (finished, failed int) {
	for _, r := range m.rows {
		if r.finished() {
			finished++
		}
		if r.status == driver.StatusError {
			failed++
		}
	}
	return finished, failed
}

// Stage weights; a file spends most of its time in the rules.
func progressFromStage(stage driver.Stage) float64 {
	return map[driver.Stage]float64{
		driver.StageTree:  0.2,
		driver.StageLint:  0.5,
		driver.StageFix:   0.5,
		driver.StageWrite: 0.9,
	}[stage]
}
