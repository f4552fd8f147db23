package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"graft/internal/driver"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	busyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	idleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	tallyStyle  = lipgloss.NewStyle().Faint(true)
	statusWidth = 10
)

// Weight of each stage toward a file's share of the aggregate bar. Matching
// dominates the wall clock, so a file that reached the write stage is
// nearly done.
func stageFraction(stage driver.Stage) float64 {
	switch stage {
	case driver.StageLoad:
		return 0.2
	case driver.StagePatch:
		return 0.6
	case driver.StageWrite:
		return 0.9
	default:
		return 0.0
	}
}

// fileRow is the live state of one target file in the view.
type fileRow struct {
	path    string
	stage   driver.Stage
	status  driver.Status
	inserts int
}

// label renders the status column. Finished files show what happened to
// them: "+n" when insertions went in, "clean" when every rule was already
// present or found nothing.
func (r *fileRow) label() string {
	switch r.status {
	case driver.StatusError:
		return "error"
	case driver.StatusDone:
		if r.inserts > 0 {
			return fmt.Sprintf("+%d", r.inserts)
		}
		return "clean"
	case driver.StatusWorking:
		switch r.stage {
		case driver.StageLoad:
			return "loading"
		case driver.StagePatch:
			return "matching"
		case driver.StageWrite:
			return "writing"
		}
	}
	return "queued"
}

func (r *fileRow) style() lipgloss.Style {
	switch r.status {
	case driver.StatusError:
		return failStyle
	case driver.StatusDone:
		if r.inserts > 0 {
			return okStyle
		}
		return idleStyle
	case driver.StatusWorking:
		return busyStyle
	default:
		return idleStyle
	}
}

func (r *fileRow) fraction() float64 {
	switch r.status {
	case driver.StatusDone, driver.StatusError:
		return 1.0
	case driver.StatusWorking:
		return stageFraction(r.stage)
	default:
		return 0.0
	}
}

type progressModel struct {
	title   string
	events  <-chan driver.Event
	spinner spinner.Model
	bar     progress.Model
	rows    []*fileRow
	byPath  map[string]*fileRow
	width   int
	done    bool
}

type eventMsg driver.Event
type drainedMsg struct{}

// NewProgressModel returns the Bubble Tea model behind a live patch run:
// a spinner, one row per target file with its current stage and insertion
// count, and an aggregate bar weighted by how far each file has come.
// Closing the event channel ends the program.
func NewProgressModel(title string, files []string, events <-chan driver.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = busyStyle

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 76

	rows := make([]*fileRow, 0, len(files))
	byPath := make(map[string]*fileRow, len(files))
	for _, file := range files {
		row := &fileRow{path: file, status: driver.StatusQueued}
		rows = append(rows, row)
		byPath[file] = row
	}
	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     bar,
		rows:    rows,
		byPath:  byPath,
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.nextEvent())
}

func (m *progressModel) nextEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return drainedMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(driver.Event(msg))
		return m, tea.Batch(cmd, m.nextEvent())
	case drainedMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
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
		return m, nil
	case progress.FrameMsg:
		next, cmd := m.bar.Update(msg)
		m.bar = next.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) applyEvent(ev driver.Event) tea.Cmd {
	row, ok := m.byPath[ev.File]
	if !ok {
		return nil
	}
	row.stage = ev.Stage
	row.status = ev.Status
	if ev.Inserts > 0 {
		row.inserts = ev.Inserts
	}

	total := 0.0
	for _, r := range m.rows {
		total += r.fraction()
	}
	return m.bar.SetPercent(total / float64(len(m.rows)))
}

func (m *progressModel) View() string {
	if len(m.rows) == 0 {
		return ""
	}
	header := m.title
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	nameWidth := m.width - statusWidth - 4
	if nameWidth < 20 {
		nameWidth = 20
	}
	for _, row := range m.rows {
		status := row.style().Render(fmt.Sprintf("%*s", statusWidth, row.label()))
		b.WriteString("  " + status + " " + clipPath(row.path, nameWidth) + "\n")
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.bar.ViewAs(1.0))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n")
	b.WriteString(tallyStyle.Render(m.tally()))
	b.WriteString("\n")
	return b.String()
}

// tally summarizes the run under the bar: how many files finished, how many
// insertions went in so far and how many files failed.
func (m *progressModel) tally() string {
	finished, inserts, failed := 0, 0, 0
	for _, r := range m.rows {
		switch r.status {
		case driver.StatusDone:
			finished++
			inserts += r.inserts
		case driver.StatusError:
			finished++
			failed++
		}
	}
	s := fmt.Sprintf("%d/%d files, %d insertions", finished, len(m.rows), inserts)
	if failed > 0 {
		s += fmt.Sprintf(", %d failed", failed)
	}
	return s
}

// clipPath shortens a path to fit the row, cutting by display width so
// wide runes do not break the column layout.
func clipPath(path string, width int) string {
	if width <= 0 || runewidth.StringWidth(path) <= width {
		return path
	}
	if width <= 3 {
		return runewidth.Truncate(path, width, "")
	}
	return runewidth.Truncate(path, width-3, "...")
}
