package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"mocheck/internal/driver"
)

// defaultRows is how many recent files stay visible.
const defaultRows = 12

type progressModel struct {
	title     string
	root      string
	events    <-chan driver.Event
	spinner   spinner.Model
	items     []fileItem
	index     map[string]int
	processed int
	failed    int
	errors    int
	rows      int
	width     int
	done      bool
}

type fileItem struct {
	path   string
	status string
	errors int
}

type eventMsg driver.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders validation
// progress. The file count is unknown up front, so it shows a spinner and a
// running tally. root is trimmed from displayed paths.
func NewProgressModel(title, root string, events <-chan driver.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	return &progressModel{
		title:   title,
		root:    root,
		events:  events,
		spinner: sp,
		index:   make(map[string]int),
		rows:    defaultRows,
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		m.applyEvent(driver.Event(msg))
		return m, m.listenForEvent()
	case doneMsg:
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
		}
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *progressModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := fmt.Sprintf("%s (%d checked, %d failed)", m.title, m.processed, m.failed)
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	statusWidth := 12
	nameWidth := max(m.width-statusWidth-4, 20)

	start := max(len(m.items)-m.rows, 0)
	for _, item := range m.items[start:] {
		status := item.status
		if item.errors > 0 {
			status = fmt.Sprintf("%d errors", item.errors)
		}
		statusStyled := styleStatus(item.status).Render(fmt.Sprintf("%12s", status))
		fmt.Fprintf(&b, "  %s %s\n", statusStyled, truncate(m.display(item.path), nameWidth))
	}
	if m.errors > 0 {
		fmt.Fprintf(&b, "\n  %d syntax errors so far\n", m.errors)
	}
	return b.String()
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev driver.Event) {
	idx, ok := m.index[ev.Path]
	if !ok {
		idx = len(m.items)
		m.items = append(m.items, fileItem{path: ev.Path, status: "queued"})
		m.index[ev.Path] = idx
	}
	switch ev.Kind {
	case driver.EventStarted:
		m.items[idx].status = "parsing"
	case driver.EventFinished:
		m.processed++
		m.items[idx].status = ev.Outcome.Status()
		m.items[idx].errors = ev.Outcome.Errors
		if ev.Outcome.Cached && !ev.Outcome.Failed() {
			m.items[idx].status = "cached"
		}
		if ev.Outcome.Failed() {
			m.failed++
		}
		m.errors += ev.Outcome.Errors
	}
}

func (m *progressModel) display(path string) string {
	if m.root == "" {
		return path
	}
	if rel, err := filepath.Rel(m.root, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}

func styleStatus(status string) lipgloss.Style {
	switch status {
	case "ok", "cached":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case "fail", "error":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case "parsing":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
