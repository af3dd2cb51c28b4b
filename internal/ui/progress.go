// Package ui renders batch generation progress in the terminal.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"callgen/internal/driver"
)

// recentLimit bounds the list of recently finished programs.
const recentLimit = 8

type progressModel struct {
	title   string
	total   int
	events  <-chan driver.Event
	spinner spinner.Model
	prog    progress.Model
	recent  []recentItem
	working int
	done    int
	failed  int
	calls   int
	width   int
	quit    bool
}

type recentItem struct {
	index  int
	status driver.Status
	calls  int
	err    error
}

type eventMsg driver.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders batch progress
// until events is closed.
func NewProgressModel(title string, total int, events <-chan driver.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 76

	return &progressModel{
		title:   title,
		total:   total,
		events:  events,
		spinner: sp,
		prog:    bar,
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(driver.Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.quit = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.quit {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		bar, cmd := m.prog.Update(msg)
		m.prog = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := fmt.Sprintf("%s (%d/%d)", m.title, m.done+m.failed, m.total)
	if m.quit {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	nameWidth := max(m.width-16, 20)
	for _, item := range m.recent {
		label := string(item.status)
		line := fmt.Sprintf("program %06d  %d calls", item.index, item.calls)
		if item.err != nil {
			line = fmt.Sprintf("program %06d  %v", item.index, item.err)
		}
		b.WriteString(fmt.Sprintf("  %s %s\n", styleStatus(item.status).Render(fmt.Sprintf("%8s", label)), truncate(line, nameWidth)))
	}

	summary := fmt.Sprintf("  working %d  done %d  failed %d  calls %d", m.working, m.done, m.failed, m.calls)
	b.WriteString("\n" + truncate(summary, m.width) + "\n")
	if m.quit {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")
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

func (m *progressModel) applyEvent(ev driver.Event) tea.Cmd {
	switch ev.Status {
	case driver.StatusWorking:
		m.working++
		return nil
	case driver.StatusDone:
		m.working--
		m.done++
		m.calls += ev.Calls
	case driver.StatusError:
		m.working--
		m.failed++
	default:
		return nil
	}
	m.recent = append(m.recent, recentItem{index: ev.Index, status: ev.Status, calls: ev.Calls, err: ev.Err})
	if len(m.recent) > recentLimit {
		m.recent = m.recent[len(m.recent)-recentLimit:]
	}
	if m.total <= 0 {
		return nil
	}
	return m.prog.SetPercent(float64(m.done+m.failed) / float64(m.total))
}

func styleStatus(status driver.Status) lipgloss.Style {
	switch status {
	case driver.StatusDone:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case driver.StatusError:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case driver.StatusWorking:
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
	return runewidth.Truncate(value, width-3, "...")
}
