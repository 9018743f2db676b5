// Package tui renders the live progress view shown during long runs.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/gatekeep/internal/core/styles"
	"github.com/colonyops/gatekeep/internal/gatekeep"
)

// FileMsg delivers one completed file result to the view.
type FileMsg gatekeep.FileResult

// DoneMsg tells the view the run is over and it should exit.
type DoneMsg struct{}

// Model is the Bubble Tea model for the run progress view.
type Model struct {
	spinner spinner.Model
	bar     progress.Model

	total     int
	done      int
	gate      int
	scheduler int
	failed    int
	current   string

	width       int
	quitting    bool
	interrupted bool
}

// New creates a progress model expecting total files.
func New(total int) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.TitleStyle

	bar := progress.New(progress.WithGradient(
		string(styles.ColorPrimary),
		string(styles.ColorSecondary),
	))
	bar.Width = 40

	return Model{
		spinner: s,
		bar:     bar,
		total:   total,
	}
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		w := msg.Width - 4
		if w > 60 {
			w = 60
		}
		if w < 10 {
			w = 10
		}
		m.bar.Width = w
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.quitting = true
			m.interrupted = true
			return m, tea.Quit
		}
		return m, nil

	case FileMsg:
		m.done++
		m.current = msg.Path
		if msg.GateAdded {
			m.gate++
		}
		if msg.SchedulerAdded {
			m.scheduler++
		}
		if msg.Err != nil {
			m.failed++
		}
		return m, nil

	case DoneMsg:
		m.quitting = true
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	branding := styles.TitleStyle.Render(styles.IconShield + " gatekeep")
	counter := styles.CountStyle.Render(fmt.Sprintf("%d/%d", m.done, m.total))
	header := fmt.Sprintf("%s %s%s %s", branding, m.spinner.View(), counter, styles.MutedStyle.Render("files"))

	tally := fmt.Sprintf("%s gate %s scheduler",
		styles.SuccessStyle.Render(fmt.Sprintf("%d", m.gate)),
		styles.SuccessStyle.Render(fmt.Sprintf("%d", m.scheduler)),
	)
	if m.failed > 0 {
		tally += " " + styles.ErrorStyle.Render(fmt.Sprintf("%d failed", m.failed))
	}

	lines := []string{
		header,
		m.bar.ViewAs(m.percent()),
		tally,
	}
	if m.current != "" {
		lines = append(lines, styles.MutedStyle.Render(styles.IconFilePage+" ")+styles.PathStyle.Render(m.current))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...) + "\n"
}

func (m Model) percent() float64 {
	if m.total <= 0 {
		return 1
	}
	return float64(m.done) / float64(m.total)
}

// Interrupted reports whether the user quit the view before the run finished.
// Call after the program exits.
func (m Model) Interrupted() bool {
	return m.interrupted
}
