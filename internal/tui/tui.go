// Package tui provides an interactive browser over a patch batch summary so
// the user can inspect per-file outcomes before committing them.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	glam "github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/unipatch/unipatch/pkg/unidiff"
)

type model struct {
	summary unidiff.Summary

	index  int
	vp     viewport.Model
	glam   *glam.TermRenderer
	width  int
	height int
	ready  bool

	approved bool

	heading  lipgloss.Style
	cursor   lipgloss.Style
	patched  lipgloss.Style
	failed   lipgloss.Style
	skipped  lipgloss.Style
	helpLine lipgloss.Style
}

func newModel(summary unidiff.Summary) *model {
	m := &model{
		summary:  summary,
		heading:  lipgloss.NewStyle().Bold(true),
		cursor:   lipgloss.NewStyle().Reverse(true),
		patched:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		failed:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		skipped:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		helpLine: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
	_ = m.rebuildRenderer(80)
	return m
}

func (m *model) rebuildRenderer(width int) error {
	if width < 20 {
		width = 20
	}
	renderer, err := glam.NewTermRenderer(
		glam.WithAutoStyle(),
		glam.WithWordWrap(width),
	)
	if err != nil {
		return err
	}
	m.glam = renderer
	return nil
}

func (m *model) Init() tea.Cmd {
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		detailHeight := m.height - m.listHeight() - 3
		if detailHeight < 3 {
			detailHeight = 3
		}
		if !m.ready {
			m.vp = viewport.New(m.width, detailHeight)
			m.ready = true
		} else {
			m.vp.Width = m.width
			m.vp.Height = detailHeight
		}
		_ = m.rebuildRenderer(m.width - 2)
		m.refreshDetail()

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.index > 0 {
				m.index--
				m.refreshDetail()
			}
		case "down", "j":
			if m.index < len(m.summary.Outcomes)-1 {
				m.index++
				m.refreshDetail()
			}
		case "a", "enter":
			m.approved = true
			return m, tea.Quit
		case "q", "esc", "ctrl+c":
			m.approved = false
			return m, tea.Quit
		default:
			var cmd tea.Cmd
			m.vp, cmd = m.vp.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m *model) listHeight() int {
	height := len(m.summary.Outcomes)
	if limit := m.height / 2; limit > 0 && height > limit {
		height = limit
	}
	if height < 1 {
		height = 1
	}
	return height
}

func (m *model) refreshDetail() {
	if !m.ready || len(m.summary.Outcomes) == 0 {
		return
	}
	detail := outcomeMarkdown(m.summary.Outcomes[m.index])
	rendered, err := m.glam.Render(detail)
	if err != nil {
		rendered = detail
	}
	m.vp.SetContent(rendered)
	m.vp.GotoTop()
}

// outcomeMarkdown builds the markdown detail block the viewport renders.
func outcomeMarkdown(outcome unidiff.Outcome) string {
	label := outcome.Path
	if label == "" {
		label = "(unknown file)"
	}

	builder := strings.Builder{}
	builder.WriteString(fmt.Sprintf("## %s\n\n", label))
	builder.WriteString(fmt.Sprintf("Status: **%s**\n\n", outcome.Status))

	switch outcome.Status {
	case unidiff.StatusPatched:
		builder.WriteString(fmt.Sprintf("Change: `%s`\n", outcome.Change))
	default:
		builder.WriteString(outcome.Reason)
		builder.WriteString("\n")
		if pe := outcome.Err; pe != nil && pe.Code == unidiff.CodeContextMismatch {
			builder.WriteString(fmt.Sprintf("\n```\nhunk %d\nexpected: %s\nactual:   %s\n```\n",
				pe.HunkIndex+1, pe.Expected, pe.Actual))
		}
	}
	return builder.String()
}

func (m *model) View() string {
	if !m.ready {
		return "loading…"
	}

	builder := strings.Builder{}
	builder.WriteString(m.heading.Render(fmt.Sprintf("%d patched, %d failed, %d skipped",
		m.summary.Succeeded, m.summary.Failed, m.summary.Skipped)))
	builder.WriteString("\n")

	start := 0
	visible := m.listHeight()
	if m.index >= visible {
		start = m.index - visible + 1
	}
	for i := start; i < len(m.summary.Outcomes) && i < start+visible; i++ {
		line := m.outcomeLine(m.summary.Outcomes[i])
		if i == m.index {
			line = m.cursor.Render(line)
		}
		builder.WriteString(line)
		builder.WriteString("\n")
	}

	builder.WriteString(m.vp.View())
	builder.WriteString("\n")
	builder.WriteString(m.helpLine.Render("↑/↓ select · enter/a apply · q abort"))
	return builder.String()
}

func (m *model) outcomeLine(outcome unidiff.Outcome) string {
	label := outcome.Path
	if label == "" {
		label = "(unknown file)"
	}
	switch outcome.Status {
	case unidiff.StatusPatched:
		return m.patched.Render(fmt.Sprintf("%s %s", outcome.Change, label))
	case unidiff.StatusFailed:
		return m.failed.Render(fmt.Sprintf("! %s", label))
	default:
		return m.skipped.Render(fmt.Sprintf("? %s", label))
	}
}

// Run presents the summary in an alt-screen browser and reports whether the
// user approved committing the patched outcomes.
func Run(summary unidiff.Summary) (bool, error) {
	lipgloss.SetColorProfile(termenv.ColorProfile())

	program := tea.NewProgram(newModel(summary), tea.WithAltScreen())
	final, err := program.Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(*model)
	if !ok {
		return false, fmt.Errorf("unexpected final model %T", final)
	}
	return m.approved, nil
}
