// Package report renders a patch batch summary for terminals and machines.
package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/unipatch/unipatch/pkg/unidiff"
)

// Renderer produces styled terminal reports from a summary.
type Renderer struct {
	patched lipgloss.Style
	failed  lipgloss.Style
	skipped lipgloss.Style
	heading lipgloss.Style
	detail  lipgloss.Style
	plain   bool
}

// NewRenderer creates a renderer. With noColor set, output is unstyled text.
func NewRenderer(noColor bool) *Renderer {
	if noColor {
		return &Renderer{plain: true}
	}
	return &Renderer{
		patched: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		failed:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		skipped: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		heading: lipgloss.NewStyle().Bold(true),
		detail:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

// Render returns the terminal report for a summary.
func (r *Renderer) Render(summary unidiff.Summary) string {
	if r.plain {
		return unidiff.FormatSummary(summary)
	}

	if summary.NothingParsed {
		return r.skipped.Render("No file patches were recognized in the input.")
	}

	builder := strings.Builder{}
	builder.WriteString(r.heading.Render(fmt.Sprintf("%d patched, %d failed, %d skipped", summary.Succeeded, summary.Failed, summary.Skipped)))
	builder.WriteString("\n")

	for _, outcome := range summary.Outcomes {
		label := outcome.Path
		if label == "" {
			label = "(unknown file)"
		}
		switch outcome.Status {
		case unidiff.StatusPatched:
			builder.WriteString(r.patched.Render(fmt.Sprintf("%s %s", outcome.Change, label)))
		case unidiff.StatusFailed:
			builder.WriteString(r.failed.Render(fmt.Sprintf("! %s", label)))
		case unidiff.StatusSkipped:
			builder.WriteString(r.skipped.Render(fmt.Sprintf("? %s", label)))
		}
		builder.WriteString("\n")
	}

	for _, outcome := range summary.Outcomes {
		if outcome.Status == unidiff.StatusPatched {
			continue
		}
		builder.WriteString("\n")
		builder.WriteString(r.detail.Render(unidiff.FormatOutcomeFailure(outcome)))
		builder.WriteString("\n")
	}

	return strings.TrimRight(builder.String(), "\n")
}

// FileEntry is the machine-readable record for one file outcome.
type FileEntry struct {
	Path     string `json:"path"`
	Status   string `json:"status"`
	Change   string `json:"change,omitempty"`
	Reason   string `json:"reason,omitempty"`
	Code     string `json:"code,omitempty"`
	Hunk     *int   `json:"hunk,omitempty"`
	Expected string `json:"expected,omitempty"`
	Actual   string `json:"actual,omitempty"`
}

// Report is the machine-readable form of a summary.
type Report struct {
	Patched       int         `json:"patched"`
	Failed        int         `json:"failed"`
	Skipped       int         `json:"skipped"`
	NothingParsed bool        `json:"nothingParsed"`
	Files         []FileEntry `json:"files"`
}

// Build converts a summary into its machine-readable form.
func Build(summary unidiff.Summary) Report {
	out := Report{
		Patched:       summary.Succeeded,
		Failed:        summary.Failed,
		Skipped:       summary.Skipped,
		NothingParsed: summary.NothingParsed,
		Files:         []FileEntry{},
	}
	for _, outcome := range summary.Outcomes {
		entry := FileEntry{
			Path:   outcome.Path,
			Status: outcome.Status.String(),
			Reason: outcome.Reason,
		}
		if outcome.Status == unidiff.StatusPatched {
			entry.Change = string(outcome.Change)
		}
		if pe := outcome.Err; pe != nil {
			entry.Code = pe.Code
			if pe.Code == unidiff.CodeContextMismatch {
				hunk := pe.HunkIndex
				entry.Hunk = &hunk
				entry.Expected = pe.Expected
				entry.Actual = pe.Actual
			}
		}
		out.Files = append(out.Files, entry)
	}
	return out
}

// JSON renders the machine-readable report as indented JSON.
func JSON(summary unidiff.Summary) ([]byte, error) {
	return json.MarshalIndent(Build(summary), "", "  ")
}
