package unidiff

import (
	"fmt"
	"strings"
)

// FormatSummary renders a Summary into a human readable report suitable for
// surfacing to end users: aggregate counts, one status line per file, and a
// detail block for every failure.
func FormatSummary(summary Summary) string {
	if summary.NothingParsed {
		return "No file patches were recognized in the input."
	}

	builder := strings.Builder{}
	builder.WriteString(fmt.Sprintf("%d patched, %d failed, %d skipped\n", summary.Succeeded, summary.Failed, summary.Skipped))

	for _, outcome := range summary.Outcomes {
		label := outcome.Path
		if label == "" {
			label = "(unknown file)"
		}
		switch outcome.Status {
		case StatusPatched:
			builder.WriteString(fmt.Sprintf("%s %s\n", outcome.Change, label))
		case StatusFailed:
			builder.WriteString(fmt.Sprintf("! %s\n", label))
		case StatusSkipped:
			builder.WriteString(fmt.Sprintf("? %s\n", label))
		}
	}

	for _, outcome := range summary.Outcomes {
		if outcome.Status == StatusPatched {
			continue
		}
		builder.WriteString("\n")
		builder.WriteString(FormatOutcomeFailure(outcome))
		builder.WriteString("\n")
	}

	return strings.TrimRight(builder.String(), "\n")
}

// FormatOutcomeFailure explains a failed or skipped outcome, including the
// hunk index and the expected versus actual line when a context mismatch is
// involved.
func FormatOutcomeFailure(outcome Outcome) string {
	label := outcome.Path
	if label == "" {
		label = "(unknown file)"
	}

	if outcome.Status == StatusSkipped {
		return fmt.Sprintf("Skipped %s: %s", label, outcome.Reason)
	}

	parts := []string{fmt.Sprintf("Failed %s: %s", label, outcome.Reason)}
	if pe := outcome.Err; pe != nil && pe.Code == CodeContextMismatch {
		parts = append(parts,
			fmt.Sprintf("  hunk %d expected: %q", pe.HunkIndex+1, pe.Expected),
			fmt.Sprintf("  hunk %d actual:   %q", pe.HunkIndex+1, pe.Actual))
	}
	return strings.Join(parts, "\n")
}
