package unidiff

import (
	"regexp"
	"strconv"
	"strings"
)

// NullPath is the sentinel path unified diffs use to mark "no file" on the
// side of a creation or deletion.
const NullPath = "/dev/null"

// LineKind classifies a single content line within a hunk.
type LineKind int

const (
	// LineContext is an unchanged line used for positional matching.
	LineContext LineKind = iota
	// LineAdd is a line present only in the patched result.
	LineAdd
	// LineDelete is a line removed from the original.
	LineDelete
)

// String returns the single-character diff prefix for the kind.
func (k LineKind) String() string {
	switch k {
	case LineAdd:
		return "+"
	case LineDelete:
		return "-"
	default:
		return " "
	}
}

// Line is one content line of a hunk. Text excludes the line terminator and
// the diff prefix character.
type Line struct {
	Kind LineKind
	Text string
}

// Hunk describes one contiguous change region. Start positions are 1-based
// line numbers; lengths count context plus delete (old side) or context plus
// add (new side) lines.
type Hunk struct {
	OldStart int
	OldLines int
	NewStart int
	NewLines int
	Lines    []Line
}

// FilePatch is one file's change set as declared by a pair of ---/+++
// headers. Either path may be empty or the NullPath sentinel; at least one
// side of a usable patch names a real file.
type FilePatch struct {
	OldPath string
	NewPath string
	Hunks   []Hunk
}

// IsCreate reports whether the patch creates a new file.
func (fp FilePatch) IsCreate() bool {
	return fp.OldPath == NullPath && fp.NewPath != "" && fp.NewPath != NullPath
}

// IsDelete reports whether the patch removes an existing file.
func (fp FilePatch) IsDelete() bool {
	return fp.NewPath == NullPath && fp.OldPath != "" && fp.OldPath != NullPath
}

var hunkHeaderPattern = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@`)

// Parse converts raw unified-diff text into an ordered sequence of per-file
// patches. Malformed sections are dropped rather than reported; structurally
// unrecognizable input yields an empty slice. The declared header paths are
// stored verbatim, normalization happens later via NormalizePath.
func Parse(raw string) []FilePatch {
	lines := splitLines(raw)

	var (
		patches []FilePatch
		current *FilePatch
		hunk    *Hunk
		oldLeft int
		newLeft int
	)

	flushHunk := func() {
		if hunk == nil || current == nil {
			hunk = nil
			return
		}
		current.Hunks = append(current.Hunks, *hunk)
		hunk = nil
	}

	flushFile := func() {
		flushHunk()
		if current == nil {
			return
		}
		if current.OldPath != "" || current.NewPath != "" {
			patches = append(patches, *current)
		}
		current = nil
	}

	for i, line := range lines {
		// An open hunk's declared counts win over header lookahead: while the
		// old side still expects lines, a "--- " line is hunk content (the
		// deletion of a line beginning "-- "), not the next file header.
		if isOldHeader(line) && (hunk == nil || hunkComplete(oldLeft, newLeft) || (oldLeft <= 0 && nextIsNewHeader(lines, i))) {
			flushFile()
			current = &FilePatch{OldPath: strings.TrimSpace(line[4:])}
			continue
		}

		if strings.HasPrefix(line, "+++ ") && current != nil && hunk == nil {
			current.NewPath = strings.TrimSpace(line[4:])
			continue
		}

		if match := hunkHeaderPattern.FindStringSubmatch(line); match != nil {
			if current == nil {
				continue
			}
			flushHunk()
			hunk = &Hunk{
				OldStart: mustInt(match[1]),
				OldLines: intOrDefault(match[2], 1),
				NewStart: mustInt(match[3]),
				NewLines: intOrDefault(match[4], 1),
			}
			oldLeft = hunk.OldLines
			newLeft = hunk.NewLines
			continue
		}

		if hunk == nil {
			continue
		}
		if hunkComplete(oldLeft, newLeft) {
			flushHunk()
			continue
		}

		switch {
		case strings.HasPrefix(line, "+"):
			hunk.Lines = append(hunk.Lines, Line{Kind: LineAdd, Text: line[1:]})
			newLeft--
		case strings.HasPrefix(line, "-"):
			hunk.Lines = append(hunk.Lines, Line{Kind: LineDelete, Text: line[1:]})
			oldLeft--
		case strings.HasPrefix(line, " "):
			hunk.Lines = append(hunk.Lines, Line{Kind: LineContext, Text: line[1:]})
			oldLeft--
			newLeft--
		case line == `\ No newline at end of file`:
			// marker carries no content
		default:
			// Permissive: an unprefixed line counts as context. A trailing
			// empty artifact from the final newline is ignored instead.
			if line == "" && i == len(lines)-1 {
				continue
			}
			hunk.Lines = append(hunk.Lines, Line{Kind: LineContext, Text: line})
			oldLeft--
			newLeft--
		}
	}

	flushFile()
	return patches
}

func isOldHeader(line string) bool {
	return strings.HasPrefix(line, "--- ")
}

func nextIsNewHeader(lines []string, index int) bool {
	return index+1 < len(lines) && strings.HasPrefix(lines[index+1], "+++ ")
}

func hunkComplete(oldLeft, newLeft int) bool {
	return oldLeft <= 0 && newLeft <= 0
}

func mustInt(value string) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return n
}

func intOrDefault(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	return mustInt(value)
}

func splitLines(input string) []string {
	normalized := strings.ReplaceAll(input, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	return strings.Split(normalized, "\n")
}
