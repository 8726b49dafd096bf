package unidiff

import (
	"fmt"
	"sort"
	"strings"
)

// Error codes attached to Error values returned by Apply and ApplyAll.
const (
	CodeContextMismatch = "CONTEXT_MISMATCH"
	CodeHunkOutOfRange  = "HUNK_OUT_OF_RANGE"
	CodeMalformedHunk   = "MALFORMED_HUNK"
	CodeFileNotFound    = "FILE_NOT_FOUND"
)

// Error represents a structured failure while applying a patch to one file.
// It satisfies the error interface so it can be returned directly from the
// Apply helpers, and carries enough detail to explain the failure without
// inspecting internals.
type Error struct {
	Code      string
	Path      string
	HunkIndex int
	Expected  string
	Actual    string
	Message   string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return "patch apply error"
}

// document is one file's content split into lines with the terminator style
// tracked separately so the result can be reassembled consistently.
type document struct {
	lines           []string
	terminator      string
	endsWithNewline bool
}

func normalizedDocument(text string) document {
	terminator := "\n"
	if strings.Contains(text, "\r\n") {
		terminator = "\r\n"
	}
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	return newDocument(normalized, terminator)
}

func rawDocument(text string) document {
	return newDocument(text, "\n")
}

func newDocument(text, terminator string) document {
	if text == "" {
		// Content grown from an empty document gets a trailing terminator.
		return document{terminator: terminator, endsWithNewline: true}
	}
	ends := strings.HasSuffix(text, "\n")
	lines := strings.Split(text, "\n")
	if ends {
		lines = lines[:len(lines)-1]
	}
	return document{lines: lines, terminator: terminator, endsWithNewline: ends}
}

func (d document) assemble(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	joined := strings.Join(lines, d.terminator)
	if d.endsWithNewline {
		joined += d.terminator
	}
	return joined
}

// Apply computes the patched content of one file. The original text is first
// normalized to a single line-terminator convention for matching; if that
// attempt fails the apply is retried once against the unnormalized text.
// Context and delete lines must match the original byte-exactly within
// whichever attempt is running. A patch with zero hunks returns the original
// unchanged.
func Apply(original string, fp FilePatch) (string, error) {
	if len(fp.Hunks) == 0 {
		return original, nil
	}

	doc := normalizedDocument(original)
	lines, err := applyHunks(doc.lines, fp)
	if err == nil {
		return doc.assemble(lines), nil
	}

	raw := rawDocument(original)
	if rawLines, rawErr := applyHunks(raw.lines, fp); rawErr == nil {
		return raw.assemble(rawLines), nil
	}

	// Report the failure of the canonical, normalized attempt.
	if pe, ok := err.(*Error); ok && pe.Path == "" {
		pe.Path = firstDeclaredPath(fp)
	}
	return "", err
}

// applyHunks walks the hunks in ascending old-start order, maintaining a
// single cursor into the original lines and an accumulating output.
func applyHunks(original []string, fp FilePatch) ([]string, error) {
	hunks := orderedHunks(fp.Hunks)
	if err := validateHunks(hunks, len(original)); err != nil {
		return nil, err
	}

	out := make([]string, 0, len(original))
	cursor := 0
	for index, hunk := range hunks {
		start := hunk.OldStart - 1
		if hunk.OldLines == 0 {
			// A zero-length old range inserts after the declared line.
			start = hunk.OldStart
		}
		out = append(out, original[cursor:start]...)
		cursor = start

		for _, line := range hunk.Lines {
			switch line.Kind {
			case LineAdd:
				out = append(out, line.Text)
			case LineContext, LineDelete:
				if cursor >= len(original) {
					return nil, &Error{
						Code:      CodeContextMismatch,
						HunkIndex: index,
						Expected:  line.Text,
						Message:   fmt.Sprintf("hunk %d expected %q but the file ends at line %d", index+1, line.Text, len(original)),
					}
				}
				if original[cursor] != line.Text {
					return nil, &Error{
						Code:      CodeContextMismatch,
						HunkIndex: index,
						Expected:  line.Text,
						Actual:    original[cursor],
						Message:   fmt.Sprintf("hunk %d expected %q at line %d but found %q", index+1, line.Text, cursor+1, original[cursor]),
					}
				}
				if line.Kind == LineContext {
					out = append(out, line.Text)
				}
				cursor++
			}
		}
	}

	out = append(out, original[cursor:]...)
	return out, nil
}

// orderedHunks returns the hunks stable-sorted by ascending old start. This
// is the documented policy for out-of-order input; overlap is still rejected
// by validateHunks afterwards.
func orderedHunks(hunks []Hunk) []Hunk {
	ordered := append([]Hunk(nil), hunks...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].OldStart < ordered[j].OldStart
	})
	return ordered
}

func validateHunks(hunks []Hunk, originalLen int) error {
	prevEnd := 0
	for index, hunk := range hunks {
		oldCount, newCount := 0, 0
		for _, line := range hunk.Lines {
			switch line.Kind {
			case LineContext:
				oldCount++
				newCount++
			case LineAdd:
				newCount++
			case LineDelete:
				oldCount++
			}
		}
		if oldCount != hunk.OldLines || newCount != hunk.NewLines {
			return &Error{
				Code:      CodeMalformedHunk,
				HunkIndex: index,
				Message: fmt.Sprintf("hunk %d declares -%d,%d +%d,%d but carries %d old and %d new lines",
					index+1, hunk.OldStart, hunk.OldLines, hunk.NewStart, hunk.NewLines, oldCount, newCount),
			}
		}

		start := hunk.OldStart - 1
		outOfRange := hunk.OldLines > 0 && start >= originalLen
		if hunk.OldLines == 0 {
			start = hunk.OldStart
			outOfRange = start > originalLen
		}
		if outOfRange {
			return &Error{
				Code:      CodeHunkOutOfRange,
				HunkIndex: index,
				Message:   fmt.Sprintf("hunk %d starts at line %d but the file has %d lines", index+1, hunk.OldStart, originalLen),
			}
		}
		if start < prevEnd {
			return &Error{
				Code:      CodeMalformedHunk,
				HunkIndex: index,
				Message:   fmt.Sprintf("hunk %d overlaps the previous hunk in the original file", index+1),
			}
		}
		prevEnd = start + hunk.OldLines
	}
	return nil
}

func firstDeclaredPath(fp FilePatch) string {
	if fp.NewPath != "" && fp.NewPath != NullPath {
		return fp.NewPath
	}
	if fp.OldPath != "" && fp.OldPath != NullPath {
		return fp.OldPath
	}
	return ""
}
