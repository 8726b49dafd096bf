package unidiff

import (
	"errors"
	"fmt"
)

// ErrNotFound is the signal a Resolver returns when it has no content for a
// normalized path.
var ErrNotFound = errors.New("file not found")

// Resolver supplies the current content of a file targeted by a patch. It is
// an injected capability of the hosting environment; the engine never touches
// storage directly.
type Resolver interface {
	Resolve(path string) (string, error)
}

// ResolverFunc adapts a plain function to the Resolver interface.
type ResolverFunc func(path string) (string, error)

// Resolve implements Resolver.
func (f ResolverFunc) Resolve(path string) (string, error) {
	return f(path)
}

// Status classifies the outcome for one file of a batch.
type Status int

const (
	// StatusPatched means new content was computed successfully.
	StatusPatched Status = iota
	// StatusFailed means the file was attempted and could not be patched.
	StatusFailed
	// StatusSkipped means the file patch carried no usable target path.
	StatusSkipped
)

// String renders the status for reports.
func (s Status) String() string {
	switch s {
	case StatusPatched:
		return "patched"
	case StatusFailed:
		return "failed"
	case StatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// ChangeKind is the git-style per-file status letter for an outcome.
type ChangeKind string

const (
	// ChangeModify marks an update to an existing file.
	ChangeModify ChangeKind = "M"
	// ChangeCreate marks a brand-new file.
	ChangeCreate ChangeKind = "A"
	// ChangeDelete marks a file removal.
	ChangeDelete ChangeKind = "D"
)

// Outcome records the result of one file's apply attempt.
type Outcome struct {
	Path    string
	Status  Status
	Change  ChangeKind
	NewText string
	Reason  string
	Err     *Error
}

// Summary aggregates the per-file outcomes of one batch in parse order.
// NothingParsed distinguishes structurally unrecognizable input from a batch
// whose files all failed.
type Summary struct {
	Outcomes      []Outcome
	Succeeded     int
	Failed        int
	Skipped       int
	NothingParsed bool
}

func (s *Summary) record(outcome Outcome) {
	s.Outcomes = append(s.Outcomes, outcome)
	switch outcome.Status {
	case StatusPatched:
		s.Succeeded++
	case StatusFailed:
		s.Failed++
	case StatusSkipped:
		s.Skipped++
	}
}

// ApplyAll parses raw patch text and applies every file patch it contains
// against content supplied by the resolver. Files are processed in parse
// order; one file's failure never prevents the remaining files from being
// attempted, and the summary is only returned once every file was tried.
func ApplyAll(raw string, resolver Resolver) Summary {
	patches := Parse(raw)
	if len(patches) == 0 {
		return Summary{NothingParsed: true}
	}

	var summary Summary
	for _, fp := range patches {
		summary.record(applyFilePatch(fp, resolver))
	}
	return summary
}

func applyFilePatch(fp FilePatch, resolver Resolver) Outcome {
	path, err := NormalizePath(fp.OldPath, fp.NewPath)
	if err != nil {
		return Outcome{
			Path:   firstDeclaredPath(fp),
			Status: StatusSkipped,
			Reason: err.Error(),
		}
	}

	change := ChangeModify
	switch {
	case fp.IsCreate():
		change = ChangeCreate
	case fp.IsDelete():
		change = ChangeDelete
	}

	var original string
	if !fp.IsCreate() {
		original, err = resolver.Resolve(path)
		if err != nil {
			reason := fmt.Sprintf("cannot read %s: %v", path, err)
			outcome := Outcome{Path: path, Status: StatusFailed, Change: change, Reason: reason}
			if errors.Is(err, ErrNotFound) {
				outcome.Err = &Error{Code: CodeFileNotFound, Path: path, Message: reason}
			}
			return outcome
		}
	}

	newText, applyErr := Apply(original, fp)
	if applyErr != nil {
		outcome := Outcome{Path: path, Status: StatusFailed, Change: change, Reason: applyErr.Error()}
		var pe *Error
		if errors.As(applyErr, &pe) {
			pe.Path = path
			outcome.Err = pe
		}
		return outcome
	}

	return Outcome{Path: path, Status: StatusPatched, Change: change, NewText: newText}
}
