package workspace

import (
	"context"
	"fmt"
	"sort"

	"github.com/unipatch/unipatch/pkg/unidiff"
)

// Memory is an in-memory document store for patch application. The map given
// to NewMemory is copied before any mutation. It implements unidiff.Resolver.
type Memory struct {
	files map[string]string
}

// NewMemory creates a memory workspace over a snapshot of the given files.
func NewMemory(files map[string]string) *Memory {
	snapshot := make(map[string]string, len(files))
	for k, v := range files {
		snapshot[k] = v
	}
	return &Memory{files: snapshot}
}

// Resolve returns the stored content for the path, or unidiff.ErrNotFound.
func (ws *Memory) Resolve(path string) (string, error) {
	content, ok := ws.files[path]
	if !ok {
		return "", fmt.Errorf("%s: %w", path, unidiff.ErrNotFound)
	}
	return content, nil
}

// Commit folds every patched outcome into the snapshot: deletions remove the
// entry, everything else stores the new content. Results are sorted by path.
func (ws *Memory) Commit(_ context.Context, summary unidiff.Summary) ([]Result, error) {
	var results []Result
	for _, outcome := range summary.Outcomes {
		if outcome.Status != unidiff.StatusPatched {
			continue
		}
		if outcome.Change == unidiff.ChangeDelete {
			delete(ws.files, outcome.Path)
		} else {
			ws.files[outcome.Path] = outcome.NewText
		}
		results = append(results, Result{Change: outcome.Change, Path: outcome.Path})
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].Path < results[j].Path
	})
	return results, nil
}

// Files returns the current snapshot.
func (ws *Memory) Files() map[string]string {
	return ws.files
}

// ApplyToMemory parses raw patch text and applies it to an in-memory map of
// files, returning the updated snapshot alongside the batch summary.
func ApplyToMemory(ctx context.Context, raw string, files map[string]string) (map[string]string, unidiff.Summary, error) {
	ws := NewMemory(files)
	summary := unidiff.ApplyAll(raw, ws)
	if _, err := ws.Commit(ctx, summary); err != nil {
		return nil, summary, err
	}
	return ws.Files(), summary, nil
}
