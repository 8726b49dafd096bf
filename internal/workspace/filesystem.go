package workspace

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/unipatch/unipatch/internal/logging"
	"github.com/unipatch/unipatch/pkg/unidiff"
)

// Result describes one persisted file after a commit.
type Result struct {
	Change unidiff.ChangeKind
	Path   string
}

// Filesystem resolves patch targets below a root directory and persists
// patched outcomes back to disk. It implements unidiff.Resolver.
type Filesystem struct {
	root   string
	logger logging.Logger
}

// NewFilesystem creates a filesystem workspace rooted at the given directory.
// An empty root defaults to the current working directory.
func NewFilesystem(root string, logger logging.Logger) (*Filesystem, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to determine working directory: %w", err)
		}
		root = wd
	}
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	if logger == nil {
		logger = &logging.NoOpLogger{}
	}
	return &Filesystem{root: root, logger: logger}, nil
}

// Root returns the absolute root directory of the workspace.
func (ws *Filesystem) Root() string {
	return ws.root
}

// Resolve returns the current content of the file at the normalized relative
// path, or unidiff.ErrNotFound when no such file exists.
func (ws *Filesystem) Resolve(path string) (string, error) {
	abs, err := ws.resolvePath(path)
	if err != nil {
		return "", err
	}
	content, err := os.ReadFile(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%s: %w", path, unidiff.ErrNotFound)
		}
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(content), nil
}

// Commit persists every patched outcome of the summary: modified and created
// files are written preserving the original file mode, deletions are removed.
// Failed and skipped outcomes are left untouched. Results are sorted by path.
func (ws *Filesystem) Commit(ctx context.Context, summary unidiff.Summary) ([]Result, error) {
	var results []Result
	for _, outcome := range summary.Outcomes {
		if outcome.Status != unidiff.StatusPatched {
			continue
		}

		abs, err := ws.resolvePath(outcome.Path)
		if err != nil {
			return nil, err
		}

		if outcome.Change == unidiff.ChangeDelete {
			if err := os.Remove(abs); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to delete %s: %w", outcome.Path, err)
			}
			ws.logger.Debug(ctx, "deleted file", logging.Field("path", outcome.Path))
			results = append(results, Result{Change: unidiff.ChangeDelete, Path: outcome.Path})
			continue
		}

		perm := fs.FileMode(0o644)
		if info, statErr := os.Stat(abs); statErr == nil {
			if mode := info.Mode() & fs.ModePerm; mode != 0 {
				perm = mode
			}
		}

		if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory for %s: %w", outcome.Path, err)
		}
		if err := os.WriteFile(abs, []byte(outcome.NewText), perm); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", outcome.Path, err)
		}
		ws.logger.Debug(ctx, "wrote file",
			logging.Field("path", outcome.Path),
			logging.Field("change", string(outcome.Change)))
		results = append(results, Result{Change: outcome.Change, Path: outcome.Path})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Path < results[j].Path
	})
	return results, nil
}

// resolvePath maps a normalized patch path to an absolute location below the
// workspace root, rejecting absolute paths and traversal outside the root.
func (ws *Filesystem) resolvePath(relative string) (string, error) {
	rel := strings.TrimSpace(relative)
	if rel == "" {
		return "", fmt.Errorf("invalid patch path")
	}
	cleaned := filepath.Clean(filepath.FromSlash(rel))
	if filepath.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("patch path %s escapes the workspace root", rel)
	}
	return filepath.Join(ws.root, cleaned), nil
}
