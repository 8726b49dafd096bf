package unidiff

import (
	"errors"
	"strings"
)

var (
	// ErrNoUsablePath indicates both declared paths are absent or the
	// NullPath sentinel.
	ErrNoUsablePath = errors.New("patch declares no usable path")
	// ErrEmptyPath indicates the declared path normalized to nothing.
	ErrEmptyPath = errors.New("patch path is empty after normalization")
)

// NormalizePath derives the canonical relative target path from a patch's
// declared header paths. The new-file path wins unless it is absent or the
// NullPath sentinel, in which case the old-file path is used. A conventional
// leading "a/" or "b/" prefix is stripped once and backslashes are rewritten
// to forward slashes. The function performs no filesystem access.
func NormalizePath(oldPath, newPath string) (string, error) {
	chosen := newPath
	if chosen == "" || chosen == NullPath {
		chosen = oldPath
	}
	if chosen == "" || chosen == NullPath {
		return "", ErrNoUsablePath
	}

	if strings.HasPrefix(chosen, "a/") || strings.HasPrefix(chosen, "b/") {
		chosen = chosen[2:]
	}
	chosen = strings.ReplaceAll(chosen, `\`, "/")

	if chosen == "" {
		return "", ErrEmptyPath
	}
	return chosen, nil
}
