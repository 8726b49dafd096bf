package workspace

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/unipatch/unipatch/pkg/unidiff"
)

func TestApplyToMemoryUpdatesSnapshot(t *testing.T) {
	t.Parallel()

	raw := strings.Join([]string{
		"--- a/notes.txt",
		"+++ b/notes.txt",
		"@@ -1,2 +1,2 @@",
		"-alpha",
		"+gamma",
		" beta",
		"",
	}, "\n")

	initial := map[string]string{"notes.txt": "alpha\nbeta\n"}
	updated, summary, err := ApplyToMemory(context.Background(), raw, initial)
	require.NoError(t, err)
	require.Equal(t, 1, summary.Succeeded)
	require.Equal(t, "gamma\nbeta\n", updated["notes.txt"])

	// The original map must not be mutated.
	require.Equal(t, "alpha\nbeta\n", initial["notes.txt"])
}

func TestApplyToMemoryCreateAndDelete(t *testing.T) {
	t.Parallel()

	raw := strings.Join([]string{
		"--- /dev/null",
		"+++ b/new.txt",
		"@@ -0,0 +1 @@",
		"+fresh",
		"--- a/old.txt",
		"+++ /dev/null",
		"@@ -1 +0,0 @@",
		"-stale",
		"",
	}, "\n")

	updated, summary, err := ApplyToMemory(context.Background(), raw, map[string]string{"old.txt": "stale\n"})
	require.NoError(t, err)
	require.Equal(t, 2, summary.Succeeded)
	require.Equal(t, "fresh\n", updated["new.txt"])
	require.NotContains(t, updated, "old.txt")
}

func TestMemoryResolveMissing(t *testing.T) {
	t.Parallel()

	ws := NewMemory(nil)
	_, err := ws.Resolve("absent.txt")
	require.ErrorIs(t, err, unidiff.ErrNotFound)
}

func TestMemoryCommitKeepsFailuresUntouched(t *testing.T) {
	t.Parallel()

	ws := NewMemory(map[string]string{"a.txt": "original\n"})
	summary := unidiff.Summary{
		Outcomes: []unidiff.Outcome{
			{Path: "a.txt", Status: unidiff.StatusFailed, Reason: "context mismatch"},
			{Path: "b.txt", Status: unidiff.StatusPatched, Change: unidiff.ChangeCreate, NewText: "made\n"},
		},
		Succeeded: 1,
		Failed:    1,
	}

	results, err := ws.Commit(context.Background(), summary)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "original\n", ws.Files()["a.txt"])
	require.Equal(t, "made\n", ws.Files()["b.txt"])
}
