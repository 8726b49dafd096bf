package unidiff

import (
	"strings"
	"testing"
)

func mapResolver(files map[string]string) Resolver {
	return ResolverFunc(func(path string) (string, error) {
		content, ok := files[path]
		if !ok {
			return "", ErrNotFound
		}
		return content, nil
	})
}

func TestApplyAllMultiFile(t *testing.T) {
	t.Parallel()

	raw := strings.Join([]string{
		"--- a/a.txt",
		"+++ b/a.txt",
		"@@ -2,0 +3,1 @@",
		"+3",
		"--- a/b.txt",
		"+++ b/b.txt",
		"@@ -1,3 +1,2 @@",
		" x",
		"-y",
		" z",
		"",
	}, "\n")

	files := map[string]string{
		"a.txt": "1\n2\n",
		"b.txt": "x\ny\nz\n",
	}

	summary := ApplyAll(raw, mapResolver(files))
	if summary.NothingParsed {
		t.Fatal("unexpected nothing-parsed condition")
	}
	if summary.Succeeded != 2 || summary.Failed != 0 || summary.Skipped != 0 {
		t.Fatalf("unexpected tallies: %+v", summary)
	}
	if got, want := len(summary.Outcomes), 2; got != want {
		t.Fatalf("unexpected outcome count: got %d want %d", got, want)
	}
	if summary.Outcomes[0].Path != "a.txt" || summary.Outcomes[0].NewText != "1\n2\n3\n" {
		t.Fatalf("unexpected first outcome: %+v", summary.Outcomes[0])
	}
	if summary.Outcomes[1].Path != "b.txt" || summary.Outcomes[1].NewText != "x\nz\n" {
		t.Fatalf("unexpected second outcome: %+v", summary.Outcomes[1])
	}
}

func TestApplyAllIsolatesFailures(t *testing.T) {
	t.Parallel()

	raw := strings.Join([]string{
		"--- a/good.txt",
		"+++ b/good.txt",
		"@@ -1 +1 @@",
		"-old",
		"+new",
		"--- a/bad.txt",
		"+++ b/bad.txt",
		"@@ -1 +1 @@",
		"-expected",
		"+changed",
		"--- a/also-good.txt",
		"+++ b/also-good.txt",
		"@@ -1 +1 @@",
		"-left",
		"+right",
		"",
	}, "\n")

	files := map[string]string{
		"good.txt":      "old\n",
		"bad.txt":       "diverged\n",
		"also-good.txt": "left\n",
	}

	summary := ApplyAll(raw, mapResolver(files))
	if summary.Succeeded != 2 || summary.Failed != 1 {
		t.Fatalf("unexpected tallies: %+v", summary)
	}

	// Per-file isolation: the siblings match standalone applies.
	for _, outcome := range summary.Outcomes {
		if outcome.Status != StatusPatched {
			continue
		}
		for _, fp := range Parse(raw) {
			path, err := NormalizePath(fp.OldPath, fp.NewPath)
			if err != nil || path != outcome.Path {
				continue
			}
			standalone, applyErr := Apply(files[path], fp)
			if applyErr != nil {
				t.Fatalf("standalone apply failed for %s: %v", path, applyErr)
			}
			if standalone != outcome.NewText {
				t.Fatalf("batch and standalone results differ for %s", path)
			}
		}
	}

	failure := summary.Outcomes[1]
	if failure.Path != "bad.txt" || failure.Status != StatusFailed {
		t.Fatalf("unexpected failure outcome: %+v", failure)
	}
	if failure.Err == nil || failure.Err.Code != CodeContextMismatch {
		t.Fatalf("failure lacks structured detail: %+v", failure.Err)
	}
}

func TestApplyAllNothingParsed(t *testing.T) {
	t.Parallel()

	summary := ApplyAll("nothing resembling a diff", mapResolver(nil))
	if !summary.NothingParsed {
		t.Fatal("expected nothing-parsed condition")
	}
	if len(summary.Outcomes) != 0 {
		t.Fatalf("expected no outcomes, got %+v", summary.Outcomes)
	}
}

func TestApplyAllSkipsUnusablePath(t *testing.T) {
	t.Parallel()

	raw := strings.Join([]string{
		"--- /dev/null",
		"+++ /dev/null",
		"@@ -1 +1 @@",
		"-x",
		"+y",
		"--- a/real.txt",
		"+++ b/real.txt",
		"@@ -1 +1 @@",
		"-x",
		"+y",
		"",
	}, "\n")

	summary := ApplyAll(raw, mapResolver(map[string]string{"real.txt": "x\n"}))
	if summary.Skipped != 1 || summary.Succeeded != 1 {
		t.Fatalf("unexpected tallies: %+v", summary)
	}
	if summary.Outcomes[0].Status != StatusSkipped {
		t.Fatalf("expected first outcome skipped: %+v", summary.Outcomes[0])
	}
}

func TestApplyAllReportsMissingFile(t *testing.T) {
	t.Parallel()

	raw := strings.Join([]string{
		"--- a/ghost.txt",
		"+++ b/ghost.txt",
		"@@ -1 +1 @@",
		"-x",
		"+y",
		"",
	}, "\n")

	summary := ApplyAll(raw, mapResolver(map[string]string{}))
	if summary.Failed != 1 {
		t.Fatalf("unexpected tallies: %+v", summary)
	}
	outcome := summary.Outcomes[0]
	if outcome.Err == nil || outcome.Err.Code != CodeFileNotFound {
		t.Fatalf("expected file-not-found detail: %+v", outcome)
	}
}

func TestApplyAllCreatesWithoutResolver(t *testing.T) {
	t.Parallel()

	raw := strings.Join([]string{
		"--- /dev/null",
		"+++ b/fresh.txt",
		"@@ -0,0 +1,2 @@",
		"+hello",
		"+world",
		"",
	}, "\n")

	resolver := ResolverFunc(func(path string) (string, error) {
		t.Fatalf("resolver consulted for creation of %s", path)
		return "", nil
	})

	summary := ApplyAll(raw, resolver)
	if summary.Succeeded != 1 {
		t.Fatalf("unexpected tallies: %+v", summary)
	}
	outcome := summary.Outcomes[0]
	if outcome.Change != ChangeCreate || outcome.Path != "fresh.txt" {
		t.Fatalf("unexpected creation outcome: %+v", outcome)
	}
	if outcome.NewText != "hello\nworld\n" {
		t.Fatalf("unexpected created content: %q", outcome.NewText)
	}
}

func TestApplyAllMarksDeletion(t *testing.T) {
	t.Parallel()

	raw := strings.Join([]string{
		"--- a/doomed.txt",
		"+++ /dev/null",
		"@@ -1,2 +0,0 @@",
		"-x",
		"-y",
		"",
	}, "\n")

	summary := ApplyAll(raw, mapResolver(map[string]string{"doomed.txt": "x\ny\n"}))
	if summary.Succeeded != 1 {
		t.Fatalf("unexpected tallies: %+v", summary)
	}
	outcome := summary.Outcomes[0]
	if outcome.Change != ChangeDelete || outcome.NewText != "" {
		t.Fatalf("unexpected deletion outcome: %+v", outcome)
	}
}

func TestApplyAllEmptyHunkSectionReturnsOriginal(t *testing.T) {
	t.Parallel()

	raw := "--- a/same.txt\n+++ b/same.txt\n"
	summary := ApplyAll(raw, mapResolver(map[string]string{"same.txt": "untouched\n"}))
	if summary.Succeeded != 1 {
		t.Fatalf("unexpected tallies: %+v", summary)
	}
	if got := summary.Outcomes[0].NewText; got != "untouched\n" {
		t.Fatalf("pure rename altered content: %q", got)
	}
}
