package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "unipatch.yaml"))
	require.NoError(t, err)
	require.Equal(t, ".", cfg.Root)
	require.Equal(t, ReportText, cfg.Report)
	require.False(t, cfg.Strict)
}

func TestLoadReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unipatch.yaml")
	require.NoError(t, os.WriteFile(path, []byte("root: ./src\nreport: json\nstrict: true\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "./src", cfg.Root)
	require.Equal(t, ReportJSON, cfg.Report)
	require.True(t, cfg.Strict)
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unipatch.yaml")
	require.NoError(t, os.WriteFile(path, []byte("root: ./src\nreport: text\n"), 0o644))

	t.Setenv("UNIPATCH_ROOT", "/elsewhere")
	t.Setenv("UNIPATCH_REPORT", "json")
	t.Setenv("UNIPATCH_STRICT", "1")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/elsewhere", cfg.Root)
	require.Equal(t, ReportJSON, cfg.Report)
	require.True(t, cfg.Strict)
}

func TestLoadRejectsUnknownReportFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unipatch.yaml")
	require.NoError(t, os.WriteFile(path, []byte("report: xml\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Errors, 1)
	require.Contains(t, verr.Errors[0], "invalid report format")
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unipatch.yaml")
	require.NoError(t, os.WriteFile(path, []byte("root: [unclosed\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}
