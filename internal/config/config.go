package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Report format names accepted in configuration and on the command line.
const (
	ReportText = "text"
	ReportJSON = "json"
)

// Config holds the tool-level settings for patch application.
type Config struct {
	// Root is the workspace directory patch paths resolve against.
	Root string `yaml:"root"`
	// Report selects the output format: text or json.
	Report string `yaml:"report"`
	// Strict treats skipped files as a failure condition for exit codes.
	Strict bool `yaml:"strict"`
	// NoColor disables styled terminal output.
	NoColor bool `yaml:"no_color"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{Root: ".", Report: ReportText}
}

// Load reads a config file, falling back to defaults when the file does not
// exist. Environment variables overlay whatever the file provided.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// fine, defaults apply
	case err != nil:
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if cfg.Root == "" {
		cfg.Root = "."
	}
	if cfg.Report == "" {
		cfg.Report = ReportText
	}

	if errs := Validate(cfg); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if root := os.Getenv("UNIPATCH_ROOT"); root != "" {
		cfg.Root = root
	}
	if report := os.Getenv("UNIPATCH_REPORT"); report != "" {
		cfg.Report = report
	}
	if strict := os.Getenv("UNIPATCH_STRICT"); strict != "" {
		cfg.Strict = strings.EqualFold(strict, "true") || strict == "1"
	}
}

// ValidationError holds multiple validation failures.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// Validate checks a Config for semantic correctness. Returns a list of
// validation error messages (empty if valid).
func Validate(cfg *Config) []string {
	var errs []string

	switch cfg.Report {
	case ReportText, ReportJSON:
		// valid
	default:
		errs = append(errs, fmt.Sprintf("invalid report format %q, must be one of: %s, %s", cfg.Report, ReportText, ReportJSON))
	}

	if strings.TrimSpace(cfg.Root) == "" {
		errs = append(errs, "'root' must not be blank")
	}

	return errs
}
