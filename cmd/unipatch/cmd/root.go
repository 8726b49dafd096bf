package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/unipatch/unipatch/internal/config"
	"github.com/unipatch/unipatch/internal/logging"
)

// Build-time variables set via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Global flags.
var (
	configPath string
	rootDir    string
	verbose    bool
	quiet      bool
	noColor    bool
)

// Sentinel outcomes mapped to process exit codes by Execute.
var (
	errNothingParsed = errors.New("no file patches were recognized in the input")
	errBatchFailed   = errors.New("one or more files could not be patched")
)

var rootCmd = &cobra.Command{
	Use:   "unipatch",
	Short: "Apply unified-diff patches to a directory tree",
	Long: `unipatch parses unified-diff text describing changes to one or more
files and applies it to the files below a workspace root. Each file is
patched independently: one file's failure never prevents the remaining
files from being attempted, and the final report explains every failure
down to the mismatching line.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("unipatch %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "unipatch.yaml", "path to config file")
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", "", "workspace root patch paths resolve against")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "detailed output")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "minimal output (errors only)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves the effective configuration: file and environment
// first, explicit flags on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if rootDir != "" {
		cfg.Root = rootDir
	}
	if cmd.Flags().Changed("no-color") {
		cfg.NoColor = noColor
	}
	return cfg, nil
}

func newLogger() logging.Logger {
	if quiet {
		return logging.NewStdLogger(logging.LevelError, os.Stderr)
	}
	if verbose {
		return logging.NewStdLogger(logging.LevelDebug, os.Stderr)
	}
	return logging.NewStdLogger(logging.LevelInfo, io.Discard)
}

// Execute runs the root command and maps its outcome to an exit code:
// 0 on success, 1 when any file failed, 2 when nothing parsed.
func Execute() int {
	err := rootCmd.Execute()
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errNothingParsed):
		fmt.Fprintln(os.Stderr, err)
		return 2
	default:
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
}
