package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/unipatch/unipatch/internal/config"
	"github.com/unipatch/unipatch/internal/logging"
	"github.com/unipatch/unipatch/internal/report"
	"github.com/unipatch/unipatch/internal/tui"
	"github.com/unipatch/unipatch/internal/workspace"
	"github.com/unipatch/unipatch/pkg/unidiff"
)

var (
	fromClipboard bool
	jsonOutput    bool
	interactive   bool
	strictFlag    bool
)

var applyCmd = &cobra.Command{
	Use:   "apply [patch-file]",
	Short: "Apply a unified diff to the workspace and write the results",
	Long: `apply reads unified-diff text from a file argument, standard input,
or the system clipboard, computes the patched content of every file the
diff names, and writes the successful results back below the workspace
root. Failed and skipped files are reported and left untouched.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBatch(cmd, args, true)
	},
}

var checkCmd = &cobra.Command{
	Use:   "check [patch-file]",
	Short: "Dry-run a unified diff without writing anything",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBatch(cmd, args, false)
	},
}

func init() {
	for _, c := range []*cobra.Command{applyCmd, checkCmd} {
		c.Flags().BoolVar(&fromClipboard, "clipboard", false, "read the patch from the system clipboard")
		c.Flags().BoolVar(&jsonOutput, "json", false, "emit a machine-readable JSON report")
		c.Flags().BoolVar(&strictFlag, "strict", false, "treat skipped files as a failure")
	}
	applyCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "review outcomes in a browser before writing")

	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(checkCmd)
}

func runBatch(cmd *cobra.Command, args []string, commit bool) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	strict := cfg.Strict || strictFlag

	raw, err := readPatchInput(args)
	if err != nil {
		return err
	}

	logger := newLogger()
	ws, err := workspace.NewFilesystem(cfg.Root, logger)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	logger.Debug(ctx, "applying patch batch",
		logging.Field("root", ws.Root()),
		logging.Field("bytes", len(raw)))

	summary := unidiff.ApplyAll(raw, ws)
	if summary.NothingParsed {
		return errNothingParsed
	}

	if commit && interactive {
		approved, tuiErr := tui.Run(summary)
		if tuiErr != nil {
			return tuiErr
		}
		if !approved {
			fmt.Fprintln(cmd.OutOrStdout(), "Aborted, nothing written.")
			return nil
		}
	}

	if commit {
		results, commitErr := ws.Commit(ctx, summary)
		if commitErr != nil {
			return commitErr
		}
		logger.Debug(ctx, "committed outcomes", logging.Field("files", len(results)))
	}

	if jsonOutput || cfg.Report == config.ReportJSON {
		payload, jsonErr := report.JSON(summary)
		if jsonErr != nil {
			return jsonErr
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(payload))
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), report.NewRenderer(cfg.NoColor).Render(summary))
	}

	if summary.Failed > 0 || (strict && summary.Skipped > 0) {
		return errBatchFailed
	}
	return nil
}

// readPatchInput fetches the raw patch text from the clipboard, a file
// argument, or standard input ("-" or no argument).
func readPatchInput(args []string) (string, error) {
	if fromClipboard {
		text, err := clipboard.ReadAll()
		if err != nil {
			return "", fmt.Errorf("failed to read clipboard: %w", err)
		}
		if strings.TrimSpace(text) == "" {
			return "", fmt.Errorf("clipboard is empty")
		}
		return text, nil
	}

	if len(args) == 1 && args[0] != "-" {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("failed to read patch file: %w", err)
		}
		return string(data), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read patch from stdin: %w", err)
	}
	return string(data), nil
}
