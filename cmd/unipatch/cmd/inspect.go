package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/unipatch/unipatch/pkg/unidiff"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [patch-file]",
	Short: "Parse a unified diff and print its structure",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := readPatchInput(args)
		if err != nil {
			return err
		}

		patches := unidiff.Parse(raw)
		if len(patches) == 0 {
			return errNothingParsed
		}

		out := cmd.OutOrStdout()
		for _, fp := range patches {
			path, pathErr := unidiff.NormalizePath(fp.OldPath, fp.NewPath)
			if pathErr != nil {
				path = fmt.Sprintf("(unusable: %v)", pathErr)
			}

			kind := "modify"
			switch {
			case fp.IsCreate():
				kind = "create"
			case fp.IsDelete():
				kind = "delete"
			}

			fmt.Fprintf(out, "%s (%s, %d hunks)\n", path, kind, len(fp.Hunks))
			for i, hunk := range fp.Hunks {
				adds, deletes := 0, 0
				for _, line := range hunk.Lines {
					switch line.Kind {
					case unidiff.LineAdd:
						adds++
					case unidiff.LineDelete:
						deletes++
					}
				}
				fmt.Fprintf(out, "  hunk %d: -%d,%d +%d,%d (%s)\n",
					i+1, hunk.OldStart, hunk.OldLines, hunk.NewStart, hunk.NewLines,
					describeCounts(adds, deletes))
			}
		}
		return nil
	},
}

func describeCounts(adds, deletes int) string {
	parts := []string{}
	if adds > 0 {
		parts = append(parts, fmt.Sprintf("%d added", adds))
	}
	if deletes > 0 {
		parts = append(parts, fmt.Sprintf("%d deleted", deletes))
	}
	if len(parts) == 0 {
		return "context only"
	}
	return strings.Join(parts, ", ")
}

func init() {
	inspectCmd.Flags().BoolVar(&fromClipboard, "clipboard", false, "read the patch from the system clipboard")
	rootCmd.AddCommand(inspectCmd)
}
