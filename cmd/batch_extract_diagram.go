/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tieubaoca/prism-be/types"
)

// batchExtractDiagramCmd represents the batch-extract-diagram command
var batchExtractDiagramCmd = &cobra.Command{
	Use:   "batch-extract-diagram",
	Short: "Extract the main diagram of every PDF in a directory",
	Long: `Runs extract-diagram on every .pdf file of a directory, one after the
other, and prints a JSON array of summaries. A file that fails is reported
on stderr and skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		directory, _ := cmd.Flags().GetString("directory")
		outDir, _ := cmd.Flags().GetString("out")
		noClassify, _ := cmd.Flags().GetBool("no-classify")
		if directory == "" {
			return fmt.Errorf("--directory is required")
		}

		entries, err := os.ReadDir(directory)
		if err != nil {
			return fmt.Errorf("failed to read directory: %w", err)
		}

		ex, cleanup, err := newExtractor(noClassify)
		if err != nil {
			return err
		}
		defer cleanup()

		summaries := make([]types.DocumentSummary, 0, len(entries))
		for _, entry := range entries {
			if entry.IsDir() || strings.ToLower(filepath.Ext(entry.Name())) != ".pdf" {
				continue
			}
			path := filepath.Join(directory, entry.Name())
			summary, err := ex.extract(cmd.Context(), path, outDir)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed to extract %s: %v\n", path, err)
				continue
			}
			summaries = append(summaries, summary)
		}
		return printJSON(summaries)
	},
}

func init() {
	rootCmd.AddCommand(batchExtractDiagramCmd)

	batchExtractDiagramCmd.Flags().StringP("directory", "d", "", "Directory containing PDF files")
	batchExtractDiagramCmd.Flags().StringP("out", "o", "diagrams", "Directory the diagrams are written to")
	batchExtractDiagramCmd.Flags().Bool("no-classify", false, "Take the largest image instead of asking the backend")
}
