/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tieubaoca/prism-be/logger"
	"github.com/tieubaoca/prism-be/service"
	"github.com/tieubaoca/prism-be/types"
	"github.com/tieubaoca/prism-be/utils"
)

// extractDiagramCmd represents the extract-diagram command
var extractDiagramCmd = &cobra.Command{
	Use:   "extract-diagram",
	Short: "Extract the main architecture diagram of a PDF",
	Long: `Reads a PDF, ranks its embedded images and picks the main architecture
diagram. The diagram is written to the output directory under a timestamped
name and a JSON summary of the extraction is printed to stdout.

With --no-classify the largest image is taken and no backend is needed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		filePath, _ := cmd.Flags().GetString("file")
		outDir, _ := cmd.Flags().GetString("out")
		noClassify, _ := cmd.Flags().GetBool("no-classify")
		if filePath == "" {
			return fmt.Errorf("--file is required")
		}

		ex, cleanup, err := newExtractor(noClassify)
		if err != nil {
			return err
		}
		defer cleanup()

		summary, err := ex.extract(cmd.Context(), filePath, outDir)
		if err != nil {
			return err
		}
		return printJSON(summary)
	},
}

// extractor runs the diagram extraction for the CLI commands.
type extractor struct {
	pdfService *service.PDFService
	ai         service.AIService // nil when classification is disabled
	log        *logger.Logger
}

func newExtractor(noClassify bool) (*extractor, func(), error) {
	if noClassify {
		cfg, log, err := loadConfig()
		if err != nil {
			return nil, nil, err
		}
		return &extractor{
			pdfService: service.NewPDFService(documentConfig(cfg), log),
			log:        log,
		}, log.Sync, nil
	}

	cfg, log, ai, cleanup, err := loadRuntime()
	if err != nil {
		return nil, nil, err
	}
	return &extractor{
		pdfService: service.NewPDFService(documentConfig(cfg), log),
		ai:         ai,
		log:        log,
	}, cleanup, nil
}

func (e *extractor) extract(ctx context.Context, filePath, outDir string) (types.DocumentSummary, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return types.DocumentSummary{}, fmt.Errorf("failed to read %s: %w", filePath, err)
	}

	extraction, err := e.pdfService.ExtractDocument(ctx, data)
	if err != nil {
		return types.DocumentSummary{}, err
	}

	var selection types.Selection
	if e.ai == nil {
		selection = service.SelectLargest(extraction.Images)
	} else {
		selection = service.SelectDiagram(ctx, e.ai, extraction.Images, e.log)
	}

	summary := types.NewDocumentSummary(filePath, extraction, selection)
	if selection.Image == nil {
		e.log.Info("No diagram candidates found", "file", filePath)
		return summary, nil
	}

	name := utils.FileNameWithoutExt(filePath) + "_diagram" + utils.ExtensionForFormat(selection.Image.Format)
	summary.DiagramPath, err = utils.WriteFileWithTimestamp(selection.Image.Data, name, outDir)
	if err != nil {
		return summary, err
	}
	e.log.Info("Diagram written", "file", filePath, "path", summary.DiagramPath, "fallback", selection.Fallback)
	return summary, nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	rootCmd.AddCommand(extractDiagramCmd)

	extractDiagramCmd.Flags().StringP("file", "f", "", "Path to the PDF file")
	extractDiagramCmd.Flags().StringP("out", "o", "diagrams", "Directory the diagram is written to")
	extractDiagramCmd.Flags().Bool("no-classify", false, "Take the largest image instead of asking the backend")
}
