package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tieubaoca/prism-be/logger"
	"github.com/tieubaoca/prism-be/types"
)

const maxAnalysisTextRunes = 4000

// FileService runs the upload pipeline: extract text and diagram candidates,
// pick the main diagram, then describe the model. Only a document that cannot
// be parsed fails the upload; every later step degrades.
type FileService struct {
	ai         AIService
	pdfService *PDFService
	log        *logger.Logger
}

func NewFileService(ai AIService, pdfService *PDFService, log *logger.Logger) *FileService {
	if log == nil {
		log = logger.Nop()
	}
	return &FileService{
		ai:         ai,
		pdfService: pdfService,
		log:        log.With("service", "FileService"),
	}
}

// UploadFile turns an uploaded paper into the model summary shown by the
// front end.
func (s *FileService) UploadFile(ctx context.Context, filename string, data []byte) (*types.ModelGraph, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".pdf" {
		return nil, types.ValidationError(fmt.Sprintf("unsupported file type: %s", ext), nil)
	}

	extraction, err := s.pdfService.ExtractDocument(ctx, data)
	if err != nil {
		return nil, err
	}
	s.log.Info("Document extracted",
		"file", filename,
		"pages", extraction.PageCount,
		"text_runes", len([]rune(extraction.Text)),
		"candidates", len(extraction.Images),
	)

	selection := SelectDiagram(ctx, s.ai, extraction.Images, s.log)
	excerpt := truncateRunes(extraction.Text, maxAnalysisTextRunes)

	if selection.Image == nil {
		return s.describeFromText(ctx, excerpt), nil
	}
	return s.describeDiagram(ctx, *selection.Image, excerpt), nil
}

func (s *FileService) describeDiagram(ctx context.Context, diagram types.PageImage, excerpt string) *types.ModelGraph {
	graph := placeholderGraph(types.GraphModeCustomDiagram)
	graph.ExtractedDiagramURL = diagram.DataURL()

	analysis, err := Generate[types.DiagramAnalysis](ctx, s.ai, GenerateRequest{
		Name:        "diagram_analysis",
		Instruction: diagramAnalysisPrompt(excerpt),
		Images:      []types.PageImage{diagram},
		Schema:      types.DiagramAnalysisShape,
		Temperature: Temperature(0.1),
	})
	if err != nil {
		s.log.Warn("Diagram analysis failed, serving placeholder", "error", err)
		return graph
	}

	graph.ModelName = analysis.ModelName
	graph.TotalParams = analysis.TotalParams
	graph.Topics = analysis.Topics
	if analysis.Blueprint != nil {
		graph.Blueprint = analysis.Blueprint
	}
	return graph
}

func (s *FileService) describeFromText(ctx context.Context, excerpt string) *types.ModelGraph {
	if strings.TrimSpace(excerpt) == "" {
		return placeholderGraph(types.GraphModeStandard)
	}

	graph, err := Generate[types.ModelGraph](ctx, s.ai, GenerateRequest{
		Name:        "document_layers",
		Instruction: documentLayersPrompt(excerpt),
		Schema:      types.ModelGraphShape,
		Temperature: Temperature(0.1),
	})
	if err != nil {
		s.log.Warn("Layer analysis failed, serving placeholder", "error", err)
		return placeholderGraph(types.GraphModeStandard)
	}
	graph.Mode = types.GraphModeStandard
	graph.ExtractedDiagramURL = ""
	if graph.Layers == nil {
		graph.Layers = []types.LayerData{}
	}
	graph.Blueprint = []types.BlueprintModule{}
	return &graph
}

// placeholderGraph is the summary served when the model could not describe
// the paper.
func placeholderGraph(mode string) *types.ModelGraph {
	return &types.ModelGraph{
		ModelName:   "Paper Model",
		TotalParams: "Custom",
		Mode:        mode,
		Layers:      []types.LayerData{},
		Blueprint:   []types.BlueprintModule{},
	}
}
