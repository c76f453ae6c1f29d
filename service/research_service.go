package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tieubaoca/prism-be/logger"
	"github.com/tieubaoca/prism-be/types"
)

const (
	maxEnrichPaperRunes     = 2000
	maxAblationContextRunes = 500
)

// ResearchService produces the typed research objects served by the API.
// Roadmap, enrichment and model generation are strict: a failure is returned.
// Ablation and quiz generation are degraded: a failure is logged and replaced
// with a fixed fallback of the same shape.
type ResearchService struct {
	ai       AIService
	searcher PaperSearcher
	log      *logger.Logger
}

func NewResearchService(ai AIService, log *logger.Logger) *ResearchService {
	if log == nil {
		log = logger.Nop()
	}
	return &ResearchService{
		ai:  ai,
		log: log.With("service", "ResearchService"),
	}
}

// WithPaperSearch makes GenerateRoadmap attach a web link to every paper.
func (s *ResearchService) WithPaperSearch(searcher PaperSearcher) *ResearchService {
	s.searcher = searcher
	return s
}

func (s *ResearchService) GenerateRoadmap(ctx context.Context, topic string) (*types.ResearchRoadmap, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, types.ValidationError("topic is required", nil)
	}
	roadmap, err := Generate[types.ResearchRoadmap](ctx, s.ai, GenerateRequest{
		Name:        "roadmap",
		Instruction: roadmapPrompt(topic),
		Schema:      types.RoadmapShape,
		Temperature: Temperature(0.3),
	})
	if err != nil {
		s.log.Error("Roadmap generation failed", "topic", topic, "error", err)
		return nil, err
	}
	if s.searcher != nil {
		attachPaperLinks(ctx, s.searcher, &roadmap, s.log)
	}
	return &roadmap, nil
}

func (s *ResearchService) EnrichModelStructure(ctx context.Context, req types.EnrichmentRequest) (*types.EnrichedModelResponse, error) {
	tier := req.UserTier
	if tier == "" {
		tier = types.UserTierApprentice
	}
	if !oneOf(types.UserTiers, tier) {
		return nil, types.ValidationError(fmt.Sprintf("unknown user tier %q", tier), nil)
	}
	structure, err := json.Marshal(req.ModelStructure)
	if err != nil {
		return nil, types.ValidationError("model_structure is not serializable", err)
	}

	enriched, err := Generate[types.EnrichedModelResponse](ctx, s.ai, GenerateRequest{
		Name:        "enriched_model",
		Instruction: enrichPrompt(tier, truncateRunes(req.PaperText, maxEnrichPaperRunes), string(structure)),
		Schema:      types.EnrichedModelShape,
		Temperature: Temperature(0.2),
	})
	if err != nil {
		s.log.Error("Enrichment failed", "layers", len(req.ModelStructure), "tier", tier, "error", err)
		return nil, err
	}
	return &enriched, nil
}

func (s *ResearchService) PredictAblation(ctx context.Context, req types.AblationRequest) *types.AblationResponse {
	prediction, err := Generate[types.AblationResponse](ctx, s.ai, GenerateRequest{
		Name:        "ablation",
		Instruction: ablationPrompt(req.NodeName, req.NodeType, truncateRunes(req.PaperContext, maxAblationContextRunes)),
		Schema:      types.AblationShape,
	})
	if err != nil {
		s.log.Warn("Ablation prediction failed, serving fallback", "node", req.NodeName, "error", err)
		return FallbackAblation()
	}
	return &prediction
}

func (s *ResearchService) GenerateQuiz(ctx context.Context, req types.QuizRequest) *types.QuizResponse {
	quiz, err := Generate[types.QuizResponse](ctx, s.ai, GenerateRequest{
		Name:        "quiz",
		Instruction: quizPrompt(req.NodeName, req.Concept, req.UserTier),
		Schema:      types.QuizShape,
	})
	if err != nil {
		s.log.Warn("Quiz generation failed, serving fallback", "node", req.NodeName, "error", err)
		return FallbackQuiz(req.NodeName)
	}
	return &quiz
}

// GenerateModelFromQuery builds a standard-mode model graph for a model name
// such as "Llama 3".
func (s *ResearchService) GenerateModelFromQuery(ctx context.Context, query string) (*types.ModelGraph, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, types.ValidationError("query is required", nil)
	}
	graph, err := Generate[types.ModelGraph](ctx, s.ai, GenerateRequest{
		Name:        "model_graph",
		Instruction: modelQueryPrompt(query),
		Schema:      types.ModelGraphShape,
		Temperature: Temperature(0.2),
	})
	if err != nil {
		s.log.Error("Model graph generation failed", "query", query, "error", err)
		return nil, err
	}
	graph.Mode = types.GraphModeStandard
	if graph.Blueprint == nil {
		graph.Blueprint = []types.BlueprintModule{}
	}
	return &graph, nil
}

// FallbackAblation is served when the ablation backend call fails.
func FallbackAblation() *types.AblationResponse {
	return &types.AblationResponse{
		PerformanceImpact:      "Accuracy likely drops by 10-20%.",
		TheoreticalConsequence: "Removing this layer reduces model capacity and non-linearity, likely causing underfitting.",
	}
}

// FallbackQuiz is served when the quiz backend call fails.
func FallbackQuiz(nodeName string) *types.QuizResponse {
	return &types.QuizResponse{
		Question:     fmt.Sprintf("What is the primary function of %s?", nodeName),
		Options:      []string{"Normalization", "Activation", "Matrix Multiplication", "Dropout"},
		CorrectIndex: 2,
		Explanation:  "It performs the core transformation.",
	}
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func oneOf(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}
