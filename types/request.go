package types

import "encoding/json"

type RoadmapRequest struct {
	Topic string `json:"topic" form:"topic"`
}

// EnrichmentRequest asks for explanation cards for every layer of a model.
// ModelStructure entries are passed through to the model untouched.
type EnrichmentRequest struct {
	ModelStructure []map[string]json.RawMessage `json:"model_structure" binding:"required"`
	PaperText      string                       `json:"paper_text"`
	UserTier       string                       `json:"user_tier" binding:"omitempty,oneof=tourist apprentice expert"`
}

type AblationRequest struct {
	NodeName     string `json:"node_name" binding:"required"`
	NodeType     string `json:"node_type" binding:"required"`
	PaperContext string `json:"paper_context"`
}

type QuizRequest struct {
	NodeName string `json:"node_name" binding:"required"`
	Concept  string `json:"concept" binding:"required"`
	UserTier string `json:"user_tier"`
}

type ModelQueryRequest struct {
	Query string `json:"query" binding:"required"`
}
