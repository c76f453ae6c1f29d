package types

import (
	"fmt"

	"github.com/tieubaoca/prism-be/schema"
)

// Closed vocabularies shared by the response shapes and the Go types.
var (
	NodeTypes     = []string{"seminal", "improvement", "refutation", "application"}
	EdgeRelations = []string{"inheritance", "refutation", "optimization", "application"}
	UserTiers     = []string{"tourist", "apprentice", "expert"}
	GraphModes    = []string{"standard", "custom_diagram"}
	LayerTypes    = []string{
		"Embedding", "TransformerBlock", "MultiHeadAttention", "FFN", "Output",
		"LayerNorm", "GenericBlock", "Convolution", "Pooling",
	}
)

const (
	UserTierTourist    = "tourist"
	UserTierApprentice = "apprentice"
	UserTierExpert     = "expert"

	GraphModeStandard      = "standard"
	GraphModeCustomDiagram = "custom_diagram"
)

type RoadmapNode struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Year    int    `json:"year"`
	Type    string `json:"type"`
	Summary string `json:"summary"`
	Link    string `json:"link,omitempty"` // Set by the paper lookup, never by the model
}

type RoadmapEdge struct {
	Source   string `json:"source"`
	Target   string `json:"target"`
	Relation string `json:"relation"`
	Label    string `json:"label"`
}

// ResearchRoadmap is the evolution graph of a research topic
type ResearchRoadmap struct {
	Topic string        `json:"topic"`
	Nodes []RoadmapNode `json:"nodes"`
	Edges []RoadmapEdge `json:"edges"`
}

func (r ResearchRoadmap) Validate() error {
	for i, n := range r.Nodes {
		if !oneOf(NodeTypes, n.Type) {
			return fmt.Errorf("nodes[%d].type: unknown node type %q", i, n.Type)
		}
	}
	for i, e := range r.Edges {
		if !oneOf(EdgeRelations, e.Relation) {
			return fmt.Errorf("edges[%d].relation: unknown relation %q", i, e.Relation)
		}
	}
	return nil
}

type ExplanationCard struct {
	DisplayName   *string `json:"display_name,omitempty"`
	Summary       string  `json:"summary"`
	Technical     string  `json:"technical"`
	PaperCitation string  `json:"paper_citation"`
}

type EnrichedLayer struct {
	ID              string          `json:"id"`
	ExplanationCard ExplanationCard `json:"explanation_card"`
}

type EnrichedModelResponse struct {
	EnrichedLayers []EnrichedLayer `json:"enriched_layers"`
}

type AblationResponse struct {
	PerformanceImpact      string `json:"performance_impact"`
	TheoreticalConsequence string `json:"theoretical_consequence"`
}

type QuizResponse struct {
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
	Explanation  string   `json:"explanation"`
}

func (q QuizResponse) Validate() error {
	if len(q.Options) == 0 {
		return fmt.Errorf("options: quiz has no options")
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return fmt.Errorf("correct_index: %d is out of range for %d options", q.CorrectIndex, len(q.Options))
	}
	return nil
}

// LayerData is one block of a model architecture
type LayerData struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Type            string           `json:"type"`
	InputShape      []string         `json:"input_shape"`
	OutputShape     []string         `json:"output_shape"`
	Description     string           `json:"description"`
	ExplanationCard *ExplanationCard `json:"explanation_card,omitempty"`
	Params          string           `json:"params,omitempty"`
}

// BlueprintModule is a region of an extracted architecture diagram
type BlueprintModule struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Type        string     `json:"type"`
	Box2D       [4]float64 `json:"box_2d"`
	Description string     `json:"description"`
	Next        []string   `json:"next,omitempty"`
}

// ModelGraph is the architecture summary returned for a query or an upload
type ModelGraph struct {
	ModelName           string            `json:"model_name"`
	TotalParams         string            `json:"total_params"`
	Mode                string            `json:"mode"`
	Topics              []string          `json:"topics,omitempty"`
	Layers              []LayerData       `json:"layers"`
	Blueprint           []BlueprintModule `json:"blueprint"`
	ExtractedDiagramURL string            `json:"extracted_diagram_url"`
}

func (g ModelGraph) Validate() error {
	if !oneOf(GraphModes, g.Mode) {
		return fmt.Errorf("mode: unknown mode %q", g.Mode)
	}
	for i, l := range g.Layers {
		if !oneOf(LayerTypes, l.Type) {
			return fmt.Errorf("layers[%d].type: unknown layer type %q", i, l.Type)
		}
	}
	return nil
}

func oneOf(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}

// Response shapes handed to the generative backend and used to validate
// whatever comes back.
var (
	RoadmapShape = schema.Obj(
		schema.Req("topic", schema.Str("")),
		schema.Req("nodes", schema.Arr(schema.Obj(
			schema.Req("id", schema.Str("")),
			schema.Req("title", schema.Str("")),
			schema.Req("year", schema.Int("")),
			schema.Req("type", schema.Enum(NodeTypes...)),
			schema.Req("summary", schema.Str("One sentence technical summary")),
		))),
		schema.Req("edges", schema.Arr(schema.Obj(
			schema.Req("source", schema.Str("")),
			schema.Req("target", schema.Str("")),
			schema.Req("relation", schema.Enum(EdgeRelations...)),
			schema.Req("label", schema.Str("")),
		))),
	)

	ExplanationCardShape = schema.Obj(
		schema.Opt("display_name", schema.Str("")),
		schema.Req("summary", schema.Str("Analogy or plain-language summary")),
		schema.Req("technical", schema.Str("Technical detail, LaTeX allowed")),
		schema.Req("paper_citation", schema.Str("Direct excerpt from the paper in its original language")),
	)

	EnrichedModelShape = schema.Obj(
		schema.Req("enriched_layers", schema.Arr(schema.Obj(
			schema.Req("id", schema.Str("")),
			schema.Req("explanation_card", ExplanationCardShape),
		))),
	)

	AblationShape = schema.Obj(
		schema.Req("performance_impact", schema.Str("Estimated accuracy drop or loss increase")),
		schema.Req("theoretical_consequence", schema.Str("e.g. vanishing gradients, dimension mismatch")),
	)

	QuizShape = schema.Obj(
		schema.Req("question", schema.Str("")),
		schema.Req("options", schema.Arr(schema.Str("")).Describe("Between 2 and 6 answer options")),
		schema.Req("correct_index", schema.Int("Zero-based index into options")),
		schema.Req("explanation", schema.Str("")),
	)

	LayerShape = schema.Obj(
		schema.Req("id", schema.Str("")),
		schema.Req("name", schema.Str("")),
		schema.Req("type", schema.Enum(LayerTypes...)),
		schema.Opt("input_shape", schema.Arr(schema.Str(""))),
		schema.Opt("output_shape", schema.Arr(schema.Str(""))),
		schema.Req("description", schema.Str("")),
		schema.Req("explanation_card", ExplanationCardShape),
		schema.Opt("params", schema.Str("")),
	)

	BlueprintModuleShape = schema.Obj(
		schema.Req("id", schema.Str("")),
		schema.Req("name", schema.Str("")),
		schema.Req("type", schema.Str("Backbone, Head, Loss, Input or Generic")),
		schema.Req("box_2d", schema.Arr(schema.Num("").Between(0, 100)).Len(4).Describe("[x, y, w, h] in percent of the image")),
		schema.Req("description", schema.Str("")),
		schema.Opt("next", schema.Arr(schema.Str(""))),
	)

	ModelGraphShape = schema.Obj(
		schema.Req("model_name", schema.Str("")),
		schema.Req("total_params", schema.Str("")),
		schema.Req("mode", schema.Enum(GraphModes...)),
		schema.Req("topics", schema.Arr(schema.Str("")).Describe("3-5 core research keywords")),
		schema.Req("layers", schema.Arr(LayerShape)),
		schema.Opt("blueprint", schema.Arr(BlueprintModuleShape)),
	)

	DiagramIndexShape = schema.Obj(
		schema.Req("index", schema.Int("Zero-based index of the main architecture diagram")),
	)
)

// DiagramAnalysis is what the model reads off an extracted architecture
// diagram.
type DiagramAnalysis struct {
	ModelName   string            `json:"model_name"`
	TotalParams string            `json:"total_params"`
	Topics      []string          `json:"topics"`
	Blueprint   []BlueprintModule `json:"blueprint"`
}

var DiagramAnalysisShape = schema.Obj(
	schema.Req("model_name", schema.Str("")),
	schema.Req("total_params", schema.Str("Parameter count as written in the paper, or \"Custom\"")),
	schema.Req("topics", schema.Arr(schema.Str("")).Describe("3-5 core research keywords")),
	schema.Req("blueprint", schema.Arr(BlueprintModuleShape)),
)
