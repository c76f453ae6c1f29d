package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorWrapping(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := fmt.Errorf("upload: %w", DocumentParseError("failed to open PDF", cause))

	var domainErr *Error
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, ErrorTypeDocumentParse, domainErr.Type)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "upload: [document_parse] failed to open PDF: unexpected EOF", err.Error())
	assert.Equal(t, "[validation] topic is required", ValidationError("topic is required", nil).Error())
}

func TestPageImageDataURL(t *testing.T) {
	img := PageImage{Data: []byte{0xFF, 0xD8, 0xFF}, Format: "jpeg", Size: 3}

	assert.Equal(t, "image/jpeg", img.MIMEType())
	assert.Equal(t, "data:image/jpeg;base64,/9j/", img.DataURL())
}

func TestQuizValidate(t *testing.T) {
	valid := QuizResponse{Options: []string{"a", "b"}, CorrectIndex: 1}
	assert.NoError(t, valid.Validate())

	assert.Error(t, QuizResponse{Options: []string{"a", "b"}, CorrectIndex: 2}.Validate())
	assert.Error(t, QuizResponse{Options: []string{"a"}, CorrectIndex: -1}.Validate())
	assert.Error(t, QuizResponse{}.Validate())
}

func TestRoadmapValidate(t *testing.T) {
	roadmap := ResearchRoadmap{
		Nodes: []RoadmapNode{{ID: "a", Type: "seminal"}, {ID: "b", Type: "application"}},
		Edges: []RoadmapEdge{{Source: "a", Target: "b", Relation: "optimization"}},
	}
	assert.NoError(t, roadmap.Validate())

	roadmap.Edges[0].Relation = "citation"
	assert.EqualError(t, roadmap.Validate(), `edges[0].relation: unknown relation "citation"`)
}

func TestModelGraphValidate(t *testing.T) {
	graph := ModelGraph{Mode: GraphModeStandard, Layers: []LayerData{{Type: "FFN"}}}
	assert.NoError(t, graph.Validate())

	graph.Layers[0].Type = "LSTM"
	assert.Error(t, graph.Validate())

	graph = ModelGraph{Mode: "interactive"}
	assert.EqualError(t, graph.Validate(), `mode: unknown mode "interactive"`)
}

func TestNewDocumentSummary(t *testing.T) {
	extraction := &ExtractionResult{
		Text:      "héllo",
		PageCount: 3,
		Images: []PageImage{
			{Format: "jpeg", Size: 50000, PageNum: 1},
			{Format: "png", Size: 20000, PageNum: 3},
		},
	}
	img := extraction.Images[1]

	summary := NewDocumentSummary("paper.pdf", extraction, Selection{Image: &img, Index: 1})

	assert.Equal(t, 5, summary.TextLength)
	assert.Equal(t, 3, summary.PageCount)
	assert.Equal(t, 1, summary.SelectedIndex)
	assert.False(t, summary.Fallback)
	assert.Equal(t, []ImageSummary{{"jpeg", 50000, 1}, {"png", 20000, 3}}, summary.Candidates)
}
