package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	services "github.com/tieubaoca/prism-be/service"
	"github.com/tieubaoca/prism-be/types"
)

type stubAI struct {
	raw   string
	err   error
	calls int
}

func (s *stubAI) GenerateJSON(context.Context, services.GenerateRequest) (string, error) {
	s.calls++
	return s.raw, s.err
}

func newTestRouter(ai services.AIService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	pdfService := services.NewPDFService(types.DocumentServiceConfig{}, nil)
	return NewRouter(Handlers{
		Research: NewResearchHandler(services.NewResearchService(ai, nil)),
		Upload:   NewUploadHandler(services.NewFileService(ai, pdfService, nil), 1),
		Health:   NewHealthHandler("gemini", "gemini-2.5-flash"),
	}, nil)
}

func postJSON(t *testing.T, r http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) types.ErrorResponse {
	t.Helper()
	var resp types.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

const roadmapJSON = `{"topic":"GANs","nodes":[{"id":"n1","title":"Generative Adversarial Nets","year":2014,"type":"seminal","summary":"s"}],"edges":[]}`

func TestHealth(t *testing.T) {
	r := newTestRouter(&stubAI{})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","provider":"gemini","model":"gemini-2.5-flash"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestRoadmapFromQuery(t *testing.T) {
	r := newTestRouter(&stubAI{raw: roadmapJSON})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/research/roadmap?topic=GANs", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var roadmap types.ResearchRoadmap
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &roadmap))
	assert.Equal(t, "GANs", roadmap.Topic)
	assert.Len(t, roadmap.Nodes, 1)
}

func TestRoadmapFromBody(t *testing.T) {
	r := newTestRouter(&stubAI{raw: roadmapJSON})

	rec := postJSON(t, r, "/api/research/roadmap", types.RoadmapRequest{Topic: "GANs"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRoadmapStrictFailure(t *testing.T) {
	r := newTestRouter(&stubAI{err: errors.New("quota exceeded")})

	rec := postJSON(t, r, "/api/research/roadmap?topic=GANs", nil)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "generation", resp.ErrorType)
	assert.Contains(t, resp.Detail, "quota exceeded")
}

func TestRoadmapMissingTopic(t *testing.T) {
	ai := &stubAI{raw: roadmapJSON}
	r := newTestRouter(ai)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/research/roadmap", nil))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation", decodeError(t, rec).ErrorType)
	assert.Zero(t, ai.calls)
}

func TestEnrich(t *testing.T) {
	r := newTestRouter(&stubAI{raw: `{"enriched_layers":[{"id":"l1","explanation_card":{"summary":"s","technical":"t","paper_citation":"c"}}]}`})

	rec := postJSON(t, r, "/api/research/enrich", map[string]any{
		"model_structure": []map[string]any{{"id": "l1", "type": "FFN"}},
		"paper_text":      "text",
		"user_tier":       "expert",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp types.EnrichedModelResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "l1", resp.EnrichedLayers[0].ID)
}

func TestEnrichBadRequest(t *testing.T) {
	r := newTestRouter(&stubAI{})

	for name, body := range map[string]any{
		"missing structure": map[string]any{"paper_text": "x"},
		"unknown tier":      map[string]any{"model_structure": []any{}, "user_tier": "wizard"},
	} {
		t.Run(name, func(t *testing.T) {
			rec := postJSON(t, r, "/api/research/enrich", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestAblationDegrades(t *testing.T) {
	r := newTestRouter(&stubAI{raw: "definitely not json"})

	rec := postJSON(t, r, "/api/ablation/predict", types.AblationRequest{NodeName: "FFN", NodeType: "FFN"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"performance_impact": "Accuracy likely drops by 10-20%.",
		"theoretical_consequence": "Removing this layer reduces model capacity and non-linearity, likely causing underfitting."
	}`, rec.Body.String())
}

func TestAblationBadRequest(t *testing.T) {
	rec := postJSON(t, newTestRouter(&stubAI{}), "/api/ablation/predict", map[string]string{"node_name": "FFN"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQuizDegrades(t *testing.T) {
	r := newTestRouter(&stubAI{err: errors.New("timeout")})

	rec := postJSON(t, r, "/api/quiz/generate", types.QuizRequest{NodeName: "Softmax", Concept: "normalization"})

	require.Equal(t, http.StatusOK, rec.Code)
	var quiz types.QuizResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &quiz))
	assert.Equal(t, "What is the primary function of Softmax?", quiz.Question)
	assert.Equal(t, 2, quiz.CorrectIndex)
}

func TestModelQuery(t *testing.T) {
	r := newTestRouter(&stubAI{raw: `{"model_name":"ResNet-50","total_params":"25M","mode":"standard","topics":["CV"],"layers":[]}`})

	rec := postJSON(t, r, "/api/model/generate", types.ModelQueryRequest{Query: "ResNet-50"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"model_name":"ResNet-50","total_params":"25M","mode":"standard","topics":["CV"],"layers":[],"blueprint":[],"extracted_diagram_url":""}`, rec.Body.String())
}

func multipartBody(t *testing.T, field, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &body, w.FormDataContentType()
}

func upload(r http.Handler, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/upload/pdf", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestUploadRejectsUnreadablePDF(t *testing.T) {
	body, contentType := multipartBody(t, "file", "paper.pdf", []byte("not a pdf"))

	rec := upload(newTestRouter(&stubAI{}), body, contentType)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "document_parse", decodeError(t, rec).ErrorType)
}

func TestUploadMissingFile(t *testing.T) {
	body, contentType := multipartBody(t, "document", "paper.pdf", []byte("%PDF"))

	rec := upload(newTestRouter(&stubAI{}), body, contentType)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation", decodeError(t, rec).ErrorType)
}

func TestUploadTooLarge(t *testing.T) {
	body, contentType := multipartBody(t, "file", "paper.pdf", make([]byte, 3<<20))

	rec := upload(newTestRouter(&stubAI{}), body, contentType)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCorsPreflight(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/quiz/generate", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	newTestRouter(&stubAI{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
