package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/multierr"
	"google.golang.org/api/option"

	"github.com/tieubaoca/prism-be/logger"
	"github.com/tieubaoca/prism-be/schema"
)

const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiService talks to the Gemini API. It holds one client per API key
// and moves to the next key after a failed call; the failed call itself is
// not retried. Clients stay open until Close, so a request still running on
// the previous key is unaffected by a rotation.
type GeminiService struct {
	clients    []*genai.Client
	currentKey int
	modelName  string
	log        *logger.Logger
	mu         sync.Mutex
}

func NewGeminiService(apiKeys []string, modelName string, log *logger.Logger) (*GeminiService, error) {
	if len(apiKeys) == 0 {
		return nil, errors.New("no API keys provided")
	}
	if modelName == "" {
		modelName = DefaultGeminiModel
	}
	if log == nil {
		log = logger.Nop()
	}

	service := &GeminiService{
		clients:   make([]*genai.Client, 0, len(apiKeys)),
		modelName: modelName,
		log:       log.With("service", "GeminiService", "model", modelName),
	}
	for i, key := range apiKeys {
		client, err := genai.NewClient(context.Background(), option.WithAPIKey(key))
		if err != nil {
			service.Close()
			return nil, fmt.Errorf("failed to create client for key %d: %w", i, err)
		}
		service.clients = append(service.clients, client)
	}
	return service, nil
}

func (s *GeminiService) rotateAPIKey() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentKey = (s.currentKey + 1) % len(s.clients)
}

func (s *GeminiService) currentClient() *genai.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clients[s.currentKey]
}

// GenerateJSON builds a fresh GenerativeModel for every call so the response
// schema of one request never leaks into another.
func (s *GeminiService) GenerateJSON(ctx context.Context, req GenerateRequest) (string, error) {
	model := s.currentClient().GenerativeModel(s.modelName)
	model.ResponseMIMEType = "application/json"
	if req.Schema != nil {
		model.ResponseSchema = toGenaiSchema(req.Schema)
	}
	if req.Temperature != nil {
		model.SetTemperature(*req.Temperature)
	}

	parts := make([]genai.Part, 0, 1+len(req.Images))
	parts = append(parts, genai.Text(req.Instruction))
	for _, img := range req.Images {
		parts = append(parts, genai.ImageData(img.Format, img.Data))
	}

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		s.log.Warn("Gemini call failed", "request", req.Name, "error", err)
		s.rotateAPIKey()
		return "", err
	}

	if len(resp.Candidates) == 0 {
		return "", errors.New("no response generated")
	}

	var content strings.Builder
	candidate := resp.Candidates[0]
	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				content.WriteString(string(text))
			}
		}
	}
	if strings.TrimSpace(content.String()) == "" {
		return "", fmt.Errorf("empty response (finish reason %s)", candidate.FinishReason)
	}
	return content.String(), nil
}

// Close releases every client. The service must not be used afterwards.
func (s *GeminiService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var err error
	for _, client := range s.clients {
		err = multierr.Append(err, client.Close())
	}
	return err
}

func toGenaiSchema(shape *schema.Shape) *genai.Schema {
	out := &genai.Schema{
		Description: shape.Description,
	}
	switch shape.Kind {
	case schema.String:
		out.Type = genai.TypeString
		if len(shape.Enum) > 0 {
			out.Format = "enum"
			out.Enum = append([]string(nil), shape.Enum...)
		}
	case schema.Integer:
		out.Type = genai.TypeInteger
	case schema.Number:
		out.Type = genai.TypeNumber
	case schema.Boolean:
		out.Type = genai.TypeBoolean
	case schema.Array:
		out.Type = genai.TypeArray
		if shape.Items != nil {
			out.Items = toGenaiSchema(shape.Items)
		}
	case schema.Object:
		out.Type = genai.TypeObject
		out.Properties = make(map[string]*genai.Schema, len(shape.Fields))
		for _, f := range shape.Fields {
			prop := toGenaiSchema(f.Shape)
			prop.Nullable = f.Optional
			out.Properties[f.Name] = prop
		}
		out.Required = shape.Required()
	}
	return out
}
