package service

import (
	"context"
	"errors"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/tieubaoca/prism-be/logger"
	"github.com/tieubaoca/prism-be/schema"
)

var (
	SystemMessageStructuredOutput = openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: "You are Prism, a research assistant for deep learning papers. Answer only with a JSON document that matches the requested schema.",
	}
)

// OpenAIService talks to any OpenAI compatible chat completion endpoint
type OpenAIService struct {
	client *openai.Client
	model  string
	log    *logger.Logger
}

func NewOpenAIService(baseURL string, apiKey, model string, log *logger.Logger) *OpenAIService {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if log == nil {
		log = logger.Nop()
	}
	return &OpenAIService{
		client: openai.NewClientWithConfig(config),
		model:  model,
		log:    log.With("service", "OpenAIService", "model", model),
	}
}

func (s *OpenAIService) GenerateJSON(ctx context.Context, req GenerateRequest) (string, error) {
	user := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser}
	if len(req.Images) == 0 {
		user.Content = req.Instruction
	} else {
		user.MultiContent = append(user.MultiContent, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeText,
			Text: req.Instruction,
		})
		for _, img := range req.Images {
			user.MultiContent = append(user.MultiContent, openai.ChatMessagePart{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL:    img.DataURL(),
					Detail: openai.ImageURLDetailAuto,
				},
			})
		}
	}

	completion := openai.ChatCompletionRequest{
		Model:    s.model,
		Messages: []openai.ChatCompletionMessage{SystemMessageStructuredOutput, user},
	}
	if req.Schema != nil {
		def := toJSONSchema(req.Schema)
		completion.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   schemaName(req.Name),
				Schema: &def,
			},
		}
	} else {
		completion.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}
	if req.Temperature != nil {
		completion.Temperature = *req.Temperature
	}

	resp, err := s.client.CreateChatCompletion(ctx, completion)
	if err != nil {
		s.log.Warn("Chat completion failed", "request", req.Name, "error", err)
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no response generated")
	}
	msg := resp.Choices[0].Message
	if msg.Refusal != "" {
		return "", errors.New("model refused: " + msg.Refusal)
	}
	if strings.TrimSpace(msg.Content) == "" {
		return "", errors.New("empty response")
	}
	return msg.Content, nil
}

func schemaName(name string) string {
	if name == "" {
		return "response"
	}
	return name
}

func toJSONSchema(shape *schema.Shape) jsonschema.Definition {
	out := jsonschema.Definition{
		Description: shape.Description,
	}
	switch shape.Kind {
	case schema.String:
		out.Type = jsonschema.String
		if len(shape.Enum) > 0 {
			out.Enum = append([]string(nil), shape.Enum...)
		}
	case schema.Integer:
		out.Type = jsonschema.Integer
	case schema.Number:
		out.Type = jsonschema.Number
	case schema.Boolean:
		out.Type = jsonschema.Boolean
	case schema.Array:
		out.Type = jsonschema.Array
		if shape.Items != nil {
			items := toJSONSchema(shape.Items)
			out.Items = &items
		}
	case schema.Object:
		out.Type = jsonschema.Object
		out.Properties = make(map[string]jsonschema.Definition, len(shape.Fields))
		for _, f := range shape.Fields {
			out.Properties[f.Name] = toJSONSchema(f.Shape)
		}
		out.Required = shape.Required()
		out.AdditionalProperties = false
	}
	return out
}
