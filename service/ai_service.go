package service

import (
	"context"
	"time"

	"github.com/tieubaoca/prism-be/schema"
	"github.com/tieubaoca/prism-be/types"
)

// AIService is the generative backend: an instruction, optional images and a
// response shape in, a JSON document or an error out.
type AIService interface {
	GenerateJSON(ctx context.Context, req GenerateRequest) (string, error)
}

// GenerateRequest is one structured generation call
type GenerateRequest struct {
	Name        string // Short identifier of the response shape, e.g. "roadmap"
	Instruction string
	Images      []types.PageImage
	Schema      *schema.Shape
	Temperature *float32
}

// Temperature is a helper for GenerateRequest.Temperature
func Temperature(t float32) *float32 {
	return &t
}

type timeoutService struct {
	next    AIService
	timeout time.Duration
}

// WithTimeout bounds every call to next by d. The deadline is derived from the
// caller's context so a cancelled request also cancels the backend call.
func WithTimeout(next AIService, d time.Duration) AIService {
	if d <= 0 {
		return next
	}
	return &timeoutService{next: next, timeout: d}
}

func (s *timeoutService) GenerateJSON(ctx context.Context, req GenerateRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.next.GenerateJSON(ctx, req)
}
