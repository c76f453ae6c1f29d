package service

import (
	"context"
	"sync"
)

// stubAI is an AIService that records every call and answers with respond.
type stubAI struct {
	mu       sync.Mutex
	requests []GenerateRequest
	respond  func(ctx context.Context, req GenerateRequest) (string, error)
}

func (s *stubAI) GenerateJSON(ctx context.Context, req GenerateRequest) (string, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()
	return s.respond(ctx, req)
}

func (s *stubAI) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

func (s *stubAI) last() GenerateRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[len(s.requests)-1]
}

func answer(raw string) *stubAI {
	return &stubAI{respond: func(context.Context, GenerateRequest) (string, error) {
		return raw, nil
	}}
}

func failing(err error) *stubAI {
	return &stubAI{respond: func(context.Context, GenerateRequest) (string, error) {
		return "", err
	}}
}

// answerByName answers each request with the payload registered for its Name.
func answerByName(payloads map[string]string) *stubAI {
	return &stubAI{respond: func(_ context.Context, req GenerateRequest) (string, error) {
		raw, ok := payloads[req.Name]
		if !ok {
			return "", errUnexpectedRequest
		}
		return raw, nil
	}}
}

type stubError string

func (e stubError) Error() string { return string(e) }

const errUnexpectedRequest = stubError("unexpected request")
