package service

import (
	"context"
	"fmt"

	"github.com/tieubaoca/prism-be/schema"
	"github.com/tieubaoca/prism-be/types"
)

// Generate runs one structured generation call and decodes the answer into T.
// The backend is asked for JSON matching req.Schema, but the answer is still
// validated here: field presence, types and enum membership against the
// shape, then T's own Validate method when it has one.
//
// Every failure is returned as a GenerationError. Call sites decide between
// surfacing it (strict) and substituting a fixed fallback (degraded).
func Generate[T any](ctx context.Context, ai AIService, req GenerateRequest) (T, error) {
	var zero T
	if req.Schema == nil {
		return zero, types.GenerationError(fmt.Sprintf("%s: no response shape declared", req.Name), nil)
	}

	raw, err := ai.GenerateJSON(ctx, req)
	if err != nil {
		return zero, types.GenerationError(fmt.Sprintf("%s: backend call failed", req.Name), err)
	}

	out, err := schema.Decode[T](raw, req.Schema)
	if err != nil {
		return zero, types.GenerationError(fmt.Sprintf("%s: response does not match schema", req.Name), err)
	}
	return out, nil
}
