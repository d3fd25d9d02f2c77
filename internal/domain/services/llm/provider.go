package llm

import "context"

// GenerateRequest is a single synchronous text-generation call. The
// refinement workflow treats the provider as an opaque transform from an
// instruction plus input text to output text.
type GenerateRequest struct {
	System    string // Role framing, may be empty
	Prompt    string // Full instruction including any input text
	MaxTokens int    // 0 = provider default
}

// Provider is the external generative-text service boundary. Calls are
// blocking and cancellable only through ctx; there is no retry policy at
// this layer.
type Provider interface {
	// Name returns the provider name used in configuration
	Name() string

	// GenerateText performs one text-generation call and returns the plain
	// output text.
	GenerateText(ctx context.Context, req *GenerateRequest) (string, error)
}
