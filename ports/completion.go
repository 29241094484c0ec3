package ports

import "context"

// CompletionMode selects the fixed instruction template wrapped around the
// caller-supplied context.
type CompletionMode string

const (
	// ModeAdvice is the open-ended health advice persona.
	ModeAdvice CompletionMode = "advice"
	// ModeAnalysis is the structured health-data analysis persona.
	ModeAnalysis CompletionMode = "analysis"
)

// CompletionClient wraps the external AI text-generation call. One blocking
// call per invocation, bounded by the client's timeout; no retry, no caching.
type CompletionClient interface {
	Complete(ctx context.Context, promptContext string, mode CompletionMode) (string, error)
}
