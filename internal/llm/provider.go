package llm

import "context"

// Role represents the role of a message sender in a conversation.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single message in a completion request.
type Message struct {
	Role    Role
	Content string
}

// CompletionRequest contains the parameters for a completion call.
// JSONMode requests a structured JSON reply where the provider supports it;
// the context extractor relies on it for its closed-schema pass.
type CompletionRequest struct {
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float64
	JSONMode    bool
}

// CompletionResponse is the result of a completion call.
type CompletionResponse struct {
	Content      string
	InputTokens  int
	OutputTokens int
	Model        string
}

// Provider is implemented by language model backends. Calls may block for
// seconds and must honor context cancellation; callers on the interactive
// path treat any error as a signal to degrade, never to retry.
type Provider interface {
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	Name() string
}
