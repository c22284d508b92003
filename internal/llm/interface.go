package llm

import "context"

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client wraps a single chat-completion capability.
// Complete fails with models.ErrConfiguration when no credential is configured and
// with models.ErrService on any transport or non-success response. It never retries.
type Client interface {
	Complete(ctx context.Context, messages []Message, maxTokens int) (string, error)
}
