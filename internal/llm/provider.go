package llm

import "context"

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ChatProvider produces a single completion for a message list.
type ChatProvider interface {
	Chat(ctx context.Context, messages []Message, temperature float32) (string, error)
}

// Embedder turns texts into fixed-dimension vectors. Deterministic for
// identical input text.
type Embedder interface {
	Embeddings(ctx context.Context, inputs []string) ([][]float32, error)
}
