package ai

import "context"

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Provider is one blocking chat completion per call. The full ordered
// message list (system turn included) goes in, one assistant message
// comes back.
type Provider interface {
	Chat(ctx context.Context, messages []Message) (string, error)
}
