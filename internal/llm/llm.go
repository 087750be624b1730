package llm

import "context"

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single chat message sent to a language model.
type Message struct {
	Role    string
	Content string
}

// Provider is implemented by language model clients.
type Provider interface {
	// Chat sends the message sequence and returns the generated text.
	Chat(ctx context.Context, messages []Message) (string, error)

	// Close releases the underlying client.
	Close() error
}
