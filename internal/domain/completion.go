package domain

import "context"

// Role is the author of a chat message.
type Role string

// Chat roles understood by every completion provider.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one message sent to a completion provider.
type ChatMessage struct {
	Role    Role
	Content string
}

// CompletionRequest is a single chat completion call.
// Model may be empty, in which case the provider uses its configured chat model.
type CompletionRequest struct {
	Model       string
	Temperature float32
	Messages    []ChatMessage
}

// Completer returns the text of the first choice of a chat completion.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// SystemMessage builds a system-role message.
func SystemMessage(content string) ChatMessage {
	return ChatMessage{Role: RoleSystem, Content: content}
}

// UserMessage builds a user-role message.
func UserMessage(content string) ChatMessage {
	return ChatMessage{Role: RoleUser, Content: content}
}
