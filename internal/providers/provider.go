// internal/providers/provider.go

// Package providers defines the interface shared by the language model
// backends. A provider receives a fully assembled conversation and reports the
// answer through callbacks, regardless of the wire protocol it speaks.
package providers

import (
	"context"
	"time"
)

// Roles used in ChatMessage.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage represents a single message in a chat conversation.
type ChatMessage struct {
	Role    string
	Content string
}

// StreamMetadata describes a completed exchange.
type StreamMetadata struct {
	Model            string
	CreatedAt        time.Time
	Done             bool
	FinishReason     string
	PromptTokens     int
	CompletionTokens int
	TotalDuration    time.Duration
}

// StreamRequest encapsulates everything needed to run one exchange.
type StreamRequest struct {
	// Host is the base URL of the backend. Empty selects the client default.
	Host         string
	Model        string
	APIKey       string
	SystemPrompt string
	History      []ChatMessage
	Temperature  *float64
}

// StreamCallbacks are invoked while a response is produced. OnChunk may be
// called several times for streaming backends and once for the others.
type StreamCallbacks struct {
	OnChunk    func(ChatMessage) error
	OnComplete func(StreamMetadata) error
}

// ChatProvider is implemented by every model backend.
type ChatProvider interface {
	// Stream sends the request and forwards output to callbacks.
	Stream(ctx context.Context, req StreamRequest, callbacks StreamCallbacks) error
	// Close releases any resources held by the provider.
	Close() error
}

// ModelLister is implemented by providers that can enumerate the models a
// backend serves.
type ModelLister interface {
	ListModels(ctx context.Context, req StreamRequest) ([]string, error)
}

// Messages prepends the system prompt, when set, to the history.
func (r StreamRequest) Messages() []ChatMessage {
	if r.SystemPrompt == "" {
		return append([]ChatMessage(nil), r.History...)
	}
	out := make([]ChatMessage, 0, len(r.History)+1)
	out = append(out, ChatMessage{Role: RoleSystem, Content: r.SystemPrompt})
	return append(out, r.History...)
}
