// Package chat runs a conversation against the combo catalog: it keeps the
// transcript, gates concurrent questions, retrieves context and asks the
// configured model.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mwiater/beypal/internal/appconfig"
	"github.com/mwiater/beypal/internal/catalog"
	"github.com/mwiater/beypal/internal/logging"
	"github.com/mwiater/beypal/internal/metrics"
	"github.com/mwiater/beypal/internal/providerfactory"
	"github.com/mwiater/beypal/internal/providers"
	"github.com/mwiater/beypal/internal/rag"
)

var (
	// ErrEmptyQuery is returned for blank questions.
	ErrEmptyQuery = errors.New("empty query")
	// ErrBusy is returned while a question or upload is still being processed.
	ErrBusy = errors.New("session busy")
)

// Role identifies the author of a transcript message.
type Role string

const (
	RoleUser   Role = "user"
	RoleAI     Role = "ai"
	RoleSystem Role = "system"
)

// State is the busy flag of a session.
type State string

const (
	StateIdle      State = "IDLE"
	StateSearching State = "SEARCHING"
	StateAnalyzing State = "ANALYZING"
)

// Message is one transcript entry.
type Message struct {
	ID            string          `json:"id"`
	Role          Role            `json:"role"`
	Content       string          `json:"content"`
	RelatedCombos []catalog.Combo `json:"relatedCombos,omitempty"`
	Timestamp     time.Time       `json:"timestamp"`
}

// Session holds the transcript of one conversation.
type Session struct {
	cfg          *appconfig.Config
	store        *catalog.Store
	provider     providers.ChatProvider
	systemPrompt string
	metrics      *metrics.Aggregator

	mu       sync.Mutex
	state    State
	messages []Message

	newID func() string
	now   func() time.Time
}

// NewSession wires a session to the dataset store and model provider.
func NewSession(cfg *appconfig.Config, store *catalog.Store, provider providers.ChatProvider) *Session {
	if cfg == nil {
		cfg = &appconfig.Config{}
	}
	prompt := SystemPrompt
	if custom := strings.TrimSpace(cfg.Provider.SystemPrompt); custom != "" {
		prompt = custom
	}
	return &Session{
		cfg:          cfg,
		store:        store,
		provider:     provider,
		systemPrompt: prompt,
		state:        StateIdle,
		newID:        uuid.NewString,
		now:          time.Now,
	}
}

// SetMetrics records per-answer statistics into agg. A nil agg disables recording.
func (s *Session) SetMetrics(agg *metrics.Aggregator) { s.metrics = agg }

// Metrics returns the aggregator set with SetMetrics.
func (s *Session) Metrics() *metrics.Aggregator { return s.metrics }

// Store returns the dataset store backing the session.
func (s *Session) Store() *catalog.Store { return s.store }

// Model returns the configured model name.
func (s *Session) Model() string { return s.cfg.Provider.ModelName() }

// State returns the current busy flag.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Messages returns a copy of the transcript.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.messages...)
}

// Ask appends the question, retrieves related combos, asks the model and
// appends the answer. Model failures become a fixed answer text, so the only
// errors are ErrEmptyQuery and ErrBusy.
func (s *Session) Ask(ctx context.Context, query string) (Message, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Message{}, ErrEmptyQuery
	}
	if err := s.begin(StateSearching); err != nil {
		return Message{}, err
	}
	defer s.setState(StateIdle)

	s.appendMessage(RoleUser, query, nil)

	result := rag.Retrieve(query, s.store.Snapshot())
	logging.LogRetrieval(query, result.Candidates, len(result.Combos), result.Fallback, int64(result.RetrievalMs))
	related := make([]catalog.Combo, len(result.Combos))
	for i, sc := range result.Combos {
		related[i] = sc.Combo
	}

	s.setState(StateAnalyzing)
	sample := metrics.Sample{
		Model:           s.Model(),
		RetrievalMs:     result.RetrievalMs,
		KeywordFallback: result.Fallback,
	}
	start := s.now()
	answer, err := s.answer(ctx, query, result.Context, &sample)
	sample.Duration = s.now().Sub(start)
	s.metrics.Record(sample)
	if err != nil {
		return s.appendMessage(RoleSystem, ConnectionLostText, nil), nil
	}
	return s.appendMessage(RoleAI, answer, related), nil
}

// answer asks the model. It only returns an error when ctx itself was
// cancelled; every backend failure maps to ProviderFailureText.
func (s *Session) answer(ctx context.Context, query, contextText string, sample *metrics.Sample) (string, error) {
	if s.provider == nil {
		logging.LogEvent("no chat provider configured")
		sample.Failed = true
		return ProviderFailureText, nil
	}

	history := []providers.ChatMessage{{Role: providers.RoleUser, Content: rag.FormatPrompt(contextText, query)}}
	req := providerfactory.NewStreamRequest(s.cfg, s.systemPrompt, history)

	var sb strings.Builder
	err := s.provider.Stream(ctx, req, providers.StreamCallbacks{
		OnChunk: func(msg providers.ChatMessage) error {
			sb.WriteString(msg.Content)
			return nil
		},
		OnComplete: func(meta providers.StreamMetadata) error {
			logging.LogEvent("answer complete: model=%s finish=%s prompt_tokens=%d completion_tokens=%d",
				meta.Model, meta.FinishReason, meta.PromptTokens, meta.CompletionTokens)
			sample.PromptTokens = meta.PromptTokens
			sample.CompletionTokens = meta.CompletionTokens
			return nil
		},
	})
	if err != nil {
		logging.LogEvent("chat provider error: %v", err)
		sample.Failed = true
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return ProviderFailureText, nil
	}

	text := sb.String()
	if strings.TrimSpace(text) == "" {
		return EmptyAnswerText, nil
	}
	return text, nil
}

// Upload replaces the active dataset with the combos parsed from text. The
// returned system message is appended to the transcript either way; on
// failure the error wraps catalog.ErrEmptyDataset and the dataset is kept.
func (s *Session) Upload(name, text string) (Message, error) {
	if err := s.begin(StateAnalyzing); err != nil {
		return Message{}, err
	}
	defer s.setState(StateIdle)

	count, err := s.store.LoadCSV(name, text)
	if err != nil {
		logging.LogEvent("dataset upload %q rejected: %v", name, err)
		return s.appendMessage(RoleSystem, uploadFailureText(), nil), fmt.Errorf("upload %s: %w", name, err)
	}
	logging.LogEvent("dataset upload %q accepted: %d records", name, count)
	return s.appendMessage(RoleSystem, uploadSuccessText(name, count), nil), nil
}

func (s *Session) begin(next State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateIdle {
		return ErrBusy
	}
	s.state = next
	return nil
}

func (s *Session) setState(next State) {
	s.mu.Lock()
	s.state = next
	s.mu.Unlock()
}

func (s *Session) appendMessage(role Role, content string, related []catalog.Combo) Message {
	msg := Message{
		ID:            s.newID(),
		Role:          role,
		Content:       content,
		RelatedCombos: related,
		Timestamp:     s.now(),
	}
	s.mu.Lock()
	s.messages = append(s.messages, msg)
	s.mu.Unlock()
	return msg
}
