// internal/providers/openai/provider.go
// Package openai provides a ChatProvider backed by the Chat Completions API.
// Any OpenAI-compatible endpoint works, including Gemini's compatibility layer.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/mwiater/beypal/internal/appconfig"
	"github.com/mwiater/beypal/internal/logging"
	"github.com/mwiater/beypal/internal/providers"
)

// ErrMissingAPIKey is returned when no key was resolved for the request.
var ErrMissingAPIKey = errors.New("openai: missing API key")

// Provider implements providers.ChatProvider with openai-go.
type Provider struct {
	client  *http.Client
	timeout time.Duration
}

// New constructs a Provider configured with the application's request timeout.
func New(cfg *appconfig.Config) *Provider {
	timeout := cfg.RequestTimeout()
	return &Provider{
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
	}
}

// newClient builds a client for the request's key and endpoint. Retries are disabled.
func (p *Provider) newClient(req providers.StreamRequest) openai.Client {
	opts := []option.RequestOption{
		option.WithAPIKey(req.APIKey),
		option.WithHTTPClient(p.client),
		option.WithMaxRetries(0),
	}
	if base := strings.TrimSpace(req.Host); base != "" {
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		opts = append(opts, option.WithBaseURL(base))
	}
	return openai.NewClient(opts...)
}

// ListModels returns the model IDs served by the endpoint.
func (p *Provider) ListModels(ctx context.Context, req providers.StreamRequest) ([]string, error) {
	if strings.TrimSpace(req.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	client := p.newClient(req)
	page, err := client.Models.List(callCtx)
	if err != nil {
		return nil, fmt.Errorf("openai: list models: %w", err)
	}
	names := make([]string, 0, len(page.Data))
	for _, m := range page.Data {
		names = append(names, m.ID)
	}
	return names, nil
}

// Stream sends one completion request and reports the answer as a single chunk.
func (p *Provider) Stream(ctx context.Context, req providers.StreamRequest, callbacks providers.StreamCallbacks) error {
	if strings.TrimSpace(req.APIKey) == "" {
		return ErrMissingAPIKey
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(req.Model),
		Messages: buildMessages(req.Messages()),
	}
	if req.Temperature != nil {
		params.Temperature = openai.Float(*req.Temperature)
	}

	client := p.newClient(req)

	logging.LogRequest("BEYPAL->LLM", req.Host, req.Model, params)

	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	started := time.Now()
	resp, err := client.Chat.Completions.New(callCtx, params)
	if err != nil {
		logging.LogRequest("LLM->BEYPAL", req.Host, req.Model, err.Error())
		return fmt.Errorf("openai: chat completion: %w", err)
	}
	logging.LogRequest("LLM->BEYPAL", req.Host, req.Model, resp.RawJSON())

	meta := providers.StreamMetadata{
		Model:            resp.Model,
		CreatedAt:        time.Now(),
		Done:             true,
		PromptTokens:     int(resp.Usage.PromptTokens),
		CompletionTokens: int(resp.Usage.CompletionTokens),
		TotalDuration:    time.Since(started),
	}
	if meta.Model == "" {
		meta.Model = req.Model
	}

	if len(resp.Choices) > 0 {
		choice := resp.Choices[0]
		meta.FinishReason = choice.FinishReason
		if callbacks.OnChunk != nil && choice.Message.Content != "" {
			msg := providers.ChatMessage{Role: providers.RoleAssistant, Content: choice.Message.Content}
			if err := callbacks.OnChunk(msg); err != nil {
				return err
			}
		}
	}

	if callbacks.OnComplete != nil {
		return callbacks.OnComplete(meta)
	}
	return nil
}

func buildMessages(history []providers.ChatMessage) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(history))
	for _, m := range history {
		switch m.Role {
		case providers.RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case providers.RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}

// Close releases any resources held by the provider.
func (p *Provider) Close() error {
	return nil
}
