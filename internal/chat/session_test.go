package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwiater/beypal/internal/appconfig"
	"github.com/mwiater/beypal/internal/catalog"
	"github.com/mwiater/beypal/internal/metrics"
	"github.com/mwiater/beypal/internal/providers"
)

const (
	timeoutWait = 2 * time.Second
	pollEvery   = 5 * time.Millisecond
)

type fakeProvider struct {
	mu     sync.Mutex
	reply  []string
	err    error
	block  chan struct{}
	seen   []providers.StreamRequest
	closed bool
}

func (f *fakeProvider) Stream(ctx context.Context, req providers.StreamRequest, cb providers.StreamCallbacks) error {
	f.mu.Lock()
	f.seen = append(f.seen, req)
	f.mu.Unlock()

	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if f.err != nil {
		return f.err
	}
	for _, part := range f.reply {
		if err := cb.OnChunk(providers.ChatMessage{Role: providers.RoleAssistant, Content: part}); err != nil {
			return err
		}
	}
	return cb.OnComplete(providers.StreamMetadata{Model: req.Model, Done: true, PromptTokens: 120, CompletionTokens: 30})
}

func (f *fakeProvider) Close() error {
	f.closed = true
	return nil
}

func newTestSession(p providers.ChatProvider) *Session {
	cfg := &appconfig.Config{Provider: appconfig.Provider{Type: "ollama", Model: "test-model"}}
	return NewSession(cfg, catalog.NewStore(catalog.Defaults()), p)
}

func TestAskAppendsUserAndAnswer(t *testing.T) {
	p := &fakeProvider{reply: []string{"Vai di ", "WizardRod!"}}
	s := newTestSession(p)

	msg, err := s.Ask(context.Background(), "  migliore combo stamina  ")
	require.NoError(t, err)

	assert.Equal(t, RoleAI, msg.Role)
	assert.Equal(t, "Vai di WizardRod!", msg.Content)
	assert.NotEmpty(t, msg.ID)
	require.NotEmpty(t, msg.RelatedCombos)
	assert.Equal(t, "WIZ-001", msg.RelatedCombos[0].ID)

	transcript := s.Messages()
	require.Len(t, transcript, 2)
	assert.Equal(t, RoleUser, transcript[0].Role)
	assert.Equal(t, "migliore combo stamina", transcript[0].Content)
	assert.NotEqual(t, transcript[0].ID, transcript[1].ID)
	assert.Equal(t, StateIdle, s.State())

	require.Len(t, p.seen, 1)
	req := p.seen[0]
	assert.Equal(t, SystemPrompt, req.SystemPrompt)
	assert.Equal(t, "test-model", req.Model)
	require.NotNil(t, req.Temperature)
	assert.Equal(t, 0.5, *req.Temperature)
	require.Len(t, req.History, 1)
	assert.True(t, strings.HasPrefix(req.History[0].Content, "CONTESTO DATI:\nCombo ID: WIZ-001."))
	assert.True(t, strings.HasSuffix(req.History[0].Content, "DOMANDA UTENTE:\nmigliore combo stamina"))
}

func TestAskRejectsEmptyQuery(t *testing.T) {
	s := newTestSession(&fakeProvider{})
	_, err := s.Ask(context.Background(), "   ")
	require.ErrorIs(t, err, ErrEmptyQuery)
	assert.Empty(t, s.Messages())
}

func TestAskProviderFailureUsesFallback(t *testing.T) {
	s := newTestSession(&fakeProvider{err: errors.New("503")})
	msg, err := s.Ask(context.Background(), "attacco")
	require.NoError(t, err)
	assert.Equal(t, RoleAI, msg.Role)
	assert.Equal(t, ProviderFailureText, msg.Content)
}

func TestAskEmptyAnswer(t *testing.T) {
	s := newTestSession(&fakeProvider{reply: []string{"  "}})
	msg, err := s.Ask(context.Background(), "attacco")
	require.NoError(t, err)
	assert.Equal(t, EmptyAnswerText, msg.Content)
}

func TestAskWithoutProvider(t *testing.T) {
	s := newTestSession(nil)
	msg, err := s.Ask(context.Background(), "difesa")
	require.NoError(t, err)
	assert.Equal(t, ProviderFailureText, msg.Content)
}

func TestAskCancelledContext(t *testing.T) {
	p := &fakeProvider{block: make(chan struct{})}
	s := newTestSession(p)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	msg, err := s.Ask(ctx, "attacco")
	require.NoError(t, err)
	assert.Equal(t, RoleSystem, msg.Role)
	assert.Equal(t, ConnectionLostText, msg.Content)
	assert.Equal(t, StateIdle, s.State())
}

func TestAskWhileBusy(t *testing.T) {
	p := &fakeProvider{block: make(chan struct{}), reply: []string{"ok"}}
	s := newTestSession(p)

	done := make(chan error, 1)
	go func() {
		_, err := s.Ask(context.Background(), "attacco")
		done <- err
	}()

	require.Eventually(t, func() bool { return s.State() == StateAnalyzing }, timeoutWait, pollEvery)

	_, err := s.Ask(context.Background(), "difesa")
	require.ErrorIs(t, err, ErrBusy)
	_, err = s.Upload("x.csv", "id,rank,blade\nA,1,X")
	require.ErrorIs(t, err, ErrBusy)

	close(p.block)
	require.NoError(t, <-done)
	assert.Equal(t, StateIdle, s.State())
	assert.Len(t, s.Messages(), 2)
}

func TestUploadReplacesDataset(t *testing.T) {
	s := newTestSession(&fakeProvider{})

	msg, err := s.Upload("meta.csv", "id,rank,blade,ratchet,bit\nA,2,Cobalt,4-60,Rush\nB,1,Hells,3-80,Ball\n")
	require.NoError(t, err)
	assert.Equal(t, RoleSystem, msg.Role)
	assert.Contains(t, msg.Content, "Source: `meta.csv`")
	assert.Contains(t, msg.Content, "Records: 2")

	src := s.Store().Source()
	assert.Equal(t, catalog.SourceOverride, src.Kind)
	assert.Equal(t, "meta.csv", src.Name)
	assert.Equal(t, "B", s.Store().Snapshot()[0].ID)
}

func TestUploadFailureKeepsDataset(t *testing.T) {
	s := newTestSession(&fakeProvider{})

	msg, err := s.Upload("bad.csv", "just a header")
	require.ErrorIs(t, err, catalog.ErrEmptyDataset)
	assert.Equal(t, RoleSystem, msg.Role)
	assert.Contains(t, msg.Content, catalog.ExpectedHeader)
	assert.Equal(t, catalog.SourceEmbedded, s.Store().Source().Kind)
	assert.Equal(t, 15, s.Store().Len())
	assert.Equal(t, StateIdle, s.State())
}

func TestCustomSystemPrompt(t *testing.T) {
	p := &fakeProvider{reply: []string{"ok"}}
	cfg := &appconfig.Config{Provider: appconfig.Provider{Type: "ollama", SystemPrompt: "Rispondi in breve."}}
	s := NewSession(cfg, catalog.NewStore(catalog.Defaults()), p)

	_, err := s.Ask(context.Background(), "attacco")
	require.NoError(t, err)
	require.Len(t, p.seen, 1)
	assert.Equal(t, "Rispondi in breve.", p.seen[0].SystemPrompt)
}

func TestAskRecordsMetrics(t *testing.T) {
	s := newTestSession(&fakeProvider{reply: []string{"ok"}})
	agg := metrics.NewAggregator()
	s.SetMetrics(agg)

	_, err := s.Ask(context.Background(), "stamina")
	require.NoError(t, err)
	_, err = s.Ask(context.Background(), "xyzzy")
	require.NoError(t, err)

	s.provider = &fakeProvider{err: errors.New("503")}
	_, err = s.Ask(context.Background(), "attacco")
	require.NoError(t, err)

	snap := agg.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, "test-model", snap[0].ModelName)
	stats := snap[0].OverallStats
	assert.EqualValues(t, 3, stats.TotalRequests)
	assert.EqualValues(t, 1, stats.Failures)
	assert.EqualValues(t, 1, stats.KeywordFallbacks)
	assert.Equal(t, float64(120), stats.InputTokens.Mean)
	assert.Equal(t, float64(30), stats.OutputTokens.Max)
}
