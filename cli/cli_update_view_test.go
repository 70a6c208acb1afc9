// cli/cli_update_view_test.go
package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mwiater/beypal/internal/appconfig"
	"github.com/mwiater/beypal/internal/catalog"
	"github.com/mwiater/beypal/internal/chat"
	"github.com/mwiater/beypal/internal/providers"
)

// testProvider answers every question with a fixed text.
type testProvider struct {
	reply string
}

func (p *testProvider) Stream(ctx context.Context, req providers.StreamRequest, cb providers.StreamCallbacks) error {
	if err := cb.OnChunk(providers.ChatMessage{Role: providers.RoleAssistant, Content: p.reply}); err != nil {
		return err
	}
	return cb.OnComplete(providers.StreamMetadata{Model: req.Model, Done: true})
}

func (p *testProvider) Close() error { return nil }

func newTestModel(t *testing.T) *model {
	t.Helper()
	cfg := &appconfig.Config{Provider: appconfig.Provider{Type: "ollama", Model: "llama3.1"}}
	session := chat.NewSession(cfg, catalog.NewStore(catalog.Defaults()), &testProvider{reply: "Prendi WizardRod 9-60 Ball."})
	m := initialModel(context.Background(), session, false)
	_, _ = m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m
}

// TestChat_AskFlow covers submitting a question, receiving the answer and
// rendering the transcript with related combos.
func TestChat_AskFlow(t *testing.T) {
	m := newTestModel(t)

	out := m.View()
	if !strings.Contains(out, "STANDBY") || !strings.Contains(out, "Engine: llama3.1") || !strings.Contains(out, "Source: EMBEDDED_CORE_DB") {
		t.Fatalf("unexpected idle view: %s", out)
	}

	m.textArea.SetValue("miglior combo stamina")
	m2, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = m2.(*model)
	if !m.isLoading || cmd == nil {
		t.Fatalf("expected loading after submit; loading=%v", m.isLoading)
	}
	if m.textArea.Value() != "" {
		t.Fatalf("expected input cleared, got %q", m.textArea.Value())
	}
	if !strings.Contains(m.View(), "PROCESSING") {
		t.Fatalf("expected PROCESSING badge while loading")
	}

	// A second enter while loading must not start another request.
	m.textArea.SetValue("altro")
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.textArea.Value() != "altro" {
		t.Fatalf("input should be ignored while loading")
	}
	m.textArea.Reset()

	msg := askCmd(context.Background(), m.session, "miglior combo stamina")()
	m2, _ = m.Update(msg)
	m = m2.(*model)
	if m.isLoading {
		t.Fatalf("expected not loading after answer")
	}

	out = m.View()
	for _, want := range []string{"You:", "BeyPal:", "Prendi WizardRod", "Related: WIZ-001 #1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in view; got: %s", want, out)
		}
	}
}

func TestChat_EmptyInputIgnored(t *testing.T) {
	m := newTestModel(t)
	m.textArea.SetValue("   ")
	m2, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = m2.(*model)
	if m.isLoading {
		t.Fatalf("blank input should not start a request")
	}
}

func TestChat_FilePickerToggle(t *testing.T) {
	m := newTestModel(t)

	m2, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlO})
	m = m2.(*model)
	if m.state != viewFilePicker || cmd == nil {
		t.Fatalf("expected file picker state; got %v", m.state)
	}
	if !strings.Contains(m.View(), "Carica un dataset CSV") {
		t.Fatalf("expected picker title in view")
	}

	m2, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlO})
	m = m2.(*model)
	if m.state != viewChat {
		t.Fatalf("expected chat state after closing picker; got %v", m.state)
	}
}

func TestChat_UploadUpdatesFooter(t *testing.T) {
	m := newTestModel(t)

	path := filepath.Join(t.TempDir(), "torneo.csv")
	if err := os.WriteFile(path, []byte("id,rank,blade,ratchet,bit\nT-1,1,Cobalt,4-60,Rush\n"), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	m.isLoading = true
	m2, _ := m.Update(uploadCmd(m.session, path)())
	m = m2.(*model)
	if m.isLoading {
		t.Fatalf("expected not loading after upload")
	}

	out := m.View()
	if !strings.Contains(out, "Source: MANUAL_OVERRIDE (torneo.csv)") || !strings.Contains(out, "Records: 1") {
		t.Fatalf("expected override source in footer; got: %s", out)
	}
	if !strings.Contains(out, "SYSTEM UPDATE") {
		t.Fatalf("expected system update message; got: %s", out)
	}
}

func TestChat_UploadFailureKeepsSource(t *testing.T) {
	m := newTestModel(t)

	path := filepath.Join(t.TempDir(), "vuoto.csv")
	if err := os.WriteFile(path, []byte("id,rank\n"), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	m2, _ := m.Update(uploadCmd(m.session, path)())
	m = m2.(*model)
	out := m.View()
	if !strings.Contains(out, "Source: EMBEDDED_CORE_DB") || !strings.Contains(out, "CRITICAL ERROR") {
		t.Fatalf("expected embedded source and error message; got: %s", out)
	}
}

func TestFormatRelated(t *testing.T) {
	combos := catalog.Defaults()
	short := formatRelated(combos, false)
	if !strings.Contains(short, "(+10)") {
		t.Fatalf("expected remainder count, got %s", short)
	}
	full := formatRelated(combos, true)
	if strings.Contains(full, "(+") || !strings.Contains(full, "RHI-015") {
		t.Fatalf("expected every combo listed, got %s", full)
	}
}

// TestChat_ViewDoesNotMutateViewport checks that rendering leaves the
// viewport alone; transcript changes reach it through Update.
func TestChat_ViewDoesNotMutateViewport(t *testing.T) {
	m := newTestModel(t)
	if _, err := m.session.Upload("torneo.csv", "id,rank,blade,ratchet,bit\nT-1,1,Cobalt,4-60,Rush\n"); err != nil {
		t.Fatalf("upload: %v", err)
	}

	before := m.viewport.TotalLineCount()
	out := m.View()
	if m.viewport.TotalLineCount() != before {
		t.Fatalf("View changed the viewport content")
	}
	if strings.Contains(out, "SYSTEM UPDATE") {
		t.Fatalf("transcript should not refresh during View")
	}

	m.isLoading = true
	m2, _ := m.Update(tickMsg(time.Now()))
	m = m2.(*model)
	if !strings.Contains(m.View(), "SYSTEM UPDATE") {
		t.Fatalf("expected transcript refreshed by Update")
	}
}
