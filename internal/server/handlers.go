package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/mwiater/beypal/internal/catalog"
	"github.com/mwiater/beypal/internal/chat"
	"github.com/mwiater/beypal/internal/metrics"
	"github.com/mwiater/beypal/internal/rag"
)

type handler struct {
	session *chat.Session
}

func newHandler(session *chat.Session) *handler {
	return &handler{session: session}
}

// DatasetResponseDTO describes the active dataset.
type DatasetResponseDTO struct {
	Source catalog.Source  `json:"source"`
	Combos []catalog.Combo `json:"combos,omitempty"`
}

// UploadResponseDTO is returned after a dataset upload.
type UploadResponseDTO struct {
	Source  catalog.Source `json:"source"`
	Message chat.Message   `json:"message"`
}

// SearchResultDTO is one scored combo.
type SearchResultDTO struct {
	Combo catalog.Combo `json:"combo"`
	Score int           `json:"score"`
}

// SearchResponseDTO previews what would be sent to the model for a query.
type SearchResponseDTO struct {
	Query         string            `json:"query"`
	Terms         []string          `json:"terms"`
	Candidates    int               `json:"candidates"`
	Fallback      bool              `json:"fallback"`
	RetrievalMs   int               `json:"retrievalMs"`
	ContextTokens int               `json:"contextTokens"`
	Results       []SearchResultDTO `json:"results"`
}

// AskRequestDTO is the body of POST /api/ask.
type AskRequestDTO struct {
	Query string `json:"query"`
}

// AskResponseDTO carries the appended transcript message.
type AskResponseDTO struct {
	Message chat.Message `json:"message"`
}

// getDataset handles GET /api/dataset. Records are omitted with ?records=false.
func (h *handler) getDataset(w http.ResponseWriter, r *http.Request) {
	store := h.session.Store()
	resp := DatasetResponseDTO{Source: store.Source()}
	if r.URL.Query().Get("records") != "false" {
		resp.Combos = store.Snapshot()
	}
	writeJSON(w, http.StatusOK, resp)
}

// uploadDataset handles POST /api/dataset with either a multipart "file"
// field or a raw CSV body.
func (h *handler) uploadDataset(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	name, text, err := readUpload(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid upload", err.Error())
		return
	}

	msg, err := h.session.Upload(name, text)
	switch {
	case errors.Is(err, chat.ErrBusy):
		writeError(w, http.StatusConflict, "session busy", "")
		return
	case err != nil:
		writeError(w, http.StatusBadRequest, "file parsing failed", "expected header: "+catalog.ExpectedHeader)
		return
	}

	writeJSON(w, http.StatusOK, UploadResponseDTO{Source: h.session.Store().Source(), Message: msg})
}

func readUpload(r *http.Request) (string, string, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, header, err := r.FormFile("file")
		if err != nil {
			return "", "", fmt.Errorf("missing file field: %w", err)
		}
		defer file.Close()
		if !strings.EqualFold(filepath.Ext(header.Filename), ".csv") {
			return "", "", fmt.Errorf("only .csv files are accepted, got %q", header.Filename)
		}
		data, err := io.ReadAll(file)
		if err != nil {
			return "", "", err
		}
		return filepath.Base(header.Filename), string(data), nil
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return "", "", err
	}
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		name = "upload.csv"
	}
	return filepath.Base(name), string(data), nil
}

// search handles GET /api/search?q=.
func (h *handler) search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "q is required", "")
		return
	}

	result := rag.Retrieve(query, h.session.Store().Snapshot())
	resp := SearchResponseDTO{
		Query:         query,
		Terms:         result.Terms,
		Candidates:    result.Candidates,
		Fallback:      result.Fallback,
		RetrievalMs:   result.RetrievalMs,
		ContextTokens: result.ContextTokens,
		Results:       make([]SearchResultDTO, 0, len(result.Combos)),
	}
	for _, sc := range result.Combos {
		resp.Results = append(resp.Results, SearchResultDTO{Combo: sc.Combo, Score: sc.Score})
	}
	writeJSON(w, http.StatusOK, resp)
}

// ask handles POST /api/ask.
func (h *handler) ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	msg, err := h.session.Ask(r.Context(), req.Query)
	switch {
	case errors.Is(err, chat.ErrEmptyQuery):
		writeError(w, http.StatusBadRequest, "query is required", "")
		return
	case errors.Is(err, chat.ErrBusy):
		writeError(w, http.StatusConflict, "session busy", "")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "ask failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, AskResponseDTO{Message: msg})
}

// messages handles GET /api/messages.
func (h *handler) messages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"state":    h.session.State(),
		"messages": h.session.Messages(),
	})
}

// metrics handles GET /api/metrics.
func (h *handler) metrics(w http.ResponseWriter, r *http.Request) {
	snap := h.session.Metrics().Snapshot()
	if snap == nil {
		snap = []metrics.ModelMetrics{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"models": snap})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message, detail string) {
	resp := map[string]string{
		"error":   message,
		"message": message,
	}
	if detail != "" {
		resp["detail"] = detail
	}
	writeJSON(w, status, resp)
}
