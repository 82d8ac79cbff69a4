package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/romariotrain/transcription-platform/internal/transcription/command"
	"github.com/romariotrain/transcription-platform/internal/transcription/domain"
	"github.com/romariotrain/transcription-platform/internal/transcription/query"
)

// Handler exposes the transcription core over HTTP. Writes go through the
// command bus, reads through the query bus; the handler itself holds no
// domain logic.
type Handler struct {
	commands *command.Bus
	queries  *query.Bus
	logger   zerolog.Logger
}

func New(commands *command.Bus, queries *query.Bus, logger zerolog.Logger) *Handler {
	return &Handler{
		commands: commands,
		queries:  queries,
		logger:   logger.With().Str("component", "httpapi").Logger(),
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErrorJSON(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Transcriptions serves POST /transcriptions and GET /transcriptions.
func (h *Handler) Transcriptions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createFromFile(w, r)
	case http.MethodGet:
		h.list(w, r)
	default:
		writeErrorJSON(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) createFromFile(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	userID := userIDFrom(r)
	if userID.IsZero() {
		writeErrorJSON(w, http.StatusBadRequest, "missing X-User-ID header")
		return
	}

	var req CreateFromFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid json body")
		return
	}

	file, err := domain.NewAudioFile(req.Path, req.OriginalName, req.MimeType, req.Size)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if req.Duration > 0 {
		file = file.WithDuration(req.Duration)
	}
	language, err := domain.NewLanguage(req.Language)
	if err != nil {
		h.writeError(w, err)
		return
	}
	cmd, err := command.NewCreateFromFile(userID, file, language, req.Priority)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.dispatchCreate(w, r, cmd)
}

// CreateFromYouTube serves POST /transcriptions/youtube.
func (h *Handler) CreateFromYouTube(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErrorJSON(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	defer r.Body.Close()

	userID := userIDFrom(r)
	if userID.IsZero() {
		writeErrorJSON(w, http.StatusBadRequest, "missing X-User-ID header")
		return
	}

	var req CreateFromYouTubeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid json body")
		return
	}

	language, err := domain.NewLanguage(req.Language)
	if err != nil {
		h.writeError(w, err)
		return
	}
	cmd, err := command.NewCreateFromYouTube(userID, req.URL, language, req.Priority)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.dispatchCreate(w, r, cmd)
}

func (h *Handler) dispatchCreate(w http.ResponseWriter, r *http.Request, cmd command.Command) {
	result, err := h.commands.Dispatch(r.Context(), cmd)
	if err != nil {
		h.writeError(w, err)
		return
	}

	created, ok := result.(command.CreateResult)
	if !ok {
		writeErrorJSON(w, http.StatusInternalServerError, "internal error")
		return
	}

	// Reads after a write must not serve stale pages.
	if err := h.queries.ClearCache(r.Context()); err != nil {
		h.logger.Warn().Err(err).Msg("cache invalidation failed")
	}

	writeJSON(w, http.StatusCreated, CreateResponse{
		ID:            created.ID.String(),
		EstimatedCost: created.EstimatedCost.Amount(),
		Currency:      created.EstimatedCost.Currency(),
	})
}

// TranscriptionByID routes /transcriptions/{id} and its action suffixes.
func (h *Handler) TranscriptionByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/transcriptions/")
	if rest == "" || rest == r.URL.Path {
		writeErrorJSON(w, http.StatusBadRequest, "missing id")
		return
	}

	idStr, action, _ := strings.Cut(rest, "/")
	id, err := domain.ParseTranscriptionID(idStr)
	if err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid id")
		return
	}

	switch action {
	case "":
		h.get(w, r, id)
	case "cancel":
		h.lifecycle(w, r, func() (command.Command, error) { return command.NewCancel(id) })
	case "retry":
		h.lifecycle(w, r, func() (command.Command, error) { return command.NewRetry(id) })
	default:
		writeErrorJSON(w, http.StatusNotFound, "not found")
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request, id domain.TranscriptionID) {
	if r.Method != http.MethodGet {
		writeErrorJSON(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	q, err := query.NewGetTranscription(id, userIDFrom(r))
	if err != nil {
		h.writeError(w, err)
		return
	}

	result, err := h.queries.Dispatch(r.Context(), q)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) lifecycle(w http.ResponseWriter, r *http.Request, build func() (command.Command, error)) {
	if r.Method != http.MethodPost {
		writeErrorJSON(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	cmd, err := build()
	if err != nil {
		h.writeError(w, err)
		return
	}

	if _, err := h.commands.Dispatch(r.Context(), cmd); err != nil {
		h.writeError(w, err)
		return
	}
	if err := h.queries.ClearCache(r.Context()); err != nil {
		h.logger.Warn().Err(err).Msg("cache invalidation failed")
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "accepted"})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	if userID.IsZero() {
		writeErrorJSON(w, http.StatusBadRequest, "missing X-User-ID header")
		return
	}

	params := r.URL.Query()
	page := intParam(params.Get("page"), 1)
	perPage := intParam(params.Get("per_page"), 10)
	status := domain.Status(params.Get("status"))

	q, err := query.NewListTranscriptions(userID, status, page, perPage)
	if err != nil {
		h.writeError(w, err)
		return
	}

	result, err := h.queries.Dispatch(r.Context(), q)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Stats serves GET /transcriptions/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErrorJSON(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	userID := userIDFrom(r)
	if userID.IsZero() {
		writeErrorJSON(w, http.StatusBadRequest, "missing X-User-ID header")
		return
	}

	q, err := query.NewGetStats(userID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	result, err := h.queries.Dispatch(r.Context(), q)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Search serves GET /transcriptions/search.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErrorJSON(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	userID := userIDFrom(r)
	if userID.IsZero() {
		writeErrorJSON(w, http.StatusBadRequest, "missing X-User-ID header")
		return
	}

	params := r.URL.Query()
	q, err := query.NewSearch(
		userID,
		domain.Status(params.Get("status")),
		params.Get("language"),
		params.Get("text"),
		params.Get("youtube") == "true",
		intParam(params.Get("page"), 1),
		intParam(params.Get("per_page"), 10),
	)
	if err != nil {
		h.writeError(w, err)
		return
	}

	result, err := h.queries.Dispatch(r.Context(), q)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeErrorJSON(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrInvalidTransition):
		writeErrorJSON(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeErrorJSON(w, http.StatusConflict, "conflict, retry the request")
	case errors.Is(err, domain.ErrInvalidArgument):
		writeErrorJSON(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, command.ErrNoHandler), errors.Is(err, query.ErrNoHandler):
		writeErrorJSON(w, http.StatusNotImplemented, "not implemented")
	default:
		h.logger.Error().Err(err).Msg("request failed")
		writeErrorJSON(w, http.StatusInternalServerError, "internal error")
	}
}

func userIDFrom(r *http.Request) domain.UserID {
	return domain.UserID(r.Header.Get("X-User-ID"))
}

func intParam(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return fallback
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrorJSON(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
