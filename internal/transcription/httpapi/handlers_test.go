package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/romariotrain/transcription-platform/internal/transcription/command"
	"github.com/romariotrain/transcription-platform/internal/transcription/domain"
	"github.com/romariotrain/transcription-platform/internal/transcription/event"
	"github.com/romariotrain/transcription-platform/internal/transcription/query"
	"github.com/romariotrain/transcription-platform/internal/transcription/repository"
)

func newTestRouter(t *testing.T) (http.Handler, *repository.MemoryRepository) {
	t.Helper()

	repo := repository.NewMemoryRepository()
	dispatcher := event.NewDispatcher(zerolog.Nop())

	commands := command.NewBus(zerolog.Nop())
	require.NoError(t, commands.Register(command.NewCreateHandler(repo, dispatcher, nil, domain.NewStandardPricing())))
	require.NoError(t, commands.Register(command.NewLifecycleHandler(repo, dispatcher)))

	queries := query.NewBus(query.NewMemoryCache(), zerolog.Nop())
	require.NoError(t, queries.Register(query.NewTranscriptionHandler(repo)))

	return NewRouter(New(commands, queries, zerolog.Nop())), repo
}

func doJSON(t *testing.T, router http.Handler, method, path, userID string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func createBody() CreateFromFileRequest {
	return CreateFromFileRequest{
		Path:         "/tmp/interview.mp3",
		OriginalName: "interview.mp3",
		MimeType:     "audio/mpeg",
		Size:         2 * 1024 * 1024,
		Duration:     180,
		Language:     "fr",
	}
}

func TestHealth(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCreateFromFile(t *testing.T) {
	router, repo := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/transcriptions", "user-1", createBody())
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp CreateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.ID)
	assert.Greater(t, resp.EstimatedCost, 0.0)
	assert.Equal(t, "USD", resp.Currency)

	id, err := domain.ParseTranscriptionID(resp.ID)
	require.NoError(t, err)
	stored, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, stored.Status())
}

func TestCreateFromFile_RequiresUser(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/transcriptions", "", createBody())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "X-User-ID")
}

func TestCreateFromFile_InvalidFile(t *testing.T) {
	router, _ := newTestRouter(t)

	body := createBody()
	body.OriginalName = "notes.txt"

	rec := doJSON(t, router, http.MethodPost, "/transcriptions", "user-1", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateFromFile_InvalidJSON(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/transcriptions", bytes.NewBufferString("{not json"))
	req.Header.Set("X-User-ID", "user-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid json body")
}

func TestGetTranscription(t *testing.T) {
	router, _ := newTestRouter(t)

	created := doJSON(t, router, http.MethodPost, "/transcriptions", "user-1", createBody())
	require.Equal(t, http.StatusCreated, created.Code)
	var resp CreateResponse
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &resp))

	rec := doJSON(t, router, http.MethodGet, "/transcriptions/"+resp.ID, "user-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var dto query.TranscriptionDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	assert.Equal(t, resp.ID, dto.ID)
	assert.Equal(t, "pending", dto.Status)

	// another user's id is indistinguishable from a missing one
	foreign := doJSON(t, router, http.MethodGet, "/transcriptions/"+resp.ID, "user-2", nil)
	assert.Equal(t, http.StatusNotFound, foreign.Code)
}

func TestGetTranscription_InvalidID(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/transcriptions/not-a-uuid", "user-1", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestList(t *testing.T) {
	router, _ := newTestRouter(t)

	for i := 0; i < 3; i++ {
		rec := doJSON(t, router, http.MethodPost, "/transcriptions", "user-1", createBody())
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doJSON(t, router, http.MethodGet, "/transcriptions?page=1&per_page=2", "user-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var list query.TranscriptionListDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list.Items, 2)
	assert.Equal(t, 3, list.Total)
}

func TestCancelAndRetry(t *testing.T) {
	router, _ := newTestRouter(t)

	created := doJSON(t, router, http.MethodPost, "/transcriptions", "user-1", createBody())
	require.Equal(t, http.StatusCreated, created.Code)
	var resp CreateResponse
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &resp))

	cancel := doJSON(t, router, http.MethodPost, "/transcriptions/"+resp.ID+"/cancel", "user-1", nil)
	assert.Equal(t, http.StatusOK, cancel.Code)

	retry := doJSON(t, router, http.MethodPost, "/transcriptions/"+resp.ID+"/retry", "user-1", nil)
	assert.Equal(t, http.StatusOK, retry.Code)

	// retrying a pending transcription is an invalid transition
	again := doJSON(t, router, http.MethodPost, "/transcriptions/"+resp.ID+"/retry", "user-1", nil)
	assert.Equal(t, http.StatusConflict, again.Code)
}

func TestLifecycle_UnknownAction(t *testing.T) {
	router, _ := newTestRouter(t)

	created := doJSON(t, router, http.MethodPost, "/transcriptions", "user-1", createBody())
	require.Equal(t, http.StatusCreated, created.Code)
	var resp CreateResponse
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &resp))

	rec := doJSON(t, router, http.MethodPost, "/transcriptions/"+resp.ID+"/publish", "user-1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStats(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/transcriptions", "user-1", createBody())
	require.Equal(t, http.StatusCreated, rec.Code)

	stats := doJSON(t, router, http.MethodGet, "/transcriptions/stats", "user-1", nil)
	require.Equal(t, http.StatusOK, stats.Code)

	var dto query.StatsDTO
	require.NoError(t, json.Unmarshal(stats.Body.Bytes(), &dto))
	assert.Equal(t, 1, dto.Total)
	assert.Equal(t, 1, dto.Pending)
}

func TestSearch_MethodNotAllowed(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/transcriptions/search", "user-1", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCreate_WritesInvalidateCache(t *testing.T) {
	router, _ := newTestRouter(t)

	first := doJSON(t, router, http.MethodPost, "/transcriptions", "user-1", createBody())
	require.Equal(t, http.StatusCreated, first.Code)

	before := doJSON(t, router, http.MethodGet, "/transcriptions/stats", "user-1", nil)
	require.Equal(t, http.StatusOK, before.Code)

	second := doJSON(t, router, http.MethodPost, "/transcriptions", "user-1", createBody())
	require.Equal(t, http.StatusCreated, second.Code)

	after := doJSON(t, router, http.MethodGet, "/transcriptions/stats", "user-1", nil)
	require.Equal(t, http.StatusOK, after.Code)

	var dto query.StatsDTO
	require.NoError(t, json.Unmarshal(after.Body.Bytes(), &dto))
	assert.Equal(t, 2, dto.Total)
}
