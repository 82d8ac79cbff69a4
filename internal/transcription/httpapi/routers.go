package httpapi

import "net/http"

func NewRouter(h *Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", h.Health)

	// POST /transcriptions, GET /transcriptions
	mux.HandleFunc("/transcriptions", h.Transcriptions)

	mux.HandleFunc("/transcriptions/youtube", h.CreateFromYouTube)
	mux.HandleFunc("/transcriptions/stats", h.Stats)
	mux.HandleFunc("/transcriptions/search", h.Search)

	// trailing slash so the handler can TrimPrefix("/transcriptions/")
	mux.HandleFunc("/transcriptions/", h.TranscriptionByID)

	return mux
}
