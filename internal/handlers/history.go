package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"chat-agent/internal/memory"
	"chat-agent/internal/models"
)

type HistoryHandler struct {
	store memory.Store
}

func NewHistoryHandler(store memory.Store) *HistoryHandler {
	return &HistoryHandler{store: store}
}

func (h *HistoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	threadID := chi.URLParam(r, "threadID")

	turns, err := h.store.History(r.Context(), threadID)
	if err != nil {
		handleStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.HistoryResponse{
		ThreadID: threadID,
		Turns:    turns,
	})
}

func (h *HistoryHandler) Clear(w http.ResponseWriter, r *http.Request) {
	threadID := chi.URLParam(r, "threadID")

	if err := h.store.Clear(r.Context(), threadID); err != nil {
		handleStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "History cleared"})
}

func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	threads, err := h.store.Threads(r.Context())
	if err != nil {
		handleStoreError(w, r, err)
		return
	}

	if threads == nil {
		threads = []models.ThreadInfo{}
	}
	writeJSON(w, http.StatusOK, models.ThreadsResponse{Threads: threads})
}
