package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"chat-agent/internal/memory"
	"chat-agent/internal/models"
)

// Threads without a client-supplied id share this one, matching the
// published API contract.
const defaultThreadID = "default_thread"

// agentRunner is what the chat handler needs from the agent.
type agentRunner interface {
	Answer(ctx context.Context, query string, history []models.Turn) (string, error)
}

type ChatHandler struct {
	store memory.Store
	agent agentRunner
}

func NewChatHandler(store memory.Store, agent agentRunner) *ChatHandler {
	return &ChatHandler{store: store, agent: agent}
}

func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	query := strings.TrimSpace(req.Query)
	if query == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "No query provided", r))
		return
	}

	threadID := strings.TrimSpace(req.ThreadID)
	if threadID == "" {
		threadID = defaultThreadID
	}

	history, err := h.store.History(r.Context(), threadID)
	if err != nil {
		handleStoreError(w, r, err)
		return
	}

	response, err := h.agent.Answer(r.Context(), query, history)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, errorResp("AI_ERROR", "Failed to get AI response", r))
		return
	}

	// A failed call never reaches this point, so errors don't pollute history.
	if err := h.store.RecordTurn(r.Context(), threadID, query, response); err != nil {
		handleStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.ChatResponse{
		Response: response,
		ThreadID: threadID,
	})
}
