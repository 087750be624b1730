package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chat-agent/internal/memory"
	"chat-agent/internal/models"
)

type stubAgent struct {
	response string
	err      error
	calls    int
	queries  []string
	history  [][]models.Turn
}

func (s *stubAgent) Answer(_ context.Context, query string, history []models.Turn) (string, error) {
	s.calls++
	s.queries = append(s.queries, query)
	s.history = append(s.history, history)
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func newTestRouter(store memory.Store, ag *stubAgent) http.Handler {
	r := chi.NewRouter()

	chatHandler := NewChatHandler(store, ag)
	historyHandler := NewHistoryHandler(store)

	r.Post("/chat", chatHandler.Chat)
	r.Get("/threads", historyHandler.List)
	r.Route("/history/{threadID}", func(r chi.Router) {
		r.Get("/", historyHandler.Get)
		r.Delete("/", historyHandler.Clear)
	})

	return r
}

func postChat(t *testing.T, h http.Handler, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	jsonBody, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestChat_HappyPath(t *testing.T) {
	store := memory.NewInMemoryStore(10)
	ag := &stubAgent{response: "Hi Alice"}
	h := newTestRouter(store, ag)

	rr := postChat(t, h, models.ChatRequest{Query: "My name is Alice", ThreadID: "user-session-1"})
	require.Equal(t, http.StatusOK, rr.Code)

	var resp models.ChatResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "Hi Alice", resp.Response)
	assert.Equal(t, "user-session-1", resp.ThreadID)

	// The turn was recorded
	turns, err := store.History(context.Background(), "user-session-1")
	require.NoError(t, err)
	require.Len(t, turns, 1)
	assert.Equal(t, "My name is Alice", turns[0].Query)
	assert.Equal(t, "Hi Alice", turns[0].Response)
}

func TestChat_EmptyQueryRejectedWithoutAgentCall(t *testing.T) {
	tests := []struct {
		name string
		body interface{}
	}{
		{"missing query", models.ChatRequest{ThreadID: "t1"}},
		{"whitespace query", models.ChatRequest{Query: "   ", ThreadID: "t1"}},
		{"empty body", map[string]string{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := memory.NewInMemoryStore(10)
			ag := &stubAgent{response: "unused"}
			h := newTestRouter(store, ag)

			rr := postChat(t, h, tc.body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Zero(t, ag.calls)
		})
	}
}

func TestChat_MalformedBody(t *testing.T) {
	store := memory.NewInMemoryStore(10)
	ag := &stubAgent{}
	h := newTestRouter(store, ag)

	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader([]byte("{not json")))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Zero(t, ag.calls)
}

func TestChat_DefaultThreadID(t *testing.T) {
	store := memory.NewInMemoryStore(10)
	ag := &stubAgent{response: "hello"}
	h := newTestRouter(store, ag)

	rr := postChat(t, h, models.ChatRequest{Query: "hi"})
	require.Equal(t, http.StatusOK, rr.Code)

	var resp models.ChatResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "default_thread", resp.ThreadID)
}

func TestChat_HistoryPassedToAgent(t *testing.T) {
	store := memory.NewInMemoryStore(10)
	ag := &stubAgent{response: "Alice"}
	h := newTestRouter(store, ag)

	rr := postChat(t, h, models.ChatRequest{Query: "My name is Alice", ThreadID: "t1"})
	require.Equal(t, http.StatusOK, rr.Code)
	rr = postChat(t, h, models.ChatRequest{Query: "What is my name?", ThreadID: "t1"})
	require.Equal(t, http.StatusOK, rr.Code)

	require.Len(t, ag.history, 2)
	assert.Empty(t, ag.history[0])
	require.Len(t, ag.history[1], 1)
	assert.Equal(t, "My name is Alice", ag.history[1][0].Query)
}

func TestChat_AgentFailureNotRecorded(t *testing.T) {
	store := memory.NewInMemoryStore(10)
	ag := &stubAgent{err: errors.New("model unavailable")}
	h := newTestRouter(store, ag)

	rr := postChat(t, h, models.ChatRequest{Query: "hi", ThreadID: "t1"})
	assert.Equal(t, http.StatusBadGateway, rr.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "AI_ERROR", resp.Error.Code)

	turns, err := store.History(context.Background(), "t1")
	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestHistory_GetAndClear(t *testing.T) {
	store := memory.NewInMemoryStore(10)
	ag := &stubAgent{response: "pong"}
	h := newTestRouter(store, ag)

	rr := postChat(t, h, models.ChatRequest{Query: "ping", ThreadID: "t1"})
	require.Equal(t, http.StatusOK, rr.Code)

	req := httptest.NewRequest(http.MethodGet, "/history/t1", nil)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp models.HistoryResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "t1", resp.ThreadID)
	require.Len(t, resp.Turns, 1)
	assert.Equal(t, "ping", resp.Turns[0].Query)

	req = httptest.NewRequest(http.MethodDelete, "/history/t1", nil)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	turns, err := store.History(context.Background(), "t1")
	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestThreads_List(t *testing.T) {
	store := memory.NewInMemoryStore(10)
	ag := &stubAgent{response: "ok"}
	h := newTestRouter(store, ag)

	postChat(t, h, models.ChatRequest{Query: "a", ThreadID: "t1"})
	postChat(t, h, models.ChatRequest{Query: "b", ThreadID: "t2"})

	req := httptest.NewRequest(http.MethodGet, "/threads", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp models.ThreadsResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Len(t, resp.Threads, 2)
}
