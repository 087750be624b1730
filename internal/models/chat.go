package models

import "time"

// Turn is one query/response exchange within a conversation thread.
type Turn struct {
	Query     string    `json:"query"`
	Response  string    `json:"response"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatRequest is the payload sent to the chat endpoint.
type ChatRequest struct {
	Query    string `json:"query"`
	ThreadID string `json:"thread_id,omitempty"`
}

// ChatResponse is the reply from the agent.
type ChatResponse struct {
	Response string `json:"response"`
	ThreadID string `json:"thread_id"`
}

// HistoryResponse carries the recorded turns of one thread, oldest first.
type HistoryResponse struct {
	ThreadID string `json:"thread_id"`
	Turns    []Turn `json:"turns"`
}

// ThreadInfo summarizes one conversation thread.
type ThreadInfo struct {
	ThreadID  string    `json:"thread_id"`
	TurnCount int       `json:"turn_count"`
	LastUsed  time.Time `json:"last_used"`
}

// ThreadsResponse lists the known conversation threads.
type ThreadsResponse struct {
	Threads []ThreadInfo `json:"threads"`
}
