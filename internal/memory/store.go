package memory

import (
	"context"
	"errors"
	"strings"

	"chat-agent/internal/models"
)

// ErrInvalidThreadID is returned for empty or whitespace-only thread ids.
var ErrInvalidThreadID = errors.New("thread id must not be empty")

// Store keeps the most recent turns of each conversation thread.
// Implementations must be safe for concurrent use.
type Store interface {
	// RecordTurn appends a turn; once the thread exceeds the bound,
	// the oldest turns are evicted first.
	RecordTurn(ctx context.Context, threadID, query, response string) error

	// History returns the recorded turns oldest first, or an empty
	// slice for a thread that has never been seen.
	History(ctx context.Context, threadID string) ([]models.Turn, error)

	// Clear removes all turns of a thread.
	Clear(ctx context.Context, threadID string) error

	// Threads lists the known threads, most recently used first.
	Threads(ctx context.Context) ([]models.ThreadInfo, error)
}

func validateThreadID(threadID string) error {
	if strings.TrimSpace(threadID) == "" {
		return ErrInvalidThreadID
	}
	return nil
}
