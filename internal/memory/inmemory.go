package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"chat-agent/internal/models"
)

type thread struct {
	turns    []models.Turn
	lastUsed time.Time
}

// InMemoryStore holds conversation turns for the lifetime of the process.
type InMemoryStore struct {
	mu       sync.RWMutex
	threads  map[string]*thread
	maxTurns int
}

func NewInMemoryStore(maxTurns int) *InMemoryStore {
	return &InMemoryStore{
		threads:  make(map[string]*thread),
		maxTurns: maxTurns,
	}
}

func (s *InMemoryStore) RecordTurn(ctx context.Context, threadID, query, response string) error {
	if err := validateThreadID(threadID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	th, ok := s.threads[threadID]
	if !ok {
		th = &thread{}
		s.threads[threadID] = th
	}

	th.turns = append(th.turns, models.Turn{
		Query:     query,
		Response:  response,
		CreatedAt: time.Now(),
	})
	th.lastUsed = time.Now()

	// FIFO eviction once the bound is exceeded
	if len(th.turns) > s.maxTurns {
		th.turns = th.turns[len(th.turns)-s.maxTurns:]
	}

	return nil
}

func (s *InMemoryStore) History(ctx context.Context, threadID string) ([]models.Turn, error) {
	if err := validateThreadID(threadID); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	th, ok := s.threads[threadID]
	if !ok {
		return []models.Turn{}, nil
	}

	turns := make([]models.Turn, len(th.turns))
	copy(turns, th.turns)
	return turns, nil
}

func (s *InMemoryStore) Clear(ctx context.Context, threadID string) error {
	if err := validateThreadID(threadID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.threads, threadID)
	return nil
}

func (s *InMemoryStore) Threads(ctx context.Context) ([]models.ThreadInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]models.ThreadInfo, 0, len(s.threads))
	for id, th := range s.threads {
		infos = append(infos, models.ThreadInfo{
			ThreadID:  id,
			TurnCount: len(th.turns),
			LastUsed:  th.lastUsed,
		})
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].LastUsed.After(infos[j].LastUsed)
	})

	return infos, nil
}
