package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"chat-agent/internal/llm"
	"chat-agent/internal/models"
	"chat-agent/internal/search"
)

const defaultMaxIterations = 3

// ErrEmptyQuery is returned before any model call for blank input.
var ErrEmptyQuery = errors.New("query is empty")

// Agent answers user queries with a language model that may call out to a
// web search tool. Prior conversation turns are replayed ahead of the query.
type Agent struct {
	provider      llm.Provider
	searcher      search.Provider
	maxIterations int
	now           func() time.Time
}

func New(provider llm.Provider, searcher search.Provider, maxIterations int) *Agent {
	if maxIterations <= 0 {
		maxIterations = defaultMaxIterations
	}
	return &Agent{
		provider:      provider,
		searcher:      searcher,
		maxIterations: maxIterations,
		now:           time.Now,
	}
}

// Answer runs the action loop until the model answers or the iteration
// limit forces a final answer.
func (a *Agent) Answer(ctx context.Context, query string, history []models.Turn) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", ErrEmptyQuery
	}

	msgs := make([]llm.Message, 0, 2*len(history)+2)
	msgs = append(msgs, llm.Message{Role: llm.RoleSystem, Content: systemPrompt})
	for _, t := range history {
		msgs = append(msgs,
			llm.Message{Role: llm.RoleUser, Content: t.Query},
			llm.Message{Role: llm.RoleAssistant, Content: t.Response},
		)
	}
	msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: query})

	for i := 0; i < a.maxIterations; i++ {
		raw, err := a.provider.Chat(ctx, msgs)
		if err != nil {
			return "", fmt.Errorf("model: %w", err)
		}

		d, err := parseDecision(raw)
		if err != nil {
			return "", err
		}

		switch d.Action {
		case actionAnswer:
			if d.Text == "" {
				return "", errors.New("model returned an empty answer")
			}
			return d.Text, nil
		case actionSearch:
			if a.searcher == nil {
				return "", errors.New("search requested but no search provider configured")
			}
			results, err := a.searcher.Search(ctx, search.EnhanceRecency(d.Query, a.now()))
			if err != nil {
				return "", fmt.Errorf("search: %w", err)
			}
			msgs = append(msgs,
				llm.Message{Role: llm.RoleAssistant, Content: raw},
				llm.Message{Role: llm.RoleUser, Content: fmt.Sprintf("Search results for %q:\n%s", d.Query, search.FormatResults(results))},
			)
		}
	}

	// Out of iterations; demand a final answer from what has been gathered.
	msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: finalizePrompt})
	raw, err := a.provider.Chat(ctx, msgs)
	if err != nil {
		return "", fmt.Errorf("model: %w", err)
	}
	if d, err := parseDecision(raw); err == nil && d.Action == actionAnswer && d.Text != "" {
		return d.Text, nil
	}
	return strings.TrimSpace(raw), nil
}
