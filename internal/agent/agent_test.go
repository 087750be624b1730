package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chat-agent/internal/llm"
	"chat-agent/internal/models"
	"chat-agent/internal/search"
)

type scriptedLLM struct {
	responses []string
	calls     [][]llm.Message
}

func (s *scriptedLLM) Chat(_ context.Context, messages []llm.Message) (string, error) {
	s.calls = append(s.calls, messages)
	if len(s.calls) > len(s.responses) {
		return "", errors.New("no scripted response available")
	}
	return s.responses[len(s.calls)-1], nil
}

func (s *scriptedLLM) Close() error { return nil }

type fakeSearch struct {
	results []search.Result
	queries []string
}

func (f *fakeSearch) Search(_ context.Context, query string) ([]search.Result, error) {
	f.queries = append(f.queries, query)
	return f.results, nil
}

func TestAnswer_Direct(t *testing.T) {
	model := &scriptedLLM{responses: []string{"Action: Answer\nParis is the capital of France."}}
	a := New(model, &fakeSearch{}, 3)

	answer, err := a.Answer(context.Background(), "Capital of France?", nil)
	require.NoError(t, err)
	assert.Equal(t, "Paris is the capital of France.", answer)
	assert.Len(t, model.calls, 1)
}

func TestAnswer_SearchThenAnswer(t *testing.T) {
	model := &scriptedLLM{responses: []string{
		"Action: Search\nQuery: sky color physics",
		"Action: Answer\nRayleigh scattering explains blue skies.",
	}}
	searcher := &fakeSearch{results: []search.Result{
		{Title: "Sky color", URL: "https://example.com", Snippet: "Rayleigh scattering"},
	}}
	a := New(model, searcher, 3)

	answer, err := a.Answer(context.Background(), "Why is the sky blue?", nil)
	require.NoError(t, err)
	assert.Equal(t, "Rayleigh scattering explains blue skies.", answer)

	require.Len(t, searcher.queries, 1)
	assert.Equal(t, "sky color physics", searcher.queries[0])

	// The second model call sees the search observation.
	require.Len(t, model.calls, 2)
	last := model.calls[1][len(model.calls[1])-1]
	assert.Contains(t, last.Content, "Sky color")
	assert.Contains(t, last.Content, "https://example.com")
}

func TestAnswer_ForcedAnswerAtMaxIterations(t *testing.T) {
	model := &scriptedLLM{responses: []string{
		"Action: Search\nQuery: q1",
		"Action: Search\nQuery: q2",
		"Action: Answer\nBest effort.",
	}}
	searcher := &fakeSearch{results: []search.Result{{Title: "t", URL: "u"}}}
	a := New(model, searcher, 2)

	answer, err := a.Answer(context.Background(), "Q", nil)
	require.NoError(t, err)
	assert.Equal(t, "Best effort.", answer)

	// Two search iterations plus the forced finalize call.
	assert.Len(t, model.calls, 3)
}

func TestAnswer_EmptyQueryRejectedWithoutModelCall(t *testing.T) {
	model := &scriptedLLM{}
	a := New(model, &fakeSearch{}, 3)

	_, err := a.Answer(context.Background(), "   ", nil)
	assert.ErrorIs(t, err, ErrEmptyQuery)
	assert.Empty(t, model.calls)
}

func TestAnswer_HistoryReplayedInOrder(t *testing.T) {
	model := &scriptedLLM{responses: []string{"Action: Answer\nYour name is Alice."}}
	a := New(model, &fakeSearch{}, 3)

	history := []models.Turn{
		{Query: "My name is Alice", Response: "Hi Alice"},
	}
	_, err := a.Answer(context.Background(), "What is my name?", history)
	require.NoError(t, err)

	require.Len(t, model.calls, 1)
	msgs := model.calls[0]
	require.Len(t, msgs, 4)
	assert.Equal(t, llm.RoleSystem, msgs[0].Role)
	assert.Equal(t, "My name is Alice", msgs[1].Content)
	assert.Equal(t, llm.RoleAssistant, msgs[2].Role)
	assert.Equal(t, "Hi Alice", msgs[2].Content)
	assert.Equal(t, "What is my name?", msgs[3].Content)
}

func TestAnswer_ModelErrorPropagates(t *testing.T) {
	model := &scriptedLLM{} // no scripted responses: every call errors
	a := New(model, &fakeSearch{}, 3)

	_, err := a.Answer(context.Background(), "Q", nil)
	assert.Error(t, err)
}

func TestParseDecision(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		action  action
		query   string
		text    string
		wantErr bool
	}{
		{"answer", "Action: Answer\nHello there.", actionAnswer, "", "Hello there.", false},
		{"search", "Action: Search\nQuery: go 1.24 release date", actionSearch, "go 1.24 release date", "", false},
		{"bare text treated as answer", "Just some text.", actionAnswer, "", "Just some text.", false},
		{"search without query", "Action: Search", "", "", "", true},
		{"empty output", "  ", "", "", "", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d, err := parseDecision(tc.raw)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.action, d.Action)
			assert.Equal(t, tc.query, d.Query)
			assert.Equal(t, tc.text, d.Text)
		})
	}
}
