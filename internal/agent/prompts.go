package agent

import (
	"errors"
	"regexp"
	"strings"
)

const systemPrompt = `You are a helpful assistant with access to a web search tool for real-time information.

On every turn respond with exactly one action:

Action: Search
Query: <search query>

when you need facts you do not have (news, prices, scores, weather, anything after your training data), or

Action: Answer
<your answer to the user>

when you can answer from the conversation and the search results already shown. Keep answers concise and do not mention the action protocol to the user.`

const finalizePrompt = `You are out of search actions. Using the conversation and the search results above, respond now with:
Action: Answer
<your best answer>`

type action string

const (
	actionAnswer action = "answer"
	actionSearch action = "search"
)

// decision is the parsed model output for one iteration.
type decision struct {
	Action action
	Query  string
	Text   string
}

var (
	queryRegex  = regexp.MustCompile(`(?i)query\s*[:\-]\s*(.+)`)
	answerRegex = regexp.MustCompile(`(?is)action\s*:\s*answer\s*(.*)`)
)

// parseDecision reads the model output. Models that skip the protocol
// entirely are treated as answering directly.
func parseDecision(raw string) (decision, error) {
	trimmed := strings.TrimSpace(raw)
	lower := strings.ToLower(trimmed)

	if m := answerRegex.FindStringSubmatch(trimmed); len(m) == 2 {
		return decision{Action: actionAnswer, Text: strings.TrimSpace(m[1])}, nil
	}

	if strings.Contains(lower, "action: search") || strings.HasPrefix(lower, "search") {
		if m := queryRegex.FindStringSubmatch(trimmed); len(m) == 2 {
			return decision{Action: actionSearch, Query: strings.TrimSpace(m[1])}, nil
		}
		return decision{}, errors.New("model requested search but no query was found")
	}

	if trimmed == "" {
		return decision{}, errors.New("model returned empty output")
	}
	return decision{Action: actionAnswer, Text: trimmed}, nil
}
