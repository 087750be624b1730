package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Gemini calls the Google Generative AI API. A semaphore caps in-flight
// requests across handlers sharing the client.
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
	sem    chan struct{}
}

func NewGemini(apiKey string, temperature float32, concurrentReqs int) (*Gemini, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel("gemini-2.0-flash")
	model.SetTemperature(temperature)
	model.SetTopP(0.95)

	if concurrentReqs <= 0 {
		concurrentReqs = 1
	}

	return &Gemini{
		client: client,
		model:  model,
		sem:    make(chan struct{}, concurrentReqs),
	}, nil
}

func (g *Gemini) Chat(ctx context.Context, messages []Message) (string, error) {
	select {
	case g.sem <- struct{}{}:
		defer func() { <-g.sem }()
	case <-ctx.Done():
		return "", ctx.Err()
	}

	// Copy the model so a per-call system instruction never races
	// other requests on the shared client.
	model := *g.model

	var parts []genai.Part
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			model.SystemInstruction = &genai.Content{
				Parts: []genai.Part{genai.Text(m.Content)},
			}
		case RoleUser:
			parts = append(parts, genai.Text("User: "+m.Content))
		case RoleAssistant:
			parts = append(parts, genai.Text("Assistant: "+m.Content))
		}
	}

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return "", errors.New("no response candidates")
	}

	return extractText(resp), nil
}

func (g *Gemini) Close() error {
	return g.client.Close()
}

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}
