// Package llm wires the optional LLM collaborators named in §9: a keyword
// extractor tried before internal/filter's rule-based fallback (C1), and an
// answer generator tried before C7's deterministic fallback_answer (C8).
// Both are no-tool, single-turn agents built the same way the teacher builds
// its text-only agents (e.g. OfferSummaryGenerator): one llmagent.Agent, one
// in-memory session per call, no persisted conversation state.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/runner"
	"google.golang.org/adk/session"
	"google.golang.org/genai"

	"portal_final_backend/platform/ai/moonshot"
)

// textAgent is the shared shape for a single-turn, tool-free LLM call.
type textAgent struct {
	runner         *runner.Runner
	sessionService session.Service
	appName        string
}

func newTextAgent(apiKey, baseURL, model, name, description, instruction string) (*textAgent, error) {
	kimi := moonshot.NewModel(moonshot.Config{
		APIKey:          apiKey,
		BaseURL:         baseURL,
		Model:           model,
		DisableThinking: true,
	})

	adkAgent, err := llmagent.New(llmagent.Config{
		Name:        name,
		Model:       kimi,
		Description: description,
		Instruction: instruction,
	})
	if err != nil {
		return nil, fmt.Errorf("llm: create %s agent: %w", name, err)
	}

	sessionService := session.InMemoryService()
	r, err := runner.New(runner.Config{
		AppName:        name,
		Agent:          adkAgent,
		SessionService: sessionService,
	})
	if err != nil {
		return nil, fmt.Errorf("llm: create %s runner: %w", name, err)
	}

	return &textAgent{runner: r, sessionService: sessionService, appName: name}, nil
}

// run sends prompt as a single user turn and returns the concatenated text
// of the model's response.
func (a *textAgent) run(ctx context.Context, prompt string) (string, error) {
	sessionID := uuid.New().String()
	userID := a.appName + "-caller"

	_, err := a.sessionService.Create(ctx, &session.CreateRequest{
		AppName:   a.appName,
		UserID:    userID,
		SessionID: sessionID,
	})
	if err != nil {
		return "", fmt.Errorf("llm: create session: %w", err)
	}
	defer func() {
		_ = a.sessionService.Delete(ctx, &session.DeleteRequest{
			AppName:   a.appName,
			UserID:    userID,
			SessionID: sessionID,
		})
	}()

	userMessage := &genai.Content{
		Role: "user",
		Parts: []*genai.Part{{Text: prompt}},
	}
	runConfig := agent.RunConfig{StreamingMode: agent.StreamingModeNone}

	var out strings.Builder
	for event, err := range a.runner.Run(ctx, userID, sessionID, userMessage, runConfig) {
		if err != nil {
			return "", fmt.Errorf("llm: run failed: %w", err)
		}
		if event.Content == nil {
			continue
		}
		for _, part := range event.Content.Parts {
			out.WriteString(part.Text)
		}
	}

	return strings.TrimSpace(out.String()), nil
}
