// Package assist turns a ClockTick snapshot record into a natural-language
// summary via the Gemini API, for an operator-facing CLI command. It is
// grounded on the teacher's deleted agent/expert.go: a single genai.Chat
// driving one question and one answer, without that file's multi-expert
// facilitator/function-calling machinery, which this package has no need
// for — a snapshot summarizer asks one question about one document, it
// never needs to delegate to another expert.
package assist

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/etnz/fxdesk/engine"
)

// modelName matches the teacher's own choice of model in agent/public.go.
const modelName = "gemini-2.5-pro"

// Summarizer asks a Gemini model to narrate an engine snapshot in plain
// English, for a human operator reading a long run's final state.
type Summarizer struct {
	client *genai.Client
}

// NewSummarizer wraps an already-constructed genai client. Client
// construction (credentials, transport) is the caller's concern, matching
// how the teacher's cmd/assist.go constructs the client before handing it
// to the agent package.
func NewSummarizer(client *genai.Client) *Summarizer {
	return &Summarizer{client: client}
}

// Summarize asks the model to describe a snapshot record's fields in plain
// English. data is expected to be the Fields of a RecordSnapshot record
// (engine/snapshot.go's buildSnapshot output); Summarize itself never
// touches EngineState, only the already-materialized record.
func (s *Summarizer) Summarize(ctx context.Context, data *engine.Fields) (string, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: strings.TrimSpace(`
			You are a risk desk assistant. You will be given one JSON object
			representing a point-in-time snapshot of an FX dealing desk's
			cash balances, net positions, reporting-currency exposures, and
			open-lot profit and loss. Summarize it in three or four plain
			English sentences for a trader glancing at a dashboard. Call out
			anything that looks like concentrated risk.
		`)}}},
	}

	chat, err := s.client.Chats.Create(ctx, modelName, config, nil)
	if err != nil {
		return "", fmt.Errorf("assist: starting chat: %w", err)
	}

	payload, err := data.MarshalJSON()
	if err != nil {
		return "", fmt.Errorf("assist: encoding snapshot: %w", err)
	}

	resp, err := chat.Send(ctx, &genai.Part{Text: string(payload)})
	if err != nil {
		return "", fmt.Errorf("assist: asking model: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("assist: empty response from model")
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}
