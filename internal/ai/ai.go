// Package ai wraps the text completion provider behind a small interface so
// the pipeline can run against a stub in tests.
package ai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/tmarton/slidegen/internal/config"
)

// Options tune a single completion call.
type Options struct {
	Temperature     float32
	MaxOutputTokens int32
}

// Completer is the completion contract the pipeline depends on. A transport
// failure or empty response surfaces as an error; the pipeline treats both
// as empty decoder input.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, opts Options) (string, error)
}

// ErrEmptyResponse is returned when the provider answered without any text.
var ErrEmptyResponse = errors.New("provider returned empty response")

// Usage is one completion's token accounting, handed to a Recorder.
type Usage struct {
	Provider         string
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Recorder persists usage rows. Nil recorders are allowed and skipped.
type Recorder interface {
	RecordUsage(u Usage)
}

// Client is the Gemini-backed Completer.
type Client struct {
	settings config.ProviderSettings
	recorder Recorder
}

func NewClient(settings config.ProviderSettings, recorder Recorder) *Client {
	return &Client{settings: settings, recorder: recorder}
}

func (c *Client) timeout() time.Duration {
	if c.settings.TimeoutSeconds > 0 {
		return time.Duration(c.settings.TimeoutSeconds) * time.Second
	}
	return 120 * time.Second
}

// Complete sends one prompt pair to Gemini and returns the raw text of the
// first candidate. The call carries its own deadline so a stalled provider
// fails the generation step instead of hanging it forever.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string, opts Options) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout())
	defer cancel()

	client, err := genai.NewClient(ctx, option.WithAPIKey(c.settings.Key))
	if err != nil {
		return "", fmt.Errorf("create genai client: %w", err)
	}
	defer client.Close()

	modelName := c.settings.Model
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}

	m := client.GenerativeModel(modelName)
	m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemPrompt)}}
	if opts.Temperature > 0 {
		m.SetTemperature(opts.Temperature)
	}
	if opts.MaxOutputTokens > 0 {
		m.SetMaxOutputTokens(opts.MaxOutputTokens)
	}
	m.ResponseMIMEType = "application/json"

	resp, err := m.GenerateContent(ctx, genai.Text(userPrompt))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := collectText(resp)
	if text == "" {
		return "", ErrEmptyResponse
	}

	if c.recorder != nil && resp.UsageMetadata != nil {
		c.recorder.RecordUsage(Usage{
			Provider:         "gemini",
			Model:            modelName,
			PromptTokens:     int(resp.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(resp.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(resp.UsageMetadata.TotalTokenCount),
		})
	} else if c.recorder == nil {
		log.Printf("AI usage not recorded (no recorder configured)")
	}

	return text, nil
}

func collectText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	var out string
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				out += string(t)
			}
		}
		break // first candidate only
	}
	return out
}
