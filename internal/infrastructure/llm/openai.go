package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"TopicBridge/internal/config"
	"TopicBridge/internal/domain"
	"TopicBridge/internal/ports"
)

const defaultTimeout = 60 * time.Second

// ErrMisconfigured is returned when the generator has no key or model.
var ErrMisconfigured = errors.New("generation client misconfigured")

// OpenAIGenerator implements ports.GenerationClient over an OpenAI-compatible chat API.
type OpenAIGenerator struct {
	client       *openai.Client
	model        string
	apiKey       string
	temperature  float32
	systemPrompt string
	logger       *slog.Logger
}

var _ ports.GenerationClient = (*OpenAIGenerator)(nil)

// NewOpenAIGenerator builds a generator from configuration.
func NewOpenAIGenerator(cfg config.GenerationConfig, logger *slog.Logger) *OpenAIGenerator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	clientCfg.HTTPClient = &http.Client{Timeout: timeout}

	return &OpenAIGenerator{
		client:       openai.NewClientWithConfig(clientCfg),
		model:        cfg.Model,
		apiKey:       cfg.APIKey,
		temperature:  cfg.Temperature,
		systemPrompt: cfg.SystemPrompt,
		logger:       logger,
	}
}

// Summarize produces the stage-1 record: summary fields only, no ID.
func (g *OpenAIGenerator) Summarize(ctx context.Context, query string, profile domain.Profile) (domain.Record, error) {
	var rec domain.Record
	if err := g.complete(ctx, summaryPrompt(query, profile), &rec); err != nil {
		return domain.Record{}, fmt.Errorf("summarize %q: %w", query, err)
	}
	if strings.TrimSpace(rec.Title) == "" {
		rec.Title = query
	}
	rec.ID = ""
	rec.DeepDive = domain.DeepDive{}
	return rec, nil
}

// DeepDive produces the stage-2 payload for a record already summarized.
func (g *OpenAIGenerator) DeepDive(ctx context.Context, query string, rec domain.Record, profile domain.Profile) (domain.DeepDive, error) {
	var dive domain.DeepDive
	if err := g.complete(ctx, deepDivePrompt(query, rec, profile), &dive); err != nil {
		return domain.DeepDive{}, fmt.Errorf("deep dive %q: %w", query, err)
	}
	return dive, nil
}

func (g *OpenAIGenerator) complete(ctx context.Context, prompt string, out any) error {
	if g == nil {
		return fmt.Errorf("generation client is nil")
	}
	if g.apiKey == "" || g.model == "" {
		return ErrMisconfigured
	}

	req := openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: g.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: safePrompt(g.systemPrompt)},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	started := time.Now()
	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return fmt.Errorf("chat completion returned no choices")
	}
	g.logger.Debug("chat completion finished",
		"model", g.model,
		"finish_reason", resp.Choices[0].FinishReason,
		"elapsed", time.Since(started),
	)

	content := stripFence(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), out); err != nil {
		return fmt.Errorf("decode completion: %w", err)
	}
	return nil
}

func safePrompt(prompt string) string {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "You are a neutral news analyst."
	}
	return prompt
}

// stripFence removes a ```json fence some compatible backends wrap around JSON output.
func stripFence(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}
