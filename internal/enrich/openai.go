package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/autoseat/claimlens/internal/model"
)

// OpenAIProvider classifies claims directly against the OpenAI Chat
// Completions API, for deployments without an AI proxy in front
type OpenAIProvider struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewOpenAIProvider creates a new OpenAI provider
func NewOpenAIProvider(cfg model.EnrichConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	chatModel := cfg.Model
	if chatModel == "" {
		chatModel = openai.GPT4oMini
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &OpenAIProvider{
		client:  openai.NewClientWithConfig(clientConfig),
		model:   chatModel,
		timeout: timeout,
	}, nil
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// ClassifyBatch sends one chat completion per batch and parses the JSON
// object the model returns. Ids absent from the answer stay unclassified.
func (p *OpenAIProvider) ClassifyBatch(ctx context.Context, requests []Request) (map[string]Result, error) {
	if len(requests) == 0 {
		return map[string]Result{}, nil
	}

	prompt, err := buildPrompt(requests)
	if err != nil {
		return nil, err
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	chatReq := openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Temperature: 0.2,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := p.client.CreateChatCompletion(ctxWithTimeout, chatReq)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)

	var payload struct {
		Results map[string]Result `json:"results"`
	}
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return nil, fmt.Errorf("parse model response: %w", err)
	}
	if payload.Results == nil {
		payload.Results = map[string]Result{}
	}
	return payload.Results, nil
}

const systemPrompt = `You classify automotive seat warranty claims. For each claim decide the phenomenon (failure symptom), cause (root cause area) and severity (High, Medium or Low). Answer with a JSON object of the form {"results": {"<claim id>": {"phenomenon": "...", "cause": "...", "severity": "..."}}}. Omit a claim entirely if you cannot improve on its current classification. Never invent claim ids.`

func buildPrompt(requests []Request) (string, error) {
	data, err := json.MarshalIndent(requests, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode claims: %w", err)
	}

	var b strings.Builder
	b.WriteString("Classify the following claims. Claims may be in English or Korean.\n\n")
	b.Write(data)
	return b.String(), nil
}
