package describe

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/ppiankov/geolore/internal/model"
)

const describeTimeout = 20 * time.Second

// OpenAIDescriber asks a chat model for a short neutral description. The
// image still comes from the category template.
type OpenAIDescriber struct {
	client *openai.Client
	model  string
	logger *slog.Logger
}

// NewOpenAIDescriber creates a describer backed by the OpenAI chat API
func NewOpenAIDescriber(cfg model.DescribeConfig, logger *slog.Logger) (*OpenAIDescriber, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	m := cfg.Model
	if m == "" {
		m = openai.GPT4oMini
	}

	return &OpenAIDescriber{
		client: openai.NewClientWithConfig(clientConfig),
		model:  m,
		logger: logger,
	}, nil
}

// Name returns the describer name
func (d *OpenAIDescriber) Name() string { return "openai" }

// Describe generates a two-sentence description of the feature
func (d *OpenAIDescriber) Describe(ctx context.Context, name string, category model.Category) (Description, error) {
	ctx, cancel := context.WithTimeout(ctx, describeTimeout)
	defer cancel()

	resp, err := d.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: d.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You write two short, neutral sentences describing a geographic feature for a map sidebar. No lists, no markdown, no speculation about current events.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt(name, category),
			},
		},
		MaxTokens:   120,
		Temperature: 0.3,
	})
	if err != nil {
		return Description{}, fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Description{}, fmt.Errorf("no response from OpenAI")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return Description{}, fmt.Errorf("empty response from OpenAI")
	}
	d.logger.Debug("generated description", "feature", name, "tokens", resp.Usage.TotalTokens)

	desc := templateFor(name, category)
	desc.Text = text
	return desc, nil
}

func prompt(name string, category model.Category) string {
	return fmt.Sprintf("Describe the %s %q.", strings.ToLower(category.Label()), name)
}
