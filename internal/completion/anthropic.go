package completion

import (
	"context"
	"errors"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/sells-group/doccheck/internal/config"
)

const defaultAnthropicModel = "claude-haiku-4-5-20251001"

// anthropicClient implements Client against the Anthropic messages API.
type anthropicClient struct {
	api   sdk.Client
	model string
}

func newAnthropic(cfg config.CompletionConfig) *anthropicClient {
	// The SDK retries on its own by default; retry policy belongs to the
	// caller, so disable it. One call, one request.
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.Key),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := cfg.Model
	if model == "" {
		model = defaultAnthropicModel
	}

	return &anthropicClient{
		api:   sdk.NewClient(opts...),
		model: model,
	}
}

func (c *anthropicClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	msg, err := c.api.Messages.New(ctx, sdk.MessageNewParams{
		Model:     sdk.Model(c.model),
		MaxTokens: maxOutputTokens,
		System: []sdk.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(userPrompt)),
		},
		Temperature: sdk.Float(temperature),
	})
	if err != nil {
		return "", classifyAnthropicError(err)
	}

	var sb strings.Builder
	for _, b := range msg.Content {
		if b.Type == "" || b.Type == "text" {
			sb.WriteString(b.Text)
		}
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", &UpstreamError{Message: "response contains no text content"}
	}
	return text, nil
}

func (c *anthropicClient) ListModels(ctx context.Context) ([]string, error) {
	page, err := c.api.Models.List(ctx, sdk.ModelListParams{})
	if err != nil {
		return nil, classifyAnthropicError(err)
	}

	ids := make([]string, 0, len(page.Data))
	for _, m := range page.Data {
		ids = append(ids, string(m.ID))
	}
	return ids, nil
}

// classifyAnthropicError maps SDK errors onto the typed taxonomy.
func classifyAnthropicError(err error) error {
	var apiErr *sdk.Error
	if errors.As(err, &apiErr) {
		return classifyStatus(apiErr.StatusCode, apiErr.Error())
	}
	return &TransportError{Err: err}
}
