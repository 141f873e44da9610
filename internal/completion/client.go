package completion

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/doccheck/internal/config"
)

// Sampling and output bounds for rule-check completions. Low temperature
// keeps replies deterministic; the token ceiling keeps them short enough to
// stay inside the verdict schema.
const (
	temperature     = 0.1
	maxOutputTokens = 500
)

// Client sends a single system/user prompt pair to a completion provider and
// returns the raw reply text. Implementations perform exactly one request per
// call; retry policy belongs to the caller.
type Client interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	// ListModels probes the provider's model-listing endpoint. It exists to
	// verify the credential without spending completion tokens.
	ListModels(ctx context.Context) ([]string, error)
}

// New creates a Client for the configured provider.
func New(cfg config.CompletionConfig) (Client, error) {
	if cfg.Key == "" {
		return nil, ErrMissingAPIKey
	}

	switch cfg.Provider {
	case "openai", "":
		return newOpenAI(cfg), nil
	case "anthropic":
		return newAnthropic(cfg), nil
	default:
		return nil, eris.Errorf("completion: unknown provider %q", cfg.Provider)
	}
}
