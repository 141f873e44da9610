package completion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/doccheck/internal/config"
)

func TestNew_MissingKey(t *testing.T) {
	_, err := New(config.CompletionConfig{Provider: "openai"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestNew_DefaultProvider(t *testing.T) {
	c, err := New(config.CompletionConfig{Key: "sk-test"})
	require.NoError(t, err)
	assert.IsType(t, &openAIClient{}, c)
}

func TestNew_Anthropic(t *testing.T) {
	c, err := New(config.CompletionConfig{Provider: "anthropic", Key: "sk-ant"})
	require.NoError(t, err)
	assert.IsType(t, &anthropicClient{}, c)
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New(config.CompletionConfig{Provider: "cohere", Key: "k"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown provider "cohere"`)
}

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
		msg    string
		want   any
	}{
		{"unauthorized", 401, "invalid api key", &AuthError{}},
		{"forbidden", 403, "key disabled", &AuthError{}},
		{"payment_required", 402, "billing issue", &QuotaError{}},
		{"rate_limit", 429, "slow down", &RateLimitError{}},
		{"quota_as_429", 429, "insufficient_quota: you have run out", &QuotaError{}},
		{"billing_as_429", 429, "your credit balance is too low", &QuotaError{}},
		{"server_error", 500, "boom", &UpstreamError{}},
		{"bad_gateway", 502, "upstream gone", &UpstreamError{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyStatus(tt.status, tt.msg)
			require.Error(t, err)
			assert.IsType(t, tt.want, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestUpstreamError_Message(t *testing.T) {
	withStatus := &UpstreamError{StatusCode: 503, Message: "unavailable"}
	assert.Contains(t, withStatus.Error(), "status 503")

	noStatus := &UpstreamError{Message: "response contains no choices"}
	assert.NotContains(t, noStatus.Error(), "status")
	assert.Contains(t, noStatus.Error(), "no choices")
}

func TestTransportError_Unwrap(t *testing.T) {
	inner := assert.AnError
	err := &TransportError{Err: inner}
	assert.ErrorIs(t, err, inner)
}
