package completion

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/rotisserie/eris"
)

// ErrMissingAPIKey is returned by New when no credential is configured. The
// check happens at construction so a bad deployment fails at boot instead of
// producing one error verdict per rule.
var ErrMissingAPIKey = eris.New("completion: api key is required")

// AuthError indicates the credential was rejected (HTTP 401/403).
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return "completion: authentication failed: " + e.Message
}

// RateLimitError indicates the provider throttled the request (HTTP 429).
type RateLimitError struct {
	Message string
}

func (e *RateLimitError) Error() string {
	return "completion: rate limited: " + e.Message
}

// QuotaError indicates the account's quota or billing is exhausted. Unlike a
// rate limit, this does not clear on its own.
type QuotaError struct {
	Message string
}

func (e *QuotaError) Error() string {
	return "completion: quota exhausted: " + e.Message
}

// TransportError indicates the request never produced an HTTP response
// (connection failure, timeout, DNS).
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "completion: transport failure: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// UpstreamError covers any other provider failure: an unexpected non-2xx
// status, or a 2xx reply whose envelope is missing the content field.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("completion: upstream error (status %d): %s", e.StatusCode, e.Message)
	}
	return "completion: upstream error: " + e.Message
}

// quotaSignals are substrings that mark a 429/402 as billing rather than
// throttling. OpenAI uses the insufficient_quota error type; Anthropic
// reports billing problems in the message body.
var quotaSignals = []string{
	"insufficient_quota",
	"quota",
	"billing",
	"credit balance",
}

func isQuotaMessage(msg string) bool {
	lower := strings.ToLower(msg)
	for _, s := range quotaSignals {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}

// classifyStatus maps an HTTP status and provider message onto the typed
// error taxonomy.
func classifyStatus(status int, msg string) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &AuthError{Message: msg}
	case status == http.StatusPaymentRequired:
		return &QuotaError{Message: msg}
	case status == http.StatusTooManyRequests:
		if isQuotaMessage(msg) {
			return &QuotaError{Message: msg}
		}
		return &RateLimitError{Message: msg}
	default:
		return &UpstreamError{StatusCode: status, Message: msg}
	}
}
