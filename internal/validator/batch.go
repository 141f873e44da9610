package validator

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// requestInterval is the fixed pacing between consecutive completion calls.
// Rules are deliberately processed one at a time with this gap as a crude
// rate-limit mitigation; the first call is not delayed and no delay trails
// the last.
const requestInterval = 750 * time.Millisecond

// Completer is the narrow slice of the completion client the orchestrator
// needs, so the batch logic is testable with a fake emitting arbitrary text.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Batch validates a set of rules against one extracted document text,
// strictly in submission order.
type Batch struct {
	client  Completer
	limiter *rate.Limiter
}

// NewBatch creates a Batch orchestrator around a completion client.
func NewBatch(client Completer) *Batch {
	return &Batch{
		client:  client,
		limiter: rate.NewLimiter(rate.Every(requestInterval), 1),
	}
}

// Validate produces one Verdict per rule, in submission order. A rule whose
// completion call fails becomes an error Verdict; it never aborts the
// remaining rules, and nothing is retried. The returned slice always has
// exactly len(rules) entries.
func (b *Batch) Validate(ctx context.Context, text string, rules []string) []Verdict {
	verdicts := make([]Verdict, 0, len(rules))

	for i, rule := range rules {
		if err := b.limiter.Wait(ctx); err != nil {
			verdicts = append(verdicts, errorVerdict(rule, err))
			continue
		}

		system, user := BuildPrompts(rule, text)
		raw, err := b.client.Complete(ctx, system, user)
		if err != nil {
			zap.L().Warn("validator: completion failed",
				zap.Int("rule_index", i),
				zap.Error(err),
			)
			verdicts = append(verdicts, errorVerdict(rule, err))
			continue
		}

		v := Normalize(raw, rule)
		zap.L().Debug("validator: rule checked",
			zap.Int("rule_index", i),
			zap.String("status", v.Status),
			zap.Int("confidence", v.Confidence),
		)
		verdicts = append(verdicts, v)
	}

	return verdicts
}

// errorVerdict converts a completion failure into the per-rule error entry.
func errorVerdict(rule string, err error) Verdict {
	return Verdict{
		Rule:       rule,
		Status:     StatusError,
		Evidence:   "N/A",
		Reasoning:  truncate(err.Error(), maxFieldChars),
		Confidence: 0,
	}
}
