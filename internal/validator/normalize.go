package validator

import (
	"encoding/json"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	// maxFieldChars bounds the evidence and reasoning fields.
	maxFieldChars = 200
	// maxExcerptChars bounds how much of an unparsable reply is echoed into
	// the fallback reasoning.
	maxExcerptChars = 120
	// defaultConfidence is used when the reply omits confidence or supplies
	// something non-numeric.
	defaultConfidence = 50

	noEvidence  = "No evidence provided"
	noReasoning = "No reasoning provided"
)

// Field-name synonyms the model drifts into despite the schema instruction.
var (
	statusKeys     = []string{"status", "Status"}
	evidenceKeys   = []string{"evidence", "Evidence", "quote"}
	reasoningKeys  = []string{"reasoning", "Reasoning", "reason"}
	confidenceKeys = []string{"confidence", "Confidence", "score"}
)

// Normalize turns a raw model reply into a well-formed Verdict. It never
// fails: markdown fences and surrounding prose are stripped, missing or
// misnamed fields fall back to defaults, numbers are coerced and clamped, and
// a reply that cannot be parsed at all yields an error Verdict instead.
func Normalize(raw, rule string) Verdict {
	cleaned := cleanJSON(raw)

	var fields map[string]any
	if err := json.Unmarshal([]byte(cleaned), &fields); err != nil {
		return parseFailure(raw, rule, err)
	}

	confidence, confKnown := toConfidence(lookup(fields, confidenceKeys))

	status := strings.ToLower(strings.TrimSpace(toString(lookup(fields, statusKeys))))
	if status != StatusPass && status != StatusFail {
		// Closed-world default: ambiguous output is a failed check, never a
		// silent pass.
		status = StatusFail
	}
	if !confKnown && status == StatusPass {
		// A reply that omits its own confidence has already broken the
		// schema; the defaulted value must not certify a pass.
		status = StatusFail
	}

	evidence := strings.TrimSpace(toString(lookup(fields, evidenceKeys)))
	if evidence == "" {
		evidence = noEvidence
	}
	reasoning := strings.TrimSpace(toString(lookup(fields, reasoningKeys)))
	if reasoning == "" {
		reasoning = noReasoning
	}

	return Verdict{
		Rule:       rule,
		Status:     status,
		Evidence:   truncate(evidence, maxFieldChars),
		Reasoning:  truncate(reasoning, maxFieldChars),
		Confidence: clamp(confidence, 0, 100),
	}
}

// parseFailure builds the fallback Verdict for a reply that is not JSON even
// after cleanup, carrying the parse error and a bounded excerpt as diagnostics.
func parseFailure(raw, rule string, err error) Verdict {
	reasoning := err.Error() + "; reply excerpt: " + truncate(strings.TrimSpace(raw), maxExcerptChars)
	return Verdict{
		Rule:       rule,
		Status:     StatusError,
		Evidence:   "Unable to parse LLM response",
		Reasoning:  truncate(reasoning, maxFieldChars),
		Confidence: 0,
	}
}

// cleanJSON strips markdown fences and slices to the first balanced-looking
// JSON object span. If no brace pair exists the cleaned text is returned as
// is, and the strict parse upstream decides.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}

	return strings.TrimSpace(text)
}

// lookup returns the first present key's value, in synonym priority order.
func lookup(fields map[string]any, keys []string) any {
	for _, k := range keys {
		if v, ok := fields[k]; ok {
			return v
		}
	}
	return nil
}

func toString(v any) string {
	s, _ := v.(string)
	return s
}

// toConfidence coerces a confidence value to an integer. The second return
// reports whether the reply actually carried a usable number; when it did
// not, the neutral default is returned.
func toConfidence(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return int(f), true
		}
	}
	return defaultConfidence, false
}

// truncate bounds s to limit bytes without splitting a multibyte rune at the
// cut, so the result stays valid UTF-8.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
