package validator

import "strings"

// ParseRules splits a newline-separated rules block into individual rules,
// trimming whitespace and dropping blank lines. Windows line endings fold
// into the trim.
func ParseRules(raw string) []string {
	var rules []string
	for _, line := range strings.Split(raw, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			rules = append(rules, line)
		}
	}
	return rules
}
