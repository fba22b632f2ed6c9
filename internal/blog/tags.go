package blog

import (
	"encoding/json"
	"strings"
)

// ParseTags accepts a JSON array of strings or a comma separated list.
// Malformed JSON yields an empty list rather than an error.
func ParseTags(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}
	}
	if strings.HasPrefix(raw, "[") {
		var tags []string
		if err := json.Unmarshal([]byte(raw), &tags); err != nil {
			return []string{}
		}
		return cleanTags(tags)
	}
	return cleanTags(strings.Split(raw, ","))
}

// cleanTags trims entries and drops blanks, keeping order.
func cleanTags(in []string) []string {
	out := make([]string, 0, len(in))
	for _, t := range in {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
