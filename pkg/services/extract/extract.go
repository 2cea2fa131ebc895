// Package extract recovers a single JSON value from free-form model text.
package extract

import (
	"encoding/json"
	"strings"

	"github.com/de-tools/farm-insights/pkg/models/domain"
)

const fence = "```"

// JSON strips code fences, then parses the text as JSON. When that fails it
// parses the span from the first '{' to the last '}'.
func JSON(text string) (any, error) {
	cleaned := StripFences(text)

	var v any
	if err := json.Unmarshal([]byte(cleaned), &v); err == nil {
		return v, nil
	}

	first := strings.Index(cleaned, "{")
	last := strings.LastIndex(cleaned, "}")
	if first != -1 && last > first {
		if err := json.Unmarshal([]byte(cleaned[first:last+1]), &v); err == nil {
			return v, nil
		}
	}

	return nil, domain.Errorf(domain.KindNoJSONFound, "no valid JSON found in model output")
}

// StripFences removes a leading ``` line (with optional language tag) and a
// trailing ``` marker. Fences inside the text are left for the brace scan.
func StripFences(text string) string {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, fence) {
		s = strings.TrimPrefix(s, fence)
		if nl := strings.IndexByte(s, '\n'); nl != -1 && isLanguageTag(s[:nl]) {
			s = s[nl+1:]
		} else {
			s = strings.TrimLeft(s, "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")
		}
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, fence)
	return strings.TrimSpace(s)
}

func isLanguageTag(s string) bool {
	s = strings.TrimSpace(s)
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_') {
			return false
		}
	}
	return true
}
