package backend

import (
	"encoding/json"
	"strings"
)

// ReduceJSON turns a JSON response body into a single string. It understands
// {generated_text}, [{generated_text}], {output:[{text}]}, {text} and bare
// JSON strings; anything else is returned re-serialized.
func ReduceJSON(body []byte) string {
	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return string(body)
	}

	switch v := data.(type) {
	case string:
		return v
	case []any:
		if len(v) > 0 {
			if first, ok := v[0].(map[string]any); ok {
				if text, ok := first["generated_text"].(string); ok {
					return text
				}
			}
		}
	case map[string]any:
		if text, ok := v["generated_text"].(string); ok && text != "" {
			return text
		}
		if output, ok := v["output"].([]any); ok && len(output) > 0 {
			parts := make([]string, 0, len(output))
			for _, o := range output {
				item, _ := o.(map[string]any)
				text, _ := item["text"].(string)
				parts = append(parts, text)
			}
			return strings.Join(parts, "\n")
		}
		if text, ok := v["text"].(string); ok {
			return text
		}
	}

	out, err := json.Marshal(data)
	if err != nil {
		return string(body)
	}
	return string(out)
}
