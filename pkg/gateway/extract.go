package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrNoJSON = errors.New("no JSON structure found in response")

// ExtractJSON decodes the outermost JSON object or array embedded in text into v.
// Markdown code fences and any prose around the structure are ignored.
func ExtractJSON(text string, v any) error {
	clean := strings.TrimSpace(text)
	clean = strings.ReplaceAll(clean, "```json", "")
	clean = strings.ReplaceAll(clean, "```", "")

	firstBrace := strings.Index(clean, "{")
	firstBracket := strings.Index(clean, "[")
	if firstBrace == -1 && firstBracket == -1 {
		return ErrNoJSON
	}

	isObject := firstBrace != -1 && (firstBracket == -1 || firstBrace < firstBracket)
	start, end := firstBracket, strings.LastIndex(clean, "]")
	if isObject {
		start, end = firstBrace, strings.LastIndex(clean, "}")
	}
	if end >= start {
		clean = clean[start : end+1]
	}

	if err := json.Unmarshal([]byte(clean), v); err != nil {
		return fmt.Errorf("malformed JSON in response: %w", err)
	}
	return nil
}
