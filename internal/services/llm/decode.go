package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// DecodeLLMJSON unmarshals a model answer into target. When the answer is not
// bare JSON it retries on the fenced or embedded object inside it.
func DecodeLLMJSON(content string, target any) error {
	payload := strings.TrimSpace(content)
	if payload == "" {
		return errors.New("empty payload")
	}
	err := json.Unmarshal([]byte(payload), target)
	if err == nil {
		return nil
	}
	if inner := embeddedJSON(payload); inner != payload {
		if err = json.Unmarshal([]byte(inner), target); err == nil {
			return nil
		}
		payload = inner
	}
	return fmt.Errorf("%w (payload snippet: %s)", err, snippet(payload))
}

// embeddedJSON drops a markdown fence and any prose outside the outermost
// object or array.
func embeddedJSON(s string) string {
	if rest, ok := strings.CutPrefix(s, "```"); ok {
		rest = strings.TrimLeft(rest, " \t\r\n")
		if len(rest) >= 4 && strings.EqualFold(rest[:4], "json") {
			rest = rest[4:]
		}
		if end := strings.LastIndex(rest, "```"); end >= 0 {
			rest = rest[:end]
		}
		s = strings.TrimSpace(rest)
	}
	start := strings.IndexAny(s, "{[")
	end := strings.LastIndexAny(s, "}]")
	if start < 0 || end <= start {
		return s
	}
	return s[start : end+1]
}

// snippet flattens whitespace and truncates text for error messages.
func snippet(text string) string {
	clean := strings.Join(strings.Fields(text), " ")
	if clean == "" {
		return "<empty>"
	}
	const limit = 160
	if runes := []rune(clean); len(runes) > limit {
		return string(runes[:limit]) + "..."
	}
	return clean
}
