package chat

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/sandevgo/pennybot/internal/core"
)

var fenceOpener = regexp.MustCompile("(?i)```json\\s*")

// ParseIntent extracts one structured intent object from a noisy, possibly
// fenced model reply. Any failure degrades to {intent:"other"}; nothing ever
// escapes this boundary as an error.
func ParseIntent(text string) core.IntentResult {
	fallback := core.IntentResult{Intent: core.IntentOther}

	cleaned := fenceOpener.ReplaceAllString(text, "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return fallback
	}

	obj, ok := firstBalancedObject(cleaned)
	if !ok {
		return fallback
	}

	var result core.IntentResult
	if err := json.Unmarshal([]byte(obj), &result); err != nil {
		return fallback
	}
	return result
}

// firstBalancedObject scans for the first brace-balanced JSON object,
// ignoring braces inside string literals and anything trailing the object.
func firstBalancedObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
