package llm

import (
	"encoding/json"
	"strings"
)

// Scan bounds for ExtractJSON. Only the first maxScanLen bytes are searched
// for a span and at most maxScanStarts opening brackets are tried.
const (
	maxScanLen    = 32 << 10
	maxScanStarts = 64
)

// ExtractJSON recovers a JSON value from model output. The whole text is
// tried first; otherwise the first balanced {...} or [...] span that parses
// is returned. Brackets inside string literals are ignored while scanning.
func ExtractJSON(text string) (any, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, false
	}

	var v any
	if err := json.Unmarshal([]byte(text), &v); err == nil {
		return v, true
	}

	if len(text) > maxScanLen {
		text = text[:maxScanLen]
	}
	tried := 0
	for start := 0; start < len(text) && tried < maxScanStarts; start++ {
		if text[start] != '{' && text[start] != '[' {
			continue
		}
		tried++
		end, ok := matchBracket(text, start)
		if !ok {
			continue
		}
		if err := json.Unmarshal([]byte(text[start:end+1]), &v); err == nil {
			return v, true
		}
	}
	return nil, false
}

// matchBracket returns the index of the bracket closing the one at start.
func matchBracket(text string, start int) (int, bool) {
	var stack []byte
	inString, escaped := false, false

	for i := start; i < len(text); i++ {
		c := text[i]
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
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			if len(stack) == 0 || stack[len(stack)-1] != c {
				return 0, false
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return i, true
			}
		}
	}
	return 0, false
}
