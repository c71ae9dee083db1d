package ai

import (
	"encoding/json"
	"strings"
)

// StripFences removes a markdown code-fence wrapper from a model
// response, with or without a language tag.
func StripFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```")
	if newline := strings.IndexByte(trimmed, '\n'); newline >= 0 {
		// Drop the language tag line ("json", "JSON", or empty).
		first := strings.TrimSpace(trimmed[:newline])
		if first == "" || strings.EqualFold(first, "json") {
			trimmed = trimmed[newline+1:]
		}
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

// RepairJSON makes a best-effort pass over a truncated or slightly
// malformed JSON document: it closes unterminated strings, drops a
// trailing comma, and appends missing closing brackets and braces.
// The result is not guaranteed to parse; callers should try
// json.Unmarshal on the output and fall back to an empty result.
//
// One heuristic deserves a note: a quote that was never closed before
// the next `, "` sequence is treated as a missing terminator and the
// string is closed before the comma. Truncated model output loses
// closing quotes this way far more often than real payloads contain
// the `, "` sequence inside a string.
func RepairJSON(input string) string {
	var out strings.Builder
	out.Grow(len(input) + 8)

	var stack []byte
	inString := false
	escaped := false

	for i := 0; i < len(input); i++ {
		ch := input[i]

		if inString {
			switch {
			case escaped:
				escaped = false
				out.WriteByte(ch)
			case ch == '\\':
				escaped = true
				out.WriteByte(ch)
			case ch == '"':
				inString = false
				out.WriteByte(ch)
			case ch == ',' && nextNonSpaceIs(input[i+1:], '"'):
				// Missing terminator: close the string before the comma.
				inString = false
				out.WriteByte('"')
				out.WriteByte(',')
			default:
				out.WriteByte(ch)
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
			out.WriteByte(ch)
		case '{', '[':
			stack = append(stack, ch)
			out.WriteByte(ch)
		case '}', ']':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			out.WriteByte(ch)
		default:
			out.WriteByte(ch)
		}
	}

	repaired := out.String()

	if inString {
		repaired += `"`
	}

	repaired = strings.TrimRight(repaired, " \t\r\n")
	repaired = strings.TrimSuffix(repaired, ",")

	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == '{' {
			repaired += "}"
		} else {
			repaired += "]"
		}
	}

	return repaired
}

// nextNonSpaceIs reports whether the first non-whitespace byte of rest
// equals want.
func nextNonSpaceIs(rest string, want byte) bool {
	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case ' ', '\t', '\r', '\n':
			continue
		default:
			return rest[i] == want
		}
	}
	return false
}

// DecodeJSON unmarshals a model response into v, stripping markdown
// fences first and running the repair pass if the raw text does not
// parse. Returns an error only if repair also fails; callers then
// surface an empty result instead of the parse error.
func DecodeJSON(text string, v any) error {
	clean := StripFences(text)
	if err := json.Unmarshal([]byte(clean), v); err == nil {
		return nil
	}
	return json.Unmarshal([]byte(RepairJSON(clean)), v)
}
