package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedOutput marks model output that could not be decoded against the
// expected structure. Schema failures are a distinct error class from
// transport failures: callers must treat them as stage failure, never default
// a partial structure.
var ErrMalformedOutput = errors.New("malformed model output")

// DecodeJSON decodes a model response into v. Models frequently wrap JSON in
// markdown fences or surround it with prose; both are stripped before
// decoding.
func DecodeJSON(output string, v any) error {
	payload := ExtractJSON(output)
	if payload == "" {
		return fmt.Errorf("%w: no JSON object in response", ErrMalformedOutput)
	}

	dec := json.NewDecoder(strings.NewReader(payload))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	return nil
}

// ExtractJSON returns the JSON object embedded in a model response. It strips
// markdown code fences and leading/trailing prose by slicing from the first
// '{' to the matching last '}'. Returns "" when no object is present.
func ExtractJSON(output string) string {
	s := strings.TrimSpace(output)

	if i := strings.Index(s, "```"); i >= 0 {
		s = s[i+3:]
		// Drop an optional language tag like "json"
		if j := strings.IndexByte(s, '\n'); j >= 0 {
			tag := strings.TrimSpace(s[:j])
			if tag == "json" || tag == "" {
				s = s[j+1:]
			}
		}
		if j := strings.Index(s, "```"); j >= 0 {
			s = s[:j]
		}
	}

	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}
