package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrParse matches every *ParseError.
var ErrParse = errors.New("failed to parse AI response")

// ParseError means the reply could not be reduced to the expected JSON.
// Raw keeps the full reply for diagnostics; it must not reach the client.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string { return fmt.Sprintf("%v: %v", ErrParse, e.Err) }

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

var (
	errNoJSON      = errors.New("no JSON object in response")
	errInvalidJSON = errors.New("no valid JSON object in response")
)

// ExtractJSON decodes the first complete top-level JSON object embedded in
// raw into v. Candidates that are not valid JSON are skipped. When raw contains
// no '{' at all the whole trimmed text is decoded instead.
func ExtractJSON(raw string, v any) error {
	candidates := findJSONObjects(raw)
	if len(candidates) == 0 {
		if strings.Contains(raw, "{") {
			return &ParseError{Raw: raw, Err: errNoJSON}
		}
		trimmed := strings.TrimSpace(raw)
		if err := json.Unmarshal([]byte(trimmed), v); err != nil {
			return &ParseError{Raw: raw, Err: err}
		}
		return nil
	}

	for _, c := range candidates {
		if !json.Valid([]byte(c)) {
			continue
		}
		if err := json.Unmarshal([]byte(c), v); err != nil {
			return &ParseError{Raw: raw, Err: err}
		}
		return nil
	}
	return &ParseError{Raw: raw, Err: errInvalidJSON}
}

// findJSONObjects returns every balanced top-level {...} region in s, in
// order. Braces inside string literals and escaped quotes are ignored.
// Iterating bytes is safe: ASCII delimiters never occur inside multi-byte
// UTF-8 sequences.
func findJSONObjects(s string) []string {
	var (
		out      []string
		depth    int
		start    = -1
		inString bool
		escaped  bool
	)
	for i := 0; i < len(s); i++ {
		b := s[i]
		if escaped {
			escaped = false
			continue
		}
		if inString {
			switch b {
			case '\\':
				escaped = true
			case '"':
				inString = false
			}
			continue
		}
		switch b {
		case '"':
			// Quotes only open strings inside an object; prose apostrophes
			// and stray quotes outside must not swallow the next object.
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 && start >= 0 {
				out = append(out, s[start:i+1])
				start = -1
			}
		}
	}
	if depth > 0 && start >= 0 {
		// An unclosed brace, e.g. "{" in prose, would hide any object after
		// it; rescan from the next byte.
		out = append(out, findJSONObjects(s[start+1:])...)
	}
	return out
}
