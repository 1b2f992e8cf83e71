package llm

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONRoundTrip(t *testing.T) {
	objects := []map[string]any{
		{},
		{"hooks": []any{map[string]any{"id": "hook_1", "text": "X", "hookType": "Number hook", "outline": []any{"a", "b"}}}},
		{"nested": map[string]any{"deep": map[string]any{"n": 1.5, "ok": true, "nil": nil}}},
		{"braces": "a } and { inside", "quote": `she said "hi"`, "slash": `C:\temp`},
		{"unicode": "blåbærgrød ✓", "list": []any{1.0, "two", false}},
	}
	affixes := []struct{ prefix, suffix string }{
		{"", ""},
		{"Here you go: ", ""},
		{"", "\n\nLet me know if you want changes."},
		{"```json\n", "\n```"},
		{"Sure! I'm happy to help.\n", "\nThat's all."},
		{`He said "wait" then `, " end"},
	}

	for _, obj := range objects {
		encoded, err := json.Marshal(obj)
		require.NoError(t, err)
		for _, a := range affixes {
			raw := a.prefix + string(encoded) + a.suffix
			var got map[string]any
			require.NoError(t, ExtractJSON(raw, &got), raw)
			if diff := cmp.Diff(obj, got); diff != "" {
				t.Errorf("ExtractJSON(%q) mismatch (-want +got):\n%s", raw, diff)
			}
		}
	}
}

func TestExtractJSONFailures(t *testing.T) {
	for _, raw := range []string{
		"no braces here",
		"{invalid json}",
		"prefix { incomplete",
		"",
		"[1, 2, 3]",
	} {
		t.Run(raw, func(t *testing.T) {
			var got map[string]any
			err := ExtractJSON(raw, &got)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrParse)

			var pe *ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, raw, pe.Raw)
		})
	}
}

func TestExtractJSONBareFallback(t *testing.T) {
	var got []int
	require.NoError(t, ExtractJSON("  [1, 2, 3]\n", &got))
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestExtractJSONFirstObjectWins(t *testing.T) {
	var got struct {
		ID int `json:"id"`
	}
	require.NoError(t, ExtractJSON(`first {"id": 1} then {"id": 2}`, &got))
	assert.Equal(t, 1, got.ID)
}

func TestExtractJSONSkipsInvalidCandidates(t *testing.T) {
	var got struct {
		Hooks []string `json:"hooks"`
	}
	raw := `Use {placeholders} like this: {"hooks": ["a", "b"]}`
	require.NoError(t, ExtractJSON(raw, &got))
	assert.Equal(t, []string{"a", "b"}, got.Hooks)
}

func TestExtractJSONRecoversFromUnclosedBrace(t *testing.T) {
	var got map[string]any
	require.NoError(t, ExtractJSON(`a stray { then {"ok": true}`, &got))
	assert.Equal(t, map[string]any{"ok": true}, got)
}

func TestFindJSONObjects(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"simple", `prefix {"key": "value"} suffix`, []string{`{"key": "value"}`}},
		{"nested", `start {"a": {"b": "c"}} end`, []string{`{"a": {"b": "c"}}`}},
		{"multiple", `obj1 {"id": 1} obj2 {"id": 2}`, []string{`{"id": 1}`, `{"id": 2}`}},
		{"string with braces", `{"key": "value with } inside"}`, []string{`{"key": "value with } inside"}`}},
		{"escaped quote", `{"key": "value with \" inside"}`, []string{`{"key": "value with \" inside"}`}},
		{"escaped backslash", `{"key": "value with \\"}`, []string{`{"key": "value with \\"}`}},
		{"malformed", `} { valid } {`, []string{`{ valid }`}},
		{"none", `nothing`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, findJSONObjects(tt.input)); diff != "" {
				t.Errorf("findJSONObjects mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
