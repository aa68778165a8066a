package llm

import (
	"testing"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "json code block",
			input:    "```json\n{\"sections\": {}}\n```",
			expected: `{"sections": {}}`,
		},
		{
			name:     "generic code block",
			input:    "```\n{\"sections\": {}}\n```",
			expected: `{"sections": {}}`,
		},
		{
			name:     "code block with language identifier",
			input:    "```javascript\n{\"sections\": {}}\n```",
			expected: `{"sections": {}}`,
		},
		{
			name:     "plain JSON untouched",
			input:    `{"sections": {}}`,
			expected: `{"sections": {}}`,
		},
		{
			name:     "surrounding whitespace",
			input:    "  \n{\"sections\": {}}\n  ",
			expected: `{"sections": {}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CleanJSONBlock(tt.input)
			if result != tt.expected {
				t.Errorf("CleanJSONBlock() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		ok       bool
	}{
		{
			name:     "preamble before object",
			input:    "Here is the rewrite:\n{\"sections\": {\"summary\": \"x\"}}",
			expected: `{"sections": {"summary": "x"}}`,
			ok:       true,
		},
		{
			name:     "trailing prose",
			input:    "{\"sections\": {}}\nLet me know if you need changes.",
			expected: `{"sections": {}}`,
			ok:       true,
		},
		{
			name:  "no object at all",
			input: "I could not process that resume.",
			ok:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, ok := ExtractJSONObject(tt.input)
			if ok != tt.ok {
				t.Fatalf("ExtractJSONObject() ok = %v, want %v", ok, tt.ok)
			}
			if ok && result != tt.expected {
				t.Errorf("ExtractJSONObject() = %q, want %q", result, tt.expected)
			}
		})
	}
}
