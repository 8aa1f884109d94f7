package parse

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractText(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "plain string",
			raw:  `"hello there"`,
			want: "hello there",
		},
		{
			name: "parts object joins string parts",
			raw:  `{"content_type":"text","parts":["first","second"]}`,
			want: "first\nsecond",
		},
		{
			name: "parts object skips non-string parts",
			raw:  `{"parts":["kept",{"asset":"img"},"also kept"]}`,
			want: "kept\nalso kept",
		},
		{
			name: "block array keeps text blocks",
			raw:  `[{"type":"text","text":"alpha"},{"type":"tool_use","text":"ignored"},{"type":"text","text":"beta"}]`,
			want: "alpha\nbeta",
		},
		{
			name: "object with text field",
			raw:  `{"text":"from field"}`,
			want: "from field",
		},
		{
			name: "null is empty",
			raw:  `null`,
			want: "",
		},
		{
			name: "unknown object serializes compactly",
			raw:  `{ "weird": true }`,
			want: `{"weird":true}`,
		},
		{
			name: "number serializes",
			raw:  `42`,
			want: "42",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractText(json.RawMessage(tt.raw)))
		})
	}
}

func TestExtractTextEmptyRaw(t *testing.T) {
	assert.Equal(t, "", extractText(nil))
}
