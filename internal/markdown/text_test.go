package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlainText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"strips heading markers and emphasis",
			"# Title\n\nSome **bold** and *italic* text.",
			"Title Some bold and italic text.",
		},
		{
			"drops fenced code entirely",
			"before\n```go\nsecret := 1\n```\nafter",
			"before after",
		},
		{
			"strips link syntax keeping text and target words",
			"see [the guide](guide.md) for details",
			"see the guide guide.md for details",
		},
		{
			"collapses whitespace",
			"a\n\n\nb\t\tc",
			"a b c",
		},
		{"empty input", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PlainText(tt.in))
		})
	}
}
