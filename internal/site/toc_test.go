package site

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"git.home.luguber.info/inful/wikibuilder/internal/markdown"
)

func TestTocLabel(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Getting Started", "Getting Started"},
		{"bold stripped", "**Important** notes", "Important notes"},
		{"code stripped", "The `Build` call", "The Build call"},
		{"link keeps text", "See [the guide](guide.md)", "See the guide"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tocLabel(tt.in))
		})
	}
}

func TestRenderTOC(t *testing.T) {
	t.Run("empty outline for no headings", func(t *testing.T) {
		assert.Empty(t, renderTOC(nil))
	})

	t.Run("indents below h2", func(t *testing.T) {
		out := renderTOC([]markdown.Heading{
			{Level: 2, Text: "Setup", Anchor: "setup"},
			{Level: 3, Text: "Linux", Anchor: "linux"},
			{Level: 4, Text: "Debian", Anchor: "debian"},
		})
		assert.Contains(t, out, "On this page")
		assert.Contains(t, out, `<li><a href="#setup">Setup</a></li>`)
		assert.Contains(t, out, `<li style="margin-left: 14px"><a href="#linux">Linux</a></li>`)
		assert.Contains(t, out, `<li style="margin-left: 28px"><a href="#debian">Debian</a></li>`)
	})

	t.Run("escapes heading text", func(t *testing.T) {
		out := renderTOC([]markdown.Heading{{Level: 2, Text: "a < b", Anchor: "a-b"}})
		assert.Contains(t, out, "a &lt; b")
	})
}
