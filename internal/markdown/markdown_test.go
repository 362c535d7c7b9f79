package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFirstHeading(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"atx", "# Hello World\n\ntext\n", "Hello World"},
		{"inline markup stripped", "# Hello *big* `code` [link](/x)\n", "Hello big code link"},
		{"setext", "Setext Title\n============\n", "Setext Title"},
		{"skips lower levels", "## Sub\n\n# Main\n", "Main"},
		{"first of several", "# One\n# Two\n", "One"},
		{"none", "just a paragraph\n", ""},
		{"heading inside code block ignored", "```\n# not a heading\n```\n", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FirstHeading([]byte(tt.body)))
		})
	}
}
