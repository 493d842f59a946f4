package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "paragraph", in: "hello", want: "<p>hello</p>\n"},
		{name: "heading", in: "# Backend", want: "<h1>Backend</h1>\n"},
		{name: "emphasis", in: "**Go** developer", want: "<p><strong>Go</strong> developer</p>\n"},
		{name: "empty", in: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToHTML(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
