package content

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPostBody(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		contains []string
		excludes []string
	}{
		{
			name:  "empty",
			input: "",
		},
		{
			name:     "paragraph with emphasis",
			input:    "hello *world*",
			contains: []string{"<p>hello <em>world</em></p>"},
		},
		{
			name:     "hard wraps",
			input:    "line one\nline two",
			contains: []string{"line one<br"},
		},
		{
			name:     "script stripped",
			input:    "safe <script>alert(1)</script>",
			contains: []string{"safe"},
			excludes: []string{"<script", "alert(1)</script>"},
		},
		{
			name:     "images stripped",
			input:    "![alt](https://example.com/a.png)",
			excludes: []string{"<img"},
		},
		{
			name:     "external links",
			input:    "[site](https://example.com)",
			contains: []string{`href="https://example.com"`, "noreferrer", `target="_blank"`},
		},
		{
			name:     "javascript links stripped",
			input:    "[x](javascript:alert(1))",
			excludes: []string{"javascript:"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			out, err := RenderPostBody(test.input)
			require.NoError(t, err)
			if test.input == "" {
				assert.Empty(t, out)
			}
			for _, s := range test.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range test.excludes {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestChain(t *testing.T) {
	t.Parallel()

	upper := TransformerFunc(func(in []byte) ([]byte, error) { return append(in, '!'), nil })
	fail := TransformerFunc(func([]byte) ([]byte, error) { return nil, errors.New("boom") })

	out, err := Chain(upper, upper)([]byte("hi"))
	require.NoError(t, err)
	assert.Equal(t, "hi!!", string(out))

	_, err = Chain(upper, fail, upper)([]byte("hi"))
	require.EqualError(t, err, "boom")
}
