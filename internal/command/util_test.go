package command

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{name: "newline", input: "y\nrest", want: "y"},
		{name: "crlf", input: "hunter2\r\n", want: "hunter2"},
		{name: "backspace", input: "yx\b\n", want: "y"},
		{name: "eof after text", input: "no newline", want: "no newline"},
		{name: "empty line", input: "\n", want: ""},
		{name: "eof", input: "", wantErr: io.EOF},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			got, err := readLine(strings.NewReader(test.input))
			if test.wantErr != nil {
				require.ErrorIs(t, err, test.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.want, string(got))
		})
	}
}

func TestReadLine_LeavesRest(t *testing.T) {
	t.Parallel()

	r := strings.NewReader("first\nsecond\n")
	first, err := readLine(r)
	require.NoError(t, err)
	second, err := readLine(r)
	require.NoError(t, err)
	assert.Equal(t, "first", string(first))
	assert.Equal(t, "second", string(second))
}

func TestVersion(t *testing.T) {
	t.Parallel()
	assert.NotEmpty(t, version())
}
