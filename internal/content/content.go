// Package content renders user-authored post bodies into safe HTML.
package content

// Transformer modifies content, returning modified content or an error.
type Transformer interface {
	// Transform modifies input, returning modified content or an error.
	Transform(input []byte) ([]byte, error)
}

// TransformerFunc is a [Transformer] that can be represented just by the
// [Transform] method.
type TransformerFunc func(input []byte) ([]byte, error)

// Transform satisfies [Transformer].
func (fn TransformerFunc) Transform(input []byte) ([]byte, error) { return fn(input) }

// Chain runs transformers in order, failing fast if any of them errors.
func Chain(transformers ...Transformer) TransformerFunc {
	return func(input []byte) ([]byte, error) {
		var err error
		for _, transformer := range transformers {
			input, err = transformer.Transform(input)
			if err != nil {
				return nil, err
			}
		}
		return input, nil
	}
}

var postBodyPipeline = Chain(MarkdownToHTML(), SanitizeHTML())

// RenderPostBody converts a Markdown post body into sanitized HTML.
func RenderPostBody(body string) (string, error) {
	if body == "" {
		return "", nil
	}
	out, err := postBodyPipeline([]byte(body))
	if err != nil {
		return "", err
	}
	return string(out), nil
}
