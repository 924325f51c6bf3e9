package content

import (
	"github.com/microcosm-cc/bluemonday"
)

// SanitizeHTML strips every tag and attribute not allowed in a post body.
func SanitizeHTML() TransformerFunc {
	htmlSanitizer := sanitizer()
	return func(input []byte) ([]byte, error) {
		return htmlSanitizer.SanitizeBytes(input), nil
	}
}

// sanitizer is a reduction of [bluemonday.UGCPolicy] to prose: no images,
// media, forms or inline styles. Links open in a new tab without a referrer.
func sanitizer() *bluemonday.Policy {
	policy := bluemonday.NewPolicy()

	policy.AllowStandardURLs()
	policy.RequireNoReferrerOnLinks(true)
	policy.AddTargetBlankToFullyQualifiedLinks(true)
	policy.AllowAttrs("href").OnElements("a")

	policy.AllowElements(
		"a",
		"b",
		"blockquote",
		"br",
		"code",
		"del",
		"em",
		"h1", "h2", "h3", "h4", "h5", "h6",
		"hr",
		"i",
		"li",
		"ol",
		"p",
		"pre",
		"s",
		"strong",
		"sub",
		"sup",
		"table", "thead", "tbody", "tr", "th", "td",
		"ul",
	)
	return policy
}
