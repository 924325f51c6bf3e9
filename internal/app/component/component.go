// Package component provides component templates used by the quill web app.
package component

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/stolasapp/quill/internal/storage/db"
)

// SiteName is shown in the navigation bar and page titles.
const SiteName = "Quill"

// Page carries the per-request values shared by every page.
type Page struct {
	Title string
	// User is nil for anonymous requests.
	User *db.User
	// CSRF is the token to embed in forms, empty if CSRF protection is off.
	CSRF string
	// Error is an inline message shown above the content.
	Error string
}

// htmlWriter accumulates the first write error so templates can be written as
// straight-line code.
type htmlWriter struct {
	ctx context.Context //nolint:containedctx // lives for one Render call
	w   io.Writer
	err error
}

func newWriter(ctx context.Context, w io.Writer) *htmlWriter {
	return &htmlWriter{ctx: ctx, w: w}
}

// raw writes trusted markup.
func (hw *htmlWriter) raw(parts ...string) {
	for _, part := range parts {
		if hw.err != nil {
			return
		}
		_, hw.err = io.WriteString(hw.w, part)
	}
}

// text writes escaped text.
func (hw *htmlWriter) text(s string) {
	hw.raw(templ.EscapeString(s))
}

func (hw *htmlWriter) render(c templ.Component) {
	if hw.err != nil || c == nil {
		return
	}
	hw.err = c.Render(hw.ctx, hw.w)
}

func (hw *htmlWriter) csrf(token string) {
	if token == "" {
		return
	}
	hw.raw(`<input type="hidden" name="`, FieldCSRF, `" value="`)
	hw.text(token)
	hw.raw(`">`)
}

func component(fn func(hw *htmlWriter)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := newWriter(ctx, w)
		fn(hw)
		return hw.err
	})
}
