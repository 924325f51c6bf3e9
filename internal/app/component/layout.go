package component

import (
	"github.com/a-h/templ"
)

// Layout wraps content with the document head, navigation and inline error.
// The page title doubles as the content header, followed by action if set.
func Layout(page Page, action, content templ.Component) templ.Component {
	return component(func(hw *htmlWriter) {
		hw.raw(`<!doctype html><html lang="en"><head><meta charset="utf-8">`,
			`<meta name="viewport" content="width=device-width, initial-scale=1">`,
			`<title>`)
		if page.Title != "" {
			hw.text(page.Title)
			hw.raw(" - ")
		}
		hw.text(SiteName)
		hw.raw(`</title><link rel="stylesheet" href="`, PathStyle, `"></head><body>`)

		hw.raw(`<nav><h1><a href="`, PathIndex, `">`)
		hw.text(SiteName)
		hw.raw(`</a></h1><ul>`)
		if page.User != nil {
			hw.raw(`<li><span class="`, ClassNavUser, `">`)
			hw.text(page.User.Name)
			hw.raw(`</span></li><li><a href="`, PathLogout, `">Log Out</a></li>`)
		} else {
			hw.raw(`<li><a href="`, PathRegister, `">Register</a></li>`,
				`<li><a href="`, PathLogin, `">Log In</a></li>`)
		}
		hw.raw(`</ul></nav>`)

		hw.raw(`<section class="`, ClassContent, `"><header><h1>`)
		hw.text(page.Title)
		hw.raw(`</h1>`)
		hw.render(action)
		hw.raw(`</header>`)
		if page.Error != "" {
			hw.raw(`<div class="`, ClassFlash, `" role="alert">`)
			hw.text(page.Error)
			hw.raw(`</div>`)
		}
		hw.render(content)
		hw.raw(`</section></body></html>`)
	})
}
