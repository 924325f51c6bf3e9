package component

import "github.com/a-h/templ"

// Register renders the registration form, refilling the username.
func Register(page Page, username string) templ.Component {
	page.Title = "Register"
	return Layout(page, nil, authForm(page, PathRegister, username, "Register"))
}

// Login renders the login form, refilling the username.
func Login(page Page, username string) templ.Component {
	page.Title = "Log In"
	return Layout(page, nil, authForm(page, PathLogin, username, "Log In"))
}

func authForm(page Page, action, username, submit string) templ.Component {
	return component(func(hw *htmlWriter) {
		hw.raw(`<form id="`, IDAuthForm, `" method="post" action="`, action, `">`)
		hw.csrf(page.CSRF)
		hw.raw(`<label for="`, FieldUsername, `">Username</label>`,
			`<input name="`, FieldUsername, `" id="`, FieldUsername, `" value="`)
		hw.text(username)
		hw.raw(`" required>`,
			`<label for="`, FieldPassword, `">Password</label>`,
			`<input type="password" name="`, FieldPassword, `" id="`, FieldPassword, `" required>`,
			`<input type="submit" value="`, submit, `">`,
			`</form>`)
	})
}
