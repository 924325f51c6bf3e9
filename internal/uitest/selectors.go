package uitest

import (
	"fmt"

	"github.com/stolasapp/quill/internal/app/component"
)

// CSS selectors built from component constants.
// These ensure test selectors stay in sync with the component DOM structure.

// Element selectors.
var (
	// SelectorNavUser selects the logged in username in the navigation.
	SelectorNavUser = "nav ." + component.ClassNavUser

	// SelectorFlash selects the inline error message.
	SelectorFlash = "." + component.ClassFlash

	// SelectorPost selects any post article on the index.
	SelectorPost = "article." + component.ClassPost

	// SelectorPostTitle selects the titles of posts on the index.
	SelectorPostTitle = SelectorPost + " h1"

	// SelectorNewPost selects the link to the post form.
	SelectorNewPost = fmt.Sprintf(`header a[href="%s"]`, component.PathCreate)

	// SelectorLogout selects the logout link.
	SelectorLogout = fmt.Sprintf(`nav a[href="%s"]`, component.PathLogout)

	// SelectorLogin selects the login link.
	SelectorLogin = fmt.Sprintf(`nav a[href="%s"]`, component.PathLogin)
)

// Form selectors.
var (
	// SelectorAuthSubmit selects the submit button of the register and login forms.
	SelectorAuthSubmit = "#" + component.IDAuthForm + ` input[type="submit"]`

	// SelectorPostSubmit selects the submit button of the post form.
	SelectorPostSubmit = "#" + component.IDPostForm + ` input[type="submit"]`

	// SelectorDeleteSubmit selects the delete button of the edit page.
	SelectorDeleteSubmit = "#" + component.IDDeleteForm + ` input[type="submit"]`
)

// SelectorField returns a selector for a form field by name.
func SelectorField(name string) string {
	return fmt.Sprintf(`[name="%s"]`, name)
}

// SelectorPostByID returns a selector for the post article with the given ID.
func SelectorPostByID(id string) string {
	return fmt.Sprintf(`%s[%s="%s"]`, SelectorPost, component.DataAttrPostID, id)
}

// SelectorEditLink returns a selector for the edit link inside a post.
func SelectorEditLink(id string) string {
	return SelectorPostByID(id) + " a." + component.ClassAction
}
