package component

// Form field names.
const (
	FieldUsername = "username"
	FieldPassword = "password"
	FieldTitle    = "title"
	FieldBody     = "body"
	FieldCSRF     = "_csrf"
)

// Element IDs.
const (
	IDPostForm   = "post-form"
	IDDeleteForm = "delete-form"
	IDAuthForm   = "auth-form"
)

// CSS class names.
const (
	ClassContent = "content"
	ClassFlash   = "flash"
	ClassPost    = "post"
	ClassAbout   = "about"
	ClassBody    = "body"
	ClassAction  = "action"
	ClassDanger  = "danger"
	ClassNavUser = "nav-user"
	ClassPaging  = "paging"
)

// Data attribute names with prefix (for use in CSS selectors and tests).
const (
	DataAttrPostID = "data-post-id"
)
