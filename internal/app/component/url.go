package component

import (
	"net/url"
	"strconv"
)

// Routes of the web app.
const (
	PathIndex    = "/"
	PathHello    = "/hello"
	PathRegister = "/auth/register"
	PathLogin    = "/auth/login"
	PathLogout   = "/auth/logout"
	PathCreate   = "/create"
	PathStatic   = "/static/"
	PathStyle    = PathStatic + "style.css"
)

// ParamPostID is the route parameter naming a post.
const ParamPostID = "id"

// QueryPage is the index query parameter carrying a page token.
const QueryPage = "page"

// IndexPagePath returns the index route starting at the page token.
func IndexPagePath(token string) string {
	return PathIndex + "?" + url.Values{QueryPage: {token}}.Encode()
}

// UpdatePath returns the edit route of a post.
func UpdatePath(postID uint64) string {
	return "/" + strconv.FormatUint(postID, 10) + "/update"
}

// DeletePath returns the delete route of a post.
func DeletePath(postID uint64) string {
	return "/" + strconv.FormatUint(postID, 10) + "/delete"
}
