package component

import (
	"strconv"

	"github.com/a-h/templ"

	"github.com/stolasapp/quill/internal/storage/db"
)

const dateLayout = "2006-01-02"

// PostItem is a post ready for display; Body holds sanitized HTML.
type PostItem struct {
	db.PostView
	Body string
}

// Index renders the list of recent posts. If older is set, it links to the
// next page of posts.
func Index(page Page, posts []PostItem, older string) templ.Component {
	page.Title = "Posts"
	var action templ.Component
	if page.User != nil {
		action = component(func(hw *htmlWriter) {
			hw.raw(`<a class="`, ClassAction, `" href="`, PathCreate, `">New</a>`)
		})
	}
	return Layout(page, action, component(func(hw *htmlWriter) {
		for i, post := range posts {
			if i > 0 {
				hw.raw(`<hr>`)
			}
			hw.raw(`<article class="`, ClassPost, `" `, DataAttrPostID, `="`,
				strconv.FormatUint(post.ID, 10), `"><header><div><h1>`)
			hw.text(post.Title)
			hw.raw(`</h1><div class="`, ClassAbout, `">by `)
			hw.text(post.AuthorName)
			hw.raw(` on `, post.Created.Format(dateLayout), `</div></div>`)
			if page.User != nil && post.OwnedBy(page.User.ID) {
				hw.raw(`<a class="`, ClassAction, `" href="`, UpdatePath(post.ID), `">Edit</a>`)
			}
			hw.raw(`</header><div class="`, ClassBody, `">`)
			hw.render(templ.Raw(post.Body))
			hw.raw(`</div></article>`)
		}
		if older != "" {
			hw.raw(`<nav class="`, ClassPaging, `"><a href="`)
			hw.text(older)
			hw.raw(`">Older posts</a></nav>`)
		}
	}))
}

// CreatePost renders the empty post form, or a refilled one after an error.
func CreatePost(page Page, title, body string) templ.Component {
	page.Title = "New Post"
	return Layout(page, nil, postForm(page, PathCreate, title, body, 0))
}

// UpdatePost renders the edit form of a post, including its delete button.
func UpdatePost(page Page, post db.Post) templ.Component {
	page.Title = "Edit " + post.Title
	return Layout(page, nil, postForm(page, UpdatePath(post.ID), post.Title, post.Body, post.ID))
}

func postForm(page Page, action, title, body string, postID uint64) templ.Component {
	return component(func(hw *htmlWriter) {
		hw.raw(`<form id="`, IDPostForm, `" method="post" action="`, action, `">`)
		hw.csrf(page.CSRF)
		hw.raw(`<label for="`, FieldTitle, `">Title</label>`,
			`<input name="`, FieldTitle, `" id="`, FieldTitle, `" value="`)
		hw.text(title)
		hw.raw(`" required>`,
			`<label for="`, FieldBody, `">Body</label>`,
			`<textarea name="`, FieldBody, `" id="`, FieldBody, `">`)
		hw.text(body)
		hw.raw(`</textarea><input type="submit" value="Save"></form>`)
		if postID == 0 {
			return
		}
		hw.raw(`<hr><form id="`, IDDeleteForm, `" method="post" action="`, DeletePath(postID), `">`)
		hw.csrf(page.CSRF)
		hw.raw(`<input class="`, ClassDanger, `" type="submit" value="Delete" `,
			`onclick="return confirm('Are you sure?');"></form>`)
	})
}
