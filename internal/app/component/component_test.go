package component

import (
	"bytes"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stolasapp/quill/internal/storage/db"
)

func renderDoc(t *testing.T, c templ.Component) *goquery.Document {
	t.Helper()
	buf := &bytes.Buffer{}
	require.NoError(t, c.Render(t.Context(), buf))
	doc, err := goquery.NewDocumentFromReader(buf)
	require.NoError(t, err)
	return doc
}

func TestLayout_Navigation(t *testing.T) {
	t.Parallel()

	t.Run("anonymous", func(t *testing.T) {
		t.Parallel()
		doc := renderDoc(t, Login(Page{}, ""))
		assert.Equal(t, "Log In - "+SiteName, doc.Find("title").Text())
		assert.Equal(t, 1, doc.Find(`nav a[href="`+PathRegister+`"]`).Length())
		assert.Equal(t, 1, doc.Find(`nav a[href="`+PathLogin+`"]`).Length())
		assert.Zero(t, doc.Find("."+ClassNavUser).Length())
	})

	t.Run("authenticated", func(t *testing.T) {
		t.Parallel()
		doc := renderDoc(t, Index(Page{User: &db.User{ID: 1, Name: "<alice>"}}, nil, ""))
		assert.Equal(t, "<alice>", doc.Find("."+ClassNavUser).Text())
		assert.Equal(t, 1, doc.Find(`nav a[href="`+PathLogout+`"]`).Length())
		assert.Equal(t, 1, doc.Find(`header a[href="`+PathCreate+`"]`).Length())
	})

	t.Run("error", func(t *testing.T) {
		t.Parallel()
		doc := renderDoc(t, Register(Page{Error: "Username is required."}, "bob"))
		assert.Equal(t, "Username is required.", doc.Find("."+ClassFlash).Text())
		val, _ := doc.Find("#" + FieldUsername).Attr("value")
		assert.Equal(t, "bob", val)
	})
}

func TestIndex(t *testing.T) {
	t.Parallel()

	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	posts := []PostItem{
		{
			PostView: db.PostView{
				Post:       db.Post{ID: 2, AuthorID: 1, Created: created, Title: "Mine"},
				AuthorName: "alice",
			},
			Body: "<p>hello</p>",
		},
		{
			PostView: db.PostView{
				Post:       db.Post{ID: 3, AuthorID: 9, Created: created, Title: "<b>Theirs</b>"},
				AuthorName: "mallory",
			},
		},
	}

	doc := renderDoc(t, Index(Page{User: &db.User{ID: 1, Name: "alice"}}, posts, ""))
	articles := doc.Find("article." + ClassPost)
	require.Equal(t, 2, articles.Length())

	first := articles.Eq(0)
	id, _ := first.Attr(DataAttrPostID)
	assert.Equal(t, "2", id)
	assert.Equal(t, "Mine", first.Find("h1").Text())
	assert.Equal(t, "by alice on 2024-03-01", first.Find("."+ClassAbout).Text())
	assert.Equal(t, 1, first.Find(`a[href="`+UpdatePath(2)+`"]`).Length())
	assert.Equal(t, "hello", first.Find("."+ClassBody+" p").Text())

	second := articles.Eq(1)
	assert.Equal(t, "<b>Theirs</b>", second.Find("h1").Text(), "titles are escaped")
	assert.Zero(t, second.Find("a."+ClassAction).Length())
	assert.Zero(t, doc.Find("nav."+ClassPaging).Length())

	doc = renderDoc(t, Index(Page{}, posts, IndexPagePath("tok&en")))
	href, _ := doc.Find("nav." + ClassPaging + " a").Attr("href")
	assert.Equal(t, "/?page=tok%26en", href)
}

func TestPostForms(t *testing.T) {
	t.Parallel()

	t.Run("create", func(t *testing.T) {
		t.Parallel()
		doc := renderDoc(t, CreatePost(Page{CSRF: "tok"}, "draft", "text"))
		form := doc.Find("#" + IDPostForm)
		action, _ := form.Attr("action")
		assert.Equal(t, PathCreate, action)
		csrf, _ := form.Find(`input[name="` + FieldCSRF + `"]`).Attr("value")
		assert.Equal(t, "tok", csrf)
		assert.Equal(t, "text", form.Find("textarea").Text())
		assert.Zero(t, doc.Find("#"+IDDeleteForm).Length())
	})

	t.Run("update", func(t *testing.T) {
		t.Parallel()
		doc := renderDoc(t, UpdatePost(Page{}, db.Post{ID: 5, Title: "T", Body: "B"}))
		action, _ := doc.Find("#" + IDPostForm).Attr("action")
		assert.Equal(t, UpdatePath(5), action)
		del, _ := doc.Find("#" + IDDeleteForm).Attr("action")
		assert.Equal(t, DeletePath(5), del)
		assert.Zero(t, doc.Find(`input[name="`+FieldCSRF+`"]`).Length())
	})
}

func TestPaths(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "/42/update", UpdatePath(42))
	assert.Equal(t, "/42/delete", DeletePath(42))
	assert.Equal(t, "/?page=abc", IndexPagePath("abc"))
}
