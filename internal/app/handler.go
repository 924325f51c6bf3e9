package app

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/stolasapp/quill/internal/app/component"
	"github.com/stolasapp/quill/internal/content"
	"github.com/stolasapp/quill/internal/pagination"
	"github.com/stolasapp/quill/internal/sec"
	"github.com/stolasapp/quill/internal/storage"
	"github.com/stolasapp/quill/internal/storage/db"
)

type handler struct {
	store  storage.Store
	gate   *sec.Gate
	logger *slog.Logger
}

func (h handler) routes(e *echo.Echo) {
	e.GET(component.PathHello, h.hello)
	e.GET(component.PathIndex, h.index)

	e.GET(component.PathRegister, h.registerForm)
	e.POST(component.PathRegister, h.register)
	e.GET(component.PathLogin, h.loginForm)
	e.POST(component.PathLogin, h.login)
	e.GET(component.PathLogout, h.logout)

	guard := sec.RequireIdentity(component.PathLogin)
	post := "/:" + component.ParamPostID
	e.GET(component.PathCreate, h.createForm, guard)
	e.POST(component.PathCreate, h.create, guard)
	e.GET(post+"/update", h.updateForm, guard)
	e.POST(post+"/update", h.update, guard)
	e.POST(post+"/delete", h.delete, guard)
}

func (h handler) hello(c echo.Context) error {
	return c.String(http.StatusOK, "Hello, World!")
}

// indexPageSize is the number of posts shown per index page.
const indexPageSize = 20

func (h handler) index(c echo.Context) error {
	ctx := c.Request().Context()

	var before *db.PostCursor
	if tkn := c.QueryParam(component.QueryPage); tkn != "" {
		before = &db.PostCursor{}
		if err := pagination.FromToken(tkn, before); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
		}
	}

	// one extra post tells whether an older page exists
	posts, err := h.store.ListRecentPosts(ctx, before, indexPageSize+1)
	if err != nil {
		return err
	}
	var older string
	if len(posts) > indexPageSize {
		posts = posts[:indexPageSize]
		tkn, err := pagination.ToToken(db.CursorOf(posts[len(posts)-1].Post))
		if err != nil {
			return err
		}
		older = component.IndexPagePath(tkn)
	}

	items := make([]component.PostItem, 0, len(posts))
	for _, post := range posts {
		body, err := content.RenderPostBody(post.Body)
		if err != nil {
			return fmt.Errorf("failed to render post %d: %w", post.ID, err)
		}
		items = append(items, component.PostItem{PostView: post, Body: body})
	}
	return render(c, http.StatusOK, component.Index(page(c, ""), items, older))
}

func (h handler) registerForm(c echo.Context) error {
	return render(c, http.StatusOK, component.Register(page(c, ""), ""))
}

func (h handler) register(c echo.Context) error {
	ctx := c.Request().Context()
	username := c.FormValue(component.FieldUsername)
	password := c.FormValue(component.FieldPassword)

	user, err := h.gate.Register(ctx, username, password)
	var verr storage.ValidationError
	switch {
	case errors.As(err, &verr):
		return render(c, http.StatusUnprocessableEntity, component.Register(page(c, verr.Message), username))
	case errors.Is(err, storage.ErrAlreadyExists):
		msg := fmt.Sprintf("User %s is already registered.", username)
		return render(c, http.StatusConflict, component.Register(page(c, msg), username))
	case err != nil:
		return err
	}

	h.logger.InfoContext(ctx, "user registered",
		slog.String("name", user.Name),
		slog.Uint64("user_id", user.ID),
	)
	return c.Redirect(http.StatusSeeOther, component.PathLogin)
}

func (h handler) loginForm(c echo.Context) error {
	return render(c, http.StatusOK, component.Login(page(c, ""), ""))
}

func (h handler) login(c echo.Context) error {
	ctx := c.Request().Context()
	username := c.FormValue(component.FieldUsername)
	password := c.FormValue(component.FieldPassword)

	sess := h.gate.Session(c.Response(), c.Request())
	user, err := h.gate.Login(ctx, sess, username, password)
	switch {
	case errors.Is(err, sec.ErrInvalidCredentials):
		h.logger.DebugContext(ctx, "login rejected", slog.String("name", username))
		return render(c, http.StatusUnauthorized, component.Login(page(c, "Incorrect username or password."), username))
	case err != nil:
		return err
	}

	h.logger.DebugContext(ctx, "user logged in", slog.Uint64("user_id", user.ID))
	return c.Redirect(http.StatusSeeOther, component.PathIndex)
}

func (h handler) logout(c echo.Context) error {
	if err := h.gate.Logout(h.gate.Session(c.Response(), c.Request())); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, component.PathIndex)
}

func (h handler) createForm(c echo.Context) error {
	return render(c, http.StatusOK, component.CreatePost(page(c, ""), "", ""))
}

func (h handler) create(c echo.Context) error {
	ctx := c.Request().Context()
	user := currentUser(c)
	title := c.FormValue(component.FieldTitle)
	body := c.FormValue(component.FieldBody)

	post, err := h.store.CreatePost(ctx, user.ID, title, body)
	var verr storage.ValidationError
	switch {
	case errors.As(err, &verr):
		return render(c, http.StatusUnprocessableEntity, component.CreatePost(page(c, verr.Message), title, body))
	case err != nil:
		return toHTTPError(err)
	}

	h.logger.DebugContext(ctx, "post created", slog.Uint64("post_id", post.ID))
	return c.Redirect(http.StatusSeeOther, component.PathIndex)
}

func (h handler) updateForm(c echo.Context) error {
	id, err := postID(c)
	if err != nil {
		return err
	}
	post, err := h.store.GetPost(c.Request().Context(), id, currentUser(c).ID)
	if err != nil {
		return toHTTPError(err)
	}
	return render(c, http.StatusOK, component.UpdatePost(page(c, ""), post))
}

func (h handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := postID(c)
	if err != nil {
		return err
	}
	user := currentUser(c)
	title := c.FormValue(component.FieldTitle)
	body := c.FormValue(component.FieldBody)

	err = h.store.UpdatePost(ctx, id, user.ID, title, body)
	var verr storage.ValidationError
	switch {
	case errors.As(err, &verr):
		post, getErr := h.store.GetPost(ctx, id, user.ID)
		if getErr != nil {
			return toHTTPError(getErr)
		}
		post.Title, post.Body = title, body
		return render(c, http.StatusUnprocessableEntity, component.UpdatePost(page(c, verr.Message), post))
	case err != nil:
		return toHTTPError(err)
	}

	h.logger.DebugContext(ctx, "post updated", slog.Uint64("post_id", id))
	return c.Redirect(http.StatusSeeOther, component.PathIndex)
}

func (h handler) delete(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := postID(c)
	if err != nil {
		return err
	}
	if err = h.store.DeletePost(ctx, id, currentUser(c).ID); err != nil {
		return toHTTPError(err)
	}

	h.logger.DebugContext(ctx, "post deleted", slog.Uint64("post_id", id))
	return c.Redirect(http.StatusSeeOther, component.PathIndex)
}

// currentUser returns the authenticated user. Only call it behind
// [sec.RequireIdentity].
func currentUser(c echo.Context) db.User {
	user, _ := sec.GetAuthenticatedUser(c.Request().Context())
	return user
}

func postID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(component.ParamPostID), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusNotFound, "post not found")
	}
	return id, nil
}

// page collects the request values every page needs. msg is shown as an
// inline error if set.
func page(c echo.Context, msg string) component.Page {
	p := component.Page{Error: msg}
	if user, ok := sec.GetAuthenticatedUser(c.Request().Context()); ok {
		p.User = &user
	}
	if token, ok := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string); ok {
		p.CSRF = token
	}
	return p
}

// toHTTPError converts an error to an Echo HTTPError with the appropriate
// HTTP status code. Storage errors are mapped to their corresponding HTTP
// status codes; other errors become internal server errors.
func toHTTPError(err error) *echo.HTTPError {
	if err == nil {
		return nil
	}

	// Already an HTTP error - pass through
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	var verr storage.ValidationError
	switch {
	case errors.As(err, &verr):
		return echo.NewHTTPError(http.StatusBadRequest, verr.Message)
	case errors.Is(err, storage.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "post not found")
	case errors.Is(err, storage.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, "forbidden")
	case errors.Is(err, sec.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError).SetInternal(err)
	}
}

var renderBufferPool = sync.Pool{
	New: func() any {
		return &bytes.Buffer{}
	},
}

// render buffers the component so a rendering failure can still produce a
// clean error response.
func render(c echo.Context, status int, component templ.Component) error {
	buf := renderBufferPool.Get().(*bytes.Buffer) //nolint:forcetypeassert // guaranteed by impl
	defer renderBufferPool.Put(buf)
	buf.Reset()

	if err := component.Render(c.Request().Context(), buf); err != nil {
		return err
	}
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	res.WriteHeader(status)
	_, err := io.Copy(res, buf)
	return err
}
