package sec

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stolasapp/quill/internal/storage/db"
)

func TestRequireIdentity(t *testing.T) {
	t.Parallel()

	e := echo.New()
	called := false
	guarded := RequireIdentity("/auth/login")(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	t.Run("anonymous", func(t *testing.T) {
		called = false
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/create", nil), rec)

		require.NoError(t, guarded(c))
		assert.False(t, called)
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/auth/login", rec.Header().Get(echo.HeaderLocation))
	})

	t.Run("authenticated", func(t *testing.T) {
		called = false
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/create", nil)
		req = req.WithContext(SetAuthenticatedUser(req.Context(), db.User{ID: 7, Name: "seven"}))
		c := e.NewContext(req, rec)

		require.NoError(t, guarded(c))
		assert.True(t, called)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestLoadIdentity(t *testing.T) {
	t.Parallel()
	gate, store := newTestGate(t)

	user, err := gate.Register(scoped(t, store), "identity_user", "pw")
	require.NoError(t, err)

	e := echo.New()
	var (
		seen db.User
		ok   bool
	)
	handler := LoadIdentity(gate)(func(c echo.Context) error {
		seen, ok = GetAuthenticatedUser(c.Request().Context())
		return nil
	})

	serve := func(t *testing.T, cookies ...*http.Cookie) {
		t.Helper()
		ctx, release := store.Scope(t.Context())
		defer func() { require.NoError(t, release()) }()
		req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)
		for _, cookie := range cookies {
			req.AddCookie(cookie)
		}
		seen, ok = db.User{}, false
		require.NoError(t, handler(e.NewContext(req, httptest.NewRecorder())))
	}

	t.Run("anonymous", func(t *testing.T) {
		serve(t)
		assert.False(t, ok)
	})

	t.Run("authenticated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		sess := gate.Session(rec, httptest.NewRequest(http.MethodPost, "/auth/login", nil))
		require.NoError(t, sess.Login(user.ID))

		serve(t, rec.Result().Cookies()...)
		require.True(t, ok)
		assert.Equal(t, user.ID, seen.ID)
		assert.Equal(t, "identity_user", seen.Name)
	})

	t.Run("unknown user", func(t *testing.T) {
		rec := httptest.NewRecorder()
		sess := gate.Session(rec, httptest.NewRequest(http.MethodPost, "/auth/login", nil))
		require.NoError(t, sess.Login(user.ID+1))

		serve(t, rec.Result().Cookies()...)
		assert.False(t, ok)
	})
}
