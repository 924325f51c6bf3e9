package sec

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stolasapp/quill/internal/config"
	"github.com/stolasapp/quill/internal/storage"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func newTestGate(t *testing.T) (*Gate, *storage.DB) {
	t.Helper()
	cfg := config.Default()
	cfg.DBFilepath = filepath.Join(t.TempDir(), "db.sqlite")
	store, err := storage.NewDB(t.Context(), cfg, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return NewGate(store, NewSessions(testKey, false)), store
}

func scoped(t *testing.T, store storage.Scoper) context.Context {
	t.Helper()
	ctx, release := store.Scope(t.Context())
	t.Cleanup(func() { assert.NoError(t, release()) })
	return ctx
}

func newSession(gate *Gate) (*Session, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	return gate.Session(rec, req), rec
}

func TestGate_Register(t *testing.T) {
	t.Parallel()
	gate, store := newTestGate(t)

	tests := []struct {
		name      string
		username  string
		password  string
		wantField string
	}{
		{name: "empty username", username: "", password: "pw", wantField: fieldUsername},
		{name: "empty password", username: "empty_pw", password: "", wantField: fieldPassword},
		{name: "both empty", username: "", password: "", wantField: fieldUsername},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			ctx := scoped(t, store)

			_, err := gate.Register(ctx, test.username, test.password)
			var verr storage.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, test.wantField, verr.Field)

			if test.username != "" {
				_, err = store.GetUserByName(ctx, test.username)
				require.ErrorIs(t, err, storage.ErrNotFound)
			}
		})
	}

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		ctx := scoped(t, store)

		user, err := gate.Register(ctx, "register_ok", "hunter2")
		require.NoError(t, err)
		assert.NotZero(t, user.ID)
		assert.NotEqual(t, []byte("hunter2"), user.PasswordHash)

		stored, err := store.GetUserByName(ctx, "register_ok")
		require.NoError(t, err)
		assert.Equal(t, user.ID, stored.ID)
		require.NoError(t, ComparePassword("hunter2", stored.PasswordHash))
	})

	t.Run("duplicate", func(t *testing.T) {
		t.Parallel()
		ctx := scoped(t, store)

		first, err := gate.Register(ctx, "register_dup", "a")
		require.NoError(t, err)
		_, err = gate.Register(ctx, "register_dup", "b")
		require.ErrorIs(t, err, storage.ErrAlreadyExists)

		stored, err := store.GetUserByName(ctx, "register_dup")
		require.NoError(t, err)
		assert.Equal(t, first.ID, stored.ID)
		require.NoError(t, ComparePassword("a", stored.PasswordHash))
	})
}

func TestGate_Login(t *testing.T) {
	t.Parallel()
	gate, store := newTestGate(t)

	ctx := scoped(t, store)
	registered, err := gate.Register(ctx, "login_user", "correct")
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		ctx := scoped(t, store)
		sess, rec := newSession(gate)

		user, err := gate.Login(ctx, sess, "login_user", "correct")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)

		id, ok := sess.UserID()
		require.True(t, ok)
		assert.Equal(t, registered.ID, id)
		assert.NotEmpty(t, rec.Result().Cookies())

		resolved, ok, err := gate.Resolve(ctx, sess)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, registered.ID, resolved.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		t.Parallel()
		ctx := scoped(t, store)
		sess, rec := newSession(gate)

		_, err := gate.Login(ctx, sess, "login_user", "wrong")
		require.ErrorIs(t, err, ErrInvalidCredentials)
		_, ok := sess.UserID()
		assert.False(t, ok)
		assert.Empty(t, rec.Result().Cookies())
	})

	t.Run("unknown user", func(t *testing.T) {
		t.Parallel()
		ctx := scoped(t, store)
		sess, _ := newSession(gate)

		_, err := gate.Login(ctx, sess, "nobody", "correct")
		require.ErrorIs(t, err, ErrInvalidCredentials)
		_, ok, err := gate.Resolve(ctx, sess)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("logout", func(t *testing.T) {
		t.Parallel()
		ctx := scoped(t, store)
		sess, _ := newSession(gate)

		_, err := gate.Login(ctx, sess, "login_user", "correct")
		require.NoError(t, err)
		require.NoError(t, gate.Logout(sess))

		_, ok, err := gate.Resolve(ctx, sess)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestGate_ResolveDeletedUser(t *testing.T) {
	t.Parallel()
	gate, store := newTestGate(t)
	ctx := scoped(t, store)

	user, err := gate.Register(ctx, "ghost", "boo")
	require.NoError(t, err)
	sess, _ := newSession(gate)
	require.NoError(t, sess.Login(user.ID))
	require.NoError(t, store.DeleteUser(ctx, user.ID))

	_, ok, err := gate.Resolve(ctx, sess)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAuthenticatedUserContext(t *testing.T) {
	t.Parallel()

	_, ok := GetAuthenticatedUser(t.Context())
	assert.False(t, ok)

	gate, store := newTestGate(t)
	user, err := gate.Register(scoped(t, store), "ctx_user", "pw")
	require.NoError(t, err)

	ctx := SetAuthenticatedUser(t.Context(), user)
	actual, ok := GetAuthenticatedUser(ctx)
	require.True(t, ok)
	assert.Equal(t, user, actual)
}
