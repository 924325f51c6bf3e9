package sec

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/stolasapp/quill/internal/storage"
	"github.com/stolasapp/quill/internal/storage/db"
)

// ErrInvalidCredentials is returned when a username is unknown or its password
// does not match. The two cases are deliberately indistinguishable.
var ErrInvalidCredentials = errors.New("incorrect username or password")

const (
	fieldUsername = "username"
	fieldPassword = "password"
)

// Gate authenticates users and resolves the identity of each request.
type Gate struct {
	users    storage.Users
	sessions *Sessions

	dummyOnce sync.Once
	dummyHash []byte
}

// NewGate returns a Gate checking credentials against users and tracking
// logins in sessions.
func NewGate(users storage.Users, sessions *Sessions) *Gate {
	return &Gate{users: users, sessions: sessions}
}

// Session returns the session of the request.
func (g *Gate) Session(w http.ResponseWriter, r *http.Request) *Session {
	return g.sessions.Get(w, r)
}

// Register creates a user with the given credentials. Missing fields are
// reported as a [storage.ValidationError]; a taken username as
// [storage.ErrAlreadyExists].
func (g *Gate) Register(ctx context.Context, username, password string) (db.User, error) {
	switch {
	case username == "":
		return db.User{}, storage.ValidationError{Field: fieldUsername, Message: "Username is required."}
	case password == "":
		return db.User{}, storage.ValidationError{Field: fieldPassword, Message: "Password is required."}
	}
	hash, err := HashPassword(password)
	if err != nil {
		return db.User{}, err
	}
	return g.users.CreateUser(ctx, db.User{
		Name:         username,
		PasswordHash: hash,
	})
}

// Authenticate returns the user matching the credentials, or
// [ErrInvalidCredentials].
func (g *Gate) Authenticate(ctx context.Context, username, password string) (db.User, error) {
	user, err := g.users.GetUserByName(ctx, username)
	if errors.Is(err, storage.ErrNotFound) {
		// burn the same time a real comparison would
		_ = ComparePassword(password, g.dummy())
		return db.User{}, ErrInvalidCredentials
	} else if err != nil {
		return db.User{}, err
	}
	if err = ComparePassword(password, user.PasswordHash); err != nil {
		return db.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// Login authenticates the credentials and, on success, replaces the session
// contents with the user's ID.
func (g *Gate) Login(ctx context.Context, sess *Session, username, password string) (db.User, error) {
	user, err := g.Authenticate(ctx, username, password)
	if err != nil {
		return db.User{}, err
	}
	if err = sess.Login(user.ID); err != nil {
		return db.User{}, err
	}
	return user, nil
}

// Logout clears the session.
func (g *Gate) Logout(sess *Session) error {
	return sess.Clear()
}

// Resolve loads the user referenced by the session. It reports false for an
// anonymous session or one whose user no longer exists.
func (g *Gate) Resolve(ctx context.Context, sess *Session) (db.User, bool, error) {
	userID, ok := sess.UserID()
	if !ok {
		return db.User{}, false, nil
	}
	user, err := g.users.GetUser(ctx, userID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return db.User{}, false, nil
	case err != nil:
		return db.User{}, false, err
	default:
		return user, true, nil
	}
}

func (g *Gate) dummy() []byte {
	g.dummyOnce.Do(func() {
		// a failure leaves the hash empty, which still fails comparison
		g.dummyHash, _ = HashPassword("quill-dummy-password")
	})
	return g.dummyHash
}

type userKey struct{}

// GetAuthenticatedUser returns the user information for the authenticated user,
// and false if the request is anonymous.
func GetAuthenticatedUser(ctx context.Context) (db.User, bool) {
	user, ok := ctx.Value(userKey{}).(db.User)
	return user, ok
}

// SetAuthenticatedUser sets the user information for an authenticated user. The
// [LoadIdentity] middleware injects this information; this function is
// provided as a convenience for testing.
func SetAuthenticatedUser(ctx context.Context, user db.User) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}
