package sec

import (
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	sessionName = "quill_session"
	userIDKey   = "user_id"

	sessionMaxAge = 30 * 24 * 60 * 60 // 30 days, in seconds
)

// Sessions issues and reads the signed session cookie.
type Sessions struct {
	store *sessions.CookieStore
}

// NewSessions returns Sessions signing cookies with secretKey. If secure is
// set, cookies are only sent over HTTPS.
func NewSessions(secretKey []byte, secure bool) *Sessions {
	store := sessions.NewCookieStore(secretKey)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Sessions{store: store}
}

// Get returns the session of the request. A missing or tampered cookie yields
// an empty session. Repeated calls for the same request share one session.
func (s *Sessions) Get(w http.ResponseWriter, r *http.Request) *Session {
	// The error only reports an undecodable cookie; the returned session is
	// then new and empty, which is the anonymous state.
	raw, _ := s.store.Get(r, sessionName)
	return &Session{raw: raw, w: w, r: r}
}

// Session is the client-side state of one request. Changes are written back to
// the client by [Session.Login] and [Session.Clear].
type Session struct {
	raw *sessions.Session
	w   http.ResponseWriter
	r   *http.Request
}

// UserID returns the user ID stored in the session, if any.
func (s *Session) UserID() (uint64, bool) {
	id, ok := s.raw.Values[userIDKey].(uint64)
	return id, ok && id != 0
}

// Login discards any prior session state and stores userID as its only value.
func (s *Session) Login(userID uint64) error {
	s.raw.Values = map[any]any{userIDKey: userID}
	s.raw.Options.MaxAge = sessionMaxAge
	return s.raw.Save(s.r, s.w)
}

// Clear discards all session state and expires the cookie.
func (s *Session) Clear() error {
	s.raw.Values = map[any]any{}
	s.raw.Options.MaxAge = -1
	return s.raw.Save(s.r, s.w)
}
