package sec

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// LoadIdentity resolves the session cookie into the authenticated user before
// the rest of the chain runs. Anonymous requests pass through unchanged.
func LoadIdentity(gate *Gate) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			sess := gate.Session(c.Response(), req)
			user, ok, err := gate.Resolve(req.Context(), sess)
			if err != nil {
				return err
			}
			if ok {
				c.SetRequest(req.WithContext(SetAuthenticatedUser(req.Context(), user)))
			}
			return next(c)
		}
	}
}

// RequireIdentity guards handlers that need an authenticated user. Anonymous
// requests are redirected to loginPath without running the handler.
func RequireIdentity(loginPath string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := GetAuthenticatedUser(c.Request().Context()); !ok {
				return c.Redirect(http.StatusFound, loginPath)
			}
			return next(c)
		}
	}
}
