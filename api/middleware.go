package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const callerIDKey = "callerID"

// RequireAuth rejects requests without a valid bearer access token and makes
// the authenticated user id available to handlers. Handlers pass that id
// explicitly into every store call; there is no ambient "current user".
func RequireAuth(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, err := auth.UserIDFromAuthHeader(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, detail(err.Error()))
			}
			c.Set(callerIDKey, userID)
			return next(c)
		}
	}
}

// callerID returns the user id resolved by RequireAuth.
func callerID(c echo.Context) string {
	id, _ := c.Get(callerIDKey).(string)
	return id
}
