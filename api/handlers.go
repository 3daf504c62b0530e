package api

import (
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/labstack/echo/v4"
)

// Wire messages. The conflict and credential texts are part of the public
// contract; the credential failure text is identical for unknown usernames
// and wrong passwords so the API leaks nothing about which usernames exist.
const (
	msgUserCreated        = "User created."
	msgDuplicateUsername  = "Username already exists."
	msgInvalidCredentials = "Invalid credentials."
	msgNotFound           = "Not found."
	msgInternalError      = "Internal server error."
)

// Register wires up all API routes on the provided Echo instance.
func Register(e *echo.Echo, users IdentityStore, boards BoardStore, tokens TokenIssuer, auth Authenticator, health Pinger, logger *log.Logger) {
	e.POST("/api/signup/", signup(users))
	e.POST("/api/signin/", signin(users, tokens))
	e.POST("/api/token/refresh/", refreshTokens(tokens))
	e.GET("/healthz", healthz(health))

	g := e.Group("/api/workboards", RequireAuth(auth))
	g.GET("/", listBoards(boards, logger))
	g.POST("/", createBoard(boards))
	g.GET("/:id/", getBoard(boards))
	g.PUT("/:id/", updateBoard(boards))
	g.PATCH("/:id/", updateBoard(boards))
	g.DELETE("/:id/", deleteBoard(boards))
	g.POST("/:id/add_task/", addTask(boards, users))
	g.PUT("/:id/update_task/", updateTask(boards, users))
}

func detail(msg string) map[string]string {
	return map[string]string{"detail": msg}
}

func healthz(health Pinger) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := health.Ping(c.Request().Context()); err != nil {
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	}
}
