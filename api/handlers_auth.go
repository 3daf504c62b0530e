package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"workboard-api/domain"
	"workboard-api/token"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

func signup(users IdentityStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req credentialsRequest
		if err := decodeBody(c, &req); err != nil {
			return c.JSON(http.StatusBadRequest, detail("invalid body"))
		}

		fe := domain.FieldErrors{}
		if req.Username == "" {
			fe.Add("username", "This field is required.")
		}
		if req.Password == "" {
			fe.Add("password", "This field is required.")
		}
		if len(fe) > 0 {
			return c.JSON(http.StatusBadRequest, fe)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.Logger().Error(err)
			return c.JSON(http.StatusInternalServerError, detail(msgInternalError))
		}

		if _, err := users.CreateUser(c.Request().Context(), req.Username, string(hash)); err != nil {
			if errors.Is(err, domain.ErrDuplicateUsername) {
				return c.JSON(http.StatusBadRequest, detail(msgDuplicateUsername))
			}
			c.Logger().Error(err)
			return c.JSON(http.StatusInternalServerError, detail(msgInternalError))
		}

		return c.JSON(http.StatusCreated, detail(msgUserCreated))
	}
}

func signin(users IdentityStore, tokens TokenIssuer) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		var req credentialsRequest
		if err := decodeBody(c, &req); err != nil {
			return c.JSON(http.StatusBadRequest, detail("invalid body"))
		}

		// Unknown usernames and wrong passwords take the same exit.
		user, err := users.UserByUsername(ctx, req.Username)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return c.JSON(http.StatusUnauthorized, detail(msgInvalidCredentials))
			}
			c.Logger().Error(err)
			return c.JSON(http.StatusInternalServerError, detail(msgInternalError))
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			return c.JSON(http.StatusUnauthorized, detail(msgInvalidCredentials))
		}

		pair, err := tokens.Issue(ctx, user.ID)
		if err != nil {
			c.Logger().Error(err)
			return c.JSON(http.StatusInternalServerError, detail(msgInternalError))
		}
		return c.JSON(http.StatusOK, pair)
	}
}

func refreshTokens(tokens TokenIssuer) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req refreshRequest
		if err := decodeBody(c, &req); err != nil || req.Refresh == "" {
			return c.JSON(http.StatusBadRequest, detail("invalid body"))
		}

		pair, err := tokens.Refresh(c.Request().Context(), req.Refresh)
		if err != nil {
			if errors.Is(err, token.ErrInvalidToken) {
				return c.JSON(http.StatusUnauthorized, detail(msgInvalidCredentials))
			}
			c.Logger().Error(err)
			return c.JSON(http.StatusInternalServerError, detail(msgInternalError))
		}
		return c.JSON(http.StatusOK, pair)
	}
}
