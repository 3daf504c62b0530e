package api

import (
	"errors"
	"strings"
)

var (
	errMissingAuthorization = errors.New("missing authorization header")
	errBadAuthorization     = errors.New("bad auth header")
)

// AccessValidator checks an access token and returns the bound user id.
type AccessValidator interface {
	Validate(accessToken string) (string, error)
}

// Auth resolves the caller identity from incoming Authorization headers.
type Auth struct {
	tokens AccessValidator
}

// NewAuth creates an Auth backed by the given token validator.
func NewAuth(tokens AccessValidator) *Auth {
	return &Auth{tokens: tokens}
}

// UserIDFromAuthHeader extracts and validates the bearer token, returning the
// authenticated user id.
func (a *Auth) UserIDFromAuthHeader(h string) (string, error) {
	tok, err := bearerToken(h)
	if err != nil {
		return "", err
	}
	return a.tokens.Validate(tok)
}

const bearerPrefix = "Bearer "

// bearerToken pulls the raw JWT out of an Authorization header value. The
// compact JWT shape (two periods) is checked here so obviously malformed
// tokens never reach the parser.
func bearerToken(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", errMissingAuthorization
	}
	if len(trimmed) <= len(bearerPrefix) || !strings.EqualFold(trimmed[:len(bearerPrefix)], bearerPrefix) {
		return "", errBadAuthorization
	}
	tok := trimmed[len(bearerPrefix):]
	if strings.Count(tok, ".") != 2 {
		return "", errBadAuthorization
	}
	return tok, nil
}
