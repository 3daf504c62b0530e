package token

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const (
	typeAccess  = "access"
	typeRefresh = "refresh"
)

// ErrInvalidToken folds every rejection reason (bad signature, expiry, wrong
// token type, spent refresh token) into a single observable outcome.
var ErrInvalidToken = errors.New("token is invalid or expired")

// Pair is the credential pair handed to clients on signin and refresh.
type Pair struct {
	Refresh string `json:"refresh"`
	Access  string `json:"access"`
}

type claims struct {
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// RefreshStore records issued refresh tokens by their jti so each can be
// redeemed at most once.
type RefreshStore interface {
	// Save records the jti for the user with the given lifetime.
	Save(ctx context.Context, userID, jti string, ttl time.Duration) error
	// Consume removes the jti and reports whether it was present.
	Consume(ctx context.Context, userID, jti string) (bool, error)
}

// Service mints and validates the access/refresh token pair. Access tokens
// are stateless and self-verifying; refresh tokens are additionally tracked
// in the RefreshStore so rotation can invalidate them.
type Service struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	store      RefreshStore
	parser     *jwt.Parser
	now        func() time.Time
}

// NewService creates a token service signing with the given HS256 secret.
func NewService(secret []byte, accessTTL, refreshTTL time.Duration, store RefreshStore) *Service {
	if len(secret) == 0 {
		panic("token.NewService: empty secret")
	}
	if store == nil {
		panic("token.NewService: nil refresh store")
	}
	return &Service{
		secret:     secret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		store:      store,
		parser:     jwt.NewParser(jwt.WithValidMethods([]string{"HS256"})),
		now:        time.Now,
	}
}

// Issue mints a fresh token pair bound to the user and records the refresh
// token's jti in the store.
func (s *Service) Issue(ctx context.Context, userID string) (Pair, error) {
	access, err := s.sign(userID, typeAccess, s.accessTTL, uuid.NewString())
	if err != nil {
		return Pair{}, err
	}
	jti := uuid.NewString()
	refresh, err := s.sign(userID, typeRefresh, s.refreshTTL, jti)
	if err != nil {
		return Pair{}, err
	}
	if err := s.store.Save(ctx, userID, jti, s.refreshTTL); err != nil {
		return Pair{}, err
	}
	return Pair{Refresh: refresh, Access: access}, nil
}

// Validate checks an access token and returns the bound user id. No server
// side state is consulted.
func (s *Service) Validate(accessToken string) (string, error) {
	cl, err := s.parse(accessToken, typeAccess)
	if err != nil {
		return "", err
	}
	return cl.Subject, nil
}

// Refresh redeems a refresh token for a new pair. The presented token is
// consumed; redeeming it a second time fails.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (Pair, error) {
	cl, err := s.parse(refreshToken, typeRefresh)
	if err != nil {
		return Pair{}, err
	}
	ok, err := s.store.Consume(ctx, cl.Subject, cl.ID)
	if err != nil {
		return Pair{}, err
	}
	if !ok {
		return Pair{}, ErrInvalidToken
	}
	return s.Issue(ctx, cl.Subject)
}

func (s *Service) sign(userID, tokenType string, ttl time.Duration, jti string) (string, error) {
	now := s.now()
	cl := claims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, cl).SignedString(s.secret)
}

func (s *Service) parse(raw, wantType string) (*claims, error) {
	cl := &claims{}
	parsed, err := s.parser.ParseWithClaims(raw, cl, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if cl.TokenType != wantType {
		return nil, ErrInvalidToken
	}
	if cl.Subject == "" {
		return nil, ErrInvalidToken
	}
	return cl, nil
}
