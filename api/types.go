package api

import (
	"context"

	"workboard-api/domain"
	"workboard-api/token"
)

// IdentityStore persists user accounts.
type IdentityStore interface {
	CreateUser(ctx context.Context, username, passwordHash string) (domain.User, error)
	UserByUsername(ctx context.Context, username string) (domain.User, error)
	UserByID(ctx context.Context, id string) (domain.User, error)
}

// BoardStore is the owner-scoped board repository. Every board read and write
// takes the caller explicitly, so an unscoped "get board by id" does not
// exist. TaskByID and UpdateTask are the single unscoped pair backing the
// update_task action; see the handler for why that stays.
type BoardStore interface {
	BoardsByOwner(ctx context.Context, ownerID string) ([]domain.WorkBoard, error)
	CreateBoard(ctx context.Context, ownerID, name, description string) (domain.WorkBoard, error)
	BoardByID(ctx context.Context, ownerID, boardID string) (domain.WorkBoard, error)
	UpdateBoard(ctx context.Context, ownerID, boardID string, name, description *string) (domain.WorkBoard, error)
	DeleteBoard(ctx context.Context, ownerID, boardID string) error
	CreateTask(ctx context.Context, boardID string, f domain.TaskFields) (domain.Task, error)
	TaskByID(ctx context.Context, taskID string) (domain.Task, error)
	UpdateTask(ctx context.Context, taskID string, p domain.TaskPatch) (domain.Task, error)
}

// TokenIssuer mints and redeems token pairs.
type TokenIssuer interface {
	Issue(ctx context.Context, userID string) (token.Pair, error)
	Refresh(ctx context.Context, refreshToken string) (token.Pair, error)
}

// Authenticator is implemented by types able to extract user IDs from headers.
type Authenticator interface {
	UserIDFromAuthHeader(string) (string, error)
}

// Pinger reports backend health.
type Pinger interface {
	Ping(ctx context.Context) error
}
