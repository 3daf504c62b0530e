package api

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"workboard-api/domain"
	"workboard-api/token"
)

// mockIdentityStore keeps accounts in memory with the same observable
// behavior as the Postgres store.
type mockIdentityStore struct {
	mu     sync.Mutex
	byName map[string]domain.User
	byID   map[string]domain.User
}

func newMockIdentityStore() *mockIdentityStore {
	return &mockIdentityStore{
		byName: make(map[string]domain.User),
		byID:   make(map[string]domain.User),
	}
}

func (m *mockIdentityStore) CreateUser(_ context.Context, username, passwordHash string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byName[username]; ok {
		return domain.User{}, domain.ErrDuplicateUsername
	}
	u := domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	m.byName[username] = u
	m.byID[u.ID] = u
	return u, nil
}

func (m *mockIdentityStore) UserByUsername(_ context.Context, username string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byName[username]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func (m *mockIdentityStore) UserByID(_ context.Context, id string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func (m *mockIdentityStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}

// mockBoardStore mirrors the owner scoping of the Postgres repository:
// lookups by a non-owner miss exactly like lookups of absent ids, and only
// TaskByID/UpdateTask resolve without an owner.
type mockBoardStore struct {
	mu        sync.Mutex
	users     *mockIdentityStore
	boards    map[string]*domain.WorkBoard
	boardIDs  []string
	taskBoard map[string]string
}

func newMockBoardStore(users *mockIdentityStore) *mockBoardStore {
	return &mockBoardStore{
		users:     users,
		boards:    make(map[string]*domain.WorkBoard),
		taskBoard: make(map[string]string),
	}
}

func (m *mockBoardStore) username(id string) string {
	u, err := m.users.UserByID(context.Background(), id)
	if err != nil {
		return ""
	}
	return u.Username
}

func (m *mockBoardStore) BoardsByOwner(_ context.Context, ownerID string) ([]domain.WorkBoard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.WorkBoard{}
	for _, id := range m.boardIDs {
		if b := m.boards[id]; b.OwnerID == ownerID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *mockBoardStore) CreateBoard(_ context.Context, ownerID, name, description string) (domain.WorkBoard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	b := &domain.WorkBoard{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		OwnerID:     ownerID,
		Tasks:       []domain.Task{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m.boards[b.ID] = b
	m.boardIDs = append(m.boardIDs, b.ID)
	return *b, nil
}

func (m *mockBoardStore) BoardByID(_ context.Context, ownerID, boardID string) (domain.WorkBoard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.boards[boardID]
	if !ok || b.OwnerID != ownerID {
		return domain.WorkBoard{}, domain.ErrNotFound
	}
	return *b, nil
}

func (m *mockBoardStore) UpdateBoard(_ context.Context, ownerID, boardID string, name, description *string) (domain.WorkBoard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.boards[boardID]
	if !ok || b.OwnerID != ownerID {
		return domain.WorkBoard{}, domain.ErrNotFound
	}
	if name != nil {
		b.Name = *name
	}
	if description != nil {
		b.Description = *description
	}
	b.UpdatedAt = time.Now()
	return *b, nil
}

func (m *mockBoardStore) DeleteBoard(_ context.Context, ownerID, boardID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.boards[boardID]
	if !ok || b.OwnerID != ownerID {
		return domain.ErrNotFound
	}
	delete(m.boards, boardID)
	for i, id := range m.boardIDs {
		if id == boardID {
			m.boardIDs = append(m.boardIDs[:i], m.boardIDs[i+1:]...)
			break
		}
	}
	return nil
}

func (m *mockBoardStore) CreateTask(_ context.Context, boardID string, f domain.TaskFields) (domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.boards[boardID]
	if !ok {
		return domain.Task{}, domain.ErrNotFound
	}
	t := domain.Task{
		ID:          uuid.NewString(),
		Title:       f.Title,
		Description: f.Description,
		Status:      f.Status,
		AssignedTo:  f.AssignedTo,
		Assignee:    m.username(f.AssignedTo),
		BoardID:     boardID,
	}
	b.Tasks = append(b.Tasks, t)
	m.taskBoard[t.ID] = boardID
	return t, nil
}

func (m *mockBoardStore) TaskByID(_ context.Context, taskID string) (domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.taskLocked(taskID)
}

func (m *mockBoardStore) UpdateTask(_ context.Context, taskID string, p domain.TaskPatch) (domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, err := m.taskLocked(taskID)
	if err != nil {
		return domain.Task{}, err
	}
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.AssignedTo != nil {
		t.AssignedTo = *p.AssignedTo
		t.Assignee = m.username(*p.AssignedTo)
	}
	b := m.boards[m.taskBoard[taskID]]
	for i := range b.Tasks {
		if b.Tasks[i].ID == taskID {
			b.Tasks[i] = t
			break
		}
	}
	return t, nil
}

func (m *mockBoardStore) taskLocked(taskID string) (domain.Task, error) {
	boardID, ok := m.taskBoard[taskID]
	if !ok {
		return domain.Task{}, domain.ErrNotFound
	}
	for _, t := range m.boards[boardID].Tasks {
		if t.ID == taskID {
			return t, nil
		}
	}
	return domain.Task{}, domain.ErrNotFound
}

func (m *mockBoardStore) taskCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.taskBoard)
}

// stubTokens satisfies TokenIssuer with canned results.
type stubTokens struct {
	pair       token.Pair
	refreshErr error
	issuedFor  []string
}

func (s *stubTokens) Issue(_ context.Context, userID string) (token.Pair, error) {
	s.issuedFor = append(s.issuedFor, userID)
	return s.pair, nil
}

func (s *stubTokens) Refresh(_ context.Context, _ string) (token.Pair, error) {
	if s.refreshErr != nil {
		return token.Pair{}, s.refreshErr
	}
	return s.pair, nil
}

// stubAuth resolves every request to a fixed user.
type stubAuth struct {
	userID string
	err    error
}

func (s stubAuth) UserIDFromAuthHeader(string) (string, error) {
	return s.userID, s.err
}

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(context.Context) error { return s.err }
