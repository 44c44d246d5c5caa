package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"reviewdb/proj/internal/config"
	"reviewdb/proj/internal/domain/filters"
	"reviewdb/proj/internal/domain/models"
	"reviewdb/proj/internal/services"
	"reviewdb/proj/internal/services/auth"
	"reviewdb/proj/internal/services/users"
	"reviewdb/proj/internal/storage"
)

// stubUsersStorage is an in-memory substitute for the users table, shared by
// the auth and users services under test.
type stubUsersStorage struct {
	mu     sync.Mutex
	nextID int64
	users  map[string]*models.User
}

func newStubUsersStorage() *stubUsersStorage {
	return &stubUsersStorage{users: make(map[string]*models.User)}
}

func (s *stubUsersStorage) GetByID(_ context.Context, id int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *stubUsersStorage) GetByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[username]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, storage.ErrNotFound
}

func (s *stubUsersStorage) GetByUsernameAndEmail(_ context.Context, username, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[username]; ok && u.Email == email {
		copied := *u
		return &copied, nil
	}
	return nil, storage.ErrNotFound
}

func (s *stubUsersStorage) ExistsByUsernameOrEmail(_ context.Context, username, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubUsersStorage) Insert(_ context.Context, user *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == user.Username || u.Email == user.Email {
			return nil, storage.ErrConflict
		}
	}
	s.nextID++
	copied := *user
	copied.ID = s.nextID
	copied.CreatedAt = time.Now()
	s.users[copied.Username] = &copied
	result := copied
	return &result, nil
}

func (s *stubUsersStorage) SetConfirmationCode(_ context.Context, id int64, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			u.ConfirmationCode = code
			return nil
		}
	}
	return storage.ErrNotFound
}

func (s *stubUsersStorage) Update(_ context.Context, user *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, u := range s.users {
		if u.ID == user.ID {
			delete(s.users, key)
			copied := *user
			s.users[copied.Username] = &copied
			result := copied
			return &result, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *stubUsersStorage) Delete(_ context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[username]; !ok {
		return storage.ErrNotFound
	}
	delete(s.users, username)
	return nil
}

func (s *stubUsersStorage) List(_ context.Context, search string, f filters.Filters) ([]models.User, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.User
	for _, u := range s.users {
		if search == "" || strings.Contains(u.Username, search) {
			out = append(out, *u)
		}
	}
	return out, len(out), nil
}

type stubMailer struct {
	mu   sync.Mutex
	sent []string
}

func (m *stubMailer) Send(recipient string, tmplName string, tmplData any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, recipient)
	return nil
}

// syncExecutor runs tasks inline so a test observes mail side effects without
// waiting on a worker pool.
type syncExecutor struct{}

func (syncExecutor) Add(task func()) { task() }

type testEnv struct {
	app     *Application
	storage *stubUsersStorage
	mailer  *stubMailer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := &config.Config{
		AppSecret: "test-secret",
		TokenTTL:  time.Hour,
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	usersStorage := newStubUsersStorage()
	mailer := &stubMailer{}
	svc := &services.Services{
		Auth:  auth.New(log, usersStorage, mailer, syncExecutor{}, cfg.AppSecret, cfg.TokenTTL),
		Users: users.New(log, usersStorage),
	}
	return &testEnv{
		app:     NewApplication(cfg, log, svc),
		storage: usersStorage,
		mailer:  mailer,
	}
}

// registerUser seeds a user and returns a valid bearer token for it.
func (env *testEnv) registerUser(t *testing.T, username, email string, role models.Role) string {
	t.Helper()
	ctx := context.Background()
	user, err := env.app.services.Auth.Signup(ctx, username, email)
	require.NoError(t, err)
	if role != models.RoleUser {
		user.Role = role
		_, err = env.storage.Update(ctx, user)
		require.NoError(t, err)
	}
	token, err := env.app.services.Auth.Token(ctx, username, user.ConfirmationCode)
	require.NoError(t, err)
	return token
}

func (env *testEnv) do(t *testing.T, method, target, token string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.app.routes().ServeHTTP(rec, req)
	return rec
}

func newRequestRecorder(method, target string) (*http.Request, *httptest.ResponseRecorder) {
	return httptest.NewRequest(method, target, nil), httptest.NewRecorder()
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestHealthcheck(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/api/v1/healthcheck", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	require.True(t, resp.Success)
	require.Equal(t, "available", resp.Data["status"])
}
