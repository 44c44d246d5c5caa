package main

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"reviewdb/proj/internal/domain/models"
)

func TestCurrentUser(t *testing.T) {
	t.Run("profile update keeps the stored role", func(t *testing.T) {
		env := newTestEnv(t)
		token := env.registerUser(t, "alice", "alice@example.com", models.RoleUser)
		rec := env.do(t, http.MethodPatch, "/api/v1/users/me", token,
			`{"bio": "reader of everything", "role": "admin"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeResponse(t, rec)
		user := resp.Data["user"].(map[string]any)
		require.Equal(t, "reader of everything", user["bio"])
		require.Equal(t, "user", user["role"], "self-service update must not escalate the role")
	})

	t.Run("invalid role value still fails validation", func(t *testing.T) {
		env := newTestEnv(t)
		token := env.registerUser(t, "alice", "alice@example.com", models.RoleUser)
		rec := env.do(t, http.MethodPatch, "/api/v1/users/me", token, `{"role": "owner"}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAdminUserManagement(t *testing.T) {
	env := newTestEnv(t)
	adminToken := env.registerUser(t, "boss", "boss@example.com", models.RoleAdmin)

	t.Run("create with explicit role", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/users/", adminToken,
			`{"username": "mod", "email": "mod@example.com", "role": "moderator"}`)
		require.Equal(t, http.StatusCreated, rec.Code)
		resp := decodeResponse(t, rec)
		user := resp.Data["user"].(map[string]any)
		require.Equal(t, "moderator", user["role"])
	})

	t.Run("duplicate username is rejected", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/users/", adminToken,
			`{"username": "mod", "email": "second@example.com"}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("admin can change a role", func(t *testing.T) {
		rec := env.do(t, http.MethodPatch, "/api/v1/users/mod", adminToken, `{"role": "user"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeResponse(t, rec)
		user := resp.Data["user"].(map[string]any)
		require.Equal(t, "user", user["role"])
	})

	t.Run("get and delete by username", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/users/mod", adminToken, "")
		require.Equal(t, http.StatusOK, rec.Code)
		rec = env.do(t, http.MethodDelete, "/api/v1/users/mod", adminToken, "")
		require.Equal(t, http.StatusNoContent, rec.Code)
		rec = env.do(t, http.MethodGet, "/api/v1/users/mod", adminToken, "")
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}
