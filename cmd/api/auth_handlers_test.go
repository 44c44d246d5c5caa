package main

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSignup(t *testing.T) {
	t.Run("creates user and sends confirmation code", func(t *testing.T) {
		env := newTestEnv(t)
		rec := env.do(t, http.MethodPost, "/api/v1/auth/signup", "",
			`{"username": "alice", "email": "alice@example.com"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeResponse(t, rec)
		require.Equal(t, "alice", resp.Data["username"])
		require.Len(t, env.mailer.sent, 1)
	})

	t.Run("repeating the exact pair is idempotent", func(t *testing.T) {
		env := newTestEnv(t)
		body := `{"username": "alice", "email": "alice@example.com"}`
		rec := env.do(t, http.MethodPost, "/api/v1/auth/signup", "", body)
		require.Equal(t, http.StatusOK, rec.Code)
		first := decodeResponse(t, rec)
		rec = env.do(t, http.MethodPost, "/api/v1/auth/signup", "", body)
		require.Equal(t, http.StatusOK, rec.Code)
		second := decodeResponse(t, rec)
		require.Equal(t, first, second, "both calls must return an identical body")
		require.Len(t, env.mailer.sent, 1, "repeated signup must not resend the code")
	})

	t.Run("taking only the username of an existing user fails", func(t *testing.T) {
		env := newTestEnv(t)
		rec := env.do(t, http.MethodPost, "/api/v1/auth/signup", "",
			`{"username": "alice", "email": "alice@example.com"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		rec = env.do(t, http.MethodPost, "/api/v1/auth/signup", "",
			`{"username": "alice", "email": "other@example.com"}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("reserved username is rejected", func(t *testing.T) {
		env := newTestEnv(t)
		for _, username := range []string{"me", "Me", "ME"} {
			rec := env.do(t, http.MethodPost, "/api/v1/auth/signup", "",
				`{"username": "`+username+`", "email": "me@example.com"}`)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			resp := decodeResponse(t, rec)
			errs := resp.Data["errors"].(map[string]any)
			require.Contains(t, errs, "username")
		}
	})

	t.Run("invalid email is rejected", func(t *testing.T) {
		env := newTestEnv(t)
		rec := env.do(t, http.MethodPost, "/api/v1/auth/signup", "",
			`{"username": "alice", "email": "not-an-email"}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestToken(t *testing.T) {
	t.Run("exchanges a valid code for a token", func(t *testing.T) {
		env := newTestEnv(t)
		rec := env.do(t, http.MethodPost, "/api/v1/auth/signup", "",
			`{"username": "alice", "email": "alice@example.com"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		user, err := env.storage.GetByUsername(context.Background(), "alice")
		require.NoError(t, err)

		rec = env.do(t, http.MethodPost, "/api/v1/auth/token", "",
			`{"username": "alice", "confirmation_code": "`+user.ConfirmationCode+`"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeResponse(t, rec)
		require.NotEmpty(t, resp.Data["token"])

		// The code stays valid, a second exchange works too.
		rec = env.do(t, http.MethodPost, "/api/v1/auth/token", "",
			`{"username": "alice", "confirmation_code": "`+user.ConfirmationCode+`"}`)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unknown username gets 404", func(t *testing.T) {
		env := newTestEnv(t)
		rec := env.do(t, http.MethodPost, "/api/v1/auth/token", "",
			`{"username": "ghost", "confirmation_code": "whatever"}`)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("wrong code gets 400", func(t *testing.T) {
		env := newTestEnv(t)
		rec := env.do(t, http.MethodPost, "/api/v1/auth/signup", "",
			`{"username": "alice", "email": "alice@example.com"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		rec = env.do(t, http.MethodPost, "/api/v1/auth/token", "",
			`{"username": "alice", "confirmation_code": "wrong"}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
