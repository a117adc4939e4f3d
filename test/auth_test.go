package test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestAuthFlow() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	token, userID := s.signupAndLogin(ctx, t, "authflow")

	t.Run("me", func(t *testing.T) {
		resp := s.doRequest(ctx, t, "GET", "/v1/auth/me/", token, nil)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		respBytes, err := io.ReadAll(resp.Body)
		require.NoError(t, err)

		var me struct {
			ID       int    `json:"id"`
			Username string `json:"username"`
		}
		require.NoError(t, json.Unmarshal(respBytes, &me))
		assert.Equal(t, userID, me.ID)
		assert.Equal(t, "authflow", me.Username)
	})

	t.Run("login with fresh credentials", func(t *testing.T) {
		resp := s.doRequest(ctx, t, "POST", "/v1/auth/login/", "", map[string]string{
			"username": "authflow",
			"password": "s3cret-pass",
		})
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		respBytes, err := io.ReadAll(resp.Body)
		require.NoError(t, err)

		var auth authResponse
		require.NoError(t, json.Unmarshal(respBytes, &auth))
		assert.NotEmpty(t, auth.Token)
		assert.NotEqual(t, token, auth.Token)
	})

	t.Run("bad password", func(t *testing.T) {
		resp := s.doRequest(ctx, t, "POST", "/v1/auth/login/", "", map[string]string{
			"username": "authflow",
			"password": "wrong-pass",
		})
		defer resp.Body.Close()
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		respBytes, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, "invalid credentials", strings.TrimSpace(string(respBytes)))
	})

	t.Run("duplicate signup rejected", func(t *testing.T) {
		resp := s.doRequest(ctx, t, "POST", "/v1/auth/signup/", "", map[string]string{
			"username":        "authflow",
			"email":           "authflow@example.com",
			"password":        "s3cret-pass",
			"repeat_password": "s3cret-pass",
		})
		defer resp.Body.Close()
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("logout kills the session", func(t *testing.T) {
		resp := s.doRequest(ctx, t, "POST", "/v1/auth/logout/", token, nil)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		meResp := s.doRequest(ctx, t, "GET", "/v1/auth/me/", token, nil)
		defer meResp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, meResp.StatusCode)
	})

	t.Run("rate limiting", func(t *testing.T) {
		// simulate a login brute force attack; config allows 10 per minute
		require.NoError(t, s.redisDataCleanup(ctx))

		for i := 1; i <= 15; i++ {
			resp := s.doRequest(ctx, t, "POST", "/v1/auth/login/", "", map[string]string{
				"username": "nosuchuser",
				"password": "nosuchpass",
			})

			if i <= 10 {
				require.Equal(t, http.StatusUnauthorized, resp.StatusCode, "iteration: %d", i)
			} else {
				require.Equal(t, http.StatusTooManyRequests, resp.StatusCode, "iteration: %d", i)
			}

			assert.NoError(t, resp.Body.Close())
		}

		require.NoError(t, s.redisDataCleanup(ctx))
	})
}
