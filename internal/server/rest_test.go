package server

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func operatorToken(t *testing.T, scope []string) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub":   "test-operator",
		"exp":   time.Now().Add(time.Hour).Unix(),
		"iat":   time.Now().Unix(),
		"aud":   "streamrelay",
		"scope": scope,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	return tokenString
}

func doRequest(t *testing.T, method, url, token string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, url, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	return resp
}

func TestRESTServer_Sessions(t *testing.T) {
	ff := &fakeFactory{}
	tr := newTestRelay(t, ff)

	tr.registry.Acquire("alice")

	t.Run("missing token", func(t *testing.T) {
		resp := doRequest(t, "GET", tr.server.URL+"/sessions", "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("invalid token", func(t *testing.T) {
		resp := doRequest(t, "GET", tr.server.URL+"/sessions", "wrong-key")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("list with api key", func(t *testing.T) {
		resp := doRequest(t, "GET", tr.server.URL+"/sessions", "test-api-key")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var response sessionsResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&response))
		require.Len(t, response.Sessions, 1)
		assert.Equal(t, "alice", response.Sessions[0].Streamer)
	})

	t.Run("list with read-scoped jwt", func(t *testing.T) {
		resp := doRequest(t, "GET", tr.server.URL+"/sessions", operatorToken(t, []string{"read"}))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("evict requires manage scope", func(t *testing.T) {
		resp := doRequest(t, "DELETE", tr.server.URL+"/sessions/alice", operatorToken(t, []string{"read"}))
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("evict with api key", func(t *testing.T) {
		resp := doRequest(t, "DELETE", tr.server.URL+"/sessions/alice", "test-api-key")
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		assert.True(t, ff.byUsername("alice").isDisconnected())
	})

	t.Run("evicting an absent session is 404", func(t *testing.T) {
		resp := doRequest(t, "DELETE", tr.server.URL+"/sessions/alice", "test-api-key")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
