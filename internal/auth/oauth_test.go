package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

// newStubProvider runs a minimal OAuth server exposing /token and /user.
func newStubProvider(t *testing.T) (*GitHubProvider, *httptest.Server) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.FormValue("code") != "good-code" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "stub-access-token",
			"token_type":   "bearer",
		})
	})
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer stub-access-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":          12345,
			"login":       "octocat",
			"name":        "The Octocat",
			"email":       nil,
			"avatar_url":  "https://example.com/octocat.png",
			"gravatar_id": "",
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	provider := NewGitHubProvider(
		"client-id", "client-secret",
		srv.URL+"/authorize", srv.URL+"/token", srv.URL,
		"http://localhost:8080/auth/callback",
	)
	return provider, srv
}

func TestAuthCodeURLCarriesStateAndChallenge(t *testing.T) {
	provider, srv := newStubProvider(t)

	verifier := oauth2.GenerateVerifier()
	raw := provider.AuthCodeURL("my-state", verifier)

	parsed, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Contains(t, raw, srv.URL)
	q := parsed.Query()
	assert.Equal(t, "my-state", q.Get("state"))
	assert.Equal(t, "client-id", q.Get("client_id"))
	assert.Equal(t, "S256", q.Get("code_challenge_method"))
	assert.NotEmpty(t, q.Get("code_challenge"))
	assert.Equal(t, "http://localhost:8080/auth/callback", q.Get("redirect_uri"))
}

func TestExchangeAndFetchProfile(t *testing.T) {
	provider, _ := newStubProvider(t)
	verifier := oauth2.GenerateVerifier()

	token, err := provider.Exchange(context.Background(), "good-code", verifier)
	require.NoError(t, err)
	assert.Equal(t, "stub-access-token", token.AccessToken)

	profile, err := provider.FetchProfile(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, int64(12345), profile.ID)
	assert.Equal(t, "octocat", profile.Login)
	require.NotNil(t, profile.Name)
	assert.Equal(t, "The Octocat", *profile.Name)
	assert.Nil(t, profile.Email)
}

func TestExchangeBadCode(t *testing.T) {
	provider, _ := newStubProvider(t)

	_, err := provider.Exchange(context.Background(), "bad-code", oauth2.GenerateVerifier())
	assert.Error(t, err)
}

func TestFetchProfileBadToken(t *testing.T) {
	provider, _ := newStubProvider(t)

	_, err := provider.FetchProfile(context.Background(), &oauth2.Token{AccessToken: "wrong"})
	assert.Error(t, err)
}
