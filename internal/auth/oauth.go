// Package auth provides the GitHub OAuth2 flow, the signed identity cookie,
// the identity middleware, and password hashing.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
)

// GitHubProfile is the portion of the GitHub /user API response we keep.
// GitHub returns a much larger object; we only unmarshal what maps onto a
// local account.
type GitHubProfile struct {
	ID         int64   `json:"id"`    // GitHub's numeric user ID, stable forever
	Login      string  `json:"login"` // GitHub username
	Name       *string `json:"name"`
	Email      *string `json:"email"` // nil when hidden in GitHub settings
	AvatarURL  *string `json:"avatar_url"`
	GravatarID string  `json:"gravatar_id"`
}

// GitHubProvider wraps golang.org/x/oauth2 for the authorization-code flow
// with PKCE. All endpoint URLs come from configuration so tests can point the
// provider at a local stub.
type GitHubProvider struct {
	config     *oauth2.Config
	apiBaseURL string
}

// NewGitHubProvider builds a provider from the configured endpoints.
// redirectURL must match the callback URL registered with GitHub exactly.
func NewGitHubProvider(clientID, clientSecret, authURL, tokenURL, apiBaseURL, redirectURL string) *GitHubProvider {
	return &GitHubProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"read:user", "user:email"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  authURL,
				TokenURL: tokenURL,
			},
		},
		apiBaseURL: apiBaseURL,
	}
}

// GenerateVerifier returns a fresh PKCE code verifier.
func GenerateVerifier() string {
	return oauth2.GenerateVerifier()
}

// AuthCodeURL returns the provider authorization URL carrying the CSRF state
// and the S256 challenge for the given PKCE verifier.
func (p *GitHubProvider) AuthCodeURL(state, verifier string) string {
	return p.config.AuthCodeURL(state,
		oauth2.AccessTypeOnline,
		oauth2.S256ChallengeOption(verifier),
	)
}

// Exchange trades the authorization code for an access token, proving
// possession of the PKCE verifier generated at login time.
func (p *GitHubProvider) Exchange(ctx context.Context, code, verifier string) (*oauth2.Token, error) {
	token, err := p.config.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("auth: exchanging OAuth code: %w", err)
	}
	return token, nil
}

// FetchProfile calls the provider's /user endpoint with the access token.
func (p *GitHubProvider) FetchProfile(ctx context.Context, token *oauth2.Token) (*GitHubProfile, error) {
	client := p.config.Client(ctx, token)

	resp, err := client.Get(p.apiBaseURL + "/user")
	if err != nil {
		return nil, fmt.Errorf("auth: calling %s/user: %w", p.apiBaseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("auth: %s/user returned status %d", p.apiBaseURL, resp.StatusCode)
	}

	var profile GitHubProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("auth: decoding user profile: %w", err)
	}
	if profile.ID == 0 {
		return nil, fmt.Errorf("auth: provider returned an invalid profile (id = 0)")
	}

	return &profile, nil
}
