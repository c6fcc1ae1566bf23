package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/rs/xid"

	"github.com/nic96/minipress/internal/auth"
	"github.com/nic96/minipress/internal/service"
)

const (
	stateCookie    = "oauth_state"
	verifierCookie = "oauth_verifier"
	flowTTL        = 10 * time.Minute
)

// AuthHandler drives the GitHub login flow. The CSRF state and the PKCE
// verifier live in short-lived HttpOnly cookies between the redirect to
// GitHub and the callback.
type AuthHandler struct {
	provider *auth.GitHubProvider
	identity *auth.Identity
	auth     *service.AuthService
	logger   *slog.Logger
	secure   bool
}

func NewAuthHandler(provider *auth.GitHubProvider, identity *auth.Identity, authSvc *service.AuthService, logger *slog.Logger, secure bool) *AuthHandler {
	return &AuthHandler{
		provider: provider,
		identity: identity,
		auth:     authSvc,
		logger:   logger,
		secure:   secure,
	}
}

func (h *AuthHandler) flowCookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// HandleLogin starts the OAuth flow by redirecting to GitHub.
// GET /login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	state := xid.New().String()
	verifier := auth.GenerateVerifier()

	http.SetCookie(w, h.flowCookie(stateCookie, state, int(flowTTL.Seconds())))
	http.SetCookie(w, h.flowCookie(verifierCookie, verifier, int(flowTTL.Seconds())))

	http.Redirect(w, r, h.provider.AuthCodeURL(state, verifier), http.StatusTemporaryRedirect)
}

// HandleCallback completes the OAuth flow: it verifies the CSRF state,
// exchanges the code, fetches the GitHub profile, logs the user in locally,
// and sets the identity cookie.
//
// WHY BURN THE COOKIES FIRST?
// The state and verifier are single-use secrets. If we only cleared them on
// success, a failed callback would leave them valid in the browser, and an
// attacker who captured the authorization URL could replay the flow against
// that still-live state. Expiring them before any check runs means every
// callback, successful or not, consumes the flow — a second attempt has to
// start over at /login.
//
// GET /auth/callback (path configurable)
func (h *AuthHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.flowCookie(stateCookie, "", -1))
	http.SetCookie(w, h.flowCookie(verifierCookie, "", -1))

	stateC, stateErr := r.Cookie(stateCookie)
	verifierC, verifierErr := r.Cookie(verifierCookie)
	if stateErr != nil || verifierErr != nil ||
		stateC.Value == "" || r.URL.Query().Get("state") != stateC.Value {
		h.logger.Warn("OAuth callback with missing or mismatched state")
		http.Error(w, "invalid OAuth state", http.StatusBadRequest)
		return
	}

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.logger.Info("OAuth login denied by user", slog.String("error", errParam))
		http.Redirect(w, r, "/?auth=denied", http.StatusSeeOther)
		return
	}

	token, err := h.provider.Exchange(r.Context(), r.URL.Query().Get("code"), verifierC.Value)
	if err != nil {
		h.logger.Error("OAuth code exchange failed", slog.String("error", err.Error()))
		http.Error(w, "authentication failed", http.StatusInternalServerError)
		return
	}

	profile, err := h.provider.FetchProfile(r.Context(), token)
	if err != nil {
		h.logger.Error("fetching GitHub profile failed", slog.String("error", err.Error()))
		http.Error(w, "authentication failed", http.StatusInternalServerError)
		return
	}

	user, err := h.auth.LoginOrRegisterGitHub(r.Context(), profile, token.AccessToken)
	if err != nil {
		h.logger.Error("login failed",
			slog.String("login", profile.Login),
			slog.String("error", err.Error()))
		http.Error(w, "Failed to find or create user", http.StatusBadRequest)
		return
	}

	if err := h.identity.Remember(w, user); err != nil {
		h.logger.Error("writing identity cookie failed", slog.String("error", err.Error()))
		http.Error(w, "authentication failed", http.StatusInternalServerError)
		return
	}

	h.logger.Info("user logged in",
		slog.String("id", user.ID.String()),
		slog.String("username", user.Username))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleLogout clears the identity cookie.
// GET /logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.identity.Forget(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
