package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/nic96/minipress/internal/model"
)

// identityCookie is the name of the signed cookie holding the logged-in user.
const identityCookie = "auth"

const identityTTL = 24 * time.Hour

// Identity serializes the authenticated user into a signed, tamper-evident
// cookie and reads it back. It never touches storage: the cookie carries a
// full snapshot of the user taken at login time, so profile or role changes
// only take effect at the next login.
//
// TRUST ANCHOR:
// Every downstream authorization decision — the publish role gate, the
// ownership checks on post update/delete — trusts the role inside this
// cookie without re-reading the database. The HMAC signature is therefore
// the entire security boundary: anyone holding the signing key can mint a
// cookie for any user with any role. That is why NewIdentity refuses short
// secrets and why the parser pins the algorithm to HS256 — accepting the
// token's self-declared algorithm would let a forged "none" or RSA-signed
// token through.
type Identity struct {
	secret []byte
	domain string
	secure bool
}

// NewIdentity creates the identity codec. secure controls the cookie's
// Secure flag and should be true whenever the server terminates TLS.
func NewIdentity(secret, domain string, secure bool) (*Identity, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: signing secret must be at least 16 characters")
	}
	return &Identity{secret: []byte(secret), domain: domain, secure: secure}, nil
}

// identitySnapshot is the cookie-internal shape of a user. Unlike the JSON
// API form it includes the password hash and the OAuth token; the cookie is
// HttpOnly and signed, and is never handed to API consumers.
type identitySnapshot struct {
	ID          uuid.UUID  `json:"id"`
	Username    string     `json:"username"`
	Email       *string    `json:"email,omitempty"`
	Password    *string    `json:"password,omitempty"`
	Name        *string    `json:"name,omitempty"`
	AvatarURL   *string    `json:"avatar_url,omitempty"`
	GravatarID  *string    `json:"gravatar_id,omitempty"`
	GitHubID    *int64     `json:"github_id,omitempty"`
	GitHubToken *string    `json:"github_token,omitempty"`
	Role        model.Role `json:"role"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type identityClaims struct {
	jwt.RegisteredClaims
	User identitySnapshot `json:"user"`
}

func snapshotUser(u *model.User) identitySnapshot {
	return identitySnapshot{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		Password:    u.Password,
		Name:        u.Name,
		AvatarURL:   u.AvatarURL,
		GravatarID:  u.GravatarID,
		GitHubID:    u.GitHubID,
		GitHubToken: u.GitHubToken,
		Role:        u.Role,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func (s identitySnapshot) user() *model.User {
	return &model.User{
		ID:          s.ID,
		Username:    s.Username,
		Email:       s.Email,
		Password:    s.Password,
		Name:        s.Name,
		AvatarURL:   s.AvatarURL,
		GravatarID:  s.GravatarID,
		GitHubID:    s.GitHubID,
		GitHubToken: s.GitHubToken,
		Role:        s.Role,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// Remember writes the identity cookie for the given user.
func (i *Identity) Remember(w http.ResponseWriter, user *model.User) error {
	now := time.Now()
	claims := identityClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(identityTTL)),
			Issuer:    "minipress",
		},
		User: snapshotUser(user),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return errors.Join(errors.New("auth: signing identity"), err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     identityCookie,
		Value:    signed,
		Path:     "/",
		Domain:   i.domain,
		MaxAge:   int(identityTTL.Seconds()),
		HttpOnly: true,
		Secure:   i.secure,
		SameSite: http.SameSiteLaxMode,
	})

	return nil
}

// Current returns the user carried by the request's identity cookie, or nil
// when the cookie is absent, expired, tampered with, or malformed.
func (i *Identity) Current(r *http.Request) *model.User {
	cookie, err := r.Cookie(identityCookie)
	if err != nil || cookie.Value == "" {
		return nil
	}

	var claims identityClaims
	token, err := jwt.ParseWithClaims(cookie.Value, &claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("auth: unexpected signing method")
			}
			return i.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer("minipress"),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil
	}
	if claims.User.ID == uuid.Nil || claims.User.Username == "" {
		return nil
	}

	return claims.User.user()
}

// Forget clears the identity cookie.
func (i *Identity) Forget(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     identityCookie,
		Value:    "",
		Path:     "/",
		Domain:   i.domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   i.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
