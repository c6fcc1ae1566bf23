package model

import (
	"encoding/json"
	"fmt"
)

// Role is the closed set of user privilege levels. Lower ordinals carry more
// privilege. The ordinal values are what get stored in the role column, so
// they must never be reordered.
type Role int16

const (
	// RoleSuperAdmin has access to everything.
	RoleSuperAdmin Role = 1
	RoleAdmin      Role = 2
	// RoleEditor can publish and edit posts, including the posts of other users.
	RoleEditor Role = 3
	// RoleAuthor can publish and edit their own posts.
	RoleAuthor Role = 4
	// RoleContributor can write and edit their own posts but cannot publish them.
	RoleContributor Role = 5
	// RoleSubscriber can only manage their profile and comment.
	RoleSubscriber Role = 6
	// RoleGuest represents someone without an account. Never persisted.
	RoleGuest Role = 7
)

var roleSlugs = map[Role]string{
	RoleSuperAdmin:  "super-admin",
	RoleAdmin:       "admin",
	RoleEditor:      "editor",
	RoleAuthor:      "author",
	RoleContributor: "contributor",
	RoleSubscriber:  "subscriber",
	RoleGuest:       "guest",
}

// Slug returns the stable string form used in JSON payloads.
func (r Role) Slug() string {
	if s, ok := roleSlugs[r]; ok {
		return s
	}
	return "guest"
}

// RoleFromSlug maps a slug back to its Role. Unknown slugs map to RoleGuest.
func RoleFromSlug(slug string) Role {
	for r, s := range roleSlugs {
		if s == slug {
			return r
		}
	}
	return RoleGuest
}

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	_, ok := roleSlugs[r]
	return ok
}

// AtLeast reports whether r carries at least the privilege of min.
func (r Role) AtLeast(min Role) bool {
	return r.Valid() && r <= min
}

// CanPublish reports whether the role may create posts.
func (r Role) CanPublish() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleEditor, RoleAuthor:
		return true
	default:
		return false
	}
}

// String makes roles render as their slug in logs and templates.
func (r Role) String() string {
	return r.Slug()
}

func (r Role) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Slug())
}

// UnmarshalJSON rejects unknown slugs rather than coercing them. Coercion
// would turn a typoed role in a request into a silently persisted Guest.
func (r *Role) UnmarshalJSON(data []byte) error {
	var slug string
	if err := json.Unmarshal(data, &slug); err != nil {
		return fmt.Errorf("model: role must be a string: %w", err)
	}
	for role, s := range roleSlugs {
		if s == slug {
			*r = role
			return nil
		}
	}
	return fmt.Errorf("model: unknown role %q", slug)
}
