package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestRoleSlugRoundTrip(t *testing.T) {
	roles := []Role{
		RoleSuperAdmin, RoleAdmin, RoleEditor, RoleAuthor,
		RoleContributor, RoleSubscriber, RoleGuest,
	}
	for _, r := range roles {
		if got := RoleFromSlug(r.Slug()); got != r {
			t.Errorf("RoleFromSlug(%q) = %v, want %v", r.Slug(), got, r)
		}
	}
}

func TestRoleFromSlug_Unknown(t *testing.T) {
	if got := RoleFromSlug("warlord"); got != RoleGuest {
		t.Errorf("RoleFromSlug(unknown) = %v, want RoleGuest", got)
	}
}

func TestRoleJSON(t *testing.T) {
	data, err := json.Marshal(RoleEditor)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `"editor"` {
		t.Errorf("Marshal(RoleEditor) = %s, want \"editor\"", data)
	}

	var r Role
	if err := json.Unmarshal([]byte(`"super-admin"`), &r); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if r != RoleSuperAdmin {
		t.Errorf("Unmarshal(\"super-admin\") = %v, want RoleSuperAdmin", r)
	}
}

func TestRoleJSONUnknownSlug(t *testing.T) {
	var r Role
	if err := json.Unmarshal([]byte(`"warlord"`), &r); err == nil {
		t.Error("Unmarshal should reject an unknown role slug")
	}
	if err := json.Unmarshal([]byte(`7`), &r); err == nil {
		t.Error("Unmarshal should reject a numeric role")
	}
}

func TestRoleCanPublish(t *testing.T) {
	tests := []struct {
		role Role
		want bool
	}{
		{RoleSuperAdmin, true},
		{RoleAdmin, true},
		{RoleEditor, true},
		{RoleAuthor, true},
		{RoleContributor, false},
		{RoleSubscriber, false},
		{RoleGuest, false},
		{Role(0), false},
	}
	for _, tt := range tests {
		if got := tt.role.CanPublish(); got != tt.want {
			t.Errorf("%v.CanPublish() = %v, want %v", tt.role, got, tt.want)
		}
	}
}

func TestRoleAtLeast(t *testing.T) {
	if !RoleAdmin.AtLeast(RoleEditor) {
		t.Error("RoleAdmin should satisfy AtLeast(RoleEditor)")
	}
	if RoleAuthor.AtLeast(RoleEditor) {
		t.Error("RoleAuthor should not satisfy AtLeast(RoleEditor)")
	}
	if Role(0).AtLeast(RoleEditor) {
		t.Error("invalid role should never satisfy AtLeast")
	}
}

func TestUserJSONHidesSecrets(t *testing.T) {
	hash := "$2a$12$notarealhash"
	token := "gho_secret"
	u := User{Username: "alice", Password: &hash, GitHubToken: &token, Role: RoleSubscriber}

	data, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	body := string(data)
	if strings.Contains(body, hash) || strings.Contains(body, token) {
		t.Errorf("serialized user leaks credentials: %s", body)
	}
	if !strings.Contains(body, `"role":"subscriber"`) {
		t.Errorf("serialized user missing role slug: %s", body)
	}
}
