package auth

import "testing"

func TestRole_Is(t *testing.T) {
	if !Role("Admin").Is(RoleAdmin) {
		t.Fatalf("expected case-insensitive match")
	}
	if Role("teacher").Is(RoleAdmin) {
		t.Fatalf("did not expect match")
	}
}

func TestIdentity_HasRole(t *testing.T) {
	id := Identity{ID: "u1", Role: Role("Teacher")}
	if !id.HasRole(nil) {
		t.Fatalf("empty allowed set must match any identity")
	}
	if id.HasRole([]Role{RoleAdmin}) {
		t.Fatalf("teacher must not match admin")
	}
	if !id.HasRole([]Role{Role("TEACHER"), RoleAdmin}) {
		t.Fatalf("expected case-insensitive role match")
	}
}

func TestIdentity_Valid(t *testing.T) {
	if (Identity{}).Valid() {
		t.Fatalf("empty identity must be invalid")
	}
	if !(Identity{ID: "1"}).Valid() {
		t.Fatalf("identity with ID must be valid")
	}
	if !(Identity{Role: RoleParent}).Valid() {
		t.Fatalf("identity with role must be valid")
	}
}

func TestLandingPath(t *testing.T) {
	cases := map[Role]string{
		RoleStudent:       "/student/dashboard",
		Role("Teacher"):   "/teacher/dashboard",
		Role("ADMIN"):     "/admin/dashboard",
		RolePrincipal:     "/principal/dashboard",
		RoleSuperAdmin:    "/superadmin/dashboard",
		RoleParent:        "/parent/dashboard",
		Role("librarian"): DefaultLandingPath,
		Role(""):          DefaultLandingPath,
	}
	for role, want := range cases {
		if got := LandingPath(role); got != want {
			t.Fatalf("LandingPath(%q) = %q, want %q", role, got, want)
		}
	}
}
