package auth

import "strings"

// Is compares two roles case-insensitively.
func (r Role) Is(other Role) bool {
	return strings.EqualFold(string(r), string(other))
}

// Normalize returns the canonical lowercase form of the role.
func (r Role) Normalize() Role {
	return Role(strings.ToLower(strings.TrimSpace(string(r))))
}

// DefaultLandingPath is where unrecognized or missing roles land. Surfacing
// a hard error for a cosmetic routing decision would be worse than this
// default.
const DefaultLandingPath = "/student/dashboard"

// landingPaths maps each role to its dashboard path.
var landingPaths = map[Role]string{
	RoleStudent:    "/student/dashboard",
	RoleTeacher:    "/teacher/dashboard",
	RoleAdmin:      "/admin/dashboard",
	RolePrincipal:  "/principal/dashboard",
	RoleSuperAdmin: "/superadmin/dashboard",
	RoleParent:     "/parent/dashboard",
}

// LandingPath returns the dashboard path for a role, falling back to
// DefaultLandingPath for unknown roles. Lookup is case-insensitive.
func LandingPath(r Role) string {
	if p, ok := landingPaths[r.Normalize()]; ok {
		return p
	}
	return DefaultLandingPath
}
