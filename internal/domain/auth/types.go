package auth

// Package auth contains domain-level types for the session gateway.
// It is pure and free of transport/adapter concerns.

// Role represents an application authorization role.
// Kept in string form for easy persistence; comparisons are always
// case-insensitive because the upstream API is inconsistent about casing.
// Valid values are defined as constants below.
type Role string

const (
	RoleStudent    Role = "student"
	RoleTeacher    Role = "teacher"
	RoleAdmin      Role = "admin"
	RolePrincipal  Role = "principal"
	RoleSuperAdmin Role = "superadmin"
	RoleParent     Role = "parent"
)

// Identity represents the authenticated principal returned by the school API.
// Extra holds upstream fields the gateway does not interpret.
type Identity struct {
	ID        string         `json:"id"`
	FirstName string         `json:"first_name"`
	LastName  string         `json:"last_name"`
	Email     string         `json:"email"`
	Role      Role           `json:"role"`
	Extra     map[string]any `json:"extra,omitempty"`
}

// Valid reports whether the identity is structurally usable. The upstream
// API sometimes returns partial records; anything carrying at least an ID
// or a role is accepted.
func (i Identity) Valid() bool {
	return i.ID != "" || i.Role != ""
}

// HasRole reports whether the identity's role matches any of the given
// roles, case-insensitively. An empty allowed set matches any identity.
func (i Identity) HasRole(allowed []Role) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, r := range allowed {
		if i.Role.Is(r) {
			return true
		}
	}
	return false
}

// SessionState is the process-wide authentication state. It is mutated only
// by the session store; everyone else reads a copy.
type SessionState struct {
	Identity        *Identity
	IsAuthenticated bool
	IsInitializing  bool
}
