package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeIdentity_CaseVariants(t *testing.T) {
	lower := NormalizeIdentity(map[string]any{
		"id": "u-1", "firstName": "Ada", "lastName": "Wong", "email": "ada@school.test", "role": "admin",
	})
	upper := NormalizeIdentity(map[string]any{
		"Id": "u-1", "FirstName": "Ada", "LastName": "Wong", "Email": "ada@school.test", "Role": "Admin",
	})

	assert.Equal(t, lower.ID, upper.ID)
	assert.Equal(t, lower.Email, upper.Email)
	assert.Equal(t, lower.Role, upper.Role)
	assert.Equal(t, RoleAdmin, upper.Role, "role must be normalized to lowercase")
}

func TestNormalizeIdentity_NumericIDAndExtras(t *testing.T) {
	ident := NormalizeIdentity(map[string]any{
		"id":          float64(42),
		"role":        "Student",
		"classroomId": "c-9",
	})

	assert.Equal(t, "42", ident.ID)
	assert.Equal(t, RoleStudent, ident.Role)
	assert.Equal(t, "c-9", ident.Extra["classroomId"])
	_, consumed := ident.Extra["id"]
	assert.False(t, consumed, "picked fields must not leak into Extra")
}

func TestDecodeIdentity(t *testing.T) {
	ident, err := DecodeIdentity([]byte(`{"Id":"u-7","Role":"PRINCIPAL","email":"p@school.test"}`))
	require.NoError(t, err)
	assert.Equal(t, "u-7", ident.ID)
	assert.Equal(t, RolePrincipal, ident.Role)
	assert.Equal(t, "p@school.test", ident.Email)

	_, err = DecodeIdentity([]byte(`{broken`))
	require.Error(t, err)
}
