package credential

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeToken builds an unsigned token with the given claims payload. The
// signature segment is garbage on purpose; the codec never reads it.
func makeToken(t *testing.T, payload map[string]any) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	return header + "." + base64.RawURLEncoding.EncodeToString(body) + ".sig"
}

func TestDecodeClaims(t *testing.T) {
	token := makeToken(t, map[string]any{
		"sub":      "u-1",
		"email":    "kid@school.test",
		"role":     "student",
		"username": "kid",
		"exp":      1999999999,
	})

	claims, err := DecodeClaims(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.Subject)
	assert.Equal(t, "kid@school.test", claims.Email)
	assert.Equal(t, "student", claims.Role)
	require.NotNil(t, claims.ExpiresAt)
	assert.Equal(t, int64(1999999999), claims.ExpiresAt.Unix())
}

func TestDecodeClaims_Malformed(t *testing.T) {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	cases := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"not a token", "garbage"},
		{"two segments", "a.b"},
		{"bad base64", header + ".!!!not-base64!!!.sig"},
		{"claims not json", header + "." + base64.RawURLEncoding.EncodeToString([]byte("not json")) + ".sig"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeClaims(tc.token)
			require.ErrorIs(t, err, ErrMalformedCredential)
		})
	}
}
