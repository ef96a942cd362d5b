package auth

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// The school API is inconsistent about field casing (`role` vs `Role`,
// `id` vs `Id`). NormalizeIdentity is the single place that inconsistency
// is absorbed; it runs at every ingestion boundary (login response, cache
// load, verification fetch) and nowhere else.

var identityFields = map[string][]string{
	"id":        {"id", "_id", "userId", "user_id"},
	"firstName": {"firstName", "first_name"},
	"lastName":  {"lastName", "last_name"},
	"email":     {"email"},
	"role":      {"role"},
}

// NormalizeIdentity builds an Identity from a raw upstream record, matching
// field names case-insensitively and preserving unrecognized fields in Extra.
func NormalizeIdentity(raw map[string]any) Identity {
	consumed := make(map[string]bool, len(identityFields))
	pick := func(field string) string {
		for _, alias := range identityFields[field] {
			if v, ok := raw[alias]; ok {
				consumed[alias] = true
				return stringify(v)
			}
			for k, v := range raw {
				if strings.EqualFold(k, alias) {
					consumed[k] = true
					return stringify(v)
				}
			}
		}
		return ""
	}

	ident := Identity{
		ID:        pick("id"),
		FirstName: pick("firstName"),
		LastName:  pick("lastName"),
		Email:     pick("email"),
		Role:      Role(pick("role")).Normalize(),
	}

	for k, v := range raw {
		if consumed[k] {
			continue
		}
		if ident.Extra == nil {
			ident.Extra = make(map[string]any)
		}
		ident.Extra[k] = v
	}
	return ident
}

// EncodeIdentity serializes an identity in the upstream record shape, with
// Extra fields flattened back in, so a cache round trip re-enters through
// NormalizeIdentity without nesting.
func EncodeIdentity(ident Identity) ([]byte, error) {
	m := make(map[string]any, len(ident.Extra)+5)
	for k, v := range ident.Extra {
		m[k] = v
	}
	m["id"] = ident.ID
	m["firstName"] = ident.FirstName
	m["lastName"] = ident.LastName
	m["email"] = ident.Email
	m["role"] = string(ident.Role)
	return json.Marshal(m)
}

// DecodeIdentity unmarshals a serialized upstream record and normalizes it.
func DecodeIdentity(data []byte) (Identity, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Identity{}, fmt.Errorf("decode identity: %w", err)
	}
	return NormalizeIdentity(raw), nil
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		// JSON numbers decode as float64; IDs are usually integral.
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}
