// internal/app/system/authz/roles.go
package authz

import (
	"net/http"
	"strings"
)

// HasAnyRole reports whether the signed-in user holds one of the given
// roles. Role names are compared case-insensitively with surrounding
// whitespace ignored; an unauthenticated request never matches.
func HasAnyRole(r *http.Request, roles ...string) bool {
	role, _, _, ok := UserCtx(r)
	if !ok {
		return false
	}
	for _, want := range roles {
		if role == strings.ToLower(strings.TrimSpace(want)) {
			return true
		}
	}
	return false
}

// HasRole checks a single role.
func HasRole(r *http.Request, role string) bool {
	return HasAnyRole(r, role)
}
