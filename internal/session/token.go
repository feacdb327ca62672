package session

import "github.com/golang-jwt/jwt/v5"

// RoleAdmin is the only privileged role the admin surface recognises.
const RoleAdmin = "admin"

// RoleFromToken reads the role claim out of the token payload without
// verifying the signature. The upstream API is the authority on the
// token; this decode only drives navigation and route gating, so a
// malformed or claimless token simply yields no role. It must never be
// used as an authorization decision on its own.
func RoleFromToken(token string) string {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return ""
	}
	role, _ := claims["role"].(string)
	return role
}
