package session

import (
	"github.com/golang-jwt/jwt/v5"
)

// KindFromToken peeks at the "kind" claim of a backend-issued token without
// verifying the signature. The gateway never trusts tokens locally (the
// backend validates them on every API call); the claim is only used to detect
// a token stored under the wrong account class.
func KindFromToken(token string) (Kind, bool) {
	parser := jwt.NewParser()
	parsed, _, err := parser.ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return "", false
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", false
	}
	raw, ok := claims["kind"].(string)
	if !ok {
		return "", false
	}
	kind := Kind(raw)
	if !kind.Valid() {
		return "", false
	}
	return kind, true
}
