package session

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mmcdole/shelf/internal/domain"
)

// sessionFromTokens reads the identity claims of the access token.
// Signature checks belong to the backend; the client only needs the claims.
func sessionFromTokens(pair domain.TokenPair) (domain.Session, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(pair.AccessToken, claims); err != nil {
		return domain.Session{}, fmt.Errorf("failed to read access token: %w", err)
	}

	sess := domain.Session{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		UserID:       stringClaim(claims, "id", "_id", "userId", "sub"),
		Name:         stringClaim(claims, "name", "username"),
		Role:         domain.Role(stringClaim(claims, "role")),
	}
	if sess.Role == "" {
		sess.Role = domain.RoleUser
	}
	if sess.UserID == "" {
		return domain.Session{}, fmt.Errorf("access token carries no user id")
	}
	return sess, nil
}

func stringClaim(claims jwt.MapClaims, keys ...string) string {
	for _, k := range keys {
		if v, ok := claims[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
