package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenClaims is the payload of an access token. The role state and capabilities are
// embedded so requests can be authorised without a store lookup.
type AccessTokenClaims struct {
	Username     string              `json:"username"`
	RoleID       string              `json:"role_id"`
	RoleName     string              `json:"role_name"`
	RoleActive   bool                `json:"role_active"`
	BranchCode   string              `json:"branch_code"`
	Capabilities map[string][]string `json:"capabilities"`
	jwt.RegisteredClaims
}

// GenerateJWT signs claims with HS256. Subject and standard time claims are filled in here.
func GenerateJWT(claims AccessTokenClaims, actorID string, secret string, issuedAt time.Time, expiryDuration time.Duration, issuer string) (string, error) {
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   actorID,
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(expiryDuration)),
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		NotBefore: jwt.NewNumericDate(issuedAt),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseAndValidateJWT parses a JWT token string, validates its signature and standard claims.
// Errors are those of the jwt package, so callers can test for jwt.ErrTokenExpired.
func ParseAndValidateJWT(tokenString string, secretKey string, issuer string) (*AccessTokenClaims, error) {
	claims := &AccessTokenClaims{}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired()}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secretKey), nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenSignatureInvalid
	}
	return claims, nil
}
