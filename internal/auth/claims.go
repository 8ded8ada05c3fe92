package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Claims extends JWT standard claims with the fields the external identity
// provider issues for building residents.
type Claims struct {
	jwt.RegisteredClaims
	Role         Role     `json:"role"`
	ApartmentIDs []string `json:"apartments,omitempty"`
}

// ParseToken validates a JWT access token issued by the identity provider
// and returns the caller identity it carries. It checks the signature,
// expiry, and required fields.
func ParseToken(tokenString, secret string) (*Caller, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(_ *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrTokenInvalid)
	}
	if !IsValidRole(claims.Role) {
		return nil, fmt.Errorf("%w: unknown role %q", ErrTokenInvalid, claims.Role)
	}

	return &Caller{
		UserID:       claims.Subject,
		Role:         claims.Role,
		ApartmentIDs: claims.ApartmentIDs,
	}, nil
}
