package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret-key-0123456789abcdef"

func signToken(t *testing.T, claims Claims, secret string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return token
}

func validClaims() Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-17",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		Role:         RoleTenant,
		ApartmentIDs: []string{"apt-3", "apt-9"},
	}
}

func TestParseToken(t *testing.T) {
	token := signToken(t, validClaims(), testSecret)

	caller, err := ParseToken(token, testSecret)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if caller.UserID != "user-17" {
		t.Errorf("UserID = %q", caller.UserID)
	}
	if caller.Role != RoleTenant {
		t.Errorf("Role = %q", caller.Role)
	}
	if len(caller.ApartmentIDs) != 2 || !caller.HasApartment("apt-9") {
		t.Errorf("ApartmentIDs = %v", caller.ApartmentIDs)
	}
}

func TestParseTokenExpired(t *testing.T) {
	claims := validClaims()
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	token := signToken(t, claims, testSecret)

	_, err := ParseToken(token, testSecret)
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("err = %v, want ErrTokenExpired", err)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	token := signToken(t, validClaims(), "some-other-secret-0123456789abcd")

	_, err := ParseToken(token, testSecret)
	if !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestParseTokenWrongAlgorithm(t *testing.T) {
	// HS512 is outside the allowed method list even with the right secret.
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, validClaims()).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}

	_, err = ParseToken(token, testSecret)
	if !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestParseTokenGarbage(t *testing.T) {
	_, err := ParseToken("not.a.token", testSecret)
	if !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestParseTokenMissingSubject(t *testing.T) {
	claims := validClaims()
	claims.Subject = ""
	token := signToken(t, claims, testSecret)

	_, err := ParseToken(token, testSecret)
	if !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestParseTokenUnknownRole(t *testing.T) {
	claims := validClaims()
	claims.Role = Role("janitor")
	token := signToken(t, claims, testSecret)

	_, err := ParseToken(token, testSecret)
	if !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestIsValidRole(t *testing.T) {
	for _, r := range ValidRoles {
		if !IsValidRole(r) {
			t.Errorf("IsValidRole(%q) = false", r)
		}
	}
	if IsValidRole(Role("janitor")) || IsValidRole(Role("")) {
		t.Error("unexpected role accepted")
	}
}

func TestHasApartment(t *testing.T) {
	caller := &Caller{ApartmentIDs: []string{"apt-1", "apt-2"}}
	if !caller.HasApartment("apt-2") {
		t.Error("expected membership for apt-2")
	}
	if caller.HasApartment("apt-3") {
		t.Error("unexpected membership for apt-3")
	}
	if caller.HasApartment("") {
		t.Error("empty apartment id should never match")
	}
}
