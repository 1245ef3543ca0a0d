package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/domain"
	"github.com/stretchr/testify/require"
)

const testSecret = "super-secret-jwt-token-with-at-least-32-characters"

func signToken(t *testing.T, secret string, method jwt.SigningMethod, claims Claims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	return token
}

func validClaims() Claims {
	return Claims{
		Email: "Asha@Example.com",
		Role:  "authenticated",
		UserMetadata: UserMetadata{
			FullName: "Asha Verma",
			Phone:    "+919800000000",
		},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "5b0c3f0e-6a3c-4a1e-9a43-0d0e5c7f1a11",
			Audience:  jwt.ClaimStrings{"authenticated"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestVerify_Success(t *testing.T) {
	v := NewVerifier(testSecret, "authenticated")

	principal, err := v.Verify(signToken(t, testSecret, jwt.SigningMethodHS256, validClaims()))
	require.NoError(t, err)
	require.Equal(t, "5b0c3f0e-6a3c-4a1e-9a43-0d0e5c7f1a11", principal.ExternalID)
	require.Equal(t, "asha@example.com", principal.Email)
	require.Equal(t, "Asha Verma", principal.Name)
	require.Equal(t, "+919800000000", principal.Phone)
}

func TestVerify_NameFallsBackToEmail(t *testing.T) {
	claims := validClaims()
	claims.UserMetadata = UserMetadata{}

	principal, err := NewVerifier(testSecret, "").Verify(signToken(t, testSecret, jwt.SigningMethodHS256, claims))
	require.NoError(t, err)
	require.Equal(t, "asha", principal.Name)
}

func TestVerify_Rejects(t *testing.T) {
	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	noExpiry := validClaims()
	noExpiry.ExpiresAt = nil

	wrongAudience := validClaims()
	wrongAudience.Audience = jwt.ClaimStrings{"anon"}

	noSubject := validClaims()
	noSubject.Subject = ""

	cases := map[string]string{
		"wrong secret":   signToken(t, "another-secret-another-secret-another", jwt.SigningMethodHS256, validClaims()),
		"wrong method":   signToken(t, testSecret, jwt.SigningMethodHS512, validClaims()),
		"expired":        signToken(t, testSecret, jwt.SigningMethodHS256, expired),
		"no expiry":      signToken(t, testSecret, jwt.SigningMethodHS256, noExpiry),
		"wrong audience": signToken(t, testSecret, jwt.SigningMethodHS256, wrongAudience),
		"no subject":     signToken(t, testSecret, jwt.SigningMethodHS256, noSubject),
		"garbage":        "not.a.jwt",
	}

	v := NewVerifier(testSecret, "authenticated")
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := v.Verify(token)
			require.Error(t, err)
			require.True(t, errors.Is(err, domain.ErrUnauthorized))
			require.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
