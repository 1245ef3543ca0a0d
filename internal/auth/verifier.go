// Package auth verifies access tokens issued by the Supabase identity provider.
package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/domain"
)

var ErrInvalidToken = domain.Errorf(domain.ErrUnauthorized, "Invalid token or session expired")

type UserMetadata struct {
	Name     string `json:"name"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
}

type Claims struct {
	Email        string       `json:"email"`
	Phone        string       `json:"phone"`
	Role         string       `json:"role"`
	UserMetadata UserMetadata `json:"user_metadata"`
	jwt.RegisteredClaims
}

// Principal maps the token claims onto a local identity. The display name falls
// back to the local part of the email.
func (c *Claims) Principal() domain.Principal {
	name := c.UserMetadata.Name
	if name == "" {
		name = c.UserMetadata.FullName
	}
	email := strings.ToLower(c.Email)
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}

	phone := c.UserMetadata.Phone
	if phone == "" {
		phone = c.Phone
	}

	return domain.Principal{
		ExternalID: c.Subject,
		Email:      email,
		Name:       name,
		Phone:      phone,
	}
}

type Verifier struct {
	secret   []byte
	audience string
}

func NewVerifier(secret, audience string) *Verifier {
	return &Verifier{secret: []byte(secret), audience: audience}
}

func (v *Verifier) Verify(token string) (*domain.Principal, error) {
	if len(v.secret) == 0 {
		return nil, errors.New("jwt secret is not configured")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.Subject == "" || claims.Email == "" {
		return nil, fmt.Errorf("%w: missing subject or email", ErrInvalidToken)
	}

	principal := claims.Principal()
	return &principal, nil
}
