package domain

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID         int64     `json:"id"`
	ExternalID *string   `json:"-"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	Phone      *string   `json:"phone"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Principal is an identity asserted by the external identity provider.
type Principal struct {
	ExternalID string
	Email      string
	Name       string
	Phone      string
}
