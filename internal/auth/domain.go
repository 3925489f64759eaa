package auth

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is the principal record behind a bearer token. The password hash
// never serializes.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Stats summarizes the user table for the admin dashboard.
type Stats struct {
	Total  int `json:"total"`
	Admins int `json:"admins"`
	Recent int `json:"recentUsers"` // registered in the last 30 days
}
