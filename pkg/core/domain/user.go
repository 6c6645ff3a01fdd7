package domain

import "time"

// User logs in with their invite code.
type User struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      *string   `json:"email,omitempty"`
	InviteCode string    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
