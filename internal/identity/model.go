package identity

import "time"

// User represents an application user resolved from a chat sender address or
// registered through signup. Name, Email and PasswordHash are empty for users
// auto-created by the webhook resolver.
type User struct {
	ID           string
	Name         string
	Phone        string
	Email        string
	PasswordHash []byte
	TokenVersion int
	CreatedAt    time.Time
}

// Profile carries the signup data for a fully registered user.
type Profile struct {
	Name     string
	Email    string
	Phone    string
	Password string
}
