package domain

import "time"

// User is an account in the identity store. UserName is the login name and
// becomes the subject of issued tokens.
type User struct {
	ID           string
	UserName     string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
