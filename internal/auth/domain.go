package auth

import "time"

// User represents a back-office user account.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	FullName     string
	Email        string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
}
