package domain

import "time"

type ID string

// User is immutable after registration; the password is only ever
// verifiable through the hash, never retrievable.
type User struct {
	ID           ID
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
