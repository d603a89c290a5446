package domain

import "time"

type ID string

// User is created at registration and never updated afterwards.
type User struct {
	ID           ID
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
