package model

import (
	"context"
	"time"
)

// Account is a stored login credential. Accounts are device-local, created on
// registration and never mutated or deleted.
type Account struct {
	Username     string    `json:"username"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}

// User is the logged-in identity carried through a session.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// AccountStore defines persistence operations for accounts. Usernames are
// case-sensitive keys.
type AccountStore interface {
	Get(ctx context.Context, username string) (Account, error)
	Create(ctx context.Context, account Account) error
}
