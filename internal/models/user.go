package models

import "time"

// User is an account that owns expenses. Email is the unique login key and is
// compared exactly as stored.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
