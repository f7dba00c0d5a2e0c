// Package models contains the server-side domain records.
package models

import "time"

// User is an account record. PasswordHash is opaque to everything except
// the auth hasher and is never serialized into any response.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
