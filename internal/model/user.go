package model

import "time"

// User represents an application user record as stored in the `users`
// table. Users authenticate with a username and password; the password
// is only ever stored as a bcrypt hash.
type User struct {
	ID           uint64    `db:"id"`            // users.id
	Username     string    `db:"username"`      // users.username (unique)
	PasswordHash string    `db:"password_hash"` // users.password_hash
	CreatedAt    time.Time `db:"created_at"`    // users.created_at
}

// RefreshToken models an entry in the `refresh_tokens` table. Only the
// SHA-256 hash of the token handed to the client is persisted.
type RefreshToken struct {
	ID        uint64     `db:"id"`         // refresh_tokens.id
	UserID    uint64     `db:"user_id"`    // refresh_tokens.user_id
	TokenHash string     `db:"token_hash"` // refresh_tokens.token_hash
	ExpiresAt time.Time  `db:"expires_at"` // refresh_tokens.expires_at
	RevokedAt *time.Time `db:"revoked_at"` // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  `db:"created_at"` // refresh_tokens.created_at
}
