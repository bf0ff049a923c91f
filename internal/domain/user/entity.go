package user

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// User is an account. Dating data lives in the profile.
type User struct {
	ID            uuid.UUID    `db:"id"`
	Email         string       `db:"email"`
	Username      string       `db:"username"`
	FirstName     string       `db:"first_name"`
	LastName      string       `db:"last_name"`
	PasswordHash  string       `db:"password_hash"`
	EmailVerified bool         `db:"email_verified"`
	LastSeenAt    sql.NullTime `db:"last_seen_at"`
	CreatedAt     time.Time    `db:"created_at"`
	UpdatedAt     time.Time    `db:"updated_at"`
}

// DisplayName is what other users see.
func (u *User) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	return u.Username
}
