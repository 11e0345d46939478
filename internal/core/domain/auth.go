package domain

import "time"

// Claims is the payload carried by a signed access token. The roles are a
// snapshot taken at issuance and are not refreshed until the next login.
type Claims struct {
	UserID    int64
	Roles     RoleSet
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Session is a server-side login referenced by an opaque cookie value.
// It only records who logged in; roles are looked up on every request.
type Session struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IdentitySource tells where an Identity was resolved from.
type IdentitySource string

const (
	SourceSession IdentitySource = "session"
	SourceToken   IdentitySource = "token"
)

// Identity is the authenticated caller of a single request.
type Identity struct {
	UserID    int64
	Username  string
	Roles     RoleSet
	Source    IdentitySource
	SessionID string
}
