package model

import "time"

// Role names stored in users.role and carried in the JWT "role" claim.
const (
    RoleUser  = "user"
    RoleAdmin = "admin"
)

// User represents a row of the `users` table.  The password hash never
// leaves the service.
type User struct {
    ID           uint64    `json:"id"`           // users.id
    Name         string    `json:"name"`         // users.name
    Email        string    `json:"email"`        // users.email (unique, lower-cased)
    PhoneNumber  *string   `json:"phone_number"` // users.phone_number (nullable)
    PasswordHash string    `json:"-"`            // users.password_hash
    Role         string    `json:"role"`         // users.role
    CreatedAt    time.Time `json:"created_at"`
    UpdatedAt    time.Time `json:"updated_at"`
}

// IsAdmin reports whether the user may manage templates and banks.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// RefreshToken models an entry in the `refresh_tokens` table.  Only the
// SHA‑256 hash of the token is stored.
type RefreshToken struct {
    ID        uint64     // refresh_tokens.id
    UserID    uint64     // refresh_tokens.user_id
    TokenHash string     // refresh_tokens.token_hash
    ExpiresAt time.Time  // refresh_tokens.expires_at
    RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
    CreatedAt time.Time  // refresh_tokens.created_at
}
