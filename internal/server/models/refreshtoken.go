package models

import "time"

// RefreshToken is a stored refresh token. Stores keep only a digest of the
// token itself.
type RefreshToken struct {
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}
