// Package refreshtokens stores issued refresh tokens. A refresh token is
// valid only while it is present in the store; Consume removes it
// atomically so each token can be redeemed once.
//
// Stores never keep the token itself, only its SHA-256 digest.
package refreshtokens

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/dmitrijs2005/petkeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, userID, token string, expiresAt time.Time) error
	// Consume removes token and returns what was stored for it, or
	// common.ErrorNotFound when it is unknown or already used.
	Consume(ctx context.Context, token string) (*models.RefreshToken, error)
	// Delete removes token if present.
	Delete(ctx context.Context, token string) error
	DeleteByUser(ctx context.Context, userID string) error
}

// Digest is the storage key for token.
func Digest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
