// Package services contains the server's business logic. UserService covers
// accounts and sessions; PetService and ReminderService cover the owned
// records.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/petkeeper/internal/common"
	"github.com/dmitrijs2005/petkeeper/internal/dbx"
	"github.com/dmitrijs2005/petkeeper/internal/server/auth"
	"github.com/dmitrijs2005/petkeeper/internal/server/models"
	"github.com/dmitrijs2005/petkeeper/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// TokenIssuer issues and verifies one class of signed token.
type TokenIssuer interface {
	Issue(userID, email string) (string, error)
	Verify(token string) (*auth.Claims, error)
	TTL() time.Duration
}

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// UserService handles registration, login and the session lifecycle.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      PasswordHasher
	access      TokenIssuer
	refresh     TokenIssuer
	now         func() time.Time

	// decoy is verified against when the email is unknown so that both
	// failure paths cost one hash verification.
	decoy string
}

// NewUserService builds a UserService. It hashes a random decoy password up
// front and fails if the hasher cannot.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher PasswordHasher, access, refresh TokenIssuer) (*UserService, error) {
	secret, err := common.MakeRandHexString(16)
	if err != nil {
		return nil, fmt.Errorf("generate decoy password: %w", err)
	}
	decoy, err := hasher.Hash(secret)
	if err != nil {
		return nil, fmt.Errorf("hash decoy password: %w", err)
	}

	return &UserService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		access:      access,
		refresh:     refresh,
		now:         time.Now,
		decoy:       decoy,
	}, nil
}

// Register creates an account. A taken email yields common.ErrorAlreadyExists.
func (s *UserService) Register(ctx context.Context, email, password string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	_, err := repo.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, common.ErrorAlreadyExists
	case !errors.Is(err, common.ErrorNotFound):
		return nil, fmt.Errorf("error checking user: %w", err)
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	u, err := repo.Create(ctx, &models.User{ID: uuid.NewString(), Email: email, PasswordHash: digest})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// Login checks the credentials and issues a token pair. An unknown email and
// a wrong password both yield common.ErrorUnauthorized, and both pay for one
// hash verification.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, *TokenPair, error) {
	user, err := s.repomanager.Users(s.db).GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.Verify(password, s.decoy)
			return nil, nil, common.ErrorUnauthorized
		}
		return nil, nil, fmt.Errorf("error fetching user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, nil, common.ErrorUnauthorized
	}

	pair, err := s.generateTokenPair(ctx, user, s.db)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Logout revokes refreshToken. An empty or unknown token is not an error.
func (s *UserService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if err := s.repomanager.RefreshTokens(s.db).Delete(ctx, refreshToken); err != nil {
		return fmt.Errorf("error revoking refresh token: %w", err)
	}
	return nil
}

// RefreshToken redeems a refresh token for a new pair. The old token is
// consumed, so presenting it again fails with common.ErrInvalidToken.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.refresh.Verify(refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			return nil, common.ErrRefreshTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	var pair *TokenPair
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		stored, err := s.repomanager.RefreshTokens(tx).Consume(ctx, refreshToken)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrInvalidToken
			}
			return fmt.Errorf("error consuming refresh token: %w", err)
		}
		if stored.UserID != claims.UserID {
			return common.ErrInvalidToken
		}
		if !stored.ExpiresAt.After(s.now()) {
			return common.ErrRefreshTokenExpired
		}

		user, err := s.repomanager.Users(tx).GetUserByID(ctx, stored.UserID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrInvalidToken
			}
			return fmt.Errorf("error fetching user: %w", err)
		}

		pair, err = s.generateTokenPair(ctx, user, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// ResolveSession maps an access token to its user. The token's email must
// still belong to a user with the id named in the token.
func (s *UserService) ResolveSession(ctx context.Context, accessToken string) (*models.User, error) {
	claims, err := s.access.Verify(accessToken)
	if err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users(s.db).GetUserByEmail(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error fetching user: %w", err)
	}
	if user.ID != claims.UserID {
		return nil, common.ErrorUnauthorized
	}
	return user, nil
}

// DeleteAccount removes the user together with their refresh tokens. Pets
// and reminders are removed by the database.
func (s *UserService) DeleteAccount(ctx context.Context, userID string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.RefreshTokens(tx).DeleteByUser(ctx, userID); err != nil {
			return fmt.Errorf("error revoking refresh tokens: %w", err)
		}
		if err := s.repomanager.Users(tx).Delete(ctx, userID); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrorNotFound
			}
			return fmt.Errorf("error deleting user: %w", err)
		}
		return nil
	})
}

// --- helpers below ---

func (s *UserService) generateTokenPair(ctx context.Context, user *models.User, db dbx.DBTX) (*TokenPair, error) {
	access, err := s.access.Issue(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("%w: issue access token: %v", common.ErrorInternal, err)
	}
	refresh, err := s.refresh.Issue(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("%w: issue refresh token: %v", common.ErrorInternal, err)
	}

	expiresAt := s.now().Add(s.refresh.TTL())
	if err := s.repomanager.RefreshTokens(db).Create(ctx, user.ID, refresh, expiresAt); err != nil {
		return nil, fmt.Errorf("%w: store refresh token: %v", common.ErrorInternal, err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
