package refreshtokens

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/petkeeper/internal/common"
	"github.com/dmitrijs2005/petkeeper/internal/server/models"
)

// MemoryRepository keeps refresh tokens in process memory. Contents are lost
// on restart and are not shared between instances.
type MemoryRepository struct {
	mu     sync.Mutex
	tokens map[string]models.RefreshToken
	now    func() time.Time
}

// NewMemoryRepository returns an empty in-process store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		tokens: make(map[string]models.RefreshToken),
		now:    time.Now,
	}
}

func (r *MemoryRepository) Create(_ context.Context, userID, token string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for k, v := range r.tokens {
		if !v.ExpiresAt.After(now) {
			delete(r.tokens, k)
		}
	}

	r.tokens[Digest(token)] = models.RefreshToken{UserID: userID, ExpiresAt: expiresAt, CreatedAt: now}
	return nil
}

func (r *MemoryRepository) Consume(_ context.Context, token string) (*models.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := Digest(token)
	rt, ok := r.tokens[key]
	if !ok {
		return nil, common.ErrorNotFound
	}
	delete(r.tokens, key)
	return &rt, nil
}

func (r *MemoryRepository) Delete(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.tokens, Digest(token))
	return nil
}

func (r *MemoryRepository) DeleteByUser(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for k, v := range r.tokens {
		if v.UserID == userID {
			delete(r.tokens, k)
		}
	}
	return nil
}

// Len reports how many tokens are stored.
func (r *MemoryRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tokens)
}
