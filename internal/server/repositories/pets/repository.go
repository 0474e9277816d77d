// Package pets persists pet records. Every query is scoped to the owner, so
// a pet belonging to someone else is indistinguishable from a missing one.
package pets

import (
	"context"

	"github.com/dmitrijs2005/petkeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, pet *models.Pet) (*models.Pet, error)
	Update(ctx context.Context, ownerID, id string, upd models.PetUpdate) (*models.Pet, error)
	Delete(ctx context.Context, ownerID, id string) (*models.Pet, error)
	Get(ctx context.Context, ownerID, id string) (*models.Pet, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Pet, error)
}
