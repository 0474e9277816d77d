// Package reminders persists reminders attached to a user's pets.
package reminders

import (
	"context"

	"github.com/dmitrijs2005/petkeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, reminder *models.Reminder) (*models.Reminder, error)
	// List returns the user's reminders, limited to petID when it is not empty.
	List(ctx context.Context, userID, petID string) ([]*models.Reminder, error)
	Get(ctx context.Context, userID, id string) (*models.Reminder, error)
	Delete(ctx context.Context, userID, id string) (*models.Reminder, error)
}
