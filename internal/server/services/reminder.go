package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/petkeeper/internal/common"
	"github.com/dmitrijs2005/petkeeper/internal/dbx"
	"github.com/dmitrijs2005/petkeeper/internal/server/models"
	"github.com/dmitrijs2005/petkeeper/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// ErrReminderNotFound is returned when a reminder is missing or belongs to
// someone else.
var ErrReminderNotFound = fmt.Errorf("reminder %w", common.ErrorNotFound)

// ReminderService manages reminders for pets the user owns.
type ReminderService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewReminderService builds a ReminderService.
func NewReminderService(db *sql.DB, m repomanager.RepositoryManager) *ReminderService {
	return &ReminderService{db: db, repomanager: m}
}

// Create stores a reminder for one of the user's pets. A pet the user does
// not own yields ErrPetNotFound.
func (s *ReminderService) Create(ctx context.Context, userID string, reminder *models.Reminder) (*models.Reminder, error) {
	reminder.ID = uuid.NewString()
	reminder.UserID = userID

	var created *models.Reminder
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Pets(tx).Get(ctx, userID, reminder.PetID); err != nil {
			return notFoundAs(err, ErrPetNotFound, "error fetching pet")
		}

		var err error
		created, err = s.repomanager.Reminders(tx).Create(ctx, reminder)
		if err != nil {
			return fmt.Errorf("error creating reminder: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// List returns the user's reminders, optionally only those for petID. When
// petID is given the pet must belong to the user.
func (s *ReminderService) List(ctx context.Context, userID, petID string) ([]*models.Reminder, error) {
	if petID != "" {
		if _, err := s.repomanager.Pets(s.db).Get(ctx, userID, petID); err != nil {
			return nil, notFoundAs(err, ErrPetNotFound, "error fetching pet")
		}
	}

	list, err := s.repomanager.Reminders(s.db).List(ctx, userID, petID)
	if err != nil {
		return nil, fmt.Errorf("error listing reminders: %w", err)
	}
	if list == nil {
		list = []*models.Reminder{}
	}
	return list, nil
}

func (s *ReminderService) Get(ctx context.Context, userID, reminderID string) (*models.Reminder, error) {
	m, err := s.repomanager.Reminders(s.db).Get(ctx, userID, reminderID)
	if err != nil {
		return nil, notFoundAs(err, ErrReminderNotFound, "error fetching reminder")
	}
	return m, nil
}

func (s *ReminderService) Delete(ctx context.Context, userID, reminderID string) (*models.Reminder, error) {
	m, err := s.repomanager.Reminders(s.db).Delete(ctx, userID, reminderID)
	if err != nil {
		return nil, notFoundAs(err, ErrReminderNotFound, "error deleting reminder")
	}
	return m, nil
}
