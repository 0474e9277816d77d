package reminders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/petkeeper/internal/common"
	"github.com/dmitrijs2005/petkeeper/internal/dbx"
	"github.com/dmitrijs2005/petkeeper/internal/server/models"
)

const reminderColumns = `id, user_id, pet_id, reminder_date, reminder_note, created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReminder(row rowScanner) (*models.Reminder, error) {
	m := &models.Reminder{}
	err := row.Scan(&m.ID, &m.UserID, &m.PetID, &m.ReminderDate, &m.ReminderNote, &m.CreatedAt)
	return m, err
}

func one(row *sql.Row) (*models.Reminder, error) {
	m, err := scanReminder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return m, nil
}

func (r *PostgresRepository) Create(ctx context.Context, reminder *models.Reminder) (*models.Reminder, error) {
	query := `
		INSERT INTO reminders (id, user_id, pet_id, reminder_date, reminder_note)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + reminderColumns

	return one(r.db.QueryRowContext(ctx, query,
		reminder.ID, reminder.UserID, reminder.PetID, reminder.ReminderDate, reminder.ReminderNote))
}

func (r *PostgresRepository) List(ctx context.Context, userID, petID string) ([]*models.Reminder, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if petID == "" {
		rows, err = r.db.QueryContext(ctx,
			`SELECT `+reminderColumns+` FROM reminders WHERE user_id = $1 ORDER BY reminder_date, id`, userID)
	} else {
		rows, err = r.db.QueryContext(ctx,
			`SELECT `+reminderColumns+` FROM reminders WHERE user_id = $1 AND pet_id = $2 ORDER BY reminder_date, id`, userID, petID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select reminders: %w", err)
	}
	defer rows.Close()

	var result []*models.Reminder
	for rows.Next() {
		m, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID, id string) (*models.Reminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM reminders WHERE id = $1 AND user_id = $2`
	return one(r.db.QueryRowContext(ctx, query, id, userID))
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) (*models.Reminder, error) {
	query := `DELETE FROM reminders WHERE id = $1 AND user_id = $2 RETURNING ` + reminderColumns
	return one(r.db.QueryRowContext(ctx, query, id, userID))
}
