package pets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/petkeeper/internal/common"
	"github.com/dmitrijs2005/petkeeper/internal/dbx"
	"github.com/dmitrijs2005/petkeeper/internal/server/models"
)

const petColumns = `id, owner_id, pet_name, species, breed, birth_date, color, weight,
	last_pinned_location, pet_img, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPet(row rowScanner) (*models.Pet, error) {
	p := &models.Pet{}
	err := row.Scan(&p.ID, &p.OwnerID, &p.PetName, &p.Species, &p.Breed, &p.BirthDate, &p.Color,
		&p.Weight, &p.LastPinnedLocation, &p.PetImg, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *PostgresRepository) one(row *sql.Row) (*models.Pet, error) {
	p, err := scanPet(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) Create(ctx context.Context, pet *models.Pet) (*models.Pet, error) {
	query := `
		INSERT INTO pets (id, owner_id, pet_name, species, breed, birth_date, color, weight, last_pinned_location, pet_img)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + petColumns

	return r.one(r.db.QueryRowContext(ctx, query,
		pet.ID, pet.OwnerID, pet.PetName, pet.Species, pet.Breed, pet.BirthDate, pet.Color,
		pet.Weight, pet.LastPinnedLocation, pet.PetImg))
}

// Update changes only the non-nil fields of upd.
func (r *PostgresRepository) Update(ctx context.Context, ownerID, id string, upd models.PetUpdate) (*models.Pet, error) {
	query := `
		UPDATE pets SET
			pet_name = COALESCE($3, pet_name),
			species = COALESCE($4, species),
			breed = COALESCE($5, breed),
			birth_date = COALESCE($6, birth_date),
			color = COALESCE($7, color),
			weight = COALESCE($8, weight),
			last_pinned_location = COALESCE($9, last_pinned_location),
			pet_img = COALESCE($10, pet_img),
			updated_at = now()
		WHERE id = $1 AND owner_id = $2
		RETURNING ` + petColumns

	return r.one(r.db.QueryRowContext(ctx, query,
		id, ownerID, upd.PetName, upd.Species, upd.Breed, upd.BirthDate, upd.Color,
		upd.Weight, upd.LastPinnedLocation, upd.PetImg))
}

// Delete removes the pet and returns it as it was.
func (r *PostgresRepository) Delete(ctx context.Context, ownerID, id string) (*models.Pet, error) {
	query := `DELETE FROM pets WHERE id = $1 AND owner_id = $2 RETURNING ` + petColumns
	return r.one(r.db.QueryRowContext(ctx, query, id, ownerID))
}

func (r *PostgresRepository) Get(ctx context.Context, ownerID, id string) (*models.Pet, error) {
	query := `SELECT ` + petColumns + ` FROM pets WHERE id = $1 AND owner_id = $2`
	return r.one(r.db.QueryRowContext(ctx, query, id, ownerID))
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Pet, error) {
	query := `SELECT ` + petColumns + ` FROM pets WHERE owner_id = $1 ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to select pets: %w", err)
	}
	defer rows.Close()

	var result []*models.Pet
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
