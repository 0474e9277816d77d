package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/petkeeper/internal/common"
	"github.com/dmitrijs2005/petkeeper/internal/server/models"
	"github.com/dmitrijs2005/petkeeper/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// ErrPetNotFound is returned when a pet is missing or owned by someone else.
var ErrPetNotFound = fmt.Errorf("pet %w", common.ErrorNotFound)

// ErrNoImage is returned when a pet has no stored image.
var ErrNoImage = fmt.Errorf("pet image %w", common.ErrorNotFound)

// PetService manages pets scoped to their owner.
type PetService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	images      ImageStore
}

// NewPetService builds a PetService. images may be nil, in which case the
// image operations return common.ErrorNotConfigured.
func NewPetService(db *sql.DB, m repomanager.RepositoryManager, images ImageStore) *PetService {
	return &PetService{db: db, repomanager: m, images: images}
}

func notFoundAs(err error, sentinel error, op string) error {
	if errors.Is(err, common.ErrorNotFound) {
		return sentinel
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (s *PetService) Create(ctx context.Context, ownerID string, pet *models.Pet) (*models.Pet, error) {
	pet.ID = uuid.NewString()
	pet.OwnerID = ownerID

	created, err := s.repomanager.Pets(s.db).Create(ctx, pet)
	if err != nil {
		return nil, fmt.Errorf("error creating pet: %w", err)
	}
	return created, nil
}

func (s *PetService) Update(ctx context.Context, ownerID, petID string, upd models.PetUpdate) (*models.Pet, error) {
	pet, err := s.repomanager.Pets(s.db).Update(ctx, ownerID, petID, upd)
	if err != nil {
		return nil, notFoundAs(err, ErrPetNotFound, "error updating pet")
	}
	return pet, nil
}

func (s *PetService) Delete(ctx context.Context, ownerID, petID string) (*models.Pet, error) {
	pet, err := s.repomanager.Pets(s.db).Delete(ctx, ownerID, petID)
	if err != nil {
		return nil, notFoundAs(err, ErrPetNotFound, "error deleting pet")
	}
	return pet, nil
}

func (s *PetService) Get(ctx context.Context, ownerID, petID string) (*models.Pet, error) {
	pet, err := s.repomanager.Pets(s.db).Get(ctx, ownerID, petID)
	if err != nil {
		return nil, notFoundAs(err, ErrPetNotFound, "error fetching pet")
	}
	return pet, nil
}

// List returns the owner's pets; an owner without pets gets an empty slice.
func (s *PetService) List(ctx context.Context, ownerID string) ([]*models.Pet, error) {
	pets, err := s.repomanager.Pets(s.db).ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("error listing pets: %w", err)
	}
	if pets == nil {
		pets = []*models.Pet{}
	}
	return pets, nil
}

// ImageUploadURL reserves a new object key for the pet's image, records it
// as the pet's petImg and returns a presigned PUT URL for it.
func (s *PetService) ImageUploadURL(ctx context.Context, ownerID, petID string) (uploadURL, key string, err error) {
	if s.images == nil {
		return "", "", common.ErrorNotConfigured
	}

	if _, err := s.Get(ctx, ownerID, petID); err != nil {
		return "", "", err
	}

	key = PetImageKey(ownerID, petID)
	uploadURL, err = s.images.PresignPut(ctx, key)
	if err != nil {
		return "", "", fmt.Errorf("error presigning upload: %w", err)
	}

	if _, err := s.Update(ctx, ownerID, petID, models.PetUpdate{PetImg: &key}); err != nil {
		return "", "", err
	}
	return uploadURL, key, nil
}

// ImageDownloadURL returns a URL for the pet's image. An absolute http(s)
// petImg is returned unchanged; an object key is presigned.
func (s *PetService) ImageDownloadURL(ctx context.Context, ownerID, petID string) (string, error) {
	if s.images == nil {
		return "", common.ErrorNotConfigured
	}

	pet, err := s.Get(ctx, ownerID, petID)
	if err != nil {
		return "", err
	}

	switch {
	case pet.PetImg == "":
		return "", ErrNoImage
	case strings.HasPrefix(pet.PetImg, "http://"), strings.HasPrefix(pet.PetImg, "https://"):
		return pet.PetImg, nil
	}

	url, err := s.images.PresignGet(ctx, pet.PetImg)
	if err != nil {
		return "", fmt.Errorf("error presigning download: %w", err)
	}
	return url, nil
}
