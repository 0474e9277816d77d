package validation

import (
	"github.com/dmitrijs2005/petkeeper/internal/server/models"
)

// CredentialsRequest is the register and login body.
type CredentialsRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=30"`
}

// RefreshRequest carries a refresh token.
type RefreshRequest struct {
	Token string `json:"token"`
}

// CreatePetRequest is the body of a new pet.
type CreatePetRequest struct {
	PetName            string `json:"petName" validate:"required,min=3"`
	Species            string `json:"species" validate:"required,min=3"`
	Breed              string `json:"breed" validate:"required,min=3"`
	BirthDate          string `json:"birthDate" validate:"required,petdate"`
	Color              string `json:"color" validate:"required,min=3"`
	Weight             string `json:"weight" validate:"required"`
	LastPinnedLocation string `json:"lastPinnedLocation" validate:"required"`
	PetImg             string `json:"petImg" validate:"required"`
}

// Pet converts a validated request into a model.
func (r *CreatePetRequest) Pet() *models.Pet {
	birth, _ := ParseDate(r.BirthDate)
	return &models.Pet{
		PetName:            r.PetName,
		Species:            r.Species,
		Breed:              r.Breed,
		BirthDate:          birth,
		Color:              r.Color,
		Weight:             r.Weight,
		LastPinnedLocation: r.LastPinnedLocation,
		PetImg:             r.PetImg,
	}
}

// UpdatePetRequest holds a partial update; absent fields stay nil.
type UpdatePetRequest struct {
	PetName            *string `json:"petName" validate:"omitnil,min=3"`
	Species            *string `json:"species" validate:"omitnil,min=3"`
	Breed              *string `json:"breed" validate:"omitnil,min=3"`
	BirthDate          *string `json:"birthDate" validate:"omitnil,petdate"`
	Color              *string `json:"color" validate:"omitnil,min=3"`
	Weight             *string `json:"weight" validate:"omitnil,min=1"`
	LastPinnedLocation *string `json:"lastPinnedLocation" validate:"omitnil,min=1"`
	PetImg             *string `json:"petImg" validate:"omitnil,min=1"`
}

func (r *UpdatePetRequest) Update() models.PetUpdate {
	upd := models.PetUpdate{
		PetName:            r.PetName,
		Species:            r.Species,
		Breed:              r.Breed,
		Color:              r.Color,
		Weight:             r.Weight,
		LastPinnedLocation: r.LastPinnedLocation,
		PetImg:             r.PetImg,
	}
	if r.BirthDate != nil {
		if t, err := ParseDate(*r.BirthDate); err == nil {
			upd.BirthDate = &t
		}
	}
	return upd
}

// ReminderRequest is the body of a new reminder.
type ReminderRequest struct {
	ReminderNote string `json:"reminderNote" validate:"required,min=3"`
	ReminderDate string `json:"reminderDate" validate:"required,petdate"`
	PetID        string `json:"petId" validate:"required,uuid"`
}

func (r *ReminderRequest) Reminder() *models.Reminder {
	date, _ := ParseDate(r.ReminderDate)
	return &models.Reminder{
		PetID:        r.PetID,
		ReminderDate: date,
		ReminderNote: r.ReminderNote,
	}
}
