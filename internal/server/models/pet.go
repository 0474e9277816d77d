package models

import "time"

type Pet struct {
	ID                 string    `json:"id"`
	OwnerID            string    `json:"ownerId"`
	PetName            string    `json:"petName"`
	Species            string    `json:"species"`
	Breed              string    `json:"breed"`
	BirthDate          time.Time `json:"birthDate"`
	Color              string    `json:"color"`
	Weight             string    `json:"weight"`
	LastPinnedLocation string    `json:"lastPinnedLocation"`
	PetImg             string    `json:"petImg"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// PetUpdate carries a partial update; nil fields are left unchanged.
type PetUpdate struct {
	PetName            *string
	Species            *string
	Breed              *string
	BirthDate          *time.Time
	Color              *string
	Weight             *string
	LastPinnedLocation *string
	PetImg             *string
}
