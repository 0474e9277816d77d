package models

import "time"

type Reminder struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	PetID        string    `json:"petId"`
	ReminderDate time.Time `json:"reminderDate"`
	ReminderNote string    `json:"reminderNote"`
	CreatedAt    time.Time `json:"createdAt"`
}
